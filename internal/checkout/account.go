package checkout

import (
	"context"
	"errors"

	"bakeshop/internal/payments"
)

// ResolveConnectedAccount verifies that the stored connected account still
// exists and can receive routed transfers. It returns the verified id, or an
// empty string when funds should settle to the default account: no account is
// configured, the account is gone, or its transfer capability is not active.
// A missing account is an expected degraded state, never an error. Only
// processor infrastructure failures are returned.
func ResolveConnectedAccount(ctx context.Context, processor payments.Processor, accountID string) (string, error) {
	if accountID == "" {
		return "", nil
	}

	acct, err := processor.RetrieveAccount(ctx, accountID)
	if errors.Is(err, payments.ErrAccountNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if !acct.TransfersActive {
		return "", nil
	}
	return acct.ID, nil
}
