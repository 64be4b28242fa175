package checkout

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// MinChargeCents is the smallest amount the processor will charge.
const MinChargeCents = 50

// LineRequest is a client-submitted cart line. Only the catalog references
// and quantity are trusted.
type LineRequest struct {
	ItemID    string `json:"itemId" binding:"required"`
	VariantID string `json:"variantId"`
	Quantity  int64  `json:"quantity" binding:"required"`
}

// PricedLine is an authoritative line with the server-looked-up name and
// price. UnitAmount is cents.
type PricedLine struct {
	ItemID     string
	Name       string
	UnitPrice  float64
	UnitAmount int64
	Quantity   int64
}

// PriceLines recomputes names, prices, and quantities from the catalog.
// Quantities for repeated (itemId, variantId) pairs are summed. If any
// referenced line is not purchasable the whole request is rejected with an
// UnavailableItemsError counting the bad references.
func PriceLines(ctx context.Context, catalog CatalogResolver, lines []LineRequest) ([]PricedLine, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	type lineKey struct {
		itemID    string
		variantID string
	}

	order := make([]lineKey, 0, len(lines))
	quantities := make(map[lineKey]int64, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, &InvalidQuantityError{ItemID: line.ItemID}
		}
		key := lineKey{itemID: line.ItemID, variantID: line.VariantID}
		if _, seen := quantities[key]; !seen {
			order = append(order, key)
		}
		quantities[key] += line.Quantity
	}

	priced := make([]PricedLine, 0, len(order))
	unavailable := 0
	for _, key := range order {
		resolved, err := catalog.ResolveLine(ctx, key.itemID, key.variantID)
		if errors.Is(err, ErrLineNotFound) {
			unavailable++
			continue
		}
		if err != nil {
			return nil, err
		}

		lineID := key.itemID
		if key.variantID != "" {
			lineID = key.itemID + ":" + key.variantID
		}
		priced = append(priced, PricedLine{
			ItemID:     lineID,
			Name:       resolved.Name,
			UnitPrice:  resolved.Price,
			UnitAmount: DollarsToCents(resolved.Price),
			Quantity:   quantities[key],
		})
	}

	if unavailable > 0 {
		return nil, &UnavailableItemsError{Count: unavailable}
	}
	return priced, nil
}

// DollarsToCents converts a dollar amount to processor minor units, rounding
// half away from zero.
func DollarsToCents(dollars float64) int64 {
	return decimal.NewFromFloat(dollars).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CentsToDollars converts processor minor units back to a dollar amount.
func CentsToDollars(cents int64) float64 {
	value, _ := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).Float64()
	return value
}
