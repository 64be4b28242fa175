package handlers

import (
	"errors"
	"testing"
)

func TestParsePaginationDefaults(t *testing.T) {
	page, limit, err := parsePaginationParams("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != 1 || limit != 20 {
		t.Fatalf("expected defaults 1/20, got %d/%d", page, limit)
	}
}

func TestParsePaginationValues(t *testing.T) {
	page, limit, err := parsePaginationParams("3", "50")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != 3 || limit != 50 {
		t.Fatalf("expected 3/50, got %d/%d", page, limit)
	}
}

func TestParsePaginationRejectsBadInput(t *testing.T) {
	cases := [][2]string{
		{"0", "20"},
		{"-1", "20"},
		{"1", "0"},
		{"abc", "20"},
		{"1", "abc"},
	}
	for _, tc := range cases {
		_, _, err := parsePaginationParams(tc[0], tc[1])
		if !errors.Is(err, errInvalidPagination) {
			t.Fatalf("page=%q limit=%q: expected errInvalidPagination, got %v", tc[0], tc[1], err)
		}
	}
}
