package v1

import (
	"errors"
	"slices"
	"testing"

	"github.com/givehope/donation-service/internal/core/domain"
)

func TestNormalizeCSVDropsEmptySegments(t *testing.T) {
	items, err := NormalizeAcceptedItems("Books, Toys, , Clothes")
	if err != nil {
		t.Fatalf("NormalizeAcceptedItems: %v", err)
	}
	want := []string{"Books", "Toys", "Clothes"}
	if !slices.Equal(items, want) {
		t.Errorf("expected %v, got %v", want, items)
	}
}

func TestNormalizeJSONString(t *testing.T) {
	items, err := NormalizeAcceptedItems(`["Medicines", "Wheelchairs"]`)
	if err != nil {
		t.Fatalf("NormalizeAcceptedItems: %v", err)
	}
	if !slices.Equal(items, []string{"Medicines", "Wheelchairs"}) {
		t.Errorf("unexpected items %v", items)
	}
}

func TestNormalizeNativeArray(t *testing.T) {
	// JSON bodies decode arrays as []any.
	items, err := NormalizeAcceptedItems([]any{" Books ", "Toys"})
	if err != nil {
		t.Fatalf("NormalizeAcceptedItems: %v", err)
	}
	if !slices.Equal(items, []string{"Books", "Toys"}) {
		t.Errorf("unexpected items %v", items)
	}
}

func TestNormalizeDeduplicatesPreservingOrder(t *testing.T) {
	items, err := NormalizeAcceptedItems("Books,Toys,Books,Clothes,Toys")
	if err != nil {
		t.Fatalf("NormalizeAcceptedItems: %v", err)
	}
	if !slices.Equal(items, []string{"Books", "Toys", "Clothes"}) {
		t.Errorf("unexpected items %v", items)
	}
}

func TestNormalizeMalformedJSONFallsBackToCSV(t *testing.T) {
	items, err := NormalizeAcceptedItems(`[Books, Toys`)
	if err != nil {
		t.Fatalf("NormalizeAcceptedItems: %v", err)
	}
	if !slices.Equal(items, []string{"[Books", "Toys"}) {
		t.Errorf("unexpected items %v", items)
	}
}

func TestNormalizeRejectsEmptyResult(t *testing.T) {
	for _, input := range []any{"", " , ,", []any{}, []string{"  "}} {
		if _, err := NormalizeAcceptedItems(input); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("input %v: expected ErrInvalidInput, got %v", input, err)
		}
	}
}

func TestNormalizeRejectsWrongType(t *testing.T) {
	if _, err := NormalizeAcceptedItems(42); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
