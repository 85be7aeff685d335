package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"food", Food, true},
		{" transport ", Transport, true},
		{"other", Other, true},
		{"Food", "", false},
		{"bogus", "", false},
		{"", "", false},
		{"all", "", false},
	}
	for _, tc := range cases {
		got, err := ParseCategory(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q expected %q, got %q (err=%v)", tc.in, tc.want, got, err)
			}
		} else if !errors.Is(err, ErrInvalidCategory) {
			t.Fatalf("%q expected ErrInvalidCategory, got %v", tc.in, err)
		}
	}
}

func TestCategoriesAreLabelled(t *testing.T) {
	cats := Categories()
	if len(cats) != 7 {
		t.Fatalf("expected 7 categories, got %d", len(cats))
	}
	for _, c := range cats {
		if !c.Valid() || c.Label() == "Unknown" || c.Icon() == "" {
			t.Fatalf("category %q missing metadata", c)
		}
	}
	if Food.Label() != "Food & Dining" {
		t.Fatalf("unexpected label %q", Food.Label())
	}
	if Category("bogus").Label() != "Unknown" {
		t.Fatalf("expected Unknown label for bogus category")
	}

	// callers must not be able to mutate the enumeration
	cats[0] = "bogus"
	if Categories()[0] != Food {
		t.Fatalf("Categories leaked its backing array")
	}
}

func TestPatchValidate(t *testing.T) {
	bogus := Category("bogus")
	food := Food
	amount := 3.0

	if err := (Patch{Category: &food, Amount: &amount}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Patch{Category: &bogus}).Validate(); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestPatchApply(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	e := Expense{ID: "x", Description: "Coffee", Amount: 4.5, Category: Food, Date: created}

	amount := 5.25
	got := Patch{Amount: &amount}.Apply(e)
	if got.Amount != 5.25 {
		t.Fatalf("amount not applied: %v", got.Amount)
	}
	if got.ID != e.ID || got.Description != e.Description || got.Category != e.Category || !got.Date.Equal(created) {
		t.Fatalf("untouched fields changed: %+v", got)
	}

	if !(Patch{}).IsEmpty() {
		t.Fatalf("zero patch should be empty")
	}
}
