package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-03-15", "2024-03-15", true},
		{"2024-03-15T00:00:00Z", "2024-03-15", true},
		{"2024-03-15T10:30:00.000Z", "2024-03-15", true},
		{"15/03/2024", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("%q: unexpected error %v", tc.in, err)
			}
			if d.Calendar() != tc.want {
				t.Fatalf("%q: expected %s, got %s", tc.in, tc.want, d.Calendar())
			}
		} else if err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.March, 15)
	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2024-03-15T00:00:00Z"` {
		t.Fatalf("unexpected encoding %s", out)
	}
	var back Date
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %v vs %v", back, d)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Amount:      Money{Cents: 100},
		Date:        NewDate(2024, time.March, 15),
		Description: "Groceries",
		Category:    "food",
		Type:        TypeExpense,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// Empty description and unknown category are both tolerated.
	legacy := good
	legacy.Description = ""
	legacy.Category = "xyz"
	if err := legacy.Validate(); err != nil {
		t.Fatalf("legacy record should validate, got %v", err)
	}

	bads := []Transaction{
		{Amount: Money{Cents: -1}, Date: NewDate(2024, time.March, 15), Type: TypeExpense},
		{Amount: Money{Cents: 100}, Type: TypeExpense}, // zero date
		{Amount: Money{Cents: 100}, Date: NewDate(2024, time.March, 15), Type: "transfer"},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{Category: "food", Amount: Money{Cents: 50000}, Month: "03", Year: 2024}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if got := good.MonthNumber(); got != 3 {
		t.Fatalf("expected month 3, got %d", got)
	}

	bads := []Budget{
		{Category: "", Amount: Money{Cents: 1}, Month: "3", Year: 2024},
		{Category: "food", Amount: Money{Cents: -1}, Month: "3", Year: 2024},
		{Category: "food", Amount: Money{Cents: 1}, Month: "13", Year: 2024},
		{Category: "food", Amount: Money{Cents: 1}, Month: "x", Year: 2024},
		{Category: "food", Amount: Money{Cents: 1}, Month: "3", Year: 0},
	}
	for i, b := range bads {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestLookupCategory(t *testing.T) {
	if got := LookupCategory("food"); got.Label != "Food & Dining" {
		t.Fatalf("expected Food & Dining, got %s", got.Label)
	}
	// Unknown keys fall back to Other, never an error.
	if got := LookupCategory("xyz"); got.Key != FallbackCategory || got.Label != "Other" {
		t.Fatalf("expected fallback entry, got %+v", got)
	}
	if len(Categories) != 10 {
		t.Fatalf("catalog must hold exactly ten entries, got %d", len(Categories))
	}
	if KnownCategory("xyz") || !KnownCategory("transport") {
		t.Fatalf("KnownCategory misclassified a key")
	}
}
