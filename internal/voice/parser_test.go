package voice

import (
	"testing"

	"tally/internal/core"
)

func TestParseSpokenExpense(t *testing.T) {
	tests := []struct {
		name         string
		transcript   string
		wantCents    int64 // 0 means no amount expected
		wantCategory core.Category
		wantDesc     string
	}{
		{
			name:         "dollar sign with connector",
			transcript:   "I spent $25 on lunch at McDonald's",
			wantCents:    2500,
			wantCategory: core.CategoryFood,
			wantDesc:     "I spent lunch at McDonald's",
		},
		{
			name:         "spelled out dollars",
			transcript:   "Paid 60 dollars for gas",
			wantCents:    6000,
			wantCategory: core.CategoryTransportation,
			wantDesc:     "gas",
		},
		{
			name:         "bucks",
			transcript:   "15 bucks parking",
			wantCents:    1500,
			wantCategory: core.CategoryTransportation,
			wantDesc:     "parking",
		},
		{
			name:         "decimal amount",
			transcript:   "coffee cost 4.75",
			wantCents:    475,
			wantCategory: core.CategoryFood,
			wantDesc:     "coffee cost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.transcript, 0.92)

			if tt.wantCents > 0 {
				if got.Amount == nil {
					t.Fatalf("no amount extracted from %q", tt.transcript)
				}
				if got.Amount.Cents != tt.wantCents {
					t.Errorf("amount = %d cents, want %d", got.Amount.Cents, tt.wantCents)
				}
			} else if got.Amount != nil {
				t.Errorf("unexpected amount %d", got.Amount.Cents)
			}

			if got.Category == nil {
				t.Fatalf("no category extracted from %q", tt.transcript)
			}
			if *got.Category != tt.wantCategory {
				t.Errorf("category = %q, want %q", *got.Category, tt.wantCategory)
			}
			if got.Description != tt.wantDesc {
				t.Errorf("description = %q, want %q", got.Description, tt.wantDesc)
			}
			if got.Confidence != 0.92 {
				t.Errorf("confidence = %v, want pass-through 0.92", got.Confidence)
			}
			if got.RawText != tt.transcript {
				t.Errorf("raw text = %q", got.RawText)
			}
		})
	}
}

func TestParseFirstAmountPatternWins(t *testing.T) {
	// "$30" and "20 dollars" both present; the dollar-sign pattern is
	// tried first.
	got := Parse("spent $30 not 20 dollars", 1)
	if got.Amount == nil || got.Amount.Cents != 3000 {
		t.Fatalf("amount = %+v, want 3000 cents", got.Amount)
	}
}

func TestParseCategoryOrderIsStable(t *testing.T) {
	// "lunch" (food) and "uber" (transportation) both match; food is
	// listed first.
	got := Parse("uber to lunch", 1)
	if got.Category == nil || *got.Category != core.CategoryFood {
		t.Fatalf("category = %v, want food", got.Category)
	}
}

func TestParseNoAmountNoCategory(t *testing.T) {
	got := Parse("something unrecognizable", 0.4)
	if got.Amount != nil {
		t.Errorf("unexpected amount %+v", got.Amount)
	}
	if got.Category != nil {
		t.Errorf("unexpected category %v", *got.Category)
	}
	if got.Description != "something unrecognizable" {
		t.Errorf("description = %q, want raw transcript", got.Description)
	}
}

func TestParseDescriptionFallsBackToRaw(t *testing.T) {
	got := Parse("$12.50", 1)
	if got.Amount == nil || got.Amount.Cents != 1250 {
		t.Fatalf("amount = %+v, want 1250 cents", got.Amount)
	}
	if got.Description != "$12.50" {
		t.Errorf("description = %q, want raw transcript fallback", got.Description)
	}
}
