package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"12", 1200, false},
		{".50", 50, false},
		{"12.345", 1235, false}, // third digit rounds half-up
		{"12.344", 1234, false},
		{"12.346", 1235, false}, // rounds up
		{"0", 0, true},
		{"0.00", 0, true},
		{"-5", 0, true},
		{"+5", 0, true},
		{"", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMoneyString(t *testing.T) {
	if got := (Money{Cents: 1234}).String(); got != "12.34" {
		t.Fatalf("got %q", got)
	}
	if got := (Money{Cents: 5}).String(); got != "0.05" {
		t.Fatalf("got %q", got)
	}
	if got := (Money{Cents: -250}).String(); got != "-2.50" {
		t.Fatalf("got %q", got)
	}
}

func TestConvert(t *testing.T) {
	usd := Currency{Code: "USD", Rate: 1}
	eur := Currency{Code: "EUR", Rate: 0.85}

	got := Convert(Money{Cents: 10000}, usd, eur)
	if got.Cents != 8500 {
		t.Fatalf("got %d cents, want 8500", got.Cents)
	}

	// Zero-rate source currency leaves the amount untouched.
	got = Convert(Money{Cents: 100}, Currency{}, eur)
	if got.Cents != 100 {
		t.Fatalf("got %d cents, want 100", got.Cents)
	}
}
