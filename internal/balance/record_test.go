package balance

import (
	"encoding/json"
	"testing"

	"golang.org/x/text/language"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	return v
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantName  string
		wantValue *float64
	}{
		{
			name:      "full record",
			body:      `{"results":[{"name":{"first":"Dana","last":"Levi"},"location":{"street":{"number":5000}}}]}`,
			wantName:  "Dana Levi",
			wantValue: ptr(5000),
		},
		{
			name:      "numeric string amount",
			body:      `{"results":[{"name":{"first":"A"},"location":{"street":{"number":" 12.5 "}}}]}`,
			wantName:  "A",
			wantValue: ptr(12.5),
		},
		{
			name:     "empty results",
			body:     `{"results":[]}`,
			wantName: "",
		},
		{
			name:     "wrong shapes",
			body:     `{"results":[{"name":"Dana","location":[1,2]}]}`,
			wantName: "",
		},
		{
			name:     "not an object",
			body:     `[1,2,3]`,
			wantName: "",
		},
		{
			name:     "non numeric amount",
			body:     `{"results":[{"name":{"last":"B"},"location":{"street":{"number":"forty"}}}]}`,
			wantName: "B",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Extract(decode(t, tt.body))
			if rec.FullName() != tt.wantName {
				t.Fatalf("FullName = %q, want %q", rec.FullName(), tt.wantName)
			}
			switch {
			case tt.wantValue == nil && rec.Amount != nil:
				t.Fatalf("Amount = %v, want nil", *rec.Amount)
			case tt.wantValue != nil && (rec.Amount == nil || *rec.Amount != *tt.wantValue):
				t.Fatalf("Amount = %v, want %v", rec.Amount, *tt.wantValue)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		v    float64
		tag  language.Tag
		want string
	}{
		{42, language.MustParse("he-IL"), "42"},
		{5000, language.MustParse("he-IL"), "5,000"},
		{5000, language.AmericanEnglish, "5,000"},
		{5000, language.German, "5.000"},
		{1234.5, language.AmericanEnglish, "1,234.5"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.v, tt.tag); got != tt.want {
			t.Fatalf("FormatAmount(%v, %v) = %q, want %q", tt.v, tt.tag, got, tt.want)
		}
	}
}

func ptr(f float64) *float64 { return &f }
