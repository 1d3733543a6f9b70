package balance

import (
	"math"
	"strconv"
	"strings"
)

// Record is the part of the API response the card displays.
type Record struct {
	FirstName string   `json:"firstName" yaml:"firstName"`
	LastName  string   `json:"lastName" yaml:"lastName"`
	Amount    *float64 `json:"amount,omitempty" yaml:"amount,omitempty"`
}

// FullName joins the name parts, skipping empty ones.
func (r Record) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
}

// Extract reads results[0].name.{first,last} and
// results[0].location.street.number from a decoded JSON document.
func Extract(doc any) Record {
	first := dig(doc, "results", 0)
	return Record{
		FirstName: text(dig(first, "name", "first")),
		LastName:  text(dig(first, "name", "last")),
		Amount:    amount(dig(first, "location", "street", "number")),
	}
}

func dig(v any, path ...any) any {
	for _, step := range path {
		switch key := step.(type) {
		case string:
			m, ok := v.(map[string]any)
			if !ok {
				return nil
			}
			v = m[key]
		case int:
			s, ok := v.([]any)
			if !ok || key < 0 || key >= len(s) {
				return nil
			}
			v = s[key]
		default:
			return nil
		}
	}
	return v
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func amount(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
