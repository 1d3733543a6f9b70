package settings

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Minutes is the polling period. Zero, negative or non-numeric values mean
// auto-refresh is disabled.
type Minutes float64

// ParseMinutes converts free-form input into Minutes. Anything that is not a
// finite number yields 0.
func ParseMinutes(s string) Minutes {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Minutes(f)
}

// Enabled reports whether the value schedules a recurring refresh.
func (m Minutes) Enabled() bool {
	f := float64(m)
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Every converts the value into a period measured in unit (normally
// time.Minute). It returns 0 when the value is not Enabled.
func (m Minutes) Every(unit time.Duration) time.Duration {
	if !m.Enabled() || unit <= 0 {
		return 0
	}
	f := float64(m) * float64(unit)
	if f >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	if f < 1 {
		return 1
	}
	return time.Duration(f)
}

// String renders the value the way a settings form shows it.
func (m Minutes) String() string {
	return strconv.FormatFloat(float64(m), 'f', -1, 64)
}

// MarshalJSON never emits NaN or Inf, which encoding/json rejects.
func (m Minutes) MarshalJSON() ([]byte, error) {
	f := float64(m)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}
	return json.Marshal(f)
}

// UnmarshalJSON accepts a number or a numeric string. Other values decode
// to 0 instead of failing the whole settings file.
func (m *Minutes) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	var f float64
	if err := json.Unmarshal(trimmed, &f); err == nil {
		*m = Minutes(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		*m = ParseMinutes(s)
		return nil
	}
	*m = 0
	return nil
}
