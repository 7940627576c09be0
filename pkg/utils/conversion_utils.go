package utils

import (
	"math"
	"strconv"
	"strings"
)

// Int64ToStr converts an int64 to its string representation.
func Int64ToStr(num int64) string {
	return strconv.FormatInt(num, 10)
}

// StrToInt64 converts a string to an int64.
// Returns 0 and an error if the conversion fails.
func StrToInt64(s string) (int64, error) {
	num, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	return num, nil
}

// ParseLeadingInt reads an optionally signed run of digits at the start of s
// (after leading whitespace) and ignores whatever follows, so "12abc" is 12.
// ok is false when no digit is found.
func ParseLeadingInt(s string) (n int, ok bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	i := 0
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 0, false
	}
	v, err := strconv.ParseInt(s[start:i], 10, 64)
	if err != nil {
		// overflow; saturate like the numeric clamp below
		v = math.MaxInt32
	}
	if neg {
		v = -v
	}
	return ClampInt(v), true
}

// TruncateToInt drops the fractional part and saturates at the int32 range,
// which is plenty for point and visit counters.
func TruncateToInt(f float64) int {
	if math.IsNaN(f) {
		return 0
	}
	return ClampInt(int64(math.Max(math.Min(math.Trunc(f), math.MaxInt32), math.MinInt32)))
}

// ClampInt narrows v into the int32 range.
func ClampInt(v int64) int {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int(v)
}
