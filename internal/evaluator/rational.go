package evaluator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rational is a signed fraction in lowest terms with the sign on the
// numerator. The zero value is not valid; use NewRational.
type Rational struct {
	Num int64
	Den int64
}

// NewRational reduces num/den and moves the sign onto the numerator.
func NewRational(num, den int64) (Rational, error) {
	if den == 0 {
		return Rational{}, fmt.Errorf("zero denominator")
	}
	if den < 0 {
		num = -num
		den = -den
	}
	g := gcd(abs(num), den)
	return Rational{Num: num / g, Den: den / g}, nil
}

// String renders the canonical form: "n" for integers, "n/d" otherwise.
func (r Rational) String() string {
	if r.Den == 1 {
		return strconv.FormatInt(r.Num, 10)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// Float returns the value as a float64.
func (r Rational) Float() float64 {
	return float64(r.Num) / float64(r.Den)
}

// Neg returns -r.
func (r Rational) Neg() Rational {
	return Rational{Num: -r.Num, Den: r.Den}
}

// IsInteger reports whether the denominator is 1.
func (r Rational) IsInteger() bool {
	return r.Den == 1
}

// ParseCanonical parses an answer key such as "-1/7", "1/-7", "5" or "0.25"
// into its reduced form. Content authors use this form for expected answers.
func ParseCanonical(s string) (Rational, error) {
	n, err := parseNumeral(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if err != nil {
		return Rational{}, err
	}
	return n.value, nil
}

// numeral is a parsed numeric token that keeps the shape the student used,
// which the partial-credit diagnostics depend on.
type numeral struct {
	value   Rational
	num     int64 // unreduced numerator, carries the sign
	den     int64 // unreduced denominator, always positive
	slash   bool
	decimal bool
}

// parseNumeral parses a compact numeric token: "7", "-3", "2/6", "1/-7",
// "0.25" or the repeating form "0.333...".
func parseNumeral(tok string) (numeral, error) {
	if tok == "" {
		return numeral{}, fmt.Errorf("empty number")
	}

	if before, after, ok := strings.Cut(tok, "/"); ok {
		num, err := strconv.ParseInt(before, 10, 64)
		if err != nil {
			return numeral{}, fmt.Errorf("invalid numerator: %w", err)
		}
		den, err := strconv.ParseInt(after, 10, 64)
		if err != nil {
			return numeral{}, fmt.Errorf("invalid denominator: %w", err)
		}
		if den < 0 {
			num, den = -num, -den
		}
		v, err := NewRational(num, den)
		if err != nil {
			return numeral{}, err
		}
		return numeral{value: v, num: num, den: den, slash: true}, nil
	}

	if strings.ContainsAny(tok, ".…") {
		v, err := parseDecimal(tok)
		if err != nil {
			return numeral{}, err
		}
		return numeral{value: v, num: v.Num, den: v.Den, decimal: true}, nil
	}

	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return numeral{}, fmt.Errorf("invalid integer: %w", err)
	}
	return numeral{value: Rational{Num: n, Den: 1}, num: n, den: 1}, nil
}

// maxDecimalDigits bounds fractional digits so 10^k stays inside int64.
const maxDecimalDigits = 15

// parseDecimal converts a decimal string to an exact rational. A trailing
// "..." or "…" marks the last fractional digit as repeating, so "0.333..."
// is exactly 1/3 and "0.1666..." is 1/6.
func parseDecimal(tok string) (Rational, error) {
	repeating := false
	switch {
	case strings.HasSuffix(tok, "..."):
		repeating = true
		tok = strings.TrimSuffix(tok, "...")
	case strings.HasSuffix(tok, "…"):
		repeating = true
		tok = strings.TrimSuffix(tok, "…")
	}

	neg := strings.HasPrefix(tok, "-")
	tok = strings.TrimPrefix(tok, "-")

	intPart, frac, _ := strings.Cut(tok, ".")
	if intPart == "" {
		intPart = "0"
	}
	if len(frac) > maxDecimalDigits {
		frac = frac[:maxDecimalDigits]
	}
	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("invalid decimal: %w", err)
	}
	if frac == "" {
		repeating = false
	}

	var num, den int64
	switch {
	case frac == "":
		num, den = 0, 1
	case repeating:
		// 0.d1..dk with dk repeating: (d1..dk - d1..dk-1) / (10^k - 10^(k-1)).
		all, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return Rational{}, fmt.Errorf("invalid decimal: %w", err)
		}
		prefix := all / 10
		k := len(frac)
		num = all - prefix
		den = pow10(k) - pow10(k-1)
	default:
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return Rational{}, fmt.Errorf("invalid decimal: %w", err)
		}
		num, den = f, pow10(len(frac))
	}

	if whole > (math.MaxInt64-num)/den {
		return Rational{}, fmt.Errorf("decimal %q out of range", tok)
	}
	r, err := NewRational(whole*den+num, den)
	if err != nil {
		return Rational{}, err
	}
	if neg {
		r = r.Neg()
	}
	return r, nil
}

func pow10(k int) int64 {
	return int64(math.Pow10(k))
}

// gcd returns the greatest common divisor of a and b.
// Both a and b must be non-negative and b must be positive.
func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// abs returns the absolute value of n.
func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
