package cli

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"

	"github.com/cargonote/cargonote/internal/common"
)

// DisplayUnit is the won value of one 만원, the unit drivers quote
// fares and fuel bills in. Amounts are entered in 만원 and stored in won.
const DisplayUnit = 10_000

// ParseAmount converts a 만원 decimal string to won with half-up
// rounding past the fourth decimal place. It accepts both dot and
// comma separators and an empty string (zero). Negative amounts are
// rejected with common.ErrNegativeAmount.
//
// Examples:
//
//	ParseAmount("5.25") -> 52500
//	ParseAmount("0.1")  -> 1000
//	ParseAmount("12")   -> 120000
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "-") {
		return 0, common.ErrNegativeAmount
	}
	s = strings.TrimPrefix(s, "+")

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, common.ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" && fracPart == "" {
		return 0, common.ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, common.ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, common.ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, common.ErrInvalidAmount
	}
	const maxSafe = (1<<63 - 1) / DisplayUnit
	if iv > maxSafe {
		return 0, common.ErrInvalidAmount
	}

	// First four fractional digits carry value; the fifth rounds half-up.
	var fracWon int64
	scale := int64(DisplayUnit / 10)
	for i := 0; i < len(fracPart) && i < 4; i++ {
		fracWon += int64(fracPart[i]-'0') * scale
		scale /= 10
	}
	if len(fracPart) > 4 && fracPart[4] >= '5' {
		fracWon++
	}
	// At maxSafe the fraction can overflow the remaining headroom.
	if iv == maxSafe && fracWon > (1<<63-1)%DisplayUnit {
		return 0, common.ErrInvalidAmount
	}
	return iv*DisplayUnit + fracWon, nil
}

// FormatKRW renders a won amount with thousands separators and the
// currency suffix, e.g. 52500 -> "52,500원".
func FormatKRW(v int64) string {
	return humanize.Comma(v) + "원"
}

// FormatMan renders a won amount back in 만원, trimming trailing
// zeros, e.g. 52500 -> "5.25만원".
func FormatMan(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	whole := v / DisplayUnit
	frac := v % DisplayUnit
	out := strconv.FormatInt(whole, 10)
	if frac != 0 {
		digits := strings.TrimRight(strconv.FormatInt(frac+DisplayUnit, 10)[1:], "0")
		out += "." + digits
	}
	if neg {
		out = "-" + out
	}
	return out + "만원"
}
