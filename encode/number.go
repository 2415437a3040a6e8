package encode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatNumber formats f the way JavaScript's Number#toString does: plain
// decimal for magnitudes in [1e-6, 1e21), shortest exponent form otherwise.
func FormatNumber(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: non-finite number %v", ErrEncoding, f)
	}
	if f == 0 {
		return "0", nil
	}
	if a := math.Abs(f); a >= 1e-6 && a < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	digits := strings.TrimLeft(exp[1:], "0")
	return mant + "e" + exp[:1] + digits, nil
}
