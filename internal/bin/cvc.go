package bin

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// PanLength is the card number length the BIN field is padded to for display.
const PanLength = 16

var ten = big.NewInt(10)

// GenerateCVC returns a random string of length decimal digits.
func GenerateCVC(length int) string {
	if length <= 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is unusable.
			panic(fmt.Sprintf("reading random digit: %v", err))
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String()
}

// Mask pads a BIN of at least MinLength digits with "x" up to PanLength.
// Shorter input is returned as its bare digits.
func Mask(input string) string {
	digits := Digits(input)
	if len(digits) < MinLength || len(digits) >= PanLength {
		return digits
	}
	return digits + strings.Repeat("x", PanLength-len(digits))
}

// Hint is the CVC field placeholder shown for the BIN typed so far.
func Hint(input string) string {
	digits := Digits(input)
	if digits == "" {
		return "Leave blank to randomize"
	}
	c := Classify(digits)
	return fmt.Sprintf("Leave %d-digit CVC (%s)", c.CVCLength, c.Network)
}
