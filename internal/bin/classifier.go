// Package bin classifies bank identification number prefixes into card
// networks and the CVC length those networks use.
package bin

import (
	"strings"

	"github.com/Veraticus/ccgen/internal/model"
)

// Default CVC lengths.
const (
	ShortCVC = 3
	LongCVC  = 4
)

// MinLength is the number of digits a BIN needs before it is sent to the API.
const MinLength = 6

// Classification is the network and CVC length derived from a BIN prefix.
type Classification struct {
	Network   model.Network `json:"network"`
	CVCLength int           `json:"cvcLength"`
}

// rule is one row of the decision table. Ranges compare the leading
// `width` digits as strings, so a shorter prefix compares as a shorter string.
type rule struct {
	result Classification
	match  func(prefix string) bool
}

var rules = []rule{
	{classification(model.NetworkAmex, LongCVC), oneOf(2, "34", "37")},
	{classification(model.NetworkDiners, LongCVC), between(3, "300", "305")},
	{classification(model.NetworkDiners, LongCVC), oneOf(2, "36", "38")},
	{classification(model.NetworkJCB, LongCVC), oneOf(2, "35")},
	// Unlabelled 3-series prefixes still carry a four digit CVC.
	{classification(model.NetworkUnknown, LongCVC), oneOf(1, "3")},
	{classification(model.NetworkVisa, ShortCVC), oneOf(1, "4")},
	{classification(model.NetworkMastercard, ShortCVC), between(2, "51", "55")},
	{classification(model.NetworkMastercard, ShortCVC), between(4, "2221", "2720")},
	{classification(model.NetworkDiscover, ShortCVC), oneOf(4, "6011")},
	{classification(model.NetworkDiscover, ShortCVC), between(6, "622126", "622925")},
	{classification(model.NetworkDiscover, ShortCVC), between(6, "624000", "626999")},
	{classification(model.NetworkDiscover, ShortCVC), between(6, "628200", "628899")},
	{classification(model.NetworkDiscover, ShortCVC), oneOf(2, "65")},
}

var unknown = classification(model.NetworkUnknown, ShortCVC)

// Classify maps a BIN prefix to its card network and CVC length. Non-digit
// characters are ignored; anything unrecognized is Unknown with a 3 digit CVC.
func Classify(prefix string) Classification {
	digits := Digits(prefix)
	if digits == "" {
		return unknown
	}

	for _, r := range rules {
		if r.match(digits) {
			return r.result
		}
	}
	return unknown
}

// CVCLength is shorthand for Classify(prefix).CVCLength.
func CVCLength(prefix string) int {
	return Classify(prefix).CVCLength
}

// Network is shorthand for Classify(prefix).Network.
func Network(prefix string) model.Network {
	return Classify(prefix).Network
}

func classification(network model.Network, cvcLength int) Classification {
	return Classification{Network: network, CVCLength: cvcLength}
}

func lead(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

func oneOf(width int, values ...string) func(string) bool {
	return func(prefix string) bool {
		head := lead(prefix, width)
		for _, v := range values {
			if head == v {
				return true
			}
		}
		return false
	}
}

func between(width int, lo, hi string) func(string) bool {
	return func(prefix string) bool {
		head := lead(prefix, width)
		return head >= lo && head <= hi
	}
}

// Digits strips every non-digit character from s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
