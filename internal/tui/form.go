package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/ccgen/internal/formatter"
)

// field identifies one row of the form.
type field int

const (
	fieldBIN field = iota
	fieldQuantity
	fieldFormat
	fieldDate
	fieldMonth
	fieldYear
	fieldCVCToggle
	fieldCVC
	fieldMoney
	fieldCurrency
	fieldBalance
	fieldCount
)

// yearSpan is how many years past the current one the year field offers.
const yearSpan = 15

var fieldLabels = [fieldCount]string{
	fieldBIN:       "BIN",
	fieldQuantity:  "Quantity",
	fieldFormat:    "Format",
	fieldDate:      "Date",
	fieldMonth:     "Month",
	fieldYear:      "Year",
	fieldCVCToggle: "Custom CVC",
	fieldCVC:       "CVC",
	fieldMoney:     "Money",
	fieldCurrency:  "Currency",
	fieldBalance:   "Balance",
}

func (f field) String() string {
	if f < 0 || f >= fieldCount {
		return "unknown"
	}
	return fieldLabels[f]
}

func (f field) isInput() bool {
	switch f {
	case fieldBIN, fieldQuantity, fieldCVC, fieldCurrency, fieldBalance:
		return true
	}
	return false
}

func (f field) isToggle() bool {
	return f == fieldDate || f == fieldCVCToggle || f == fieldMoney
}

func (f field) isSelect() bool {
	return f == fieldFormat || f == fieldMonth || f == fieldYear
}

// yearOptions lists "" (random) followed by the current year and the next
// yearSpan years.
func yearOptions(now time.Time) []string {
	current := now.Year()
	opts := make([]string, 0, yearSpan+2)
	opts = append(opts, "")
	for y := current; y <= current+yearSpan; y++ {
		opts = append(opts, strconv.Itoa(y))
	}
	return opts
}

// monthOptions lists "" (random) followed by the selectable months. Months
// already past are left out when year is the current year.
func monthOptions(year string, now time.Time) []string {
	first := 1
	if year == strconv.Itoa(now.Year()) {
		first = int(now.Month())
	}

	opts := make([]string, 0, 13)
	opts = append(opts, "")
	for mo := first; mo <= 12; mo++ {
		opts = append(opts, fmt.Sprintf("%02d", mo))
	}
	return opts
}

// cycle returns the option delta steps away from current, wrapping around.
// An unknown current value starts from the first option.
func cycle(opts []string, current string, delta int) string {
	if len(opts) == 0 {
		return ""
	}
	idx := 0
	for i, o := range opts {
		if o == current {
			idx = i
			break
		}
	}
	n := len(opts)
	return opts[((idx+delta)%n+n)%n]
}

func contains(opts []string, value string) bool {
	for _, o := range opts {
		if o == value {
			return true
		}
	}
	return false
}

// cycleTag steps through the output formats.
func cycleTag(t formatter.Tag, delta int) formatter.Tag {
	tags := formatter.Tags()
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = string(tag)
	}
	return formatter.Tag(cycle(names, string(t), delta))
}

// parseQuantity reads the quantity field. Blank means the default; anything
// that is not a number is reported as invalid.
func parseQuantity(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

func displayOption(value string) string {
	if value == "" {
		return "Random"
	}
	return value
}
