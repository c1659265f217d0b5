package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Record is a single generated card as returned by the generation API.
// Expiry may arrive combined ("MM/YY") or as separate month and year values.
type Record struct {
	Number string `json:"number"`
	CVV    string `json:"cvv"`
	Expiry string `json:"expiry,omitempty"`
	Month  string `json:"month,omitempty"`
	Year   string `json:"year,omitempty"`
}

// GenerateResponse is the body returned by the generation API.
type GenerateResponse struct {
	Cards []Record `json:"cards"`
}

// Field aliases seen in generation API responses, in lookup order.
var (
	monthKeys = []string{"month", "mm", "M", "MO"}
	yearKeys  = []string{"year", "yy", "YY"}
)

// UnmarshalJSON accepts string or numeric values and every aliased month/year key.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Record{
		Number: scalar(raw["number"]),
		CVV:    firstOf(raw, "cvv", "cvc"),
		Expiry: scalar(raw["expiry"]),
		Month:  firstOf(raw, monthKeys...),
		Year:   firstOf(raw, yearKeys...),
	}
	return nil
}

// ExpiryString returns the "MM/YY" expiry of the record, or "" when unknown.
func (r Record) ExpiryString() string {
	if r.Expiry != "" {
		return r.Expiry
	}
	if r.Month == "" || r.Year == "" {
		return ""
	}
	return padTwo(r.Month) + "/" + padTwo(lastTwo(r.Year))
}

// MonthYear splits the expiry string into its month and year parts.
func (r Record) MonthYear() (string, string) {
	month, year, _ := strings.Cut(r.ExpiryString(), "/")
	return month, year
}

func firstOf(raw map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		if v := scalar(raw[key]); v != "" {
			return v
		}
	}
	return ""
}

// scalar renders a JSON string or number as text; anything else is empty.
func scalar(msg json.RawMessage) string {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 {
		return ""
	}

	switch msg[0] {
	case '"':
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return ""
		}
		return s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(msg, &n); err != nil {
			return ""
		}
		return n.String()
	default:
		return ""
	}
}

func padTwo(s string) string {
	if len(s) >= 2 {
		return s
	}
	return strings.Repeat("0", 2-len(s)) + s
}

func lastTwo(s string) string {
	if len(s) <= 2 {
		return s
	}
	return s[len(s)-2:]
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
