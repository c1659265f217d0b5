// Package formatter renders generated card records into the text encodings
// offered by the generator form.
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"strings"

	"github.com/Veraticus/ccgen/internal/model"
)

// Tag names an output encoding.
type Tag string

// Supported output tags.
const (
	Pipe Tag = "pipe"
	CSV  Tag = "csv"
	SQL  Tag = "sql"
	JSON Tag = "json"
	XML  Tag = "xml"
)

var tags = []Tag{Pipe, CSV, SQL, JSON, XML}

// Tags returns every supported tag in display order.
func Tags() []Tag {
	out := make([]Tag, len(tags))
	copy(out, tags)
	return out
}

// ParseTag resolves a tag case-insensitively; unknown values fall back to Pipe.
func ParseTag(s string) Tag {
	t := Tag(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range tags {
		if t == known {
			return t
		}
	}
	return Pipe
}

// Next returns the tag after t in display order, wrapping around.
func (t Tag) Next() Tag {
	for i, known := range tags {
		if known == t {
			return tags[(i+1)%len(tags)]
		}
	}
	return Pipe
}

// line is a record flattened to the fields every encoding needs.
type line struct {
	number string
	expiry string
	month  string
	year   string
	cvv    string
}

func flatten(r model.Record) line {
	month, year := r.MonthYear()
	return line{
		number: r.Number,
		expiry: r.ExpiryString(),
		month:  month,
		year:   year,
		cvv:    r.CVV,
	}
}

// Format renders records in the encoding named by tag. The money annotation is
// only written when both its currency and balance are non-empty.
func Format(records []model.Record, tag string, money *model.Money) string {
	var m *model.Money
	if money.Present() {
		m = &model.Money{
			Currency: strings.TrimSpace(money.Currency),
			Balance:  strings.TrimSpace(money.Balance),
		}
	}

	lines := make([]line, len(records))
	for i, r := range records {
		lines[i] = flatten(r)
	}

	switch ParseTag(tag) {
	case CSV:
		return formatCSV(lines, m)
	case SQL:
		return joinLines(lines, m, sqlLine)
	case JSON:
		return formatJSON(lines, m)
	case XML:
		return joinLines(lines, m, xmlLine)
	default:
		return joinLines(lines, m, pipeLine)
	}
}

func joinLines(lines []line, m *model.Money, render func(line, *model.Money) string) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = render(l, m)
	}
	return strings.Join(out, "\n")
}

func pipeLine(l line, m *model.Money) string {
	fields := []string{l.number, l.expiry, l.cvv}
	if m != nil {
		fields = append(fields, m.Currency, m.Balance)
	}
	return strings.Join(fields, "|")
}

func formatCSV(lines []line, m *model.Money) string {
	if len(lines) == 0 {
		return ""
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, l := range lines {
		fields := []string{l.number, l.expiry, l.cvv}
		if m != nil {
			fields = append(fields, m.Currency, m.Balance)
		}
		// Writes to a bytes.Buffer cannot fail.
		_ = w.Write(fields)
	}
	w.Flush()

	return strings.TrimSuffix(buf.String(), "\n")
}

func sqlLine(l line, m *model.Money) string {
	columns := "number, month, year, cvv"
	values := []string{l.number, padMonth(l.month), l.year, l.cvv}
	if m != nil {
		columns += ", currency, balance"
		values = append(values, m.Currency, m.Balance)
	}

	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return "INSERT INTO cards(" + columns + ") VALUES (" + strings.Join(quoted, ",") + ");"
}

func padMonth(month string) string {
	if month != "" && len(month) < 2 {
		return "0" + month
	}
	return month
}

type jsonCard struct {
	Number   string `json:"number"`
	Month    string `json:"month"`
	Year     string `json:"year"`
	CVV      string `json:"cvv"`
	Currency string `json:"currency,omitempty"`
	Balance  string `json:"balance,omitempty"`
}

func formatJSON(lines []line, m *model.Money) string {
	cards := make([]jsonCard, len(lines))
	for i, l := range lines {
		cards[i] = jsonCard{Number: l.number, Month: l.month, Year: l.year, CVV: l.cvv}
		if m != nil {
			cards[i].Currency = m.Currency
			cards[i].Balance = m.Balance
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cards); err != nil {
		// Plain string fields always encode.
		return "[]"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func xmlLine(l line, m *model.Money) string {
	var b strings.Builder
	b.WriteString("<card>")
	element(&b, "number", l.number)
	element(&b, "month", l.month)
	element(&b, "year", l.year)
	element(&b, "cvv", l.cvv)
	if m != nil {
		element(&b, "currency", m.Currency)
		element(&b, "balance", m.Balance)
	}
	b.WriteString("</card>")
	return b.String()
}

func element(b *strings.Builder, name, value string) {
	b.WriteString("<" + name + ">")
	// EscapeText only fails on writer errors, and strings.Builder never errors.
	_ = xml.EscapeText(b, []byte(value))
	b.WriteString("</" + name + ">")
}
