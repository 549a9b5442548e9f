// Package medication contains the dose parsing and schedule derivation logic
// for medication records. Every function here is pure: plain values in, new
// values out, so the package is testable without an HTTP or storage harness.
package medication

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// DefaultDoseUnits is the dose unit vocabulary recognized in product labels.
// Matching is case-sensitive and word-boundary delimited.
var DefaultDoseUnits = []string{"mg", "g", "mcg", "µg", "ml", "IU"}

// Dose is the structured result of parsing a product label.
// It is derived data only, never hand-edited.
type Dose struct {
	Name   string `json:"name"`
	Amount int    `json:"dose_amount"`
	Unit   string `json:"dose_unit"`
	Form   string `json:"form"`
}

// LabelParser extracts structured dose information from free-text product
// labels of the shape "<name> <amount> <unit>, <form>". The comma before the
// form is optional, as is the space between amount and unit.
type LabelParser struct {
	pattern *regexp.Regexp
}

// NewLabelParser builds a parser for the given unit vocabulary. Longer units
// are tried first so that a unit is never shadowed by one of its prefixes.
func NewLabelParser(units []string) *LabelParser {
	sorted := make([]string, len(units))
	copy(sorted, units)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})

	escaped := make([]string, len(sorted))
	for i, u := range sorted {
		escaped[i] = regexp.QuoteMeta(u)
	}

	return &LabelParser{
		pattern: regexp.MustCompile(
			`^(.+?)\s+(\d+)\s*(` + strings.Join(escaped, "|") + `)\b\s*,?\s*(.*)$`,
		),
	}
}

// NewDefaultLabelParser builds a parser for DefaultDoseUnits.
func NewDefaultLabelParser() *LabelParser {
	return NewLabelParser(DefaultDoseUnits)
}

// Parse extracts a Dose from a product label. The second return value is
// false when the label does not match the expected shape; in that case the
// Dose is the zero value and no partial extraction happens. The non-greedy
// name group makes a label with several candidate units match on the first
// unit occurrence scanning left to right.
func (p *LabelParser) Parse(label string) (Dose, bool) {
	m := p.pattern.FindStringSubmatch(label)
	if m == nil {
		return Dose{}, false
	}

	amount, err := strconv.Atoi(m[2])
	if err != nil || amount <= 0 {
		return Dose{}, false
	}

	return Dose{
		Name:   strings.TrimSpace(m[1]),
		Amount: amount,
		Unit:   m[3],
		Form:   strings.TrimSpace(m[4]),
	}, true
}
