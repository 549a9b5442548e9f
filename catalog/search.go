package catalog

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Search behavior required by the candidate collaborator contract.
const (
	// MinQueryLength is the minimum query size before any search runs.
	MinQueryLength = 3
	// MaxCandidates caps how many candidates a search returns.
	MaxCandidates = 5
)

// Accent folding: decompose, strip combining marks, recompose. The catalog is
// French, so "comprime" has to find "comprimé".
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases a string and strips diacritics for matching purposes.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// indexEntry pairs a product with its pre-computed folded label so that every
// query does not re-normalize the whole catalog.
type indexEntry struct {
	product Product
	folded  string
}

// Index answers fuzzy candidate lookups over a catalog snapshot. An Index is
// immutable after construction; refreshes build a new one.
type Index struct {
	entries []indexEntry
}

// NewIndex builds a search index over the given products.
func NewIndex(products []Product) *Index {
	entries := make([]indexEntry, 0, len(products))
	for _, p := range products {
		entries = append(entries, indexEntry{product: p, folded: Fold(p.Label)})
	}
	return &Index{entries: entries}
}

// Size returns the number of indexed products.
func (ix *Index) Size() int {
	return len(ix.entries)
}

// Search returns at most MaxCandidates products matching the query. Queries
// shorter than MinQueryLength (after trimming) return no candidates. Label
// prefix matches rank before word-prefix matches, which rank before plain
// substring matches; ties keep label order for stable output.
func (ix *Index) Search(query string) []Candidate {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinQueryLength {
		return []Candidate{}
	}
	folded := Fold(query)

	type scored struct {
		entry indexEntry
		rank  int
	}
	var matches []scored

	for _, e := range ix.entries {
		switch {
		case strings.HasPrefix(e.folded, folded):
			matches = append(matches, scored{e, 0})
		case strings.Contains(e.folded, " "+folded):
			matches = append(matches, scored{e, 1})
		case strings.Contains(e.folded, folded):
			matches = append(matches, scored{e, 2})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].rank != matches[j].rank {
			return matches[i].rank < matches[j].rank
		}
		return matches[i].entry.product.Label < matches[j].entry.product.Label
	})

	if len(matches) > MaxCandidates {
		matches = matches[:MaxCandidates]
	}

	candidates := make([]Candidate, len(matches))
	for i, m := range matches {
		candidates[i] = Candidate{
			Label: m.entry.product.Label,
			Form:  m.entry.product.Form,
			Route: strings.Join(m.entry.product.Routes, ", "),
		}
	}
	return candidates
}
