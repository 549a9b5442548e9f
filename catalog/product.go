// Package catalog provides the product catalog backing medication candidate
// search. It downloads the public BDPM specialites file, parses it into
// products and serves accent-insensitive fuzzy lookups over the result.
package catalog

// Product is one entry of the drug catalog. Label is the full product
// denomination the dose parser operates on, e.g.
// "PARACETAMOL BIOGARAN 500 mg, comprimé".
type Product struct {
	CIS    int      `json:"cis"`
	Label  string   `json:"label"`
	Form   string   `json:"form"`
	Routes []string `json:"routes"`
}

// Candidate is a search result offered to the user as parser input.
type Candidate struct {
	Label string `json:"label"`
	Form  string `json:"form"`
	Route string `json:"route"`
}
