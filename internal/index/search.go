package index

// Result is one search hit with a highlighted snippet.
type Result struct {
	Entry
	Snippet string
	Rank    float64
}

// SearchOptions narrows a search.
type SearchOptions struct {
	Project string // restrict to one project (case/whitespace folded)
	Limit   int    // max results, default 20
}
