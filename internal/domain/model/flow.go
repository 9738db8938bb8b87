package model

// LinksQuery is a sourcer's request for the neighbours of a candidate.
type LinksQuery struct {
	Name  string
	Owner string
	URL   string
	Mode  string
}

// LinksResult is the navigation answer for a sourcing session. A non-empty
// Alert means the sourcer may not proceed; the other fields may be zero.
type LinksResult struct {
	Back   string    `json:"back"`
	Next   string    `json:"next"`
	Skills string    `json:"skills"`
	Rules  []JobRule `json:"rules"`
	Stats  *Summary  `json:"stats,omitempty"`
	Alert  string    `json:"alert,omitempty"`
}

// WriteResult reports a sourced candidate write.
type WriteResult struct {
	Message string   `json:"res"`
	Stats   *Summary `json:"stats"`
	Rows    []int    `json:"-"`
}

// QAPathQuery asks for a review queue.
type QAPathQuery struct {
	QAOwner   string
	Job       string
	Relevance string
	Count     string
}

// QAPathResult is a sampled review queue and the rules visible to the reviewer.
type QAPathResult struct {
	Path  []CandidateRecord `json:"path"`
	Rules []JobRule         `json:"rules"`
}
