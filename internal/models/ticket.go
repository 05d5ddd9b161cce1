package models

// Ticket is one normalized work item pulled from the tracker, with its
// full comment thread. It is immutable after normalization; the analysis
// stages only attach results to it.
type Ticket struct {
	Key         string    `json:"key"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	IssueType   string    `json:"issue_type"`
	Created     string    `json:"created"`
	Updated     string    `json:"updated"`
	Comments    []Comment `json:"comments,omitempty"`

	// Analysis is the free-form analysis text (docs report).
	Analysis string `json:"analysis,omitempty"`
	// Solution is the extracted solution, if one was found (faq report).
	Solution *Solution `json:"solution,omitempty"`
}

// Comment represents a ticket comment in source order.
type Comment struct {
	Author  string `json:"author"`
	Body    string `json:"body"`
	Created string `json:"created"`
}

// Confidence labels attached to extracted solutions.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Solution is the structured result of solution extraction for one ticket.
type Solution struct {
	Summary    string `json:"summary"`
	Details    string `json:"details"`
	Confidence string `json:"confidence"`
}

// Category labels for the docs report. A ticket lands in exactly one.
const (
	CategoryFeatures      = "Features"
	CategoryBugs          = "Bugs"
	CategoryTechnicalDebt = "Technical Debt"
	CategoryDocumentation = "Documentation"
	CategoryOther         = "Other"
)

// CategoryOrder is the rendering order of the fixed category set.
var CategoryOrder = []string{
	CategoryFeatures,
	CategoryBugs,
	CategoryTechnicalDebt,
	CategoryDocumentation,
	CategoryOther,
}
