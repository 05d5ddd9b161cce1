package models

import "time"

// Document is the report handed to a renderer: a title, an optional
// executive summary, and ordered sections of tickets. The project key is
// carried here so the renderer needs no other channel to learn it.
type Document struct {
	Kind             string
	ProjectKey       string
	Title            string
	GeneratedAt      time.Time
	Introduction     string
	ExecutiveSummary string
	Sections         []Section
}

// Section is one titled group of tickets, rendered in order.
type Section struct {
	Title   string
	Tickets []*Ticket
}

// Report kinds.
const (
	KindDocumentation = "documentation"
	KindSolutionFAQ   = "solution_faq"
)
