package services

import (
	"strings"

	"github.com/Sneha-masapeta/fixitfelix-sih-2025-dept/models"
)

// FilterCriteria holds the four independent feed filters. An empty
// string or "all" means no constraint on that field. Never persisted.
type FilterCriteria struct {
	Search   string `json:"search" form:"search"`
	Status   string `json:"status" form:"status"`
	Category string `json:"category" form:"category"`
	Priority string `json:"priority" form:"priority"`
}

// Reset clears every constraint.
func (c *FilterCriteria) Reset() {
	*c = FilterCriteria{}
}

func constrained(value string) bool {
	return value != "" && value != "all"
}

// DeriveView filters source down to the issues matching every active
// criterion, preserving source order. Pure function: source is never
// mutated, and zero active criteria pass the collection through
// unchanged.
func DeriveView(source []models.Issue, criteria FilterCriteria) []models.Issue {
	search := strings.ToLower(strings.TrimSpace(criteria.Search))

	view := make([]models.Issue, 0, len(source))
	for _, issue := range source {
		if search != "" {
			inTitle := strings.Contains(strings.ToLower(issue.Title), search)
			inDescription := issue.Description != "" &&
				strings.Contains(strings.ToLower(issue.Description), search)
			if !inTitle && !inDescription {
				continue
			}
		}
		if constrained(criteria.Status) && string(issue.Status) != criteria.Status {
			continue
		}
		if constrained(criteria.Category) && string(issue.Category) != criteria.Category {
			continue
		}
		if constrained(criteria.Priority) && string(issue.Priority) != criteria.Priority {
			continue
		}
		view = append(view, issue)
	}
	return view
}
