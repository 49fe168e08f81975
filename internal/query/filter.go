// Package query holds pure, side-effect-free functions over a document
// snapshot: filtering, aggregation, and the flat report projection. None
// of them touch storage; callers pass the snapshot in.
package query

import (
	"strings"
	"time"

	"docregistry/internal/model"
)

// Criteria are the optional, conjunctive filter predicates. Zero values
// mean "no constraint".
type Criteria struct {
	// Keyword is matched case-insensitively as a substring of title,
	// doc number, counterparty, description, original file name and tags.
	Keyword string
	// Category requires an exact match when non-empty.
	Category model.Category
	// Tag is a case-insensitive exact match against the tag set.
	Tag string
	// From/To bound the issue date inclusively. The range applies only
	// when both are non-zero.
	From time.Time
	To   time.Time
}

// Filter returns the records satisfying every supplied predicate, in the
// stable relative order of the input snapshot.
//
// A record whose issue date fails to parse is kept when a date range is
// supplied: an unknown date is "don't know", not "exclude".
func Filter(docs []model.Document, crit Criteria) []model.Document {
	keyword := strings.ToLower(strings.TrimSpace(crit.Keyword))
	tag := strings.ToLower(strings.TrimSpace(crit.Tag))
	hasRange := !crit.From.IsZero() && !crit.To.IsZero()

	out := make([]model.Document, 0, len(docs))
	for _, d := range docs {
		if crit.Category != "" && d.Category != crit.Category {
			continue
		}
		if hasRange {
			if day, ok := d.IssueDay(); ok {
				if day.Before(crit.From) || day.After(crit.To) {
					continue
				}
			}
		}
		if keyword != "" && !strings.Contains(haystack(d), keyword) {
			continue
		}
		if tag != "" && !hasTag(d.Tags, tag) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func haystack(d model.Document) string {
	parts := []string{
		d.Title,
		d.DocNumber,
		d.Counterparty,
		d.Description,
		d.OriginalFileName,
		strings.Join(d.Tags, " "),
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func hasTag(tags []string, lowered string) bool {
	for _, t := range tags {
		if strings.ToLower(t) == lowered {
			return true
		}
	}
	return false
}
