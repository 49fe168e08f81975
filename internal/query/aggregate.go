package query

import (
	"sort"

	"docregistry/internal/model"
)

// Counts is a plain tally of the snapshot, no filtering applied.
type Counts struct {
	Total       int                    `json:"total"`
	PerCategory map[model.Category]int `json:"per_category"`
}

// AggregateCounts tallies the snapshot per category.
func AggregateCounts(docs []model.Document) Counts {
	c := Counts{PerCategory: map[model.Category]int{}}
	for _, d := range docs {
		c.Total++
		c.PerCategory[d.Category]++
	}
	return c
}

// DateCount is one point of the issue-date time series.
type DateCount struct {
	Date     string         `json:"date"` // canonical YYYY-MM-DD
	Category model.Category `json:"category"`
	Count    int            `json:"count"`
}

// AggregateByDate buckets records by (issue date, category), ordered by
// date then category. Records with an unparseable issue date are excluded
// here: this is a reporting convenience, not a storage-layer decision.
func AggregateByDate(docs []model.Document) []DateCount {
	type key struct {
		date string
		cat  model.Category
	}
	buckets := map[key]int{}
	for _, d := range docs {
		day, ok := d.IssueDay()
		if !ok {
			continue
		}
		buckets[key{day.Format(model.IssueDateLayout), d.Category}]++
	}

	out := make([]DateCount, 0, len(buckets))
	for k, n := range buckets {
		out = append(out, DateCount{Date: k.date, Category: k.cat, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Category < out[j].Category
	})
	return out
}
