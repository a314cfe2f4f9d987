// Package filter implements the triage view semantics the admin panel
// applies to a submission snapshot: status equality, a date window
// anchored at the midnight boundary of "now", then a case-insensitive
// substring search across the contact fields. The predicates operate on
// disjoint fields, so they commute.
package filter

import (
	"strings"
	"time"

	"leadadmin/internal/models"
)

// PageSize is the fixed page size of the admin table.
const PageSize = 10

type Query struct {
	Status string // "" or "all" disables; otherwise a status value
	Range  string // "" or "all" disables; today | week | month
	Search string
}

func Apply(subs []models.Submission, q Query, now time.Time) []models.Submission {
	out := subs
	if q.Status != "" && q.Status != "all" {
		out = byStatus(out, models.Status(q.Status))
	}
	if q.Range != "" && q.Range != "all" {
		out = byDate(out, q.Range, now)
	}
	if s := strings.ToLower(strings.TrimSpace(q.Search)); s != "" {
		out = bySearch(out, s)
	}
	return out
}

func byStatus(subs []models.Submission, status models.Status) []models.Submission {
	out := make([]models.Submission, 0, len(subs))
	for _, s := range subs {
		if s.Status == status {
			out = append(out, s)
		}
	}
	return out
}

func byDate(subs []models.Submission, window string, now time.Time) []models.Submission {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var cutoff time.Time
	switch window {
	case "today":
		cutoff = today
	case "week":
		cutoff = today.AddDate(0, 0, -7)
	case "month":
		cutoff = today.AddDate(0, -1, 0)
	default:
		return subs
	}
	out := make([]models.Submission, 0, len(subs))
	for _, s := range subs {
		if !s.Date.Before(cutoff) {
			out = append(out, s)
		}
	}
	return out
}

func bySearch(subs []models.Submission, needle string) []models.Submission {
	out := make([]models.Submission, 0, len(subs))
	for _, s := range subs {
		if strings.Contains(haystack(s), needle) {
			out = append(out, s)
		}
	}
	return out
}

func haystack(s models.Submission) string {
	parts := make([]string, 0, 4)
	for _, v := range []string{s.Name, s.Surname, s.Email, s.Phone} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Page slices out the 1-based page at the fixed page size. Pages past
// the end are empty.
func Page(subs []models.Submission, page int) []models.Submission {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start >= len(subs) {
		return nil
	}
	end := start + PageSize
	if end > len(subs) {
		end = len(subs)
	}
	return subs[start:end]
}
