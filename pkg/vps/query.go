package vps

import (
	"strings"

	"github.com/dadas-io/dadas/pkg/model"
)

const DefaultPageSize = 10

// Filter returns the records whose name, unit or any application contains term,
// ignoring case. An empty term returns records unchanged.
func Filter(records []model.VPS, term string) []model.VPS {
	if term == "" {
		return records
	}

	needle := strings.ToLower(term)
	out := make([]model.VPS, 0, len(records))
	for _, r := range records {
		if matches(r, needle) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r model.VPS, needle string) bool {
	if strings.Contains(strings.ToLower(r.Name), needle) ||
		strings.Contains(strings.ToLower(r.Unit), needle) {
		return true
	}
	for _, app := range r.Applications {
		if strings.Contains(strings.ToLower(app), needle) {
			return true
		}
	}
	return false
}

// Paginate returns the records of the 1-based page and the number of pages.
// Pages outside [1, totalPages] yield an empty slice; the page is not clamped.
func Paginate(records []model.VPS, pageSize, page int) ([]model.VPS, int) {
	if pageSize <= 0 {
		return []model.VPS{}, 0
	}

	totalPages := (len(records) + pageSize - 1) / pageSize
	if page < 1 {
		return []model.VPS{}, totalPages
	}

	start := (page - 1) * pageSize
	if start >= len(records) {
		return []model.VPS{}, totalPages
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end], totalPages
}

func Summarize(records []model.VPS) model.Stats {
	s := model.Stats{Total: len(records)}
	for _, r := range records {
		if r.IsActive() {
			s.Active++
		}
		s.TotalApplications += len(r.Applications)
	}
	return s
}
