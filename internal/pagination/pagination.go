// Package pagination applies the shared search-then-slice logic used by
// the paged sheet and prediction views.
package pagination

import (
	"strings"

	"churnboard/domain/sheet"
	"churnboard/internal/errors"
)

// Page is the result of filtering and slicing a row-set.
type Page struct {
	Rows       []sheet.Row
	TotalRows  int
	TotalPages int
	Number     int
	Size       int
}

// FilterAndPage retains rows whose lowercase string form of any cell
// contains the lowercase search term (substring match), then slices by
// 1-based page. A page beyond the last yields an empty slice, not an
// error; non-positive page or page size is a user error.
func FilterAndPage(rows []sheet.Row, searchTerm string, page, pageSize int) (Page, error) {
	if page < 1 {
		return Page{}, errors.InvalidInput("page must be a positive integer")
	}
	if pageSize < 1 {
		return Page{}, errors.InvalidInput("page_size must be a positive integer")
	}

	filtered := rows
	if term := strings.ToLower(strings.TrimSpace(searchTerm)); term != "" {
		filtered = make([]sheet.Row, 0, len(rows))
		for _, row := range rows {
			if rowMatches(row, term) {
				filtered = append(filtered, row)
			}
		}
	}

	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	end := start + pageSize
	slice := []sheet.Row{}
	if start < total {
		if end > total {
			end = total
		}
		slice = filtered[start:end]
	}

	return Page{
		Rows:       slice,
		TotalRows:  total,
		TotalPages: totalPages,
		Number:     page,
		Size:       pageSize,
	}, nil
}

func rowMatches(row sheet.Row, term string) bool {
	for _, v := range row {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}
