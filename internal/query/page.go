package query

import (
	"strconv"

	"github.com/MegaGrindStone/go-mockmcp/internal/dataset"
)

// PageInfo describes one page of a filtered result set.
type PageInfo struct {
	TotalCount      int  `json:"total_count"`
	Page            int  `json:"page"`
	PerPage         int  `json:"per_page"`
	HasNextPage     bool `json:"has_next_page"`
	HasPreviousPage bool `json:"has_previous_page"`
}

// Paginate slices items into the 1-based page of size perPage. A page past
// the end of the result set yields an empty slice rather than an error, and
// the metadata always reflects the full filtered count.
func Paginate[T any](items []T, page, perPage int) ([]T, PageInfo, error) {
	if page < 1 {
		return nil, PageInfo{}, dataset.NewInvalidArgument("page", strconv.Itoa(page), "must be at least 1")
	}
	if perPage < 1 {
		return nil, PageInfo{}, dataset.NewInvalidArgument("per_page", strconv.Itoa(perPage), "must be at least 1")
	}

	total := len(items)
	// Compare against the last populated page before multiplying, so huge
	// page values cannot overflow into a negative offset.
	start := total
	if page-1 <= (total-1)/perPage {
		start = (page - 1) * perPage
	}
	end := total
	if perPage < total-start {
		end = start + perPage
	}

	info := PageInfo{
		TotalCount:      total,
		Page:            page,
		PerPage:         perPage,
		HasNextPage:     end < total,
		HasPreviousPage: page > 1,
	}
	return items[start:end], info, nil
}
