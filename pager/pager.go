// Package pager implements the bounded pagination loop shared by every
// collection-valued GitHub fetch.
package pager

import "context"

// DefaultPerPage is the page size requested when the caller passes none.
// It matches the GitHub API maximum.
const DefaultPerPage = 100

// FetchFunc returns one page of items. Page numbering starts at 1 and is
// advanced by FetchPaged, never by the function itself.
type FetchFunc[T any] func(ctx context.Context, page, perPage int) ([]T, error)

// MoreFunc decides whether pagination should continue past the given page.
// It is also applied to single-item slices to filter the boundary page, so
// it must be meaningful for a slice of length one.
type MoreFunc[T any] func(items []T) bool

// FetchPaged fetches pages until one comes back empty, more rejects a page,
// or maxPages fetch calls have been made. When the loop stops on a non-empty
// page, that page's items are filtered one by one through more so boundary
// items that still qualify are kept.
//
// Fetch errors are returned as-is; there is no retry here.
func FetchPaged[T any](ctx context.Context, fetch FetchFunc[T], perPage int, more MoreFunc[T], maxPages int) ([]T, error) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	var results []T
	remaining := maxPages
	for page := 1; ; page++ {
		items, err := fetch(ctx, page, perPage)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return results, nil
		}

		remaining--
		if more(items) && remaining > 0 {
			results = append(results, items...)
			continue
		}

		// Boundary page: keep only the items that still qualify on
		// their own.
		for _, item := range items {
			if more([]T{item}) {
				results = append(results, item)
			}
		}
		return results, nil
	}
}
