package graph

import (
	"context"
	"errors"
	"fmt"

	"policyscope/internal/models"
)

// ErrPaginationLoop indicates a nextLink that was already visited.
var ErrPaginationLoop = errors.New("pagination loop detected")

// FetchAll follows @odata.nextLink from url until the last page and
// returns every item in order.
func FetchAll(ctx context.Context, pager Pager, url string) ([]models.RawRecord, error) {
	var items []models.RawRecord

	seen := map[string]bool{}

	for next := url; next != ""; {
		if seen[next] {
			return items, fmt.Errorf("%w: %s", ErrPaginationLoop, next)
		}

		seen[next] = true

		if err := ctx.Err(); err != nil {
			return items, err
		}

		page, err := pager.FetchPage(ctx, next)
		if err != nil {
			return items, fmt.Errorf("failed to fetch page %d: %w", len(seen), err)
		}

		items = append(items, page.Items...)
		next = page.NextLink
	}

	return items, nil
}
