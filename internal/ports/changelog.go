package ports

import (
	"context"

	"xctasks/internal/types"
)

// ChangelogSourcePort returns the change items of one CI build.
type ChangelogSourcePort interface {
	FetchChanges(ctx context.Context, ci types.CIContext) ([]types.ChangeItem, error)
}
