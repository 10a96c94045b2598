//go:build sqweek

package selector

import (
	"context"
	"errors"
	"fmt"

	"github.com/sqweek/dialog"
)

// Sqweek shows the native dialog through sqweek/dialog. It needs cgo and
// GTK3 on Linux, so it is only compiled with the sqweek build tag.
type Sqweek struct{}

// Name implements Backend.
func (Sqweek) Name() string { return "sqweek" }

// PickFile implements Backend. The dialog cannot be interrupted, so ctx is
// only checked before it opens.
func (Sqweek) PickFile(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	b := dialog.File().Title(req.Title)
	for _, g := range req.Filters {
		b = b.Filter(g.Name, g.Extensions...)
	}
	if req.StartDir != "" {
		b = b.SetStartDir(req.StartDir)
	}

	path, err := b.Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", ErrCanceled
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return path, nil
}

func newSqweek() (Backend, error) {
	return Sqweek{}, nil
}
