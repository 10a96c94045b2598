package selector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ncruces/zenity"
)

// Zenity shows the platform's native dialog through ncruces/zenity. On
// Linux this needs zenity, qarma or kdialog on PATH.
type Zenity struct{}

// Name implements Backend.
func (Zenity) Name() string { return "zenity" }

// PickFile implements Backend.
func (Zenity) PickFile(ctx context.Context, req Request) (string, error) {
	filters := make(zenity.FileFilters, 0, len(req.Filters))
	for _, g := range req.Filters {
		filters = append(filters, zenity.FileFilter{Name: g.Name, Patterns: g.Patterns()})
	}

	opts := []zenity.Option{
		zenity.Title(req.Title),
		zenity.Context(ctx),
		filters,
	}
	if req.StartDir != "" {
		// A trailing separator makes zenity treat the value as a directory.
		opts = append(opts, zenity.Filename(strings.TrimRight(req.StartDir, string(os.PathSeparator))+string(os.PathSeparator)))
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := zenity.SelectFile(opts...)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if errors.Is(err, zenity.ErrCanceled) {
		return "", ErrCanceled
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return path, nil
}
