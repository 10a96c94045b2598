package selector

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Prompt reads a path from a terminal. It is the fallback when no graphical
// display is available, and it enforces the filters itself.
type Prompt struct {
	In  io.Reader
	Out io.Writer
}

// Name implements Backend.
func (Prompt) Name() string { return "prompt" }

// PickFile implements Backend. An empty line or end of input cancels; a
// path with an unsupported extension is rejected and asked for again.
func (p Prompt) PickFile(ctx context.Context, req Request) (string, error) {
	reader := bufio.NewReader(p.In)
	fmt.Fprintf(p.Out, "%s\nAccepted: %s\n", req.Title, Describe(req.Filters))

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprint(p.Out, "Enter file path (empty to cancel): ")

		line, err := reader.ReadString('\n')
		path := strings.Trim(strings.TrimSpace(line), `"'`)
		if path == "" {
			if err != nil && err != io.EOF {
				return "", fmt.Errorf("%w: read path: %v", ErrUnavailable, err)
			}
			return "", ErrCanceled
		}
		if Matches(req.Filters, path) {
			return path, nil
		}

		fmt.Fprintf(p.Out, "Unsupported file type: %s\n", path)
		if err != nil {
			return "", ErrCanceled
		}
	}
}
