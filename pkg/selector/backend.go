package selector

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
)

// Backend names accepted by NewBackend.
const (
	BackendAuto   = "auto"
	BackendZenity = "zenity"
	BackendSqweek = "sqweek"
	BackendPrompt = "prompt"
)

// NewBackend returns the backend called name. "auto" picks the terminal
// prompt when there is no graphical display and in is a terminal.
func NewBackend(name string, in *os.File, out io.Writer) (Backend, error) {
	switch name {
	case "", BackendAuto:
		if !hasDisplay() && isTerminal(in) {
			return Prompt{In: in, Out: out}, nil
		}
		return Zenity{}, nil
	case BackendZenity:
		return Zenity{}, nil
	case BackendSqweek:
		return newSqweek()
	case BackendPrompt:
		return Prompt{In: in, Out: out}, nil
	default:
		return nil, fmt.Errorf("unknown dialog backend %q", name)
	}
}

func hasDisplay() bool {
	switch runtime.GOOS {
	case "windows", "darwin":
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
