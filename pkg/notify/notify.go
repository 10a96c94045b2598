// Package notify shows desktop notifications for finished runs.
package notify

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gen2brain/beeep"

	"github.com/mattsolo1/grove-policyscan/pkg/invoker"
)

const maxBodyRunes = 200

// Notifier delivers a short message to the user.
type Notifier interface {
	Notify(title, message string) error
}

// Desktop sends notifications through the OS notification service.
type Desktop struct{}

// Notify implements Notifier.
func (Desktop) Notify(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Nop discards notifications.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(string, string) error { return nil }

// Message builds the title and body describing an outcome.
func Message(o invoker.Outcome) (title, body string) {
	name := filepath.Base(o.Path)
	switch o.Kind {
	case invoker.Succeeded:
		title = "Processed " + name
		body = firstLine(o.Stdout)
		if body == "" {
			body = "No text extracted."
		}
	case invoker.ExitFailed:
		title = "Processing failed: " + name
		body = firstLine(o.Stderr)
	case invoker.LaunchFailed:
		title = "Processor could not start"
		body = errText(o.Err)
	case invoker.TimedOut:
		title = "Processing timed out: " + name
		body = errText(o.Err)
	case invoker.Canceled:
		title = "Processing canceled: " + name
		body = errText(o.Err)
	}
	return title, truncate(body, maxBodyRunes)
}

// Outcome sends the message for o through n.
func Outcome(n Notifier, o invoker.Outcome) error {
	title, body := Message(o)
	return n.Notify(title, body)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
