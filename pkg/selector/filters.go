package selector

import (
	"path/filepath"
	"strings"
)

// FilterGroup is a named set of file extensions offered by the dialog.
// Extensions carry no leading dot.
type FilterGroup struct {
	Name       string
	Extensions []string
}

// The filter groups offered by the picker. They are fixed at build time.
var (
	DocumentFilter = FilterGroup{Name: "PDF Documents", Extensions: []string{"pdf"}}
	ImageFilter    = FilterGroup{Name: "Images", Extensions: []string{"png", "jpg", "jpeg", "heic", "tiff", "webp"}}
)

// DefaultFilters returns the document and image groups, in dialog order.
func DefaultFilters() []FilterGroup {
	return []FilterGroup{DocumentFilter, ImageFilter}
}

// Patterns returns glob patterns such as "*.pdf" for the group.
func (g FilterGroup) Patterns() []string {
	patterns := make([]string, len(g.Extensions))
	for i, ext := range g.Extensions {
		patterns[i] = "*." + ext
	}
	return patterns
}

// Matches reports whether path has the extension of one of the groups.
// Comparison ignores case.
func Matches(filters []FilterGroup, path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return false
	}
	for _, g := range filters {
		for _, e := range g.Extensions {
			if strings.EqualFold(e, ext) {
				return true
			}
		}
	}
	return false
}

// Describe renders the groups for prompts, e.g. "PDF Documents (*.pdf)".
func Describe(filters []FilterGroup) string {
	parts := make([]string, len(filters))
	for i, g := range filters {
		parts[i] = g.Name + " (" + strings.Join(g.Patterns(), " ") + ")"
	}
	return strings.Join(parts, ", ")
}
