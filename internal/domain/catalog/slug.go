package catalog

import (
	"strings"

	"github.com/gosimple/slug"
)

// Slugify derives the public identifier for a display name: lowercase ASCII,
// diacritics transliterated, and runs of separators collapsed into single hyphens.
func Slugify(name string) string {
	return slug.Make(strings.TrimSpace(name))
}
