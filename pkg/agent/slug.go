package agent

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
)

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a filename stem from a free-text description, capped at 40
// characters. Descriptions with no usable characters get a random stem so
// generate mode always produces a distinct file.
func Slugify(description string) string {
	slug := nonSlugRe.ReplaceAllString(strings.ToLower(description), "_")
	slug = strings.Trim(slug, "_")
	if len(slug) > 40 {
		slug = slug[:40]
		slug = strings.Trim(slug, "_")
	}
	if slug == "" {
		b := make([]byte, 4)
		rand.Read(b)
		slug = "design_" + hex.EncodeToString(b)
	}
	return slug
}
