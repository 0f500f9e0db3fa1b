package models

import "strings"

// IconFallback is the glyph used when a link has no icon tag or carries
// a tag outside the known set.
const IconFallback = "link"

// knownIcons is the fixed icon set the public page can render. Tags are
// stored lowercase.
var knownIcons = map[string]bool{
	"github":    true,
	"instagram": true,
	"linkedin":  true,
	"twitter":   true,
	"youtube":   true,
	"tiktok":    true,
	"whatsapp":  true,
	"mail":      true,
	"globe":     true,
	"link":      true,
}

// NormalizeIcon lowercases the tag and maps unknown tags to the
// generic fallback.
func NormalizeIcon(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if !knownIcons[tag] {
		return IconFallback
	}
	return tag
}

// KnownIcon reports whether the tag belongs to the renderable icon set.
func KnownIcon(tag string) bool {
	return knownIcons[strings.ToLower(strings.TrimSpace(tag))]
}
