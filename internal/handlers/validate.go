package handlers

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// Validation limits for profile and link fields.
const (
	maxPageTitleLen = 100
	maxBioLen       = 500
	maxLinkTitleLen = 100
	maxLinkURLLen   = 2_000
)

// validateProfile checks profile inputs and returns the first error found.
func validateProfile(title, bio string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxPageTitleLen {
		return "Title is too long (max 100 characters)."
	}
	if utf8.RuneCountInString(bio) > maxBioLen {
		return "Bio is too long (max 500 characters)."
	}
	return ""
}

// validateLink checks link inputs and returns the first error found.
func validateLink(title, rawURL string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Link title is required."
	}
	if utf8.RuneCountInString(title) > maxLinkTitleLen {
		return "Link title is too long (max 100 characters)."
	}

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "Link URL is required."
	}
	if utf8.RuneCountInString(rawURL) > maxLinkURLLen {
		return "Link URL is too long (max 2,000 characters)."
	}

	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "Link URL must be a valid http or https address."
	}
	return ""
}
