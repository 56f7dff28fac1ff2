package sanitizer

import (
	"regexp"
	"strings"
)

var (
	reControlChars = regexp.MustCompile(`[\x00-\x1f\x7f]+`)
	reMultiSpace   = regexp.MustCompile(`\s+`)
	reKeepCode     = regexp.MustCompile(`[^0-9A-Za-z_\-]+`)
)

func trim(s string) string {
	return strings.TrimSpace(s)
}

func stripControl(s string) string {
	return reControlChars.ReplaceAllString(s, " ")
}

func collapseSpaces(s string) string {
	return reMultiSpace.ReplaceAllString(s, " ")
}

// SanitizeFreeText normalizes user-entered text such as booking reasons
// and resource descriptions: control characters removed, whitespace
// collapsed, edges trimmed.
func SanitizeFreeText(input string) string {
	p := Pipeline{
		stripControl,
		collapseSpaces,
		trim,
	}
	return p.Apply(input)
}

// SanitizeCode canonicalizes resource codes: lowercased with anything
// outside [0-9a-z_-] dropped, so "CSE-101 " and "cse-101" name the
// same resource.
func SanitizeCode(input string) string {
	p := Pipeline{
		trim,
		strings.ToLower,
		func(s string) string { return reKeepCode.ReplaceAllString(s, "") },
	}
	return p.Apply(input)
}

// SanitizeName normalizes display names: free-text rules without case
// folding.
func SanitizeName(input string) string {
	return SanitizeFreeText(input)
}
