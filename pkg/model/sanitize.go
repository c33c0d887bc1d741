package model

import (
	"html"
	"regexp"
	"strings"
)

var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script.*?</script>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?is)<iframe.*?</iframe>`),
	regexp.MustCompile(`(?is)<object.*?</object>`),
	regexp.MustCompile(`(?is)<embed.*?</embed>`),
}

// Sanitize truncates text to maxLength runes, removes script-like fragments and
// escapes HTML. Patterns are removed before escaping so that tags are still
// recognizable.
func Sanitize(text string, maxLength int) string {
	if maxLength > 0 {
		if runes := []rune(text); len(runes) > maxLength {
			text = string(runes[:maxLength])
		}
	}

	for _, p := range dangerousPatterns {
		text = p.ReplaceAllString(text, "")
	}

	return strings.TrimSpace(html.EscapeString(text))
}

// Sanitize cleans every free-text field of the input
func (x *RecordInput) Sanitize() {
	x.Title = Sanitize(x.Title, MaxTitleLength)
	x.Content = Sanitize(x.Content, MaxContentLength)
	x.Category = Sanitize(x.Category, MaxCategoryLength)
}

// Sanitize cleans every set free-text field of the update
func (u *RecordUpdate) Sanitize() {
	sanitize := func(p *string, n int) *string {
		if p == nil {
			return nil
		}
		s := Sanitize(*p, n)
		return &s
	}
	u.Title = sanitize(u.Title, MaxTitleLength)
	u.Content = sanitize(u.Content, MaxContentLength)
	u.Category = sanitize(u.Category, MaxCategoryLength)
}
