package richtext

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9-]+`)
var multiDash = regexp.MustCompile(`-+`)

func Slugify(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "/", " ")
	s = strings.ReplaceAll(s, " ", "-")
	s = nonSlugChars.ReplaceAllString(s, "-")
	s = multiDash.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return s
}

var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("img", "figure", "figcaption")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("class").OnElements("span", "p", "div", "figure")
	return p
}()

// Sanitize strips scripts, handlers and unknown markup from editor HTML.
func Sanitize(html string) string {
	return strings.TrimSpace(policy.Sanitize(html))
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

// IsBlank reports whether html has no visible text once tags are removed,
// as an empty rich-text editor still emits "<p><br></p>".
func IsBlank(html string) bool {
	text := tagRe.ReplaceAllString(html, "")
	text = strings.ReplaceAll(text, "&nbsp;", "")
	return strings.TrimSpace(text) == ""
}
