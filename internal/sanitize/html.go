// Package sanitize holds the bluemonday policies applied to user-supplied
// rich text before it is persisted.
package sanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

// blockPolicy allows the markup the exhibition constructor emits: basic UGC
// formatting plus headings and inline images.
var blockPolicy = newBlockPolicy()

func newBlockPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("p", "br", "h1", "h2", "h3")
	p.AllowAttrs("src", "alt", "title").OnElements("img")
	p.AllowAttrs("href", "title", "target").OnElements("a")
	return p
}

// HTML sanitizes rich-text block content, keeping the allow-listed tags and
// attributes and stripping everything else.
func HTML(input string) string {
	return blockPolicy.Sanitize(input)
}

// HTMLPtr sanitizes optional rich text; nil stays nil.
func HTMLPtr(input *string) *string {
	if input == nil {
		return nil
	}
	s := HTML(*input)
	return &s
}
