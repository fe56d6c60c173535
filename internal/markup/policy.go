package markup

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var (
	colorRegexp    = regexp.MustCompile(`^(#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})|rgba?\(\s*\d+\s*,\s*\d+\s*,\s*\d+\s*(,\s*[\d.]+\s*)?\)|[a-zA-Z]+)$`)
	sizeRegexp     = regexp.MustCompile(`^\d+(\.\d+)?(px|em|rem|pt|%)$`)
	fontRegexp     = regexp.MustCompile(`^[a-zA-Z0-9 ,'"\-]+$`)
	languageRegexp = regexp.MustCompile(`^language-[a-zA-Z0-9_+\-#]+$`)
)

// newPolicy returns the sanitizing policy applied before parsing. It is the
// UGC policy plus the style properties carried by attributed marks.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowStyles("color", "background-color").Matching(colorRegexp).OnElements("span", "mark")
	p.AllowStyles("font-size").Matching(sizeRegexp).OnElements("span")
	p.AllowStyles("font-family").Matching(fontRegexp).OnElements("span")
	p.AllowAttrs("data-color").Matching(colorRegexp).OnElements("mark")
	p.AllowAttrs("class").Matching(languageRegexp).OnElements("code")
	p.AllowAttrs("start").Matching(bluemonday.Integer).OnElements("ol")
	return p
}
