package sanitize

import "github.com/microcosm-cc/bluemonday"

// Comment and bio content is stored exactly as submitted and cleaned here,
// at render time only.
var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("width", "height").OnElements("img")
	p.AllowElements("small", "u", "q", "hr")
	return p
}

// UserText strips everything outside the allowed HTML subset from
// user-authored text.
func UserText(s string) string {
	return policy.Sanitize(s)
}
