package sanitize_test

import (
	"testing"

	"github.com/songperch/songperch/internal/sanitize"
	"github.com/stretchr/testify/assert"
)

func TestUserTextStripsScripts(t *testing.T) {
	out := sanitize.UserText(`hello <script>alert(1)</script>world`)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "world")
}

func TestUserTextKeepsFormatting(t *testing.T) {
	for _, in := range []string{
		"<b>bold</b>",
		"<u>underline</u>",
		"<small>fine print</small>",
	} {
		assert.Equal(t, in, sanitize.UserText(in))
	}

	out := sanitize.UserText(`<a href="https://example.com">link</a>`)
	assert.Contains(t, out, `href="https://example.com"`)
	assert.Contains(t, out, ">link</a>")
}

func TestUserTextDropsEventHandlers(t *testing.T) {
	out := sanitize.UserText(`<img src="x.png" onerror="alert(1)" width="10">`)
	assert.NotContains(t, out, "onerror")
	assert.Contains(t, out, "width")
}
