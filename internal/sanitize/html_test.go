package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTMLStripsScripts(t *testing.T) {
	out := HTML(`<p>hello</p><script>alert("x")</script>`)
	assert.Equal(t, "<p>hello</p>", out)
}

func TestHTMLKeepsAllowedMarkup(t *testing.T) {
	in := `<h2>Room one</h2><p>A <strong>bold</strong> claim.</p><img src="a.jpg" alt="a">`
	out := HTML(in)
	assert.Contains(t, out, "<h2>Room one</h2>")
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, `<img src="a.jpg" alt="a">`)
}

func TestHTMLDropsEventHandlers(t *testing.T) {
	out := HTML(`<p onclick="steal()">text</p>`)
	assert.Equal(t, "<p>text</p>", out)
}

func TestHTMLPtr(t *testing.T) {
	assert.Nil(t, HTMLPtr(nil))

	in := `<p>ok</p><iframe src="evil"></iframe>`
	out := HTMLPtr(&in)
	assert.Equal(t, "<p>ok</p>", *out)
}
