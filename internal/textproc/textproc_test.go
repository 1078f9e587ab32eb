package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	p := New()

	assert.Equal(t, "hello there", p.Clean("  <b>hello</b> there  "))
	assert.Equal(t, "", p.Clean(`<script>alert("x")</script>`))
	assert.NotContains(t, p.Clean(`<img src=x onerror=alert(1)>hi`), "onerror")
}

func TestRenderMarkdown(t *testing.T) {
	p := New()

	out, err := p.RenderMarkdown("**Drink water** before donating.\n\n- eat iron\n- rest")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>Drink water</strong>")
	assert.Contains(t, out, "<li>eat iron</li>")
}

func TestRenderMarkdownDropsScripts(t *testing.T) {
	p := New()

	out, err := p.RenderMarkdown("hi <script>alert(1)</script> there")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script")
	assert.Contains(t, out, "there")
}
