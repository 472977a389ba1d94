package view

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEscapesAndOrdersAttributes(t *testing.T) {
	n := El("div",
		El("span", Text("<b>&")).Set("data-role", "x"),
		nil,
	).Class("a").Class("b").Css("color", "#fff").Css("padding", "").Css("margin", "1mm")

	assert.Equal(t,
		`<div class="a b" style="color: #fff; margin: 1mm"><span data-role="x">&lt;b&gt;&amp;</span></div>`,
		String(n))
}

func TestSetOverridesExistingAttribute(t *testing.T) {
	n := El("a").Set("href", "x").Set("href", "y")
	assert.Equal(t, "y", n.Attr("href"))
	assert.Len(t, n.Attrs, 1)
}

func TestFindAllAndTextContent(t *testing.T) {
	tree := El("section",
		El("h2", Text("Skills")).Set("data-role", "section-title"),
		El("p", Text("Go"), Text(", "), Text("SQL")),
	)
	titles := tree.FindAll(HasAttr("data-role", "section-title"))
	require.Len(t, titles, 1)
	assert.Equal(t, "Skills", titles[0].TextContent())
	assert.Equal(t, "SkillsGo, SQL", tree.TextContent())
}

func TestPageUsesPhysicalUnits(t *testing.T) {
	out, err := Page(El("div", Text("hello")), PageOptions{Title: "CV", Paper: PaperFor("letter")})
	require.NoError(t, err)
	s := string(out)
	assert.True(t, strings.HasPrefix(s, "<!DOCTYPE html>"))
	assert.Contains(t, s, "@page { size: 215.9mm 279.4mm; margin: 0; }")
	assert.Contains(t, s, "<title>CV</title>")
	assert.Contains(t, s, "<div>hello</div>")
	assert.NotContains(t, s, "vw")
	assert.NotContains(t, s, "vh")
}

func TestPaperForDefaultsToA4(t *testing.T) {
	assert.Equal(t, PaperA4, PaperFor(""))
	assert.Equal(t, PaperA4, PaperFor("B5"))
	assert.Equal(t, PaperLetter, PaperFor("Letter"))
}
