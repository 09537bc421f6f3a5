package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerunddev/metamark/ast"
	"github.com/gerunddev/metamark/metadata"
)

func mustParse(t *testing.T, input string) *ast.Document {
	t.Helper()
	doc, err := ParseDocument(input)
	require.NoError(t, err)
	return doc
}

func parseErrorAt(t *testing.T, input string, line, column int) *ParseError {
	t.Helper()
	_, err := ParseDocument(input)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, line, perr.Line, "error line: %v", err)
	assert.Equal(t, column, perr.Column, "error column: %v", err)
	return perr
}

func TestEmptyDocument(t *testing.T) {
	doc := mustParse(t, "")
	assert.Nil(t, doc.Metadata)
	assert.Empty(t, doc.Blocks)
}

func TestHeading(t *testing.T) {
	doc := mustParse(t, "# Hello World\n")
	require.Len(t, doc.Blocks, 1)
	h, ok := doc.Blocks[0].(*ast.Heading)
	require.True(t, ok)
	assert.Equal(t, 1, h.Level)
	assert.Equal(t, "Hello World", h.Content)
}

func TestHeadingLevels(t *testing.T) {
	doc := mustParse(t, "# one\n## two\n###### six\n")
	require.Len(t, doc.Blocks, 3)
	assert.Equal(t, 1, doc.Blocks[0].(*ast.Heading).Level)
	assert.Equal(t, 2, doc.Blocks[1].(*ast.Heading).Level)
	assert.Equal(t, 6, doc.Blocks[2].(*ast.Heading).Level)
}

// Seven hashes exceed the heading grammar and read as prose.
func TestSevenHashesIsParagraph(t *testing.T) {
	doc := mustParse(t, "####### not a heading\n")
	require.Len(t, doc.Blocks, 1)
	_, ok := doc.Blocks[0].(*ast.Paragraph)
	assert.True(t, ok)
}

func TestFrontmatterYAML(t *testing.T) {
	doc := mustParse(t, `---
title: Test
count: 42
draft: true
tags: [rust, docs]
---

# Content
`)
	assert.Equal(t, ast.Metadata{
		"title": ast.MetaString("Test"),
		"count": ast.MetaNumber(42),
		"draft": ast.MetaBool(true),
		"tags":  ast.MetaArray{ast.MetaString("rust"), ast.MetaString("docs")},
	}, doc.Metadata)

	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, "Content", doc.Blocks[0].(*ast.Heading).Content)
}

func TestFrontmatterTOMLFallback(t *testing.T) {
	doc := mustParse(t, `---
title = "Test"
count = 42
pi = 3.5
---
`)
	assert.Equal(t, ast.Metadata{
		"title": ast.MetaString("Test"),
		"count": ast.MetaNumber(42),
		"pi":    ast.MetaNumber(3.5),
	}, doc.Metadata)
}

// A quoted number stays a string; YAML typing is authoritative.
func TestFrontmatterQuotedNumber(t *testing.T) {
	doc := mustParse(t, "---\nversion: \"1.0\"\n---\n")
	assert.Equal(t, ast.MetaString("1.0"), doc.Metadata["version"])
}

func TestFrontmatterNullValue(t *testing.T) {
	doc := mustParse(t, "---\nsubtitle:\n---\n")
	assert.Equal(t, ast.MetaString(""), doc.Metadata["subtitle"])
}

func TestFrontmatterInvalidBothFormats(t *testing.T) {
	_, err := ParseDocument("---\n{ not closed\n---\n")
	require.Error(t, err)
	var merr *metadata.MetadataError
	assert.ErrorAs(t, err, &merr)
}

// Mapping keys must be strings under both candidate formats.
func TestFrontmatterNonStringKey(t *testing.T) {
	_, err := ParseDocument("---\n1: one\n---\n")
	require.Error(t, err)
	var merr *metadata.MetadataError
	assert.ErrorAs(t, err, &merr)
}

func TestFrontmatterUnterminated(t *testing.T) {
	perr := parseErrorAt(t, "---\ntitle: x\n", 1, 1)
	assert.Contains(t, perr.Message, "unterminated frontmatter")
}

// Only plain text may appear between the delimiters; structural markers are
// rejected at their own position.
func TestFrontmatterRejectsStructure(t *testing.T) {
	perr := parseErrorAt(t, "---\n- item\n---\n", 2, 1)
	assert.Contains(t, perr.Message, "frontmatter")
}

func TestParagraphInlines(t *testing.T) {
	doc := mustParse(t, "Hello **world** and *more* with `code`, [docs](https://x.dev) plus $e^x$\n")
	require.Len(t, doc.Blocks, 1)
	p := doc.Blocks[0].(*ast.Paragraph)
	assert.Equal(t, []ast.Inline{
		ast.Text("Hello "),
		&ast.Bold{Inner: ast.Text("world")},
		ast.Text(" and "),
		&ast.Italic{Inner: ast.Text("more")},
		ast.Text(" with "),
		ast.Code("code"),
		ast.Text(", "),
		&ast.Link{Text: "docs", URL: "https://x.dev"},
		ast.Text(" plus "),
		ast.Math("e^x"),
	}, p.Content)
}

// A lone star or dollar that opens no span is ordinary prose.
func TestUnpairedDelimitersAreProse(t *testing.T) {
	doc := mustParse(t, "2 * 3 costs $6\n")
	require.Len(t, doc.Blocks, 1)
	p := doc.Blocks[0].(*ast.Paragraph)
	var joined string
	for _, in := range p.Content {
		text, ok := in.(ast.Text)
		require.True(t, ok, "unexpected inline %T", in)
		joined += string(text)
	}
	assert.Equal(t, "2 * 3 costs $6", joined)
}

func TestConsecutiveLinesAreSeparateParagraphs(t *testing.T) {
	doc := mustParse(t, "first line\nsecond line\n")
	require.Len(t, doc.Blocks, 2)
}

func TestComponent(t *testing.T) {
	doc := mustParse(t, `[[component: callout theme="dark" icon="warn"]]
Content here
[[/component]]
`)
	require.Len(t, doc.Blocks, 1)
	c := doc.Blocks[0].(*ast.Component)
	assert.Equal(t, "callout", c.Name)
	assert.Equal(t, map[string]string{"theme": "dark", "icon": "warn"}, c.Attributes)
	require.Len(t, c.Content, 1)
	p := c.Content[0].(*ast.Paragraph)
	assert.Equal(t, []ast.Inline{ast.Text("Content here")}, p.Content)
}

func TestComponentNesting(t *testing.T) {
	doc := mustParse(t, `[[component: outer]]
# Inner Heading
[[component: inner depth="2"]]
deep text
[[/component]]
[[/component]]
`)
	outer := doc.Blocks[0].(*ast.Component)
	require.Len(t, outer.Content, 2)
	assert.Equal(t, "Inner Heading", outer.Content[0].(*ast.Heading).Content)
	inner := outer.Content[1].(*ast.Component)
	assert.Equal(t, "inner", inner.Name)
	assert.Equal(t, "2", inner.Attributes["depth"])
}

func TestComponentUnterminated(t *testing.T) {
	perr := parseErrorAt(t, "# Before\n[[component: card]]\nContent\n", 2, 1)
	assert.Contains(t, perr.Message, "unterminated component")
}

func TestStrayComponentEnd(t *testing.T) {
	parseErrorAt(t, "text\n[[/component]]\n", 2, 1)
}

func TestListNesting(t *testing.T) {
	doc := mustParse(t, `1. First
2. Second
   - Nested
   - Another
3. Third
`)
	require.Len(t, doc.Blocks, 1)
	list := doc.Blocks[0].(*ast.List)
	assert.True(t, list.Ordered)
	require.Len(t, list.Items, 3)

	second := list.Items[1]
	require.Len(t, second.Content, 2)
	assert.Equal(t, []ast.Inline{ast.Text("Second")},
		second.Content[0].(*ast.Paragraph).Content)

	nested := second.Content[1].(*ast.List)
	assert.False(t, nested.Ordered)
	require.Len(t, nested.Items, 2)
	assert.Equal(t, 1, nested.Items[0].Level)
	assert.Equal(t, 1, nested.Items[1].Level)
}

// A blank line inside a marker run does not split the list.
func TestListSurvivesBlankLine(t *testing.T) {
	doc := mustParse(t, "- a\n\n- b\n")
	require.Len(t, doc.Blocks, 1)
	assert.Len(t, doc.Blocks[0].(*ast.List).Items, 2)
}

// Switching marker type at the same level starts a new list.
func TestListTypeSwitch(t *testing.T) {
	doc := mustParse(t, "1. a\n- b\n")
	require.Len(t, doc.Blocks, 2)
	assert.True(t, doc.Blocks[0].(*ast.List).Ordered)
	assert.False(t, doc.Blocks[1].(*ast.List).Ordered)
}

func TestListTabIndentRejected(t *testing.T) {
	perr := parseErrorAt(t, "- a\n\t- b\n", 2, 1)
	assert.Contains(t, perr.Message, "tab indentation")
}

func TestDiagramReclassification(t *testing.T) {
	tests := []struct {
		lang string
		kind ast.DiagramKind
	}{
		{"mermaid", ast.DiagramMermaid},
		{"Mermaid", ast.DiagramMermaid},
		{"plantuml", ast.DiagramPlantUML},
		{"graphviz", ast.DiagramGraphViz},
	}
	for _, tt := range tests {
		doc := mustParse(t, "```"+tt.lang+"\ngraph TD;\n```\n")
		require.Len(t, doc.Blocks, 1, "lang %q", tt.lang)
		d, ok := doc.Blocks[0].(*ast.Diagram)
		require.True(t, ok, "lang %q", tt.lang)
		assert.Equal(t, tt.kind, d.Kind)
		assert.Equal(t, "graph TD;\n", d.Content)
	}
}

func TestCodeBlock(t *testing.T) {
	doc := mustParse(t, "```rust\nfn main() {}\n```\n")
	cb := doc.Blocks[0].(*ast.CodeBlock)
	assert.Equal(t, "rust", cb.Language)
	assert.Equal(t, "fn main() {}\n", cb.Content)
}

func TestCodeBlockNoLanguage(t *testing.T) {
	doc := mustParse(t, "```\nplain\n```\n")
	cb := doc.Blocks[0].(*ast.CodeBlock)
	assert.Equal(t, "", cb.Language)
}

// Fence contents are carried verbatim and never re-parsed.
func TestCodeBlockVerbatim(t *testing.T) {
	doc := mustParse(t, "```\n# not a heading\n**not bold**\n- not a list\n```\n")
	cb := doc.Blocks[0].(*ast.CodeBlock)
	assert.Equal(t, "# not a heading\n**not bold**\n- not a list\n", cb.Content)
}

func TestCodeBlockUnterminated(t *testing.T) {
	perr := parseErrorAt(t, "# ok\n```rust\nfn main() {}\n", 2, 1)
	assert.Contains(t, perr.Message, "unterminated code block")
}

func TestComment(t *testing.T) {
	doc := mustParse(t, "%% remember to revise\n")
	assert.Equal(t, ast.Comment("remember to revise"), doc.Blocks[0])
}

func TestBlockMath(t *testing.T) {
	doc := mustParse(t, "$$E = mc^2$$\n")
	assert.Equal(t, ast.MathBlock("E = mc^2"), doc.Blocks[0])
}

func TestBlockMathMultiline(t *testing.T) {
	doc := mustParse(t, "$$\na + b\n$$\n")
	assert.Equal(t, ast.MathBlock("\na + b\n"), doc.Blocks[0])
}

func TestAnnotationOnHeading(t *testing.T) {
	doc := mustParse(t, "# Title @[note: check this]\n")
	h := doc.Blocks[0].(*ast.Heading)
	assert.Equal(t, "Title", h.Content)
	assert.Equal(t, []ast.Annotation{{Kind: "note", Content: "check this"}}, h.Annotations)
}

func TestAnnotationsKeepOrder(t *testing.T) {
	doc := mustParse(t, "Para text @[a: one] @[b: two]\n")
	p := doc.Blocks[0].(*ast.Paragraph)
	assert.Equal(t, []ast.Inline{ast.Text("Para text")}, p.Content)
	assert.Equal(t, []ast.Annotation{
		{Kind: "a", Content: "one"},
		{Kind: "b", Content: "two"},
	}, p.Annotations)
}

// An annotation on its own line attaches to the block it trails.
func TestAnnotationLineAttaches(t *testing.T) {
	doc := mustParse(t, "Some paragraph\n@[review: pending]\n")
	require.Len(t, doc.Blocks, 1)
	p := doc.Blocks[0].(*ast.Paragraph)
	assert.Equal(t, []ast.Annotation{{Kind: "review", Content: "pending"}}, p.Annotations)
}

func TestAnnotationMissingSeparator(t *testing.T) {
	perr := parseErrorAt(t, "@[invalid]\n", 1, 1)
	assert.Contains(t, perr.Message, "annotation")
}

func TestAnnotationSeparatorPositionMidDocument(t *testing.T) {
	parseErrorAt(t, "# ok\n\ntext @[broken]\n", 3, 6)
}

func TestAnnotationAfterUnannotatableBlock(t *testing.T) {
	perr := parseErrorAt(t, "```\nx\n```\n@[note: x]\n", 4, 1)
	assert.Contains(t, perr.Message, "annotatable")
}

func TestErrorsAreFatal(t *testing.T) {
	doc, err := ParseDocument("# fine\n[[component: open]]\nnever closed\n")
	require.Error(t, err)
	assert.Nil(t, doc)
}

func TestParseErrorFormatting(t *testing.T) {
	_, err := ParseDocument("@[invalid]\n")
	require.Error(t, err)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, perr.Error(), "line 1, column 1")
}

func TestMixedDocument(t *testing.T) {
	doc := mustParse(t, `---
title: Mixed
---

# Intro

Some **prose** here.

%% private note

$$a^2 + b^2 = c^2$$

- point one
- point two
`)
	require.Len(t, doc.Blocks, 5)
	assert.IsType(t, &ast.Heading{}, doc.Blocks[0])
	assert.IsType(t, &ast.Paragraph{}, doc.Blocks[1])
	assert.IsType(t, ast.Comment(""), doc.Blocks[2])
	assert.IsType(t, ast.MathBlock(""), doc.Blocks[3])
	assert.IsType(t, &ast.List{}, doc.Blocks[4])
}
