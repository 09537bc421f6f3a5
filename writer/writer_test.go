package writer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerunddev/metamark/ast"
	"github.com/gerunddev/metamark/parser"
)

// The canonical form is a fixed point: parsing the writer's output yields the
// same tree, and writing that tree yields the same text.
func TestCanonicalRoundTrip(t *testing.T) {
	const source = `---
count: 3
tags: [go, parsing]
title: Round Trip
---

# Overview @[status: draft]

Some **bold** and *italic* prose with ` + "`code`" + `, a [link](https://example.com) and $x^2$.

[[component: callout icon="warn" theme="dark"]]
Inside the component.
[[/component]]

1. first
2. second
  - nested
  - deeper detail
3. third

` + "```go\nfmt.Println(\"hi\")\n```" + `

` + "```mermaid\ngraph TD;\n```" + `

%% editorial aside

$$a^2 + b^2 = c^2$$
`

	doc, err := parser.ParseDocument(source)
	require.NoError(t, err)

	out, err := Write(doc)
	require.NoError(t, err)

	doc2, err := parser.ParseDocument(out)
	require.NoError(t, err, "canonical output failed to re-parse:\n%s", out)
	assert.Equal(t, doc, doc2)

	out2, err := Write(doc2)
	require.NoError(t, err)
	assert.Equal(t, out, out2)
}

// Ordered items are renumbered from one regardless of source ordinals.
func TestOrderedListRenumbered(t *testing.T) {
	doc, err := parser.ParseDocument("5. a\n9. b\n")
	require.NoError(t, err)
	out, err := Write(doc)
	require.NoError(t, err)
	assert.Equal(t, "1. a\n2. b\n", out)
}

func TestWriteHeadingAndParagraph(t *testing.T) {
	doc := &ast.Document{Blocks: []ast.Block{
		&ast.Heading{Level: 2, Content: "Title"},
		&ast.Paragraph{Content: []ast.Inline{
			ast.Text("plain "),
			&ast.Bold{Inner: ast.Text("strong")},
		}},
	}}
	out, err := Write(doc)
	require.NoError(t, err)
	assert.Equal(t, "## Title\n\nplain **strong**\n", out)
}

func TestWriteFrontmatterSortedKeys(t *testing.T) {
	doc := &ast.Document{Metadata: ast.Metadata{
		"zeta":  ast.MetaBool(true),
		"alpha": ast.MetaNumber(1),
		"mid":   ast.MetaString("m"),
	}}
	out, err := Write(doc)
	require.NoError(t, err)

	alpha := strings.Index(out, "alpha")
	mid := strings.Index(out, "mid")
	zeta := strings.Index(out, "zeta")
	require.True(t, alpha >= 0 && mid >= 0 && zeta >= 0, "output:\n%s", out)
	assert.Less(t, alpha, mid)
	assert.Less(t, mid, zeta)
	assert.True(t, strings.HasPrefix(out, "---\n"))
}

func TestWriteComponentAttributesSorted(t *testing.T) {
	doc := &ast.Document{Blocks: []ast.Block{
		&ast.Component{
			Name:       "card",
			Attributes: map[string]string{"z": "1", "a": "2"},
		},
	}}
	out, err := Write(doc)
	require.NoError(t, err)
	assert.Contains(t, out, `[[component: card a="2" z="1"]]`)
}

func TestWriteAnnotations(t *testing.T) {
	doc := &ast.Document{Blocks: []ast.Block{
		&ast.Paragraph{
			Content:     []ast.Inline{ast.Text("done")},
			Annotations: []ast.Annotation{{Kind: "review", Content: "lgtm"}},
		},
	}}
	out, err := Write(doc)
	require.NoError(t, err)
	assert.Equal(t, "done @[review: lgtm]\n", out)
}

// Secure blocks have no surface syntax; the writer skips them.
func TestSecureBlockOmitted(t *testing.T) {
	doc := &ast.Document{Blocks: []ast.Block{
		&ast.Heading{Level: 1, Content: "Visible"},
		&ast.SecureBlock{
			Content: []byte("ciphertext"),
			Info:    ast.EncryptionInfo{Algorithm: "aes-256-gcm", KeyID: "k1"},
		},
	}}
	out, err := Write(doc)
	require.NoError(t, err)
	assert.Equal(t, "# Visible\n", out)
	assert.NotContains(t, out, "ciphertext")
}

func TestWriteFenceAddsFinalNewline(t *testing.T) {
	doc := &ast.Document{Blocks: []ast.Block{
		&ast.CodeBlock{Language: "sh", Content: "ls"},
	}}
	out, err := Write(doc)
	require.NoError(t, err)
	assert.Equal(t, "```sh\nls\n```\n", out)
}

func TestEmptyDocument(t *testing.T) {
	out, err := Write(&ast.Document{})
	require.NoError(t, err)
	assert.Equal(t, "\n", out)
}
