// Package writer renders a document tree back to MetaMark text.
//
// The output is a canonical form: frontmatter re-emitted as YAML with
// deterministic key order, component attributes sorted, and one blank line
// between blocks. Re-parsing the output yields an equal tree for every
// construct that has a surface syntax.
package writer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gerunddev/metamark/ast"
)

// Write renders doc as canonical MetaMark text.
//
// Secure blocks have no surface syntax and are omitted; the JSON encoding is
// the faithful representation for documents that carry them.
func Write(doc *ast.Document) (string, error) {
	var out strings.Builder

	if doc.Metadata != nil {
		front, err := frontmatter(doc.Metadata)
		if err != nil {
			return "", err
		}
		out.WriteString("---\n")
		out.WriteString(front)
		out.WriteString("---\n\n")
	}

	for _, block := range doc.Blocks {
		writeBlock(&out, block)
	}
	return strings.TrimRight(out.String(), "\n") + "\n", nil
}

// frontmatter emits metadata as a YAML mapping with flow-style composite
// values, so the emitted block re-lexes as plain frontmatter text.
func frontmatter(meta ast.Metadata) (string, error) {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			metaNode(meta[k]),
		)
	}
	data, err := yaml.Marshal(root)
	if err != nil {
		return "", fmt.Errorf("writer: encoding frontmatter: %w", err)
	}
	return string(data), nil
}

func metaNode(v ast.MetaValue) *yaml.Node {
	switch v := v.(type) {
	case ast.MetaString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(v)}
	case ast.MetaBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(bool(v))}
	case ast.MetaNumber:
		n := float64(v)
		if n == float64(int64(n)) {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(n), 10)}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(n, 'g', -1, 64)}
	case ast.MetaArray:
		node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, item := range v {
			node.Content = append(node.Content, metaNode(item))
		}
		return node
	case ast.MetaObject:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		node := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
		for _, k := range keys {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				metaNode(v[k]),
			)
		}
		return node
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: ""}
	}
}

func writeBlock(out *strings.Builder, block ast.Block) {
	switch b := block.(type) {
	case *ast.Heading:
		out.WriteString(strings.Repeat("#", b.Level))
		out.WriteByte(' ')
		out.WriteString(b.Content)
		writeAnnotations(out, b.Annotations)
		out.WriteString("\n\n")
	case *ast.Paragraph:
		writeInlines(out, b.Content)
		writeAnnotations(out, b.Annotations)
		out.WriteString("\n\n")
	case *ast.Component:
		out.WriteString("[[component: ")
		out.WriteString(b.Name)
		keys := make([]string, 0, len(b.Attributes))
		for k := range b.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, " %s=%q", k, b.Attributes[k])
		}
		out.WriteString("]]\n")
		for _, child := range b.Content {
			writeBlock(out, child)
		}
		out.WriteString("[[/component]]\n\n")
	case *ast.CodeBlock:
		writeFence(out, b.Language, b.Content)
	case *ast.Diagram:
		writeFence(out, string(b.Kind), b.Content)
	case *ast.List:
		writeList(out, b)
		out.WriteByte('\n')
	case ast.Comment:
		out.WriteString("%% ")
		out.WriteString(string(b))
		out.WriteString("\n\n")
	case ast.MathBlock:
		out.WriteString("$$")
		out.WriteString(string(b))
		out.WriteString("$$\n\n")
	case *ast.SecureBlock:
		// No textual form; persisted documents keep it in the JSON encoding.
	}
}

func writeFence(out *strings.Builder, tag, content string) {
	out.WriteString("```")
	out.WriteString(tag)
	out.WriteByte('\n')
	out.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		out.WriteByte('\n')
	}
	out.WriteString("```\n\n")
}

func writeList(out *strings.Builder, list *ast.List) {
	ordinal := 0
	for _, item := range list.Items {
		indent := strings.Repeat("  ", item.Level)
		for _, child := range item.Content {
			switch c := child.(type) {
			case *ast.Paragraph:
				ordinal++
				out.WriteString(indent)
				if list.Ordered {
					fmt.Fprintf(out, "%d. ", ordinal)
				} else {
					out.WriteString("- ")
				}
				writeInlines(out, c.Content)
				writeAnnotations(out, c.Annotations)
				out.WriteByte('\n')
			case *ast.List:
				writeList(out, c)
			}
		}
	}
}

func writeInlines(out *strings.Builder, inlines []ast.Inline) {
	for _, in := range inlines {
		writeInline(out, in)
	}
}

func writeInline(out *strings.Builder, in ast.Inline) {
	switch in := in.(type) {
	case ast.Text:
		out.WriteString(string(in))
	case *ast.Bold:
		out.WriteString("**")
		writeInline(out, in.Inner)
		out.WriteString("**")
	case *ast.Italic:
		out.WriteString("*")
		writeInline(out, in.Inner)
		out.WriteString("*")
	case ast.Code:
		out.WriteByte('`')
		out.WriteString(string(in))
		out.WriteByte('`')
	case *ast.Link:
		fmt.Fprintf(out, "[%s](%s)", in.Text, in.URL)
	case ast.Math:
		out.WriteByte('$')
		out.WriteString(string(in))
		out.WriteByte('$')
	}
}

func writeAnnotations(out *strings.Builder, anns []ast.Annotation) {
	for _, ann := range anns {
		fmt.Fprintf(out, " @[%s: %s]", ann.Kind, ann.Content)
	}
}
