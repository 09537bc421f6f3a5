package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gerunddev/metamark/ast"
	"github.com/gerunddev/metamark/parser"
	"github.com/gerunddev/metamark/styles"
)

// Parse parses one document and prints its structure, or the JSON tree
// with --json. With --save the parsed tree is also persisted to the store.
func Parse(args []string) {
	flags, files := splitFlags(args)
	if len(files) != 1 {
		fail("Usage: metamark parse <file> [--json] [--save]")
	}
	file := files[0]

	e := newEnv()
	defer e.done()

	text, err := e.store.LoadText(file)
	if err != nil {
		fail(err.Error())
	}

	start := time.Now()
	doc, err := parser.ParseDocument(text)
	if err != nil {
		e.log.ParseFailed(file, err)
		fmt.Fprintln(os.Stderr, renderParseError(file, err))
		os.Exit(1)
	}
	e.log.DocumentParsed(file, len(doc.Blocks), time.Since(start))

	if flags["save"] {
		env, err := e.store.SaveTree(file, doc)
		if err != nil {
			fail(err.Error())
		}
		e.log.DocumentSaved(env.ID, file)
		fmt.Println(styles.DimStyle.Render("saved tree as " + env.ID))
	}

	if flags["json"] {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			fail(err.Error())
		}
		fmt.Println(string(data))
		return
	}

	fmt.Println(styles.TitleStyle.Render(file))
	if len(doc.Metadata) > 0 {
		fmt.Printf("%s %d keys\n", styles.KeyStyle.Render("metadata"), len(doc.Metadata))
	}
	printBlocks(doc.Blocks, 0)
}

func printBlocks(blocks []ast.Block, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, block := range blocks {
		switch b := block.(type) {
		case *ast.Heading:
			fmt.Printf("%s%s %s\n", indent,
				styles.KeyStyle.Render(fmt.Sprintf("heading(%d)", b.Level)), b.Content)
		case *ast.Paragraph:
			fmt.Printf("%s%s %s\n", indent,
				styles.KeyStyle.Render("paragraph"), summarize(b.Content))
		case *ast.Component:
			fmt.Printf("%s%s %s\n", indent,
				styles.KeyStyle.Render("component"), b.Name)
			printBlocks(b.Content, depth+1)
		case *ast.CodeBlock:
			lang := b.Language
			if lang == "" {
				lang = "plain"
			}
			fmt.Printf("%s%s %s, %d bytes\n", indent,
				styles.KeyStyle.Render("code"), lang, len(b.Content))
		case *ast.Diagram:
			fmt.Printf("%s%s %s, %d bytes\n", indent,
				styles.KeyStyle.Render("diagram"), b.Kind, len(b.Content))
		case *ast.SecureBlock:
			fmt.Printf("%s%s %s, %d bytes\n", indent,
				styles.KeyStyle.Render("secure"), b.Info.Algorithm, len(b.Content))
		case *ast.List:
			kind := "unordered"
			if b.Ordered {
				kind = "ordered"
			}
			fmt.Printf("%s%s %s, %d items\n", indent,
				styles.KeyStyle.Render("list"), kind, len(b.Items))
			for _, item := range b.Items {
				printBlocks(item.Content, depth+1)
			}
		case ast.Comment:
			fmt.Printf("%s%s %s\n", indent, styles.DimStyle.Render("comment"), string(b))
		case ast.MathBlock:
			fmt.Printf("%s%s\n", indent, styles.KeyStyle.Render("math"))
		}
	}
}

// summarize flattens inline content to a short preview line
func summarize(inlines []ast.Inline) string {
	var text strings.Builder
	for _, in := range inlines {
		switch in := in.(type) {
		case ast.Text:
			text.WriteString(string(in))
		case *ast.Bold:
			if t, ok := in.Inner.(ast.Text); ok {
				text.WriteString(string(t))
			}
		case *ast.Italic:
			if t, ok := in.Inner.(ast.Text); ok {
				text.WriteString(string(t))
			}
		case ast.Code:
			text.WriteString(string(in))
		case *ast.Link:
			text.WriteString(in.Text)
		case ast.Math:
			text.WriteString(string(in))
		}
	}
	s := text.String()
	if len(s) > 60 {
		s = s[:57] + "..."
	}
	return s
}
