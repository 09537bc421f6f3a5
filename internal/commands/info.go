package commands

import (
	"fmt"
	"os"

	"github.com/gerunddev/metamark/ast"
	"github.com/gerunddev/metamark/parser"
	"github.com/gerunddev/metamark/styles"
)

// Info prints document statistics: block counts by kind and metadata keys.
func Info(args []string) {
	_, files := splitFlags(args)
	if len(files) != 1 {
		fail("Usage: metamark info <file>")
	}
	file := files[0]

	e := newEnv()
	defer e.done()

	text, err := e.store.LoadText(file)
	if err != nil {
		fail(err.Error())
	}
	doc, err := parser.ParseDocument(text)
	if err != nil {
		e.log.ParseFailed(file, err)
		fmt.Fprintln(os.Stderr, renderParseError(file, err))
		os.Exit(1)
	}

	counts := make(map[string]int)
	countBlocks(doc.Blocks, counts)

	fmt.Println(styles.TitleStyle.Render(file))
	fmt.Printf("%s %d\n", styles.KeyStyle.Render("metadata keys"), len(doc.Metadata))
	for _, kind := range []string{
		"heading", "paragraph", "component", "code", "diagram",
		"secure", "list", "comment", "math",
	} {
		if counts[kind] > 0 {
			fmt.Printf("%s %d\n", styles.KeyStyle.Render(kind+"s"), counts[kind])
		}
	}
}

func countBlocks(blocks []ast.Block, counts map[string]int) {
	for _, block := range blocks {
		switch b := block.(type) {
		case *ast.Heading:
			counts["heading"]++
		case *ast.Paragraph:
			counts["paragraph"]++
		case *ast.Component:
			counts["component"]++
			countBlocks(b.Content, counts)
		case *ast.CodeBlock:
			counts["code"]++
		case *ast.Diagram:
			counts["diagram"]++
		case *ast.SecureBlock:
			counts["secure"]++
		case *ast.List:
			counts["list"]++
			for _, item := range b.Items {
				countBlocks(item.Content, counts)
			}
		case ast.Comment:
			counts["comment"]++
		case ast.MathBlock:
			counts["math"]++
		}
	}
}
