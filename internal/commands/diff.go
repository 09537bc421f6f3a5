package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/gerunddev/metamark/parser"
	"github.com/gerunddev/metamark/styles"
	"github.com/gerunddev/metamark/writer"
)

// Diff compares the canonical forms of two documents, so formatting noise
// (spacing, attribute order, frontmatter layout) never shows up as a
// difference. The unified diff is rendered for the terminal.
func Diff(args []string) {
	flags, files := splitFlags(args)
	if len(files) != 2 {
		fail("Usage: metamark diff <a> <b> [--plain]")
	}

	e := newEnv()
	defer e.done()

	canonical := make([]string, 2)
	for i, file := range files {
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
		canonical[i], err = writer.Write(doc)
		if err != nil {
			fail(err.Error())
		}
	}

	aName := filepath.Base(files[0])
	bName := filepath.Base(files[1])
	if canonical[0] == canonical[1] {
		fmt.Println(styles.OK(aName + " and " + bName + " are structurally identical"))
		return
	}

	edits := myers.ComputeEdits(span.URIFromPath(aName), canonical[0], canonical[1])
	unified := fmt.Sprint(gotextdiff.ToUnified(aName, bName, canonical[0], edits))
	diffMarkdown := fmt.Sprintf("```diff\n%s```\n", unified)

	if flags["plain"] {
		fmt.Print(unified)
		return
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		// Fallback to plain diff if glamour fails
		fmt.Print(diffMarkdown)
		return
	}
	rendered, err := renderer.Render(diffMarkdown)
	if err != nil {
		fmt.Print(diffMarkdown)
		return
	}
	fmt.Print(rendered)
}
