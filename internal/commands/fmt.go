package commands

import (
	"fmt"
	"os"

	"github.com/gerunddev/metamark/parser"
	"github.com/gerunddev/metamark/styles"
	"github.com/gerunddev/metamark/writer"
)

// Fmt re-exports a document in canonical form, printing it by default or
// rewriting the file in place with --write.
func Fmt(args []string) {
	flags, files := splitFlags(args)
	if len(files) != 1 {
		fail("Usage: metamark fmt <file> [--write]")
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

	canonical, err := writer.Write(doc)
	if err != nil {
		fail(err.Error())
	}

	if flags["write"] {
		if err := e.store.SaveText(file, canonical); err != nil {
			fail(err.Error())
		}
		e.log.ExportWritten(file, file, len(canonical))
		if canonical != text {
			fmt.Println(styles.OK(file + " rewritten"))
		} else {
			fmt.Println(styles.DimStyle.Render(file + " already canonical"))
		}
		return
	}
	fmt.Print(canonical)
}
