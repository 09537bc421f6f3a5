package commands

import (
	"fmt"
	"os"

	"github.com/gerunddev/metamark/parser"
	"github.com/gerunddev/metamark/styles"
)

// Check parses the given files (or the whole workspace with no arguments)
// without printing trees, reporting per-file OK or a positioned error.
func Check(args []string) {
	_, files := splitFlags(args)

	e := newEnv()
	defer e.done()

	if len(files) == 0 {
		var err error
		files, err = e.store.List()
		if err != nil {
			fail(err.Error())
		}
		if len(files) == 0 {
			fmt.Println(styles.DimStyle.Render("no documents in " + e.cfg.Workspace))
			return
		}
	}

	failed := 0
	for _, file := range files {
		text, err := e.store.LoadText(file)
		if err != nil {
			fmt.Fprintln(os.Stderr, styles.Fail(file, err))
			failed++
			continue
		}
		if _, err := parser.ParseDocument(text); err != nil {
			e.log.ParseFailed(file, err)
			fmt.Fprintln(os.Stderr, renderParseError(file, err))
			failed++
			continue
		}
		fmt.Println(styles.OK(file))
	}

	if failed > 0 {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render(
			fmt.Sprintf("%d of %d documents failed", failed, len(files))))
		os.Exit(1)
	}
}
