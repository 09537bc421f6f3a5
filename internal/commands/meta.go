package commands

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/gerunddev/metamark/ast"
	"github.com/gerunddev/metamark/parser"
	"github.com/gerunddev/metamark/styles"
)

// Meta resolves a document's frontmatter and prints it as key/value lines.
func Meta(args []string) {
	_, files := splitFlags(args)
	if len(files) != 1 {
		fail("Usage: metamark meta <file>")
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
	if len(doc.Metadata) == 0 {
		fmt.Println(styles.DimStyle.Render(file + " has no frontmatter"))
		return
	}
	e.log.MetadataResolved(file, len(doc.Metadata))

	keys := make([]string, 0, len(doc.Metadata))
	for k := range doc.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s %s\n", styles.KeyStyle.Render(k+":"), renderMeta(doc.Metadata[k]))
	}
}

func renderMeta(v ast.MetaValue) string {
	switch v := v.(type) {
	case ast.MetaString:
		return string(v)
	case ast.MetaNumber:
		return strconv.FormatFloat(float64(v), 'g', -1, 64)
	case ast.MetaBool:
		return strconv.FormatBool(bool(v))
	case ast.MetaArray:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, renderMeta(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ast.MetaObject:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+renderMeta(v[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return ""
	}
}
