package main

import (
	"fmt"
	"os"

	"github.com/gerunddev/metamark/internal/commands"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "parse":
		commands.Parse(os.Args[2:])
	case "check":
		commands.Check(os.Args[2:])
	case "fmt":
		commands.Fmt(os.Args[2:])
	case "meta":
		commands.Meta(os.Args[2:])
	case "diff":
		commands.Diff(os.Args[2:])
	case "info":
		commands.Info(os.Args[2:])
	case "version", "-v", "--version":
		fmt.Printf("metamark v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	usage := `metamark - MetaMark document processor

Usage:
  metamark <command> [options]

Commands:
  parse       Parse a document and print its structure
  check       Parse documents and report errors with positions
  fmt         Re-export a document in canonical form
  meta        Resolve and print a document's frontmatter
  diff        Compare the canonical forms of two documents
  info        Show document statistics
  version     Show version information
  help        Show this help message

Examples:
  metamark parse notes.mmk
  metamark parse notes.mmk --json
  metamark parse notes.mmk --save
  metamark check
  metamark fmt notes.mmk --write
  metamark meta notes.mmk
  metamark diff draft.mmk final.mmk
  metamark info notes.mmk
`
	fmt.Print(usage)
}
