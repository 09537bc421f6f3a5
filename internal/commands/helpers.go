package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/gerunddev/metamark/internal/config"
	"github.com/gerunddev/metamark/internal/logger"
	"github.com/gerunddev/metamark/internal/store"
	"github.com/gerunddev/metamark/lexer"
	"github.com/gerunddev/metamark/parser"
	"github.com/gerunddev/metamark/styles"
)

// env bundles what every command needs: config, store and a logger that
// writes to the configured log file.
type env struct {
	cfg   *config.Config
	store *store.Store
	log   *logger.Logger
	done  func()
}

func newEnv() *env {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ Failed to load config: "+err.Error()))
		os.Exit(1)
	}

	log, cleanup, err := logger.NewFileLogger(cfg.LogFile)
	if err != nil {
		log = logger.Discard()
		cleanup = func() {}
	}

	return &env{
		cfg:   cfg,
		store: store.New(cfg.Workspace, cfg.Extension),
		log:   log,
		done:  cleanup,
	}
}

// fail prints a styled error and exits
func fail(msg string) {
	fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+msg))
	os.Exit(1)
}

// renderParseError formats a parse failure, surfacing the source position
// for positioned error kinds
func renderParseError(file string, err error) string {
	var perr *parser.ParseError
	if errors.As(err, &perr) {
		return fmt.Sprintf("%s %s %s",
			styles.ErrorStyle.Render("✗ "+file),
			styles.Position(perr.Line, perr.Column),
			perr.Message)
	}
	var lerr *lexer.LexError
	if errors.As(err, &lerr) {
		return fmt.Sprintf("%s %s %s",
			styles.ErrorStyle.Render("✗ "+file),
			styles.Position(lerr.Line, lerr.Column),
			lerr.Message)
	}
	return styles.Fail(file, err)
}

// splitFlags separates "--flag" arguments from positional ones
func splitFlags(args []string) (flags map[string]bool, rest []string) {
	flags = make(map[string]bool)
	for _, arg := range args {
		if len(arg) > 2 && arg[:2] == "--" {
			flags[arg[2:]] = true
		} else {
			rest = append(rest, arg)
		}
	}
	return flags, rest
}
