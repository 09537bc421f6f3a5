// Package lexer turns raw MetaMark text into a stream of positioned tokens.
//
// Lexical rules live in an ordered table. At every cursor position the rules
// are tried by declared priority: a higher-priority rule wins regardless of
// match length, and among rules of equal priority the longest match wins.
// Code fences carry the highest priority so a fence is never captured as
// bold, italic or plain text; plain text is the lowest-priority catch-all.
package lexer

import (
	"fmt"
	"regexp"
)

// TokenType classifies one lexeme.
type TokenType int

const (
	// EOF marks the end of the input stream.
	EOF TokenType = iota
	// Heading is a run of one to six '#' followed by a space.
	Heading
	// FrontmatterDelim is a "---" line.
	FrontmatterDelim
	// ComponentStart is a "[[component: ...]]" marker.
	ComponentStart
	// ComponentEnd is a "[[/component]]" marker.
	ComponentEnd
	// Annotation is an "@[kind: content]" marker.
	Annotation
	// Comment is a "%% ..." line.
	Comment
	// CodeFence opens or closes a fenced block; an opening fence may carry a
	// language tag. The parser disambiguates the two by context.
	CodeFence
	// Bold is a complete "**...**" span.
	Bold
	// Italic is a complete "*...*" span.
	Italic
	// InlineCode is a complete "`...`" span.
	InlineCode
	// Link is a complete "[text](url)" span.
	Link
	// InlineMath is a complete "$...$" span.
	InlineMath
	// BlockMath is a complete "$$...$$" span, possibly spanning lines.
	BlockMath
	// UnorderedListMarker is "- " with its leading space indentation.
	UnorderedListMarker
	// OrderedListMarker is "N. " with its leading space indentation.
	OrderedListMarker
	// Text is a plain text run.
	Text
	// Whitespace is a run of spaces and tabs.
	Whitespace
	// Newline is a run of line breaks.
	Newline
)

var tokenNames = map[TokenType]string{
	EOF:                 "end of input",
	Heading:             "heading marker",
	FrontmatterDelim:    "frontmatter delimiter",
	ComponentStart:      "component start",
	ComponentEnd:        "component end",
	Annotation:          "annotation",
	Comment:             "comment",
	CodeFence:           "code fence",
	Bold:                "bold span",
	Italic:              "italic span",
	InlineCode:          "inline code span",
	Link:                "link",
	InlineMath:          "inline math",
	BlockMath:           "block math",
	UnorderedListMarker: "unordered list marker",
	OrderedListMarker:   "ordered list marker",
	Text:                "text",
	Whitespace:          "whitespace",
	Newline:             "newline",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token is one lexeme with the 1-based line and column of its first
// character.
type Token struct {
	Type   TokenType
	Text   string
	Line   int
	Column int
}

// LexError reports input the scanner could not classify.
type LexError struct {
	Line    int
	Column  int
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

type rule struct {
	typ      TokenType
	priority int
	re       *regexp.Regexp
}

// The rule table is the single source of truth for lexical precedence.
// Patterns are anchored at the cursor; \z alternatives admit constructs cut
// short by end of input (a fence or delimiter on the last line).
var rules = []rule{
	{CodeFence, 3, regexp.MustCompile(`\A` + "```" + `[a-zA-Z0-9]*(?:\r?\n|\z)`)},
	{FrontmatterDelim, 2, regexp.MustCompile(`\A---(?:\r?\n|\z)`)},
	{ComponentStart, 2, regexp.MustCompile(`\A\[\[component:[^\]\r\n]+\]\]`)},
	{ComponentEnd, 2, regexp.MustCompile(`\A\[\[/component\]\]`)},
	{Annotation, 2, regexp.MustCompile(`\A@\[[^\]\r\n]+\]`)},
	{Comment, 2, regexp.MustCompile(`\A%% [^\r\n]*`)},
	{BlockMath, 2, regexp.MustCompile(`\A\$\$[^$]+\$\$`)},
	{InlineMath, 2, regexp.MustCompile(`\A\$[^$\r\n]+\$`)},
	{Bold, 2, regexp.MustCompile(`\A\*\*[^*\r\n]+\*\*`)},
	{Italic, 2, regexp.MustCompile(`\A\*[^*\r\n]+\*`)},
	{InlineCode, 2, regexp.MustCompile("\\A`[^`\r\n]+`")},
	{Link, 2, regexp.MustCompile(`\A\[[^\]\r\n]+\]\([^)\r\n]+\)`)},
	{UnorderedListMarker, 2, regexp.MustCompile(`\A *- `)},
	{OrderedListMarker, 2, regexp.MustCompile(`\A *[0-9]+\. `)},
	{Heading, 2, regexp.MustCompile(`\A#{1,6} `)},
	{Whitespace, 2, regexp.MustCompile(`\A[ \t]+`)},
	{Newline, 2, regexp.MustCompile(`\A[\r\n]+`)},
	// Catch-all: one arbitrary non-newline character, then a run of
	// characters that cannot start a higher-priority span. A lone '*' or
	// '$' that opens no span lands here.
	{Text, 1, regexp.MustCompile("\\A[^\r\n][^*`\\[$@\r\n]*")},
}

// Lexer is a single-use scanner over one input string. It holds no state
// shared with any other instance; independent documents may be scanned in
// parallel with one Lexer each.
type Lexer struct {
	input string
	pos   int
	line  int
	col   int
}

// New returns a lexer positioned at line 1, column 1 of input.
func New(input string) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

// Next returns the next token. The reported position is the position of the
// lexeme's first character, before any input is consumed. At the end of the
// input it returns an EOF token; it never skips unclassifiable input.
func (l *Lexer) Next() (Token, error) {
	if l.pos >= len(l.input) {
		return Token{Type: EOF, Line: l.line, Column: l.col}, nil
	}

	rest := l.input[l.pos:]
	best := -1
	bestLen := 0
	for i, r := range rules {
		loc := r.re.FindStringIndex(rest)
		if loc == nil {
			continue
		}
		if best < 0 || r.priority > rules[best].priority ||
			(r.priority == rules[best].priority && loc[1] > bestLen) {
			best = i
			bestLen = loc[1]
		}
	}
	if best < 0 || bestLen == 0 {
		return Token{}, &LexError{
			Line:    l.line,
			Column:  l.col,
			Message: fmt.Sprintf("unrecognized input starting at %q", rest[:1]),
		}
	}

	tok := Token{
		Type:   rules[best].typ,
		Text:   rest[:bestLen],
		Line:   l.line,
		Column: l.col,
	}
	l.advance(tok.Text)
	return tok, nil
}

func (l *Lexer) advance(lexeme string) {
	l.pos += len(lexeme)
	for _, c := range lexeme {
		if c == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
	}
}
