// Package parser assembles MetaMark token streams into document trees.
//
// The parser pulls tokens from the lexer one at a time and dispatches on the
// class of the current token; each construct routine consumes up to its own
// terminator and returns one block. There is no backtracking beyond the
// single lookahead token. A parser instance is single-use and shares no
// state, so independent documents parse in parallel without synchronization.
package parser

import (
	"fmt"
	"strings"

	"github.com/gerunddev/metamark/ast"
	"github.com/gerunddev/metamark/lexer"
	"github.com/gerunddev/metamark/metadata"
)

// ParseError reports a token stream that violates the block or inline
// grammar. Line and Column are 1-based and point at the first character of
// the offending lexeme.
type ParseError struct {
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// diagramKinds maps fence language tags to diagram engines. Tags are
// compared case-insensitively.
var diagramKinds = map[string]ast.DiagramKind{
	"mermaid":  ast.DiagramMermaid,
	"plantuml": ast.DiagramPlantUML,
	"graphviz": ast.DiagramGraphViz,
}

// ParseDocument parses raw MetaMark text into a document tree. This is the
// library boundary: any lexical or structural violation aborts the whole
// parse with a positioned error and no partial result.
func ParseDocument(input string) (*ast.Document, error) {
	p := &parser{lex: lexer.New(input)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.parseDocument()
}

type parser struct {
	lex *lexer.Lexer
	cur lexer.Token
}

// advance pulls the next token into the lookahead slot.
func (p *parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) errorf(at lexer.Token, format string, args ...any) error {
	return &ParseError{
		Line:    at.Line,
		Column:  at.Column,
		Message: fmt.Sprintf(format, args...),
	}
}

func (p *parser) parseDocument() (*ast.Document, error) {
	doc := &ast.Document{}

	if p.cur.Type == lexer.FrontmatterDelim {
		meta, err := p.parseFrontmatter()
		if err != nil {
			return nil, err
		}
		doc.Metadata = meta
	}

	for p.cur.Type != lexer.EOF {
		block, err := p.parseBlock(doc.Blocks)
		if err != nil {
			return nil, err
		}
		if block != nil {
			doc.Blocks = append(doc.Blocks, block)
		}
	}
	return doc, nil
}

// parseFrontmatter accumulates the raw text between the two delimiters and
// hands it to the metadata resolver. Only text, whitespace and newline
// tokens may appear inside; anything else is a structural error.
func (p *parser) parseFrontmatter() (ast.Metadata, error) {
	open := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}

	var raw strings.Builder
	for {
		switch p.cur.Type {
		case lexer.FrontmatterDelim:
			if err := p.advance(); err != nil {
				return nil, err
			}
			return metadata.Resolve(raw.String())
		case lexer.Text, lexer.Whitespace, lexer.Newline:
			raw.WriteString(p.cur.Text)
			if err := p.advance(); err != nil {
				return nil, err
			}
		case lexer.EOF:
			return nil, p.errorf(open, "unterminated frontmatter block")
		default:
			return nil, p.errorf(p.cur, "unexpected %s in frontmatter", p.cur.Type)
		}
	}
}

// parseBlock dispatches one block-level construct. prev is the block
// sequence built so far in the enclosing container; a trailing annotation
// line attaches to its last element. A nil, nil return means the token was
// structural filler (whitespace or blank lines) and produced no block.
func (p *parser) parseBlock(prev []ast.Block) (ast.Block, error) {
	switch p.cur.Type {
	case lexer.Heading:
		return p.parseHeading()
	case lexer.UnorderedListMarker, lexer.OrderedListMarker:
		return p.parseList()
	case lexer.ComponentStart:
		return p.parseComponent()
	case lexer.CodeFence:
		return p.parseFencedBlock()
	case lexer.Comment:
		return p.parseComment()
	case lexer.BlockMath:
		return p.parseBlockMath()
	case lexer.Annotation:
		return nil, p.annotateLast(prev)
	case lexer.Text, lexer.Bold, lexer.Italic, lexer.InlineCode, lexer.Link, lexer.InlineMath:
		return p.parseParagraph()
	case lexer.Whitespace:
		return nil, p.skipIndent()
	case lexer.Newline:
		return nil, p.advance()
	default:
		return nil, p.errorf(p.cur, "unexpected %s", p.cur.Type)
	}
}

// skipIndent consumes a whitespace token between blocks. Tabs are rejected
// when they indent a list marker: the indentation unit is two spaces and tab
// width is deliberately undefined.
func (p *parser) skipIndent() error {
	ws := p.cur
	if err := p.advance(); err != nil {
		return err
	}
	if strings.ContainsRune(ws.Text, '\t') && p.atListMarker() {
		return p.errorf(ws, "tab indentation before list marker")
	}
	return nil
}

func (p *parser) atListMarker() bool {
	return p.cur.Type == lexer.UnorderedListMarker || p.cur.Type == lexer.OrderedListMarker
}

func (p *parser) parseHeading() (ast.Block, error) {
	level := strings.Count(p.cur.Text, "#")
	if err := p.advance(); err != nil {
		return nil, err
	}

	h := &ast.Heading{Level: level}
	var content strings.Builder
loop:
	for {
		switch p.cur.Type {
		case lexer.Annotation:
			ann, err := p.parseAnnotation()
			if err != nil {
				return nil, err
			}
			h.Annotations = append(h.Annotations, ann)
		case lexer.Newline:
			if err := p.advance(); err != nil {
				return nil, err
			}
			break loop
		case lexer.EOF:
			break loop
		default:
			// Heading content is a flat string: every non-annotation lexeme
			// before the newline contributes its source text verbatim.
			content.WriteString(p.cur.Text)
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	h.Content = strings.TrimSpace(content.String())
	return h, nil
}

func (p *parser) parseComment() (ast.Block, error) {
	text := strings.TrimSpace(strings.TrimPrefix(p.cur.Text, "%% "))
	if err := p.advance(); err != nil {
		return nil, err
	}
	return ast.Comment(text), nil
}

func (p *parser) parseBlockMath() (ast.Block, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(p.cur.Text, "$$"), "$$")
	if err := p.advance(); err != nil {
		return nil, err
	}
	return ast.MathBlock(inner), nil
}

// parseFencedBlock consumes a fenced region. Everything between the fences
// is concatenated verbatim, not re-lexed. A language tag naming a diagram
// engine reclassifies the block as a diagram.
func (p *parser) parseFencedBlock() (ast.Block, error) {
	open := p.cur
	lang := strings.TrimRight(strings.TrimPrefix(open.Text, "```"), "\r\n")
	if err := p.advance(); err != nil {
		return nil, err
	}

	var content strings.Builder
	for p.cur.Type != lexer.CodeFence {
		if p.cur.Type == lexer.EOF {
			return nil, p.errorf(open, "unterminated code block")
		}
		content.WriteString(p.cur.Text)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if kind, ok := diagramKinds[strings.ToLower(lang)]; ok {
		return &ast.Diagram{Kind: kind, Content: content.String()}, nil
	}
	return &ast.CodeBlock{Language: lang, Content: content.String()}, nil
}

// parseComponent parses one [[component: ...]] container and recurses into
// its body until the matching end marker.
func (p *parser) parseComponent() (ast.Block, error) {
	open := p.cur
	name, attrs := splitComponentHeader(open.Text)
	if err := p.advance(); err != nil {
		return nil, err
	}

	comp := &ast.Component{Name: name, Attributes: attrs}
	for {
		switch p.cur.Type {
		case lexer.ComponentEnd:
			if err := p.advance(); err != nil {
				return nil, err
			}
			return comp, nil
		case lexer.EOF:
			return nil, p.errorf(open, "unterminated component %q", name)
		default:
			block, err := p.parseBlock(comp.Content)
			if err != nil {
				return nil, err
			}
			if block != nil {
				comp.Content = append(comp.Content, block)
			}
		}
	}
}

// splitComponentHeader extracts the name and attributes from a component
// start lexeme. The attribute micro-grammar is deliberately narrow: the
// payload splits on the first space into name and attribute tail, the tail
// splits on whitespace, each entry splits on the first '=', and surrounding
// quotes are stripped from the value. No escaping, no quoted spaces.
func splitComponentHeader(lexeme string) (string, map[string]string) {
	payload := strings.TrimSuffix(strings.TrimPrefix(lexeme, "[[component:"), "]]")
	payload = strings.TrimSpace(payload)

	name := payload
	attrs := make(map[string]string)
	if i := strings.IndexByte(payload, ' '); i >= 0 {
		name = payload[:i]
		for _, field := range strings.Fields(payload[i+1:]) {
			key, value, ok := strings.Cut(field, "=")
			if !ok {
				continue
			}
			attrs[strings.TrimSpace(key)] = strings.Trim(value, `"`)
		}
	}
	return name, attrs
}

// markerLevel derives a list item's nesting level from the marker's leading
// spaces: every two spaces are one level.
func markerLevel(lexeme string) int {
	spaces := 0
	for _, c := range lexeme {
		if c != ' ' {
			break
		}
		spaces++
	}
	return spaces / 2
}

func (p *parser) parseList() (ast.Block, error) {
	return p.parseListAt(markerLevel(p.cur.Text))
}

// parseListAt consumes a contiguous run of list markers at the given nesting
// level. The first marker fixes orderedness for the run; deeper markers
// recurse into a nested list attached to the last item, and a shallower or
// differently-typed marker at this level ends the list. Blank lines inside
// the run belong to the list; any other token ends it.
func (p *parser) parseListAt(level int) (*ast.List, error) {
	list := &ast.List{Ordered: p.cur.Type == lexer.OrderedListMarker}
	for {
		switch p.cur.Type {
		case lexer.UnorderedListMarker, lexer.OrderedListMarker:
			lvl := markerLevel(p.cur.Text)
			if lvl > level && len(list.Items) > 0 {
				nested, err := p.parseListAt(lvl)
				if err != nil {
					return nil, err
				}
				last := &list.Items[len(list.Items)-1]
				last.Content = append(last.Content, nested)
				continue
			}
			if lvl < level {
				return list, nil
			}
			ordered := p.cur.Type == lexer.OrderedListMarker
			if ordered != list.Ordered {
				return list, nil
			}
			item, err := p.parseListItem(lvl)
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, item)
		case lexer.Newline:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case lexer.Whitespace:
			if err := p.skipIndent(); err != nil {
				return nil, err
			}
		default:
			return list, nil
		}
	}
}

// parseListItem consumes one item's content up to its terminating newline.
func (p *parser) parseListItem(level int) (ast.ListItem, error) {
	if err := p.advance(); err != nil {
		return ast.ListItem{}, err
	}
	inlines, anns, err := p.parseInlineRun()
	if err != nil {
		return ast.ListItem{}, err
	}
	item := ast.ListItem{Level: level}
	if len(inlines) > 0 || len(anns) > 0 {
		item.Content = append(item.Content, &ast.Paragraph{Content: inlines, Annotations: anns})
	}
	return item, nil
}

func (p *parser) parseParagraph() (ast.Block, error) {
	inlines, anns, err := p.parseInlineRun()
	if err != nil {
		return nil, err
	}
	return &ast.Paragraph{Content: inlines, Annotations: anns}, nil
}

// parseInlineRun consumes inline tokens up to a terminating newline, which
// is consumed but not retained. Adjacent text and whitespace lexemes
// coalesce into a single text node. Block-structural tokens (fences,
// component markers, frontmatter delimiters) terminate the run without
// being consumed so the enclosing block loop sees them.
func (p *parser) parseInlineRun() ([]ast.Inline, []ast.Annotation, error) {
	var (
		inlines []ast.Inline
		anns    []ast.Annotation
		text    strings.Builder
	)
	flush := func() {
		if text.Len() > 0 {
			inlines = append(inlines, ast.Text(text.String()))
			text.Reset()
		}
	}

	for {
		switch p.cur.Type {
		case lexer.Text, lexer.Whitespace:
			text.WriteString(p.cur.Text)
		case lexer.Bold:
			flush()
			inner := strings.TrimSuffix(strings.TrimPrefix(p.cur.Text, "**"), "**")
			inlines = append(inlines, &ast.Bold{Inner: ast.Text(inner)})
		case lexer.Italic:
			flush()
			inner := strings.TrimSuffix(strings.TrimPrefix(p.cur.Text, "*"), "*")
			inlines = append(inlines, &ast.Italic{Inner: ast.Text(inner)})
		case lexer.InlineCode:
			flush()
			inlines = append(inlines, ast.Code(strings.Trim(p.cur.Text, "`")))
		case lexer.Link:
			flush()
			label, url, _ := strings.Cut(p.cur.Text, "](")
			inlines = append(inlines, &ast.Link{
				Text: strings.TrimPrefix(label, "["),
				URL:  strings.TrimSuffix(url, ")"),
			})
		case lexer.InlineMath:
			flush()
			inlines = append(inlines, ast.Math(strings.Trim(p.cur.Text, "$")))
		case lexer.BlockMath:
			flush()
			inner := strings.TrimSuffix(strings.TrimPrefix(p.cur.Text, "$$"), "$$")
			inlines = append(inlines, ast.Math(inner))
		case lexer.Annotation:
			// The single space separating an annotation from what precedes
			// it belongs to the annotation, not the text run.
			if s := text.String(); strings.HasSuffix(s, " ") {
				text.Reset()
				text.WriteString(s[:len(s)-1])
			}
			ann, err := p.parseAnnotation()
			if err != nil {
				return nil, nil, err
			}
			anns = append(anns, ann)
			continue
		case lexer.Newline:
			flush()
			return inlines, anns, p.advance()
		case lexer.EOF, lexer.CodeFence, lexer.ComponentStart, lexer.ComponentEnd,
			lexer.FrontmatterDelim:
			flush()
			return inlines, anns, nil
		default:
			// A heading or list marker lexed mid-line is plain prose here.
			text.WriteString(p.cur.Text)
		}
		if err := p.advance(); err != nil {
			return nil, nil, err
		}
	}
}

// parseAnnotation splits an @[kind: content] lexeme on its first ": ". The
// separator is mandatory; an annotation without a kind is a structural
// error reported at the annotation's own position.
func (p *parser) parseAnnotation() (ast.Annotation, error) {
	at := p.cur
	body := strings.TrimSuffix(strings.TrimPrefix(at.Text, "@["), "]")
	kind, content, ok := strings.Cut(body, ": ")
	if !ok {
		return ast.Annotation{}, p.errorf(at, "annotation %q is missing the \": \" separator", at.Text)
	}
	if err := p.advance(); err != nil {
		return ast.Annotation{}, err
	}
	return ast.Annotation{Kind: kind, Content: content}, nil
}

// annotateLast attaches a block-level annotation line to the block it
// trails. Only headings and paragraphs carry annotations.
func (p *parser) annotateLast(prev []ast.Block) error {
	at := p.cur
	ann, err := p.parseAnnotation()
	if err != nil {
		return err
	}
	if len(prev) > 0 {
		switch b := prev[len(prev)-1].(type) {
		case *ast.Heading:
			b.Annotations = append(b.Annotations, ann)
			return nil
		case *ast.Paragraph:
			b.Annotations = append(b.Annotations, ann)
			return nil
		}
	}
	return p.errorf(at, "annotation does not follow an annotatable block")
}
