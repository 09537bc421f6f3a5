// Package ast defines the document tree produced by parsing MetaMark text.
//
// A Document owns its entire subtree: blocks own their child blocks, inlines
// are leaves or single wrappers, and nothing in the tree is shared. Once a
// parse call returns, the tree is never mutated; transformations build new
// trees instead.
package ast

// Document is the root node of a parsed MetaMark file.
type Document struct {
	// Metadata holds the resolved frontmatter mapping, or nil when the
	// document has no frontmatter block.
	Metadata Metadata
	Blocks   []Block
}

// Metadata maps frontmatter keys to resolved values. Keys are unique within
// one frontmatter block.
type Metadata map[string]MetaValue

// MetaValue is one resolved frontmatter value. Implementations:
// MetaString, MetaNumber, MetaBool, MetaArray and MetaObject.
type MetaValue interface {
	metaValue()
}

// MetaString is a string metadata value.
type MetaString string

// MetaNumber is a numeric metadata value. Integers from either source format
// are widened to float64 so YAML and TOML numbers land in one type.
type MetaNumber float64

// MetaBool is a boolean metadata value.
type MetaBool bool

// MetaArray is an ordered sequence of metadata values.
type MetaArray []MetaValue

// MetaObject is a nested mapping of metadata values.
type MetaObject map[string]MetaValue

func (MetaString) metaValue() {}
func (MetaNumber) metaValue() {}
func (MetaBool) metaValue()   {}
func (MetaArray) metaValue()  {}
func (MetaObject) metaValue() {}

// Block is a block-level document node. Implementations: Heading, Paragraph,
// Component, CodeBlock, Diagram, SecureBlock, List, Comment and MathBlock.
type Block interface {
	blockNode()
}

// Heading is a section heading.
type Heading struct {
	// Level is the heading depth, 1 through 6.
	Level       int
	Content     string
	Annotations []Annotation
}

// Paragraph is a run of inline content terminated by a newline.
type Paragraph struct {
	Content     []Inline
	Annotations []Annotation
}

// Component is a named, attributed container of nested blocks, delimited by
// [[component: ...]] and [[/component]] markers. Nesting depth is bounded
// only by the input.
type Component struct {
	Name       string
	Attributes map[string]string
	Content    []Block
}

// CodeBlock is a fenced code block. Language is the fence tag, empty when the
// fence carried none.
type CodeBlock struct {
	Language string
	Content  string
}

// DiagramKind identifies the engine a Diagram block targets.
type DiagramKind string

const (
	DiagramMermaid  DiagramKind = "mermaid"
	DiagramPlantUML DiagramKind = "plantuml"
	DiagramGraphViz DiagramKind = "graphviz"
)

// Diagram is a fenced block whose language tag named a known diagram engine.
type Diagram struct {
	Kind    DiagramKind
	Content string
}

// EncryptionInfo describes how a SecureBlock's payload was encrypted. The
// core never encrypts or decrypts; these fields are carried opaquely for the
// document-store collaborator.
type EncryptionInfo struct {
	Algorithm string
	KeyID     string
	Nonce     []byte
}

// SecureBlock is an opaque encrypted content region. It has no MetaMark
// surface syntax; it enters a tree only through deserialization or
// programmatic construction.
type SecureBlock struct {
	Content []byte
	Info    EncryptionInfo
}

// List is an ordered or unordered list.
type List struct {
	Items   []ListItem
	Ordered bool
}

// ListItem is one list entry. Level is the nesting depth derived from source
// indentation: every two leading spaces before the marker add one level.
type ListItem struct {
	Content []Block
	Level   int
}

// Comment is a single %% source line, marker stripped and trimmed.
type Comment string

// MathBlock is a block-level $$...$$ expression, delimiters stripped.
type MathBlock string

func (*Heading) blockNode()     {}
func (*Paragraph) blockNode()   {}
func (*Component) blockNode()   {}
func (*CodeBlock) blockNode()   {}
func (*Diagram) blockNode()     {}
func (*SecureBlock) blockNode() {}
func (*List) blockNode()        {}
func (Comment) blockNode()      {}
func (MathBlock) blockNode()    {}

// Inline is an inline node within a paragraph, heading or list item.
// Implementations: Text, Bold, Italic, Code, Link and Math.
type Inline interface {
	inlineNode()
}

// Text is a plain text run.
type Text string

// Bold wraps exactly one inner inline. The grammar does not nest emphasis,
// so Inner is always a Text node in parser output; the wrapper shape is kept
// deliberately.
type Bold struct {
	Inner Inline
}

// Italic wraps exactly one inner inline, like Bold.
type Italic struct {
	Inner Inline
}

// Code is an inline code span, backticks stripped.
type Code string

// Link is an inline [text](url) link.
type Link struct {
	Text string
	URL  string
}

// Math is an inline math span, dollar delimiters stripped.
type Math string

func (Text) inlineNode()    {}
func (*Bold) inlineNode()   {}
func (*Italic) inlineNode() {}
func (Code) inlineNode()    {}
func (*Link) inlineNode()   {}
func (Math) inlineNode()    {}

// Annotation is a trailing @[kind: content] marker attached to the block it
// follows. Multiple annotations on one block keep their left-to-right order.
type Annotation struct {
	Kind    string `json:"kind"`
	Content string `json:"content"`
}
