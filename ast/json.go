package ast

import (
	"encoding/json"
	"fmt"
)

// The JSON encoding is the round-trippable persisted form of a document.
// Every block and inline node is wrapped in an object carrying a "type"
// discriminator; metadata values map onto native JSON scalars, arrays and
// objects so that decoding recovers the exact MetaValue variants.

type headingJSON struct {
	Type        string       `json:"type"`
	Level       int          `json:"level"`
	Content     string       `json:"content"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

type paragraphJSON struct {
	Type        string            `json:"type"`
	Content     []json.RawMessage `json:"content"`
	Annotations []Annotation      `json:"annotations,omitempty"`
}

type componentJSON struct {
	Type       string            `json:"type"`
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes"`
	Content    []json.RawMessage `json:"content"`
}

type codeBlockJSON struct {
	Type     string `json:"type"`
	Language string `json:"language,omitempty"`
	Content  string `json:"content"`
}

type diagramJSON struct {
	Type    string      `json:"type"`
	Kind    DiagramKind `json:"kind"`
	Content string      `json:"content"`
}

type secureBlockJSON struct {
	Type      string `json:"type"`
	Content   []byte `json:"content"`
	Algorithm string `json:"algorithm"`
	KeyID     string `json:"key_id"`
	Nonce     []byte `json:"nonce"`
}

type listJSON struct {
	Type    string         `json:"type"`
	Ordered bool           `json:"ordered"`
	Items   []listItemJSON `json:"items"`
}

type listItemJSON struct {
	Content []json.RawMessage `json:"content"`
	Level   int               `json:"level"`
}

type textBlockJSON struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type spanJSON struct {
	Type    string          `json:"type"`
	Content string          `json:"content,omitempty"`
	Inner   json.RawMessage `json:"inner,omitempty"`
	Text    string          `json:"text,omitempty"`
	URL     string          `json:"url,omitempty"`
}

// MarshalJSON encodes the document with type-discriminated nodes.
func (d Document) MarshalJSON() ([]byte, error) {
	blocks, err := marshalBlocks(d.Blocks)
	if err != nil {
		return nil, err
	}
	var meta map[string]any
	if d.Metadata != nil {
		meta = make(map[string]any, len(d.Metadata))
		for k, v := range d.Metadata {
			meta[k] = metaToAny(v)
		}
	}
	return json.Marshal(struct {
		Metadata map[string]any    `json:"metadata"`
		Blocks   []json.RawMessage `json:"blocks"`
	}{meta, blocks})
}

// UnmarshalJSON decodes a document previously produced by MarshalJSON.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		Metadata map[string]any    `json:"metadata"`
		Blocks   []json.RawMessage `json:"blocks"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var meta Metadata
	if raw.Metadata != nil {
		meta = make(Metadata, len(raw.Metadata))
		for k, v := range raw.Metadata {
			meta[k] = anyToMeta(v)
		}
	}
	blocks, err := unmarshalBlocks(raw.Blocks)
	if err != nil {
		return err
	}
	d.Metadata = meta
	d.Blocks = blocks
	return nil
}

func marshalBlocks(blocks []Block) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(blocks))
	for _, b := range blocks {
		raw, err := marshalBlock(b)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

func marshalBlock(b Block) (json.RawMessage, error) {
	switch b := b.(type) {
	case *Heading:
		return json.Marshal(headingJSON{"heading", b.Level, b.Content, b.Annotations})
	case *Paragraph:
		content, err := marshalInlines(b.Content)
		if err != nil {
			return nil, err
		}
		return json.Marshal(paragraphJSON{"paragraph", content, b.Annotations})
	case *Component:
		content, err := marshalBlocks(b.Content)
		if err != nil {
			return nil, err
		}
		return json.Marshal(componentJSON{"component", b.Name, b.Attributes, content})
	case *CodeBlock:
		return json.Marshal(codeBlockJSON{"code", b.Language, b.Content})
	case *Diagram:
		return json.Marshal(diagramJSON{"diagram", b.Kind, b.Content})
	case *SecureBlock:
		return json.Marshal(secureBlockJSON{
			"secure", b.Content, b.Info.Algorithm, b.Info.KeyID, b.Info.Nonce,
		})
	case *List:
		items := make([]listItemJSON, 0, len(b.Items))
		for _, item := range b.Items {
			content, err := marshalBlocks(item.Content)
			if err != nil {
				return nil, err
			}
			items = append(items, listItemJSON{content, item.Level})
		}
		return json.Marshal(listJSON{"list", b.Ordered, items})
	case Comment:
		return json.Marshal(textBlockJSON{"comment", string(b)})
	case MathBlock:
		return json.Marshal(textBlockJSON{"math", string(b)})
	default:
		return nil, fmt.Errorf("ast: unknown block type %T", b)
	}
}

func unmarshalBlocks(raws []json.RawMessage) ([]Block, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	out := make([]Block, 0, len(raws))
	for _, raw := range raws {
		b, err := unmarshalBlock(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func unmarshalBlock(raw json.RawMessage) (Block, error) {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, err
	}
	switch tag.Type {
	case "heading":
		var v headingJSON
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return &Heading{Level: v.Level, Content: v.Content, Annotations: v.Annotations}, nil
	case "paragraph":
		var v paragraphJSON
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		content, err := unmarshalInlines(v.Content)
		if err != nil {
			return nil, err
		}
		return &Paragraph{Content: content, Annotations: v.Annotations}, nil
	case "component":
		var v componentJSON
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		content, err := unmarshalBlocks(v.Content)
		if err != nil {
			return nil, err
		}
		return &Component{Name: v.Name, Attributes: v.Attributes, Content: content}, nil
	case "code":
		var v codeBlockJSON
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return &CodeBlock{Language: v.Language, Content: v.Content}, nil
	case "diagram":
		var v diagramJSON
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return &Diagram{Kind: v.Kind, Content: v.Content}, nil
	case "secure":
		var v secureBlockJSON
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return &SecureBlock{
			Content: v.Content,
			Info:    EncryptionInfo{Algorithm: v.Algorithm, KeyID: v.KeyID, Nonce: v.Nonce},
		}, nil
	case "list":
		var v listJSON
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		items := make([]ListItem, 0, len(v.Items))
		for _, item := range v.Items {
			content, err := unmarshalBlocks(item.Content)
			if err != nil {
				return nil, err
			}
			items = append(items, ListItem{Content: content, Level: item.Level})
		}
		return &List{Items: items, Ordered: v.Ordered}, nil
	case "comment":
		var v textBlockJSON
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return Comment(v.Content), nil
	case "math":
		var v textBlockJSON
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return MathBlock(v.Content), nil
	default:
		return nil, fmt.Errorf("ast: unknown block type %q", tag.Type)
	}
}

func marshalInlines(inlines []Inline) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(inlines))
	for _, in := range inlines {
		raw, err := marshalInline(in)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

func marshalInline(in Inline) (json.RawMessage, error) {
	switch in := in.(type) {
	case Text:
		return json.Marshal(spanJSON{Type: "text", Content: string(in)})
	case *Bold:
		inner, err := marshalInline(in.Inner)
		if err != nil {
			return nil, err
		}
		return json.Marshal(spanJSON{Type: "bold", Inner: inner})
	case *Italic:
		inner, err := marshalInline(in.Inner)
		if err != nil {
			return nil, err
		}
		return json.Marshal(spanJSON{Type: "italic", Inner: inner})
	case Code:
		return json.Marshal(spanJSON{Type: "code", Content: string(in)})
	case *Link:
		return json.Marshal(spanJSON{Type: "link", Text: in.Text, URL: in.URL})
	case Math:
		return json.Marshal(spanJSON{Type: "inline_math", Content: string(in)})
	default:
		return nil, fmt.Errorf("ast: unknown inline type %T", in)
	}
}

func unmarshalInlines(raws []json.RawMessage) ([]Inline, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	out := make([]Inline, 0, len(raws))
	for _, raw := range raws {
		in, err := unmarshalInline(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

func unmarshalInline(raw json.RawMessage) (Inline, error) {
	var v spanJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	switch v.Type {
	case "text":
		return Text(v.Content), nil
	case "bold":
		inner, err := unmarshalInline(v.Inner)
		if err != nil {
			return nil, err
		}
		return &Bold{Inner: inner}, nil
	case "italic":
		inner, err := unmarshalInline(v.Inner)
		if err != nil {
			return nil, err
		}
		return &Italic{Inner: inner}, nil
	case "code":
		return Code(v.Content), nil
	case "link":
		return &Link{Text: v.Text, URL: v.URL}, nil
	case "inline_math":
		return Math(v.Content), nil
	default:
		return nil, fmt.Errorf("ast: unknown inline type %q", v.Type)
	}
}

func metaToAny(v MetaValue) any {
	switch v := v.(type) {
	case MetaString:
		return string(v)
	case MetaNumber:
		return float64(v)
	case MetaBool:
		return bool(v)
	case MetaArray:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, metaToAny(item))
		}
		return out
	case MetaObject:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = metaToAny(item)
		}
		return out
	default:
		return nil
	}
}

func anyToMeta(v any) MetaValue {
	switch v := v.(type) {
	case string:
		return MetaString(v)
	case float64:
		return MetaNumber(v)
	case bool:
		return MetaBool(v)
	case []any:
		out := make(MetaArray, 0, len(v))
		for _, item := range v {
			out = append(out, anyToMeta(item))
		}
		return out
	case map[string]any:
		out := make(MetaObject, len(v))
		for k, item := range v {
			out[k] = anyToMeta(item)
		}
		return out
	default:
		return MetaString("")
	}
}
