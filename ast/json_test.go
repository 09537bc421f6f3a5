package ast

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fullDocument exercises every node kind, including the ones with no surface
// syntax.
func fullDocument() Document {
	return Document{
		Metadata: Metadata{
			"title": MetaString("Everything"),
			"count": MetaNumber(3.5),
			"draft": MetaBool(true),
			"tags":  MetaArray{MetaString("a"), MetaNumber(2)},
			"owner": MetaObject{"name": MetaString("dev")},
		},
		Blocks: []Block{
			&Heading{Level: 2, Content: "Title", Annotations: []Annotation{{Kind: "note", Content: "x"}}},
			&Paragraph{Content: []Inline{
				Text("plain "),
				&Bold{Inner: Text("b")},
				&Italic{Inner: Text("i")},
				Code("c"),
				&Link{Text: "t", URL: "u"},
				Math("m"),
			}},
			&Component{
				Name:       "card",
				Attributes: map[string]string{"k": "v"},
				Content: []Block{
					&Paragraph{Content: []Inline{Text("inner")}},
				},
			},
			&CodeBlock{Language: "go", Content: "x := 1\n"},
			&Diagram{Kind: DiagramMermaid, Content: "graph TD;\n"},
			&SecureBlock{
				Content: []byte{0xde, 0xad, 0xbe, 0xef},
				Info: EncryptionInfo{
					Algorithm: "aes-256-gcm",
					KeyID:     "key-1",
					Nonce:     []byte{1, 2, 3},
				},
			},
			&List{Ordered: true, Items: []ListItem{
				{Content: []Block{&Paragraph{Content: []Inline{Text("one")}}}, Level: 0},
				{Content: []Block{
					&Paragraph{Content: []Inline{Text("two")}},
					&List{Items: []ListItem{
						{Content: []Block{&Paragraph{Content: []Inline{Text("sub")}}}, Level: 1},
					}},
				}, Level: 0},
			}},
			Comment("aside"),
			MathBlock("a+b"),
		},
	}
}

func TestJSONRoundTrip(t *testing.T) {
	original := fullDocument()

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Document
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestJSONTypeDiscriminators(t *testing.T) {
	data, err := json.Marshal(fullDocument())
	require.NoError(t, err)

	var raw struct {
		Blocks []struct {
			Type string `json:"type"`
		} `json:"blocks"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))

	var types []string
	for _, b := range raw.Blocks {
		types = append(types, b.Type)
	}
	assert.Equal(t, []string{
		"heading", "paragraph", "component", "code", "diagram",
		"secure", "list", "comment", "math",
	}, types)
}

func TestJSONNilMetadata(t *testing.T) {
	original := Document{Blocks: []Block{&Heading{Level: 1, Content: "h"}}}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Document
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Nil(t, decoded.Metadata)
	assert.Equal(t, original, decoded)
}

func TestJSONUnknownBlockType(t *testing.T) {
	var doc Document
	err := json.Unmarshal([]byte(`{"blocks":[{"type":"hologram"}]}`), &doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hologram")
}

func TestJSONUnknownInlineType(t *testing.T) {
	var doc Document
	err := json.Unmarshal([]byte(`{"blocks":[{"type":"paragraph","content":[{"type":"sparkle"}]}]}`), &doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sparkle")
}
