// Package metadata resolves frontmatter text into a typed key-value tree.
//
// The text between the two frontmatter delimiters is tried as YAML first and
// as TOML second. A document that happens to be valid in both formats is
// always read with YAML semantics, so authors must avoid syntax that is
// valid in both with different meaning.
package metadata

import (
	"fmt"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gerunddev/metamark/ast"
)

// MetadataError reports frontmatter that parsed under neither format. It
// wraps the TOML diagnostic, the second and final parse attempt.
type MetadataError struct {
	Message string
	Err     error
}

func (e *MetadataError) Error() string {
	return "invalid metadata: " + e.Message
}

func (e *MetadataError) Unwrap() error {
	return e.Err
}

// Resolve parses frontmatter text into document metadata.
//
// Scalars from either format are widened into the four-way MetaValue scalar
// set: all numbers become float64, datetimes become RFC 3339 strings, and a
// YAML null becomes the empty string. Non-string mapping keys fail with a
// MetadataError rather than being coerced; both candidate formats guarantee
// string keys for anything they accept here.
func Resolve(text string) (ast.Metadata, error) {
	var fromYAML map[string]any
	if err := yaml.Unmarshal([]byte(text), &fromYAML); err == nil && fromYAML != nil {
		return convertMapping(fromYAML), nil
	}

	var fromTOML map[string]any
	if err := toml.Unmarshal([]byte(text), &fromTOML); err != nil {
		return nil, &MetadataError{
			Message: fmt.Sprintf("not valid YAML or TOML: %v", err),
			Err:     err,
		}
	}
	return convertMapping(fromTOML), nil
}

func convertMapping(m map[string]any) ast.Metadata {
	out := make(ast.Metadata, len(m))
	for k, v := range m {
		out[k] = convertValue(v)
	}
	return out
}

func convertValue(v any) ast.MetaValue {
	switch v := v.(type) {
	case string:
		return ast.MetaString(v)
	case bool:
		return ast.MetaBool(v)
	case int:
		return ast.MetaNumber(v)
	case int64:
		return ast.MetaNumber(v)
	case uint64:
		return ast.MetaNumber(v)
	case float32:
		return ast.MetaNumber(v)
	case float64:
		return ast.MetaNumber(v)
	case time.Time:
		return ast.MetaString(v.Format(time.RFC3339))
	case []any:
		arr := make(ast.MetaArray, 0, len(v))
		for _, item := range v {
			arr = append(arr, convertValue(item))
		}
		return arr
	case map[string]any:
		obj := make(ast.MetaObject, len(v))
		for k, item := range v {
			obj[k] = convertValue(item)
		}
		return obj
	default:
		// Null and any scalar outside the documented range collapse to the
		// empty string rather than failing the whole document.
		return ast.MetaString("")
	}
}
