// Package store is the document-persistence layer at the core's boundary.
// It hands raw text to the parser and persists parsed trees as JSON
// envelopes; it never calls back into the parser mid-document and performs
// no encryption.
package store

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gerunddev/metamark/ast"
)

// FormatVersion identifies the envelope layout. Bump on incompatible
// changes to the AST JSON encoding.
const FormatVersion = 1

// Envelope wraps a persisted document with its identity and provenance.
type Envelope struct {
	ID            string       `json:"id"`
	FormatVersion int          `json:"format_version"`
	SavedAt       time.Time    `json:"saved_at"`
	Document      ast.Document `json:"document"`
}

// Store reads and writes documents under a root directory.
type Store struct {
	root string
	ext  string
}

// New returns a store rooted at dir, listing files with the given
// extension (".mmk" when empty).
func New(dir, ext string) *Store {
	if ext == "" {
		ext = ".mmk"
	}
	return &Store{root: dir, ext: ext}
}

// LoadText reads the raw text of a document file.
func (s *Store) LoadText(name string) (string, error) {
	data, err := os.ReadFile(s.resolve(name))
	if err != nil {
		return "", fmt.Errorf("loading document: %w", err)
	}
	return string(data), nil
}

// SaveText writes raw document text.
func (s *Store) SaveText(name, content string) error {
	path := s.resolve(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating document directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// SaveTree persists a parsed document as a JSON envelope and returns the
// envelope, whose ID is freshly assigned.
func (s *Store) SaveTree(name string, doc *ast.Document) (*Envelope, error) {
	env := &Envelope{
		ID:            uuid.NewString(),
		FormatVersion: FormatVersion,
		SavedAt:       time.Now().UTC(),
		Document:      *doc,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding document tree: %w", err)
	}
	path := s.treePath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("saving document tree: %w", err)
	}
	return env, nil
}

// LoadTree reads a previously persisted envelope.
func (s *Store) LoadTree(name string) (*Envelope, error) {
	data, err := os.ReadFile(s.treePath(name))
	if err != nil {
		return nil, fmt.Errorf("loading document tree: %w", err)
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decoding document tree: %w", err)
	}
	if env.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("unsupported format version %d", env.FormatVersion)
	}
	return &env, nil
}

// List returns the document files under the store root, sorted by path
// relative to the root.
func (s *Store) List() ([]string, error) {
	var docs []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), s.ext) {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		docs = append(docs, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	sort.Strings(docs)
	return docs, nil
}

func (s *Store) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.root, name)
}

func (s *Store) treePath(name string) string {
	path := s.resolve(name)
	return strings.TrimSuffix(path, s.ext) + ".json"
}
