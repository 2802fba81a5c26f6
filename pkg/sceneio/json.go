package sceneio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/scatter/pkg/errors"
)

// WriteJSON encodes doc as indented JSON and writes it to w.
func WriteJSON(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes doc to a JSON file at path.
func ExportJSON(doc Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(doc, f)
}

// ReadJSON decodes a document from r. The environment must be named;
// everything else may be empty. ReadJSON does not close r.
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode scene")
	}
	if err := doc.check(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// ImportJSON reads a JSON document from the file at path.
func ImportJSON(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func (d Document) check() error {
	if d.Environment.Name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "scene document has no environment")
	}
	seen := make(map[string]bool)
	for _, s := range d.Sites() {
		for _, o := range s.Objects {
			if seen[o.ID] {
				return errors.New(errors.ErrCodeInvalidInput, "duplicate object id %q in site %q", o.ID, s.Name)
			}
			seen[o.ID] = true
		}
	}
	return nil
}
