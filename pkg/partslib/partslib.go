// Package partslib is the parts-library collaborator: a directory tree of
// stored part definitions that can be listed and inserted into the active
// document by relative path.
package partslib

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/parcad/parcad/pkg/cad"
	"github.com/parcad/parcad/pkg/cad/coerce"
	"github.com/parcad/parcad/pkg/console"
)

// PartExt is the extension of stored part files.
const PartExt = ".part.json"

// partFile is the on-disk shape of a stored part.
type partFile struct {
	Name    string       `json:"name"`
	Objects []partObject `json:"objects"`
}

type partObject struct {
	Name       string         `json:"Name"`
	Type       string         `json:"Type"`
	Properties map[string]any `json:"Properties"`
}

// Library serves parts from a root directory.
type Library struct {
	root string
	con  *console.Console
}

// New creates a library rooted at dir.
func New(dir string, con *console.Console) *Library {
	return &Library{root: dir, con: con}
}

// List returns the relative paths of every stored part under the root,
// sorted by walk order. A missing root yields an empty list.
func (l *Library) List() ([]string, error) {
	parts := []string{}
	if l.root == "" {
		return parts, nil
	}
	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, PartExt) {
			return nil
		}
		rel, err := filepath.Rel(l.root, path)
		if err != nil {
			return err
		}
		parts = append(parts, filepath.ToSlash(rel))
		return nil
	})
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return parts, nil
}

// Insert instantiates the part at relativePath into the active document.
func (l *Library) Insert(app *cad.App, relativePath string) error {
	doc := app.ActiveDocument()
	if doc == nil {
		return fmt.Errorf("no active document to insert into")
	}

	clean := filepath.Clean(filepath.FromSlash(relativePath))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return fmt.Errorf("part path '%s' escapes the library root", relativePath)
	}
	data, err := os.ReadFile(filepath.Join(l.root, clean))
	if err != nil {
		return fmt.Errorf("part '%s' not found in library: %w", relativePath, err)
	}

	var part partFile
	if err := json.Unmarshal(data, &part); err != nil {
		return fmt.Errorf("part '%s' is not a valid part file: %w", relativePath, err)
	}

	for _, spec := range part.Objects {
		name := uniqueName(doc, spec.Name)
		obj, err := doc.AddObject(spec.Type, name)
		if err != nil {
			return err
		}
		coerce.SetObjectProperties(l.con, doc, obj, spec.Properties)
	}
	doc.Recompute()
	l.con.Message("Part '%s' inserted into document '%s'.", relativePath, doc.Name())
	return nil
}

func uniqueName(doc *cad.Document, base string) string {
	if base == "" {
		base = "Part"
	}
	if doc.Object(base) == nil {
		return base
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", base, i)
		if doc.Object(candidate) == nil {
			return candidate
		}
	}
}
