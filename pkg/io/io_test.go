package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/dockworks/pkg/errors"
	"github.com/matzehuels/dockworks/pkg/plist"
)

const sample = `{
  "Dock": {
    "Lowered": "YES",
    "Position": "3,0",
    "Applications": [
      {
        "Name": "xterm.XTerm",
        "Command": "xterm",
        "Position": "0,3"
      }
    ]
  },
  "Drawers": [],
  "Workspaces": []
}
`

func TestReadWriteRoundTrip(t *testing.T) {
	doc, err := ReadDocument(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteDocument(doc, &buf); err != nil {
		t.Fatalf("WriteDocument: %v", err)
	}
	if diff := cmp.Diff(sample, buf.String()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadDocumentCorrupt(t *testing.T) {
	for _, in := range []string{"", "[]", "{", `{"Dock": null}`} {
		_, err := ReadDocument(strings.NewReader(in))
		if !errors.Is(err, errors.ErrCodeCorruptRecord) {
			t.Errorf("ReadDocument(%q) error = %v, want %s", in, err, errors.ErrCodeCorruptRecord)
		}
	}
}

func TestExportImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")
	doc := plist.NewDict()
	doc.Put("Workspaces", plist.NewArray())

	if err := ExportDocument(doc, path); err != nil {
		t.Fatalf("ExportDocument: %v", err)
	}
	got, err := ImportDocument(path)
	if err != nil {
		t.Fatalf("ImportDocument: %v", err)
	}
	if diff := cmp.Diff(doc.Keys(), got.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d files, want only the document", len(entries))
	}
}

func TestImportMissing(t *testing.T) {
	_, err := ImportDocument(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("ImportDocument() error = %v, want %s", err, errors.ErrCodeNotFound)
	}
}
