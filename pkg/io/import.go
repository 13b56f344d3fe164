package io

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/dockworks/pkg/errors"
	"github.com/matzehuels/dockworks/pkg/plist"
)

// ReadDocument decodes a JSON state document from r.
//
// ReadDocument returns a CORRUPT_PERSISTED_RECORD error when r does not
// hold a single JSON object of strings, arrays and objects. It does not
// close r.
func ReadDocument(r io.Reader) (*plist.Dict, error) {
	doc, err := plist.Decode(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCorruptRecord, err, "decode state document")
	}
	return doc, nil
}

// ImportDocument reads the JSON state document at path.
//
// A missing file is reported as a NOT_FOUND error so callers can start
// from an empty desktop.
func ImportDocument(path string) (*plist.Dict, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "no state document at %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDocument(f)
}
