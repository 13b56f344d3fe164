// Package store persists dock state documents by key.
//
// Backends:
//   - memory: in-process map, for tests and the simulator
//   - file: one JSON file per key under ~/.config/dockworks/state/
//   - redis: one string value per key, for shared multi-host setups
//   - mongo: one document per key in a collection
//
// # Usage
//
//	s, err := store.Open(ctx, store.Config{Backend: "file"})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	doc, err := store.LoadDocument(ctx, s, "default")
//	if errors.Is(err, store.ErrNotFound) {
//	    // start with an empty desktop
//	}
//
// Keys are validated with [errors.ValidateStoreKey] by every backend.
package store

import (
	"bytes"
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/dockworks/pkg/errors"
	dio "github.com/matzehuels/dockworks/pkg/io"
	"github.com/matzehuels/dockworks/pkg/observability"
	"github.com/matzehuels/dockworks/pkg/plist"
)

// ErrNotFound is returned when no document is stored under a key.
var ErrNotFound = stderrors.New("store: not found")

// Store is the interface for state storage backends.
type Store interface {
	// Load returns the document stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save stores data under key, replacing any previous document.
	Save(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the stored keys in lexical order.
	List(ctx context.Context) ([]string, error)

	// Backend names the implementation for logs and hooks.
	Backend() string

	Close() error
}

// LoadDocument loads and decodes the state document stored under key.
func LoadDocument(ctx context.Context, s Store, key string) (*plist.Dict, error) {
	start := time.Now()
	data, err := s.Load(ctx, key)
	observability.Store().OnLoad(ctx, s.Backend(), key, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return dio.ReadDocument(bytes.NewReader(data))
}

// SaveDocument encodes doc and stores it under key.
func SaveDocument(ctx context.Context, s Store, key string, doc *plist.Dict) error {
	data, err := encode(doc)
	if err != nil {
		return err
	}
	return save(ctx, s, key, data)
}

func encode(doc *plist.Dict) ([]byte, error) {
	var buf bytes.Buffer
	if err := dio.WriteDocument(doc, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "encode state document")
	}
	return buf.Bytes(), nil
}

func save(ctx context.Context, s Store, key string, data []byte) error {
	start := time.Now()
	err := s.Save(ctx, key, data)
	observability.Store().OnSave(ctx, s.Backend(), key, len(data), time.Since(start), err)
	return err
}

// Saver writes a document only when it changed since the last save.
type Saver struct {
	Store Store
	Key   string

	last string
}

// Save stores doc unless it hashes the same as the previous save. It
// reports whether anything was written.
func (w *Saver) Save(ctx context.Context, doc *plist.Dict) (bool, error) {
	data, err := encode(doc)
	if err != nil {
		return false, err
	}
	sum := Hash(data)
	if sum == w.last {
		return false, nil
	}
	if err := save(ctx, w.Store, w.Key, data); err != nil {
		return false, err
	}
	w.last = sum
	return true, nil
}

func checkKey(key string) error {
	return errors.ValidateStoreKey(key)
}
