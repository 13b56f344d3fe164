package store

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/dockworks/pkg/errors"
	"github.com/matzehuels/dockworks/pkg/plist"
)

// conformance runs the behaviour every backend shares.
func conformance(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Load(ctx, "missing"); !stderrors.Is(err, ErrNotFound) {
		t.Errorf("Load(missing) error = %v, want ErrNotFound", err)
	}
	if err := s.Save(ctx, "b", []byte(`{"x":"1"}`)); err != nil {
		t.Fatalf("Save(b) error = %v", err)
	}
	if err := s.Save(ctx, "a", []byte(`{"y":"2"}`)); err != nil {
		t.Fatalf("Save(a) error = %v", err)
	}
	if err := s.Save(ctx, "b", []byte(`{"x":"3"}`)); err != nil {
		t.Fatalf("Save(b) overwrite error = %v", err)
	}
	got, err := s.Load(ctx, "b")
	if err != nil {
		t.Fatalf("Load(b) error = %v", err)
	}
	if string(got) != `{"x":"3"}` {
		t.Errorf("Load(b) = %s, want overwritten value", got)
	}
	keys, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, keys); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete(a) error = %v", err)
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Errorf("Delete(a) twice error = %v, want nil", err)
	}
	if _, err := s.Load(ctx, "a"); !stderrors.Is(err, ErrNotFound) {
		t.Errorf("Load(deleted) error = %v, want ErrNotFound", err)
	}
	if err := s.Save(ctx, "../escape", []byte("{}")); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Save(../escape) error = %v, want INVALID_INPUT", err)
	}
}

func TestMemoryStore(t *testing.T) {
	conformance(t, NewMemoryStore())
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	data := []byte("abc")
	if err := s.Save(ctx, "k", data); err != nil {
		t.Fatal(err)
	}
	data[0] = 'z'
	got, _ := s.Load(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("Load() = %s, want abc", got)
	}
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	conformance(t, s)

	if s.Path() != dir {
		t.Errorf("Path() = %q, want %q", s.Path(), dir)
	}
	if _, err := os.Stat(filepath.Join(dir, "b.json")); err != nil {
		t.Errorf("b.json not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "b.json.tmp")); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind: %v", err)
	}
}

func TestFileStoreIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600)
	os.Mkdir(filepath.Join(dir, "sub.json"), 0o700)
	s.Save(context.Background(), "only", []byte("{}"))

	keys, err := s.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"only"}, keys); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("DOCKWORKS_REDIS_ADDR")
	if addr == "" {
		t.Skip("DOCKWORKS_REDIS_ADDR not set")
	}
	ctx := context.Background()
	s, err := NewRedisStore(ctx, RedisConfig{Addr: addr, Prefix: "dockworks-test:" + t.Name() + ":"})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	conformance(t, s)
	s.Delete(ctx, "b")
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("DOCKWORKS_MONGO_URI")
	if uri == "" {
		t.Skip("DOCKWORKS_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: "dockworks_test"})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	for _, k := range []string{"a", "b"} {
		s.Delete(ctx, k)
	}
	conformance(t, s)
	s.Delete(ctx, "b")
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name     string
		cfg      Config
		backend  string
		wantCode errors.Code
	}{
		{"memory", Config{Backend: "memory"}, "memory", ""},
		{"file", Config{Backend: "file", Path: t.TempDir()}, "file", ""},
		{"default", Config{Path: t.TempDir()}, "file", ""},
		{"unknown", Config{Backend: "etcd"}, "", errors.ErrCodeConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.cfg)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Errorf("Open() error = %v, want %v", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer s.Close()
			if s.Backend() != tt.backend {
				t.Errorf("Backend() = %q, want %q", s.Backend(), tt.backend)
			}
		})
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	transient := Retryable(stderrors.New("connection reset"))
	permanent := stderrors.New("bad request")

	tests := []struct {
		name      string
		failures  []error
		attempts  int
		wantCalls int
		wantErr   bool
	}{
		{"success", nil, 3, 1, false},
		{"recovers", []error{transient, transient}, 3, 3, false},
		{"exhausted", []error{transient, transient, transient}, 3, 3, true},
		{"permanent", []error{permanent, transient}, 3, 1, true},
		{"zero attempts run once", []error{transient}, 0, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(ctx, tt.attempts, time.Millisecond, func() error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("Retry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, 3, time.Hour, func() error {
		return Retryable(stderrors.New("timeout"))
	})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("Retry() error = %v, want context.Canceled", err)
	}
}

// flaky fails its first n saves with a retryable error.
type flaky struct {
	*MemoryStore
	n int
}

func (f *flaky) Save(ctx context.Context, key string, data []byte) error {
	if f.n > 0 {
		f.n--
		return Retryable(stderrors.New("i/o timeout"))
	}
	return f.MemoryStore.Save(ctx, key, data)
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()
	inner := &flaky{MemoryStore: NewMemoryStore(), n: 2}
	s := WithRetry(inner, 3, time.Millisecond)
	if err := s.Save(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if s.Backend() != "memory" {
		t.Errorf("Backend() = %q, want memory", s.Backend())
	}
	got, err := s.Load(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Load() = %q, %v", got, err)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	doc := plist.NewDict()
	doc.Put("Position", plist.Pair(0, 0))
	doc.Put("Lowered", plist.Bool(true))

	if err := SaveDocument(ctx, s, "default", doc); err != nil {
		t.Fatalf("SaveDocument() error = %v", err)
	}
	got, err := LoadDocument(ctx, s, "default")
	if err != nil {
		t.Fatalf("LoadDocument() error = %v", err)
	}
	if diff := cmp.Diff(doc.Keys(), got.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if !got.Bool("Lowered") {
		t.Errorf("Lowered = false, want true")
	}
}

func TestLoadDocumentCorrupt(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Save(ctx, "bad", []byte("{not json"))
	if _, err := LoadDocument(ctx, s, "bad"); !errors.Is(err, errors.ErrCodeCorruptRecord) {
		t.Errorf("LoadDocument() error = %v, want CORRUPT_PERSISTED_RECORD", err)
	}
}

func TestSaverSkipsUnchanged(t *testing.T) {
	ctx := context.Background()
	w := &Saver{Store: NewMemoryStore(), Key: "default"}
	doc := plist.NewDict()
	doc.Put("Lowered", plist.Bool(false))

	for i, want := range []bool{true, false} {
		wrote, err := w.Save(ctx, doc)
		if err != nil {
			t.Fatal(err)
		}
		if wrote != want {
			t.Errorf("save %d wrote = %v, want %v", i, wrote, want)
		}
	}
	doc.Put("Lowered", plist.Bool(true))
	if wrote, _ := w.Save(ctx, doc); !wrote {
		t.Errorf("changed document not written")
	}
}

func TestHash(t *testing.T) {
	if got := Hash([]byte("")); got != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Errorf("Hash(\"\") = %s", got)
	}
	if Hash([]byte("a")) == Hash([]byte("b")) {
		t.Errorf("distinct inputs hash equal")
	}
}
