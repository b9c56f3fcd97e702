package persist

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestFileBackendMissing(t *testing.T) {
	b := NewFileBackend(t.TempDir())
	if _, err := b.Read("tasks.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Read on empty dir: %v, want ErrNotFound", err)
	}
}

func TestFileBackendWriteCreatesDirAndReplaces(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	b := NewFileBackend(dir)

	if err := b.Write("tasks.json", []byte("[1]")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := b.Write("tasks.json", []byte("[2]")); err != nil {
		t.Fatalf("second write: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "tasks.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "[2]" {
		t.Errorf("file = %q", got)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestLoadOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		want    Outcome
		size    int
	}{
		{"absent", nil, Missing, 0},
		{"valid", ptr(`[{"id":"1","name":"a","later":true}]`), Loaded, 1},
		{"truncated", ptr(`[{"id":"1","na`), Corrupt, 0},
		{"wrong shape", ptr(`{"id":"1"}`), Corrupt, 0},
		{"empty file", ptr(``), Corrupt, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewMemoryBackend()
			if tt.content != nil {
				_ = b.Write("items.json", []byte(*tt.content))
			}
			items, outcome, err := Load[item](b, "items.json")
			if outcome != tt.want {
				t.Fatalf("outcome = %v, want %v (err %v)", outcome, tt.want, err)
			}
			if items == nil || len(items) != tt.size {
				t.Fatalf("items = %#v, want %d", items, tt.size)
			}
			if tt.want == Corrupt && !errors.Is(err, ErrCorrupt) {
				t.Errorf("err = %v, want ErrCorrupt", err)
			}
		})
	}
}

type brokenBackend struct{ err error }

func (b brokenBackend) Read(string) ([]byte, error) { return nil, b.err }
func (b brokenBackend) Write(string, []byte) error  { return b.err }

func TestLoadUnreadable(t *testing.T) {
	items, outcome, err := Load[item](brokenBackend{errors.New("permission denied")}, "x.json")
	if outcome != Unreadable || err == nil || len(items) != 0 {
		t.Fatalf("got %v %v %v", items, outcome, err)
	}
}

func TestEncodePretty(t *testing.T) {
	b, err := Encode([]item{{ID: "1", Name: "a"}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "\n  {\n    \"id\": \"1\"") {
		t.Errorf("not pretty printed:\n%s", b)
	}
	empty, _ := Encode[item](nil)
	if string(empty) != "[]" {
		t.Errorf("nil encodes as %q", empty)
	}
}

// recordingBackend remembers every write in order.
type recordingBackend struct {
	mu     sync.Mutex
	writes []string
	fail   bool
}

func (r *recordingBackend) Read(string) ([]byte, error) { return nil, ErrNotFound }

func (r *recordingBackend) Write(_ string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("disk full")
	}
	r.writes = append(r.writes, string(data))
	return nil
}

func (r *recordingBackend) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.writes) == 0 {
		return ""
	}
	return r.writes[len(r.writes)-1]
}

func TestWriterLastImageWins(t *testing.T) {
	rb := &recordingBackend{}
	w := NewWriter(rb, "x.json", nil)
	defer w.Close()

	for _, s := range []string{"a", "b", "c", "d"} {
		w.Enqueue([]byte(s))
	}
	w.Flush()

	if got := rb.last(); got != "d" {
		t.Fatalf("last write = %q, want d", got)
	}
	rb.mu.Lock()
	defer rb.mu.Unlock()
	for i := 1; i < len(rb.writes); i++ {
		if rb.writes[i] < rb.writes[i-1] {
			t.Fatalf("writes out of order: %v", rb.writes)
		}
	}
}

func TestWriterKeepsGoingAfterFailure(t *testing.T) {
	rb := &recordingBackend{fail: true}
	w := NewWriter(rb, "x.json", nil)
	defer w.Close()

	w.Enqueue([]byte("lost"))
	w.Flush()
	if w.Failures() != 1 {
		t.Fatalf("failures = %d", w.Failures())
	}

	rb.mu.Lock()
	rb.fail = false
	rb.mu.Unlock()

	w.Enqueue([]byte("kept"))
	w.Flush()
	if got := rb.last(); got != "kept" {
		t.Fatalf("last write = %q", got)
	}
}

func TestWriterCloseDrains(t *testing.T) {
	rb := &recordingBackend{}
	w := NewWriter(rb, "x.json", nil)
	w.Enqueue([]byte("final"))
	w.Close()

	if got := rb.last(); got != "final" {
		t.Fatalf("last write after Close = %q", got)
	}
	w.Enqueue([]byte("ignored"))
	if got := rb.last(); got != "final" {
		t.Fatalf("write after Close went through: %q", got)
	}
}

func TestSQLiteBackend(t *testing.T) {
	b, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "mytasks.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer b.Close()

	if _, err := b.Read("goals.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Read before write: %v", err)
	}
	for _, body := range []string{"[]", `[{"id":"g"}]`} {
		if err := b.Write("goals.json", []byte(body)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	got, err := b.Read("goals.json")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `[{"id":"g"}]` {
		t.Errorf("Read = %q", got)
	}
}

func ptr(s string) *string { return &s }
