package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type result struct {
	out, err string
	code     int
}

func mytasks(t *testing.T, dir string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(append([]string{"--data-dir=" + dir}, args...), &out, &errOut)
	return result{out: out.String(), err: errOut.String(), code: code}
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	r := mytasks(t, dir, args...)
	if r.code != ExitOK {
		t.Fatalf("%v: exit %d\nstdout: %s\nstderr: %s", args, r.code, r.out, r.err)
	}
	return r.out
}

// addedID pulls the short id out of "✔ added <id> <title>".
func addedID(t *testing.T, out string) string {
	t.Helper()
	f := strings.Fields(out)
	for i, w := range f {
		if w == "added" && i+1 < len(f) {
			return f[i+1]
		}
	}
	t.Fatalf("no id in %q", out)
	return ""
}

func TestTaskLifecycle(t *testing.T) {
	dir := t.TempDir()

	low := addedID(t, mustRun(t, dir, "task", "add", "--priority", "low", "water", "plants"))
	high := addedID(t, mustRun(t, dir, "task", "add", "-p", "high", "Pay", "rent"))

	out := mustRun(t, dir, "task", "ls")
	if !strings.Contains(out, "water plants") || !strings.Contains(out, "Pay rent") {
		t.Fatalf("ls missing tasks:\n%s", out)
	}
	if strings.Index(out, "Pay rent") > strings.Index(out, "water plants") {
		t.Errorf("HIGH should be listed before LOW:\n%s", out)
	}

	mustRun(t, dir, "task", "done", high[:6])
	out = mustRun(t, dir, "task", "ls", "--group")
	if !strings.Contains(out, "High") || !strings.Contains(out, "Low") {
		t.Errorf("grouped ls should show group labels:\n%s", out)
	}

	out = mustRun(t, dir, "task", "ls", "--priority", "low")
	if strings.Contains(out, "Pay rent") {
		t.Errorf("filter should hide HIGH tasks:\n%s", out)
	}

	mustRun(t, dir, "task", "rename", low, "water", "the", "plants")
	mustRun(t, dir, "task", "rm", high)

	var stored []map[string]any
	data, err := os.ReadFile(filepath.Join(dir, "tasks.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("tasks.json: %v", err)
	}
	if len(stored) != 1 || stored[0]["title"] != "water the plants" || stored[0]["priority"] != "LOW" {
		t.Fatalf("stored = %v", stored)
	}
	if !strings.Contains(string(data), "\n  {") {
		t.Error("tasks.json should be indented")
	}
}

func TestUsageErrors(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name string
		args []string
		code int
	}{
		{"no command", nil, ExitUsage},
		{"unknown command", []string{"bogus"}, ExitUsage},
		{"add without title", []string{"task", "add"}, ExitUsage},
		{"blank title", []string{"task", "add", "  "}, ExitUsage},
		{"bad priority", []string{"task", "add", "-p", "urgent", "x"}, ExitUsage},
		{"unknown id", []string{"task", "done", "zzzz"}, ExitUsage},
		{"unknown flag", []string{"task", "ls", "--nope"}, ExitUsage},
		{"bad backend", []string{"--backend", "postgres", "task", "ls"}, ExitUsage},
		{"bad amount", []string{"expense", "add", "abc", "lunch"}, ExitUsage},
		{"zero amount", []string{"expense", "add", "0", "lunch"}, ExitUsage},
		{"missing config", []string{"--config", filepath.Join(dir, "nope.yaml"), "task", "ls"}, ExitError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := mytasks(t, dir, tc.args...)
			if r.code != tc.code {
				t.Fatalf("exit = %d, want %d\nstderr: %s", r.code, tc.code, r.err)
			}
		})
	}
}

func TestAmbiguousPrefix(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 40; i++ {
		mustRun(t, dir, "task", "add", "t")
	}
	// 40 random ids over 16 leading hex digits always share one.
	seen := map[byte]int{}
	out := mustRun(t, dir, "task", "ls")
	for _, line := range strings.Split(out, "\n") {
		for _, f := range strings.Fields(line) {
			if len(f) == shortIDLen && strings.Trim(f, "0123456789abcdef") == "" {
				seen[f[0]]++
			}
		}
	}
	for c, n := range seen {
		if n > 1 {
			r := mytasks(t, dir, "task", "rm", string(c))
			if r.code != ExitUsage || !strings.Contains(r.err, "matches") {
				t.Fatalf("ambiguous prefix: exit %d, stderr %q", r.code, r.err)
			}
			return
		}
	}
	t.Fatal("expected a shared leading digit")
}

func TestHabits(t *testing.T) {
	dir := t.TempDir()
	id := addedID(t, mustRun(t, dir, "habit", "add", "Run"))
	addedID(t, mustRun(t, dir, "habit", "add", "--weekly", "Call", "mom"))

	if out := mustRun(t, dir, "habit", "mark", id); !strings.Contains(out, "marked Run") {
		t.Fatalf("mark: %q", out)
	}
	if out := mustRun(t, dir, "habit", "mark", id); !strings.Contains(out, "already done") {
		t.Fatalf("second mark: %q", out)
	}
	out := mustRun(t, dir, "habit", "ls")
	if !strings.Contains(out, "streak 1d") || !strings.Contains(out, "weekly") {
		t.Fatalf("ls:\n%s", out)
	}
	mustRun(t, dir, "habit", "rm", id)
	if out := mustRun(t, dir, "habit", "ls"); strings.Contains(out, "Run") {
		t.Fatalf("removed habit still listed:\n%s", out)
	}
}

func TestGoalsAndSubtasks(t *testing.T) {
	dir := t.TempDir()
	g := addedID(t, mustRun(t, dir, "goal", "add", "--desc", "first release", "Ship", "v1"))
	s1 := addedID(t, mustRun(t, dir, "goal", "sub", "add", g, "Write", "docs"))
	addedID(t, mustRun(t, dir, "goal", "sub", "add", g, "Tag", "release"))

	if out := mustRun(t, dir, "goal", "sub", "toggle", g, s1); !strings.Contains(out, "completed Write docs") {
		t.Fatalf("toggle: %q", out)
	}
	out := mustRun(t, dir, "goal", "ls")
	if !strings.Contains(out, "1/2") || !strings.Contains(out, "first release") {
		t.Fatalf("ls:\n%s", out)
	}

	mustRun(t, dir, "goal", "sub", "rm", g, s1)
	if out := mustRun(t, dir, "goal", "ls"); !strings.Contains(out, "0/1") {
		t.Fatalf("after sub rm:\n%s", out)
	}

	mustRun(t, dir, "goal", "rm", g)
	if out := mustRun(t, dir, "goal", "ls"); !strings.Contains(out, "no goals") {
		t.Fatalf("after rm:\n%s", out)
	}
}

func TestExpensesBalance(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "expense", "add", "--income", "--category", "salary", "100", "pay")
	lunch := addedID(t, mustRun(t, dir, "expense", "add", "-c", "food", "40", "lunch"))

	if out := mustRun(t, dir, "expense", "balance"); strings.TrimSpace(out) != "60.00" {
		t.Fatalf("balance = %q", out)
	}
	out := mustRun(t, dir, "expense", "ls")
	if !strings.Contains(out, "lunch") || !strings.Contains(out, "food") {
		t.Fatalf("ls:\n%s", out)
	}

	mustRun(t, dir, "expense", "rm", lunch)
	if out := mustRun(t, dir, "expense", "balance"); strings.TrimSpace(out) != "100.00" {
		t.Fatalf("balance after rm = %q", out)
	}
}

func TestStatusReportsCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "task", "add", "x")
	if err := os.WriteFile(filepath.Join(dir, "goals.json"), []byte("[{"), 0o600); err != nil {
		t.Fatal(err)
	}
	out := mustRun(t, dir, "status")
	for _, want := range []string{dir, "tasks.json", "loaded", "goals.json", "corrupt", "habits.json", "missing"} {
		if !strings.Contains(out, want) {
			t.Errorf("status missing %q:\n%s", want, out)
		}
	}
}

func TestStatusMemoryBackend(t *testing.T) {
	out := mustRun(t, t.TempDir(), "--backend", "memory", "status")
	if !strings.Contains(out, "memory") || !strings.Contains(out, "not persisted") {
		t.Fatalf("status:\n%s", out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf", "config.yaml")

	mustRun(t, dir, "--config", path, "config", "init")
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
	if r := mytasks(t, dir, "--config", path, "config", "init"); r.code != ExitError {
		t.Fatalf("init over existing file: exit %d", r.code)
	}
	mustRun(t, dir, "--config", path, "config", "init", "--force")

	out := mustRun(t, dir, "--config", path, "config", "show")
	if !strings.Contains(out, "data_dir: "+dir) || !strings.Contains(out, "backend: file") {
		t.Fatalf("show:\n%s", out)
	}
}

func TestSQLiteBackendFlag(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "--backend", "sqlite", "task", "add", "in", "sqlite")
	if _, err := os.Stat(filepath.Join(dir, "mytasks.db")); err != nil {
		t.Fatalf("sqlite file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "tasks.json")); !os.IsNotExist(err) {
		t.Fatal("sqlite backend should not write json files")
	}
	if out := mustRun(t, dir, "--backend", "sqlite", "task", "ls"); !strings.Contains(out, "in sqlite") {
		t.Fatalf("ls:\n%s", out)
	}
}
