package store

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/balkashynov/rtracker/internal/models"
)

var t0 = time.Date(2024, 1, 15, 9, 30, 0, 500000000, time.UTC)

func sampleEntries() []models.Entry {
	end := t0.Add(25 * time.Minute)
	return []models.Entry{
		{Name: "write spec", Project: "rtracker", Start: t0, End: &end},
		{Name: "review, \"quoted\"", Start: t0.Add(time.Hour)},
	}
}

func TestCSVStoreLoadMissingFile(t *testing.T) {
	s := NewCSVStore(filepath.Join(t.TempDir(), "nope", "rtracker"))

	entries, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll on missing file failed: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", entries)
	}
}

func TestCSVStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "share", "rtracker")
	s := NewCSVStore(path)

	want := sampleEntries()
	if err := s.SaveAll(want); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}

	got, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Name != want[i].Name || got[i].Project != want[i].Project || !got[i].Start.Equal(want[i].Start) {
			t.Errorf("Entry %d: expected %+v, got %+v", i, want[i], got[i])
		}
		if (got[i].End == nil) != (want[i].End == nil) {
			t.Errorf("Entry %d: end presence mismatch", i)
		}
	}
}

func TestCSVStoreFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtracker")
	s := NewCSVStore(path)
	if err := s.SaveAll(sampleEntries()); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d lines:\n%s", len(lines), data)
	}
	if lines[0] != "task,project,start,end" {
		t.Errorf("Unexpected header %q", lines[0])
	}
	if lines[1] != "write spec,rtracker,2024-01-15T09:30:00.5Z,2024-01-15T09:55:00.5Z" {
		t.Errorf("Unexpected row %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], ",,2024-01-15T10:30:00.5Z,") {
		t.Errorf("Expected empty project and end in %q", lines[2])
	}
}

func TestCSVStoreSaveReplacesContents(t *testing.T) {
	s := NewCSVStore(filepath.Join(t.TempDir(), "rtracker"))
	_ = s.SaveAll(sampleEntries())

	if err := s.SaveAll(sampleEntries()[:1]); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}
	got, _ := s.LoadAll()
	if len(got) != 1 {
		t.Errorf("Expected 1 entry after replace, got %d", len(got))
	}
}

func TestCSVStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewCSVStore(filepath.Join(dir, "rtracker"))
	_ = s.SaveAll(sampleEntries())
	_ = s.SaveAll(sampleEntries())

	files, _ := os.ReadDir(dir)
	for _, f := range files {
		if strings.HasSuffix(f.Name(), ".tmp") {
			t.Errorf("Leftover temp file %s", f.Name())
		}
	}
}

func TestCSVStoreEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtracker")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	entries, err := NewCSVStore(path).LoadAll()
	if err != nil || len(entries) != 0 {
		t.Errorf("Expected empty log, got %v, %v", entries, err)
	}
}

func TestCSVStoreCorrupt(t *testing.T) {
	tests := map[string]string{
		"bad header":       "name,start\n",
		"missing column":   "task,project,start,end\nwrite,,2024-01-15T09:30:00Z\n",
		"bad timestamp":    "task,project,start,end\nwrite,,not-a-time,\n",
		"bad end":          "task,project,start,end\nwrite,,2024-01-15T09:30:00Z,soon\n",
		"unbalanced quote": "task,project,start,end\n\"write,,2024-01-15T09:30:00Z,\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rtracker")
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := NewCSVStore(path).LoadAll()
			if !errors.Is(err, models.ErrCorruptStore) {
				t.Errorf("Expected ErrCorruptStore, got %v", err)
			}
		})
	}
}

func TestCSVStoreUnreadable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "rtracker")
	if err := os.WriteFile(path, []byte("task,project,start,end\n"), 0000); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCSVStore(path).LoadAll(); !errors.Is(err, models.ErrIO) {
		t.Errorf("Expected ErrIO, got %v", err)
	}
}

func TestCSVStoreLock(t *testing.T) {
	s := NewCSVStore(filepath.Join(t.TempDir(), "data", "rtracker"))

	unlock, err := s.Lock()
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	if err := unlock(); err != nil {
		t.Errorf("unlock failed: %v", err)
	}

	// re-lockable after release
	unlock, err = s.Lock()
	if err != nil {
		t.Fatalf("second Lock failed: %v", err)
	}
	_ = unlock()
}

func TestCSVStoreSaveFollowsSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "dotfiles", "rtracker.csv")
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		t.Fatal(err)
	}
	if err := NewCSVStore(target).SaveAll(sampleEntries()[:1]); err != nil {
		t.Fatalf("SaveAll on target failed: %v", err)
	}

	link := filepath.Join(dir, "rtracker")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	if err := NewCSVStore(link).SaveAll(sampleEntries()); err != nil {
		t.Fatalf("SaveAll through link failed: %v", err)
	}

	info, err := os.Lstat(link)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Error("Expected the store path to remain a symlink")
	}
	got, err := NewCSVStore(target).LoadAll()
	if err != nil {
		t.Fatalf("LoadAll on target failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Expected 2 entries in the link target, got %d", len(got))
	}
}

func TestCSVStoreSaveDanglingSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "sync", "rtracker.csv")
	link := filepath.Join(dir, "rtracker")
	if err := os.Symlink(filepath.Join("sync", "rtracker.csv"), link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	if err := NewCSVStore(link).SaveAll(sampleEntries()); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}
	if got, err := NewCSVStore(target).LoadAll(); err != nil || len(got) != 2 {
		t.Errorf("Expected 2 entries at the link target, got %d, %v", len(got), err)
	}
	if info, err := os.Lstat(link); err != nil || info.Mode()&os.ModeSymlink == 0 {
		t.Error("Expected the store path to remain a symlink")
	}
}

func TestCSVStoreSaveKeepsMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	dir := t.TempDir()

	fresh := filepath.Join(dir, "fresh")
	if err := NewCSVStore(fresh).SaveAll(sampleEntries()); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}
	if info, _ := os.Stat(fresh); info.Mode().Perm() != 0644 {
		t.Errorf("Expected new file mode 0644, got %v", info.Mode().Perm())
	}

	existing := filepath.Join(dir, "existing")
	if err := os.WriteFile(existing, []byte("task,project,start,end\n"), 0640); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(existing, 0640); err != nil {
		t.Fatal(err)
	}
	if err := NewCSVStore(existing).SaveAll(sampleEntries()); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}
	if info, _ := os.Stat(existing); info.Mode().Perm() != 0640 {
		t.Errorf("Expected existing mode 0640 kept, got %v", info.Mode().Perm())
	}
}
