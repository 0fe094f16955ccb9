//go:build unix

package store

import (
	"path/filepath"
	"testing"
	"time"
)

func TestCSVStoreLockBlocksSecondStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtracker")

	unlock, err := NewCSVStore(path).Lock()
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	acquired := make(chan func() error, 1)
	go func() {
		second, err := NewCSVStore(path).Lock()
		if err != nil {
			acquired <- nil
			return
		}
		acquired <- second
	}()

	select {
	case <-acquired:
		t.Fatal("Second Lock returned while the first was held")
	case <-time.After(200 * time.Millisecond):
	}

	if err := unlock(); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}

	select {
	case second := <-acquired:
		if second == nil {
			t.Fatal("Second Lock failed")
		}
		_ = second()
	case <-time.After(5 * time.Second):
		t.Fatal("Second Lock never returned after release")
	}
}
