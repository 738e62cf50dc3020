// ABOUTME: Tests for the persisted session store
// ABOUTME: Validates token persistence, clearing, and corrupt file handling

package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewStoreHasNoSession(t *testing.T) {
	s := New(t.TempDir())

	if s.HasSession() {
		t.Error("expected no session in empty config dir")
	}
	if s.Token() != "" {
		t.Errorf("expected empty token, got %q", s.Token())
	}
}

func TestSetPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	if err := New(dir).Set("abc"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	reloaded := New(dir)
	if !reloaded.HasSession() {
		t.Fatal("expected session after reload")
	}
	if reloaded.Token() != "abc" {
		t.Errorf("expected token abc, got %q", reloaded.Token())
	}
}

func TestSetCreatesConfigDirWithPrivateFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "article-desk")
	s := New(dir)

	if err := s.Set("abc"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatalf("expected session file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected mode 0600, got %o", perm)
	}
}

func TestClearRemovesToken(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	if err := s.Set("abc"); err != nil {
		t.Fatal(err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if s.HasSession() {
		t.Error("expected no session after Clear")
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Error("expected session file to be removed")
	}
	if New(dir).HasSession() {
		t.Error("expected cleared session to stay cleared after reload")
	}
}

func TestClearWithoutSession(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Clear(); err != nil {
		t.Errorf("expected Clear on absent session to succeed, got %v", err)
	}
}

func TestSetEmptyClears(t *testing.T) {
	s := New(t.TempDir())
	s.Set("abc")

	if err := s.Set(""); err != nil {
		t.Fatalf("Set(\"\") error: %v", err)
	}
	if s.HasSession() {
		t.Error("expected empty token to clear the session")
	}
}

func TestCorruptFileReadsAsNoSession(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if New(dir).HasSession() {
		t.Error("expected corrupt session file to read as no session")
	}
}

func TestMemoryStore(t *testing.T) {
	var s Store = NewMemory("")
	if s.HasSession() {
		t.Error("expected no session")
	}
	s.Set("tok")
	if s.Token() != "tok" {
		t.Errorf("expected tok, got %q", s.Token())
	}
	s.Clear()
	if s.HasSession() {
		t.Error("expected session cleared")
	}
}
