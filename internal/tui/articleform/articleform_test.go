// ABOUTME: Tests for the article form
// ABOUTME: Validates create vs edit modes, prefill, and cancellation

package articleform

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/article-desk/internal/client"
)

func TestNewCreateForm(t *testing.T) {
	f := New(nil)

	if f.Editing() {
		t.Error("expected create mode without a selection")
	}
	if got := f.Input(); got != (client.ArticleInput{}) {
		t.Errorf("expected empty input, got %+v", got)
	}
}

func TestNewEditFormPrefills(t *testing.T) {
	article := &client.Article{ID: 5, Title: " Hooks ", Text: "useEffect", Topic: "React"}
	f := New(article)

	if !f.Editing() {
		t.Fatal("expected edit mode with a selection")
	}
	if f.EditingID() != 5 {
		t.Errorf("expected editing id 5, got %d", f.EditingID())
	}
	want := client.ArticleInput{Title: "Hooks", Text: "useEffect", Topic: "React"}
	if got := f.Input(); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestEscCancels(t *testing.T) {
	f := New(nil)

	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected a command on esc")
	}
	if _, ok := cmd().(CancelledMsg); !ok {
		t.Error("expected CancelledMsg")
	}
}

func TestRequired(t *testing.T) {
	validate := required("title")
	if validate("") == nil {
		t.Error("expected empty title to fail")
	}
	if validate(" \t") == nil {
		t.Error("expected blank title to fail")
	}
	if err := validate("Go"); err != nil {
		t.Errorf("expected Go to pass, got %v", err)
	}
}
