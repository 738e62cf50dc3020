// ABOUTME: Create/update article form as a bubbletea model
// ABOUTME: Prefills from the selected article and emits the input on submit

package articleform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/markalston/article-desk/internal/client"
)

// Topics offered as suggestions in the topic field
var Topics = []string{"JavaScript", "React", "Node", "Go"}

// SubmitMsg is sent when the form is submitted
type SubmitMsg struct {
	ArticleID int // zero when creating
	Editing   bool
	Input     client.ArticleInput
}

// CancelledMsg is sent when the user abandons the form
type CancelledMsg struct{}

// Form wraps the huh article form
type Form struct {
	form      *huh.Form
	editingID int
	editing   bool

	title string
	text  string
	topic string
}

// New creates a form. With a selected article the form edits it; otherwise
// it creates a new article.
func New(selected *client.Article) *Form {
	f := &Form{}
	if selected != nil {
		f.editing = true
		f.editingID = selected.ID
		f.title = selected.Title
		f.text = selected.Text
		f.topic = selected.Topic
	}
	f.form = f.build()
	return f
}

func (f *Form) build() *huh.Form {
	heading := "Create Article"
	if f.editing {
		heading = "Edit Article"
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("Enter title").
				CharLimit(120).
				Value(&f.title).
				Validate(required("title")),
			huh.NewText().
				Title("Text").
				Placeholder("Enter text").
				Lines(4).
				Value(&f.text).
				Validate(required("text")),
			huh.NewInput().
				Title("Topic").
				Placeholder("e.g. "+strings.Join(Topics, ", ")).
				Suggestions(Topics).
				Value(&f.topic).
				Validate(required("topic")),
		).Title(heading),
	).WithTheme(huh.ThemeBase()).
		WithShowHelp(false)
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return f, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted {
		submit := SubmitMsg{ArticleID: f.editingID, Editing: f.editing, Input: f.Input()}
		return f, func() tea.Msg { return submit }
	}

	return f, cmd
}

// View implements tea.Model
func (f *Form) View() string {
	return f.form.View()
}

// Editing reports whether the form edits an existing article
func (f *Form) Editing() bool {
	return f.editing
}

// EditingID returns the id of the article being edited
func (f *Form) EditingID() int {
	return f.editingID
}

// Input returns the trimmed field values
func (f *Form) Input() client.ArticleInput {
	return client.ArticleInput{
		Title: strings.TrimSpace(f.title),
		Text:  strings.TrimSpace(f.text),
		Topic: strings.TrimSpace(f.topic),
	}
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
