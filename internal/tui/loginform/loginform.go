// ABOUTME: Login screen form as a bubbletea model
// ABOUTME: Collects username and password with huh and emits them on submit

package loginform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/markalston/article-desk/internal/client"
)

// SubmittedMsg is sent when the user submits credentials
type SubmittedMsg struct {
	Credentials client.Credentials
}

// Form wraps the huh login form
type Form struct {
	form     *huh.Form
	username string
	password string
}

// New creates an empty login form
func New() *Form {
	f := &Form{}
	f.form = f.build()
	return f
}

func (f *Form) build() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Placeholder("Enter username").
				Value(&f.username).
				Validate(required("username")),
			huh.NewInput().
				Title("Password").
				Placeholder("Enter password").
				EchoMode(huh.EchoModePassword).
				Value(&f.password).
				Validate(required("password")),
		).Title("Login"),
	).WithTheme(huh.ThemeBase()).
		WithShowHelp(false)
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted {
		creds := f.Credentials()
		return f, func() tea.Msg { return SubmittedMsg{Credentials: creds} }
	}

	return f, cmd
}

// View implements tea.Model
func (f *Form) View() string {
	return f.form.View()
}

// Done reports whether the form has been submitted or aborted
func (f *Form) Done() bool {
	return f.form.State != huh.StateNormal
}

// Credentials returns the trimmed username and the raw password
func (f *Form) Credentials() client.Credentials {
	return client.Credentials{
		Username: strings.TrimSpace(f.username),
		Password: f.password,
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
