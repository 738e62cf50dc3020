// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Routes input to screens and runs coordinator actions as commands

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/article-desk/internal/actions"
	"github.com/markalston/article-desk/internal/client"
	"github.com/markalston/article-desk/internal/nav"
	"github.com/markalston/article-desk/internal/state"
	"github.com/markalston/article-desk/internal/tui/articleform"
	"github.com/markalston/article-desk/internal/tui/articlelist"
	"github.com/markalston/article-desk/internal/tui/icons"
	"github.com/markalston/article-desk/internal/tui/loginform"
	"github.com/markalston/article-desk/internal/tui/styles"
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum frame width
	panelPadding     = 4  // Total horizontal padding from panel borders (2 each side)
)

// focus identifies which pane of the article screen receives keys
type focus int

const (
	focusList focus = iota
	focusForm
)

// actionDoneMsg is sent when a coordinator action returns
type actionDoneMsg struct {
	action string
	err    error
}

// App is the root model for the TUI
type App struct {
	ctx     context.Context
	coord   *actions.Coordinator
	guard   *nav.Guard
	state   *state.Store
	spinner spinner.Model
	width   int
	height  int
	focus   focus

	// Child models
	login *loginform.Form
	form  *articleform.Form
	list  *articlelist.List
}

// New creates a new TUI application
func New(ctx context.Context, coord *actions.Coordinator, guard *nav.Guard) *App {
	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Accent)),
	)

	if ctx == nil {
		ctx = context.Background()
	}

	a := &App{
		ctx:     ctx,
		coord:   coord,
		guard:   guard,
		state:   coord.State(),
		spinner: sp,
		login:   loginform.New(),
		form:    articleform.New(nil),
		list:    articlelist.New(),
	}
	a.list.SetArticles(a.state.Snapshot())
	return a
}

// Init implements tea.Model. With a stored session the app opens on the
// article screen and loads the list; otherwise it opens on login.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.login.Init(), a.form.Init()}
	if a.guard.State() == nav.Authenticated {
		cmds = append(cmds, a.dispatch("show", func(ctx context.Context) error {
			_, err := a.coord.ShowArticles(ctx)
			return err
		}))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		// Handle global quit
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.guard.Current() {
		case nav.ScreenLogin:
			return a.updateLogin(msg)
		case nav.ScreenArticles:
			return a.updateArticles(msg)
		}
		return a, nil

	case spinner.TickMsg:
		if !a.state.Loading() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case actionDoneMsg:
		return a.handleActionDone(msg)

	case loginform.SubmittedMsg:
		a.login = loginform.New()
		return a, tea.Batch(a.login.Init(), a.dispatch("login", func(ctx context.Context) error {
			return a.coord.Login(ctx, msg.Credentials)
		}))

	case articlelist.EditMsg:
		article, ok := a.state.Article(msg.ArticleID)
		if !ok {
			return a, nil
		}
		a.state.Select(article.ID)
		a.list.SetArticles(a.state.Snapshot())
		a.form = articleform.New(&article)
		a.focus = focusForm
		return a, a.form.Init()

	case articlelist.DeleteMsg:
		id := msg.ArticleID
		return a, a.dispatch("delete", func(ctx context.Context) error {
			return a.coord.Delete(ctx, id)
		})

	case articleform.SubmitMsg:
		a.focus = focusList
		if msg.Editing {
			id, input := msg.ArticleID, msg.Input
			cmd := a.dispatch("update", func(ctx context.Context) error {
				return a.coord.Update(ctx, id, input)
			})
			if cmd == nil {
				return a, a.resetForm()
			}
			return a, cmd
		}
		input := msg.Input
		a.form = articleform.New(nil)
		return a, tea.Batch(a.form.Init(), a.dispatch("create", func(ctx context.Context) error {
			return a.coord.Create(ctx, input)
		}))

	case articleform.CancelledMsg:
		return a, a.cancelEdit()

	default:
		// Forward everything else to the active huh form (needed for form internals)
		return a.forwardToForms(msg)
	}
}

func (a *App) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		return a, a.showArticles()
	}
	model, cmd := a.login.Update(msg)
	a.login = model.(*loginform.Form)
	return a, cmd
}

func (a *App) updateArticles(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.focus == focusForm {
		model, cmd := a.form.Update(msg)
		a.form = model.(*articleform.Form)
		return a, cmd
	}

	if a.list.Filtering() {
		model, cmd := a.list.Update(msg)
		a.list = model.(*articlelist.List)
		return a, cmd
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "n":
		a.focus = focusForm
		return a, nil
	case "r":
		return a, a.dispatch("list", a.coord.List)
	case "L":
		if a.state.Loading() {
			return a, nil
		}
		if err := a.coord.Logout(); err != nil {
			a.state.SetMessage("Logout failed: " + err.Error())
		}
		a.refresh()
		return a, a.resetForm()
	case "1":
		a.guard.Navigate(nav.ScreenLogin)
		return a, nil
	case "2":
		return a, a.showArticles()
	}

	model, cmd := a.list.Update(msg)
	a.list = model.(*articlelist.List)
	return a, cmd
}

func (a *App) forwardToForms(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.guard.Current() {
	case nav.ScreenLogin:
		var model tea.Model
		model, cmd = a.login.Update(msg)
		a.login = model.(*loginform.Form)
	case nav.ScreenArticles:
		if a.focus == focusForm {
			var model tea.Model
			model, cmd = a.form.Update(msg)
			a.form = model.(*articleform.Form)
		}
	}
	return a, cmd
}

func (a *App) handleActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, actions.ErrBusy) {
		return a, nil
	}

	a.refresh()

	if client.IsUnauthorized(msg.err) {
		return a, a.cancelEdit()
	}
	if msg.action == "update" {
		return a, a.resetForm()
	}
	return a, nil
}

// refresh copies the view state into the list after it changed
func (a *App) refresh() {
	a.list.SetArticles(a.state.Snapshot())
	if a.guard.Current() == nav.ScreenLogin {
		a.focus = focusList
	}
}

// resetForm rebuilds the article form from the current selection. A failed
// update keeps the selection, so the edit can be retried.
func (a *App) resetForm() tea.Cmd {
	a.list.SetArticles(a.state.Snapshot())
	a.focus = focusList
	if selected, ok := a.state.Selected(); ok {
		a.form = articleform.New(&selected)
	} else {
		a.form = articleform.New(nil)
	}
	return a.form.Init()
}

// cancelEdit abandons the form and any edit selection
func (a *App) cancelEdit() tea.Cmd {
	a.state.ClearSelection()
	return a.resetForm()
}

func (a *App) showArticles() tea.Cmd {
	return a.dispatch("show", func(ctx context.Context) error {
		_, err := a.coord.ShowArticles(ctx)
		return err
	})
}

// dispatch runs an action in a command goroutine. Triggers are ignored while
// another action is loading.
func (a *App) dispatch(name string, action func(context.Context) error) tea.Cmd {
	if a.state.Loading() {
		return nil
	}
	ctx := a.ctx
	run := func() tea.Msg {
		return actionDoneMsg{action: name, err: action(ctx)}
	}
	return tea.Batch(run, a.spinner.Tick)
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.guard.Current() {
	case nav.ScreenArticles:
		content = a.viewArticles()
	default:
		content = a.viewLogin()
	}

	snap := a.state.Snapshot()
	if snap.Loading {
		content = styles.Dimmed.Render(content)
	}

	return a.wrapWithFrame(a.renderMessage(snap) + "\n" + content)
}

// renderMessage renders the status line above the active screen
func (a *App) renderMessage(snap state.Snapshot) string {
	var sb strings.Builder
	sb.WriteString(" ")
	if snap.Loading {
		sb.WriteString(a.spinner.View())
		sb.WriteString(" ")
	}
	if snap.Message != "" {
		sb.WriteString(styles.Message.Render(snap.Message))
	}
	return sb.String()
}

func (a *App) viewLogin() string {
	return styles.ActivePanel.Width(a.loginWidth()).Render(a.login.View())
}

func (a *App) viewArticles() string {
	listStyle, formStyle := styles.ActivePanel, styles.Panel
	if a.focus == focusForm {
		listStyle, formStyle = styles.Panel, styles.ActivePanel
	}

	count := a.list.Len()
	heading := styles.Title.Render(fmt.Sprintf("%s Articles (%d)", icons.Article.String(), count))
	leftPane := listStyle.Width(a.listWidth()).Render(heading + "\n" + a.list.View())
	rightPane := formStyle.Width(a.formWidth()).Render(a.form.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
}

// frameWidth is the width of the header and footer. It stays one column
// short of the terminal to avoid wrapping, and never drops below the minimum.
func (a *App) frameWidth() int {
	return max(a.width-1, minTerminalWidth)
}

func (a *App) listWidth() int {
	return (a.frameWidth() - panelPadding) / 2
}

func (a *App) formWidth() int {
	return a.frameWidth() - a.listWidth() - panelPadding
}

func (a *App) loginWidth() int {
	return min(a.frameWidth()-panelPadding, 60)
}

// renderHeader creates the header bar with app branding and session state
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := " " + titleStyle.Render("Article Desk") + " "

	rightText := contextStyle.Render(" Signed out ")
	if a.guard.State() == nav.Authenticated {
		rightText = contextStyle.Render(" Signed in ")
	}

	fillWidth := width - 4 - lipgloss.Width(leftText) - lipgloss.Width(rightText) // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts for the screen
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)

	var shortcuts []string
	switch {
	case a.guard.Current() == nav.ScreenLogin:
		shortcuts = []string{"Enter Submit", "Esc Articles", "^C Quit"}
	case a.focus == focusForm:
		shortcuts = []string{"Enter Next", "Esc Cancel", "^C Quit"}
	default:
		shortcuts = []string{"n New", "e Edit", "d Delete", "/ Filter", "r Refresh", "L Logout", "q Quit"}
	}

	var styled []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		styled = append(styled, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
	}

	leftText := " " + strings.Join(styled, "  ") + " "
	fillWidth := width - 4 - lipgloss.Width(leftText) // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + "─╯"
	return borderStyle.Render(footer)
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI
func Run(ctx context.Context, coord *actions.Coordinator, guard *nav.Guard) error {
	p := tea.NewProgram(
		New(ctx, coord, guard),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
