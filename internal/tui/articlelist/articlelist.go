// ABOUTME: Article list component with cursor navigation and filtering
// ABOUTME: Emits edit and delete requests for the article under the cursor

package articlelist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/article-desk/internal/client"
	"github.com/markalston/article-desk/internal/state"
	"github.com/markalston/article-desk/internal/tui/icons"
	"github.com/markalston/article-desk/internal/tui/styles"
)

// EditMsg asks the app to select an article for editing
type EditMsg struct {
	ArticleID int
}

// DeleteMsg asks the app to delete an article
type DeleteMsg struct {
	ArticleID int
}

// List renders the article collection
type List struct {
	articles  []client.Article
	visible   []client.Article
	selected  *int
	cursor    int
	filtering bool
	filter    textinput.Model
}

// New creates an empty list
func New() *List {
	ti := textinput.New()
	ti.Placeholder = "filter by title or topic"
	ti.CharLimit = 64
	ti.Width = 40
	ti.Prompt = "/ "

	return &List{filter: ti}
}

// SetArticles refreshes the list from a state snapshot
func (l *List) SetArticles(snap state.Snapshot) {
	l.articles = snap.Articles
	l.selected = snap.SelectedID
	l.applyFilter()
}

// Current returns the article under the cursor
func (l *List) Current() (client.Article, bool) {
	if l.cursor < 0 || l.cursor >= len(l.visible) {
		return client.Article{}, false
	}
	return l.visible[l.cursor], true
}

// Filtering reports whether the filter input has focus
func (l *List) Filtering() bool {
	return l.filtering
}

// Len returns the number of visible articles
func (l *List) Len() int {
	return len(l.visible)
}

// Init implements tea.Model
func (l *List) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (l *List) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	if l.filtering {
		return l.updateFilter(key)
	}

	switch key.String() {
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
		}
	case "down", "j":
		if l.cursor < len(l.visible)-1 {
			l.cursor++
		}
	case "/":
		l.filtering = true
		l.filter.Focus()
		return l, textinput.Blink
	case "esc":
		if l.filter.Value() != "" {
			l.filter.SetValue("")
			l.applyFilter()
		}
	case "e", "enter":
		// Editing and deleting are disabled while another article is being edited
		if article, ok := l.Current(); ok && l.selected == nil {
			id := article.ID
			return l, func() tea.Msg { return EditMsg{ArticleID: id} }
		}
	case "d":
		if article, ok := l.Current(); ok && l.selected == nil {
			id := article.ID
			return l, func() tea.Msg { return DeleteMsg{ArticleID: id} }
		}
	}

	return l, nil
}

func (l *List) updateFilter(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		l.filtering = false
		l.filter.Blur()
		l.filter.SetValue("")
		l.applyFilter()
		return l, nil
	case "enter":
		l.filtering = false
		l.filter.Blur()
		return l, nil
	}

	var cmd tea.Cmd
	l.filter, cmd = l.filter.Update(key)
	l.applyFilter()
	return l, cmd
}

func (l *List) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(l.filter.Value()))

	l.visible = l.visible[:0]
	for _, a := range l.articles {
		if query == "" ||
			strings.Contains(strings.ToLower(a.Title), query) ||
			strings.Contains(strings.ToLower(a.Topic), query) {
			l.visible = append(l.visible, a)
		}
	}

	if l.cursor >= len(l.visible) {
		l.cursor = len(l.visible) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

// View implements tea.Model
func (l *List) View() string {
	var sb strings.Builder

	if l.filtering || l.filter.Value() != "" {
		sb.WriteString(l.filter.View())
		sb.WriteString("\n\n")
	}

	if len(l.articles) == 0 {
		sb.WriteString(styles.Subtitle.Render("No articles yet"))
		return sb.String()
	}
	if len(l.visible) == 0 {
		sb.WriteString(styles.Subtitle.Render("No articles match the filter"))
		return sb.String()
	}

	for i, a := range l.visible {
		prefix := "  "
		if i == l.cursor {
			prefix = styles.Cursor.Render("> ")
		}

		title := styles.ArticleTitle.Render(a.Title)
		if l.selected != nil && *l.selected == a.ID {
			title += " " + styles.Cursor.Render(icons.Edit.String())
		}

		sb.WriteString(fmt.Sprintf("%s%s %s\n", prefix, icons.Article.String(), title))
		sb.WriteString(fmt.Sprintf("    %s\n", a.Text))
		sb.WriteString(fmt.Sprintf("    %s %s\n", icons.Topic.String(), styles.Topic.Render(a.Topic)))
		if i < len(l.visible)-1 {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
