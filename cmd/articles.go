// ABOUTME: Article commands for article-desk CLI
// ABOUTME: Lists, creates, updates, and deletes articles through the action coordinator

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/markalston/article-desk/internal/client"
	"github.com/spf13/cobra"
)

var (
	articleTitle string
	articleText  string
	articleTopic string
	assumeYes    bool
)

var articlesCmd = &cobra.Command{
	Use:     "articles",
	Aliases: []string{"article"},
	Short:   "Manage articles",
	Long:    `List, create, update, and delete articles. Requires a session from 'article-desk login'.`,
}

var articlesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all articles",
	Run: func(cmd *cobra.Command, args []string) {
		runWithDeps(runArticlesList)
	},
}

var articlesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an article",
	Run: func(cmd *cobra.Command, args []string) {
		input := client.ArticleInput{Title: articleTitle, Text: articleText, Topic: articleTopic}
		runWithDeps(func(ctx context.Context, d *deps, w io.Writer) int {
			return runArticlesCreate(ctx, d, w, input)
		})
	},
}

var articlesUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Update an article",
	Long: `Update the title, text, and topic of an article. Fields that are not given
keep their current value.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])
		changes := articleChanges{}
		if cmd.Flags().Changed("title") {
			changes.Title = &articleTitle
		}
		if cmd.Flags().Changed("text") {
			changes.Text = &articleText
		}
		if cmd.Flags().Changed("topic") {
			changes.Topic = &articleTopic
		}

		runWithDeps(func(ctx context.Context, d *deps, w io.Writer) int {
			return runArticlesUpdate(ctx, d, w, id, changes)
		})
	},
}

var articlesDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete an article",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])
		if !assumeYes && !confirmDelete(id) {
			fmt.Fprintln(os.Stderr, "Aborted")
			os.Exit(exitError)
		}

		runWithDeps(func(ctx context.Context, d *deps, w io.Writer) int {
			return runArticlesDelete(ctx, d, w, id)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{articlesCreateCmd, articlesUpdateCmd} {
		c.Flags().StringVar(&articleTitle, "title", "", "Article title")
		c.Flags().StringVar(&articleText, "text", "", "Article text")
		c.Flags().StringVar(&articleTopic, "topic", "", "Article topic (e.g. JavaScript, React, Node)")
	}
	articlesDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")

	articlesCmd.AddCommand(articlesListCmd, articlesCreateCmd, articlesUpdateCmd, articlesDeleteCmd)
	rootCmd.AddCommand(articlesCmd)
}

// articleChanges holds the fields given on the update command line
type articleChanges struct {
	Title *string
	Text  *string
	Topic *string
}

func (c articleChanges) empty() bool {
	return c.Title == nil && c.Text == nil && c.Topic == nil
}

func (c articleChanges) complete() bool {
	return c.Title != nil && c.Text != nil && c.Topic != nil
}

// apply overlays the changed fields on base
func (c articleChanges) apply(base client.ArticleInput) client.ArticleInput {
	if c.Title != nil {
		base.Title = *c.Title
	}
	if c.Text != nil {
		base.Text = *c.Text
	}
	if c.Topic != nil {
		base.Topic = *c.Topic
	}
	return base
}

// articlesResult is the JSON form of article command output
type articlesResult struct {
	Message  string           `json:"message"`
	Articles []client.Article `json:"articles,omitempty"`
}

// runArticlesList fetches and prints the articles, returning the exit code
func runArticlesList(ctx context.Context, d *deps, w io.Writer) int {
	if err := d.coord.List(ctx); err != nil {
		return reportError(w, err)
	}

	snap := d.state.Snapshot()
	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(articlesResult{Message: snap.Message, Articles: snap.Articles}))
		return exitOK
	}

	fmt.Fprintln(w, snap.Message)
	fmt.Fprintln(w, formatArticlesHuman(snap.Articles))
	return exitOK
}

// runArticlesCreate posts a new article and returns the exit code
func runArticlesCreate(ctx context.Context, d *deps, w io.Writer, input client.ArticleInput) int {
	if err := validateInput(input); err != nil {
		return reportError(w, err)
	}
	if err := d.coord.Create(ctx, input); err != nil {
		return reportError(w, err)
	}

	snap := d.state.Snapshot()
	created := snap.Articles[len(snap.Articles)-1]
	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(articlesResult{Message: snap.Message, Articles: []client.Article{created}}))
		return exitOK
	}

	fmt.Fprintln(w, snap.Message)
	fmt.Fprintln(w, formatArticlesHuman([]client.Article{created}))
	return exitOK
}

// runArticlesUpdate saves changes to article id and returns the exit code.
// When only some fields are given, the current article is fetched first and
// the missing fields keep their values.
func runArticlesUpdate(ctx context.Context, d *deps, w io.Writer, id int, changes articleChanges) int {
	if changes.empty() {
		return reportError(w, errors.New("nothing to update; pass --title, --text, or --topic"))
	}

	var base client.ArticleInput
	if !changes.complete() {
		if err := d.coord.List(ctx); err != nil {
			return reportError(w, err)
		}
		current, ok := d.state.Article(id)
		if !ok {
			return reportError(w, fmt.Errorf("article %d not found", id))
		}
		base = current.Input()
	}

	input := changes.apply(base)
	if err := validateInput(input); err != nil {
		return reportError(w, err)
	}
	if err := d.coord.Update(ctx, id, input); err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		updated := client.Article{ID: id, Title: input.Title, Text: input.Text, Topic: input.Topic}
		fmt.Fprintln(w, formatJSON(articlesResult{Message: d.state.Message(), Articles: []client.Article{updated}}))
		return exitOK
	}
	fmt.Fprintln(w, d.state.Message())
	return exitOK
}

// runArticlesDelete removes article id and returns the exit code
func runArticlesDelete(ctx context.Context, d *deps, w io.Writer, id int) int {
	if err := d.coord.Delete(ctx, id); err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(articlesResult{Message: d.state.Message()}))
		return exitOK
	}
	fmt.Fprintln(w, d.state.Message())
	return exitOK
}

// formatArticlesHuman formats articles for human readability
func formatArticlesHuman(articles []client.Article) string {
	if len(articles) == 0 {
		return "No articles."
	}

	var sb strings.Builder
	for i, a := range articles {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "#%d  %s [%s]\n    %s", a.ID, a.Title, a.Topic, a.Text)
	}
	return sb.String()
}

// validateInput rejects blank fields before a request is made
func validateInput(input client.ArticleInput) error {
	var missing []string
	if strings.TrimSpace(input.Title) == "" {
		missing = append(missing, "--title")
	}
	if strings.TrimSpace(input.Text) == "" {
		missing = append(missing, "--text")
	}
	if strings.TrimSpace(input.Topic) == "" {
		missing = append(missing, "--topic")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required %s", strings.Join(missing, ", "))
	}
	return nil
}

func parseID(arg string) int {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		fmt.Fprintf(os.Stderr, "Error: invalid article id %q\n", arg)
		os.Exit(exitError)
	}
	return id
}

func confirmDelete(id int) bool {
	confirmed := false
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Delete article %d?", id)).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&confirmed).
		Run()
	return err == nil && confirmed
}
