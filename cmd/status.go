// ABOUTME: Status command for article-desk CLI
// ABOUTME: Reports whether a session token is stored and where

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/markalston/article-desk/internal/nav"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a session is stored",
	Long: `Display the API URL, the session file location, and whether a session token
is stored. Exits 1 when there is no session. The token is not validated
against the API.`,
	Run: func(cmd *cobra.Command, args []string) {
		runWithDeps(func(_ context.Context, d *deps, w io.Writer) int {
			return runStatus(d, w)
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// sessionStatus is the JSON form of the status output
type sessionStatus struct {
	APIURL        string `json:"api_url"`
	SessionFile   string `json:"session_file"`
	Authenticated bool   `json:"authenticated"`
}

// runStatus prints the session state and returns the exit code
func runStatus(d *deps, w io.Writer) int {
	status := sessionStatus{
		APIURL:        d.cfg.APIURL,
		SessionFile:   d.session.Path(),
		Authenticated: d.guard.State() == nav.Authenticated,
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(status))
	} else {
		fmt.Fprintln(w, formatStatusHuman(status))
	}

	if !status.Authenticated {
		return exitUnauthorized
	}
	return exitOK
}

// formatStatusHuman formats the session state for human readability
func formatStatusHuman(s sessionStatus) string {
	state := "not logged in"
	if s.Authenticated {
		state = "logged in"
	}

	return fmt.Sprintf(`API:      %s
Session:  %s
Status:   %s`, s.APIURL, s.SessionFile, state)
}
