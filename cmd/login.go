// ABOUTME: Login and logout commands for article-desk CLI
// ABOUTME: Stores the API token in the session file or removes it

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/markalston/article-desk/internal/client"
	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	Long: `Sign in with a username and password. The returned token is stored in the
config directory and sent with every later request. Missing credentials are
prompted for interactively.`,
	Run: func(cmd *cobra.Command, args []string) {
		creds := client.Credentials{Username: loginUsername, Password: loginPassword}
		if creds.Username == "" || creds.Password == "" {
			if err := promptCredentials(&creds); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(exitError)
			}
		}

		runWithDeps(func(ctx context.Context, d *deps, w io.Writer) int {
			return runLogin(ctx, d, w, creds)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session token",
	Run: func(cmd *cobra.Command, args []string) {
		runWithDeps(func(_ context.Context, d *deps, w io.Writer) int {
			return runLogout(d, w)
		})
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

// promptCredentials asks for whichever credential is missing
func promptCredentials(creds *client.Credentials) error {
	var fields []huh.Field
	if creds.Username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(&creds.Username).
			Validate(notBlank("username")))
	}
	if creds.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&creds.Password).
			Validate(notBlank("password")))
	}

	form := huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeBase())
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errors.New("login cancelled")
		}
		return err
	}
	creds.Username = strings.TrimSpace(creds.Username)
	return nil
}

// runLogin signs in and returns the exit code
func runLogin(ctx context.Context, d *deps, w io.Writer, creds client.Credentials) int {
	if err := d.coord.Login(ctx, creds); err != nil {
		return reportError(w, err)
	}

	snap := d.state.Snapshot()
	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(map[string]any{
			"message":  snap.Message,
			"articles": len(snap.Articles),
		}))
		return exitOK
	}

	fmt.Fprintf(w, "%s\nLogged in as %s (%d articles)\n", snap.Message, creds.Username, len(snap.Articles))
	return exitOK
}

// runLogout clears the session and returns the exit code
func runLogout(d *deps, w io.Writer) int {
	if err := d.coord.Logout(); err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(map[string]string{"message": d.state.Message()}))
		return exitOK
	}
	fmt.Fprintln(w, d.state.Message())
	return exitOK
}

func notBlank(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
