// ABOUTME: Action coordinator for login and article CRUD
// ABOUTME: Sequences network call, state update, auth failure handling, and loading flag

package actions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/markalston/article-desk/internal/client"
	"github.com/markalston/article-desk/internal/nav"
	"github.com/markalston/article-desk/internal/session"
	"github.com/markalston/article-desk/internal/state"
)

// ErrBusy is returned when an action starts while another is in flight
var ErrBusy = errors.New("another action is in progress")

// GoodbyeMessage is shown after an explicit logout
const GoodbyeMessage = "Goodbye!"

// API is the subset of the articles client used by actions
type API interface {
	Login(ctx context.Context, creds client.Credentials) (*client.LoginResponse, error)
	ListArticles(ctx context.Context) (*client.ArticlesResponse, error)
	CreateArticle(ctx context.Context, input client.ArticleInput) (*client.ArticleResponse, error)
	UpdateArticle(ctx context.Context, id int, input client.ArticleInput) (*client.MessageResponse, error)
	DeleteArticle(ctx context.Context, id int) (*client.MessageResponse, error)
}

// Navigator moves between screens
type Navigator interface {
	Navigate(screen nav.Screen) nav.Screen
	RedirectToLogin()
}

// Coordinator runs user actions against the API and applies their results
// to the view state. Every action follows the same sequence: clear message,
// loading on, one API call, apply result or handle failure, loading off.
type Coordinator struct {
	api     API
	session session.Store
	state   *state.Store
	nav     Navigator
}

// New creates a Coordinator
func New(api API, sess session.Store, st *state.Store, navigator Navigator) *Coordinator {
	return &Coordinator{
		api:     api,
		session: sess,
		state:   st,
		nav:     navigator,
	}
}

// State returns the view state the coordinator mutates
func (c *Coordinator) State() *state.Store {
	return c.state
}

// Login authenticates, stores the token, shows the article screen, and then
// loads the article list before returning.
func (c *Coordinator) Login(ctx context.Context, creds client.Credentials) error {
	return c.run(ctx, "login", func(ctx context.Context) error {
		resp, err := c.api.Login(ctx, creds)
		if err != nil {
			return err
		}
		if err := c.session.Set(resp.Token); err != nil {
			return fmt.Errorf("failed to store session: %w", err)
		}
		c.state.SetMessage(resp.Message)
		c.nav.Navigate(nav.ScreenArticles)

		return c.fetchArticles(ctx)
	})
}

// List replaces the local collection with the server's articles
func (c *Coordinator) List(ctx context.Context) error {
	return c.run(ctx, "list", c.fetchArticles)
}

// Create posts a new article and appends the server's copy to the collection
func (c *Coordinator) Create(ctx context.Context, input client.ArticleInput) error {
	return c.run(ctx, "create", func(ctx context.Context) error {
		resp, err := c.api.CreateArticle(ctx, input)
		if err != nil {
			return err
		}
		c.state.SetMessage(resp.Message)
		c.state.AppendArticle(resp.Article)
		return nil
	})
}

// Update saves title, text, and topic of article id and patches the local
// copy in place. The edit selection is cleared on success.
func (c *Coordinator) Update(ctx context.Context, id int, input client.ArticleInput) error {
	return c.run(ctx, "update", func(ctx context.Context) error {
		resp, err := c.api.UpdateArticle(ctx, id, input)
		if err != nil {
			return err
		}
		c.state.SetMessage(resp.Message)
		c.state.ApplyUpdate(id, input)
		c.state.ClearSelection()
		return nil
	})
}

// Delete removes article id on the server and filters it out locally
func (c *Coordinator) Delete(ctx context.Context, id int) error {
	return c.run(ctx, "delete", func(ctx context.Context) error {
		resp, err := c.api.DeleteArticle(ctx, id)
		if err != nil {
			return err
		}
		c.state.SetMessage(resp.Message)
		c.state.RemoveArticle(id)
		return nil
	})
}

// Logout drops the session and returns to the login screen. No request is made.
func (c *Coordinator) Logout() error {
	err := c.session.Clear()
	c.state.ClearSelection()
	c.state.SetMessage(GoodbyeMessage)
	c.nav.RedirectToLogin()
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	slog.Info("Logged out")
	return nil
}

// ShowArticles navigates to the article screen and re-fetches the list.
// Without a session the guard redirects to login and no request is made.
func (c *Coordinator) ShowArticles(ctx context.Context) (nav.Screen, error) {
	shown := c.nav.Navigate(nav.ScreenArticles)
	if shown != nav.ScreenArticles {
		return shown, nil
	}
	return shown, c.List(ctx)
}

func (c *Coordinator) fetchArticles(ctx context.Context) error {
	c.state.ClearMessage()
	resp, err := c.api.ListArticles(ctx)
	if err != nil {
		return err
	}
	c.state.SetMessage(resp.Message)
	c.state.ReplaceArticles(resp.Articles)
	return nil
}

// run wraps one action with the loading flag and failure handling
func (c *Coordinator) run(ctx context.Context, name string, call func(context.Context) error) error {
	if !c.state.Begin() {
		slog.Debug("Action rejected while busy", "action", name)
		return ErrBusy
	}
	defer c.state.Finish()

	start := time.Now()
	slog.Debug("Action started", "action", name)

	if err := call(ctx); err != nil {
		c.fail(name, err)
		return err
	}

	slog.Debug("Action completed", "action", name, "duration", time.Since(start))
	return nil
}

// fail clears the message and, for 401 responses, ends the session
func (c *Coordinator) fail(name string, err error) {
	c.state.ClearMessage()

	if !client.IsUnauthorized(err) {
		slog.Error("Action failed", "action", name, "error", err)
		return
	}

	slog.Warn("Session rejected by API, logging out", "action", name)
	if clearErr := c.session.Clear(); clearErr != nil {
		slog.Error("Failed to clear session", "error", clearErr)
	}
	c.nav.RedirectToLogin()
}
