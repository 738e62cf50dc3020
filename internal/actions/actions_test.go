// ABOUTME: Tests for the action coordinator
// ABOUTME: Drives every action against the fake API and checks state, session, and navigation

package actions

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/markalston/article-desk/internal/apitest"
	"github.com/markalston/article-desk/internal/client"
	"github.com/markalston/article-desk/internal/nav"
	"github.com/markalston/article-desk/internal/session"
	"github.com/markalston/article-desk/internal/state"
)

// recordingNav wraps a Guard and records what actions asked of it
type recordingNav struct {
	*nav.Guard
	st          *state.Store
	navigations []nav.Screen
	messages    []string
	redirects   int
}

func (r *recordingNav) Navigate(screen nav.Screen) nav.Screen {
	r.navigations = append(r.navigations, screen)
	r.messages = append(r.messages, r.st.Message())
	return r.Guard.Navigate(screen)
}

func (r *recordingNav) RedirectToLogin() {
	r.redirects++
	r.Guard.RedirectToLogin()
}

type fixture struct {
	srv     *apitest.Server
	session *session.MemoryStore
	state   *state.Store
	nav     *recordingNav
	coord   *Coordinator
}

func newFixture(t *testing.T, token string) *fixture {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	if token != "" {
		srv.IssueToken(token)
	}

	sess := session.NewMemory(token)
	st := state.New()
	rn := &recordingNav{Guard: nav.New(sess), st: st}
	api := client.New(srv.URL, sess)

	return &fixture{
		srv:     srv,
		session: sess,
		state:   st,
		nav:     rn,
		coord:   New(api, sess, st, rn),
	}
}

func seedArticles() []client.Article {
	return []client.Article{
		{ID: 1, Title: "A", Text: "t1", Topic: "x"},
		{ID: 2, Title: "B", Text: "t2", Topic: "y"},
		{ID: 3, Title: "C", Text: "t3", Topic: "z"},
	}
}

func TestLogin_Scenario(t *testing.T) {
	f := newFixture(t, "")

	err := f.coord.Login(context.Background(), client.Credentials{Username: "bob", Password: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.session.Token() != "abc" {
		t.Errorf("expected persisted token abc, got %q", f.session.Token())
	}
	if len(f.nav.navigations) != 1 || f.nav.navigations[0] != nav.ScreenArticles {
		t.Fatalf("expected one navigation to articles, got %v", f.nav.navigations)
	}
	if f.nav.messages[0] != "welcome" {
		t.Errorf("expected message 'welcome' when navigating, got %q", f.nav.messages[0])
	}
	if f.nav.Current() != nav.ScreenArticles {
		t.Errorf("expected article screen, got %s", f.nav.Current())
	}
	if n := f.srv.Calls(apitest.RouteList); n != 1 {
		t.Errorf("expected exactly one list call after login, got %d", n)
	}
	if f.state.Loading() {
		t.Error("expected loading off after login")
	}
}

func TestLogin_LoadsArticles(t *testing.T) {
	f := newFixture(t, "")
	f.srv.Seed(seedArticles()...)

	if err := f.coord.Login(context.Background(), client.Credentials{Username: "bob", Password: "secret"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff(seedArticles(), f.state.Articles()); diff != "" {
		t.Errorf("articles mismatch (-want +got):\n%s", diff)
	}
	if f.state.Message() != "Here are your articles" {
		t.Errorf("expected list message to follow login, got %q", f.state.Message())
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	f := newFixture(t, "")

	err := f.coord.Login(context.Background(), client.Credentials{Username: "bob", Password: "wrong"})
	if !client.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}

	if f.session.HasSession() {
		t.Error("expected no session")
	}
	if f.nav.redirects != 1 {
		t.Errorf("expected one redirect to login, got %d", f.nav.redirects)
	}
	if f.srv.Calls(apitest.RouteList) != 0 {
		t.Error("expected no list call after failed login")
	}
	if f.state.Loading() || f.state.Message() != "" {
		t.Errorf("expected loading off and message cleared, got %+v", f.state.Snapshot())
	}
}

func TestLogin_ServerError(t *testing.T) {
	f := newFixture(t, "")
	f.srv.FailNext(apitest.RouteLogin, http.StatusInternalServerError)

	if err := f.coord.Login(context.Background(), client.Credentials{Username: "bob", Password: "secret"}); err == nil {
		t.Fatal("expected error")
	}
	if f.nav.redirects != 0 {
		t.Error("expected no redirect for non-401 failures")
	}
	if len(f.nav.navigations) != 0 {
		t.Error("expected no navigation to articles")
	}
}

func TestList_ReplacesCollection(t *testing.T) {
	f := newFixture(t, "abc")
	f.state.ReplaceArticles(seedArticles())
	want := []client.Article{{ID: 1, Title: "A", Text: "t", Topic: "x"}}
	f.srv.Seed(want...)

	if err := f.coord.List(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff(want, f.state.Articles()); diff != "" {
		t.Errorf("articles mismatch (-want +got):\n%s", diff)
	}
	if f.srv.LastAuthorization(apitest.RouteList) != "abc" {
		t.Errorf("expected token sent verbatim, got %q", f.srv.LastAuthorization(apitest.RouteList))
	}
}

func TestUnauthorized_EveryAction(t *testing.T) {
	tests := []struct {
		name  string
		route string
		run   func(*Coordinator) error
	}{
		{"list", apitest.RouteList, func(c *Coordinator) error { return c.List(context.Background()) }},
		{"create", apitest.RouteCreate, func(c *Coordinator) error {
			return c.Create(context.Background(), client.ArticleInput{Title: "T", Text: "x", Topic: "y"})
		}},
		{"update", apitest.RouteUpdate, func(c *Coordinator) error {
			return c.Update(context.Background(), 1, client.ArticleInput{Title: "T", Text: "x", Topic: "y"})
		}},
		{"delete", apitest.RouteDelete, func(c *Coordinator) error { return c.Delete(context.Background(), 1) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, "abc")
			f.srv.Seed(seedArticles()...)
			f.state.ReplaceArticles(seedArticles())
			f.nav.Navigate(nav.ScreenArticles)
			f.srv.RevokeTokens()

			err := tc.run(f.coord)
			if !client.IsUnauthorized(err) {
				t.Fatalf("expected unauthorized, got %v", err)
			}

			if f.session.HasSession() {
				t.Error("expected session cleared")
			}
			if f.nav.Current() != nav.ScreenLogin {
				t.Errorf("expected login screen, got %s", f.nav.Current())
			}
			if got := f.nav.Navigate(nav.ScreenArticles); got != nav.ScreenLogin {
				t.Errorf("expected guarded access to redirect to login, got %s", got)
			}
			if f.state.Loading() {
				t.Error("expected loading off")
			}
			if diff := cmp.Diff(seedArticles(), f.state.Articles()); diff != "" {
				t.Errorf("collection changed on failure (-want +got):\n%s", diff)
			}
			if f.srv.Calls(tc.route) != 1 {
				t.Errorf("expected one call to %s, got %d", tc.route, f.srv.Calls(tc.route))
			}
		})
	}
}

func TestRequestFailed_KeepsStateAndSession(t *testing.T) {
	f := newFixture(t, "abc")
	f.state.ReplaceArticles(seedArticles())
	f.state.SetMessage("previous")
	f.srv.FailNext(apitest.RouteList, http.StatusInternalServerError)

	err := f.coord.List(context.Background())
	if err == nil || client.IsUnauthorized(err) {
		t.Fatalf("expected non-auth failure, got %v", err)
	}

	snap := f.state.Snapshot()
	if snap.Message != "" {
		t.Errorf("expected message cleared, got %q", snap.Message)
	}
	if snap.Loading {
		t.Error("expected loading off")
	}
	if diff := cmp.Diff(seedArticles(), snap.Articles); diff != "" {
		t.Errorf("collection changed on failure (-want +got):\n%s", diff)
	}
	if !f.session.HasSession() {
		t.Error("expected session kept on non-401 failure")
	}
	if f.nav.redirects != 0 {
		t.Error("expected no redirect")
	}
}

func TestCreate_AppendsServerArticle(t *testing.T) {
	f := newFixture(t, "abc")
	f.srv.Seed(seedArticles()...)
	f.state.ReplaceArticles(seedArticles())

	inputs := []client.ArticleInput{
		{Title: "D", Text: "t4", Topic: "w"},
		{Title: "E", Text: "t5", Topic: "v"},
		{Title: "F", Text: "t6", Topic: "u"},
	}
	for i, input := range inputs {
		before := len(f.state.Articles())
		if err := f.coord.Create(context.Background(), input); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}

		got := f.state.Articles()
		if len(got) != before+1 {
			t.Fatalf("expected length %d, got %d", before+1, len(got))
		}
		server := f.srv.Articles()
		if last := got[len(got)-1]; last.ID != server[len(server)-1].ID {
			t.Errorf("expected local id %d to match server id %d", last.ID, server[len(server)-1].ID)
		}
	}

	if f.state.Message() != "Well done. Great article!" {
		t.Errorf("unexpected message %q", f.state.Message())
	}
}

func TestCreate_ValidationFailure(t *testing.T) {
	f := newFixture(t, "abc")

	if err := f.coord.Create(context.Background(), client.ArticleInput{Title: "no body"}); err == nil {
		t.Fatal("expected validation error")
	}
	if len(f.state.Articles()) != 0 {
		t.Error("expected no article appended")
	}
}

func TestUpdate_PatchesInPlace(t *testing.T) {
	f := newFixture(t, "abc")
	f.srv.Seed(seedArticles()...)
	f.state.ReplaceArticles(seedArticles())
	f.state.Select(2)

	input := client.ArticleInput{Title: "B2", Text: "new text", Topic: "q"}
	if err := f.coord.Update(context.Background(), 2, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := seedArticles()
	want[1] = client.Article{ID: 2, Title: "B2", Text: "new text", Topic: "q"}
	if diff := cmp.Diff(want, f.state.Articles()); diff != "" {
		t.Errorf("articles mismatch (-want +got):\n%s", diff)
	}
	if _, ok := f.state.Selected(); ok {
		t.Error("expected selection cleared after update")
	}
	if f.state.Message() != "Nice update!" {
		t.Errorf("unexpected message %q", f.state.Message())
	}
}

func TestDelete_Scenario(t *testing.T) {
	f := newFixture(t, "abc")
	two := seedArticles()[:2]
	f.srv.Seed(two...)
	f.state.ReplaceArticles(two)

	if err := f.coord.Delete(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []client.Article{{ID: 2, Title: "B", Text: "t2", Topic: "y"}}
	if diff := cmp.Diff(want, f.state.Articles()); diff != "" {
		t.Errorf("articles mismatch (-want +got):\n%s", diff)
	}
}

func TestDelete_PreservesOrder(t *testing.T) {
	f := newFixture(t, "abc")
	f.srv.Seed(seedArticles()...)
	f.state.ReplaceArticles(seedArticles())

	if err := f.coord.Delete(context.Background(), 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []client.Article{seedArticles()[0], seedArticles()[2]}
	if diff := cmp.Diff(want, f.state.Articles()); diff != "" {
		t.Errorf("articles mismatch (-want +got):\n%s", diff)
	}
}

func TestDelete_MissingIDLeavesCollection(t *testing.T) {
	f := newFixture(t, "abc")
	f.srv.Seed(seedArticles()...)
	f.state.ReplaceArticles(seedArticles())

	if err := f.coord.Delete(context.Background(), 42); err == nil {
		t.Fatal("expected not found error")
	}
	if diff := cmp.Diff(seedArticles(), f.state.Articles()); diff != "" {
		t.Errorf("collection changed (-want +got):\n%s", diff)
	}
}

func TestBusy_RejectsSecondAction(t *testing.T) {
	f := newFixture(t, "abc")
	f.state.Begin()

	if err := f.coord.List(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if f.srv.TotalCalls() != 0 {
		t.Error("expected no request while busy")
	}
	if !f.state.Loading() {
		t.Error("a rejected action must not turn loading off")
	}
}

func TestLogout(t *testing.T) {
	f := newFixture(t, "abc")
	f.nav.Navigate(nav.ScreenArticles)
	f.state.ReplaceArticles(seedArticles())
	f.state.Select(1)

	if err := f.coord.Logout(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.session.HasSession() {
		t.Error("expected session cleared")
	}
	if f.state.Message() != GoodbyeMessage {
		t.Errorf("expected %q, got %q", GoodbyeMessage, f.state.Message())
	}
	if f.nav.Current() != nav.ScreenLogin {
		t.Errorf("expected login screen, got %s", f.nav.Current())
	}
	if f.srv.TotalCalls() != 0 {
		t.Error("logout must not call the API")
	}
}

func TestShowArticles(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		f := newFixture(t, "")

		shown, err := f.coord.ShowArticles(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if shown != nav.ScreenLogin {
			t.Errorf("expected redirect to login, got %s", shown)
		}
		if f.srv.TotalCalls() != 0 {
			t.Error("expected no request without a session")
		}
	})

	t.Run("authenticated", func(t *testing.T) {
		f := newFixture(t, "abc")
		f.srv.Seed(seedArticles()...)

		shown, err := f.coord.ShowArticles(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if shown != nav.ScreenArticles {
			t.Errorf("expected article screen, got %s", shown)
		}
		if f.srv.Calls(apitest.RouteList) != 1 {
			t.Error("expected a full list re-fetch on navigation")
		}
		if len(f.state.Articles()) != 3 {
			t.Errorf("expected 3 articles, got %d", len(f.state.Articles()))
		}
	})
}

// phaseAPI records the view state observed while a call is in flight
type phaseAPI struct {
	API
	st         *state.Store
	sawLoading bool
	sawMessage string
}

func (p *phaseAPI) ListArticles(ctx context.Context) (*client.ArticlesResponse, error) {
	p.sawLoading = p.st.Loading()
	p.sawMessage = p.st.Message()
	return &client.ArticlesResponse{Message: "ok", Articles: []client.Article{}}, nil
}

func TestPhases_LoadingDuringCall(t *testing.T) {
	st := state.New()
	st.SetMessage("old")
	sess := session.NewMemory("abc")
	api := &phaseAPI{st: st}
	coord := New(api, sess, st, nav.New(sess))

	if err := coord.List(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !api.sawLoading {
		t.Error("expected loading on while the request is in flight")
	}
	if api.sawMessage != "" {
		t.Errorf("expected message cleared before the request, got %q", api.sawMessage)
	}
	if st.Loading() {
		t.Error("expected loading off after completion")
	}
	if st.Message() != "ok" {
		t.Errorf("expected message ok, got %q", st.Message())
	}
}
