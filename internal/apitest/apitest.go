// ABOUTME: In-memory fake of the articles API for tests
// ABOUTME: Implements login and article CRUD with token checks and call counting

package apitest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/markalston/article-desk/internal/client"
)

// Route keys used by Calls and FailNext
const (
	RouteLogin  = "POST /api/login"
	RouteList   = "GET /api/articles"
	RouteCreate = "POST /api/articles"
	RouteUpdate = "PUT /api/articles/{id}"
	RouteDelete = "DELETE /api/articles/{id}"
)

// Server is a running fake API. Close it when done.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	users        map[string]string
	token        string
	loginMessage string
	validTokens  map[string]bool
	articles     []client.Article
	nextID       int
	calls        map[string]int
	failures     map[string][]int
	lastAuth     map[string]string
}

// New starts a fake API with user bob/secret and token "abc"
func New() *Server {
	s := &Server{
		users:        map[string]string{"bob": "secret"},
		token:        "abc",
		loginMessage: "welcome",
		validTokens:  map[string]bool{},
		articles:     []client.Article{},
		nextID:       1,
		calls:        map[string]int{},
		failures:     map[string][]int{},
		lastAuth:     map[string]string{},
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/api/login", s.track(RouteLogin, s.handleLogin))
	r.Route("/api/articles", func(r chi.Router) {
		r.Get("/", s.track(RouteList, s.requireToken(s.handleList)))
		r.Post("/", s.track(RouteCreate, s.requireToken(s.handleCreate)))
		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", s.track(RouteUpdate, s.requireToken(s.handleUpdate)))
			r.Delete("/", s.track(RouteDelete, s.requireToken(s.handleDelete)))
		})
	})
	return r
}

// SetLogin configures the token and message returned by a successful login
func (s *Server) SetLogin(token, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.loginMessage = message
}

// AddUser registers credentials accepted by login
func (s *Server) AddUser(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = password
}

// IssueToken marks token as valid without a login call
func (s *Server) IssueToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validTokens[token] = true
}

// RevokeTokens invalidates every issued token
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validTokens = map[string]bool{}
}

// Seed replaces the stored articles. New ids continue after the highest seeded id.
func (s *Server) Seed(articles ...client.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = append([]client.Article{}, articles...)
	s.nextID = 1
	for _, a := range articles {
		if a.ID >= s.nextID {
			s.nextID = a.ID + 1
		}
	}
}

// Articles returns the server-side collection
func (s *Server) Articles() []client.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]client.Article{}, s.articles...)
}

// FailNext makes the next request to route answer with status
func (s *Server) FailNext(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = append(s.failures[route], status)
}

// Calls returns how many requests reached route
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// TotalCalls returns the number of requests across all routes
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// LastAuthorization returns the Authorization header of the last request to route
func (s *Server) LastAuthorization(route string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAuth[route]
}

func (s *Server) track(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[route]++
		s.lastAuth[route] = r.Header.Get("Authorization")
		var status int
		if queued := s.failures[route]; len(queued) > 0 {
			status = queued[0]
			s.failures[route] = queued[1:]
		}
		s.mu.Unlock()

		slog.Debug("Fake API request", "route", route, "request_id", r.Header.Get(client.RequestIDHeader))

		if status != 0 {
			writeError(w, http.StatusText(status), status)
			return
		}
		next(w, r)
	}
}

func (s *Server) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		s.mu.Lock()
		ok := token != "" && s.validTokens[token]
		s.mu.Unlock()
		if !ok {
			writeError(w, "Token required", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds client.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if want, ok := s.users[creds.Username]; !ok || want != creds.Password {
		writeError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	s.validTokens[s.token] = true
	writeJSON(w, http.StatusOK, client.LoginResponse{Message: s.loginMessage, Token: s.token})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, client.ArticlesResponse{
		Message:  "Here are your articles",
		Articles: append([]client.Article{}, s.articles...),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeInput(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	article := client.Article{ID: s.nextID, Title: input.Title, Text: input.Text, Topic: input.Topic}
	s.nextID++
	s.articles = append(s.articles, article)
	writeJSON(w, http.StatusCreated, client.ArticleResponse{Message: "Well done. Great article!", Article: article})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := articleID(w, r)
	if !ok {
		return
	}
	input, ok := decodeInput(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.articles {
		if s.articles[i].ID == id {
			s.articles[i].Title = input.Title
			s.articles[i].Text = input.Text
			s.articles[i].Topic = input.Topic
			writeJSON(w, http.StatusOK, client.MessageResponse{Message: "Nice update!"})
			return
		}
	}
	writeError(w, fmt.Sprintf("Article %d not found", id), http.StatusNotFound)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := articleID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.articles {
		if s.articles[i].ID == id {
			s.articles = append(s.articles[:i], s.articles[i+1:]...)
			writeJSON(w, http.StatusOK, client.MessageResponse{Message: fmt.Sprintf("Article %d was deleted", id)})
			return
		}
	}
	writeError(w, fmt.Sprintf("Article %d not found", id), http.StatusNotFound)
}

func articleID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "Invalid article id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func decodeInput(w http.ResponseWriter, r *http.Request) (client.ArticleInput, bool) {
	var input client.ArticleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return input, false
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Text) == "" || strings.TrimSpace(input.Topic) == "" {
		writeError(w, "title, text and topic are required", http.StatusUnprocessableEntity)
		return input, false
	}
	return input, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, client.MessageResponse{Message: message})
}
