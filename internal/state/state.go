// ABOUTME: In-memory view state shared by actions and screens
// ABOUTME: Holds status message, loading flag, article collection, and selection

package state

import (
	"slices"
	"sync"

	"github.com/markalston/article-desk/internal/client"
)

// Snapshot is a point-in-time copy of the view state
type Snapshot struct {
	Message    string
	Loading    bool
	Articles   []client.Article
	SelectedID *int
}

// Store holds view state. Actions mutate it from command goroutines while
// screens read snapshots, so every access takes the lock.
type Store struct {
	mu         sync.RWMutex
	message    string
	loading    bool
	articles   []client.Article
	selectedID *int
}

// New creates an empty store
func New() *Store {
	return &Store{articles: []client.Article{}}
}

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Message:  s.message,
		Loading:  s.loading,
		Articles: slices.Clone(s.articles),
	}
	if s.selectedID != nil {
		id := *s.selectedID
		snap.SelectedID = &id
	}
	return snap
}

// Message returns the current status message
func (s *Store) Message() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.message
}

// SetMessage replaces the status message
func (s *Store) SetMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = msg
}

// ClearMessage empties the status message
func (s *Store) ClearMessage() {
	s.SetMessage("")
}

// Loading reports whether an action is in flight
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Begin starts an action: it clears the message, then turns loading on.
// It returns false without changing anything when loading is already on.
func (s *Store) Begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return false
	}
	s.message = ""
	s.loading = true
	return true
}

// Finish turns loading off
func (s *Store) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
}

// Articles returns a copy of the article collection
func (s *Store) Articles() []client.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.articles)
}

// ReplaceArticles discards the collection and stores articles in server order
func (s *Store) ReplaceArticles(articles []client.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = slices.Clone(articles)
	if s.articles == nil {
		s.articles = []client.Article{}
	}
	s.dropStaleSelectionLocked()
}

// AppendArticle adds article at the end of the collection
func (s *Store) AppendArticle(article client.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = append(s.articles, article)
}

// ApplyUpdate replaces title, text, and topic of the article with id in place.
// It reports whether a matching article was found.
func (s *Store) ApplyUpdate(id int, input client.ArticleInput) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	updated := slices.Clone(s.articles)
	updated[i].Title = input.Title
	updated[i].Text = input.Text
	updated[i].Topic = input.Topic
	s.articles = updated
	return true
}

// RemoveArticle filters out the article with id. Unknown ids are a no-op.
func (s *Store) RemoveArticle(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(id) < 0 {
		return false
	}
	s.articles = slices.DeleteFunc(slices.Clone(s.articles), func(a client.Article) bool {
		return a.ID == id
	})
	s.dropStaleSelectionLocked()
	return true
}

// Article returns the article with id
func (s *Store) Article(id int) (client.Article, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return client.Article{}, false
	}
	return s.articles[i], true
}

// Select marks id as the article being edited
func (s *Store) Select(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = &id
}

// ClearSelection drops the current selection
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = nil
}

// Selected returns the article being edited, if any
func (s *Store) Selected() (client.Article, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selectedID == nil {
		return client.Article{}, false
	}
	i := s.indexLocked(*s.selectedID)
	if i < 0 {
		return client.Article{}, false
	}
	return s.articles[i], true
}

// Reset returns the store to its initial empty state
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = ""
	s.loading = false
	s.articles = []client.Article{}
	s.selectedID = nil
}

func (s *Store) indexLocked(id int) int {
	return slices.IndexFunc(s.articles, func(a client.Article) bool {
		return a.ID == id
	})
}

// dropStaleSelectionLocked keeps selectedID pointing at an article in the collection
func (s *Store) dropStaleSelectionLocked() {
	if s.selectedID != nil && s.indexLocked(*s.selectedID) < 0 {
		s.selectedID = nil
	}
}
