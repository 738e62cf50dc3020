// ABOUTME: Request and response payloads for the articles API
// ABOUTME: Mirrors the JSON shapes the backend emits

package client

// Article is a single article as returned by the API
type Article struct {
	ID    int    `json:"article_id"`
	Title string `json:"title"`
	Text  string `json:"text"`
	Topic string `json:"topic"`
}

// ArticleInput is the body of create and update requests
type ArticleInput struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Topic string `json:"topic"`
}

// Input returns the mutable fields of a
func (a Article) Input() ArticleInput {
	return ArticleInput{Title: a.Title, Text: a.Text, Topic: a.Topic}
}

// Credentials is the body of the login request
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents the /api/login response
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ArticlesResponse represents the GET /api/articles response
type ArticlesResponse struct {
	Message  string    `json:"message"`
	Articles []Article `json:"articles"`
}

// ArticleResponse represents the POST /api/articles response
type ArticleResponse struct {
	Message string  `json:"message"`
	Article Article `json:"article"`
}

// MessageResponse represents update and delete responses
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an API error body
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
