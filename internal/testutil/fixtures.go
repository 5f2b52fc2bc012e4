package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/dom/postgram/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email    string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		email:    fmt.Sprintf("user_%s@example.com", uuid.New().String()[:8]),
		password: "testpassword123",
	}
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// UserResponse matches the public user returned by the API
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// LoginResponse matches the API login response
type LoginResponse struct {
	User UserResponse `json:"user"`
}

// BuildAndLogin registers the user through the API, logs in and returns
// the user together with the session cookies the server set.
func (b *UserBuilder) BuildAndLogin(t *testing.T, ts *TestServer) (*domain.User, []*http.Cookie) {
	t.Helper()

	creds := map[string]string{
		"email":    b.email,
		"password": b.password,
	}

	resp := ts.Do(t, http.MethodPost, "/auth/register", creds)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected register status code: %d", resp.StatusCode)
	}

	resp = ts.Do(t, http.MethodPost, "/auth/login", creds)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status code: %d", resp.StatusCode)
	}

	var loginResp LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	userID, _ := uuid.Parse(loginResp.User.ID)
	user := &domain.User{
		ID:    userID,
		Email: loginResp.User.Email,
	}

	return user, resp.Cookies()
}

// Do sends a JSON request to the API with the given cookies attached
func (ts *TestServer) Do(t *testing.T, method, path string, body interface{}, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.APIURL(path), reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp
}

// PostBuilder creates test posts
type PostBuilder struct {
	author *domain.User
	title  string
	body   string
}

// NewPostBuilder creates a new PostBuilder for the given author
func NewPostBuilder(author *domain.User) *PostBuilder {
	return &PostBuilder{
		author: author,
		title:  "Test post",
		body:   "Test body",
	}
}

// WithTitle sets the title
func (b *PostBuilder) WithTitle(title string) *PostBuilder {
	b.title = title
	return b
}

// WithBody sets the body
func (b *PostBuilder) WithBody(body string) *PostBuilder {
	b.body = body
	return b
}

// Build creates the post in the database
func (b *PostBuilder) Build(t *testing.T, db *gorm.DB) *domain.Post {
	t.Helper()

	post := &domain.Post{
		ID:       uuid.New(),
		Title:    b.title,
		Body:     b.body,
		AuthorID: b.author.ID,
	}

	if err := db.Omit("Author").Create(post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}

	return post
}

// CommentBuilder creates test comments
type CommentBuilder struct {
	post   *domain.Post
	author *domain.User
	parent *domain.Comment
	body   string
}

// NewCommentBuilder creates a new CommentBuilder on post by author
func NewCommentBuilder(post *domain.Post, author *domain.User) *CommentBuilder {
	return &CommentBuilder{
		post:   post,
		author: author,
		body:   "Test comment",
	}
}

// ReplyTo makes the comment a reply to parent
func (b *CommentBuilder) ReplyTo(parent *domain.Comment) *CommentBuilder {
	b.parent = parent
	return b
}

// WithBody sets the body
func (b *CommentBuilder) WithBody(body string) *CommentBuilder {
	b.body = body
	return b
}

// Build creates the comment in the database
func (b *CommentBuilder) Build(t *testing.T, db *gorm.DB) *domain.Comment {
	t.Helper()

	comment := &domain.Comment{
		ID:        uuid.New(),
		Body:      b.body,
		PostID:    b.post.ID,
		AuthorID:  b.author.ID,
		CreatedAt: time.Now(),
	}
	if b.parent != nil {
		comment.ParentID = &b.parent.ID
	}

	if err := db.Omit("Post", "Author", "Parent").Create(comment).Error; err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}

	return comment
}

// BuildChain creates depth nested replies below parent and returns them in order
func (b *CommentBuilder) BuildChain(t *testing.T, db *gorm.DB, parent *domain.Comment, depth int) []*domain.Comment {
	t.Helper()

	chain := make([]*domain.Comment, 0, depth)
	current := parent
	for i := 0; i < depth; i++ {
		current = NewCommentBuilder(b.post, b.author).
			WithBody(fmt.Sprintf("reply depth %d", i+1)).
			ReplyTo(current).
			Build(t, db)
		chain = append(chain, current)
	}
	return chain
}
