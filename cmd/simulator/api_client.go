package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// APIClient talks to the backend as one user. The session lives in the
// client's cookie jar, so silent token rotation is picked up automatically.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	User       *User
}

// NewAPIClient creates a new API client with an empty session
func NewAPIClient(baseURL string) *APIClient {
	jar, _ := cookiejar.New(nil)
	return &APIClient{
		baseURL: baseURL + "/api/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}
}

// Response types matching backend

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type LoginResponse struct {
	User User `json:"user"`
}

type Post struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	AuthorID   string `json:"authorId"`
	LikesCount int    `json:"likesCount"`
	Liked      bool   `json:"liked"`
}

type LikeResult struct {
	ID         string `json:"id"`
	LikesCount int    `json:"likesCount"`
	Liked      bool   `json:"liked"`
}

type Comment struct {
	ID       string    `json:"id"`
	PostID   string    `json:"postId"`
	ParentID *string   `json:"parentId"`
	Body     string    `json:"body"`
	Replies  []Comment `json:"replies"`
}

type DeleteCommentResult struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

// SignUp registers a fresh account and logs in with it
func (c *APIClient) SignUp(baseName string) error {
	email := fmt.Sprintf("%s_%d@sim.local", baseName, time.Now().UnixNano()%1000000)
	creds := map[string]string{
		"email":    email,
		"password": "testpassword123",
	}

	if err := c.do(http.MethodPost, "/auth/register", creds, http.StatusOK, nil); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	var result LoginResponse
	if err := c.do(http.MethodPost, "/auth/login", creds, http.StatusOK, &result); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	c.User = &result.User
	return nil
}

func (c *APIClient) CreatePost(title, body string) (*Post, error) {
	var post Post
	err := c.do(http.MethodPost, "/posts", map[string]string{"title": title, "body": body}, http.StatusOK, &post)
	return &post, err
}

func (c *APIClient) ListPosts() ([]Post, error) {
	var posts []Post
	err := c.do(http.MethodGet, "/posts", nil, http.StatusOK, &posts)
	return posts, err
}

func (c *APIClient) ToggleLike(postID string) (*LikeResult, error) {
	var result LikeResult
	err := c.do(http.MethodPost, "/posts/"+postID+"/like", nil, http.StatusOK, &result)
	return &result, err
}

func (c *APIClient) Comment(postID, body string, parentID *string) (*Comment, error) {
	req := map[string]interface{}{"content": body}
	if parentID != nil {
		req["parentId"] = *parentID
	}

	var comment Comment
	err := c.do(http.MethodPost, "/comments/"+postID, req, http.StatusCreated, &comment)
	return &comment, err
}

func (c *APIClient) CommentTree(postID string) ([]Comment, error) {
	var tree []Comment
	err := c.do(http.MethodGet, "/comments/"+postID, nil, http.StatusOK, &tree)
	return tree, err
}

func (c *APIClient) DeleteComment(commentID string) (*DeleteCommentResult, error) {
	var result DeleteCommentResult
	err := c.do(http.MethodDelete, "/comments/"+commentID, nil, http.StatusOK, &result)
	return &result, err
}

// do sends a JSON request and decodes the response into out when the
// status matches want.
func (c *APIClient) do(method, path string, body interface{}, want int, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s failed (status %d): %s", method, path, resp.StatusCode, string(bodyBytes))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
