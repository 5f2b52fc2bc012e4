package handlers

import (
	"net/http"
	"time"

	"github.com/dom/postgram/internal/api/middleware"
	"github.com/dom/postgram/internal/content"
	"github.com/dom/postgram/internal/domain"
	"github.com/dom/postgram/internal/service"
	"github.com/dom/postgram/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type PostHandler struct {
	postService *service.PostService
	likeService *service.LikeService
	events      Broadcaster
	log         zerolog.Logger
}

func NewPostHandler(postService *service.PostService, likeService *service.LikeService, events Broadcaster, log zerolog.Logger) *PostHandler {
	return &PostHandler{
		postService: postService,
		likeService: likeService,
		events:      events,
		log:         log,
	}
}

type PostRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body" validate:"required"`
}

type PostResponse struct {
	ID         uuid.UUID     `json:"id"`
	Title      string        `json:"title"`
	Body       string        `json:"body"`
	BodyHTML   string        `json:"bodyHtml"`
	AuthorID   uuid.UUID     `json:"authorId"`
	Author     *UserResponse `json:"author,omitempty"`
	LikesCount int           `json:"likesCount"`
	Liked      bool          `json:"liked"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

func newPostResponse(p *domain.Post, liked bool) PostResponse {
	resp := PostResponse{
		ID:         p.ID,
		Title:      p.Title,
		Body:       p.Body,
		BodyHTML:   content.Render(p.Body),
		AuthorID:   p.AuthorID,
		LikesCount: p.LikesCount,
		Liked:      liked,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.Author != nil {
		author := newUserResponse(p.Author)
		resp.Author = &author
	}
	return resp
}

// List is public; a signed in viewer also sees which posts they liked.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	var viewer *uuid.UUID
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		viewer = &userID
	}

	views, err := h.postService.List(r.Context(), viewer)
	if err != nil {
		writeError(w, h.log, "posts.list", err)
		return
	}

	resp := make([]PostResponse, len(views))
	for i, v := range views {
		resp[i] = newPostResponse(v.Post, v.Liked)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req PostRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.log, "posts.create", err)
		return
	}

	post, err := h.postService.Create(r.Context(), userID, service.PostInput{Title: req.Title, Body: req.Body})
	if err != nil {
		writeError(w, h.log, "posts.create", err)
		return
	}

	resp := newPostResponse(post, false)
	h.events.Broadcast(websocket.MessageTypePostCreated, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	postID, err := pathID(r, domain.ErrPostNotFound)
	if err != nil {
		writeError(w, h.log, "posts.update", err)
		return
	}

	var req PostRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.log, "posts.update", err)
		return
	}

	post, err := h.postService.Update(r.Context(), postID, userID, service.PostInput{Title: req.Title, Body: req.Body})
	if err != nil {
		writeError(w, h.log, "posts.update", err)
		return
	}

	resp := newPostResponse(post, false)
	h.events.Broadcast(websocket.MessageTypePostUpdated, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	postID, err := pathID(r, domain.ErrPostNotFound)
	if err != nil {
		writeError(w, h.log, "posts.delete", err)
		return
	}

	if err := h.postService.Delete(r.Context(), postID, userID); err != nil {
		writeError(w, h.log, "posts.delete", err)
		return
	}

	h.events.Broadcast(websocket.MessageTypePostDeleted, websocket.PostDeletedPayload{PostID: postID})
	writeMessage(w, http.StatusOK, "Post deleted")
}

func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	postID, err := pathID(r, domain.ErrPostNotFound)
	if err != nil {
		writeError(w, h.log, "posts.like", err)
		return
	}

	result, err := h.likeService.Toggle(r.Context(), postID, userID)
	if err != nil {
		writeError(w, h.log, "posts.like", err)
		return
	}

	h.events.Broadcast(websocket.MessageTypeLikeToggled, websocket.LikeToggledPayload{
		PostID:     result.PostID,
		UserID:     userID,
		Liked:      result.Liked,
		LikesCount: result.LikesCount,
	})
	writeJSON(w, http.StatusOK, result)
}

// Liked lists the posts liked by the user named in the path.
func (h *PostHandler) Liked(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, domain.ErrUserNotFound)
	if err != nil {
		writeError(w, h.log, "posts.liked", err)
		return
	}

	var viewer *uuid.UUID
	if id, ok := middleware.GetUserID(r.Context()); ok {
		viewer = &id
	}

	views, err := h.likeService.ListLikedPosts(r.Context(), userID, viewer)
	if err != nil {
		writeError(w, h.log, "posts.liked", err)
		return
	}

	resp := make([]PostResponse, len(views))
	for i, v := range views {
		resp[i] = newPostResponse(v.Post, v.Liked)
	}
	writeJSON(w, http.StatusOK, resp)
}
