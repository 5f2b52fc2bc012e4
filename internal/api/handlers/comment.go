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

type CommentHandler struct {
	commentService *service.CommentService
	events         Broadcaster
	log            zerolog.Logger
}

func NewCommentHandler(commentService *service.CommentService, events Broadcaster, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		events:         events,
		log:            log,
	}
}

type CreateCommentRequest struct {
	Content  string  `json:"content" validate:"required,max=10000"`
	ParentID *string `json:"parentId" validate:"omitempty,uuid"`
}

type CommentResponse struct {
	ID        uuid.UUID         `json:"id"`
	PostID    uuid.UUID         `json:"postId"`
	ParentID  *uuid.UUID        `json:"parentId"`
	Body      string            `json:"body"`
	BodyHTML  string            `json:"bodyHtml"`
	AuthorID  uuid.UUID         `json:"authorId"`
	Author    *UserResponse     `json:"author,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	Replies   []CommentResponse `json:"replies"`
}

type DeleteCommentResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

func newCommentResponse(c *domain.Comment) CommentResponse {
	resp := CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		ParentID:  c.ParentID,
		Body:      c.Body,
		BodyHTML:  content.Render(c.Body),
		AuthorID:  c.AuthorID,
		CreatedAt: c.CreatedAt,
		Replies:   make([]CommentResponse, len(c.Replies)),
	}
	if c.Author != nil {
		author := newUserResponse(c.Author)
		resp.Author = &author
	}
	for i, reply := range c.Replies {
		resp.Replies[i] = newCommentResponse(reply)
	}
	return resp
}

// List returns the post's full comment tree.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, domain.ErrPostNotFound)
	if err != nil {
		writeError(w, h.log, "comments.list", err)
		return
	}

	tree, err := h.commentService.ListTree(r.Context(), postID)
	if err != nil {
		writeError(w, h.log, "comments.list", err)
		return
	}

	resp := make([]CommentResponse, len(tree))
	for i, c := range tree {
		resp[i] = newCommentResponse(c)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	postID, err := pathID(r, domain.ErrPostNotFound)
	if err != nil {
		writeError(w, h.log, "comments.create", err)
		return
	}

	var req CreateCommentRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.log, "comments.create", err)
		return
	}

	input := service.CreateCommentInput{
		PostID:   postID,
		AuthorID: userID,
		Body:     req.Content,
	}
	if req.ParentID != nil {
		parentID, err := uuid.Parse(*req.ParentID)
		if err != nil {
			writeError(w, h.log, "comments.create", domain.ErrParentNotFound)
			return
		}
		input.ParentID = &parentID
	}

	comment, err := h.commentService.Create(r.Context(), input)
	if err != nil {
		writeError(w, h.log, "comments.create", err)
		return
	}

	resp := newCommentResponse(comment)
	h.events.Broadcast(websocket.MessageTypeCommentCreated, resp)
	writeJSON(w, http.StatusCreated, resp)
}

// Delete removes the comment and every reply beneath it.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	commentID, err := pathID(r, domain.ErrCommentNotFound)
	if err != nil {
		writeError(w, h.log, "comments.delete", err)
		return
	}

	comment, deleted, err := h.commentService.Delete(r.Context(), commentID, userID)
	if err != nil {
		writeError(w, h.log, "comments.delete", err)
		return
	}

	h.events.Broadcast(websocket.MessageTypeCommentDeleted, websocket.CommentDeletedPayload{
		CommentID: commentID,
		PostID:    comment.PostID,
		Deleted:   deleted,
	})
	writeJSON(w, http.StatusOK, DeleteCommentResponse{
		Message: "Comment deleted",
		Deleted: deleted,
	})
}
