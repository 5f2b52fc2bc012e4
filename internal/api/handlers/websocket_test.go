package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dom/postgram/internal/api/handlers"
	"github.com/dom/postgram/internal/api/middleware"
	"github.com/dom/postgram/internal/testutil"
	"github.com/dom/postgram/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketHandler_RequiresSession(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, resp, err := testutil.DialWS(t, ts)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWebSocketHandler_RotatesOnUpgrade(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, cookies := testutil.NewUserBuilder().BuildAndLogin(t, ts)

	var refresh *http.Cookie
	for _, c := range cookies {
		if c.Name == middleware.RefreshTokenCookie {
			refresh = c
		}
	}
	require.NotNil(t, refresh)

	client, resp, err := testutil.DialWS(t, ts, refresh)
	require.NoError(t, err)
	client.ExpectMessage(websocket.MessageTypeWelcome, 2*time.Second)
	testutil.RequireCookie(t, resp, middleware.AccessTokenCookie)
}

func TestWebSocketHandler_BroadcastsEvents(t *testing.T) {
	ts := testutil.NewTestServer(t)

	author, authorCookies := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	_, watcherCookies := testutil.NewUserBuilder().BuildAndLogin(t, ts)

	watcher := testutil.NewWSClient(t, ts, watcherCookies...)
	watcher.ExpectMessage(websocket.MessageTypeWelcome, 2*time.Second)
	watcher.Send(websocket.MessageTypePing)
	watcher.ExpectMessage(websocket.MessageTypePong, 2*time.Second)

	resp := ts.Do(t, http.MethodPost, "/posts", map[string]string{"title": "Live", "body": "now"}, authorCookies...)
	var post handlers.PostResponse
	testutil.AssertJSONResponse(t, resp, &post)
	resp.Body.Close()

	var created handlers.PostResponse
	watcher.ExpectPayload(websocket.MessageTypePostCreated, &created, 2*time.Second)
	assert.Equal(t, post.ID, created.ID)
	assert.Equal(t, author.ID, created.AuthorID)

	resp = ts.Do(t, http.MethodPost, "/posts/"+post.ID.String()+"/like", nil, watcherCookies...)
	resp.Body.Close()

	var liked websocket.LikeToggledPayload
	watcher.ExpectPayload(websocket.MessageTypeLikeToggled, &liked, 2*time.Second)
	assert.Equal(t, post.ID, liked.PostID)
	assert.True(t, liked.Liked)
	assert.Equal(t, 1, liked.LikesCount)

	resp = ts.Do(t, http.MethodPost, "/comments/"+post.ID.String(), map[string]string{"content": "hi"}, authorCookies...)
	var comment handlers.CommentResponse
	testutil.AssertJSONResponse(t, resp, &comment)
	resp.Body.Close()
	watcher.ExpectMessage(websocket.MessageTypeCommentCreated, 2*time.Second)

	resp = ts.Do(t, http.MethodDelete, "/comments/"+comment.ID.String(), nil, authorCookies...)
	resp.Body.Close()

	var removed websocket.CommentDeletedPayload
	watcher.ExpectPayload(websocket.MessageTypeCommentDeleted, &removed, 2*time.Second)
	assert.Equal(t, comment.ID, removed.CommentID)
	assert.Equal(t, int64(1), removed.Deleted)

	resp = ts.Do(t, http.MethodDelete, "/posts/"+post.ID.String(), nil, authorCookies...)
	resp.Body.Close()

	var deleted websocket.PostDeletedPayload
	watcher.ExpectPayload(websocket.MessageTypePostDeleted, &deleted, 2*time.Second)
	assert.Equal(t, post.ID, deleted.PostID)
}
