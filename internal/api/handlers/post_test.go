package handlers_test

import (
	"net/http"
	"testing"

	"github.com/dom/postgram/internal/api/handlers"
	"github.com/dom/postgram/internal/domain"
	"github.com/dom/postgram/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostHandler_LikeScenario(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, u1 := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	_, u2 := testutil.NewUserBuilder().BuildAndLogin(t, ts)

	resp := ts.Do(t, http.MethodPost, "/posts", map[string]string{"title": "A", "body": "B"}, u1...)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var created handlers.PostResponse
	testutil.AssertJSONResponse(t, resp, &created)
	resp.Body.Close()
	assert.Equal(t, "A", created.Title)
	assert.Equal(t, "<p>B</p>\n", created.BodyHTML)

	resp = ts.Do(t, http.MethodGet, "/posts", nil)
	var posts []handlers.PostResponse
	testutil.AssertJSONResponse(t, resp, &posts)
	resp.Body.Close()
	require.Len(t, posts, 1)
	assert.Equal(t, created.ID, posts[0].ID)
	assert.Equal(t, 0, posts[0].LikesCount)

	likePath := "/posts/" + created.ID.String() + "/like"

	resp = ts.Do(t, http.MethodPost, likePath, nil, u2...)
	var first domain.LikeResult
	testutil.AssertJSONResponse(t, resp, &first)
	resp.Body.Close()
	assert.Equal(t, 1, first.LikesCount)
	assert.True(t, first.Liked)

	resp = ts.Do(t, http.MethodGet, "/posts", nil, u2...)
	testutil.AssertJSONResponse(t, resp, &posts)
	resp.Body.Close()
	require.Len(t, posts, 1)
	assert.True(t, posts[0].Liked)
	assert.Equal(t, 1, posts[0].LikesCount)

	resp = ts.Do(t, http.MethodPost, likePath, nil, u2...)
	var second domain.LikeResult
	testutil.AssertJSONResponse(t, resp, &second)
	resp.Body.Close()
	assert.Equal(t, 0, second.LikesCount)
	assert.False(t, second.Liked)
}

func TestPostHandler_Create(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, cookies := testutil.NewUserBuilder().BuildAndLogin(t, ts)

	tests := []struct {
		name           string
		request        map[string]string
		anonymous      bool
		expectedStatus int
	}{
		{
			name:           "successful creation",
			request:        map[string]string{"title": "Hello", "body": "**world**"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing title",
			request:        map[string]string{"body": "body"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "blank body",
			request:        map[string]string{"title": "t", "body": "   "},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown field",
			request:        map[string]string{"title": "t", "body": "b", "likesCount": "9"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "anonymous",
			request:        map[string]string{"title": "t", "body": "b"},
			anonymous:      true,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp *http.Response
			if tt.anonymous {
				resp = ts.Do(t, http.MethodPost, "/posts", tt.request)
			} else {
				resp = ts.Do(t, http.MethodPost, "/posts", tt.request, cookies...)
			}
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestPostHandler_UpdateAndDelete(t *testing.T) {
	ts := testutil.NewTestServer(t)

	owner, ownerCookies := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	_, otherCookies := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	post := testutil.NewPostBuilder(owner).Build(t, ts.DB.DB)
	path := "/posts/" + post.ID.String()
	update := map[string]string{"title": "Edited", "body": "Edited body"}

	t.Run("non owner update is forbidden", func(t *testing.T) {
		resp := ts.Do(t, http.MethodPut, path, update, otherCookies...)
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusForbidden, "not the owner")
	})

	t.Run("owner update", func(t *testing.T) {
		resp := ts.Do(t, http.MethodPut, path, update, ownerCookies...)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)
		var updated handlers.PostResponse
		testutil.AssertJSONResponse(t, resp, &updated)
		assert.Equal(t, "Edited", updated.Title)
	})

	t.Run("malformed id", func(t *testing.T) {
		resp := ts.Do(t, http.MethodPut, "/posts/not-a-uuid", update, ownerCookies...)
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "post not found")
	})

	t.Run("non owner delete is forbidden", func(t *testing.T) {
		resp := ts.Do(t, http.MethodDelete, path, nil, otherCookies...)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusForbidden)
	})

	t.Run("owner delete", func(t *testing.T) {
		resp := ts.Do(t, http.MethodDelete, path, nil, ownerCookies...)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)
		assert.Zero(t, ts.DB.Count(t, "posts", "id = ?", post.ID))
	})

	t.Run("delete missing post", func(t *testing.T) {
		resp := ts.Do(t, http.MethodDelete, path, nil, ownerCookies...)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusNotFound)
	})
}

func TestPostHandler_Liked(t *testing.T) {
	ts := testutil.NewTestServer(t)

	author, cookies := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	liked := testutil.NewPostBuilder(author).WithTitle("liked").Build(t, ts.DB.DB)
	testutil.NewPostBuilder(author).WithTitle("ignored").Build(t, ts.DB.DB)

	resp := ts.Do(t, http.MethodPost, "/posts/"+liked.ID.String()+"/like", nil, cookies...)
	resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	resp = ts.Do(t, http.MethodGet, "/posts/"+author.ID.String()+"/liked", nil, cookies...)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var posts []handlers.PostResponse
	testutil.AssertJSONResponse(t, resp, &posts)
	require.Len(t, posts, 1)
	assert.Equal(t, liked.ID, posts[0].ID)
	assert.True(t, posts[0].Liked)

	t.Run("liked reflects the viewer", func(t *testing.T) {
		_, viewerCookies := testutil.NewUserBuilder().BuildAndLogin(t, ts)

		resp := ts.Do(t, http.MethodGet, "/posts/"+author.ID.String()+"/liked", nil, viewerCookies...)
		var before []handlers.PostResponse
		testutil.AssertJSONResponse(t, resp, &before)
		resp.Body.Close()
		require.Len(t, before, 1)
		assert.False(t, before[0].Liked)

		resp = ts.Do(t, http.MethodPost, "/posts/"+liked.ID.String()+"/like", nil, viewerCookies...)
		resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		resp = ts.Do(t, http.MethodGet, "/posts/"+author.ID.String()+"/liked", nil, viewerCookies...)
		var after []handlers.PostResponse
		testutil.AssertJSONResponse(t, resp, &after)
		resp.Body.Close()
		require.Len(t, after, 1)
		assert.True(t, after[0].Liked)
	})

	t.Run("unknown user", func(t *testing.T) {
		resp := ts.Do(t, http.MethodGet, "/posts/"+uuid.New().String()+"/liked", nil, cookies...)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusNotFound)
	})

	t.Run("like missing post", func(t *testing.T) {
		resp := ts.Do(t, http.MethodPost, "/posts/"+uuid.New().String()+"/like", nil, cookies...)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusNotFound)
	})
}
