package remote

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/todos/internal/server"
	"github.com/mesh-intelligence/todos/internal/sqlite"
	"github.com/mesh-intelligence/todos/pkg/types"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// liveClient returns a client wired to a reference server over a fresh
// database.
func liveClient(t *testing.T) *Client {
	t.Helper()
	repo := sqlite.NewRepository()
	require.NoError(t, repo.Attach(t.TempDir()))
	t.Cleanup(func() { _ = repo.Detach() })

	ts := httptest.NewServer(server.New(repo).Handler())
	t.Cleanup(ts.Close)

	c, err := New(ts.URL)
	require.NoError(t, err)
	return c
}

func stubClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	c, err := New(ts.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestClient_RoundTrip(t *testing.T) {
	c := liveClient(t)
	ctx := context.Background()

	items, err := c.List(ctx, 2177)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	milk, err := c.Create(ctx, types.NewItem{OwnerID: 2177, Title: "milk"})
	require.NoError(t, err)
	assert.Positive(t, milk.ID)
	tea, err := c.Create(ctx, types.NewItem{OwnerID: 2177, Title: "tea"})
	require.NoError(t, err)

	milk.Completed = true
	milk.Title = "oat milk"
	got, err := c.Replace(ctx, milk)
	require.NoError(t, err)
	assert.Equal(t, milk, got)

	require.NoError(t, c.Delete(ctx, tea.ID))

	items, err = c.List(ctx, 2177)
	require.NoError(t, err)
	assert.Equal(t, []types.Item{milk}, items)
}

func TestClient_FailuresWrapErrNetwork(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		c := liveClient(t)
		err := c.Delete(ctx, 404)
		assert.ErrorIs(t, err, types.ErrNetwork)
		assert.Contains(t, err.Error(), "status 404")
	})

	t.Run("server error", func(t *testing.T) {
		c := stubClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})
		_, err := c.List(ctx, 1)
		assert.ErrorIs(t, err, types.ErrNetwork)
	})

	t.Run("undecodable body", func(t *testing.T) {
		c := stubClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		})
		_, err := c.List(ctx, 1)
		assert.ErrorIs(t, err, types.ErrNetwork)
	})

	t.Run("create without id", func(t *testing.T) {
		c := stubClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"userId":1,"title":"x","completed":false}`))
		})
		_, err := c.Create(ctx, types.NewItem{OwnerID: 1, Title: "x"})
		assert.ErrorIs(t, err, types.ErrNetwork)
	})

	t.Run("connection refused", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		url := ts.URL
		ts.Close()
		c, err := New(url)
		require.NoError(t, err)
		_, err = c.List(ctx, 1)
		assert.ErrorIs(t, err, types.ErrNetwork)
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		c := stubClient(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}, WithTimeout(20*time.Millisecond))
		defer close(release)

		err := c.Delete(ctx, 1)
		assert.ErrorIs(t, err, types.ErrNetwork)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestClient_RequestShape(t *testing.T) {
	var got *http.Request
	var body []byte
	c := stubClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	})

	item := types.Item{ID: 12, OwnerID: 2177, Title: "tea", Completed: true}
	_, err := c.Replace(context.Background(), item)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodPatch, got.Method)
	assert.Equal(t, "/todos/12", got.URL.Path)
	assert.Equal(t, "application/json; charset=UTF-8", got.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"id":12,"userId":2177,"title":"tea","completed":true}`, string(body))

	id, err := uuid.Parse(got.Header.Get("X-Request-Id"))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestClient_ListQuery(t *testing.T) {
	var query string
	c := stubClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`[{"id":1,"userId":2177,"title":"a","completed":false}]`))
	})

	items, err := c.List(context.Background(), 2177)
	require.NoError(t, err)
	assert.Equal(t, "userId=2177", query)
	assert.Equal(t, []types.Item{{ID: 1, OwnerID: 2177, Title: "a"}}, items)
}

func TestNew(t *testing.T) {
	_, err := New("not a url")
	assert.ErrorIs(t, err, types.ErrBaseURLInvalid)

	c, err := New("http://example.test/api/")
	require.NoError(t, err)
	assert.Equal(t, "http://example.test/api/todos/3", c.baseURL.JoinPath(itemPath(3)).String())

	_, err = NewFromConfig(types.Config{BaseURL: "http://example.test"})
	assert.ErrorIs(t, err, types.ErrOwnerUnset)

	c, err = NewFromConfig(types.Config{OwnerID: 1, BaseURL: "http://example.test", RequestTimeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, time.Second, c.timeout)
}
