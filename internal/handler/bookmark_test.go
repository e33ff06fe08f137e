package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"gotest.tools/v3/assert"

	"github.com/dunder-mifflin/bookmarks-api/internal/config"
	"github.com/dunder-mifflin/bookmarks-api/internal/handler"
	"github.com/dunder-mifflin/bookmarks-api/internal/middleware"
	"github.com/dunder-mifflin/bookmarks-api/internal/repository"
	"github.com/dunder-mifflin/bookmarks-api/internal/router"
	"github.com/dunder-mifflin/bookmarks-api/internal/server"
	"github.com/dunder-mifflin/bookmarks-api/internal/service"
)

const testToken = "abcd12345"

// fakeBookmarkRepo is an in-memory BookmarkRepository sufficient for
// exercising the full HTTP stack without a database.
type fakeBookmarkRepo struct {
	mu        sync.Mutex
	nextID    int64
	bookmarks []repository.Bookmark
	failWith  error
}

func newFakeBookmarkRepo() *fakeBookmarkRepo {
	return &fakeBookmarkRepo{nextID: 1}
}

func (r *fakeBookmarkRepo) List(ctx context.Context) ([]repository.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := make([]repository.Bookmark, len(r.bookmarks))
	copy(out, r.bookmarks)
	return out, nil
}

func (r *fakeBookmarkRepo) GetByID(ctx context.Context, id int64) (repository.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return repository.Bookmark{}, r.failWith
	}
	for _, b := range r.bookmarks {
		if b.ID == id {
			return b, nil
		}
	}
	return repository.Bookmark{}, pgx.ErrNoRows
}

func (r *fakeBookmarkRepo) Insert(ctx context.Context, bookmark repository.NewBookmark) (repository.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return repository.Bookmark{}, r.failWith
	}
	created := repository.Bookmark{
		ID:          r.nextID,
		Title:       bookmark.Title,
		URL:         bookmark.URL,
		Rating:      bookmark.Rating,
		Description: bookmark.Description,
	}
	r.nextID++
	r.bookmarks = append(r.bookmarks, created)
	return created, nil
}

func (r *fakeBookmarkRepo) DeleteByID(ctx context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return 0, r.failWith
	}
	for i, b := range r.bookmarks {
		if b.ID == id {
			r.bookmarks = append(r.bookmarks[:i], r.bookmarks[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeBookmarkRepo) Update(ctx context.Context, id int64, fields repository.UpdateBookmarkFields) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return 0, r.failWith
	}
	for i := range r.bookmarks {
		if r.bookmarks[i].ID != id {
			continue
		}
		if fields.Title != nil {
			r.bookmarks[i].Title = *fields.Title
		}
		if fields.URL != nil {
			r.bookmarks[i].URL = *fields.URL
		}
		if fields.Rating != nil {
			r.bookmarks[i].Rating = *fields.Rating
		}
		if fields.Description != nil {
			r.bookmarks[i].Description = *fields.Description
		}
		return 1, nil
	}
	return 0, nil
}

func (r *fakeBookmarkRepo) seed(t *testing.T, bookmarks ...repository.NewBookmark) []repository.Bookmark {
	t.Helper()
	out := make([]repository.Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		created, err := r.Insert(context.Background(), b)
		assert.NilError(t, err)
		out = append(out, created)
	}
	return out
}

func newTestStack(t *testing.T, env string) (*echo.Echo, *fakeBookmarkRepo) {
	t.Helper()

	cfg := &config.Config{
		Primary: config.Primary{Env: env},
		Server: config.ServerConfig{
			Port:               "4000",
			ReadTimeout:        5,
			WriteTimeout:       10,
			IdleTimeout:        120,
			CORSAllowedOrigins: []string{"*"},
		},
		Auth:          config.AuthConfig{APIToken: testToken},
		Observability: config.DefaultObservabilityConfig(),
	}

	logger := zerolog.Nop()
	s := &server.Server{Config: cfg, Logger: &logger}

	repo := newFakeBookmarkRepo()
	services := &service.Services{Bookmarks: service.NewBookmarkService(s, repo)}
	handlers := handler.NewHandlers(s, services)
	middlewares := middleware.NewMiddlewares(s)

	return router.New(s, handlers, middlewares), repo
}

func doRequest(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestBearerTokenRequired(t *testing.T) {
	e, repo := newTestStack(t, "test")
	repo.seed(t, repository.NewBookmark{Title: "T", URL: "http://x.com", Rating: 3})

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/bookmarks"},
		{http.MethodGet, "/api/bookmarks/1"},
		{http.MethodPost, "/api/bookmarks"},
		{http.MethodDelete, "/api/bookmarks/1"},
		{http.MethodPatch, "/api/bookmarks/1"},
	}

	for _, tt := range routes {
		t.Run(tt.method+" "+tt.path+" without token", func(t *testing.T) {
			rec := doRequest(e, tt.method, tt.path, "", "")
			assert.Equal(t, rec.Code, http.StatusUnauthorized)
			assert.Equal(t, decodeBody(t, rec)["error"], "Unauthorized Request")
		})

		t.Run(tt.method+" "+tt.path+" with wrong token", func(t *testing.T) {
			rec := doRequest(e, tt.method, tt.path, "", "not-the-token")
			assert.Equal(t, rec.Code, http.StatusUnauthorized)
			assert.Equal(t, decodeBody(t, rec)["error"], "Unauthorized Request")
		})
	}
}

func TestListBookmarks(t *testing.T) {
	t.Run("empty table returns empty array", func(t *testing.T) {
		e, _ := newTestStack(t, "test")

		rec := doRequest(e, http.MethodGet, "/api/bookmarks", "", testToken)
		assert.Equal(t, rec.Code, http.StatusOK)
		assert.Equal(t, strings.TrimSpace(rec.Body.String()), "[]")
	})

	t.Run("returns all bookmarks in storage order", func(t *testing.T) {
		e, repo := newTestStack(t, "test")
		seeded := repo.seed(t,
			repository.NewBookmark{Title: "First", URL: "http://one.com", Rating: 1},
			repository.NewBookmark{Title: "Second", URL: "http://two.com", Rating: 5, Description: "second one"},
		)

		rec := doRequest(e, http.MethodGet, "/api/bookmarks", "", testToken)
		assert.Equal(t, rec.Code, http.StatusOK)

		var got []repository.Bookmark
		assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.DeepEqual(t, got, seeded)
	})
}

func TestGetBookmark(t *testing.T) {
	t.Run("unknown id responds 404", func(t *testing.T) {
		e, _ := newTestStack(t, "test")

		rec := doRequest(e, http.MethodGet, "/api/bookmarks/42", "", testToken)
		assert.Equal(t, rec.Code, http.StatusNotFound)
		assert.Equal(t, decodeBody(t, rec)["error"], "Bookmark not found")
	})

	t.Run("round-trips a created bookmark", func(t *testing.T) {
		e, repo := newTestStack(t, "test")
		seeded := repo.seed(t, repository.NewBookmark{
			Title:       "Plain title",
			URL:         "http://plain.com",
			Rating:      4,
			Description: "plain description",
		})

		rec := doRequest(e, http.MethodGet, fmt.Sprintf("/api/bookmarks/%d", seeded[0].ID), "", testToken)
		assert.Equal(t, rec.Code, http.StatusOK)

		var got repository.Bookmark
		assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.DeepEqual(t, got, seeded[0])
	})

	t.Run("escapes title and description but not url or rating", func(t *testing.T) {
		e, repo := newTestStack(t, "test")
		seeded := repo.seed(t, repository.NewBookmark{
			Title:       `Naughty naughty very naughty <script>alert("xss");</script>`,
			URL:         "http://www.hello.com?a=1&b=2",
			Rating:      5,
			Description: `Bad image <img src="x">`,
		})

		rec := doRequest(e, http.MethodGet, fmt.Sprintf("/api/bookmarks/%d", seeded[0].ID), "", testToken)
		assert.Equal(t, rec.Code, http.StatusOK)

		body := decodeBody(t, rec)
		assert.Equal(t, body["title"], `Naughty naughty very naughty &lt;script&gt;alert(&#34;xss&#34;);&lt;/script&gt;`)
		assert.Equal(t, body["description"], `Bad image &lt;img src=&#34;x&#34;&gt;`)
		assert.Equal(t, body["url"], "http://www.hello.com?a=1&b=2")
		assert.Equal(t, body["rating"], float64(5))

		// The record itself stays verbatim in storage.
		stored, err := repo.GetByID(context.Background(), seeded[0].ID)
		assert.NilError(t, err)
		assert.Equal(t, stored.Title, seeded[0].Title)
	})
}

func TestCreateBookmark(t *testing.T) {
	t.Run("creates and returns the full record", func(t *testing.T) {
		e, _ := newTestStack(t, "test")

		rec := doRequest(e, http.MethodPost, "/api/bookmarks",
			`{"title":"T","url":"http://x.com","rating":3}`, testToken)
		assert.Equal(t, rec.Code, http.StatusCreated)

		body := decodeBody(t, rec)
		assert.Equal(t, body["title"], "T")
		assert.Equal(t, body["url"], "http://x.com")
		assert.Equal(t, body["rating"], float64(3))
		assert.Equal(t, body["description"], "")
		_, hasID := body["id"]
		assert.Assert(t, hasID)
	})

	t.Run("assigns unique ids across creates", func(t *testing.T) {
		e, _ := newTestStack(t, "test")

		seen := make(map[float64]bool)
		for i := 0; i < 5; i++ {
			rec := doRequest(e, http.MethodPost, "/api/bookmarks",
				fmt.Sprintf(`{"title":"T%d","url":"http://x.com","rating":3}`, i), testToken)
			assert.Equal(t, rec.Code, http.StatusCreated)

			id := decodeBody(t, rec)["id"].(float64)
			assert.Assert(t, !seen[id], "id %v assigned twice", id)
			seen[id] = true
		}
	})

	t.Run("rejects missing required fields", func(t *testing.T) {
		e, _ := newTestStack(t, "test")

		bodies := map[string]string{
			"missing title":  `{"url":"http://x.com","rating":3}`,
			"missing url":    `{"title":"T","rating":3}`,
			"missing rating": `{"title":"T","url":"http://x.com"}`,
		}

		for name, body := range bodies {
			t.Run(name, func(t *testing.T) {
				rec := doRequest(e, http.MethodPost, "/api/bookmarks", body, testToken)
				assert.Equal(t, rec.Code, http.StatusBadRequest)
				assert.Equal(t, decodeBody(t, rec)["error"], "POST failed")
			})
		}
	})

	t.Run("rating bounds are inclusive", func(t *testing.T) {
		e, _ := newTestStack(t, "test")

		cases := []struct {
			rating int
			status int
		}{
			{0, http.StatusBadRequest},
			{1, http.StatusCreated},
			{5, http.StatusCreated},
			{6, http.StatusBadRequest},
		}

		for _, tt := range cases {
			t.Run(fmt.Sprintf("rating %d", tt.rating), func(t *testing.T) {
				rec := doRequest(e, http.MethodPost, "/api/bookmarks",
					fmt.Sprintf(`{"title":"T","url":"http://x.com","rating":%d}`, tt.rating), testToken)
				assert.Equal(t, rec.Code, tt.status)
				if tt.status == http.StatusBadRequest {
					assert.Equal(t, decodeBody(t, rec)["error"], "POST failed")
				}
			})
		}
	})
}

func TestDeleteBookmark(t *testing.T) {
	t.Run("deletes an existing bookmark", func(t *testing.T) {
		e, repo := newTestStack(t, "test")
		seeded := repo.seed(t, repository.NewBookmark{Title: "T", URL: "http://x.com", Rating: 3})
		path := fmt.Sprintf("/api/bookmarks/%d", seeded[0].ID)

		rec := doRequest(e, http.MethodDelete, path, "", testToken)
		assert.Equal(t, rec.Code, http.StatusNoContent)
		assert.Equal(t, rec.Body.Len(), 0)

		// A subsequent GET and a second DELETE both 404.
		rec = doRequest(e, http.MethodGet, path, "", testToken)
		assert.Equal(t, rec.Code, http.StatusNotFound)
		assert.Equal(t, decodeBody(t, rec)["error"], "Bookmark not found")

		rec = doRequest(e, http.MethodDelete, path, "", testToken)
		assert.Equal(t, rec.Code, http.StatusNotFound)
		assert.Equal(t, decodeBody(t, rec)["error"], "Bookmark not found")
	})

	t.Run("unknown id responds 404", func(t *testing.T) {
		e, _ := newTestStack(t, "test")

		rec := doRequest(e, http.MethodDelete, "/api/bookmarks/42", "", testToken)
		assert.Equal(t, rec.Code, http.StatusNotFound)
		assert.Equal(t, decodeBody(t, rec)["error"], "Bookmark not found")
	})
}

func TestUpdateBookmark(t *testing.T) {
	t.Run("applies only the supplied fields", func(t *testing.T) {
		e, repo := newTestStack(t, "test")
		seeded := repo.seed(t, repository.NewBookmark{
			Title:       "Old title",
			URL:         "http://old.com",
			Rating:      2,
			Description: "old description",
		})
		path := fmt.Sprintf("/api/bookmarks/%d", seeded[0].ID)

		rec := doRequest(e, http.MethodPatch, path,
			`{"title":"New title","url":"http://new.com"}`, testToken)
		assert.Equal(t, rec.Code, http.StatusNoContent)
		assert.Equal(t, rec.Body.Len(), 0)

		stored, err := repo.GetByID(context.Background(), seeded[0].ID)
		assert.NilError(t, err)
		assert.Equal(t, stored.Title, "New title")
		assert.Equal(t, stored.URL, "http://new.com")
		assert.Equal(t, stored.Rating, 2)
		assert.Equal(t, stored.Description, "old description")
	})

	t.Run("empty update set responds 400 regardless of id existence", func(t *testing.T) {
		e, repo := newTestStack(t, "test")
		seeded := repo.seed(t, repository.NewBookmark{Title: "T", URL: "http://x.com", Rating: 3})

		paths := []string{
			fmt.Sprintf("/api/bookmarks/%d", seeded[0].ID),
			"/api/bookmarks/42",
		}

		for _, path := range paths {
			rec := doRequest(e, http.MethodPatch, path, `{"hey":"hey there"}`, testToken)
			assert.Equal(t, rec.Code, http.StatusBadRequest)
			assert.Equal(t, decodeBody(t, rec)["error"], "PATCH failed")
		}
	})

	t.Run("unknown id with a valid field responds 404", func(t *testing.T) {
		e, _ := newTestStack(t, "test")

		rec := doRequest(e, http.MethodPatch, "/api/bookmarks/42",
			`{"title":"New Title Yo!"}`, testToken)
		assert.Equal(t, rec.Code, http.StatusNotFound)
		assert.Equal(t, decodeBody(t, rec)["error"], "Bookmark not found")
	})

	t.Run("out-of-range rating responds 400", func(t *testing.T) {
		e, repo := newTestStack(t, "test")
		seeded := repo.seed(t, repository.NewBookmark{Title: "T", URL: "http://x.com", Rating: 3})

		rec := doRequest(e, http.MethodPatch, fmt.Sprintf("/api/bookmarks/%d", seeded[0].ID),
			`{"rating":44}`, testToken)
		assert.Equal(t, rec.Code, http.StatusBadRequest)
		assert.Equal(t, decodeBody(t, rec)["error"], "PATCH failed")
	})
}

func TestStoreFailuresBecome500(t *testing.T) {
	t.Run("non-production reports the underlying error", func(t *testing.T) {
		e, repo := newTestStack(t, "test")
		repo.failWith = fmt.Errorf("connection refused")

		rec := doRequest(e, http.MethodGet, "/api/bookmarks", "", testToken)
		assert.Equal(t, rec.Code, http.StatusInternalServerError)
		assert.Equal(t, decodeBody(t, rec)["error"], "Internal Server Error")
	})

	t.Run("production hides detail behind a generic message", func(t *testing.T) {
		e, repo := newTestStack(t, "production")
		repo.failWith = fmt.Errorf("connection refused")

		rec := doRequest(e, http.MethodGet, "/api/bookmarks", "", testToken)
		assert.Equal(t, rec.Code, http.StatusInternalServerError)
		assert.Equal(t, decodeBody(t, rec)["error"], "server error")
	})
}
