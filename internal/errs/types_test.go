package errs_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/dunder-mifflin/bookmarks-api/internal/errs"
)

func TestHTTPErrorWireShape(t *testing.T) {
	// The serialized body must contain only the "error" key, regardless of
	// how much detail the error carries internally.
	code := "BOOKMARK_ALREADY_EXISTS"
	err := errs.NewBadRequestError("POST failed", false, &code, []errs.FieldError{
		{Field: "title", Error: "is required"},
	})

	body, marshalErr := json.Marshal(err)
	assert.NilError(t, marshalErr)
	assert.Equal(t, string(body), `{"error":"POST failed"}`)
}

func TestConstructors(t *testing.T) {
	cases := []struct {
		name       string
		err        *errs.HTTPError
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unauthorized",
			err:        errs.NewUnauthorizedError("Unauthorized Request", false),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
		},
		{
			name:       "forbidden",
			err:        errs.NewForbiddenError("nope", false),
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name:       "bad request with default code",
			err:        errs.NewBadRequestError("PATCH failed", false, nil, nil),
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "not found",
			err:        errs.NewNotFoundError("Bookmark not found", false, nil),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "internal",
			err:        errs.NewInternalServerError(),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.err.Status, tt.wantStatus)
			assert.Equal(t, tt.err.Code, tt.wantCode)
		})
	}
}

func TestIsMatchesOnType(t *testing.T) {
	err := errs.NewNotFoundError("Bookmark not found", false, nil)

	assert.Assert(t, errors.Is(err, &errs.HTTPError{}))
	assert.Assert(t, !errors.Is(errors.New("plain"), &errs.HTTPError{}))
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, errs.MakeUpperCaseWithUnderscores("Bad Request"), "BAD_REQUEST")
	assert.Equal(t, errs.MakeUpperCaseWithUnderscores("Not Found"), "NOT_FOUND")
}
