package validation_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gotest.tools/v3/assert"

	"github.com/dunder-mifflin/bookmarks-api/internal/errs"
	"github.com/dunder-mifflin/bookmarks-api/internal/validation"
)

var validate = validator.New()

type createPayload struct {
	Title  string `json:"title" validate:"required"`
	URL    string `json:"url" validate:"required"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
}

func (p *createPayload) Validate() error {
	return validate.Struct(p)
}

func newContext(method, body string) echo.Context {
	req := httptest.NewRequest(method, "/api/bookmarks", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func fieldErrorsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	httpErr, ok := err.(*errs.HTTPError)
	assert.Assert(t, ok, "expected *errs.HTTPError, got %T", err)
	assert.Equal(t, httpErr.Status, http.StatusBadRequest)

	out := make(map[string]string, len(httpErr.Errors))
	for _, fe := range httpErr.Errors {
		out[fe.Field] = fe.Error
	}
	return out
}

func TestBindAndValidate(t *testing.T) {
	t.Run("valid payload binds cleanly", func(t *testing.T) {
		c := newContext(http.MethodPost, `{"title":"T","url":"http://x.com","rating":3}`)

		payload := &createPayload{}
		assert.NilError(t, validation.BindAndValidate(c, payload))
		assert.Equal(t, payload.Title, "T")
		assert.Equal(t, payload.Rating, 3)
	})

	t.Run("message carries the request method", func(t *testing.T) {
		cases := []struct {
			method string
			want   string
		}{
			{http.MethodPost, "POST failed"},
			{http.MethodPatch, "PATCH failed"},
		}

		for _, tt := range cases {
			c := newContext(tt.method, `{}`)

			err := validation.BindAndValidate(c, &createPayload{})
			httpErr, ok := err.(*errs.HTTPError)
			assert.Assert(t, ok, "expected *errs.HTTPError, got %T", err)
			assert.Equal(t, httpErr.Message, tt.want)
		}
	})

	t.Run("missing required fields are detailed per field", func(t *testing.T) {
		c := newContext(http.MethodPost, `{"title":"T"}`)

		fields := fieldErrorsOf(t, validation.BindAndValidate(c, &createPayload{}))
		assert.Equal(t, fields["url"], "is required")
		assert.Equal(t, fields["rating"], "is required")
		_, hasTitle := fields["title"]
		assert.Assert(t, !hasTitle)
	})

	t.Run("numeric range failures name the bound", func(t *testing.T) {
		c := newContext(http.MethodPost, `{"title":"T","url":"http://x.com","rating":9}`)

		fields := fieldErrorsOf(t, validation.BindAndValidate(c, &createPayload{}))
		assert.Equal(t, fields["rating"], "must not exceed 5")
	})

	t.Run("malformed body is a bind failure", func(t *testing.T) {
		c := newContext(http.MethodPost, `{"title":`)

		fields := fieldErrorsOf(t, validation.BindAndValidate(c, &createPayload{}))
		_, hasBody := fields["body"]
		assert.Assert(t, hasBody)
	})
}
