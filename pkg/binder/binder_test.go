package binder_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/portability/pkg/binder"
)

type request struct {
	Name    string   `form:"full_name" json:"full_name"`
	Age     string   `form:"age" json:"age"`
	Count   int      `form:"count" json:"count"`
	Rate    *float64 `form:"rate" json:"rate"`
	Agree   bool     `form:"agree" json:"agree"`
	Tags    []string `form:"tag" json:"-"`
	Skipped string   `form:"-" json:"-"`
	secret  string
}

func formRequest(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func jsonRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	return r
}

func TestForm(t *testing.T) {
	t.Parallel()

	t.Run("urlencoded", func(t *testing.T) {
		t.Parallel()
		var req request
		err := binder.Form()(formRequest(url.Values{
			"full_name": {"Maria"},
			"age":       {"65"},
			"count":     {"3"},
			"rate":      {"1.5"},
			"agree":     {"on"},
			"tag":       {"a", "b"},
			"Skipped":   {"x"},
		}), &req)
		require.NoError(t, err)

		assert.Equal(t, "Maria", req.Name)
		assert.Equal(t, "65", req.Age)
		assert.Equal(t, 3, req.Count)
		require.NotNil(t, req.Rate)
		assert.InDelta(t, 1.5, *req.Rate, 0)
		assert.True(t, req.Agree)
		assert.Equal(t, []string{"a", "b"}, req.Tags)
		assert.Empty(t, req.Skipped)
		assert.Empty(t, req.secret)
	})

	t.Run("multipart", func(t *testing.T) {
		t.Parallel()
		body := &bytes.Buffer{}
		mw := multipart.NewWriter(body)
		require.NoError(t, mw.WriteField("full_name", "Ana"))
		require.NoError(t, mw.Close())

		r := httptest.NewRequest(http.MethodPost, "/", body)
		r.Header.Set("Content-Type", mw.FormDataContentType())

		var req request
		require.NoError(t, binder.Form()(r, &req))
		assert.Equal(t, "Ana", req.Name)
	})

	t.Run("bad int", func(t *testing.T) {
		t.Parallel()
		var req request
		err := binder.Form()(formRequest(url.Values{"count": {"many"}}), &req)
		assert.ErrorIs(t, err, binder.ErrInvalidForm)
	})

	t.Run("wrong content type", func(t *testing.T) {
		t.Parallel()
		var req request
		assert.ErrorIs(t, binder.Form()(jsonRequest(`{}`), &req), binder.ErrUnsupportedMediaType)
	})

	t.Run("missing content type", func(t *testing.T) {
		t.Parallel()
		var req request
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		assert.ErrorIs(t, binder.Form()(r, &req), binder.ErrMissingContentType)
	})

	t.Run("non-pointer target", func(t *testing.T) {
		t.Parallel()
		err := binder.Form()(formRequest(url.Values{}), request{})
		assert.ErrorIs(t, err, binder.ErrInvalidTarget)
	})
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("strings and numbers", func(t *testing.T) {
		t.Parallel()
		var req request
		err := binder.JSON()(jsonRequest(`{"full_name":"Maria","age":65,"count":"4","rate":2.49,"agree":true}`), &req)
		require.NoError(t, err)
		assert.Equal(t, "Maria", req.Name)
		assert.Equal(t, "65", req.Age)
		assert.Equal(t, 4, req.Count)
		require.NotNil(t, req.Rate)
		assert.InDelta(t, 2.49, *req.Rate, 1e-9)
		assert.True(t, req.Agree)
	})

	t.Run("decimal text is preserved", func(t *testing.T) {
		t.Parallel()
		var req request
		require.NoError(t, binder.JSON()(jsonRequest(`{"age":65.50}`), &req))
		assert.Equal(t, "65.50", req.Age)
	})

	t.Run("null leaves zero value", func(t *testing.T) {
		t.Parallel()
		var req request
		require.NoError(t, binder.JSON()(jsonRequest(`{"full_name":null}`), &req))
		assert.Empty(t, req.Name)
	})

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"malformed", `{"full_name":`},
		{"nested", `{"full_name":{"first":"a"}}`},
		{"unknown field", `{"nickname":"x"}`},
		{"trailing data", `{} {}`},
		{"array", `[1,2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var req request
			assert.ErrorIs(t, binder.JSON()(jsonRequest(tt.body), &req), binder.ErrInvalidJSON)
		})
	}

	t.Run("too large", func(t *testing.T) {
		t.Parallel()
		var req request
		body := `{"full_name":"` + strings.Repeat("a", binder.MaxJSONSize) + `"}`
		assert.ErrorIs(t, binder.JSON()(jsonRequest(body), &req), binder.ErrInvalidJSON)
	})
}

func TestBody(t *testing.T) {
	t.Parallel()

	var fromForm, fromJSON request
	require.NoError(t, binder.Body()(formRequest(url.Values{"full_name": {"A"}}), &fromForm))
	require.NoError(t, binder.Body()(jsonRequest(`{"full_name":"B"}`), &fromJSON))
	assert.Equal(t, "A", fromForm.Name)
	assert.Equal(t, "B", fromJSON.Name)

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("x"))
	r.Header.Set("Content-Type", "text/plain")
	var req request
	assert.ErrorIs(t, binder.Body()(r, &req), binder.ErrUnsupportedMediaType)
}
