package binder

import (
	"fmt"
	"mime"
	"net/http"
	"strings"
)

const (
	mimeForm      = "application/x-www-form-urlencoded"
	mimeMultipart = "multipart/form-data"
	mimeJSON      = "application/json"
)

// Body picks Form or JSON from the request Content-Type.
func Body() func(r *http.Request, v any) error {
	form, js := Form(), JSON()
	return func(r *http.Request, v any) error {
		mt, err := mediaType(r)
		if err != nil {
			return err
		}
		switch {
		case mt == mimeJSON || strings.HasSuffix(mt, "+json"):
			return js(r, v)
		case mt == mimeForm || mt == mimeMultipart:
			return form(r, v)
		}
		return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mt)
	}
}

func mediaType(r *http.Request) (string, error) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return "", ErrMissingContentType
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMediaType, ct)
	}
	return strings.ToLower(mt), nil
}
