package binder

import (
	"fmt"
	"net/http"
)

// MaxMemory bounds multipart form parsing held in memory.
const MaxMemory = 1 << 20

// Form binds application/x-www-form-urlencoded and multipart/form-data
// bodies using `form:"name"` struct tags. Fields without a value keep their
// zero value.
func Form() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		mt, err := mediaType(r)
		if err != nil {
			return err
		}

		var values map[string][]string
		switch mt {
		case mimeForm:
			if err := r.ParseForm(); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidForm, err)
			}
			values = r.PostForm
		case mimeMultipart:
			if err := r.ParseMultipartForm(MaxMemory); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidForm, err)
			}
			values = r.MultipartForm.Value
		default:
			return fmt.Errorf("%w: got %s, expected %s or %s", ErrUnsupportedMediaType, mt, mimeForm, mimeMultipart)
		}

		return bindToStruct(v, "form", values, ErrInvalidForm)
	}
}
