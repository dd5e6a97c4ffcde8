package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxJSONSize bounds JSON request bodies.
const MaxJSONSize = 1 << 20

// JSON binds a flat JSON object using `json:"name"` struct tags. Scalar
// values are bound through their text form, so {"age": 65} and
// {"age": "65"} both fill a string or int field. Nested objects and
// unknown keys are rejected.
func JSON() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		mt, err := mediaType(r)
		if err != nil {
			return err
		}
		if mt != mimeJSON {
			return fmt.Errorf("%w: got %s, expected %s", ErrUnsupportedMediaType, mt, mimeJSON)
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, MaxJSONSize+1))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		if len(body) > MaxJSONSize {
			return fmt.Errorf("%w: body larger than %d bytes", ErrInvalidJSON, MaxJSONSize)
		}

		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()

		var raw map[string]any
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: empty body", ErrInvalidJSON)
			}
			return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		if dec.More() {
			return fmt.Errorf("%w: unexpected data after JSON object", ErrInvalidJSON)
		}

		values := make(map[string][]string, len(raw))
		for k, val := range raw {
			switch x := val.(type) {
			case nil:
			case string:
				values[k] = []string{x}
			case json.Number:
				values[k] = []string{x.String()}
			case bool:
				values[k] = []string{fmt.Sprint(x)}
			default:
				return fmt.Errorf("%w: field %q must be a scalar", ErrInvalidJSON, k)
			}
		}

		if unknown := unknownKeys(v, "json", values); len(unknown) > 0 {
			return fmt.Errorf("%w: unknown field %q", ErrInvalidJSON, unknown[0])
		}
		return bindToStruct(v, "json", values, ErrInvalidJSON)
	}
}
