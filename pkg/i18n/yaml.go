package i18n

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Catalog maps a canonical language tag to flattened message keys.
type Catalog map[string]map[string]string

// ParseYAML reads a document whose top-level keys are language codes and
// whose values are nested message maps:
//
//	pt-BR:
//	  portability:
//	    age:
//	      range: "Idade deve ser entre %{min} e %{max} anos"
//
// Nested keys are joined with dots ("portability.age.range").
func ParseYAML(data []byte) (Catalog, error) {
	var doc map[string]map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrParseYAML, err)
	}

	cat := make(Catalog, len(doc))
	for code, tree := range doc {
		tag, err := language.Parse(code)
		if err != nil {
			return nil, errors.Join(ErrInvalidLanguage, fmt.Errorf("%q: %w", code, err))
		}
		msgs := make(map[string]string)
		if err := flatten("", tree, msgs); err != nil {
			return nil, errors.Join(ErrParseYAML, err)
		}
		cat[tag.String()] = msgs
	}
	return cat, nil
}

func flatten(prefix string, tree map[string]any, out map[string]string) error {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		case string:
			out[key] = val
		case int, float64, bool:
			out[key] = fmt.Sprint(val)
		default:
			return fmt.Errorf("key %q: unsupported value of type %T", key, v)
		}
	}
	return nil
}

// LoadFS parses every .yaml/.yml file in dir and merges them. Later files
// override earlier ones key by key.
func LoadFS(ctx context.Context, fsys fs.FS, dir string) (Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, errors.Join(ErrLoadTranslations, err)
	}

	cat := make(Catalog)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(ErrLoadTranslations, err)
		}
		ext := strings.ToLower(path.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}

		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, errors.Join(ErrLoadTranslations, err)
		}
		part, err := ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		cat.merge(part)
	}

	if len(cat) == 0 {
		return nil, errors.Join(ErrLoadTranslations, ErrNoTranslations)
	}
	return cat, nil
}

func (c Catalog) merge(other Catalog) {
	for lang, msgs := range other {
		if c[lang] == nil {
			c[lang] = make(map[string]string, len(msgs))
		}
		maps.Copy(c[lang], msgs)
	}
}
