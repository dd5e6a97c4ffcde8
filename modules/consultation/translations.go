package consultation

import (
	"context"
	"embed"

	"github.com/dmitrymomot/portability/pkg/i18n"
)

//go:embed translations/*.yaml
var translationsFS embed.FS

// NewTranslator loads the embedded pt-BR and en messages.
func NewTranslator(ctx context.Context, defaultLang string) (*i18n.Translator, error) {
	cat, err := i18n.LoadFS(ctx, translationsFS, "translations")
	if err != nil {
		return nil, err
	}
	return i18n.NewTranslator(cat, defaultLang)
}
