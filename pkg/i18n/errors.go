package i18n

import "errors"

var (
	ErrLoadTranslations = errors.New("failed to load translations")
	ErrParseYAML        = errors.New("failed to parse YAML translations")
	ErrInvalidLanguage  = errors.New("invalid language code")
	ErrNoTranslations   = errors.New("no translations found")
	ErrUnknownDefault   = errors.New("default language has no translations")
)
