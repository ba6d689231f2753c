// package translator localizes user-facing messages with go-i18n. Message
// files are embedded from locales/ and English is the fallback language
package translator

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

const (
	LanguageEn = "en"
	LanguageFr = "fr"
)

//go:embed locales/*.toml
var locales embed.FS

// fallback renders default messages when no Translator is configured
var fallback = i18n.NewBundle(language.English)

// Translator wraps a message bundle
type Translator struct {
	bundle *i18n.Bundle
}

// New builds a Translator from the embedded message files
func New() (*Translator, error) {
	return NewFromFS(locales, "locales")
}

// NewFromFS loads every message file in dir. The language of each file is
// taken from its name, e.g. fr.toml
func NewFromFS(fsys fs.FS, dir string) (*Translator, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("list translation folder %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(fsys, path.Join(dir, entry.Name())); err != nil {
			return nil, fmt.Errorf("load translation file %s: %w", entry.Name(), err)
		}
	}

	return &Translator{bundle: bundle}, nil
}

// LanguageTags returns the languages with loaded messages
func (t *Translator) LanguageTags() []language.Tag {
	if t == nil {
		return fallback.LanguageTags()
	}
	return t.bundle.LanguageTags()
}

// Match picks the loaded language that best serves an Accept-Language
// value, falling back to English
func (t *Translator) Match(accept string) string {
	supported := append([]language.Tag{language.English}, t.LanguageTags()...)
	desired, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(desired) == 0 {
		return LanguageEn
	}
	_, index, _ := language.NewMatcher(supported).Match(desired...)
	base, _ := supported[index].Base()
	return base.String()
}

// Localize renders msg in lang. lang may be a raw Accept-Language value.
// Missing translations fall back to English and then to msg.Other
func (t *Translator) Localize(lang string, msg *i18n.Message, data map[string]any) string {
	bundle := fallback
	if t != nil {
		bundle = t.bundle
	}

	out, err := i18n.NewLocalizer(bundle, lang, LanguageEn).Localize(&i18n.LocalizeConfig{
		DefaultMessage: msg,
		TemplateData:   data,
	})
	if err != nil {
		zap.L().Debug("translation not found", zap.String("lang", lang), zap.String("message_id", msg.ID), zap.Error(err))
	}
	if out == "" {
		return msg.Other
	}
	return out
}

type languageKey struct{}

// WithLanguage stores the requested language in ctx
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, languageKey{}, lang)
}

// LanguageFromContext returns the language stored in ctx, or English
func LanguageFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(languageKey{}).(string); ok && lang != "" {
		return lang
	}
	return LanguageEn
}
