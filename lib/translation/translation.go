// Package translation renders notification texts in the configured
// language. Message ids are the English texts, so a missing catalog or
// entry falls back to English.
package translation

import (
	"strings"

	"github.com/leonelquinteros/gotext"
)

const (
	DefaultLanguage = "en"
	domain          = "default"
)

// Configure loads the catalog for lang from localesDir, laid out as
// <lang>/LC_MESSAGES/default.po, and returns the language in effect.
func Configure(localesDir, lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" || lang == "und" {
		lang = DefaultLanguage
	}
	gotext.Configure(localesDir, lang, domain)
	return GetLanguage()
}

func GetLanguage() string {
	lang := gotext.GetLanguage()

	if lang == "und" || lang == "" {
		return DefaultLanguage
	}

	return lang
}

// Translate returns the translation of msgID with vars applied in Printf
// style.
func Translate(msgID string, vars ...interface{}) string {
	return gotext.Get(msgID, vars...)
}
