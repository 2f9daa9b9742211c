package recipe

import (
	"fmt"
	"strings"
)

// Language is the output language for generated recipes.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageFrench  Language = "fr"
	LanguageArabic  Language = "ar"
)

// DefaultLanguage is used when the caller does not pick one.
const DefaultLanguage = LanguageEnglish

var languageNames = map[Language]string{
	LanguageEnglish: "English",
	LanguageFrench:  "French",
	LanguageArabic:  "Arabic",
}

// ParseLanguage accepts a language code, case-insensitively. An empty string yields DefaultLanguage.
func ParseLanguage(s string) (Language, error) {
	code := Language(strings.ToLower(strings.TrimSpace(s)))
	if code == "" {
		return DefaultLanguage, nil
	}
	if !code.Valid() {
		return "", fmt.Errorf("unsupported language %q: must be one of en, fr, ar", s)
	}
	return code, nil
}

// Valid reports whether l is one of the supported codes.
func (l Language) Valid() bool {
	_, ok := languageNames[l]
	return ok
}

// DisplayName renders the language for the model, e.g. "French (fr)".
func (l Language) DisplayName() string {
	name, ok := languageNames[l]
	if !ok {
		return string(l)
	}
	return fmt.Sprintf("%s (%s)", name, l)
}
