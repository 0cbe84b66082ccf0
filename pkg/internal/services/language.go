package services

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

var languageDetector = sync.OnceValue(func() lingua.LanguageDetector {
	return lingua.NewLanguageDetectorBuilder().
		FromAllSpokenLanguages().
		WithLowAccuracyMode().
		Build()
})

// DetectLanguage guesses the language of a written testimonial body and
// returns its ISO 639-1 code, or nil when detection is inconclusive.
func DetectLanguage(content string) *string {
	content = strings.TrimSpace(content)
	if len(content) == 0 {
		return nil
	}

	if language, ok := languageDetector().DetectLanguageOf(content); ok {
		code := strings.ToLower(language.IsoCode639_1().String())
		return &code
	}

	return nil
}
