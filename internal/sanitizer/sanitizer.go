// Package sanitizer маскирует учетные данные в логах и сохраненной истории.
package sanitizer

import (
	"strings"
)

const filtered = "[FILTERED]"

type DataSanitizer struct {
	rules []SanitizerRule
}

type SanitizerRule interface {
	Sanitize(text string) string
}

func New() *DataSanitizer {
	return &DataSanitizer{
		rules: []SanitizerRule{
			&PasswordSanitizer{},
			&TokenSanitizer{},
			&CookieSanitizer{},
			&EmailSanitizer{},
		},
	}
}

func (s *DataSanitizer) Sanitize(text string) string {
	if text == "" {
		return text
	}

	result := text
	for _, rule := range s.rules {
		result = rule.Sanitize(result)
	}

	return result
}

// sensitiveFields - признаки полей, значение которых не выводится вообще.
var sensitiveFields = []string{
	"password", "senha", "confirmpassword", "token", "secret",
}

// SanitizeValue маскирует значение, введенное в поле field (строка локатора).
// Для парольных полей значение скрывается целиком.
func (s *DataSanitizer) SanitizeValue(field, value string) string {
	if value == "" {
		return value
	}

	lower := strings.ToLower(field)
	for _, keyword := range sensitiveFields {
		if strings.Contains(lower, keyword) {
			return filtered
		}
	}

	return s.Sanitize(value)
}

var defaultSanitizer = New()

// Sanitize применяет стандартный набор правил.
func Sanitize(text string) string {
	return defaultSanitizer.Sanitize(text)
}

func SanitizeValue(field, value string) string {
	return defaultSanitizer.SanitizeValue(field, value)
}
