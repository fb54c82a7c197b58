package sanitizer

import "regexp"

type PasswordSanitizer struct{}

var passwordPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(password|senha|пароль)\s*[:=]\s*["']?([^"'\s,}]{3,})["']?`),
	regexp.MustCompile(`(?i)(passwd|pwd)\s*[:=]\s*["']?([^"'\s,}]{3,})["']?`),
	regexp.MustCompile(`(?i)("(?:password|confirmPassword)"\s*:\s*)"[^"]*"`),
}

func (s *PasswordSanitizer) Sanitize(text string) string {
	text = passwordPatterns[0].ReplaceAllString(text, `${1}: `+filtered)
	text = passwordPatterns[1].ReplaceAllString(text, `${1}: `+filtered)
	// JSON-тело запроса регистрации
	return passwordPatterns[2].ReplaceAllString(text, `${1}"`+filtered+`"`)
}
