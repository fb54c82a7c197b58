package sanitizer

import "regexp"

type TokenSanitizer struct{}

var (
	tokenPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)((?:access_|refresh_)?token|токен)(\s*[:=]\s*["']?)([a-zA-Z0-9._-]{20,})["']?`),
		regexp.MustCompile(`(?i)(api[_-]?key|api[_-]?secret|secret[_-]?key)(\s*[:=]\s*["']?)([a-zA-Z0-9_-]{20,})["']?`),
		regexp.MustCompile(`(?i)(bearer)(\s+)([a-zA-Z0-9._-]{20,})`),
	}
	// JWT из ответа /auth/login
	jwtPattern = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]{5,}\.[a-zA-Z0-9_-]{5,}\.[a-zA-Z0-9_-]{5,}`)
)

func (s *TokenSanitizer) Sanitize(text string) string {
	for _, pattern := range tokenPatterns {
		text = pattern.ReplaceAllString(text, `${1}${2}`+filtered)
	}
	return jwtPattern.ReplaceAllString(text, filtered)
}
