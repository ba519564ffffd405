// redact маскирует чувствительные значения перед записью в лог.
package redact

import "strings"

func Email(s string) string {
	parts := strings.Split(s, "@")
	if len(parts) != 2 {
		return "***"
	}

	local, domain := parts[0], parts[1]
	if len(local) > 2 {
		local = local[:2] + "***"
	} else {
		local = "***"
	}

	return local + "@" + domain
}

// Token никогда не возвращает сам токен; пустое значение остаётся пустым,
// чтобы в логах было видно, был ли токен вообще.
func Token(s string) string {
	if s == "" {
		return ""
	}

	return "[REDACTED_TOKEN]"
}

// Authorization маскирует значение заголовка Authorization, сохраняя схему.
func Authorization(h string) string {
	if h == "" {
		return ""
	}

	scheme, _, found := strings.Cut(h, " ")
	if !found {
		return Token(h)
	}

	return scheme + " " + Token("x")
}

func Password() string { return "[REDACTED_PASSWORD]" }
