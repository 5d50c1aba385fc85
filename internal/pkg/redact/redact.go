package redact

import "strings"

// Email маскирует локальную часть адреса, оставляя первые две руны и домен.
func Email(s string) string {
	parts := strings.Split(s, "@")
	if len(parts) != 2 {
		return "***"
	}

	local, domain := []rune(parts[0]), parts[1]
	if len(local) > 2 {
		return string(local[:2]) + "***@" + domain
	}

	return "***@" + domain
}

// Code маскирует одноразовый код авторизации: видны только последние 4 символа.
func Code(s string) string {
	if len(s) <= 4 {
		return "***"
	}

	return "***" + s[len(s)-4:]
}

func Token() string    { return "[REDACTED_TOKEN]" }
func Password() string { return "[REDACTED_PASSWORD]" }
