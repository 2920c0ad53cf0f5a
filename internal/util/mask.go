// Package util helpers chicos sin dependencias.
package util

import "strings"

// MaskEmail deja la primera letra del usuario y del dominio:
// "alice@example.com" -> "a…@e….com". Valores sin "@" se tratan como opacos.
func MaskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	user, dom, ok := strings.Cut(s, "@")
	if !ok || user == "" {
		return maskOpaque(s)
	}
	if len(user) > 1 {
		user = user[:1] + "…"
	}
	labels := strings.Split(dom, ".")
	if len(labels[0]) > 1 {
		labels[0] = labels[0][:1] + "…"
	}
	return user + "@" + strings.Join(labels, ".")
}

func maskOpaque(s string) string {
	if len(s) <= 3 {
		return "***"
	}
	return s[:1] + "…" + s[len(s)-1:]
}
