package password

import (
	"strings"
	"unicode"
)

// Policy agrupa las reglas para contraseñas nuevas.
type Policy struct {
	MinLength     int
	RequireUpper  bool
	RequireLower  bool
	RequireDigit  bool
	RequireSymbol bool

	// RejectNumeric rechaza contraseñas compuestas solo por dígitos.
	RejectNumeric bool

	// MaxSimilarity rechaza contraseñas demasiado parecidas al username
	// (0 deshabilita). Rango 0..1.
	MaxSimilarity float64

	// Blacklist de contraseñas comunes (nil deshabilita).
	Blacklist *Blacklist
}

// DefaultPolicy: mínimo 8, no solo dígitos, no común, no parecida al username.
func DefaultPolicy() Policy {
	return Policy{
		MinLength:     8,
		RejectNumeric: true,
		MaxSimilarity: 0.7,
		Blacklist:     CommonPasswords(),
	}
}

// Validate retorna las razones por las que s no cumple la política.
// username puede ser vacío.
func (p Policy) Validate(s, username string) (ok bool, reasons []string) {
	if len([]rune(s)) < p.MinLength {
		reasons = append(reasons, "too_short")
	}
	var hasU, hasL, hasD, hasS bool
	allDigits := s != ""
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasU = true
		case unicode.IsLower(r):
			hasL = true
		case unicode.IsDigit(r):
			hasD = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasS = true
		}
		if !unicode.IsDigit(r) {
			allDigits = false
		}
	}
	if p.RequireUpper && !hasU {
		reasons = append(reasons, "missing_upper")
	}
	if p.RequireLower && !hasL {
		reasons = append(reasons, "missing_lower")
	}
	if p.RequireDigit && !hasD {
		reasons = append(reasons, "missing_digit")
	}
	if p.RequireSymbol && !hasS {
		reasons = append(reasons, "missing_symbol")
	}
	if p.RejectNumeric && allDigits {
		reasons = append(reasons, "entirely_numeric")
	}
	if p.Blacklist.Contains(s) {
		reasons = append(reasons, "too_common")
	}
	if p.MaxSimilarity > 0 && username != "" && similarity(strings.ToLower(s), strings.ToLower(username)) >= p.MaxSimilarity {
		reasons = append(reasons, "too_similar_to_username")
	}
	return len(reasons) == 0, reasons
}

// similarity es el ratio 2*LCS/(len(a)+len(b)) sobre runas.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra)+len(rb) == 0 {
		return 0
	}
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			switch {
			case ra[i-1] == rb[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return 2 * float64(prev[len(rb)]) / float64(len(ra)+len(rb))
}
