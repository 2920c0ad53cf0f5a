package logger

import (
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/melon/internal/util"
)

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP
// =================================================================================

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path crea un campo para el path del request.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// Duration crea un campo para la duración del request.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// DurationMs crea un campo para la duración en milisegundos.
func DurationMs(v int64) zap.Field {
	return zap.Int64("duration_ms", v)
}

// Bytes crea un campo para los bytes de respuesta.
func Bytes(v int) zap.Field {
	return zap.Int("bytes", v)
}

// ClientIP crea un campo para la IP del cliente.
func ClientIP(v string) zap.Field {
	return zap.String("client_ip", v)
}

// UserAgent crea un campo para el User-Agent.
func UserAgent(v string) zap.Field {
	return zap.String("user_agent", v)
}

// Route crea un campo para el patrón de ruta (ej: /auth/token).
func Route(v string) zap.Field {
	return zap.String("route", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - NEGOCIO
// =================================================================================

// AccountID crea un campo para el ID de la cuenta local.
func AccountID(v string) zap.Field {
	return zap.String("account_id", v)
}

// Username crea un campo para el username de la cuenta.
func Username(v string) zap.Field {
	return zap.String("username", v)
}

// Provider crea un campo para el identity provider externo.
func Provider(v string) zap.Field {
	return zap.String("provider", v)
}

// ExternalID crea un campo para el ID del usuario en el provider.
func ExternalID(v string) zap.Field {
	return zap.String("external_id", v)
}

// TokenPrefix crea un campo con el prefijo del bearer token. Nunca loguear el token completo.
func TokenPrefix(v string) zap.Field {
	return zap.String("token_prefix", v)
}

// LoginMethod crea un campo para el método de login (password, external).
// No usar "method": choca con el método HTTP del logger del request.
func LoginMethod(v string) zap.Field {
	return zap.String("login_method", v)
}

// Outcome crea un campo para el resultado de un login.
func Outcome(v string) zap.Field {
	return zap.String("outcome", v)
}

// Email crea un campo con el email enmascarado.
func Email(v string) zap.Field {
	return zap.String("email", util.MaskEmail(v))
}

// =================================================================================
// CAMPOS ESTÁNDAR - SISTEMA
// =================================================================================

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op crea un campo para la operación actual.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Layer crea un campo para la capa (handler, service, repository).
func Layer(v string) zap.Field {
	return zap.String("layer", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// =================================================================================
// CAMPOS ESTÁNDAR - DATOS
// =================================================================================

// Count crea un campo para un conteo.
func Count(v int) zap.Field {
	return zap.Int("count", v)
}

// Any crea un campo genérico para cualquier tipo.
func Any(key string, v any) zap.Field {
	return zap.Any(key, v)
}

// String crea un campo string genérico.
func String(key, v string) zap.Field {
	return zap.String(key, v)
}

// Int crea un campo int genérico.
func Int(key string, v int) zap.Field {
	return zap.Int(key, v)
}

// Bool crea un campo bool genérico.
func Bool(key string, v bool) zap.Field {
	return zap.Bool(key, v)
}
