// Package audit emite eventos de seguridad como logs estructurados bajo el
// logger "audit", con los campos del request (request_id, etc.) del contexto.
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/dropDatabas3/melon/internal/observability/logger"
)

type Event string

const (
	LoginSucceeded Event = "login.succeeded"
	LoginFailed    Event = "login.failed"
	AccountCreated Event = "account.created"
)

// Log escribe un evento de auditoría. Nunca pasar credenciales en fields.
func Log(ctx context.Context, ev Event, fields ...zap.Field) {
	fields = append(fields, zap.String("event", string(ev)))
	logger.From(ctx).Named("audit").Info(string(ev), fields...)
}
