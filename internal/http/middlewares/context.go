package middlewares

import (
	"context"

	svc "github.com/dropDatabas3/melon/internal/http/services/auth"
)

type ctxKey string

const (
	ctxAccountKey   ctxKey = "account"
	ctxRequestIDKey ctxKey = "request_id"
	ctxClientIPKey  ctxKey = "client_ip"
)

// WithAccount guarda la cuenta autenticada en el contexto.
func WithAccount(ctx context.Context, acc *svc.AccountSummary) context.Context {
	return context.WithValue(ctx, ctxAccountKey, acc)
}

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

func setClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxClientIPKey, ip)
}

func getClientIP(ctx context.Context) string {
	s, _ := ctx.Value(ctxClientIPKey).(string)
	return s
}

// GetAccount devuelve la cuenta autenticada o nil si RequireAccount no corrió.
func GetAccount(ctx context.Context) *svc.AccountSummary {
	acc, _ := ctx.Value(ctxAccountKey).(*svc.AccountSummary)
	return acc
}

// GetRequestID devuelve el request ID o "".
func GetRequestID(ctx context.Context) string {
	s, _ := ctx.Value(ctxRequestIDKey).(string)
	return s
}
