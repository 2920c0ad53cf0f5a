package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dropDatabas3/melon/internal/observability/logger"
)

func auditEvents(logs *observer.ObservedLogs) []string {
	var out []string
	for _, e := range logs.FilterLoggerName("audit").All() {
		out = append(out, e.Message)
	}
	return out
}

func TestAuditTrail(t *testing.T) {
	conn := openStore(t)
	s := newTestService(t, conn, facebookFake())
	seedAccount(t, conn, "alice", "correct-horse")

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := logger.ToContext(context.Background(), zap.New(core))

	_, err := s.LoginWithPassword(ctx, "alice", "wrong")
	require.Error(t, err)
	_, err = s.LoginWithPassword(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	_, err = s.LoginWithExternalToken(ctx, "facebook", "good")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"login.failed",
		"login.succeeded",
		"account.created",
		"login.succeeded",
	}, auditEvents(logs))

	audits := logs.FilterLoggerName("audit").All()
	require.Len(t, audits, 4)
	assert.Equal(t, "password", audits[0].ContextMap()["login_method"])
	assert.Equal(t, "external", audits[3].ContextMap()["login_method"])
	for _, e := range audits {
		_, clash := e.ContextMap()["method"]
		assert.False(t, clash, "audit field collides with the HTTP method")
	}

	// ninguna entrada lleva la contraseña
	for _, e := range logs.All() {
		for _, v := range e.ContextMap() {
			assert.NotEqual(t, "correct-horse", v)
		}
	}
}
