// Package logger provides a singleton Zap logger with context-based scoping.
//
// # Design Decisions
//
//   - Singleton: Una sola instancia global inicializada con Init().
//   - Context Scoping: Cada request tiene su propio logger "scoped" con
//     request_id, method y path, inyectado por middlewares.WithLogging.
//   - Environments: "dev" usa consola con colores, "prod" usa JSON.
//   - Secretos: contraseñas, access tokens externos y bearer tokens nunca
//     se loguean; para tokens usar TokenPrefix.
//
// # Usage
//
// Inicialización (una vez en cmd/melon):
//
//	logger.Init(logger.Config{Env: cfg.Log.Env, Level: cfg.Log.Level})
//	defer logger.Sync()
//
// En controllers/services (con contexto):
//
//	log := logger.From(ctx)
//	log.Info("account resolved", logger.AccountID(acc.ID), logger.Provider("facebook"))
//
// Sin contexto (fallback a singleton):
//
//	logger.L().Info("application started")
package logger
