// Package repository define las interfaces de repositorio de dominio.
//
// Estas interfaces representan contratos de negocio, independientes del
// almacenamiento subyacente (PostgreSQL, SQLite).
//
// Las implementaciones concretas viven en internal/store/adapters/.
//
// Arquitectura:
//
//	┌──────────────────────────────────────────────────────────┐
//	│              Services / Controllers                      │
//	└──────────────────────────────────────────────────────────┘
//	                          │
//	                          ▼
//	┌──────────────────────────────────────────────────────────┐
//	│            domain/repository (interfaces)                │
//	│ AccountRepository, IdentityRepository, TokenRepository   │
//	└──────────────────────────────────────────────────────────┘
//	                          │
//	               ┌──────────┴──────────┐
//	               ▼                     ▼
//	       ┌─────────────┐       ┌─────────────┐
//	       │  adapters/  │       │  adapters/  │
//	       │     pg      │       │   sqlite    │
//	       └─────────────┘       └─────────────┘
//
// Convenciones:
//   - Context siempre es el primer parámetro
//   - Los inserts que chocan con una restricción de unicidad devuelven ErrConflict
//   - Errores de dominio están en errors.go
package repository
