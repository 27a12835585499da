// Package postgres provides a PostgreSQL-backed conversation store.
package postgres
