// Package redis provides a Redis-backed conversation store.
package redis
