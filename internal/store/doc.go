// Package store provides durable local persistence of voice notes in a
// SQLite database, keyed by an auto-incrementing integer id.
package store
