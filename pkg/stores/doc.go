// Package stores records installation history for fixstrap. It provides
// SQLite-based storage with WAL mode and embedded migrations, holding one
// row per installation run and one row per package install outcome.
// History is ancillary: a store failure never aborts an installation.
package stores
