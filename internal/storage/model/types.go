// Package model holds the persisted row types together with the SQL that
// reads and mutates them. Every counter mutation is a single atomic
// statement; callers never read-modify-write a counter across statements.
package model

// ID is a surrogate row identifier.
type ID = uint32

// Snowflake is a Discord entity ID. Stored as bigint.
type Snowflake = int64
