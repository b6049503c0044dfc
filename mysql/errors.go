package mysql

import "errors"

var (
	// ErrDBRequired is returned when constructing a store without a database.
	ErrDBRequired = errors.New("jobs mysql: db is required")
	// ErrTableNameRequired is returned for an empty table name.
	ErrTableNameRequired = errors.New("jobs mysql: table name is required")
	// ErrInvalidTableName is returned for a table name with unsafe characters.
	ErrInvalidTableName = errors.New("jobs mysql: invalid table name")
	// ErrCleanupBeforeRequired is returned when cleanup has no cutoff.
	ErrCleanupBeforeRequired = errors.New("jobs mysql: cleanup cutoff is required")
	// ErrCleanupLimitInvalid is returned for a negative cleanup limit.
	ErrCleanupLimitInvalid = errors.New("jobs mysql: cleanup limit must not be negative")
	// ErrCleanupRetentionInvalid is returned for a non-positive retention.
	ErrCleanupRetentionInvalid = errors.New("jobs mysql: cleanup retention must be positive")
)
