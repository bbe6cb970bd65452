// internal/database/constraints.go
package database

import (
	"errors"
	"strings"

	"github.com/lib/pq"

	"github.com/javajoker/favorites-api/internal/models"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	sqliteUniqueMsg       = "UNIQUE constraint failed: "
	sqliteForeignKeyMsg   = "FOREIGN KEY constraint failed"
)

// SQLite reports the violated columns rather than the index name.
var sqliteUniqueColumns = map[string]string{
	"clients.email":                             models.ClientEmailIndex,
	"favorites.client_id, favorites.product_id": models.FavoriteClientProductIdx,
}

// UniqueViolation reports whether err is a unique constraint violation and,
// if so, the name of the violated index. The name is empty when the store
// does not say which constraint failed.
func UniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code != pqUniqueViolation {
			return "", false
		}
		return pqErr.Constraint, true
	}

	msg := err.Error()
	idx := strings.Index(msg, sqliteUniqueMsg)
	if idx < 0 {
		return "", false
	}
	columns := msg[idx+len(sqliteUniqueMsg):]
	if end := strings.Index(columns, " ("); end >= 0 {
		columns = columns[:end]
	}
	columns = strings.TrimSpace(columns)
	if name, ok := sqliteUniqueColumns[columns]; ok {
		return name, true
	}
	return columns, true
}

// ForeignKeyViolation reports whether err is a write referencing a row that
// no longer exists.
func ForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqForeignKeyViolation
	}
	return strings.Contains(err.Error(), sqliteForeignKeyMsg)
}
