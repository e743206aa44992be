package db

import (
	"database/sql"

	"github.com/hansvb/planboard/internal/errors"
)

// execOne runs a statement expected to touch exactly one row identified
// by id. Zero rows affected maps to NOT_FOUND.
func execOne(db *sql.DB, query, id string, args ...any) error {
	result, err := db.Exec(query, args...)
	if err != nil {
		return errors.NewInternal(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if affected == 0 {
		return errors.NewNotFound(id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// toNullFloat converts a *float64 to sql.NullFloat64.
func toNullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// toNullInt converts a *int to sql.NullInt64.
func toNullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}
