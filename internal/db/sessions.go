package db

import (
	"database/sql"

	"github.com/hansvb/planboard/internal/errors"
	"github.com/hansvb/planboard/internal/plan"
)

// InsertTokenSession stores a new logged token session.
func InsertTokenSession(db *sql.DB, s *plan.TokenSession) error {
	query := `
		INSERT INTO token_sessions (
			id, date, model, input_tokens, output_tokens, total_tokens, cost, tasks
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		s.ID, s.Date, s.Model, s.InputTokens, s.OutputTokens, s.TotalTokens, s.Cost, s.Tasks,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListTokenSessions returns all local token sessions, newest date first.
func ListTokenSessions(db *sql.DB) ([]plan.TokenSession, error) {
	query := `
		SELECT id, date, model, input_tokens, output_tokens, total_tokens, cost, tasks
		FROM token_sessions
		ORDER BY date DESC, id DESC
	`

	rows, err := db.Query(query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var sessions []plan.TokenSession
	for rows.Next() {
		var (
			s     plan.TokenSession
			tasks sql.NullString
		)
		if err := rows.Scan(
			&s.ID, &s.Date, &s.Model, &s.InputTokens, &s.OutputTokens,
			&s.TotalTokens, &s.Cost, &tasks,
		); err != nil {
			return nil, errors.NewInternal(err)
		}
		s.Tasks = tasks.String
		s.Source = plan.SourceManual
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return sessions, nil
}

// DeleteTokenSession removes a logged session outright.
func DeleteTokenSession(db *sql.DB, id string) error {
	return execOne(db, "DELETE FROM token_sessions WHERE id = ?", id, id)
}
