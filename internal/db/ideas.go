package db

import (
	"database/sql"

	"github.com/hansvb/planboard/internal/errors"
	"github.com/hansvb/planboard/internal/plan"
)

// InsertIdea stores a new locally created idea.
func InsertIdea(db *sql.DB, i *plan.Idea) error {
	query := `
		INSERT INTO ideas (
			id, title, description, category,
			impact, confidence, ease, ice_total,
			token_cost, status, promoted, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		i.ID, i.Title, i.Description, string(i.Category),
		i.ICE.Impact, i.ICE.Confidence, i.ICE.Ease, i.ICE.Total,
		i.TokenCost, string(i.Status), boolToInt(i.Promoted), i.CreatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListIdeas returns all local ideas, newest first. Everything the board
// holds fits in memory; sorting and filtering happen in the pipeline.
func ListIdeas(db *sql.DB) ([]plan.Idea, error) {
	query := `
		SELECT id, title, description, category,
			impact, confidence, ease, ice_total,
			token_cost, status, promoted, created_at
		FROM ideas
		ORDER BY created_at DESC
	`

	rows, err := db.Query(query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var ideas []plan.Idea
	for rows.Next() {
		var (
			i        plan.Idea
			promoted int
		)
		if err := rows.Scan(
			&i.ID, &i.Title, &i.Description, &i.Category,
			&i.ICE.Impact, &i.ICE.Confidence, &i.ICE.Ease, &i.ICE.Total,
			&i.TokenCost, &i.Status, &promoted, &i.CreatedAt,
		); err != nil {
			return nil, errors.NewInternal(err)
		}
		i.Promoted = promoted != 0
		i.Source = plan.SourceManual
		ideas = append(ideas, i)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return ideas, nil
}

// GetIdea retrieves a local idea by id.
func GetIdea(db *sql.DB, id string) (*plan.Idea, error) {
	query := `
		SELECT id, title, description, category,
			impact, confidence, ease, ice_total,
			token_cost, status, promoted, created_at
		FROM ideas
		WHERE id = ?
	`

	var (
		i        plan.Idea
		promoted int
	)
	err := db.QueryRow(query, id).Scan(
		&i.ID, &i.Title, &i.Description, &i.Category,
		&i.ICE.Impact, &i.ICE.Confidence, &i.ICE.Ease, &i.ICE.Total,
		&i.TokenCost, &i.Status, &promoted, &i.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	i.Promoted = promoted != 0
	i.Source = plan.SourceManual
	return &i, nil
}

// UpdateIdeaStatus sets the status of a local idea. Status is the only
// mutable scored field; scores are fixed at creation.
func UpdateIdeaStatus(db *sql.DB, id string, status plan.IdeaStatus) error {
	return execOne(db, "UPDATE ideas SET status = ? WHERE id = ?", id, string(status), id)
}

// SetIdeaPromoted toggles the informal promoted-to-experiment flag.
func SetIdeaPromoted(db *sql.DB, id string, promoted bool) error {
	return execOne(db, "UPDATE ideas SET promoted = ? WHERE id = ?", id, boolToInt(promoted), id)
}

// DeleteIdea removes a local idea outright.
func DeleteIdea(db *sql.DB, id string) error {
	return execOne(db, "DELETE FROM ideas WHERE id = ?", id, id)
}
