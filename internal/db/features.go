package db

import (
	"database/sql"

	"github.com/hansvb/planboard/internal/errors"
	"github.com/hansvb/planboard/internal/plan"
)

// InsertFeature stores a new locally created feature.
func InsertFeature(db *sql.DB, f *plan.Feature) error {
	query := `
		INSERT INTO features (
			id, title, description, type,
			impact, confidence, ease, ice_total,
			complexity, priority, token_cost, status, progress, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		f.ID, f.Title, f.Description, string(f.Type),
		f.ICE.Impact, f.ICE.Confidence, f.ICE.Ease, f.ICE.Total,
		f.Complexity, f.Priority, f.TokenCost, string(f.Status), f.Progress, f.CreatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListFeatures returns all local features, newest first.
func ListFeatures(db *sql.DB) ([]plan.Feature, error) {
	query := `
		SELECT id, title, description, type,
			impact, confidence, ease, ice_total,
			complexity, priority, token_cost, status, progress, created_at
		FROM features
		ORDER BY created_at DESC
	`

	rows, err := db.Query(query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var features []plan.Feature
	for rows.Next() {
		var f plan.Feature
		if err := rows.Scan(
			&f.ID, &f.Title, &f.Description, &f.Type,
			&f.ICE.Impact, &f.ICE.Confidence, &f.ICE.Ease, &f.ICE.Total,
			&f.Complexity, &f.Priority, &f.TokenCost, &f.Status, &f.Progress, &f.CreatedAt,
		); err != nil {
			return nil, errors.NewInternal(err)
		}
		f.Source = plan.SourceManual
		features = append(features, f)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return features, nil
}

// GetFeature retrieves a local feature by id.
func GetFeature(db *sql.DB, id string) (*plan.Feature, error) {
	query := `
		SELECT id, title, description, type,
			impact, confidence, ease, ice_total,
			complexity, priority, token_cost, status, progress, created_at
		FROM features
		WHERE id = ?
	`

	var f plan.Feature
	err := db.QueryRow(query, id).Scan(
		&f.ID, &f.Title, &f.Description, &f.Type,
		&f.ICE.Impact, &f.ICE.Confidence, &f.ICE.Ease, &f.ICE.Total,
		&f.Complexity, &f.Priority, &f.TokenCost, &f.Status, &f.Progress, &f.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	f.Source = plan.SourceManual
	return &f, nil
}

// UpdateFeatureStatus sets the status of a local feature.
func UpdateFeatureStatus(db *sql.DB, id string, status plan.FeatureStatus) error {
	return execOne(db, "UPDATE features SET status = ? WHERE id = ?", id, string(status), id)
}

// UpdateFeatureProgress sets the completion percentage of a local feature.
func UpdateFeatureProgress(db *sql.DB, id string, progress int) error {
	return execOne(db, "UPDATE features SET progress = ? WHERE id = ?", id, progress, id)
}

// DeleteFeature removes a local feature outright.
func DeleteFeature(db *sql.DB, id string) error {
	return execOne(db, "DELETE FROM features WHERE id = ?", id, id)
}
