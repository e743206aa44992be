package db

import (
	"database/sql"

	"github.com/hansvb/planboard/internal/errors"
	"github.com/hansvb/planboard/internal/plan"
)

// InsertExperiment stores a new locally created experiment.
func InsertExperiment(db *sql.DB, e *plan.Experiment) error {
	var lift *float64
	if e.Results != nil {
		lift = &e.Results.Lift
	}

	query := `
		INSERT INTO experiments (
			id, title, hypothesis, type,
			impact, confidence, ease, ice_total,
			token_cost, status, duration_days, lift, sample_size, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		e.ID, e.Title, e.Hypothesis, string(e.Type),
		e.ICE.Impact, e.ICE.Confidence, e.ICE.Ease, e.ICE.Total,
		e.TokenCost, string(e.Status), e.DurationDays,
		toNullFloat(lift), toNullInt(e.SampleSize), e.CreatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListExperiments returns all local experiments, newest first.
func ListExperiments(db *sql.DB) ([]plan.Experiment, error) {
	query := `
		SELECT id, title, hypothesis, type,
			impact, confidence, ease, ice_total,
			token_cost, status, duration_days, lift, sample_size, created_at
		FROM experiments
		ORDER BY created_at DESC
	`

	rows, err := db.Query(query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var experiments []plan.Experiment
	for rows.Next() {
		e, err := scanExperiment(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		experiments = append(experiments, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return experiments, nil
}

// GetExperiment retrieves a local experiment by id.
func GetExperiment(db *sql.DB, id string) (*plan.Experiment, error) {
	query := `
		SELECT id, title, hypothesis, type,
			impact, confidence, ease, ice_total,
			token_cost, status, duration_days, lift, sample_size, created_at
		FROM experiments
		WHERE id = ?
	`

	row := db.QueryRow(query, id)
	e, err := scanExperiment(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return e, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanExperiment(row scanner) (*plan.Experiment, error) {
	var (
		e          plan.Experiment
		lift       sql.NullFloat64
		sampleSize sql.NullInt64
	)

	err := row.Scan(
		&e.ID, &e.Title, &e.Hypothesis, &e.Type,
		&e.ICE.Impact, &e.ICE.Confidence, &e.ICE.Ease, &e.ICE.Total,
		&e.TokenCost, &e.Status, &e.DurationDays, &lift, &sampleSize, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lift.Valid {
		e.Results = &plan.ExperimentResults{Lift: lift.Float64}
	}
	if sampleSize.Valid {
		n := int(sampleSize.Int64)
		e.SampleSize = &n
	}
	e.Source = plan.SourceManual
	return &e, nil
}

// UpdateExperimentStatus sets the status of a local experiment.
func UpdateExperimentStatus(db *sql.DB, id string, status plan.ExperimentStatus) error {
	return execOne(db, "UPDATE experiments SET status = ? WHERE id = ?", id, string(status), id)
}

// RecordExperimentResult stores the measured lift and optional sample
// size, and marks the experiment completed.
func RecordExperimentResult(db *sql.DB, id string, lift float64, sampleSize *int) error {
	return execOne(db,
		"UPDATE experiments SET lift = ?, sample_size = ?, status = ? WHERE id = ?",
		id, lift, toNullInt(sampleSize), string(plan.ExperimentStatusCompleted), id)
}

// DeleteExperiment removes a local experiment outright.
func DeleteExperiment(db *sql.DB, id string) error {
	return execOne(db, "DELETE FROM experiments WHERE id = ?", id, id)
}
