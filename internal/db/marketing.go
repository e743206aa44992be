package db

import (
	"database/sql"

	"github.com/hansvb/planboard/internal/errors"
	"github.com/hansvb/planboard/internal/plan"
)

// InsertMarketingDay stores one row of the daily marketing KPI log.
func InsertMarketingDay(db *sql.DB, m *plan.MarketingDay) error {
	query := `
		INSERT INTO marketing_days (
			id, date, spend, revenue, orders, sessions, ctr, cpa
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		m.ID, m.Date, m.Spend, m.Revenue, m.Orders, m.Sessions, m.CTR, m.CPA,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListMarketingDays returns the local KPI log, newest date first.
func ListMarketingDays(db *sql.DB) ([]plan.MarketingDay, error) {
	query := `
		SELECT id, date, spend, revenue, orders, sessions, ctr, cpa
		FROM marketing_days
		ORDER BY date DESC, id DESC
	`

	rows, err := db.Query(query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var days []plan.MarketingDay
	for rows.Next() {
		var m plan.MarketingDay
		if err := rows.Scan(
			&m.ID, &m.Date, &m.Spend, &m.Revenue, &m.Orders, &m.Sessions, &m.CTR, &m.CPA,
		); err != nil {
			return nil, errors.NewInternal(err)
		}
		m.Source = plan.SourceManual
		days = append(days, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return days, nil
}

// DeleteMarketingDay removes one KPI row outright.
func DeleteMarketingDay(db *sql.DB, id string) error {
	return execOne(db, "DELETE FROM marketing_days WHERE id = ?", id, id)
}
