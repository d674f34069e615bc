package database

import (
	"fmt"
	"log"

	"github.com/privatecounsel/leadsite/structs"
)

// The archive table mirrors the daily lead log for operators who want
// SQL over their leads. The log file stays the system of record; rows
// here are best effort.

// InitLeadsTable creates the leads archive table
func (db *DBConnection) InitLeadsTable() error {
	if !db.Connected {
		return nil
	}

	schema := `CREATE TABLE IF NOT EXISTS leads (
		id VARCHAR(8) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(64),
		plan_id VARCHAR(32) NOT NULL,
		plan_name VARCHAR(255) NOT NULL,
		amount INT NOT NULL DEFAULT 0,
		currency VARCHAR(10) NOT NULL DEFAULT 'USD',
		focus VARCHAR(255),
		referrer VARCHAR(255),
		client_ip VARCHAR(64),
		contacted TINYINT(1) DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_email (email),
		INDEX idx_plan_id (plan_id),
		INDEX idx_created_at (created_at)
	)`

	_, err := db.Database.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create leads table: %v", err)
	}

	log.Println("Leads table initialized successfully")
	return nil
}

// InsertLead archives an accepted submission
func (db *DBConnection) InsertLead(sub structs.Submission) error {
	query := `
		INSERT INTO leads (id, name, email, phone, plan_id, plan_name, amount, currency, focus, referrer, client_ip, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Database.Exec(query,
		sub.ID,
		sub.Name,
		sub.Email,
		sub.Phone,
		sub.PlanID,
		sub.PlanName,
		sub.Amount,
		sub.Currency,
		sub.Focus,
		sub.Referrer,
		sub.ClientIP,
		sub.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert lead: %v", err)
	}

	return nil
}

// GetLead retrieves a single archived lead by its submission id
func (db *DBConnection) GetLead(id string) (*structs.Submission, error) {
	query := `
		SELECT id, name, email, phone, plan_id, plan_name, amount, currency, focus, referrer, client_ip, created_at
		FROM leads
		WHERE id = ?
	`

	var sub structs.Submission
	err := db.Database.QueryRow(query, id).Scan(
		&sub.ID,
		&sub.Name,
		&sub.Email,
		&sub.Phone,
		&sub.PlanID,
		&sub.PlanName,
		&sub.Amount,
		&sub.Currency,
		&sub.Focus,
		&sub.Referrer,
		&sub.ClientIP,
		&sub.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	return &sub, nil
}

// ListLeads returns the most recent archived leads
func (db *DBConnection) ListLeads(limit int) ([]structs.Submission, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, name, email, phone, plan_id, plan_name, amount, currency, focus, referrer, client_ip, created_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := db.Database.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []structs.Submission
	for rows.Next() {
		var sub structs.Submission
		err := rows.Scan(
			&sub.ID,
			&sub.Name,
			&sub.Email,
			&sub.Phone,
			&sub.PlanID,
			&sub.PlanName,
			&sub.Amount,
			&sub.Currency,
			&sub.Focus,
			&sub.Referrer,
			&sub.ClientIP,
			&sub.Timestamp,
		)
		if err != nil {
			return nil, err
		}
		leads = append(leads, sub)
	}

	return leads, rows.Err()
}

// MarkContacted flags an archived lead as followed up
func (db *DBConnection) MarkContacted(id string) error {
	query := `UPDATE leads SET contacted = 1 WHERE id = ?`
	_, err := db.Database.Exec(query, id)
	return err
}
