// Package models defines the GORM data models for the finance tracker.
package models

import "time"

// Base contains the columns shared by all tables. Rows are removed with hard
// deletes; budget deactivation is modelled explicitly via Budget.IsActive.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
