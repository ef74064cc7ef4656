// Package domain contains the core data types for the Heritage Quest backend.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (geo, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Site categories as seeded in the heritage_sites catalog.
// Stored as plain strings; the catalog is read-only to this service.
const (
	CategoryTemple  = "temple"
	CategoryPalace  = "palace"
	CategoryRuins   = "ruins"
	CategoryNatural = "natural"
	CategoryOther   = "other"
)

// HeritageSite is a single entry in the heritage-site catalog.
// The catalog is seeded by migrations and never mutated by this service.
type HeritageSite struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	ShortDescription  string    `json:"short_description,omitempty"`
	Category          string    `json:"category"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	XPReward          int       `json:"xp_reward"`
	Difficulty        string    `json:"difficulty"` // easy | medium | hard
	EstimatedDuration string    `json:"estimated_duration,omitempty"`
	BestTimeToVisit   string    `json:"best_time_to_visit,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
