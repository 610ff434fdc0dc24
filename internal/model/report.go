package model

import (
	"time"

	"github.com/google/uuid"
)

type WorkType string

const (
	WorkTypeOrdinary      WorkType = "ordinary"
	WorkTypeOnCall        WorkType = "on_call"
	WorkTypeExtraordinary WorkType = "extraordinary"
)

func (w WorkType) Valid() bool {
	switch w {
	case WorkTypeOrdinary, WorkTypeOnCall, WorkTypeExtraordinary:
		return true
	}
	return false
}

// Report is one logged intervention. It is immutable once stored: a report
// is either present or deleted, never edited in place.
type Report struct {
	ID                uuid.UUID
	TechnicianName    string
	Location          string
	Description       string
	Date              string // YYYY-MM-DD, no time-of-day
	WorkType          WorkType
	InterventionHours float64
	TravelHours       float64 // meaningful only for on_call, zero otherwise
	Photos            [][]byte `gorm:"-"`
	CreatedAt         time.Time
}
