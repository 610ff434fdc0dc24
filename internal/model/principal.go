package model

import "github.com/google/uuid"

type Principal struct {
	UserID         uuid.UUID
	TechnicianName string
	Role           string
}

func (p Principal) IsTechnician() bool {
	return p.Role == "TECHNICIAN"
}

func (p Principal) IsBackOffice() bool {
	return p.Role == "BACK_OFFICE"
}

// CanAccessTechnician reports whether the principal may read or generate
// documents for the given technician's reports.
func (p Principal) CanAccessTechnician(name string) bool {
	if p.IsBackOffice() {
		return true
	}
	return p.TechnicianName == name
}
