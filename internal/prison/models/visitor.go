package models

import (
	"strings"
	"time"

	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
)

// VisitType classifies a prison visit.
type VisitType string

const (
	VisitFamily    VisitType = "family"
	VisitLegal     VisitType = "legal"
	VisitOfficial  VisitType = "official"
	VisitMedical   VisitType = "medical"
	VisitReligious VisitType = "religious"
)

// ParseVisitType validates a visit type string.
func ParseVisitType(s string) (VisitType, error) {
	t := VisitType(strings.TrimSpace(strings.ToLower(s)))
	switch t {
	case VisitFamily, VisitLegal, VisitOfficial, VisitMedical, VisitReligious:
		return t, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown visit type")
}

// VisitorLog records a single visit to an inmate.
type VisitorLog struct {
	ID              id.VisitorLogID `json:"id"`
	InmateID        id.InmateID     `json:"inmate_id"`
	VisitorName     string          `json:"visitor_name"`
	VisitorIDNumber string          `json:"visitor_id_number"`
	VisitorPhone    string          `json:"visitor_phone,omitempty"`
	Relationship    string          `json:"relationship,omitempty"`
	VisitType       VisitType       `json:"visit_type"`
	VisitAt         time.Time       `json:"visit_at"`
	DurationMinutes int             `json:"duration_minutes"`
	Purpose         string          `json:"purpose,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	AuthorizedBy    id.UserID       `json:"authorized_by"`
	Approved        bool            `json:"approved"`
	CreatedAt       time.Time       `json:"created_at"`
}
