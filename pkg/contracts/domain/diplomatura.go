package domain

import (
	"math"
	"strings"
	"time"
)

// RequiredRatio is the share of a diplomatura's classes a student must attend
// to pass.
const RequiredRatio = 0.75

// Diplomatura is a course track with a configured number of classes.
type Diplomatura struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	TotalClasses int       `json:"totalClasses"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RequiredClasses is the minimum number of attended classes needed to pass.
func (d Diplomatura) RequiredClasses() int {
	return int(math.Ceil(float64(d.TotalClasses) * RequiredRatio))
}

// DiplomaturaInput carries the editable fields of a diplomatura. The upper
// bound on TotalClasses is checked against configuration, not here.
type DiplomaturaInput struct {
	Name         string `json:"name" validate:"required"`
	TotalClasses int    `json:"totalClasses" validate:"min=1"`
}

// Trimmed returns the input with the name trimmed.
func (in DiplomaturaInput) Trimmed() DiplomaturaInput {
	in.Name = strings.TrimSpace(in.Name)
	return in
}

// DiplomaturaSummary aggregates enrollment and approval for one diplomatura.
type DiplomaturaSummary struct {
	Name            string    `json:"name"`
	TotalClasses    int       `json:"totalClasses"`
	RequiredClasses int       `json:"requiredClasses"`
	Students        int       `json:"students"`
	Approved        int       `json:"approved"`
	ApprovalRate    float64   `json:"approvalRate"`
	CreatedAt       time.Time `json:"createdAt"`
}
