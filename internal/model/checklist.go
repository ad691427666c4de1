package model

import (
	"context"
	"time"
)

// ChecklistType identifies one of the daily shop checklists.
type ChecklistType string

const (
	ChecklistOpening ChecklistType = "opening"
	ChecklistEvening ChecklistType = "evening"
	ChecklistNight   ChecklistType = "night"
)

// ChecklistTypes lists every checklist type.
var ChecklistTypes = []ChecklistType{ChecklistOpening, ChecklistEvening, ChecklistNight}

// Valid reports whether t is a known checklist type.
func (t ChecklistType) Valid() bool {
	for _, known := range ChecklistTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ChecklistStore remembers when each checklist was last confirmed.
type ChecklistStore interface {
	LastShown(ctx context.Context, checklist ChecklistType) (time.Time, bool, error)
	SaveLastShown(ctx context.Context, checklist ChecklistType, at time.Time) error
}
