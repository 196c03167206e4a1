package service

import (
	"time"

	"github.com/noah-isme/smart-campus-api/internal/models"
	appErrors "github.com/noah-isme/smart-campus-api/pkg/errors"
)

// SlotWindow is the working-hours window scanned for free time.
type SlotWindow struct {
	Start models.TimeOfDay
	End   models.TimeOfDay
	Step  time.Duration
}

// NewSlotWindow parses "HH:MM" bounds and a step in minutes.
func NewSlotWindow(start, end string, stepMinutes int) (SlotWindow, error) {
	from, err := models.ParseTimeOfDay(start)
	if err != nil {
		return SlotWindow{}, appErrors.Validation("invalid window start: " + start)
	}
	to, err := models.ParseTimeOfDay(end)
	if err != nil {
		return SlotWindow{}, appErrors.Validation("invalid window end: " + end)
	}
	if to < from {
		return SlotWindow{}, appErrors.Validation("window end precedes window start")
	}
	if stepMinutes <= 0 {
		return SlotWindow{}, appErrors.Validation("slot granularity must be positive")
	}
	return SlotWindow{Start: from, End: to, Step: time.Duration(stepMinutes) * time.Minute}, nil
}

// FreeSlots returns the window's candidate points, start and end inclusive,
// that fall outside every occurrence. Occurrences are closed intervals, so a
// point equal to a class end is still occupied.
func FreeSlots(occurrences []models.ClassOccurrence, window SlotWindow) []models.TimeOfDay {
	slots := []models.TimeOfDay{}
	if window.Step <= 0 {
		return slots
	}
	for candidate := window.Start; candidate <= window.End; candidate = candidate.Add(window.Step) {
		if !occupied(candidate, occurrences) {
			slots = append(slots, candidate)
		}
	}
	return slots
}

func occupied(point models.TimeOfDay, occurrences []models.ClassOccurrence) bool {
	for _, occ := range occurrences {
		if occ.StartTime <= point && point <= occ.EndTime {
			return true
		}
	}
	return false
}
