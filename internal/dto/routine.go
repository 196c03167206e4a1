package dto

import (
	"fmt"

	"github.com/noah-isme/smart-campus-api/internal/models"
)

// Routine entry types.
const (
	RoutineTypeClass = "class"
	RoutineTypeTask  = "task"
)

// RoutineResponse is the smart routine payload.
type RoutineResponse struct {
	BranchName            string         `json:"branch_name"`
	TermLabel             string         `json:"term_label"`
	Routine               []RoutineItem  `json:"routine"`
	Alerts                []models.Alert `json:"alerts"`
	LowAttendanceSubjects []string       `json:"low_attendance_subjects"`
}

// RoutineItem is one row of the routine timeline.
type RoutineItem struct {
	Time        string              `json:"time"`
	Title       string              `json:"title"`
	Type        string              `json:"type"`
	Details     string              `json:"details"`
	SubjectCode string              `json:"subject_code,omitempty"`
	Priority    models.TaskPriority `json:"priority,omitempty"`
}

// NewRoutineResponse flattens a composed routine for clients.
func NewRoutineResponse(r *models.Routine) RoutineResponse {
	resp := RoutineResponse{
		BranchName:            r.BranchName,
		TermLabel:             r.TermLabel,
		Routine:               make([]RoutineItem, 0, len(r.Entries)),
		Alerts:                r.Alerts,
		LowAttendanceSubjects: r.LowAttendanceSubjects,
	}
	if resp.Alerts == nil {
		resp.Alerts = []models.Alert{}
	}
	if resp.LowAttendanceSubjects == nil {
		resp.LowAttendanceSubjects = []string{}
	}
	for _, entry := range r.Entries {
		item := RoutineItem{Time: entry.At().Format12h(), Title: entry.Heading()}
		switch e := entry.(type) {
		case models.ClassEntry:
			room := e.Room
			if room == "" {
				room = "TBA"
			}
			item.Type = RoutineTypeClass
			item.Details = fmt.Sprintf("Room: %s", room)
			item.SubjectCode = e.SubjectCode
		case models.TaskEntry:
			item.Type = RoutineTypeTask
			item.Details = fmt.Sprintf("Priority: %s", e.Priority)
			item.Priority = e.Priority
		}
		resp.Routine = append(resp.Routine, item)
	}
	return resp
}
