package models

import "time"

// Student represents a learner registered in an institution.
type Student struct {
	ID            string    `db:"id" json:"id"`
	CollegeID     string    `db:"college_id" json:"college_id"`
	FullName      string    `db:"full_name" json:"full_name"`
	InstitutionID string    `db:"institution_id" json:"institution_id"`
	BranchID      *string   `db:"branch_id" json:"branch_id,omitempty"`
	CurrentTermID *string   `db:"current_term_id" json:"current_term_id,omitempty"`
	CareerGoal    string    `db:"career_goal" json:"career_goal"`
	Interests     string    `db:"interests" json:"interests"`
	WeakSubjects  string    `db:"weak_subjects" json:"weak_subjects"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// HasTerm reports whether the student is enrolled in a term.
func (s *Student) HasTerm() bool {
	return s != nil && s.CurrentTermID != nil && *s.CurrentTermID != ""
}

// StudentProfile carries the free-text fields used to personalise suggestions.
type StudentProfile struct {
	CareerGoal   string `json:"career_goal"`
	Interests    string `json:"interests"`
	WeakSubjects string `json:"weak_subjects"`
}

// Profile extracts the suggestion profile of the student.
func (s *Student) Profile() StudentProfile {
	return StudentProfile{CareerGoal: s.CareerGoal, Interests: s.Interests, WeakSubjects: s.WeakSubjects}
}
