package models

import "fmt"

// Branch is an academic programme inside an institution.
type Branch struct {
	ID            string `db:"id" json:"id"`
	InstitutionID string `db:"institution_id" json:"institution_id"`
	Name          string `db:"name" json:"name"`
	Code          string `db:"code" json:"code"`
}

// Term models a numbered semester belonging to a branch.
type Term struct {
	ID       string `db:"id" json:"id"`
	BranchID string `db:"branch_id" json:"branch_id"`
	Number   int    `db:"number" json:"number"`
	Name     string `db:"name" json:"name"`
}

// Label renders the term the way timetables display it.
func (t *Term) Label() string {
	if t == nil {
		return "N/A"
	}
	return fmt.Sprintf("Semester %d", t.Number)
}

// TermDetail joins a term with its branch name.
type TermDetail struct {
	Term
	BranchName string `db:"branch_name" json:"branch_name"`
}
