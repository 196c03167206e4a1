package models

// Subject represents an academic subject taught in one term.
type Subject struct {
	ID     string `db:"id" json:"id"`
	TermID string `db:"term_id" json:"term_id"`
	Code   string `db:"code" json:"code"`
	Name   string `db:"name" json:"name"`
}
