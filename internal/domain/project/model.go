package project

import "time"

// Project is an optional grouping that time entries are booked against.
type Project struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Label returns the display form used in menus and reports.
func (p Project) Label() string {
	if p.Name == "" || p.Name == p.Code {
		return p.Code
	}
	return p.Code + " - " + p.Name
}
