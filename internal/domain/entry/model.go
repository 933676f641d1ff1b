package entry

import "time"

// Source tags how a time entry was produced.
type Source string

const (
	SourceAuto          Source = "auto"
	SourceManual        Source = "manual"
	SourceManualReplace Source = "manual_replace"
)

// TimeEntry is a persisted, closed record of one tracking session.
//
// ActiveSeconds + IdleSeconds never exceed the wall-clock span. ManualSeconds
// is credited on top and is not bounded by the span.
type TimeEntry struct {
	ID            string    `json:"id"`
	Date          string    `json:"date"`
	StartedAt     time.Time `json:"started_at"`
	EndedAt       time.Time `json:"ended_at"`
	ActiveSeconds int64     `json:"active_seconds"`
	IdleSeconds   int64     `json:"idle_seconds"`
	ManualSeconds int64     `json:"manual_seconds"`
	ProjectID     *int64    `json:"project_id,omitempty"`
	ModeLabel     string    `json:"mode_label"`
	Description   string    `json:"description,omitempty"`
	Source        Source    `json:"source"`
	ReplacedBy    *string   `json:"replaced_by,omitempty"`
}

// DurationSeconds returns the wall-clock span of the entry.
func (e TimeEntry) DurationSeconds() int64 {
	d := int64(e.EndedAt.Sub(e.StartedAt) / time.Second)
	if d < 0 {
		return 0
	}
	return d
}

// WorkSeconds is the time credited as work: active plus manual.
func (e TimeEntry) WorkSeconds() int64 {
	return e.ActiveSeconds + e.ManualSeconds
}

// ModeTotal is the aggregated active time of one mode.
type ModeTotal struct {
	Mode          string `json:"mode"`
	ActiveSeconds int64  `json:"active_seconds"`
}

// ClearStats reports how many rows ClearLogged removed or reset.
type ClearStats struct {
	TimeEntries int64 `json:"time_entries"`
	Weeks       int64 `json:"weeks"`
	ModesReset  int64 `json:"modes_reset"`
}

// DateKey formats t as the day key entries are grouped by.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
