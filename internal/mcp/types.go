package mcp

import (
	"time"

	"github.com/rpggio/manweek/internal/domain/entry"
	"github.com/rpggio/manweek/internal/domain/mode"
	"github.com/rpggio/manweek/internal/domain/project"
	"github.com/rpggio/manweek/internal/domain/tracker"
)

const dateLayout = "2006-01-02"

type StartTrackingParams struct {
	Mode          string `json:"mode" jsonschema:"activity label, e.g. Development; Idle is reserved for away time"`
	ProjectID     *int64 `json:"project_id,omitempty" jsonschema:"project to book the time against"`
	Description   string `json:"description,omitempty" jsonschema:"free-text note stored on the entry"`
	ManualSeconds int64  `json:"manual_seconds,omitempty" jsonschema:"extra seconds credited on top of tracked time"`
}

type StopTrackingParams struct {
	ManualSeconds *int64 `json:"manual_seconds,omitempty" jsonschema:"manual seconds to credit instead of the value given at start"`
}

type EmptyParams struct{}

type ListEntriesParams struct {
	Date  string `json:"date,omitempty" jsonschema:"local day as YYYY-MM-DD; defaults to today"`
	From  string `json:"from,omitempty" jsonschema:"first day of a range, YYYY-MM-DD"`
	To    string `json:"to,omitempty" jsonschema:"last day of a range, inclusive, YYYY-MM-DD"`
	Limit int    `json:"limit,omitempty" jsonschema:"return the newest entries instead of a day or range"`
}

type AddManualEntryParams struct {
	Date          string `json:"date,omitempty" jsonschema:"local day as YYYY-MM-DD; defaults to today, or the replaced entry's day"`
	ManualSeconds int64  `json:"manual_seconds" jsonschema:"seconds to credit"`
	Mode          string `json:"mode" jsonschema:"activity label"`
	ProjectID     *int64 `json:"project_id,omitempty"`
	Description   string `json:"description,omitempty"`
	ReplacesID    string `json:"replaces_id,omitempty" jsonschema:"ID of an entry this one supersedes"`
}

type UpsertProjectParams struct {
	Code string `json:"code" jsonschema:"short unique code, matched case-insensitively"`
	Name string `json:"name,omitempty"`
}

type ArchiveProjectParams struct {
	ID       int64 `json:"id"`
	Archived bool  `json:"archived"`
}

type DeleteModeParams struct {
	ID int64 `json:"id"`
}

type ModeDistributionParams struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of modes; all when omitted"`
}

// StatusView describes the live session.
type StatusView struct {
	Active         bool   `json:"active"`
	SessionID      string `json:"session_id,omitempty"`
	Mode           string `json:"mode,omitempty"`
	ProjectID      *int64 `json:"project_id,omitempty"`
	Description    string `json:"description,omitempty"`
	StartedAt      string `json:"started_at,omitempty"`
	LastActivityAt string `json:"last_activity_at,omitempty"`
	ElapsedSeconds int64  `json:"elapsed_seconds"`
	ActiveSeconds  int64  `json:"active_seconds"`
	IdleSeconds    int64  `json:"idle_seconds"`
	ManualSeconds  int64  `json:"manual_seconds"`
	Idle           bool   `json:"idle"`
	ResumeMode     string `json:"resume_mode,omitempty"`
}

type EntryView struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	StartedAt     string  `json:"started_at"`
	EndedAt       string  `json:"ended_at"`
	ActiveSeconds int64   `json:"active_seconds"`
	IdleSeconds   int64   `json:"idle_seconds"`
	ManualSeconds int64   `json:"manual_seconds"`
	ProjectID     *int64  `json:"project_id,omitempty"`
	Mode          string  `json:"mode"`
	Description   string  `json:"description,omitempty"`
	Source        string  `json:"source"`
	ReplacedBy    *string `json:"replaced_by,omitempty"`
}

type EntriesResult struct {
	Entries     []EntryView `json:"entries"`
	WorkSeconds int64       `json:"work_seconds"`
}

type ProjectView struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Label    string `json:"label"`
	Archived bool   `json:"archived"`
}

type ProjectsResult struct {
	Projects []ProjectView `json:"projects"`
}

type ModeView struct {
	ID         int64  `json:"id"`
	Label      string `json:"label"`
	UsageCount int64  `json:"usage_count"`
	LastUsedAt string `json:"last_used_at,omitempty"`
}

type ModesResult struct {
	Modes       []ModeView `json:"modes"`
	Suggestions []string   `json:"suggestions"`
}

type DistributionResult struct {
	Modes []entry.ModeTotal `json:"modes"`
}

type OKResult struct {
	OK bool `json:"ok"`
}

func toStatusView(snap tracker.Snapshot, ok bool) StatusView {
	if !ok {
		return StatusView{}
	}
	return StatusView{
		Active:         true,
		SessionID:      snap.SessionID,
		Mode:           snap.Mode,
		ProjectID:      snap.ProjectID,
		Description:    snap.Description,
		StartedAt:      formatTime(snap.StartedAt),
		LastActivityAt: formatTime(snap.LastActivityAt),
		ElapsedSeconds: snap.ElapsedSeconds,
		ActiveSeconds:  snap.ActiveSeconds,
		IdleSeconds:    snap.IdleSeconds,
		ManualSeconds:  snap.ManualSeconds,
		Idle:           snap.Idle,
		ResumeMode:     snap.ResumeMode,
	}
}

func toEntryView(e entry.TimeEntry) EntryView {
	return EntryView{
		ID:            e.ID,
		Date:          e.Date,
		StartedAt:     formatTime(e.StartedAt),
		EndedAt:       formatTime(e.EndedAt),
		ActiveSeconds: e.ActiveSeconds,
		IdleSeconds:   e.IdleSeconds,
		ManualSeconds: e.ManualSeconds,
		ProjectID:     e.ProjectID,
		Mode:          e.ModeLabel,
		Description:   e.Description,
		Source:        string(e.Source),
		ReplacedBy:    e.ReplacedBy,
	}
}

func toEntriesResult(entries []entry.TimeEntry) EntriesResult {
	result := EntriesResult{Entries: make([]EntryView, 0, len(entries))}
	for _, e := range entries {
		result.Entries = append(result.Entries, toEntryView(e))
		if e.ReplacedBy == nil && !mode.IsIdle(e.ModeLabel) {
			result.WorkSeconds += e.WorkSeconds()
		}
	}
	return result
}

func toProjectView(p project.Project) ProjectView {
	return ProjectView{
		ID:       p.ID,
		Code:     p.Code,
		Name:     p.Name,
		Label:    p.Label(),
		Archived: p.Archived,
	}
}

func toModeView(m mode.Mode) ModeView {
	view := ModeView{ID: m.ID, Label: m.Label, UsageCount: m.UsageCount}
	if m.LastUsedAt != nil {
		view.LastUsedAt = formatTime(*m.LastUsedAt)
	}
	return view
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(time.RFC3339)
}

// parseDay reads a YYYY-MM-DD local date. Empty means today.
func parseDay(value string, now time.Time) (time.Time, error) {
	if value == "" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	}
	return time.ParseInLocation(dateLayout, value, time.Local)
}
