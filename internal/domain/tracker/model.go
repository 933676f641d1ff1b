package tracker

import "time"

// AutoResumeDescription marks sessions reopened automatically after idle.
const AutoResumeDescription = "auto-resumed after idle"

// StartRequest describes a session to open.
type StartRequest struct {
	ProjectID     *int64
	Mode          string
	Description   string
	ManualSeconds int64
}

// session is the single live tracking interval. Timestamps are unix seconds.
type session struct {
	id             string
	projectID      *int64
	mode           string
	startTS        int64
	idleAccum      int64
	lastActivityTS int64
	lastPollTS     int64
	description    string
	manualSeconds  int64
}

func (s *session) elapsed(now int64) int64 {
	return clampNonNegative(now - s.startTS)
}

// mark is an optional timer start.
type mark struct {
	set bool
	ts  int64
}

func (m *mark) start(ts int64) {
	if !m.set {
		m.set = true
		m.ts = ts
	}
}

func (m *mark) clear() {
	*m = mark{}
}

func (m mark) since(now int64) int64 {
	if !m.set {
		return 0
	}
	return now - m.ts
}

// Snapshot is a read-only view of the active session for display.
type Snapshot struct {
	SessionID      string    `json:"session_id"`
	ProjectID      *int64    `json:"project_id,omitempty"`
	Mode           string    `json:"mode"`
	Description    string    `json:"description,omitempty"`
	ManualSeconds  int64     `json:"manual_seconds"`
	StartedAt      time.Time `json:"started_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	ElapsedSeconds int64     `json:"elapsed_seconds"`
	IdleSeconds    int64     `json:"idle_seconds"`
	ActiveSeconds  int64     `json:"active_seconds"`
	// Idle is true when idle time has been attributed or the mode is the idle sentinel.
	Idle bool `json:"idle"`
	// ResumeMode is the mode that will be restored after sustained activity.
	ResumeMode string `json:"resume_mode,omitempty"`
}

func clampNonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
