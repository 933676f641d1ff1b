package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `manweek records where working time goes. One live session at a time is
attributed to a mode (activity label) and optionally a project.

Tools:
- start_tracking / switch_mode: open a session; any active one is closed and saved first.
- stop_tracking: close and save the session.
- get_status: live elapsed, active and idle seconds; resume_mode is set while away.
- ping_activity: report keyboard activity when no OS idle source is configured.
- list_entries / add_manual_entry / mode_distribution: review and correct saved time.
- list_projects / upsert_project / archive_project, list_modes / delete_mode: catalogs.

Idle handling is automatic; see manweek://docs/tracking for the rules.
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "manweek://docs/tracking",
		Name:        "docs_tracking",
		Title:       "How manweek attributes time",
		Description: "Idle detection, sleep splitting, auto-resume and the daily cap.",
		Content: `# How manweek attributes time

Every saved entry satisfies active_seconds + idle_seconds = ended_at - started_at.
manual_seconds are credited on top and do not count toward the span.

## Idle

- After idle_timeout_seconds (default 300) without input the session starts
  accruing idle time. An OS idle reading above the threshold wins over
  internal bookkeeping.
- Fifteen seconds of continuous activity forgives idle time already booked
  on the session.

## Sleep

- A poll gap of 30s or more is booked as idle on the same session.
- A gap longer than three idle thresholds splits the session: the work part
  ends one threshold after the last input and an "Idle" session covers the
  rest. After fifteen seconds of continuous activity the previous mode and
  project resume automatically with the description "auto-resumed after idle".

## Other rules

- Sessions shorter than ten seconds are discarded by default, including any
  manual seconds they carry.
- When a day's work reaches daily_cap_seconds the session is closed.
- Mode labels are trimmed and compared case-insensitively. "Idle" is reserved.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
