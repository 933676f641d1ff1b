package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/manweek/internal/domain/entry"
	"github.com/rpggio/manweek/internal/domain/project"
	"github.com/rpggio/manweek/internal/domain/tracker"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type toolHandlers struct {
	services Services
	now      func() time.Time
}

func registerTools(server *sdkmcp.Server, services Services, now func() time.Time) {
	h := &toolHandlers{services: services, now: now}

	// Tracking
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "start_tracking",
		Description: "Start tracking a mode, closing and saving any active session",
	}, h.startTracking)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "switch_mode",
		Description: "Switch the live session to another mode or project",
	}, h.switchMode)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "stop_tracking",
		Description: "Stop tracking and save the active session, optionally overriding its manual seconds",
	}, h.stopTracking)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_status",
		Description: "Show the live session with its active and idle seconds",
	}, h.getStatus)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "ping_activity",
		Description: "Report that the user is at the keyboard",
	}, h.pingActivity)

	// Entries
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_entries",
		Description: "List saved time entries for a day, a date range, or the most recent ones",
	}, h.listEntries)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_manual_entry",
		Description: "Credit time that was not tracked live, optionally replacing an existing entry",
	}, h.addManualEntry)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "mode_distribution",
		Description: "Total active seconds per mode, largest first",
	}, h.modeDistribution)

	// Projects
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List projects that are not archived",
	}, h.listProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "upsert_project",
		Description: "Create a project or rename the one with the same code",
	}, h.upsertProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "archive_project",
		Description: "Hide a project from pickers, or restore it",
	}, h.archiveProject)

	// Modes
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_modes",
		Description: "List known modes with usage statistics and label suggestions",
	}, h.listModes)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_mode",
		Description: "Delete a mode label; saved entries keep their label",
	}, h.deleteMode)
}

func (h *toolHandlers) startTracking(ctx context.Context, _ *sdkmcp.CallToolRequest, in StartTrackingParams) (*sdkmcp.CallToolResult, StatusView, error) {
	snap, err := h.services.Tracker.Start(ctx, startRequest(in))
	if err != nil {
		return nil, StatusView{}, toolError(err)
	}
	return nil, toStatusView(snap, true), nil
}

func (h *toolHandlers) switchMode(ctx context.Context, _ *sdkmcp.CallToolRequest, in StartTrackingParams) (*sdkmcp.CallToolResult, StatusView, error) {
	snap, err := h.services.Tracker.Switch(ctx, startRequest(in))
	if err != nil {
		return nil, StatusView{}, toolError(err)
	}
	return nil, toStatusView(snap, true), nil
}

func (h *toolHandlers) stopTracking(ctx context.Context, _ *sdkmcp.CallToolRequest, in StopTrackingParams) (*sdkmcp.CallToolResult, StatusView, error) {
	var err error
	if in.ManualSeconds != nil {
		err = h.services.Tracker.StopWithManual(ctx, *in.ManualSeconds)
	} else {
		err = h.services.Tracker.Stop(ctx)
	}
	if err != nil {
		return nil, StatusView{}, toolError(err)
	}
	return nil, toStatusView(h.services.Tracker.Status()), nil
}

func (h *toolHandlers) getStatus(_ context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, StatusView, error) {
	return nil, toStatusView(h.services.Tracker.Status()), nil
}

func (h *toolHandlers) pingActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, StatusView, error) {
	if err := h.services.Tracker.Ping(ctx); err != nil {
		return nil, StatusView{}, toolError(err)
	}
	return nil, toStatusView(h.services.Tracker.Status()), nil
}

func (h *toolHandlers) listEntries(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListEntriesParams) (*sdkmcp.CallToolResult, EntriesResult, error) {
	var (
		entries []entry.TimeEntry
		err     error
	)
	switch {
	case in.Limit > 0:
		entries, err = h.services.Entries.Recent(ctx, in.Limit)
	case in.From != "" || in.To != "":
		var from, to time.Time
		if from, err = h.day(in.From); err != nil {
			return nil, EntriesResult{}, toolError(err)
		}
		if to, err = h.day(in.To); err != nil {
			return nil, EntriesResult{}, toolError(err)
		}
		entries, err = h.services.Entries.ListRange(ctx, from, to.AddDate(0, 0, 1))
	default:
		var day time.Time
		if day, err = h.day(in.Date); err != nil {
			return nil, EntriesResult{}, toolError(err)
		}
		entries, err = h.services.Entries.ListForDate(ctx, day)
	}
	if err != nil {
		return nil, EntriesResult{}, toolError(err)
	}
	return nil, toEntriesResult(entries), nil
}

func (h *toolHandlers) addManualEntry(ctx context.Context, _ *sdkmcp.CallToolRequest, in AddManualEntryParams) (*sdkmcp.CallToolResult, EntryView, error) {
	req := entry.ManualRequest{
		ManualSeconds: in.ManualSeconds,
		ProjectID:     in.ProjectID,
		ModeLabel:     in.Mode,
		Description:   in.Description,
	}
	if in.Date != "" || in.ReplacesID == "" {
		day, err := h.day(in.Date)
		if err != nil {
			return nil, EntryView{}, toolError(err)
		}
		req.Day = day
	}

	var (
		e   *entry.TimeEntry
		err error
	)
	if in.ReplacesID != "" {
		e, err = h.services.Entries.Replace(ctx, in.ReplacesID, req)
	} else {
		e, err = h.services.Entries.AddManual(ctx, req)
	}
	if err != nil {
		return nil, EntryView{}, toolError(err)
	}
	return nil, toEntryView(*e), nil
}

func (h *toolHandlers) modeDistribution(ctx context.Context, _ *sdkmcp.CallToolRequest, in ModeDistributionParams) (*sdkmcp.CallToolResult, DistributionResult, error) {
	totals, err := h.services.Entries.ModeDistribution(ctx, in.Limit)
	if err != nil {
		return nil, DistributionResult{}, toolError(err)
	}
	return nil, DistributionResult{Modes: totals}, nil
}

func (h *toolHandlers) listProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, ProjectsResult, error) {
	projects, err := h.services.Projects.ListActive(ctx)
	if err != nil {
		return nil, ProjectsResult{}, toolError(err)
	}
	result := ProjectsResult{Projects: make([]ProjectView, 0, len(projects))}
	for _, p := range projects {
		result.Projects = append(result.Projects, toProjectView(p))
	}
	return nil, result, nil
}

func (h *toolHandlers) upsertProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpsertProjectParams) (*sdkmcp.CallToolResult, ProjectView, error) {
	proj, err := h.services.Projects.Upsert(ctx, project.UpsertRequest{Code: in.Code, Name: in.Name})
	if err != nil {
		return nil, ProjectView{}, toolError(err)
	}
	return nil, toProjectView(*proj), nil
}

func (h *toolHandlers) archiveProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in ArchiveProjectParams) (*sdkmcp.CallToolResult, OKResult, error) {
	if err := h.services.Projects.SetArchived(ctx, in.ID, in.Archived); err != nil {
		return nil, OKResult{}, toolError(err)
	}
	return nil, OKResult{OK: true}, nil
}

func (h *toolHandlers) listModes(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, ModesResult, error) {
	modes, err := h.services.Modes.List(ctx)
	if err != nil {
		return nil, ModesResult{}, toolError(err)
	}
	suggestions, err := h.services.Modes.Suggestions(ctx)
	if err != nil {
		return nil, ModesResult{}, toolError(err)
	}
	result := ModesResult{Modes: make([]ModeView, 0, len(modes)), Suggestions: suggestions}
	for _, m := range modes {
		result.Modes = append(result.Modes, toModeView(m))
	}
	return nil, result, nil
}

func (h *toolHandlers) deleteMode(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteModeParams) (*sdkmcp.CallToolResult, OKResult, error) {
	if err := h.services.Modes.Delete(ctx, in.ID); err != nil {
		return nil, OKResult{}, toolError(err)
	}
	return nil, OKResult{OK: true}, nil
}

func (h *toolHandlers) day(value string) (time.Time, error) {
	day, err := parseDay(value, h.now())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", errInvalidDate, value)
	}
	return day, nil
}

func startRequest(in StartTrackingParams) tracker.StartRequest {
	return tracker.StartRequest{
		ProjectID:     in.ProjectID,
		Mode:          in.Mode,
		Description:   in.Description,
		ManualSeconds: in.ManualSeconds,
	}
}
