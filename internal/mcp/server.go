package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/rpggio/manweek/internal/domain/entry"
	"github.com/rpggio/manweek/internal/domain/mode"
	"github.com/rpggio/manweek/internal/domain/project"
	"github.com/rpggio/manweek/internal/domain/tracker"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// TrackerService drives the live session.
type TrackerService interface {
	Start(ctx context.Context, req tracker.StartRequest) (tracker.Snapshot, error)
	Switch(ctx context.Context, req tracker.StartRequest) (tracker.Snapshot, error)
	Stop(ctx context.Context) error
	StopWithManual(ctx context.Context, manualSeconds int64) error
	Ping(ctx context.Context) error
	Status() (tracker.Snapshot, bool)
}

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Upsert(ctx context.Context, req project.UpsertRequest) (*project.Project, error)
	ListActive(ctx context.Context) ([]project.Project, error)
	SetArchived(ctx context.Context, id int64, archived bool) error
}

// ModeService defines mode operations needed by MCP.
type ModeService interface {
	List(ctx context.Context) ([]mode.Mode, error)
	Suggestions(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id int64) error
}

// EntryService defines time entry operations needed by MCP.
type EntryService interface {
	ListForDate(ctx context.Context, day time.Time) ([]entry.TimeEntry, error)
	ListRange(ctx context.Context, from, to time.Time) ([]entry.TimeEntry, error)
	Recent(ctx context.Context, limit int) ([]entry.TimeEntry, error)
	AddManual(ctx context.Context, req entry.ManualRequest) (*entry.TimeEntry, error)
	Replace(ctx context.Context, id string, req entry.ManualRequest) (*entry.TimeEntry, error)
	ModeDistribution(ctx context.Context, limit int) ([]entry.ModeTotal, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Tracker  TrackerService
	Projects ProjectService
	Modes    ModeService
	Entries  EntryService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Logger   *slog.Logger
	Version  string
	// Now defaults to time.Now; date arguments are resolved against it.
	Now func() time.Time
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "manweek",
		Version: cfg.Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(sessionMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services, cfg.Now)

	return server
}
