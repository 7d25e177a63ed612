package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"

	"github.com/tapetrack/tapectl/internal/client/api"
	"github.com/tapetrack/tapectl/internal/client/cache"
	"github.com/tapetrack/tapectl/internal/client/config"
	"github.com/tapetrack/tapectl/internal/client/repositories/tokens"
	"github.com/tapetrack/tapectl/internal/client/services"
	"github.com/tapetrack/tapectl/internal/client/session"
	"github.com/tapetrack/tapectl/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the token store, dispatcher, session, and domain stores into
// the interactive client.
type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	cache   *cache.Cache
	api     *api.Dispatcher
	session *session.Session
	guard   *Guard

	projects   *services.Projects
	specs      *services.Specifications
	checklists *services.Checklists
	companies  *services.Companies
	vendors    *services.Vendors
	branding   *services.Branding
	metadata   *services.Metadata

	reader  *bufio.Reader
	current Route
}

// NewApp builds the full client. The returned App owns the database handle
// and cache; call Close when done.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := tokens.Open(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening token store: %w", err)
	}
	repo := tokens.NewSQLiteRepository(db)
	c := cache.New()

	// The auth-failure handler runs from inside the dispatcher, after app
	// construction completes.
	var a *App
	dispatcher := api.New(cfg.API.BaseURL, repo, log,
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout.Duration}),
		api.WithAuthFailureHandler(func(detail string) {
			if a != nil {
				a.onSessionExpired(detail)
			}
		}),
	)

	sess := session.New(dispatcher, repo, log)
	sess.SetAuthCheckTimeout(cfg.API.AuthCheckTimeout.Duration)

	a = &App{
		config:     cfg,
		log:        log,
		db:         db,
		cache:      c,
		api:        dispatcher,
		session:    sess,
		projects:   services.NewProjects(dispatcher, log),
		specs:      services.NewSpecifications(dispatcher, c, log),
		checklists: services.NewChecklists(dispatcher, log),
		companies:  services.NewCompanies(dispatcher, log),
		vendors:    services.NewVendors(dispatcher, log),
		branding:   services.NewBranding(dispatcher, log),
		metadata:   services.NewMetadata(dispatcher, c, log),
		reader:     bufio.NewReader(os.Stdin),
		current:    mustRoute("/"),
	}
	a.guard = NewGuard(sess, log)
	return a, nil
}

// Run restores a persisted session, verifies it in the background, and
// enters the REPL.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if err := a.session.Restore(ctx); err != nil {
		return err
	}
	a.session.Bootstrap(ctx)
	if a.session.HasToken() {
		a.navigate("/dashboard")
	}

	fmt.Println("TapeTrack CLI (type 'help' for commands)")
	a.repl(ctx, bufio.NewScanner(os.Stdin))
	return nil
}

// Close releases the cache sweeper and the database handle.
func (a *App) Close() {
	a.cache.Close()
	if err := a.db.Close(); err != nil {
		a.log.Error(context.Background(), "closing token store", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// navigate moves the current screen through the guard.
func (a *App) navigate(path string) {
	out := a.guard.Resolve(path)
	if out.RedirectedFrom != "" {
		fmt.Printf("Redirected from %s to %s\n", out.RedirectedFrom, out.Route.Path)
	}
	a.current = out.Route
}

// onSessionExpired reacts to the dispatcher declaring the session dead:
// stored tokens are already wiped, so drop in-memory state and force the
// login screen.
func (a *App) onSessionExpired(detail string) {
	a.session.HandleAuthFailure(detail)
	a.current = mustRoute("/login")
	fmt.Printf("Session expired: %s\nPlease log in again.\n", detail)
}

func (a *App) getStatus() string {
	s := ""
	if u := a.session.User(); u != nil {
		s = u.Email + " "
	}
	s += a.current.Path
	return fmt.Sprintf("(%s)", s)
}
