// Package cli implements the interactive match tracker client: a REPL over
// the local cache with login, refresh and sync commands.
package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	"github.com/Clar17y/Football-Events-sub005/internal/client/cache"
	"github.com/Clar17y/Football-Events-sub005/internal/client/config"
	"github.com/Clar17y/Football-Events-sub005/internal/client/remote"
	"github.com/Clar17y/Football-Events-sub005/internal/client/session"
	"github.com/Clar17y/Football-Events-sub005/internal/client/store"
	"github.com/Clar17y/Football-Events-sub005/internal/client/syncer"
	"github.com/Clar17y/Football-Events-sub005/internal/client/triggers"
	"github.com/Clar17y/Football-Events-sub005/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the cache core together behind the REPL.
type App struct {
	config    *config.Config
	store     *store.SQLiteStore
	session   *session.Session
	api       remote.API
	triggers  *triggers.Triggers
	refresher *cache.Refresher
	syncer    *syncer.Syncer
	log       logging.Logger
	reader    *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	st, err := store.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, err
	}

	sess, err := session.New(ctx, st.DB())
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	api := remote.NewHTTPClient(c.ServerBaseURL, c.PageSize, c.RequestsPerMinute, sess, log)
	trg := triggers.New()
	ref := cache.NewRefresher(st, api, sess, trg, log)
	snc := syncer.New(st, api, log)

	app := &App{
		config:    c,
		store:     st,
		session:   sess,
		api:       api,
		triggers:  trg,
		refresher: ref,
		syncer:    snc,
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
	}

	// Outbound first so freshly pushed records are synced before the pull
	// merge evaluates them.
	refreshCycle := func() {
		cycleCtx := context.Background()
		_, _ = app.syncer.SyncPending(cycleCtx)
		app.refresher.RefreshCache(cycleCtx)
	}
	trg.OnConnectivityRestored(refreshCycle)
	trg.OnAuthenticated(refreshCycle)

	return app, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.store.Close()

	go a.triggers.StartOnlineWatcher(ctx, a.config.OnlineCheckInterval, a.api.Ping)

	// Startup refresh, if we already hold a valid session. The gates inside
	// RefreshCache make this a no-op when offline or logged out.
	go a.refresher.RefreshCache(ctx)

	a.Root(ctx)
}
