// cmd/web/main.go
//
// Kanban card service – HTTP entry point.
//
// Start-up
// --------
//
//  1. Load configuration (.env → conf/global.yaml → CARDS_ env).
//
//  2. Start the daily rotating logger (tees to console in a TTY).
//
//  3. Seed the in-memory board from board.seed_file.
//
//  4. Build the card form pieces: definition, CSRF tokens, coordinator.
//
//  5. Register the kanban component and mount it with /metrics and
//     /healthz behind access-log and security-header middleware.
//
//  6. Serve until SIGINT or SIGTERM, then drain.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanizio/kanban/components/kanban"
	"github.com/yanizio/kanban/internal/board"
	"github.com/yanizio/kanban/internal/component"
	"github.com/yanizio/kanban/internal/config"
	"github.com/yanizio/kanban/internal/form"
	"github.com/yanizio/kanban/internal/logger"
	"github.com/yanizio/kanban/internal/middleware"
	"github.com/yanizio/kanban/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(cfg.Paths.Root, cfg.Log.Tee && logger.IsTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	//
	// ── 1.  Board ───────────────────────────────────────────────────────
	//
	tables, err := board.LoadSeed(cfg.Path(cfg.Board.SeedFile))
	if err != nil {
		logOut.Fatalf("seed board: %v", err)
	}
	store := board.New(tables, board.WithLogger(logOut))

	//
	// ── 2.  Card form ───────────────────────────────────────────────────
	//
	def := form.DefaultDefinition()
	if p := cfg.Path(cfg.Form.Definition); p != "" {
		if def, err = form.LoadDefinition(p); err != nil {
			logOut.Fatalf("load form definition: %v", err)
		}
	}
	coord := form.NewCoordinator(store, form.VerifyScope(cfg.Form.VerifyScope), logOut)
	if coord.Scope() == form.ScopeLast {
		logOut.Warnw("card confirmation checks the last table only; set form.verify_scope=target to check the submitted table")
	}

	component.Register(kanban.New(kanban.Deps{
		Store:        store,
		Coordinator:  coord,
		Definition:   def,
		Tokens:       form.NewTokens(cfg.CSRF.Key, form.DefaultMaxAge),
		MaxLiveForms: cfg.Form.MaxLiveForms,
		Log:          logOut,
	}))

	//
	// ── 3.  Router ──────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(middleware.AccessLog(logOut), middleware.Security)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		last := len(store.Snapshot().Tables) - 1
		http.Redirect(w, req, "/board/tables/"+strconv.Itoa(last), http.StatusFound)
	})
	component.Mount(r)

	//
	// ── 4.  Serve ───────────────────────────────────────────────────────
	//
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.HTTP.ListenAddr, middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS, r))
	if err := server.Run(ctx, srv, logOut); err != nil {
		logOut.Fatalf("http server: %v", err)
	}
}
