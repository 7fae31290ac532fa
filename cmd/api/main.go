package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jimmyqian/sovra-ui-sub000/internal/conversation"
	"github.com/jimmyqian/sovra-ui-sub000/internal/events"
	apphttp "github.com/jimmyqian/sovra-ui-sub000/internal/http"
	"github.com/jimmyqian/sovra-ui-sub000/internal/http/router"
	"github.com/jimmyqian/sovra-ui-sub000/internal/lightbox"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search/backend"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search/service"
	"github.com/jimmyqian/sovra-ui-sub000/platform/config"
	"github.com/jimmyqian/sovra-ui-sub000/platform/logger"
	"github.com/jimmyqian/sovra-ui-sub000/platform/validator"
)

const shutdownTimeout = 10 * time.Second

// RNG stream identifiers; each consumer gets its own stream of the seed.
const (
	streamBackend uint64 = iota + 1
	streamConversation
	streamLightbox
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	seed := cfg.GetRandomSeed()
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.Debug("random seed selected", "seed", seed)

	eventBus := events.NewInMemoryBus(log)
	subscribeEventLog(eventBus, log)

	mock := backend.NewMock(backend.MockOptions{
		SearchLatency: cfg.GetSearchLatency(),
		UploadLatency: cfg.GetUploadLatency(),
		Rand:          newRand(seed, streamBackend),
	})

	// ========================================================================
	// Domain Modules
	// ========================================================================

	val := validator.New()
	searchModule := search.NewModule(service.Deps{
		Searcher: mock,
		Uploader: mock,
		Resolver: conversation.NewResolver(newRand(seed, streamConversation)),
		Trigger: lightbox.NewPolicy(
			cfg.GetPromoItems(),
			lightbox.HostGuard(cfg.GetAppHost(), cfg.GetPromoHosts()),
			newRand(seed, streamLightbox),
		),
		Bus:      eventBus,
		Log:      log,
		PageSize: cfg.GetPageSize(),
	}, val)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Modules: []apphttp.Module{
			searchModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func newRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// subscribeEventLog records session events that are not already logged by
// the engine itself.
func subscribeEventLog(bus events.Bus, log *logger.Logger) {
	bus.Subscribe(events.NameLightboxShown, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		shown, ok := e.(events.LightboxShown)
		if !ok {
			return nil
		}
		log.WithContext(ctx).Info("lightbox_shown",
			"item_url", shown.ItemURL,
			"search_count", shown.SearchCount,
		)
		return nil
	}))
	bus.Subscribe(events.NameSearchCompleted, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		completed, ok := e.(events.SearchCompleted)
		if !ok || completed.TotalResults > 0 {
			return nil
		}
		log.WithContext(ctx).Info("search_empty", "query", completed.Query)
		return nil
	}))
}
