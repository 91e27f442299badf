// Package server wires the application together and runs the HTTP
// server. All dependencies flow top-down from here; nothing below this
// package holds global connection state.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/vampware/app/controllers"
	"github.com/shashiranjanraj/vampware/app/graph"
	"github.com/shashiranjanraj/vampware/app/routes"
	"github.com/shashiranjanraj/vampware/app/store"
	"github.com/shashiranjanraj/vampware/config"
	"github.com/shashiranjanraj/vampware/pkg/auth"
	"github.com/shashiranjanraj/vampware/pkg/cache"
	"github.com/shashiranjanraj/vampware/pkg/database"
	"github.com/shashiranjanraj/vampware/pkg/event"
	"github.com/shashiranjanraj/vampware/pkg/logger"
	"github.com/shashiranjanraj/vampware/pkg/metrics"
	"github.com/shashiranjanraj/vampware/pkg/middleware"
	"github.com/shashiranjanraj/vampware/pkg/reqid"
	"github.com/shashiranjanraj/vampware/pkg/response"
	"github.com/shashiranjanraj/vampware/pkg/router"
	"github.com/shashiranjanraj/vampware/pkg/ws"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// Server is the assembled application.
type Server struct {
	http    *http.Server
	router  *router.Router
	hub     *ws.Hub
	events  *event.Bus
	cleanup []func()
}

// New connects every dependency and mounts the route table.
func New() (*Server, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}

	s := &Server{}

	if uri := config.MongoURI(); uri != "" {
		closeSink, err := logger.EnableMongoSink(uri, config.MongoDB(), "logs")
		if err != nil {
			logger.Warn("mongo log sink disabled", "error", err)
		} else {
			s.cleanup = append(s.cleanup, closeSink)
		}
	}

	db, err := database.Connect(config.DatabaseDriver(), config.DatabaseDSN())
	if err != nil {
		return nil, err
	}

	redisCache, err := cache.Connect(config.RedisAddr(), config.RedisPassword())
	if err != nil {
		logger.Warn("redis unavailable, product cache disabled", "error", err)
		redisCache = nil
	} else {
		s.cleanup = append(s.cleanup, func() { redisCache.Close() }) //nolint:errcheck
	}

	tokens := auth.NewManager(config.JWTSecret())
	s.events = event.New()
	s.hub = ws.NewHub()
	go s.hub.Run()

	// Order lifecycle events feed the websocket clients.
	broadcast := func(payload interface{}) { s.hub.BroadcastJSON(payload) }
	s.events.Listen(controllers.EventOrderCreated, broadcast)
	s.events.Listen(controllers.EventOrderUpdated, broadcast)
	s.events.Listen(controllers.EventOrderDeleted, broadcast)

	userStore := store.NewUserStore(db)
	productStore := store.NewProductStore(db, redisCache)
	orderStore := store.NewOrderStore(db)

	r := router.New()
	r.Use(
		reqid.Middleware(),
		middleware.Logger,
		middleware.Recovery,
		metrics.Middleware(),
		middleware.CORS(middleware.DefaultCORSOptions(config.CORSOrigins())),
		middleware.RateLimit(120, time.Minute),
	)

	routes.Register(r, routes.Controllers{
		Users:    controllers.NewUserController(userStore, tokens),
		Products: controllers.NewProductController(productStore),
		Orders:   controllers.NewOrderController(orderStore, s.events),
	}, tokens)

	schema, err := graph.NewSchema(&graph.Resolver{
		Users:    userStore,
		Products: productStore,
		Orders:   orderStore,
	})
	if err != nil {
		return nil, err
	}
	r.Post("/graphql", "graphql", graph.Handler(schema))

	r.HandleFunc("/metrics", metrics.Handler())
	r.Get("/healthz", "healthz", healthz(db))
	r.Get("/ws/orders", "ws.orders", func(w http.ResponseWriter, req *http.Request) {
		ws.Upgrade(w, req, s.hub)
	})

	s.router = r
	s.http = &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

// Router exposes the route table, used by the route:list command.
func (s *Server) Router() *router.Router { return s.router }

// Run serves until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", s.http.Addr, "env", config.AppEnv())
		if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.http.Shutdown(ctx)
	s.events.Wait()
	for _, fn := range s.cleanup {
		fn()
	}
	return err
}

// healthz reports liveness, including a database ping.
func healthz(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			response.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
