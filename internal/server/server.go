// Package server orchestrates all components: COMMS client, DB, resolver,
// work queue, dispatcher, HTTP health.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	comms "github.com/nats-io/nats.go"

	"github.com/notifyhub/notifications-dispatch/internal/config"
	"github.com/notifyhub/notifications-dispatch/pkg/bootstrap"
	"github.com/notifyhub/notifications-dispatch/pkg/commsutil"
	"github.com/notifyhub/notifications-dispatch/pkg/db"
	"github.com/notifyhub/notifications-dispatch/pkg/dispatcher"
	"github.com/notifyhub/notifications-dispatch/pkg/queue"
	"github.com/notifyhub/notifications-dispatch/pkg/report"
	"github.com/notifyhub/notifications-dispatch/pkg/resolver"
)

const logPrefix = "server:server"

// Server is the notifications-dispatch orchestrator.
type Server struct {
	cfg        *config.Config
	nc         *comms.Conn
	pool       *pgxpool.Pool
	repo       *db.Repository
	resolver   resolver.Resolver
	httpServer *http.Server
}

// Run starts the server with the built-in logging handler, blocks until a
// shutdown signal or a handler fault, then cleans up.
func Run() error {
	return RunWithHandler(dispatcher.LoggingHandler{})
}

// RunWithHandler starts the server around the given handler implementation.
func RunWithHandler(handler dispatcher.Handler) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("%s - failed to load config: %w", logPrefix, err)
	}

	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	if err := cfg.ValidateForServe(); err != nil {
		return err
	}

	slog.Info(fmt.Sprintf("%s - Starting notifications-dispatch", logPrefix))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &Server{cfg: cfg}

	// Step 1: Connect to COMMS
	nc, err := commsutil.Connect(cfg.COMMSURL, cfg.COMMSName)
	if err != nil {
		return fmt.Errorf("%s - failed to connect to COMMS: %w", logPrefix, err)
	}
	s.nc = nc

	// Step 2: Connect to database
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		nc.Close()
		return fmt.Errorf("%s - failed to connect to database: %w", logPrefix, err)
	}
	s.pool = pool
	s.repo = db.NewRepository(pool)

	// Step 2b: Run migrations and seed bootstrap endpoints if enabled
	if cfg.RunMigrations {
		migrationSQL, err := db.LoadMigrationFiles(cfg.MigrationPath)
		if err != nil {
			pool.Close()
			nc.Close()
			return fmt.Errorf("%s - failed to load migrations: %w", logPrefix, err)
		}
		if err := db.RunMigrations(ctx, pool, migrationSQL); err != nil {
			pool.Close()
			nc.Close()
			return fmt.Errorf("%s - failed to run migrations: %w", logPrefix, err)
		}
		if err := db.SeedBootstrap(ctx, pool, cfg.BootstrapFile); err != nil {
			pool.Close()
			nc.Close()
			return fmt.Errorf("%s - failed to seed bootstrap endpoints: %w", logPrefix, err)
		}
	}

	// Step 3: Resolver over the endpoint registry (used by the home page;
	// producers resolve through their own client)
	s.resolver, err = resolver.NewRegistry(s.repo, cfg.SupportedProtocol)
	if err != nil {
		pool.Close()
		nc.Close()
		return err
	}

	// Step 4: Durable work queue
	workQueue, err := queue.NewJetStreamQueue(nc, cfg.StreamName)
	if err != nil {
		pool.Close()
		nc.Close()
		return fmt.Errorf("%s - failed to set up work queue: %w", logPrefix, err)
	}

	// Step 5: Router and runner for this server's endpoint
	disp := dispatcher.NewDispatcher(handler)
	runner := queue.NewRunner(workQueue, disp, report.NewCommsReporter(nc))

	runnerErr := make(chan error, 1)
	go func() {
		// A handler fault surfaces here; anything else runs until cancel.
		runnerErr <- runner.Run(ctx, cfg.EndpointName)
	}()
	slog.Info(fmt.Sprintf("%s - Draining envelopes for endpoint %s", logPrefix, cfg.EndpointName))

	// Step 6: Endpoint registration over COMMS
	registerSub, err := s.subscribeRegistration(ctx)
	if err != nil {
		pool.Close()
		nc.Close()
		return err
	}
	removeSub, err := s.subscribeRemoval(ctx)
	if err != nil {
		registerSub.Unsubscribe()
		pool.Close()
		nc.Close()
		return err
	}

	// Step 7: HTTP health server
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHome())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		healthCtx, cancel := context.WithTimeout(r.Context(), cfg.HealthCheckTimeout)
		defer cancel()
		h := s.health(healthCtx)
		w.Header().Set("Content-Type", "application/json")
		if h.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(h)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	httpAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	s.httpServer = &http.Server{Addr: httpAddr, Handler: mux}
	go func() {
		slog.Info(fmt.Sprintf("%s - HTTP health server listening on %s", logPrefix, httpAddr))
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error(fmt.Sprintf("%s - HTTP server error: %v", logPrefix, err))
		}
	}()

	slog.Info(fmt.Sprintf("%s - Notifications-dispatch is ready", logPrefix))

	// Wait for shutdown signal or a handler fault
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigCh:
		slog.Info(fmt.Sprintf("%s - Received signal %s, shutting down", logPrefix, sig))
	case err := <-runnerErr:
		if err != nil {
			slog.Error(fmt.Sprintf("%s - runner stopped: %v", logPrefix, err))
			runErr = err
		}
	}

	// Graceful shutdown
	cancel()
	registerSub.Unsubscribe()
	removeSub.Unsubscribe()
	s.httpServer.Shutdown(context.Background())
	nc.Drain()
	pool.Close()

	slog.Info(fmt.Sprintf("%s - Shutdown complete", logPrefix))
	return runErr
}

// RegisterRequest is the JSON body accepted on the registration subject.
type RegisterRequest struct {
	Action   string `json:"action"`
	Name     string `json:"name"`
	Subject  string `json:"subject"`
	Protocol string `json:"protocol,omitempty"`
}

// RemoveRequest is the JSON body accepted on the removal subject.
type RemoveRequest struct {
	Action string `json:"action"`
	Name   string `json:"name"`
}

// RegistrationResponse acknowledges a registration or removal request.
type RegistrationResponse struct {
	Ok    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (s *Server) subscribeRegistration(ctx context.Context) (*comms.Subscription, error) {
	sub, err := s.nc.Subscribe(commsutil.SubjectRegisterEndpoint, func(msg *comms.Msg) {
		var req RegisterRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			respondRegistration(msg, fmt.Sprintf("failed to decode request: %v", err))
			return
		}
		if req.Action == "" || req.Name == "" || req.Subject == "" {
			respondRegistration(msg, "action, name and subject are required")
			return
		}
		protocol := req.Protocol
		if protocol == "" {
			protocol = bootstrap.DefaultProtocol
		}

		regCtx, cancel := context.WithTimeout(ctx, s.cfg.HealthCheckTimeout)
		defer cancel()
		_, err := s.repo.RegisterEndpoint(regCtx, db.RegisterEndpointParams{
			Action:   req.Action,
			Name:     req.Name,
			Subject:  req.Subject,
			Protocol: protocol,
		})
		if err != nil {
			slog.Error(fmt.Sprintf("%s - register endpoint: %v", logPrefix, err))
			respondRegistration(msg, "registration failed")
			return
		}
		respondRegistration(msg, "")
	})
	if err != nil {
		return nil, fmt.Errorf("%s - failed to subscribe to %s: %w", logPrefix, commsutil.SubjectRegisterEndpoint, err)
	}
	slog.Info(fmt.Sprintf("%s - Subscribed to %s", logPrefix, commsutil.SubjectRegisterEndpoint))
	return sub, nil
}

func (s *Server) subscribeRemoval(ctx context.Context) (*comms.Subscription, error) {
	sub, err := s.nc.Subscribe(commsutil.SubjectRemoveEndpoint, func(msg *comms.Msg) {
		var req RemoveRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			respondRegistration(msg, fmt.Sprintf("failed to decode request: %v", err))
			return
		}
		if req.Action == "" || req.Name == "" {
			respondRegistration(msg, "action and name are required")
			return
		}

		rmCtx, cancel := context.WithTimeout(ctx, s.cfg.HealthCheckTimeout)
		defer cancel()
		removed, err := s.repo.RemoveEndpoint(rmCtx, req.Action, req.Name)
		if err != nil {
			slog.Error(fmt.Sprintf("%s - remove endpoint: %v", logPrefix, err))
			respondRegistration(msg, "removal failed")
			return
		}
		if !removed {
			respondRegistration(msg, "endpoint not found")
			return
		}
		respondRegistration(msg, "")
	})
	if err != nil {
		return nil, fmt.Errorf("%s - failed to subscribe to %s: %w", logPrefix, commsutil.SubjectRemoveEndpoint, err)
	}
	slog.Info(fmt.Sprintf("%s - Subscribed to %s", logPrefix, commsutil.SubjectRemoveEndpoint))
	return sub, nil
}

func respondRegistration(msg *comms.Msg, errText string) {
	resp := RegistrationResponse{Ok: errText == "", Error: errText}
	data, _ := json.Marshal(resp)
	msg.Respond(data)
}

// HealthOutput is the /health response body.
type HealthOutput struct {
	Status    string          `json:"status"`
	Checks    map[string]bool `json:"checks"`
	Timestamp string          `json:"timestamp"`
}

func (s *Server) health(ctx context.Context) *HealthOutput {
	dbOK := s.repo.Ping(ctx) == nil
	commsOK := s.nc.IsConnected()

	status := "healthy"
	if !dbOK || !commsOK {
		status = "unhealthy"
	}
	return &HealthOutput{
		Status:    status,
		Checks:    map[string]bool{"database": dbOK, "comms": commsOK},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
