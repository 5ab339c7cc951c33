// Package mock serves a fake admin API backed by in-memory seed data, for
// local development and end-to-end tests of the console.
package mock

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/studiowebux/adminctl/internal/types"
)

// maxLogs bounds the request log
const maxLogs = 1000

// Server is the fake admin API
type Server struct {
	app    *fiber.App
	logger *slog.Logger
	delay  time.Duration

	mu            sync.RWMutex
	adminKey      string
	requestsToday int
	payments      []types.Payment
	users         []types.User
	keys          []SeedKey

	logs      []RequestLog
	logsMutex sync.RWMutex
	notifyCh  chan struct{} // Channel to notify when new log arrives
}

// NewServer creates a fake admin API holding a copy of seed
func NewServer(seed *Seed, logger *slog.Logger) *Server {
	if seed == nil {
		seed = DefaultSeed()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		logger:        logger,
		delay:         time.Duration(seed.Delay) * time.Millisecond,
		adminKey:      seed.AdminKey,
		requestsToday: seed.RequestsToday,
		payments:      append([]types.Payment(nil), seed.Payments...),
		users:         append([]types.User(nil), seed.Users...),
		keys:          append([]SeedKey(nil), seed.Keys...),
		logs:          make([]RequestLog, 0),
		notifyCh:      make(chan struct{}, 100),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "adminctl mock",
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
		Immutable:             true,
	})
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Use(s.logRequests)

	admin := s.app.Group("/admin", s.requireAdminKey)
	admin.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("admin dashboard")
	})
	admin.Get("/stats", s.handleStats)
	admin.Get("/payments", s.handlePayments)
	admin.Post("/payments/:id/approve", s.handleSettle(true))
	admin.Post("/payments/:id/reject", s.handleSettle(false))
	admin.Get("/users", s.handleUsers)
	admin.Post("/users/change-tier", s.handleChangeTier)
	admin.Post("/users/:id/delete", s.handleDeleteUser)
	admin.Post("/keys/create", s.handleCreateKey)
	admin.Get("/keys/:prefix/info", s.handleKeyInfo)
	admin.Post("/keys/:prefix/deactivate", s.handleDeactivateKey)
	admin.Get("/keys/:prefix/usage", s.handleKeyUsage)
}

// App exposes the fiber app
func (s *Server) App() *fiber.App { return s.app }

// Handler adapts the app to net/http, e.g. for httptest
func (s *Server) Handler() http.Handler {
	return adaptor.FiberApp(s.app)
}

// Start listens on addr in the background
func (s *Server) Start(addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("mock server failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
	}
	s.logger.Info("mock admin API listening", "addr", addr)
	return nil
}

// Stop stops the server
func (s *Server) Stop() error {
	return s.app.ShutdownWithTimeout(5 * time.Second)
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
	}
	s.logRequest(RequestLog{
		Timestamp: start,
		Method:    utils.CopyString(c.Method()),
		Path:      utils.CopyString(c.Path()),
		Query:     string(c.Request().URI().QueryString()),
		Status:    status,
		Duration:  time.Since(start),
	})
	return err
}

// logRequest adds a request to the log
func (s *Server) logRequest(entry RequestLog) {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = append(s.logs, entry)
	if len(s.logs) > maxLogs {
		s.logs = s.logs[len(s.logs)-maxLogs:]
	}
	s.logger.Debug("mock request", "method", entry.Method, "path", entry.Path, "status", entry.Status)

	// Notify listeners (non-blocking)
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// NotifyChannel returns the notification channel
func (s *Server) NotifyChannel() <-chan struct{} {
	return s.notifyCh
}

// GetLogs returns all logged requests
func (s *Server) GetLogs() []RequestLog {
	s.logsMutex.RLock()
	defer s.logsMutex.RUnlock()

	logs := make([]RequestLog, len(s.logs))
	copy(logs, s.logs)
	return logs
}

// ClearLogs clears all logged requests
func (s *Server) ClearLogs() {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = make([]RequestLog, 0)
}

// CountRequests returns how many logged requests hit method and path
func (s *Server) CountRequests(method, path string) int {
	n := 0
	for _, l := range s.GetLogs() {
		if l.Method == method && l.Path == path {
			n++
		}
	}
	return n
}
