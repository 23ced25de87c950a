// Package server exposes the debate engine over HTTP: a server-sent
// events endpoint that streams a live debate, and a JSON endpoint that
// collapses a client-held transcript into a conclusion document. The
// server holds no session state between requests; the client is the
// system of record and replays history on resume and conclusion.
package server

import (
	"fmt"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/collab-arena/arena/internal/conclusion"
	"github.com/collab-arena/arena/internal/config"
	"github.com/collab-arena/arena/internal/errors"
	"github.com/collab-arena/arena/internal/llm"
	"github.com/collab-arena/arena/internal/logging"
	"github.com/collab-arena/arena/internal/orchestrator"
	"github.com/collab-arena/arena/internal/roster"
)

// engine bundles the config and everything derived from it. A config
// reload builds a fresh engine and swaps the pointer, so handlers that
// snapshot the engine at request start never observe a half-applied
// config.
type engine struct {
	cfg       *config.Config
	orch      *orchestrator.Orchestrator
	concluder *conclusion.Generator
	backends  []roster.Backend
}

func buildEngine(cfg *config.Config, log *logging.Logger) (*engine, error) {
	factory := llm.NewFactory(cfg)

	orch, err := orchestrator.New(cfg, factory, log)
	if err != nil {
		return nil, err
	}

	backends, err := roster.FilterBackends(cfg.Debate.DisabledBackends)
	if err != nil {
		return nil, err
	}

	return &engine{
		cfg:       cfg,
		orch:      orch,
		concluder: conclusion.New(cfg, factory, log),
		backends:  backends,
	}, nil
}

// credentialCheck returns an error naming the first required credential
// that is unconfigured, considering only backend shapes present in the
// filtered roster.
func (e *engine) credentialCheck() error {
	for _, b := range e.backends {
		switch b.Type {
		case roster.TypeSearch:
			if e.cfg.Perplexity.APIKey == "" {
				return errors.Wrap(errors.ErrMissingCredential, "PERPLEXITY_API_KEY")
			}
		case roster.TypeGeneric:
			if e.cfg.OpenRouter.APIKey == "" {
				return errors.Wrap(errors.ErrMissingCredential, "OPENROUTER_API_KEY")
			}
		}
	}
	return nil
}

// Server is the HTTP surface over one engine. Each debate request gets
// its own session, bus and cancellation scope; nothing is shared
// between streams. In-flight streams keep the engine they started with
// across reloads.
type Server struct {
	app    *fiber.App
	log    *logging.Logger
	engine atomic.Pointer[engine]
}

// New wires the HTTP server from configuration.
func New(cfg *config.Config, log *logging.Logger) (*Server, error) {
	eng, err := buildEngine(cfg, log)
	if err != nil {
		return nil, err
	}

	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "arena",
			DisableStartupMessage: true,
		}),
		log: log,
	}
	s.engine.Store(eng)

	s.app.Use(fiberrecover.New())
	s.routes()
	return s, nil
}

// Reload applies a new configuration to subsequent requests. On error
// the previous engine stays in place.
func (s *Server) Reload(cfg *config.Config) error {
	eng, err := buildEngine(cfg, s.log)
	if err != nil {
		return err
	}
	s.engine.Store(eng)
	return nil
}

func (s *Server) routes() {
	s.app.Get("/health", s.handleHealth)
	s.app.Get("/api/agents", s.handleAgents)
	s.app.Post("/api/debate", s.handleDebate)
	s.app.Post("/api/conclude", s.handleConclude)
}

// Listen serves on the port configured at startup until Shutdown or a
// listener failure. Reloads do not rebind the listener.
func (s *Server) Listen() error {
	addr := fmt.Sprintf(":%d", s.engine.Load().cfg.Server.Port)
	s.log.Info("http server listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown drains connections and stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for in-process request testing.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleAgents lists the role and backend rosters the scheduler will
// rotate through, after disabled-backend filtering.
func (s *Server) handleAgents(c *fiber.Ctx) error {
	eng := s.engine.Load()

	roles := roster.Roles()
	roleNames := make([]string, len(roles))
	for i, r := range roles {
		roleNames[i] = r.Name
	}

	backends := make([]fiber.Map, len(eng.backends))
	for i, b := range eng.backends {
		backends[i] = fiber.Map{
			"id":       b.ID,
			"label":    b.Label,
			"provider": b.Provider,
		}
	}

	return c.JSON(fiber.Map{
		"roles":    roleNames,
		"backends": backends,
	})
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
