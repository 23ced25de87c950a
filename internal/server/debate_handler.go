package server

import (
	"bufio"
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/collab-arena/arena/internal/debate"
	"github.com/collab-arena/arena/internal/errors"
	"github.com/collab-arena/arena/internal/event"
)

// debateRequest is the start-debate payload. PreviousMessages, when
// present, seeds a resumed session with client-held history.
type debateRequest struct {
	Proposal         string               `json:"proposal"`
	Mode             string               `json:"mode"`
	PreviousMessages []debate.ReplayEntry `json:"previousMessages"`
}

// handleDebate validates the request, then hands the connection to a
// body stream writer that runs the debate loop and forwards every
// event as one SSE frame. Validation happens before any backend call;
// once streaming starts, failures surface as stream events, never as
// HTTP status codes.
func (s *Server) handleDebate(c *fiber.Ctx) error {
	eng := s.engine.Load()

	var req debateRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}

	mode, ok := parseStrictMode(req.Mode)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "invalid mode: must be conservative, balanced or aggressive")
	}

	if msg, err := validateProposal(req.Proposal, eng.cfg.Debate.MaxProposalLength); errors.Is(err, errors.ErrInvalidInput) {
		s.log.Warn("debate request rejected", "error", err.Error())
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	if err := eng.credentialCheck(); err != nil {
		s.log.Error("debate rejected, credential unconfigured", "error", err.Error())
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}

	sess := debate.NewSession(req.Proposal, mode, req.PreviousMessages)
	timeout := time.Duration(eng.cfg.Server.StreamTimeoutSeconds) * time.Second
	log := s.log.WithSession(sess.ID)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	// Tell buffering proxies to pass frames through immediately.
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		bus := event.NewBus()
		bus.SubscribeAll(func(e event.Event) {
			// A failed write or flush means the client went away;
			// cancel so the loop stops at its next suspension point.
			if _, err := w.WriteString(event.EncodeSSE(e)); err != nil {
				cancel()
				return
			}
			if err := w.Flush(); err != nil {
				cancel()
			}
		})

		log.Info("debate stream opened", "mode", string(mode), "replayed", len(req.PreviousMessages))
		eng.orch.Run(ctx, sess, bus)
		log.Info("debate stream closed", "messages", len(sess.Messages))
	}))

	return nil
}

// validateProposal checks the proposal against the configured bounds,
// returning the wire-safe rejection message alongside the classified
// error.
func validateProposal(proposal string, maxLen int) (string, error) {
	if strings.TrimSpace(proposal) == "" {
		return "proposal cannot be empty", errors.NewValidationError("empty proposal").
			WithField("proposal").WithCause(errors.ErrEmptyProposal)
	}
	if n := utf8.RuneCountInString(proposal); n > maxLen {
		return "proposal exceeds maximum length", errors.NewValidationError("proposal too long").
			WithField("proposal").WithValue(n).WithCause(errors.ErrProposalTooLong)
	}
	return "", nil
}

// parseStrictMode accepts the three documented modes or an omitted one
// (defaulting to balanced). Anything else is a validation error; the
// lenient fallback in debate.ParseMode is for replayed internal values,
// not request input.
func parseStrictMode(s string) (debate.Mode, bool) {
	switch debate.Mode(s) {
	case debate.ModeConservative, debate.ModeBalanced, debate.ModeAggressive:
		return debate.Mode(s), true
	case "":
		return debate.ModeBalanced, true
	default:
		return "", false
	}
}
