package server

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/collab-arena/arena/internal/debate"
	"github.com/collab-arena/arena/internal/errors"
)

// concludeRequest carries the client-held transcript to synthesize.
// The proposal rides separately so a transcript that omits the round-0
// user entry can still be reconstructed in full.
type concludeRequest struct {
	Messages []debate.ReplayEntry `json:"messages"`
	Mode     string               `json:"mode"`
	Proposal string               `json:"proposal"`
}

// handleConclude synthesizes a conclusion from a replayed transcript
// and returns it as a single JSON document, not streamed. Unparseable
// model output degrades inside the generator; only transport and
// validation failures surface as error statuses.
func (s *Server) handleConclude(c *fiber.Ctx) error {
	eng := s.engine.Load()

	var req concludeRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}

	if _, ok := parseStrictMode(req.Mode); !ok {
		return errorJSON(c, fiber.StatusBadRequest, "invalid mode: must be conservative, balanced or aggressive")
	}
	if len(req.Messages) == 0 {
		return errorJSON(c, fiber.StatusBadRequest, "messages cannot be empty")
	}

	if err := eng.credentialCheck(); err != nil {
		s.log.Error("conclude rejected, credential unconfigured", "error", err.Error())
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}

	history := reconstructHistory(req.Proposal, req.Messages)

	timeout := time.Duration(eng.cfg.Server.ConcludeTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(c.Context(), timeout)
	defer cancel()

	conclusion, err := eng.concluder.Generate(ctx, history)
	if err != nil {
		if errors.Is(err, errors.ErrEmptyDebate) {
			return errorJSON(c, fiber.StatusBadRequest, "transcript has no agent messages to conclude")
		}
		if ctx.Err() != nil {
			terr := errors.NewTimeoutError("conclusion generation", timeout).WithCause(err)
			s.log.Error("conclusion generation timed out", "error", terr.Error())
			return errorJSON(c, fiber.StatusGatewayTimeout, "conclusion generation timed out")
		}

		s.log.Error("conclusion generation failed", "error", err.Error())
		msg := "conclusion generation failed"
		if errors.IsUserFacing(err) {
			msg = err.Error()
		}
		return errorJSON(c, fiber.StatusBadGateway, msg)
	}

	return c.JSON(conclusion)
}

// reconstructHistory turns replayed entries into a message sequence,
// prepending the proposal as the round-0 user entry when the client's
// transcript does not already carry one.
func reconstructHistory(proposal string, entries []debate.ReplayEntry) []debate.Message {
	hasProposal := false
	for _, e := range entries {
		if e.Agent == debate.UserAgent && e.Round == 0 {
			hasProposal = true
			break
		}
	}

	if !hasProposal && strings.TrimSpace(proposal) != "" {
		entries = append([]debate.ReplayEntry{
			{Agent: debate.UserAgent, Content: proposal, Round: 0},
		}, entries...)
	}

	sess := debate.NewSession(proposal, debate.ModeBalanced, entries)
	return sess.Messages
}
