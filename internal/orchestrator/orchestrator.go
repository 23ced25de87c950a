package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/collab-arena/arena/internal/config"
	"github.com/collab-arena/arena/internal/debate"
	"github.com/collab-arena/arena/internal/errors"
	"github.com/collab-arena/arena/internal/event"
	"github.com/collab-arena/arena/internal/llm"
	"github.com/collab-arena/arena/internal/logging"
	"github.com/collab-arena/arena/internal/prompt"
	"github.com/collab-arena/arena/internal/roster"
	"github.com/collab-arena/arena/internal/util"
)

// maxErrorReasonLen bounds the upstream error text carried in an
// agent_error event.
const maxErrorReasonLen = 160

// Orchestrator drives debate sessions: one Run per session, publishing
// the event stream to the session's bus until canceled.
type Orchestrator struct {
	factory  llm.Factory
	builder  *prompt.Builder
	roles    []roster.Role
	backends []roster.Backend
	log      *logging.Logger

	// Per-turn token budgets by backend shape.
	searchBudget  int
	genericBudget int
}

// New builds an Orchestrator from configuration: the full role roster,
// the backend roster minus any disabled patterns, and the configured
// token budgets.
func New(cfg *config.Config, factory llm.Factory, log *logging.Logger) (*Orchestrator, error) {
	backends, err := roster.FilterBackends(cfg.Debate.DisabledBackends)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		factory:       factory,
		builder:       &prompt.Builder{RecentKeep: cfg.Debate.RecentKeep},
		roles:         roster.Roles(),
		backends:      backends,
		log:           log,
		searchBudget:  cfg.Perplexity.MaxTokens,
		genericBudget: cfg.OpenRouter.MaxTokens,
	}, nil
}

// Run executes the debate loop for one session until ctx is canceled.
// It owns the event stream lifecycle: a done event is published exactly
// once, as the very last event, on every exit path including panics.
//
// Run is synchronous; callers that want a background debate start it in
// a goroutine and cancel ctx to pause or stop.
func (o *Orchestrator) Run(ctx context.Context, sess *debate.Session, bus *event.Bus) {
	log := o.log.WithSession(sess.ID)

	defer bus.Publish(event.NewDoneEvent())
	defer func() {
		if r := recover(); r != nil {
			log.Error("debate loop panic", "panic", fmt.Sprint(r))
			sess.Status = debate.StatusError
			bus.Publish(event.NewErrorEvent("internal error"))
		}
	}()

	n := len(o.roles)
	rot := newRotation(roleNames(o.roles), len(o.backends))

	log.Info("debate loop starting",
		"mode", string(sess.Mode),
		"roles", n,
		"backends", len(o.backends),
		"resumed_turns", sess.AgentTurnCount())

	for t := sess.AgentTurnCount(); ; t++ {
		if ctx.Err() != nil {
			return
		}

		round := t/n + 1
		if t%n == 0 {
			bus.Publish(event.NewRoundStartEvent(round))
		}

		o.runTurn(ctx, sess, bus, rot, o.roles[t%n], round, log.WithRound(round))

		// An abort mid-round ends the stream without a round_end; the
		// round visibly never completed.
		if ctx.Err() != nil {
			return
		}
		if (t+1)%n == 0 {
			bus.Publish(event.NewRoundEndEvent(round))
		}
	}
}

// runTurn gives one role its turn: up to len(backends) attempts
// starting at the role's rotation cursor. Success appends exactly one
// message and advances the cursor; exhaustion skips the turn with the
// cursor unchanged, so the next turn retries from the same position.
func (o *Orchestrator) runTurn(ctx context.Context, sess *debate.Session, bus *event.Bus, rot *rotation, role roster.Role, round int, log *logging.Logger) {
	m := len(o.backends)
	start := rot.cursor(role.Name)

	for attempt := 0; attempt < m; attempt++ {
		if ctx.Err() != nil {
			return
		}

		idx := (start + attempt) % m
		backend := o.backends[idx]
		agent := debate.AgentID{Role: role.Name, Backend: backend.ID}
		alog := log.WithAgent(agent.String())

		content, err := o.attempt(ctx, sess, bus, role, agent, backend, round)
		if err != nil {
			// A client abort mid-stream is not a backend failure: the
			// turn is discarded whole, with no further events.
			if ctx.Err() != nil {
				return
			}

			// The wire reason carries the bare upstream text; the role
			// context enriches only the log line.
			reason := util.TruncateString(err.Error(), maxErrorReasonLen)
			var bErr *errors.BackendError
			if errors.As(err, &bErr) {
				bErr.WithRole(role.Name)
			}
			if errors.GetSeverity(err) >= errors.SeverityError {
				alog.Error("backend attempt failed", "attempt", attempt+1, "retryable", errors.IsRetryable(err), "error", err.Error())
			} else {
				alog.Warn("backend attempt failed", "attempt", attempt+1, "retryable", errors.IsRetryable(err), "error", err.Error())
			}

			label := prompt.SpeakerLabel(agent.String())
			if attempt == m-1 {
				bus.Publish(event.NewAgentErrorEvent(agent,
					fmt.Sprintf("%s failed: %s", label, reason)))
				bus.Publish(event.NewMessageEndEvent(agent, round))
				bus.Publish(event.NewAgentErrorEvent(agent,
					fmt.Sprintf("All backends failed for %s. Skipping turn.", role.Name)))
				bus.Publish(event.NewMessageEndEvent(agent, round))
				exhausted := errors.Wrapf(errors.ErrBackendsExhausted, "%s after %d attempts", role.Name, m)
				log.Warn("turn skipped", "role", role.Name, "error", exhausted.Error())
				return
			}

			bus.Publish(event.NewAgentErrorEvent(agent,
				fmt.Sprintf("%s failed: %s. Trying next backend...", label, reason)))
			bus.Publish(event.NewMessageEndEvent(agent, round))
			continue
		}

		if ctx.Err() != nil {
			return
		}

		sess.Append(round, agent.String(), content)
		bus.Publish(event.NewMessageEndEvent(agent, round))
		rot.advance(role.Name, idx)
		alog.Info("turn completed", "attempt", attempt+1, "chars", len(content))
		return
	}
}

// attempt runs one backend call: message_start, the prompt build, the
// streamed generation with each fragment republished as a token event,
// and the empty-response check. The accumulated text is returned on
// success; events for the attempt's outcome are the caller's concern.
func (o *Orchestrator) attempt(ctx context.Context, sess *debate.Session, bus *event.Bus, role roster.Role, agent debate.AgentID, backend roster.Backend, round int) (string, error) {
	bus.Publish(event.NewMessageStartEvent(agent, round))

	streamer, err := o.factory(backend)
	if err != nil {
		return "", err
	}

	messages := o.builder.Build(sess.Messages, role, agent, sess.Mode, round)

	budget := o.genericBudget
	if backend.Type == roster.TypeSearch {
		budget = o.searchBudget
	}

	var sb strings.Builder
	onDelta := func(delta string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		sb.WriteString(delta)
		bus.Publish(event.NewTokenEvent(agent, round, delta))
		return ctx.Err()
	}

	if err := streamer.Stream(ctx, messages, budget, onDelta); err != nil {
		return "", err
	}

	content := strings.TrimSpace(sb.String())
	if content == "" {
		return "", errors.ErrEmptyResponse
	}
	return content, nil
}

func roleNames(roles []roster.Role) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.Name
	}
	return names
}
