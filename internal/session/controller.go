// Package session implements the pause/resume/conclude/reset state
// machine around one debate at a time. The controller mediates
// cancellation: the debate loop runs in a goroutine and every
// state-changing operation aborts it and waits for it to drain before
// touching history, so the loop and the controller never mutate a
// session concurrently.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/collab-arena/arena/internal/debate"
	"github.com/collab-arena/arena/internal/errors"
	"github.com/collab-arena/arena/internal/event"
	"github.com/collab-arena/arena/internal/logging"
)

// State is the controller's externally observable lifecycle state.
type State string

const (
	StateIdle       State = "idle"
	StateRunning    State = "running"
	StatePaused     State = "paused"
	StateConcluding State = "concluding"
	StateCompleted  State = "completed"
)

// Runner drives one debate loop. Satisfied by the orchestrator.
type Runner interface {
	Run(ctx context.Context, sess *debate.Session, bus *event.Bus)
}

// Concluder synthesizes a conclusion from a transcript. Satisfied by
// the conclusion generator.
type Concluder interface {
	Generate(ctx context.Context, history []debate.Message) (*debate.Conclusion, error)
}

// Controller owns at most one debate at a time.
type Controller struct {
	runner    Runner
	concluder Concluder
	bus       *event.Bus
	log       *logging.Logger
	roleCount int

	mu         sync.Mutex
	state      State
	sess       *debate.Session
	cancel     context.CancelFunc
	runDone    chan struct{}
	conclusion *debate.Conclusion
	proposal   string
	mode       debate.Mode
	iteration  int
	// epoch invalidates an in-flight conclusion when Reset or Start
	// races with it.
	epoch int
}

// NewController creates an idle controller. roleCount is the role
// roster size, used to derive the current round when a user comment is
// appended mid-debate.
func NewController(runner Runner, concluder Concluder, bus *event.Bus, log *logging.Logger, roleCount int) *Controller {
	return &Controller{
		runner:    runner,
		concluder: concluder,
		bus:       bus,
		log:       log,
		roleCount: roleCount,
		state:     StateIdle,
	}
}

// Start begins a fresh debate over a proposal. Valid whenever no debate
// is active; any prior conclusion is discarded.
func (c *Controller) Start(proposal string, mode debate.Mode) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateRunning || c.state == StatePaused || c.state == StateConcluding {
		return errors.NewSessionError("cannot start", errors.ErrSessionActive).
			WithSessionID(c.sessionID()).WithState(string(c.state))
	}
	if strings.TrimSpace(proposal) == "" {
		return errors.ErrEmptyProposal
	}

	c.proposal = proposal
	c.mode = mode
	c.conclusion = nil
	c.epoch++
	c.launchLocked(debate.NewSession(proposal, mode, nil))
	c.log.Info("debate started", "session_id", c.sess.ID, "mode", string(mode), "iteration", c.iteration)
	return nil
}

// Pause aborts the in-flight loop and retains the history up to the
// last completed message.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRunning {
		return errors.NewSessionError("cannot pause", errors.ErrSessionNotRunning).
			WithSessionID(c.sessionID()).WithState(string(c.state))
	}
	c.abortLocked()
	c.state = StatePaused
	c.log.Info("debate paused", "session_id", c.sess.ID, "messages", len(c.sess.Messages))
	return nil
}

// ContinueWithComment resumes a paused debate: the comment is appended
// as a user message at the current round and a fresh session is seeded
// with the full retained history. The round-robin position is preserved
// because the resumed loop counts prior non-user messages.
func (c *Controller) ContinueWithComment(comment string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StatePaused {
		return errors.NewSessionError("cannot resume", errors.ErrSessionNotPaused).
			WithSessionID(c.sessionID()).WithState(string(c.state))
	}

	round := c.sess.AgentTurnCount()/c.roleCount + 1
	prior := replayEntries(c.sess.Messages)
	if strings.TrimSpace(comment) != "" {
		prior = append(prior, debate.ReplayEntry{Agent: debate.UserAgent, Content: comment, Round: round})
	}

	c.launchLocked(debate.NewSession(c.proposal, c.mode, prior))
	c.log.Info("debate resumed", "session_id", c.sess.ID, "messages", len(prior))
	return nil
}

// Stop ends the debate and synthesizes a conclusion from the retained
// history. With zero non-empty agent messages the conclusion step is
// skipped entirely and the controller returns to idle with no payload.
// A backend failure during synthesis still completes the stop; the
// error is returned alongside a nil conclusion.
func (c *Controller) Stop(ctx context.Context) (*debate.Conclusion, error) {
	c.mu.Lock()

	if c.state != StateRunning && c.state != StatePaused {
		c.mu.Unlock()
		return nil, errors.NewSessionError("cannot stop", errors.ErrSessionNotRunning).
			WithState(string(c.state))
	}
	c.abortLocked()

	history := c.sess.Messages
	if !hasAgentContent(history) {
		c.log.Info("stop with empty debate, skipping conclusion", "session_id", c.sess.ID)
		c.clearLocked()
		c.mu.Unlock()
		return nil, nil
	}

	c.state = StateConcluding
	epoch := c.epoch
	c.mu.Unlock()

	conclusion, err := c.concluder.Generate(ctx, history)

	c.mu.Lock()
	defer c.mu.Unlock()

	// A reset or restart raced with the synthesis; its result belongs
	// to a discarded debate.
	if c.epoch != epoch || c.state != StateConcluding {
		return nil, errors.ErrCanceled
	}

	if err != nil {
		c.state = StatePaused
		return nil, err
	}

	c.conclusion = conclusion
	c.state = StateCompleted
	c.sess.Status = debate.StatusCompleted
	c.log.Info("debate concluded", "session_id", c.sess.ID)
	return conclusion, nil
}

// Refine discards the current conclusion and starts a fresh debate over
// the same proposal and mode, bumping the iteration counter.
func (c *Controller) Refine() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conclusion == nil {
		return errors.ErrNoConclusion
	}

	c.conclusion = nil
	c.iteration++
	c.epoch++
	c.launchLocked(debate.NewSession(c.proposal, c.mode, nil))
	c.log.Info("debate refined", "session_id", c.sess.ID, "iteration", c.iteration)
	return nil
}

// Reset aborts anything in flight and clears all state unconditionally.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.abortLocked()
	c.clearLocked()
	c.iteration = 0
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Conclusion returns the stored conclusion, or nil when none exists.
func (c *Controller) Conclusion() *debate.Conclusion {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conclusion
}

// Iteration returns how many times the debate has been refined.
func (c *Controller) Iteration() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.iteration
}

// History returns a copy of the retained message history. While the
// debate loop is running the history belongs to the loop goroutine, so
// History returns nil; pause or stop first to inspect messages.
func (c *Controller) History() []debate.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess == nil || c.state == StateRunning {
		return nil
	}
	out := make([]debate.Message, len(c.sess.Messages))
	copy(out, c.sess.Messages)
	return out
}

// sessionID is the current session's ID for error context, or empty
// when no session exists. Caller holds c.mu.
func (c *Controller) sessionID() string {
	if c.sess == nil {
		return ""
	}
	return c.sess.ID
}

// launchLocked installs a session and starts its loop in a goroutine.
// Caller holds c.mu.
func (c *Controller) launchLocked(sess *debate.Session) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	c.sess = sess
	c.cancel = cancel
	c.runDone = done
	c.state = StateRunning

	go func() {
		defer close(done)
		c.runner.Run(ctx, sess, c.bus)
	}()
}

// abortLocked cancels the in-flight loop and waits for it to drain.
// The loop never takes c.mu, so waiting under the lock cannot deadlock.
// Caller holds c.mu.
func (c *Controller) abortLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.runDone != nil {
		<-c.runDone
		c.runDone = nil
	}
}

// clearLocked drops all per-debate state and returns to idle. Caller
// holds c.mu.
func (c *Controller) clearLocked() {
	c.sess = nil
	c.conclusion = nil
	c.proposal = ""
	c.mode = ""
	c.state = StateIdle
	c.epoch++
}

func replayEntries(history []debate.Message) []debate.ReplayEntry {
	out := make([]debate.ReplayEntry, 0, len(history)+1)
	for _, m := range history {
		out = append(out, debate.ReplayEntry{Agent: m.Agent, Content: m.Content, Round: m.Round})
	}
	return out
}

func hasAgentContent(history []debate.Message) bool {
	for _, m := range history {
		if m.Agent != debate.UserAgent && strings.TrimSpace(m.Content) != "" {
			return true
		}
	}
	return false
}
