package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/collab-arena/arena/internal/conclusion"
	"github.com/collab-arena/arena/internal/debate"
	"github.com/collab-arena/arena/internal/event"
	"github.com/collab-arena/arena/internal/llm"
	"github.com/collab-arena/arena/internal/logging"
	"github.com/collab-arena/arena/internal/orchestrator"
	"github.com/collab-arena/arena/internal/prompt"
	"github.com/collab-arena/arena/internal/roster"
	"github.com/collab-arena/arena/internal/session"
)

var runCmd = &cobra.Command{
	Use:   "run <proposal>",
	Short: "Run a debate in the terminal",
	Long: `Run a debate over a proposal directly in the terminal, streaming
each agent's contribution as it is generated.

The debate runs until interrupted (Ctrl+C) or until --rounds complete
rounds have finished; either way the transcript is then collapsed into
a structured conclusion and printed.

Examples:
  # Debate until Ctrl+C, balanced risk posture
  arena run "Launch a paid tier for the API"

  # Three full rounds, aggressive posture
  arena run --mode aggressive --rounds 3 "Rewrite the billing system"`,
	Args: cobra.ExactArgs(1),
	RunE: runDebate,
}

var (
	runMode   string
	runRounds int
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runMode, "mode", "m", "balanced", "Risk posture: conservative, balanced or aggressive")
	runCmd.Flags().IntVarP(&runRounds, "rounds", "r", 0, "Stop after this many complete rounds (0 = run until interrupted)")
}

var (
	roundStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginTop(1)
	speakerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("84")).MarginTop(1)
)

func runDebate(cmd *cobra.Command, args []string) error {
	proposal := args[0]
	mode := debate.ParseMode(runMode)

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = log.Close() }()

	factory := llm.NewFactory(cfg)
	orch, err := orchestrator.New(cfg, factory, log)
	if err != nil {
		return err
	}

	bus := event.NewBus()
	roundsDone := make(chan struct{})
	attachPrinter(bus, roundsDone)

	ctrl := session.NewController(orch, conclusion.New(cfg, factory, log), bus, log, len(roster.Roles()))

	fmt.Println(titleStyle.Render("Proposal"))
	fmt.Println(proposal)
	fmt.Println(dimStyle.Render(fmt.Sprintf("mode: %s (press Ctrl+C to stop and conclude)", mode)))

	if err := ctrl.Start(proposal, mode); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		fmt.Println()
		fmt.Println(dimStyle.Render("Stopping debate..."))
	case <-roundsDone:
		fmt.Println()
		fmt.Println(dimStyle.Render(fmt.Sprintf("%d rounds complete, concluding...", runRounds)))
	}

	concl, err := ctrl.Stop(context.Background())
	if err != nil {
		return fmt.Errorf("conclusion failed: %w", err)
	}
	if concl == nil {
		fmt.Println(dimStyle.Render("No agent contributions recorded; nothing to conclude."))
		return nil
	}

	printConclusion(concl)
	return nil
}

// attachPrinter subscribes a terminal renderer to the event stream.
// roundsDone is closed once --rounds complete rounds have finished;
// with --rounds 0 it never closes.
func attachPrinter(bus *event.Bus, roundsDone chan struct{}) {
	completed := 0

	bus.SubscribeAll(func(e event.Event) {
		switch ev := e.(type) {
		case event.RoundStartEvent:
			fmt.Println()
			fmt.Println(roundStyle.Render(fmt.Sprintf("── Round %d ──", ev.Round)))
		case event.MessageStartEvent:
			fmt.Println()
			fmt.Println(speakerStyle.Render(prompt.SpeakerLabel(ev.Agent.String())))
		case event.TokenEvent:
			fmt.Print(ev.Data)
		case event.AgentErrorEvent:
			fmt.Println()
			fmt.Println(errStyle.Render("⚠ " + ev.Data))
		case event.RoundEndEvent:
			completed++
			if runRounds > 0 && completed == runRounds {
				close(roundsDone)
			}
		case event.ErrorEvent:
			fmt.Println()
			fmt.Println(errStyle.Render("stream error: " + ev.Data))
		}
	})
}

func printConclusion(c *debate.Conclusion) {
	fmt.Println(titleStyle.Render("Conclusion"))
	fmt.Println(c.StrategySummary)

	if c.ProfitabilityModel != "" {
		fmt.Println(titleStyle.Render("Profitability"))
		fmt.Println(c.ProfitabilityModel)
	}

	if len(c.RiskAssessment) > 0 {
		fmt.Println(titleStyle.Render("Risks"))
		for _, r := range c.RiskAssessment {
			fmt.Printf("  [%s] %s\n", strings.ToUpper(string(r.Severity)), r.Risk)
			if r.Mitigation != "" {
				fmt.Println(dimStyle.Render("        mitigation: " + r.Mitigation))
			}
		}
	}

	if len(c.Constraints) > 0 {
		fmt.Println(titleStyle.Render("Constraints"))
		for _, item := range c.Constraints {
			fmt.Println("  • " + item)
		}
	}

	if len(c.ImplementationSteps) > 0 {
		fmt.Println(titleStyle.Render("Implementation"))
		for i, step := range c.ImplementationSteps {
			fmt.Printf("  %d. %s\n", i+1, step)
		}
	}

	if len(c.OpenQuestions) > 0 {
		fmt.Println(titleStyle.Render("Open Questions"))
		for _, q := range c.OpenQuestions {
			fmt.Println("  • " + q)
		}
	}
}
