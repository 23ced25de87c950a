package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/collab-arena/arena/internal/roster"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the debate roles and backends",
	Long: `List the fixed roster of agent roles in speaking order, and the
backend pool each role rotates through. Backends disabled via
debate.disabled_backends are excluded from the pool shown.`,
	RunE: runRoles,
}

var rolesVerbose bool

func init() {
	rootCmd.AddCommand(rolesCmd)

	rolesCmd.Flags().BoolVarP(&rolesVerbose, "verbose", "v", false, "Show each role's full directive")
}

var (
	roleNameStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	roleIndexStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	backendStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("84"))
	headingStyle   = lipgloss.NewStyle().Bold(true).Underline(true).MarginTop(1)
)

func runRoles(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	fmt.Println(headingStyle.Render("Roles (speaking order)"))
	for i, role := range roster.Roles() {
		fmt.Printf("%s %s\n", roleIndexStyle.Render(fmt.Sprintf("%2d.", i+1)), roleNameStyle.Render(role.Name))
		if rolesVerbose {
			fmt.Println("    " + role.Directive)
		}
	}

	backends, err := roster.FilterBackends(cfg.Debate.DisabledBackends)
	if err != nil {
		return err
	}

	fmt.Println(headingStyle.Render("Backends (rotation order)"))
	for i, b := range backends {
		fmt.Printf("%s %s %s\n",
			roleIndexStyle.Render(fmt.Sprintf("%2d.", i+1)),
			backendStyle.Render(b.Label),
			roleIndexStyle.Render("("+b.ID+")"))
	}
	if n := len(roster.Backends()) - len(backends); n > 0 {
		fmt.Println(roleIndexStyle.Render(fmt.Sprintf("%d backend(s) disabled by debate.disabled_backends", n)))
	}

	return nil
}
