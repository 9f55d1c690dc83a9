package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"pvm/internal/paths"
	"pvm/internal/tui"
	"pvm/internal/versiondb"
)

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the container engine, configuration and cached data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, a)
		},
	}
}

type healthCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Summary string `json:"summary"`
}

func runDoctor(cmd *cobra.Command, a *app) error {
	checks := []healthCheck{
		checkEngine(cmd, a),
		checkConfig(a),
		checkCatalog(a, time.Now()),
		checkDatabase(a),
	}
	return writeDoctorResult(cmd, a.paths.Root, checks)
}

func checkEngine(cmd *cobra.Command, a *app) healthCheck {
	info := a.docker.Probe(commandContext(cmd))
	switch {
	case !info.Available:
		return healthCheck{Name: "Engine", Status: "error", Summary: fmt.Sprintf("%s: %s", info.Name, info.Error)}
	case info.Error != "":
		return healthCheck{Name: "Engine", Status: "error", Summary: fmt.Sprintf("%s at %s: %s", info.Name, info.Path, info.Error)}
	default:
		return healthCheck{Name: "Engine", Status: "ok", Summary: fmt.Sprintf("%s %s (%s)", info.Name, info.Version, info.Path)}
	}
}

func checkConfig(a *app) healthCheck {
	if a.configErr != nil {
		return healthCheck{Name: "Config", Status: "error", Summary: a.configErr.Error()}
	}
	var warnings []string
	for _, r := range a.config.ValidateStrict() {
		if r.Level == "warning" {
			warnings = append(warnings, r.Message)
		}
	}
	if len(warnings) > 0 {
		return healthCheck{Name: "Config", Status: "warning", Summary: strings.Join(warnings, "; ")}
	}
	if ok, _ := paths.FileExists(a.paths.ConfigFile); !ok && configPath == "" {
		return healthCheck{Name: "Config", Status: "ok", Summary: "defaults (no config.yaml)"}
	}
	return healthCheck{Name: "Config", Status: "ok", Summary: "valid"}
}

func checkCatalog(a *app, now time.Time) healthCheck {
	if !a.store.Exists() {
		return healthCheck{Name: "Catalog", Status: "warning", Summary: "not cached; run `pvm update`"}
	}
	cat, err := a.store.Read()
	if err != nil {
		return healthCheck{Name: "Catalog", Status: "error", Summary: err.Error()}
	}
	summary := fmt.Sprintf("%d versions", cat.Len())
	if mod, err := a.store.ModTime(); err == nil {
		summary += ", updated " + formatAge(now.Sub(mod)) + " ago"
	}
	return healthCheck{Name: "Catalog", Status: "ok", Summary: summary}
}

func checkDatabase(a *app) healthCheck {
	state, err := versiondb.Load(a.paths.DatabaseFile)
	if err != nil {
		return healthCheck{Name: "Database", Status: "error", Summary: err.Error()}
	}
	summary := fmt.Sprintf("%d installed, global %s, %d local", len(state.Installed), tui.NonEmptyOrDash(state.GlobalVersion()), len(state.Local))
	return healthCheck{Name: "Database", Status: "ok", Summary: summary}
}

func writeDoctorResult(cmd *cobra.Command, root string, checks []healthCheck) error {
	if outputJSON {
		return writeJSON(cmd, checks)
	}

	bold := lipgloss.NewStyle().Bold(true).Inline(true)
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Inline(true)
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Inline(true)
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Inline(true)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, bold.Render("PVM HEALTH:")+" "+root)

	for _, c := range checks {
		var statusStr string
		switch c.Status {
		case "ok":
			statusStr = green.Render("OK")
		case "warning":
			statusStr = yellow.Render("WARN")
		case "error":
			statusStr = red.Render("ERROR")
		}
		fmt.Fprintf(out, "  %-10s %s    %s\n", c.Name+":", statusStr, c.Summary)
	}
	return nil
}

func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "<1m"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
