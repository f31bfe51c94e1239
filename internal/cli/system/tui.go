package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dailycoach/internal/auth"
	"github.com/julianstephens/dailycoach/internal/cli"
	"github.com/julianstephens/dailycoach/internal/pages"
	"github.com/julianstephens/dailycoach/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	// Snapshot on startup, after a successful load
	ctx.PerformAutomaticBackup()

	model := tui.NewModel(auth.NewService(ctx.Store), pages.NewController(ctx.Store), auth.AnonymousSession())
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}
