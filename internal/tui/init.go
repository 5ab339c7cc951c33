package tui

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/adminctl/internal/adminapi"
	"github.com/studiowebux/adminctl/internal/config"
	"github.com/studiowebux/adminctl/internal/dashboard"
	"github.com/studiowebux/adminctl/internal/dialog"
	"github.com/studiowebux/adminctl/internal/keybinds"
	"github.com/studiowebux/adminctl/internal/notifier"
	"github.com/studiowebux/adminctl/internal/session"
)

// Wire builds a Model on top of api. The dashboard, dialog controller and
// notifier are created here and shared by nothing else.
func Wire(cfg *config.Config, sess *session.Session, api dashboard.API, baseURL string, kb *keybinds.Registry, logger *slog.Logger) *Model {
	n := notifier.New()
	dialogs := dialog.New(n)
	dash := dashboard.New(api, sess, dialogs, dashboard.Options{
		Config:   cfg.Dashboard,
		Notifier: n,
		Logger:   logger,
	})

	return New(Deps{
		Config:    cfg,
		Session:   sess,
		Dialogs:   dialogs,
		Dashboard: dash,
		Notifier:  n,
		Keybinds:  kb,
		Logger:    logger,
		BaseURL:   baseURL,
	})
}

// Run starts the TUI against the configured admin API. Logs go to the log
// file since the terminal belongs to the TUI.
func Run(cfg *config.Config, sess *session.Session) error {
	logFile, err := config.OpenLogFile()
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))

	kb, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		return err
	}
	if result := keybinds.NewValidator().ValidateRegistry(kb); result.HasErrors() {
		return fmt.Errorf("invalid keybindings in %s:\n%s", config.KeybindsFile, result.String())
	} else if result.HasWarnings() {
		logger.Warn("keybinding warnings", "details", result.String())
	}

	client := adminapi.New(adminapi.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
		Logger:    logger,
	}, sess)

	m := Wire(cfg, sess, client, client.BaseURL(), kb, logger)
	defer m.Cleanup()

	logger.Info("console started", "base_url", client.BaseURL())

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
