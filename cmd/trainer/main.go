package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"polingo/internal/audio"
	"polingo/internal/client"
	"polingo/internal/config"
	"polingo/internal/logger"
	"polingo/internal/trainer"
	"polingo/internal/tui"
)

func main() {
	cfg := config.LoadTrainer()

	// Keep the terminal clean: only warnings and errors while the TUI owns
	// the screen.
	log := logger.New(logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	logger.SetDefault(log)

	api := client.New(cfg.BaseURL, cfg.RequestTimeout)
	ctrl := trainer.New(api, cfg.FeedbackTTL)
	recorder := audio.NewExecRecorder(cfg.RecorderCommand)

	p := tea.NewProgram(tui.New(ctrl, recorder), tea.WithAltScreen())
	ctrl.SetOnChange(func() {
		p.Send(tui.RefreshMsg())
	})

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
