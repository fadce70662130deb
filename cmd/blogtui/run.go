package main

import (
	"bufio"
	"context"
	"fmt"
	"pocketblog/config"
	"pocketblog/controllers"
	"pocketblog/db"
	"pocketblog/logging"
	"pocketblog/ui"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// loadConfig reads config.yml and the environment, then applies flags that
// were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.StoreDriver = storeDriver
	}
	if flags.Changed("sqlite-path") {
		cfg.SQLitePath = sqlitePath
	}
	if flags.Changed("redis-url") {
		cfg.RedisURL = redisURL
	}
	if flags.Changed("db-url") {
		cfg.DBURL = dbURL
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*db.PostStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	kv, err := db.Open(ctx, cfg.Store(), logger)
	if err != nil {
		return nil, err
	}
	return db.NewPostStore(kv, logger.Named("store")), nil
}

func themeOptions(flag string) ([]controllers.Option, error) {
	system := controllers.ThemeLight
	if lipgloss.HasDarkBackground() {
		system = controllers.ThemeDark
	}
	opts := []controllers.Option{controllers.WithSystemTheme(system)}

	switch strings.ToLower(flag) {
	case "dark", "":
	case "light":
		opts = append(opts, controllers.WithFollowSystemTheme(), controllers.WithSystemTheme(controllers.ThemeLight))
	case "system":
		opts = append(opts, controllers.WithFollowSystemTheme())
	default:
		return nil, fmt.Errorf("unknown theme %q", flag)
	}
	return opts, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	themeOpts, err := themeOptions(themeFlag)
	if err != nil {
		return err
	}

	logger, err := logging.NewFile(cfg.LogLevel, logFile)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, err := openStore(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var program atomic.Pointer[tea.Program]
	opts := append([]controllers.Option{
		controllers.WithLogger(logger.Named("screen")),
		controllers.WithOnChange(func() {
			if p := program.Load(); p != nil {
				p.Send(ui.ChangedMsg{})
			}
		}),
	}, themeOpts...)
	screen := controllers.NewScreen(store, opts...)

	p := tea.NewProgram(ui.New(screen), tea.WithAltScreen())
	program.Store(p)
	_, runErr := p.Run()
	program.Store(nil)

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := screen.Close(closeCtx); err != nil {
		logger.Error("pending saves were not written", zap.Error(err))
		return fmt.Errorf("pending saves were not written: %w", err)
	}
	return runErr
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		fmt.Fprintf(cmd.OutOrStdout(), "Erase every post in the %s store? [y/N] ", cfg.Store().Driver)
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	logger, err := logging.NewFile(cfg.LogLevel, logFile)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, err := openStore(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Reset(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Store reset.")
	return nil
}
