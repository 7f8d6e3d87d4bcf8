package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sadopc/leap/internal/config"
	"github.com/sadopc/leap/internal/export"
	"github.com/sadopc/leap/internal/rollover"
	"github.com/sadopc/leap/internal/session"
	"github.com/sadopc/leap/internal/state"
	"github.com/sadopc/leap/internal/store"
	"github.com/sadopc/leap/internal/tui"
)

var version = "0.1.0-dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "leap",
		Short:   "Track quarterly identity goals and 12-week sprints",
		Version: version,
		Long: `Leap keeps one quarter's identity statement, the active 12-week sprint,
today's priority and micro-action, weekly reviews and a recovery journal
in a local SQLite database.

Run without a subcommand to open the dashboard.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(configPath)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/leap/config.yaml)")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Print the current quarter, today and the active sprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, configPath)
		},
	}

	checkinCmd := &cobra.Command{
		Use:   "checkin",
		Short: "Mark today complete and record it in the daily log",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckin(cmd, configPath)
		},
	}
	checkinCmd.Flags().Int("energy", 0, "set today's energy (1-5) before checking in")
	checkinCmd.Flags().String("priority", "", "set today's priority before checking in")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the snapshot as JSON or week reviews / daily logs as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, configPath)
		},
	}
	exportCmd.Flags().String("format", export.FormatJSON, "export format: json|weeks-csv|days-csv")
	exportCmd.Flags().String("out", "", "output directory (default export_dir from config)")

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the saved snapshot with a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, configPath, args[0])
		},
	}

	rootCmd.AddCommand(statusCmd, checkinCmd, exportCmd, importCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// env is everything a command needs once config has been resolved.
type env struct {
	cfg     *config.Config
	store   *store.Store
	sess    *session.Session
	log     *log.Logger
	cleanup func()
}

func (e *env) Close() {
	e.store.Close()
	e.cleanup()
}

// open loads config, the store and the session. toFile sends logs to the
// configured log file instead of stderr.
func open(configPath string, toFile bool) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, cleanup, err := newLogger(cfg, toFile)
	if err != nil {
		return nil, err
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	sess, err := session.Open(st, cfg.SlotKey, session.WithLogger(logger))
	if err != nil {
		st.Close()
		cleanup()
		return nil, err
	}
	return &env{cfg: cfg, store: st, sess: sess, log: logger, cleanup: cleanup}, nil
}

func runTUI(configPath string) error {
	e, err := open(configPath, true)
	if err != nil {
		return err
	}
	defer e.Close()

	app := tui.NewApp(e.sess, e.store, tui.Options{
		SlotKey:         e.cfg.SlotKey,
		ExportDir:       e.cfg.ExportDir,
		StrongWeekScore: e.cfg.StrongWeekScore,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	sched, err := rollover.New(e.cfg.RolloverSchedule, e.sess, func() {
		p.Send(tui.DayChangedMsg{})
	}, e.log)
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	e.log.Info("dashboard started", "db", e.cfg.DBPath, "slot", e.cfg.SlotKey)
	_, err = p.Run()
	return err
}

func runStatus(cmd *cobra.Command, configPath string) error {
	e, err := open(configPath, false)
	if err != nil {
		return err
	}
	defer e.Close()

	snap := e.sess.Snapshot()
	now := e.sess.Now()
	strong := e.store.SettingFloat("strong_week_score", e.cfg.StrongWeekScore)
	printStatus(cmd, snap, now, strong)

	if info, err := e.store.SlotInfo(e.cfg.SlotKey); err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Saved:    %d bytes in %q, %s\n",
			info.Size, info.Key, info.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runCheckin(cmd *cobra.Command, configPath string) error {
	energy, _ := cmd.Flags().GetInt("energy")
	priority, _ := cmd.Flags().GetString("priority")

	e, err := open(configPath, false)
	if err != nil {
		return err
	}
	defer e.Close()

	var logged state.DailyLog
	var streak int
	err = e.sess.Update(func(s *state.Snapshot, now time.Time) error {
		if priority != "" {
			s.SetDailyPriority(priority)
		}
		if energy != 0 {
			if err := s.SetEnergy(energy); err != nil {
				return err
			}
		}
		logged = s.CompleteDay(now)
		streak = s.DayStreak(now)
		return nil
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Checked in %s (energy %d/5)\n", logged.Date, logged.Energy)
	fmt.Fprintf(out, "Streak: %d day%s\n", streak, plural(streak))
	return nil
}

func runExport(cmd *cobra.Command, configPath string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	e, err := open(configPath, false)
	if err != nil {
		return err
	}
	defer e.Close()

	if out == "" {
		out = e.cfg.ExportDir
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	path, err := export.Write(e.sess.Snapshot(), e.cfg.SlotKey, format, out, e.sess.Now().Format("2006-01-02"))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func runImport(cmd *cobra.Command, configPath, file string) error {
	snap, err := export.FromJSON(file)
	if err != nil {
		return err
	}

	e, err := open(configPath, false)
	if err != nil {
		return err
	}
	defer e.Close()

	if current, err := e.store.LoadSlot(e.cfg.SlotKey); err == nil {
		if _, err := e.store.BackupSlot(e.cfg.SlotKey, current, "import"); err != nil {
			return fmt.Errorf("backup before import: %w", err)
		}
	}
	if err := e.sess.Replace(snap); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s into %q\n", file, e.cfg.SlotKey)
	return nil
}
