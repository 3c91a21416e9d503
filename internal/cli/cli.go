package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"lang-editor/internal/config"
	"lang-editor/internal/journal"
	"lang-editor/internal/langfile"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what every command needs once flags are parsed.
type app struct {
	cfg      *config.Config
	logLevel string
	closeLog func()
}

func newRootCmd() *cobra.Command {
	a := &app{closeLog: func() {}}

	rootCmd := &cobra.Command{
		Use:   "lang-editor",
		Short: "Browse and edit .lang localization files",
		Long: `Browse and edit key=value .lang files used by game mods.
Comments, blank lines and line positions are preserved on save.
Run without arguments to open the interactive editor on the mods directory.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.closeLog()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEdit("")
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from LANGEDIT_LOG_LEVEL)")

	rootCmd.AddCommand(a.listCmd())
	rootCmd.AddCommand(a.modsCmd())
	rootCmd.AddCommand(a.showCmd())
	rootCmd.AddCommand(a.getCmd())
	rootCmd.AddCommand(a.setCmd())
	rootCmd.AddCommand(a.addCmd())
	rootCmd.AddCommand(a.deleteCmd())
	rootCmd.AddCommand(a.renameCmd())
	rootCmd.AddCommand(a.cleanCmd())
	rootCmd.AddCommand(a.checkCmd())
	rootCmd.AddCommand(a.compareCmd())
	rootCmd.AddCommand(a.historyCmd())
	rootCmd.AddCommand(a.editCmd())

	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}

	// The editor owns the terminal, so its logs always go to a file.
	interactive := cmd.Name() == "edit" || !cmd.HasParent()
	closeLog, err := setupLogging(level, cfg.LogFile, interactive)
	if err != nil {
		return err
	}
	a.closeLog = closeLog
	return nil
}

// setupLogging points the global logger at stderr, or at file when one is
// set or the session is interactive.
func setupLogging(level, file string, interactive bool) (func(), error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if file == "" && !interactive {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)
		return func() {}, nil
	}

	if file == "" {
		file = filepath.Join(os.TempDir(), "lang-editor.log")
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	log.Logger = zerolog.New(f).With().Timestamp().Logger().Level(lvl)
	return func() { _ = f.Close() }, nil
}

// setupContext returns a context cancelled on SIGINT or SIGTERM.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// openJournal connects the edit journal. A journal that cannot be reached
// is logged and replaced by a no-op so edits still save.
func (a *app) openJournal(ctx context.Context) journal.Recorder {
	rec, err := journal.Open(ctx, a.cfg.DatabaseURL)
	if err != nil {
		log.Warn().Err(err).Msg("Edit journal unavailable, continuing without it")
		return journal.Nop{}
	}
	return rec
}

// loadDocument loads path by its absolute name so journal entries for the
// same file match however it was named on the command line.
func loadDocument(path string) (*langfile.Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	doc := langfile.New()
	if err := doc.Load(abs); err != nil {
		return nil, err
	}
	return doc, nil
}

// mutate loads path, applies fn and saves the result if anything changed.
func (a *app) mutate(cmd *cobra.Command, path string, fn func(doc *langfile.Document) error) error {
	ctx, cancel := setupContext()
	defer cancel()

	doc, err := loadDocument(path)
	if err != nil {
		return err
	}
	before := journal.Snapshot(doc)

	if err := fn(doc); err != nil {
		return err
	}
	if !doc.Dirty() {
		fmt.Fprintln(cmd.OutOrStdout(), "No changes")
		return nil
	}

	rec := a.openJournal(ctx)
	defer rec.Close()

	if _, err := journal.SaveAndRecord(ctx, rec, doc, before); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", doc.FileName())
	return nil
}

func dirArg(args []string, fallback string) string {
	if len(args) > 0 {
		return args[0]
	}
	return fallback
}
