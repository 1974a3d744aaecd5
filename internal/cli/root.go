package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/carebill/internal/config"
	"github.com/sadopc/carebill/internal/logging"
	"github.com/sadopc/carebill/internal/report"
	"github.com/sadopc/carebill/internal/store"
	"github.com/sadopc/carebill/internal/tui"
	"github.com/spf13/cobra"
)

var Version = "dev"

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	dbPath     string
}

// session is everything a command needs once configuration is resolved.
type session struct {
	cfg    *config.Config
	store  *store.Store
	gen    *report.Generator
	log    *slog.Logger
	closer io.Closer
}

func (s *session) Close() {
	s.store.Close()
	s.closer.Close()
}

func (g *globalFlags) open() (*session, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.dbPath != "" {
		cfg.DBPath = g.dbPath
	}

	log, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	s, err := store.New(cfg.DBPath)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Debug("database opened", "path", cfg.DBPath)
	return &session{
		cfg:    cfg,
		store:  s,
		gen:    report.NewGenerator(s, log),
		log:    log,
		closer: closer,
	}, nil
}

// NewRootCmd builds the command tree. Without a subcommand it starts the dashboard.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:     "carebill",
		Version: Version,
		Short:   "Timesheets, invoices and payroll for care homes",
		Long: `carebill keeps caregiver timesheets for each house, prices them at the
house's day rates, and produces client invoices and payroll reports.

Run without arguments to open the terminal dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := g.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			app := tui.NewApp(sess.store, sess.gen, sess.cfg.ExportDir)
			_, err = tea.NewProgram(app, tea.WithAltScreen()).Run()
			return err
		},
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default ~/.config/carebill/config.yaml)")
	root.PersistentFlags().StringVar(&g.dbPath, "db", "", "database path, overrides the config file")

	root.AddCommand(
		newReportCmd(g, "invoice"),
		newReportCmd(g, "payroll"),
		newSummaryCmd(g),
		newConfigCmd(g),
	)
	return root
}

// Execute runs the CLI and prints mapped errors with their hints.
func Execute() error {
	err := MapError(NewRootCmd().Execute())
	if err != nil {
		printError(os.Stderr, err)
	}
	return err
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	if cliErr, ok := err.(*CLIError); ok && cliErr.Hint != "" {
		fmt.Fprintf(w, "Hint: %s\n", cliErr.Hint)
	}
}
