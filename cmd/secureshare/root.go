package main

import (
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/konorlevich/secureshare/internal/account"
	"github.com/konorlevich/secureshare/internal/config"
	"github.com/konorlevich/secureshare/internal/inspect"
	"github.com/konorlevich/secureshare/internal/registry"
	"github.com/konorlevich/secureshare/internal/store/database"
)

var errNotLoggedIn = errors.New("not logged in, run `secureshare login` or `secureshare signup` first")

// app holds what every subcommand needs. It is built before a subcommand runs.
type app struct {
	cfg       *config.Config
	l         *log.Entry
	repo      *database.Repository
	accounts  *account.Service
	registry  *registry.Registry
	inspector *inspect.Inspector
}

func (a *app) close() {
	if a.repo == nil {
		return
	}
	if err := a.repo.Close(); err != nil {
		a.l.WithError(err).Error("can't close database")
	}
}

// run wraps a subcommand so the database is closed whatever it returns.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer a.close()
		return fn(cmd, args)
	}
}

func (a *app) requireUser() (*account.UserProfile, error) {
	user, ok := a.accounts.Current()
	if !ok {
		return nil, errNotLoggedIn
	}
	return user, nil
}

func newRootCmd() *cobra.Command {
	var (
		configFile string
		dbFile     string
		logLevel   string
	)
	a := &app{}

	root := &cobra.Command{
		Use:   "secureshare",
		Short: "Keep a private list of uploaded files",
		Long: `secureshare is a single-user file sharing demo.

Sign up once, then upload files: each upload is validated, labelled and
given a content identifier. Everything is kept in a local SQLite file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if dbFile != "" {
				cfg.DBFile = dbFile
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			l := cfg.Logger()
			l.Logger.SetOutput(cmd.ErrOrStderr())
			db, err := database.NewDb(cfg.DBFile, cfg.SQLLog)
			if err != nil {
				l.WithError(err).Error("failed to open database")
				return err
			}
			repo := database.NewRepository(db)

			*a = app{
				cfg:       cfg,
				l:         l,
				repo:      repo,
				accounts:  account.NewService(repo, l),
				registry:  registry.New(repo, l),
				inspector: inspect.NewInspector(cfg.InspectWorkers, l),
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file")
	root.PersistentFlags().StringVar(&dbFile, "db", "", "SQLite file (overrides config and "+config.EnvDBFile+")")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newSignupCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newUploadCmd(a),
		newListCmd(a),
		newDeleteCmd(a),
		newUsageCmd(a),
		newClearCmd(a),
	)
	return root
}
