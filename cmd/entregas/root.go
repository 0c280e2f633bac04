package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"logisticsmart/internal/config"
	"logisticsmart/internal/infrastructure"
	"logisticsmart/pkg/contracts"
)

// clock is replaced in tests
var clock = time.Now

// environment is the configuration shared by every subcommand
type environment struct {
	cfg    *config.Config
	paths  *config.Paths
	logger *slog.Logger
}

type rootOptions struct {
	baseDir string
	debug   bool
	env     *environment
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "entregas",
		Version:       contracts.Version,
		Short:         "Relatórios de entregas por entregador",
		Long:          `entregas gera os relatórios agrupados por entregador a partir de uma planilha de entregas e administra as contas de acesso do LogisticSmart.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load()
			if err != nil {
				return err
			}
			opts.env = env
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.baseDir, "base-dir", "", "diretório base dos dados (padrão: configuração ou diretório atual)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "registra mensagens de depuração")

	cmd.AddCommand(newReportCmd(opts))
	cmd.AddCommand(newUsersCmd(opts))
	return cmd
}

// load reads the configuration and opens the log file under the logs
// directory so that stdout only carries operator messages
func (o *rootOptions) load() (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar configuração: %w", err)
	}
	if o.baseDir != "" {
		abs, err := filepath.Abs(o.baseDir)
		if err != nil {
			return nil, fmt.Errorf("diretório base inválido: %w", err)
		}
		cfg.Paths.BaseDir = abs
	}

	paths := cfg.ResolvedPaths()
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("falha ao criar diretórios: %w", err)
	}

	cfg.Logging.Output = "file"
	cfg.Logging.FilePath = paths.LogFile
	if o.debug {
		cfg.Logging.Level = "debug"
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("falha ao iniciar log: %w", err)
	}

	return &environment{
		cfg:    cfg,
		paths:  paths,
		logger: logger.With(slog.String("component", "cli")),
	}, nil
}
