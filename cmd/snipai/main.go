package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"snipai/internal/appinfo"
	"snipai/internal/config"
	"snipai/internal/llm"
	"snipai/internal/pipeline"
	"snipai/internal/prompt"
	"snipai/internal/record"
	"snipai/internal/syncup"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "snipai",
		Short:         "Analyze captured screenshots with an AI model and render the result",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the application config")

	root.AddCommand(newCmd())
	root.AddCommand(runCmd())
	root.AddCommand(listCmd())
	root.AddCommand(configCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type app struct {
	cfg     config.Config
	log     *slog.Logger
	cleanup func() error
	service *pipeline.Service
}

func buildApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, cleanup := config.SetupLogger(cfg.LogFile, config.ParseLogLevel(cfg.LogLevel))

	store := record.NewStore(cfg.DataDir)
	creds := &config.FileCredentials{Path: cfg.CredentialPath()}

	var uploader pipeline.Uploader
	if cfg.Upload.Enabled && syncup.HasCachedToken(cfg.TokenCachePath()) {
		uploader = syncup.NewUploader(cfg.Upload.Endpoint, &syncup.FileTokenSource{Path: cfg.TokenCachePath()})
	}

	orch := &pipeline.Orchestrator{
		Store:       store,
		Assembler:   prompt.New(store.CapturesDir),
		Credentials: creds,
		NewGenerator: func(apiKey string) (pipeline.Generator, error) {
			return llm.NewClient(cfg.LLM, apiKey)
		},
		Uploader: uploader,
		Timeout:  cfg.Timeout(),
		Log:      log,
	}

	return &app{
		cfg:     cfg,
		log:     log,
		cleanup: cleanup,
		service: &pipeline.Service{Store: store, Orchestrator: orch},
	}, nil
}

func (a *app) close() {
	if a != nil && a.cleanup != nil {
		_ = a.cleanup()
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(appinfo.Display())
		},
	}
}
