package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Legendarylibr/botnet-agg/aggregator"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath string
	sources    []string
	inputFile  string
	outputFile string
	reportFile string
	push       bool
	ratePerSec float64
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "aggregator",
	Short: "Consolida listas de endereços de botnet e cria regras de bloqueio",
	Long: `aggregator baixa listas públicas de endereços (e/ou lê um arquivo local),
extrai os IPs com forma válida, remove duplicatas e grava a lista consolidada
junto com um relatório por endereço. Com --push, cria uma regra de bloqueio
por endereço no provedor configurado; regra repetida conta como duplicata,
não como falha.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "arquivo YAML de configuração")
	rootCmd.Flags().StringArrayVar(&sources, "source", nil, "URL de fonte, repetível, soma às do arquivo")
	rootCmd.Flags().StringVar(&inputFile, "input", "", "arquivo local com endereços")
	rootCmd.Flags().StringVar(&outputFile, "output", "", "destino da lista consolidada")
	rootCmd.Flags().StringVar(&reportFile, "report", "", "destino do relatório JSON")
	rootCmd.Flags().BoolVar(&push, "push", false, "cria as regras no provedor")
	rootCmd.Flags().Float64Var(&ratePerSec, "rate", 0, "chamadas por segundo ao provedor")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "debug, info, warn ou error")
}

func run(cmd *cobra.Command, _ []string) error {
	cfg := &aggregator.Config{}
	if configPath != "" {
		loaded, err := aggregator.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// flags completam ou sobrescrevem o arquivo
	cfg.Sources = append(cfg.Sources, sources...)
	if inputFile != "" {
		cfg.Input = inputFile
	}
	if outputFile != "" {
		cfg.Output = outputFile
	}
	if reportFile != "" {
		cfg.Report = reportFile
	}
	if cmd.Flags().Changed("push") {
		cfg.Push = push
	}
	if ratePerSec > 0 {
		cfg.Provider.RatePerSecond = ratePerSec
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := buildLogger(logLevel)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runner := &aggregator.Runner{Config: *cfg, Logger: logger}
	if cfg.Push {
		runner.Provider = aggregator.NewProviderClient(aggregator.ProviderOptions{
			URL:           cfg.Provider.URL,
			Token:         cfg.Provider.Token,
			RatePerSecond: cfg.Provider.RatePerSecond,
			Timeout:       time.Duration(cfg.Provider.TimeoutSeconds) * time.Second,
		})
	}

	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("addresses: %d  created: %d  duplicate: %d  failed: %d  dry_run: %d\n",
		report.Total,
		report.Counts[aggregator.OutcomeCreated],
		report.Counts[aggregator.OutcomeDuplicate],
		report.Counts[aggregator.OutcomeFailed],
		report.Counts[aggregator.OutcomeDryRun],
	)
	if failed := report.Counts[aggregator.OutcomeFailed]; failed > 0 {
		return fmt.Errorf("%d rule creations failed", failed)
	}
	return nil
}

func buildLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	return zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(os.Stderr), lvl))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
