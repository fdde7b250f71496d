package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shaowenchen/maverick-mcp-server/cmd/version"
	"github.com/shaowenchen/maverick-mcp-server/pkg/config"
	"github.com/shaowenchen/maverick-mcp-server/pkg/metrics"
	"github.com/shaowenchen/maverick-mcp-server/pkg/modules/sites"
	"github.com/shaowenchen/maverick-mcp-server/pkg/server"
)

var (
	cfgFile string
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "maverick-mcp-server",
	Short: "Maverick MCP Server - site management tools over MCP",
	Long:  `An MCP server exposing Maverick site management operations (create, query, inspect, manage and resize status) as tools.`,
	RunE:  runServer,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is configs/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("host", "0.0.0.0", "Server host")
	rootCmd.PersistentFlags().Int("port", 3000, "Server port")
	rootCmd.PersistentFlags().String("mode", config.ModeStdio, "Server mode: stdio or sse")
	rootCmd.PersistentFlags().String("base-url", sites.DefaultBaseURL, "Maverick API base URL")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("server.host", rootCmd.PersistentFlags().Lookup("host"))
	viper.BindPFlag("server.port", rootCmd.PersistentFlags().Lookup("port"))
	viper.BindPFlag("server.mode", rootCmd.PersistentFlags().Lookup("mode"))
	viper.BindPFlag("maverick.baseUrl", rootCmd.PersistentFlags().Lookup("base-url"))

	viper.BindEnv("maverick.token", "MAVERICK_API_TOKEN")
	viper.BindEnv("maverick.baseUrl", "MAVERICK_BASE_URL")
	viper.BindEnv("auth.token", "MCP_AUTH_TOKEN")

	viper.SetDefault("maverick.enabled", true)
	viper.SetDefault("maverick.timeout", sites.DefaultTimeout)
	viper.SetDefault("metrics.enabled", true)

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	configErr := viper.ReadInConfig()

	var err error
	logger, err = newLogger(viper.GetString("log.level"))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if configErr != nil {
		logger.Debug("No config file loaded, using flags and environment", zap.Error(configErr))
	} else {
		logger.Info("Loaded config file", zap.String("file", viper.ConfigFileUsed()))
	}
}

// newLogger builds a development logger at debug level and a production
// logger otherwise. Logs go to stderr so stdio mode keeps stdout for MCP.
func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func runServer(cmd *cobra.Command, args []string) error {
	defer logger.Sync()

	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Normalize(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		metrics.Init(logger)
		metrics.SetBuildInfo(version.BuildVersion, version.GitCommitID, version.BuildDate)
		metrics.StartSystemMetricsCollector(ctx, logger)
	}

	logger.Info("Starting Maverick MCP Server",
		zap.String("version", version.String()),
		zap.String("mode", cfg.Server.Mode),
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("base_url", cfg.Maverick.BaseURL),
		zap.Bool("maverick_enabled", cfg.Maverick.Enabled),
		zap.Bool("auth_enabled", cfg.Auth.Enabled),
		zap.Bool("metrics_enabled", cfg.Metrics.Enabled),
	)

	srv, err := server.New(&cfg, logger)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
