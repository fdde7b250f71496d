package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/shaowenchen/maverick-mcp-server/pkg/config"
	"github.com/shaowenchen/maverick-mcp-server/pkg/modules/sites"
)

var errCheckFailed = errors.New("maverick connectivity check failed")

var checkCmd = &cobra.Command{
	Use:          "check",
	Short:        "Verify the Maverick API token with a one-record query",
	SilenceUsage: true,
	RunE:         runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	defer logger.Sync()

	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Normalize(); err != nil {
		return err
	}

	module, err := sites.New(cfg.SitesConfig(), logger)
	if err != nil {
		return err
	}

	res := module.Execute(context.Background(), sites.OpQuerySites, map[string]any{"batchSize": 1})
	if res.Failed() {
		logger.Error("Connectivity check failed",
			zap.String("base_url", cfg.Maverick.BaseURL),
			zap.String("kind", string(res.Kind)))
		fmt.Fprintln(cmd.ErrOrStderr(), res.Text)
		return errCheckFailed
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Authenticated against %s\n", cfg.Maverick.BaseURL)
	return nil
}
