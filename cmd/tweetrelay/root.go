package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/edgard/tweetrelay/internal/config"
	"github.com/edgard/tweetrelay/internal/database"
	"github.com/edgard/tweetrelay/internal/logger"
)

// Version is set at build time via -ldflags "-X main.Version=v1.0.0".
var Version = "dev"

func execute(ctx context.Context) int {
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("Command failed", "error", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "tweetrelay",
		Short:         "Chat gateway to a conversational agent and X",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGateway(cmd.Context(), cfgFile)
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml if present)")

	root.AddCommand(checkConfigCmd(&cfgFile))
	root.AddCommand(postsCmd(&cfgFile))
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tweetrelay %s\n", Version)
		},
	}
}

func checkConfigCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Load and validate the configuration without connecting anywhere",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return err
			}
			printConfigSummary(cmd.OutOrStdout(), cfg)
			return nil
		},
	}
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "discord\t%t\n", cfg.Discord.Enabled)
	fmt.Fprintf(tw, "telegram\t%t\n", cfg.Telegram.Enabled)
	fmt.Fprintf(tw, "agent backend\t%s\n", cfg.Agent.Backend)
	fmt.Fprintf(tw, "twitter configured\t%t\n", cfg.Twitter.Configured())
	fmt.Fprintf(tw, "required role\t%s\n", cfg.Posting.RequiredRole)
	fmt.Fprintf(tw, "database\t%s\n", cfg.Database.Path)
	fmt.Fprintf(tw, "http api\t%t\n", cfg.HTTP.Enabled)
	_ = tw.Flush()
}

func postsCmd(cfgFile *string) *cobra.Command {
	var (
		dbPath string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List recent posting attempts from the ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dbPath == "" {
				cfg, err := config.Load(*cfgFile)
				if err != nil {
					return err
				}
				dbPath = cfg.Database.Path
			}

			db, err := database.NewDB(dbPath, logger.Discard())
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			attempts, err := database.NewStore(db, nil).RecentPostAttempts(ctx, limit)
			if err != nil {
				return err
			}
			printAttempts(cmd.OutOrStdout(), attempts)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "ledger database path (default: from config)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of attempts to show")
	return cmd
}

func printAttempts(w io.Writer, attempts []database.PostAttempt) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tPLATFORM\tUSER\tINTENT\tRESULT")
	for _, a := range attempts {
		result := a.PostID
		if !a.Success {
			result = "failed: " + a.Reason
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			a.CreatedAt.Local().Format(time.DateTime), a.Platform, a.UserName, a.Intent, result)
	}
	_ = tw.Flush()
}
