package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"registrar/cmd"
	"registrar/config"
	"registrar/database"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	appName = "registrar"
	Version = "0.1.0"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Discord registration and manual review bot",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			return runBot()
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run the bot (default)",
		RunE: func(c *cobra.Command, args []string) error {
			return runBot()
		},
	})

	root.AddCommand(migrateCmd())

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(c *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})

	return root
}

func runBot() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info("Received shutdown signal, shutting down gracefully...")
	}()

	return cmd.Run(ctx)
}

func migrateCmd() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrate.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			url, err := migrationURL()
			if err != nil {
				return err
			}
			return database.MigrateUp(url)
		},
	})

	migrate.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			url, err := migrationURL()
			if err != nil {
				return err
			}
			steps := "1"
			if len(args) == 1 {
				steps = args[0]
			}
			return database.MigrateDown(url, steps)
		},
	})

	migrate.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			url, err := migrationURL()
			if err != nil {
				return err
			}
			status, err := database.MigrateStatus(url)
			if err != nil {
				return err
			}
			if !status.Applied {
				fmt.Println("No migrations applied")
				return nil
			}
			fmt.Printf("Current migration version: %d (dirty: %t)\n", status.Version, status.Dirty)
			return nil
		},
	})

	return migrate
}

// migrationURL resolves the database URL without requiring a Discord token
func migrationURL() (string, error) {
	baseURL, name := config.LoadDatabaseURL()
	if baseURL == "" {
		return "", fmt.Errorf("DATABASE_URL is required")
	}
	return database.ConstructDatabaseURL(baseURL, name), nil
}
