// Command vampware is the application entry point: the HTTP server
// plus the database and maintenance commands.
package main

import (
	"fmt"
	"os"

	"github.com/shashiranjanraj/vampware/config"
	_ "github.com/shashiranjanraj/vampware/database/migrations"
	"github.com/shashiranjanraj/vampware/database/seeders"
	"github.com/shashiranjanraj/vampware/internal/server"
	"github.com/shashiranjanraj/vampware/pkg/database"
	"github.com/shashiranjanraj/vampware/pkg/migration"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	root := &cobra.Command{
		Use:           "vampware",
		Short:         "E-commerce REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		serveCmd(),
		migrateCmd(),
		rollbackCmd(),
		statusCmd(),
		seedCmd(),
		routeListCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := server.New()
			if err != nil {
				return err
			}
			return srv.Run()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db *gorm.DB) error {
				return migration.New(db).Run()
			})
		},
	}
}

func rollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:rollback",
		Short: "Roll back the last migration batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db *gorm.DB) error {
				return migration.New(db).Rollback()
			})
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:status",
		Short: "Show the status of each migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db *gorm.DB) error {
				return migration.New(db).Status()
			})
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(seeders.Run)
		},
	}
}

func routeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route:list",
		Short: "Print the registered routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := server.New()
			if err != nil {
				return err
			}
			fmt.Printf("%-8s %-50s %s\n", "Method", "Path", "Name")
			for _, route := range srv.Router().Routes() {
				fmt.Printf("%-8s %-50s %s\n", route.Method, route.Path, route.Name)
			}
			return nil
		},
	}
}

func withDB(fn func(db *gorm.DB) error) error {
	if err := config.Load(); err != nil {
		return err
	}
	db, err := database.Connect(config.DatabaseDriver(), config.DatabaseDSN())
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close() //nolint:errcheck
		}
	}()
	return fn(db)
}
