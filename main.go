package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sportify/config"
	"sportify/database"
	"sportify/routers"
	"sportify/services"
	"sportify/utils"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "sportify",
		Short:   "Sportify - summer sports camp enrollment server",
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadConfig()
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(reconcileCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}

	cmd.Flags().String("port", "", "listen port (overrides PORT)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.AppConfig
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}

	dbi, err := database.ConnectDb(cfg)
	if err != nil {
		return err
	}
	defer dbi.Close()

	var notifier services.Notifier
	if mailer := utils.NewMailer(cfg.SendgridApiKey, cfg.EmailSender); mailer != nil {
		notifier = mailer
	}
	settler := services.NewSettler(dbi.Db, cfg.SettlementMode, notifier)
	log.Printf("[SETTLEMENT] mode: %s", settler.Mode)

	scheduler, err := utils.StartReconcileScheduler(cfg.ReconcileSchedule, dbi.Db)
	if err != nil {
		return err
	}
	if scheduler != nil {
		defer scheduler.Stop()
	}

	app := routers.NewApp(routers.Deps{
		DB:          dbi.Db,
		Settler:     settler,
		Gateway:     utils.NewPaymentGateway(cfg.StripeApiURL, cfg.StripeSecretKey),
		CorsOrigins: cfg.CorsOrigins,
		AccessLog:   true,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server is running on port %s", cfg.Port)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Printf("Received %s, shutting down", sig)
	}

	return app.ShutdownWithTimeout(10 * time.Second)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbi, err := database.ConnectDb(config.AppConfig)
			if err != nil {
				return err
			}
			defer dbi.Close()

			fmt.Println("Migrations applied.")
			return nil
		},
	}
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Report drift between class counters and enrollments",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbi, err := database.ConnectDb(config.AppConfig)
			if err != nil {
				return err
			}
			defer dbi.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			report, err := services.Reconcile(ctx, dbi.Db)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
}
