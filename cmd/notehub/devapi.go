package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"notehub/internal/auth"
	"notehub/internal/config"
	"notehub/internal/db"
	"notehub/internal/devapi"
	mw "notehub/internal/http/middleware"

	"github.com/spf13/cobra"
)

var devapiCmd = &cobra.Command{
	Use:   "devapi",
	Short: "Local stand-in for the remote notes service",
}

var devapiServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the notes API from Postgres",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadDevAPI()
		if err != nil {
			return err
		}

		gdb, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		if err := db.AutoMigrateAndIndexes(gdb, devapi.Models(), devapi.Indexes); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		jwtSvc := auth.NewJWT(cfg.JWTSecret)
		r := devapi.NewRouter(devapi.RouterConfig{
			CORS: mw.CORSConfig{
				AllowedOrigins:   cfg.CORSAllowedOrigins,
				AllowCredentials: cfg.CORSAllowCredentials,
			},
		}, &devapi.Store{DB: gdb}, jwtSvc, slog.Default())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		return listenAndServe(ctx, cancel, cfg.HTTPAddr, r)
	},
}

var (
	tokenTTL     time.Duration
	tokenSubject string
)

var devapiTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a bearer token for NOTEHUB_TOKEN",
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, err := config.JWTSecret()
		if err != nil {
			return err
		}
		tok, err := auth.NewJWT(secret).Sign(tokenSubject, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	devapiTokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 30*24*time.Hour, "token lifetime, 0 for no expiry")
	devapiTokenCmd.Flags().StringVar(&tokenSubject, "sub", "notehub-web", "token subject")

	devapiCmd.AddCommand(devapiServeCmd, devapiTokenCmd)
	rootCmd.AddCommand(devapiCmd)
}
