package cmd

import (
	"log"

	"pfengine/internal/config"
	"pfengine/internal/fx"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the evaluation engine's HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() {
	log.Println("========================================")
	log.Println("  Project Finance Evaluation Engine")
	log.Println("========================================")

	cfg := config.Load()

	if err := config.ValidateConfig(); err != nil {
		log.Fatalf("configuration validation failed: %v", err)
	}

	config.PrintConfig()

	log.Printf("Server: http://%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Swagger: http://%s:%s/swagger/index.html", cfg.Server.Host, cfg.Server.Port)

	if config.IsDevelopment() {
		log.Println("Mode: DEVELOPMENT")
	} else {
		log.Println("Mode: PRODUCTION")
	}

	log.Println("Starting dependency injection (Uber FX)...")
	fx.Application().Run()
}
