package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/soulbridgeai/soulbridge-golang/internal/ai"
	"github.com/soulbridgeai/soulbridge-golang/internal/auth"
	"github.com/soulbridgeai/soulbridge-golang/internal/config"
	"github.com/soulbridgeai/soulbridge-golang/internal/credits"
	"github.com/soulbridgeai/soulbridge-golang/internal/database"
	"github.com/soulbridgeai/soulbridge-golang/internal/handlers"
	"github.com/soulbridgeai/soulbridge-golang/internal/payments"
	"github.com/soulbridgeai/soulbridge-golang/internal/routes"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("CRITICAL ERROR: JWT_SECRET environment variable is not set.")
	}
	auth.Init(cfg.JWTSecret)

	// 1. --- Database Connection ---
	db, err := database.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// 2. --- AI Service Initialization ---
	if cfg.GeminiKey == "" {
		log.Fatal("CRITICAL ERROR: GEMINI_API_KEY environment variable is not set.")
	}
	aiService, err := ai.NewService(context.Background(), cfg.GeminiKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("Failed to initialize AI service: %v", err)
	}
	defer aiService.Close()

	// 3. --- Credit Ledger ---
	ledger := credits.NewLedger(credits.NewSQLStore(db), credits.DefaultConfig())

	// 4. --- Stripe Billing ---
	billing := payments.New(db, cfg)

	// --- Application Setup ---
	// All dependencies are injected into the Handlers struct.
	app := &handlers.Handlers{
		DB:      db,
		AI:      aiService,
		Ledger:  ledger,
		Billing: billing,
		Cfg:     cfg,
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app, cfg)

	// --- Start Server ---
	log.Printf("Starting SoulBridge API server on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
