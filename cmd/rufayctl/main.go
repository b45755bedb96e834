package main

import (
	"log"

	"github.com/joho/godotenv"

	"rufay/cmd/rufayctl/cmd"
	"rufay/internal/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// commands load the full configuration themselves; until then log to the console
	if err := logger.Setup(logger.DefaultConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	cmd.Execute()
}
