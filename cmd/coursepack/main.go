package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	// Load COURSEPACK_* variables from a .env file next to the project.
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	// Set up context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
