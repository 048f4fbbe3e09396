package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/grandlivre-dev/grandlivre/internal/commands"
)

func main() {
	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
