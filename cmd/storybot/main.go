package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/olivia-0916/storybot/cmd"
)

func main() {
	// A missing .env is fine; credentials can come from the real environment.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
