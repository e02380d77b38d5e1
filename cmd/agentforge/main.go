package main

import (
	"github.com/joho/godotenv"

	"github.com/lexcodex/agentforge/app/cmd"
)

func main() {
	// API keys for the model clients come from the environment; a local
	// .env is honored when present.
	_ = godotenv.Load()
	cmd.Execute()
}
