package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"sectorbrief/internal/cli"
)

func main() {
	// Missing .env is fine; environment may be set by the deployment.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
