package main

import (
	"log"
	"os"

	"github.com/aws-solutions/clickstream-devicefarm-runner/cli"
	"github.com/joho/godotenv"
)

// Version information, set by goreleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Load a local .env file when present
	_ = godotenv.Load()

	c := cli.New()
	c.SetVersion(version, commit, date)
	err := c.Run(os.Args)
	if err != nil {
		log.Fatal(err)
		os.Exit(1)
	}
}
