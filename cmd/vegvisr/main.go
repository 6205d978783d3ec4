// Package main is the entry point for the Vegvísir terminal client.
package main

import (
	"os"

	"github.com/torarnehave1/VegvisrCrossCulturalSearch/cmd/vegvisr/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
