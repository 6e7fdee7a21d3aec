package main

import (
	"os"

	"github.com/keelworks/pairpool/cmd/pairpoold/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
