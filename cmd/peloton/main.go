// Command peloton runs the race simulation in a terminal, headless, or behind a websocket viewer feed
package main

import (
	"os"

	"github.com/lixenwraith/peloton/core"
)

func main() {
	// Panic Recovery: Ensure terminal is reset even if the race crashes
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
