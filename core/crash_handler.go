// Package core holds process-level plumbing shared by the hosts
package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
)

// Finisher restores a terminal to its pre-application state
type Finisher interface {
	Fini()
}

var (
	crashMu     sync.Mutex
	crashScreen Finisher
)

// emergencyReset disables mouse tracking, shows the cursor, leaves the alternate screen
// and resets attributes for a terminal with no registered screen
var emergencyReset = []string{
	"\x1b[?1003l", "\x1b[?1002l", "\x1b[?1000l", "\x1b[?1006l",
	"\x1b[?25h", "\x1b[?1049l", "\x1b[0m", "\x1b[?7h",
}

// RegisterCrashScreen sets the screen HandleCrash finalizes; nil unregisters
func RegisterCrashScreen(s Finisher) {
	crashMu.Lock()
	crashScreen = s
	crashMu.Unlock()
}

// HandleCrash is the unified panic handler that resets the terminal and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	screen := crashScreen
	crashMu.Unlock()

	// Restore terminal to sane state immediately
	if screen != nil {
		screen.Fini()
	} else {
		for _, seq := range emergencyReset {
			os.Stdout.WriteString(seq)
		}
	}
	os.Stdout.Sync()
	os.Stderr.Sync()

	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Stderr.Sync()

	os.Exit(1)
}

// Go runs a function in a new goroutine with panic recovery
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
