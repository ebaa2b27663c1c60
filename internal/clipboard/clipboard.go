// Package clipboard writes and reads text on the system clipboard.
package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"

	"github.com/rtiagent/rtichat/internal/logger"
)

var (
	mu          sync.Mutex
	initialized bool
	initFn      = clipboard.Init
	writeFn     = func(b []byte) { clipboard.Write(clipboard.FmtText, b) }
	readFn      = func() []byte { return clipboard.Read(clipboard.FmtText) }
)

// Init initializes the clipboard. It is safe to call multiple times.
func Init() error {
	mu.Lock()
	defer mu.Unlock()
	return initLocked()
}

func initLocked() error {
	if initialized {
		return nil
	}
	if err := initFn(); err != nil {
		logger.WithComponent("clipboard").Warn("failed to initialize", "error", err)
		return fmt.Errorf("failed to initialize clipboard: %w", err)
	}
	initialized = true
	return nil
}

// WriteText places text on the clipboard.
func WriteText(text string) error {
	mu.Lock()
	defer mu.Unlock()
	if err := initLocked(); err != nil {
		return err
	}
	writeFn([]byte(text))
	logger.WithComponent("clipboard").Debug("wrote text", "bytes", len(text))
	return nil
}

// ReadText returns the clipboard text, or "" if it holds none.
func ReadText() (string, error) {
	mu.Lock()
	defer mu.Unlock()
	if err := initLocked(); err != nil {
		return "", err
	}
	return string(readFn()), nil
}

// setBackend swaps the platform clipboard for an in-memory one. Tests only.
func setBackend(init func() error, write func([]byte), read func() []byte) func() {
	mu.Lock()
	defer mu.Unlock()
	prevInit, prevWrite, prevRead, prevInitialized := initFn, writeFn, readFn, initialized
	initFn, writeFn, readFn, initialized = init, write, read, false
	return func() {
		mu.Lock()
		defer mu.Unlock()
		initFn, writeFn, readFn, initialized = prevInit, prevWrite, prevRead, prevInitialized
	}
}
