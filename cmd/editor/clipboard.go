package main

import (
	"errors"
	"log"
	"runtime"
	"strings"
	"sync"

	"golang.design/x/clipboard"
)

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

// initClipboard prepares the system clipboard once. Browser builds skip it.
func initClipboard() error {
	clipboardOnce.Do(func() {
		if runtime.GOARCH == "wasm" || runtime.GOOS == "js" {
			clipboardErr = errClipboardUnavailable
			return
		}
		clipboardErr = clipboard.Init()
	})
	return clipboardErr
}

var errClipboardUnavailable = errors.New("clipboard unavailable on this platform")

// selectionText is what Ctrl+C puts on the clipboard: one district id per line.
func selectionText(ids []string) string {
	return strings.Join(ids, "\n")
}

func copySelection(ids []string) {
	if len(ids) == 0 {
		return
	}
	if err := initClipboard(); err != nil {
		log.Printf("Copy failed: %v", err)
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(selectionText(ids)))
	log.Printf("Copied %d district ids", len(ids))
}
