package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/votemap/config"
	"github.com/milk9111/votemap/journal"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.History > 0 {
		if err := printHistory(os.Stdout, cfg.Journal, cfg.History); err != nil {
			log.Fatalf("Failed to read journal: %v", err)
		}
		return
	}

	log.Println("Editor starting...")
	log.Printf("Map server: %s", cfg.Server)

	game, err := NewEditorGame(cfg)
	if err != nil {
		log.Fatalf("Failed to start editor: %v", err)
	}
	defer game.Close()

	ebiten.SetWindowTitle("votemap editor")
	ebiten.SetWindowSize(1500, 900)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}

// printHistory lists the newest journal entries, one per line.
func printHistory(w io.Writer, path string, n int) error {
	if path == "" {
		return errors.New("no journal configured")
	}
	j, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.Recent(context.Background(), n)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "no edits recorded")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintln(w, historyLine(e))
	}
	return nil
}

func historyLine(e journal.Entry) string {
	districts := strings.Join(e.Districts, ",")
	if len(e.Districts) > 3 {
		districts = fmt.Sprintf("%s,… (%d districts)", strings.Join(e.Districts[:3], ","), len(e.Districts))
	}
	id := e.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s  %-6s  %-30s  %s  %s", id, e.Kind, districts, humanize.Time(e.CreatedAt), string(e.Payload))
}
