package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"formicarium/internal/config"
	"formicarium/internal/domain"
	"formicarium/internal/messaging/inproc"
	"formicarium/internal/runner"
	sqlitestore "formicarium/internal/store/sqlite"
)

func main() {
	configPath := flag.String("config", "", "path to config.toml (default: ~/.formicarium/config.toml)")
	dbPathFlag := flag.String("db", "", "sqlite database path override")
	seedFlag := flag.Int64("seed", 0, "simulation seed override")
	flag.Parse()

	cfg, warn := config.LoadOrDefault(*configPath)
	if warn != nil {
		fmt.Fprintf(os.Stderr, "using default config: %v\n", warn)
	}

	if *seedFlag != 0 {
		cfg.Seed = *seedFlag
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	dbPath := firstNonEmpty(*dbPathFlag, cfg.Runner.DBPath, "data/formicarium.db")
	dbPath, err := config.ExpandHome(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolve db path: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create db directory: %v\n", err)
		os.Exit(1)
	}

	store, err := sqlitestore.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open sqlite store: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = store.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := store.Migrate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "migrate sqlite: %v\n", err)
		os.Exit(1)
	}

	bus := inproc.New(4)
	frames := bus.Subscribe("monitor")

	// runner logs would tear the terminal while tview owns it
	svc, err := runner.FromConfig(cfg, store, bus, log.New(io.Discard, "", 0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "assemble colony: %v\n", err)
		os.Exit(1)
	}

	app := tview.NewApplication()

	gridView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	gridView.SetTitle("Formicarium").SetBorder(true)

	statusView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	statusView.SetTitle("Status (Space pause, Q quit)").SetBorder(true)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(gridView, 0, 1, true).
		AddItem(statusView, 3, 0, false)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyCtrlC:
			app.Stop()
			return nil
		case event.Key() == tcell.KeyRune && (event.Rune() == 'q' || event.Rune() == 'Q'):
			app.Stop()
			return nil
		case event.Key() == tcell.KeyRune && event.Rune() == ' ':
			svc.TogglePause()
			return nil
		}
		return event
	})

	runDone := make(chan domain.Run, 1)
	go func() {
		run, err := svc.Run(ctx)
		if err != nil {
			run.Status = domain.RunStatusAborted
		}
		runDone <- run
	}()

	go func() {
		for snapshot := range frames {
			snap := snapshot
			app.QueueUpdateDraw(func() {
				gridView.SetText(renderGrid(snap, cfg))
				statusView.SetText(renderStatus(snap, svc.Paused(), cfg.Seed))
			})
			if snap.Over {
				return
			}
		}
	}()

	err = app.SetRoot(root, true).Run()
	cancel()
	run := <-runDone
	bus.Unsubscribe("monitor")
	if err != nil {
		fmt.Fprintf(os.Stderr, "monitor failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("run %s %s: %d/%d units stored in %d generations\n",
		run.ID, run.Status, run.Stored, run.TotalSupply, run.Generations)
}

// renderGrid draws one frame as a color-tagged text block, two columns per
// tile. Later snapshot cells win a tile, so ants paint over the nest and the
// nest over trails.
func renderGrid(snap domain.Snapshot, cfg config.Config) string {
	glyphs := make([]string, snap.Width*snap.Height)
	empty := "  "
	if cfg.Environment.GridVisible {
		empty = "[gray]· [-]"
	}
	for i := range glyphs {
		glyphs[i] = empty
	}

	for _, cell := range snap.Cells {
		if cell.X < 0 || cell.X >= snap.Width || cell.Y < 0 || cell.Y >= snap.Height {
			continue
		}
		glyph, ok := cellGlyph(cell, cfg)
		if !ok {
			continue
		}
		glyphs[cell.Y*snap.Width+cell.X] = glyph
	}

	var b strings.Builder
	for y := 0; y < snap.Height; y++ {
		for x := 0; x < snap.Width; x++ {
			b.WriteString(glyphs[y*snap.Width+x])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func cellGlyph(cell domain.Cell, cfg config.Config) (string, bool) {
	switch cell.Kind {
	case domain.CellKindAntForaging:
		if !cfg.Ants.Visible {
			return "", false
		}
		return "[red]▲ [-]", true
	case domain.CellKindAntCarrying:
		if !cfg.Ants.Visible {
			return "", false
		}
		return "[blue]▲ [-]", true
	case domain.CellKindNest:
		if !cfg.Nest.Visible {
			return "", false
		}
		return "[yellow]◆ [-]", true
	case domain.CellKindMorsel:
		if !cfg.Morsels.Visible {
			return "", false
		}
		return "[green]● [-]", true
	case domain.CellKindColonyTrail:
		if !cfg.Trails.ColonyVisible {
			return "", false
		}
		return "[purple]" + trailShade(cell.Value) + "[-]", true
	case domain.CellKindFoodTrail:
		if !cfg.Trails.FoodVisible {
			return "", false
		}
		return "[teal]" + trailShade(cell.Value) + "[-]", true
	}
	return "", false
}

func trailShade(strength int) string {
	switch {
	case strength >= 150:
		return "██"
	case strength >= 50:
		return "▓▓"
	case strength >= 15:
		return "▒▒"
	default:
		return "░░"
	}
}

func renderStatus(snap domain.Snapshot, paused bool, seed int64) string {
	state := "running"
	switch {
	case snap.Over:
		state = "done"
	case paused:
		state = "paused"
	}
	return fmt.Sprintf(
		"gen=%d  stored=%d/%d  foraging=%d  carrying=%d  trails=%d  seed=%d  [%s]",
		snap.Generation, snap.Stored, snap.TotalSupply,
		snap.Foraging, snap.Carrying, snap.Trails, seed, state,
	)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
