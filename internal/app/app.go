// Package app wires the engine to the terminal UI and runs the session.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/rhythmiz/internal/audio"
	"github.com/abhisek/rhythmiz/internal/catalog"
	"github.com/abhisek/rhythmiz/internal/config"
	"github.com/abhisek/rhythmiz/internal/difficulty"
	"github.com/abhisek/rhythmiz/internal/drill"
	"github.com/abhisek/rhythmiz/internal/gamify"
	"github.com/abhisek/rhythmiz/internal/srs"
	"github.com/abhisek/rhythmiz/internal/store"
	"github.com/abhisek/rhythmiz/internal/telemetry"
	"github.com/abhisek/rhythmiz/internal/tracker"
	"github.com/abhisek/rhythmiz/internal/tui"
)

// ModuleTag identifies the rhythm drill in persisted records.
const ModuleTag = "rhythm"

// Options carries the store-backed dependencies for a session.
type Options struct {
	Store  *store.Store
	Config config.Config
}

// Run builds the engine from the store and starts the Bubble Tea program.
func Run(opts Options) error {
	ctx := context.Background()

	cat := catalog.Builtin()

	progress := opts.Store.ProgressRepo()
	events := opts.Store.EventRepo()

	track := tracker.New(ModuleTag, progress)
	if err := track.Load(ctx); err != nil {
		return fmt.Errorf("load progress: %w", err)
	}

	scheduler := srs.NewLocal(opts.Store.SRSRepo(), nil)
	if err := scheduler.Load(ctx, ModuleTag); err != nil {
		fmt.Fprintln(os.Stderr, "warning: review schedule unavailable:", err)
	}

	sig, err := catalog.ParseSignature(opts.Config.Session.Signature)
	if err != nil {
		sig = catalog.FourFour
	}

	engine, err := drill.New(drill.Config{
		Module:                ModuleTag,
		Signature:             sig,
		Level:                 opts.Config.Session.Level,
		Tempo:                 opts.Config.Tempo.Start,
		TempoStep:             opts.Config.Tempo.Step,
		TempoMin:              opts.Config.Tempo.Min,
		TempoMax:              opts.Config.Tempo.Max,
		AutoPlay:              opts.Config.Session.AutoPlay,
		AutoPlayDelay:         time.Duration(opts.Config.Session.AutoPlayDelayMs) * time.Millisecond,
		AdvanceCorrectDelay:   time.Duration(opts.Config.Advance.CorrectMs) * time.Millisecond,
		AdvanceIncorrectDelay: time.Duration(opts.Config.Advance.IncorrectMs) * time.Millisecond,
		RewardBase:            opts.Config.Reward.Base,
	}, drill.Deps{
		Catalog:    cat,
		Tracker:    track,
		SRS:        scheduler,
		Difficulty: difficulty.NewLocal(opts.Store.DifficultyRepo()),
		Ledger:     gamify.NewStoreLedger(events),
		Telemetry:  telemetry.NewStoreSink(events),
		Ticker:     audio.NopTicker{},
	})
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	defer engine.Close()

	p := tea.NewProgram(tui.NewModel(engine))
	engine.Subscribe(func(ev drill.Event) {
		p.Send(tui.EngineEventMsg{Event: ev})
	})

	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
