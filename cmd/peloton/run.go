package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/peloton/audio"
	"github.com/lixenwraith/peloton/config"
	"github.com/lixenwraith/peloton/core"
	"github.com/lixenwraith/peloton/event"
	"github.com/lixenwraith/peloton/physics"
	"github.com/lixenwraith/peloton/render"
	"github.com/lixenwraith/peloton/sim"
	"github.com/lixenwraith/peloton/track"
	"github.com/lixenwraith/peloton/vizserver"
)

type runOptions struct {
	audio   bool
	vizAddr string
	backend string
}

func newRunCmd(flags *globalFlags) *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Watch and steer the race in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			adapter, err := newBackend(opts.backend, cfg)
			if err != nil {
				return err
			}
			return runInteractive(cfg, adapter, opts)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&opts.audio, "audio", false, "play crowd and helicopter ambience")
	f.StringVar(&opts.vizAddr, "viz-addr", "", "serve snapshots and events on this address, e.g. :8080")
	f.StringVar(&opts.backend, "backend", backendPointMass, "physics backend: pointmass or box2d")
	return cmd
}

func runInteractive(cfg config.Config, adapter physics.Adapter, opts runOptions) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	race, err := sim.New(cfg, adapter, sim.LayoutField(cfg), sim.WithLogger(log.Default()))
	if err != nil {
		return err
	}
	log.Printf("run: session %s", race.Session())

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "create screen")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "init screen")
	}
	// Normal exit terminal cleanup
	defer screen.Fini()
	core.RegisterCrashScreen(screen)

	runner := sim.NewRunner(race, nil)
	viewer := render.NewViewer(screen, race, runner, track.New(cfg.Track.Length, cfg.Track.RoadWidth))
	viewer.SetLogger(log.Default())

	if opts.audio {
		amb := audio.NewAmbience()
		if err := amb.Initialize(); err != nil {
			// Non-fatal, the race runs without sound
			log.Printf("run: audio unavailable: %v", err)
		} else {
			defer amb.Cleanup()
			race.Events().Subscribe(amb, event.EventAttackStarted, event.EventBreakawayFormed)
			viewer.OnFrame(func(s sim.Snapshot) {
				amb.Update(audio.Balance(s.Spread(), s.TrackLength))
			})
		}
	}

	if opts.vizAddr != "" {
		srv := vizserver.New(race, cfg.Loop.StreamInterval, log.Default())
		core.Go(func() {
			if err := srv.ListenAndServe(ctx, opts.vizAddr); err != nil {
				log.Printf("run: %v", err)
			}
		})
	}

	runner.Start()
	defer runner.Stop()

	err = viewer.Run(ctx)
	if rerr := runner.Err(); rerr != nil {
		return rerr
	}
	return err
}
