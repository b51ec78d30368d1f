package main

import (
	"fmt"
	"io"
	"log"
	"sort"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/ttacon/chalk"

	"github.com/lixenwraith/peloton/config"
	"github.com/lixenwraith/peloton/event"
	"github.com/lixenwraith/peloton/physics"
	"github.com/lixenwraith/peloton/physics/box2dworld"
	"github.com/lixenwraith/peloton/sim"
	"github.com/lixenwraith/peloton/status"
)

// Physics backends selectable with --backend
const (
	backendPointMass = "pointmass"
	backendBox2D     = "box2d"
)

type headlessOptions struct {
	ticks    int
	backend  string
	progress bool
	top      int
}

func newHeadlessCmd(flags *globalFlags) *cobra.Command {
	opts := headlessOptions{}
	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Run a fixed number of ticks as fast as possible and print a race summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			sum, err := runHeadless(cfg, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			sum.print(cmd.OutOrStdout())
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVarP(&opts.ticks, "ticks", "n", 3600, "ticks to simulate")
	f.StringVar(&opts.backend, "backend", backendPointMass, "physics backend: pointmass or box2d")
	f.BoolVar(&opts.progress, "progress", true, "show a progress bar")
	f.IntVar(&opts.top, "top", 5, "riders listed in the summary")
	return cmd
}

// newBackend creates the physics adapter named by backend
func newBackend(backend string, cfg config.Config) (physics.Adapter, error) {
	switch backend {
	case backendPointMass:
		return physics.NewPointMassWorld(), nil
	case backendBox2D:
		return box2dworld.New(cfg.Rider.Radius), nil
	default:
		return nil, errors.Errorf("unknown backend %q", backend)
	}
}

// eventCounter tallies observer events by type
type eventCounter struct {
	mu     sync.Mutex
	counts map[event.EventType]int
}

func (c *eventCounter) Emit(ev event.Event) {
	c.mu.Lock()
	c.counts[ev.Type]++
	c.mu.Unlock()
}

type summary struct {
	backend string
	ticks   int
	snap    sim.Snapshot
	metrics map[string]any
	events  map[event.EventType]int
	top     []sim.RiderSnapshot
	chasing int
}

func runHeadless(cfg config.Config, opts headlessOptions, progressOut io.Writer) (summary, error) {
	if opts.ticks <= 0 {
		return summary{}, errors.Errorf("ticks must be positive, got %d", opts.ticks)
	}
	adapter, err := newBackend(opts.backend, cfg)
	if err != nil {
		return summary{}, err
	}

	counter := &eventCounter{counts: make(map[event.EventType]int)}
	race, err := sim.New(cfg, adapter, sim.LayoutField(cfg),
		sim.WithLogger(log.Default()),
		sim.WithSink(counter),
	)
	if err != nil {
		return summary{}, err
	}
	log.Printf("headless: session %s, %d ticks on %s", race.Session(), opts.ticks, opts.backend)

	runner := sim.NewRunner(race, nil)
	dt := cfg.TickInterval().Seconds()

	var bar *pb.ProgressBar
	if opts.progress {
		bar = pb.New(opts.ticks)
		bar.SetWriter(progressOut)
		bar.Start()
	}
	for i := 0; i < opts.ticks; i++ {
		if err := runner.Tick(dt); err != nil {
			if bar != nil {
				bar.Finish()
			}
			return summary{}, errors.Wrapf(err, "tick %d", i)
		}
		if bar != nil {
			bar.Increment()
		}
	}
	if bar != nil {
		bar.Finish()
	}

	snap := race.Snapshot()
	ranked := append([]sim.RiderSnapshot(nil), snap.Riders...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].TrackDist > ranked[j].TrackDist })

	counter.mu.Lock()
	defer counter.mu.Unlock()
	return summary{
		backend: opts.backend,
		ticks:   opts.ticks,
		snap:    snap,
		metrics: race.Status().Snapshot(),
		events:  lo.Assign(counter.counts),
		top:     lo.Subset(ranked, 0, uint(max(opts.top, 0))),
		chasing: lo.CountBy(snap.Riders, func(r sim.RiderSnapshot) bool { return r.BordureChasing }),
	}, nil
}

func (s summary) print(w io.Writer) {
	title := chalk.Bold.TextStyle(fmt.Sprintf("Race %s", s.snap.Session))
	fmt.Fprintln(w, title)
	fmt.Fprintf(w, "  %d ticks on %s, %.1fs simulated, %d riders\n", s.ticks, s.backend, s.snap.Elapsed, len(s.snap.Riders))

	if leader, ok := s.snap.Leader(); ok {
		fmt.Fprintf(w, "  leader  %s  team %d, lap %d, %.1fm\n",
			chalk.Green.Color(fmt.Sprintf("#%d", leader.ID)), leader.Team, leader.Lap, leader.TrackDist)
	}
	fmt.Fprintf(w, "  spread  %.1fm\n", s.snap.Spread())

	if b := s.snap.Breakaway; len(b.Members) > 0 {
		fmt.Fprintf(w, "  %s %v, gap %.1fm, closing %.2f\n", chalk.Yellow.Color("breakaway"), b.Members, b.Gap, b.ClosingRate)
	} else {
		fmt.Fprintln(w, "  no breakaway at the finish")
	}
	if s.chasing > 0 {
		fmt.Fprintf(w, "  %s %d riders chasing in the wind\n", chalk.Red.Color("echelon split:"), s.chasing)
	}

	fmt.Fprintln(w, chalk.Bold.TextStyle("Top riders"))
	for i, r := range s.top {
		fmt.Fprintf(w, "  %2d. #%-3d team %d  %8.1fm  energy %5.1f  %s/%s\n",
			i+1, r.ID, r.Team, r.TrackDist, r.Energy, r.Mode, r.Phase)
	}

	fmt.Fprintln(w, chalk.Bold.TextStyle("Events"))
	types := lo.Keys(s.events)
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, t := range types {
		fmt.Fprintf(w, "  %-20s %d\n", t.String(), s.events[t])
	}

	fmt.Fprintln(w, chalk.Bold.TextStyle("Metrics"))
	for _, k := range []string{status.KeyRelayRotations, status.KeyOverlapPasses, status.KeySanitized, status.KeyAttacksStarted} {
		if v, ok := s.metrics[k]; ok {
			fmt.Fprintf(w, "  %-20s %v\n", k, v)
		}
	}
}
