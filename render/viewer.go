// Package render draws the race top-down in a terminal and maps keys to race controls
package render

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb"
	"github.com/samber/lo"

	"github.com/lixenwraith/peloton/core"
	"github.com/lixenwraith/peloton/parameter"
	"github.com/lixenwraith/peloton/rider"
	"github.com/lixenwraith/peloton/sim"
	"github.com/lixenwraith/peloton/status"
	"github.com/lixenwraith/peloton/track"
)

// Controls is the race surface the viewer reads and steers
type Controls interface {
	Snapshot() sim.Snapshot
	Status() *status.Registry
	Attack(id rider.ID) error
	SetBaseIntensity(id rider.ID, v float64) error
	SetMode(id rider.ID, m rider.Mode) error
	SetProtectLeader(id rider.ID, on bool) error
	SetWind(direction int, strength float64) error
}

// Pauser is the loop the space key toggles
type Pauser interface {
	TogglePause() bool
	IsPaused() bool
}

type windStep struct {
	direction int
	strength  float64
}

// windCycle is the sequence the w key steps through
var windCycle = []windStep{
	{0, 0},
	{1, 0.5},
	{1, 1},
	{-1, 0.5},
	{-1, 1},
}

// Viewer owns the terminal screen while the race runs
type Viewer struct {
	screen  tcell.Screen
	race    Controls
	pauser  Pauser
	track   track.Track
	geom    *track.Geometry
	inner   orb.LineString
	outer   orb.LineString
	logger  *log.Logger
	onFrame func(sim.Snapshot)

	snap     sim.Snapshot
	selected int // Index into snap.Riders
	lastErr  string
}

// NewViewer prepares a viewer over an initialized screen
func NewViewer(screen tcell.Screen, race Controls, pauser Pauser, t track.Track) *Viewer {
	geom := track.NewGeometry(t, parameter.GeometrySegments)
	inner, outer := geom.Edges(t)
	v := &Viewer{
		screen: screen,
		race:   race,
		pauser: pauser,
		track:  t,
		geom:   geom,
		inner:  inner,
		outer:  outer,
		logger: log.New(io.Discard, "", 0),
	}
	v.snap = race.Snapshot()
	return v
}

// SetLogger routes control failures to l
func (v *Viewer) SetLogger(l *log.Logger) { v.logger = l }

// OnFrame registers a hook receiving each drawn snapshot
func (v *Viewer) OnFrame(fn func(sim.Snapshot)) { v.onFrame = fn }

// Selected returns the ID of the rider under control, 0 with an empty field
func (v *Viewer) Selected() int {
	if len(v.snap.Riders) == 0 {
		return 0
	}
	return v.snap.Riders[v.selected].ID
}

// Run polls input and redraws until q is pressed, the screen closes or ctx is done
func (v *Viewer) Run(ctx context.Context) error {
	core.RegisterCrashScreen(v.screen)
	defer core.RegisterCrashScreen(nil)

	done := make(chan struct{})
	defer close(done)

	events := make(chan tcell.Event, 64)
	core.Go(func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	})

	ticker := time.NewTicker(parameter.FrameInterval)
	defer ticker.Stop()

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !v.handle(ev.Key(), ev.Rune()) {
					return nil
				}
			case *tcell.EventResize:
				v.screen.Sync()
			}
		case <-ticker.C:
			v.Draw()
		}
	}
}

// HandleKey applies a key press, false means quit
func (v *Viewer) HandleKey(ev *tcell.EventKey) bool {
	return v.handle(ev.Key(), ev.Rune())
}

func (v *Viewer) handle(key tcell.Key, ch rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		v.step(-1)
		return true
	case tcell.KeyRight:
		v.step(1)
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	sel, ok := v.current()
	id := rider.ID(sel.ID)
	var err error
	switch ch {
	case 'q':
		return false
	case ' ':
		v.pauser.TogglePause()
	case 'w':
		next := nextWind(v.snap.Wind)
		err = v.race.SetWind(next.direction, next.strength)
	case 'a':
		if ok {
			err = v.race.Attack(id)
		}
	case '+', '=':
		if ok {
			err = v.race.SetBaseIntensity(id, sel.BaseIntensity+parameter.IntensityStep)
		}
	case '-', '_':
		if ok {
			err = v.race.SetBaseIntensity(id, sel.BaseIntensity-parameter.IntensityStep)
		}
	case 'r':
		if ok {
			err = v.race.SetMode(id, toggleMode(sel.Mode, rider.ModeRelay))
		}
	case 's':
		if ok {
			err = v.race.SetMode(id, toggleMode(sel.Mode, rider.ModeSolo))
		}
	case 'p':
		if ok {
			err = v.race.SetProtectLeader(id, !sel.ProtectLeader)
		}
	}

	if err != nil {
		v.lastErr = err.Error()
		v.logger.Printf("viewer: %v", err)
	} else {
		v.lastErr = ""
	}
	return true
}

func (v *Viewer) step(delta int) {
	n := len(v.snap.Riders)
	if n == 0 {
		return
	}
	v.selected = ((v.selected+delta)%n + n) % n
}

func (v *Viewer) current() (sim.RiderSnapshot, bool) {
	if len(v.snap.Riders) == 0 {
		return sim.RiderSnapshot{}, false
	}
	return v.snap.Riders[v.selected], true
}

// toggleMode switches into m, or back to follower when already in it
func toggleMode(current string, m rider.Mode) rider.Mode {
	if current == m.String() {
		return rider.ModeFollower
	}
	return m
}

func nextWind(w sim.WindSnapshot) windStep {
	if w.Strength == 0 || w.Direction == 0 {
		return windCycle[1]
	}
	for i, s := range windCycle {
		if s.direction == w.Direction && math.Abs(s.strength-w.Strength) < 1e-9 {
			return windCycle[(i+1)%len(windCycle)]
		}
	}
	return windCycle[0]
}

// Draw renders one frame from a fresh snapshot
func (v *Viewer) Draw() {
	v.snap = v.race.Snapshot()
	if n := len(v.snap.Riders); n > 0 && v.selected >= n {
		v.selected = n - 1
	}

	style := baseStyle()
	v.screen.SetStyle(style)
	v.screen.Clear()

	width, height := v.screen.Size()
	mapCols := width - parameter.PanelWidth
	if mapCols < 10 {
		mapCols = width
	}

	bound := v.geom.Bound().Pad(v.track.RoadWidth/2 + 1)
	vp := NewViewport(bound, mapCols, height)
	v.drawRoad(vp, style)
	v.drawRiders(vp, style)
	if mapCols < width {
		v.drawPanel(mapCols+1, height, style)
	}
	v.screen.Show()

	if v.onFrame != nil {
		v.onFrame(v.snap)
	}
}

func (v *Viewer) drawRoad(vp Viewport, style tcell.Style) {
	road := style.Foreground(colorRoad)
	for _, edge := range []orb.LineString{v.inner, v.outer} {
		for _, p := range edge {
			if col, row, ok := vp.Project(p[0], p[1]); ok {
				v.screen.SetContent(col, row, '·', nil, road)
			}
		}
	}
}

func (v *Viewer) drawRiders(vp Viewport, style tcell.Style) {
	selectedID := v.Selected()
	for _, r := range v.snap.Riders {
		col, row, ok := vp.Project(r.X, r.Y)
		if !ok {
			continue
		}
		glyph := '●'
		if r.IsLeader {
			glyph = '◆'
		}
		if r.IsAttacking {
			glyph = '▲'
		}
		s := style.Foreground(TeamColor(r.Team))
		if r.InBreakaway {
			s = s.Background(colorBreakaway).Bold(true)
		}
		if r.ID == selectedID {
			s = s.Reverse(true)
		}
		v.screen.SetContent(col, row, glyph, nil, s)
	}
}

func (v *Viewer) drawPanel(x, height int, style tcell.Style) {
	header := style.Foreground(colorHeader).Bold(true)
	dim := style.Foreground(colorDim)

	y := 0
	line := func(s tcell.Style, format string, args ...any) {
		if y < height {
			v.drawText(x, y, s, fmt.Sprintf(format, args...))
		}
		y++
	}

	elapsed := time.Duration(v.snap.Elapsed * float64(time.Second)).Truncate(time.Second)
	line(header, "PELOTON  %s", elapsed)
	if v.pauser.IsPaused() {
		line(style.Foreground(colorWarn).Bold(true), "PAUSED")
	} else {
		line(dim, "tick %d", v.snap.Tick)
	}
	line(style, "wind  %s", windLabel(v.snap.Wind))
	y++

	b := v.snap.Breakaway
	if len(b.Members) > 0 {
		line(header, "BREAKAWAY %d riders", len(b.Members))
		line(style, "gap %.1fm  closing %.2f", b.Gap, b.ClosingRate)
	} else {
		line(dim, "no breakaway")
		line(dim, "spread %.1fm", v.snap.Spread())
	}
	y++

	if r, ok := v.current(); ok {
		line(style.Foreground(TeamColor(r.Team)).Bold(true), "RIDER %d  team %d%s", r.ID, r.Team, lo.Ternary(r.IsLeader, " (leader)", ""))
		line(style, "mode %-8s phase %s", r.Mode, r.Phase)
		line(style, "energy  %s %3.0f", bar(r.Energy, 12), r.Energy)
		line(style, "attack  %s %3.0f", bar(r.AttackGauge, 12), r.AttackGauge)
		line(style, "effort  %3.0f / base %3.0f", r.Intensity, r.BaseIntensity)
		line(style, "speed   %5.2f  draft %.2f", r.Speed, r.DraftFactor)
		line(style, "lane    %+5.2f -> %+5.2f", r.LaneOffset, r.LaneTarget)
		line(dim, "protect %v  breakaway %v", r.ProtectLeader, r.InBreakaway)
	}
	y++

	reg := v.race.Status()
	line(dim, "rotations %d  sanitized %d", reg.Ints.Get(status.KeyRelayRotations).Load(), reg.Ints.Get(status.KeySanitized).Load())
	line(dim, "overlap   %d pairs %d passes", reg.Ints.Get(status.KeyOverlapPairs).Load(), reg.Ints.Get(status.KeyOverlapPasses).Load())

	if v.lastErr != "" {
		y++
		line(style.Foreground(colorWarn), "%s", v.lastErr)
	}

	help := []string{
		"←/→ select   a attack",
		"+/- effort   r relay  s solo",
		"p protect    w wind",
		"space pause  q quit",
	}
	y = height - len(help)
	for _, h := range help {
		line(dim, "%s", h)
	}
}

func (v *Viewer) drawText(x, y int, style tcell.Style, text string) {
	for _, ch := range text {
		v.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

func windLabel(w sim.WindSnapshot) string {
	if w.Strength == 0 || w.Direction == 0 {
		return "calm"
	}
	arrow := lo.Ternary(w.Direction > 0, "→ out", "← in")
	return fmt.Sprintf("%s %.0f%%", arrow, w.Strength*100)
}

// bar renders v in [0, 100] as a fixed-width gauge
func bar(v float64, width int) string {
	filled := int(math.Round(v / 100 * float64(width)))
	filled = lo.Clamp(filled, 0, width)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
