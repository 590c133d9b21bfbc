// Command navview runs a navigation session in the terminal. Clicking a cell sends the
// agent there; the agent walks the route at a fixed speed while the screen redraws.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/beka-birhanu/vinom-nav/agent"
	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/grid"
	"github.com/beka-birhanu/vinom-nav/pathfinder"
	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
)

const frameInterval = 16 * time.Millisecond // ~60 FPS

type viewer struct {
	screen  tcell.Screen
	session *game.Session
	agentID uuid.UUID
	status  string
	failed  bool
}

func newSession(size int, seed int64, layoutPath string, speed float64, manhattan bool) (*game.Session, uuid.UUID, error) {
	rng := rand.New(rand.NewSource(seed))

	var (
		g   *grid.Grid
		err error
	)
	if layoutPath != "" {
		g, _, err = grid.LoadLayoutFile(layoutPath)
	} else {
		g, err = grid.Build(size, rng)
	}
	if err != nil {
		return nil, uuid.Nil, err
	}

	var opts []pathfinder.Option
	if manhattan {
		opts = append(opts, pathfinder.WithHeuristic(pathfinder.Manhattan))
	}
	session, err := game.NewSession(uuid.New(), g, pathfinder.New(opts...).FindRoute, agent.WithSpeed(speed))
	if err != nil {
		return nil, uuid.Nil, err
	}

	id, _, err := session.SpawnAgentAtEdge(rng)
	if err != nil {
		return nil, uuid.Nil, err
	}
	return session, id, nil
}

func (v *viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
		if ev.Key() == tcell.KeyRune && ev.Rune() == 'h' {
			_ = v.session.Halt(v.agentID)
			v.status, v.failed = "halted", false
		}

	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 == 0 {
			return true
		}
		p, ok := screenToCell(ev.Position())
		if !ok {
			return true
		}
		route, err := v.session.Move(v.agentID, grid.Cell{Row: p.Row, Col: p.Col})
		switch {
		case errors.Is(err, pathfinder.ErrNoRoute):
			v.status, v.failed = fmt.Sprintf("no route to %s", p), true
		case err != nil:
			v.status, v.failed = err.Error(), true
		default:
			v.status, v.failed = fmt.Sprintf("%d steps to %s", route.Len(), p), false
		}

	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *viewer) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case ev := <-eventChan:
			if !v.handleInput(ev) {
				return
			}

		case now := <-ticker.C:
			v.session.Step(now.Sub(last).Seconds())
			last = now
			draw(v.screen, v.session.Snapshot(), v.status, v.failed)
		}
	}
}

func main() {
	size := flag.Int("size", grid.DefaultGridSize, "side length of a random grid")
	seed := flag.Int64("seed", time.Now().UnixNano(), "seed for grid generation and spawning")
	layout := flag.String("layout", "", "YAML layout file to load instead of a random grid")
	speed := flag.Float64("speed", agent.DefaultSpeed, "agent speed in cells per second")
	manhattan := flag.Bool("manhattan", false, "use the Manhattan heuristic")
	flag.Parse()

	session, agentID, err := newSession(*size, *seed, *layout, *speed, *manhattan)
	if err != nil {
		log.Fatalf("creating session: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("creating screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("initializing screen: %v", err)
	}
	screen.EnableMouse()

	v := &viewer{
		screen:  screen,
		session: session,
		agentID: agentID,
		status:  fmt.Sprintf("seed %d: click a cell to move, h to halt, q to quit", *seed),
	}
	v.run()
	screen.Fini()
}
