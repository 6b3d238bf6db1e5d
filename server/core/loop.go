package core

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leap-fish/necs/esync/srvsync"
)

// GameLoop drives Server.Tick at a fixed rate and pushes replicated state to
// clients after every tick. It is the only goroutine that mutates the world,
// shutdown cleanup included.
type GameLoop struct {
	server   *Server
	tickRate int
	started  atomic.Bool
	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}

	overruns  int
	lastWarn  time.Time
	warnEvery time.Duration
}

func NewGameLoop(server *Server, tickRate int) *GameLoop {
	if tickRate < 1 {
		tickRate = 1
	}
	return &GameLoop{
		server:    server,
		tickRate:  tickRate,
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
		warnEvery: 5 * time.Second,
	}
}

// Interval returns the wall-clock length of one tick.
func (g *GameLoop) Interval() time.Duration {
	return time.Second / time.Duration(g.tickRate)
}

// Start runs the loop on its own goroutine.
func (g *GameLoop) Start() {
	g.started.Store(true)
	go g.run()
}

func (g *GameLoop) run() {
	defer close(g.done)

	ticker := time.NewTicker(g.Interval())
	defer ticker.Stop()

	log.Printf("[loop] started at %d ticks/second", g.tickRate)

	last := g.server.clock()
	for {
		select {
		case <-g.stopChan:
			g.shutdown()
			log.Println("[loop] stopped")
			return
		case <-ticker.C:
			select {
			case <-g.stopChan:
				continue
			default:
			}
			now := g.server.clock()
			g.tick(now, now.Sub(last))
			g.checkBudget(now, g.server.clock().Sub(now))
			last = now
		}
	}
}

// Stop ends Run and waits until the last tick and the shutdown cleanup have
// finished. A loop that was never started is cleaned up on the caller's
// goroutine. Calling it more than once is safe.
func (g *GameLoop) Stop() {
	g.stopOnce.Do(func() {
		close(g.stopChan)
		if !g.started.Load() {
			g.shutdown()
			close(g.done)
		}
	})
	<-g.done
}

func (g *GameLoop) shutdown() {
	if g.server != nil {
		g.server.shutdown()
	}
}

func (g *GameLoop) tick(now time.Time, dt time.Duration) {
	g.server.Tick(now, dt)

	if err := srvsync.DoSync(); err != nil {
		log.Printf("[loop] sync error: %v", err)
	}
}

// checkBudget counts ticks that ran longer than the interval and reports
// them at most once per warnEvery.
func (g *GameLoop) checkBudget(now time.Time, took time.Duration) {
	if took <= g.Interval() {
		return
	}
	g.overruns++
	if now.Sub(g.lastWarn) < g.warnEvery {
		return
	}
	log.Printf("[loop] tick took %v (budget %v), %d overruns since last report",
		took.Round(time.Microsecond), g.Interval(), g.overruns)
	g.overruns = 0
	g.lastWarn = now
}
