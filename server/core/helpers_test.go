package core

import (
	"sync"
	"testing"
	"time"

	"github.com/automoto/splatvr/components"
	"github.com/automoto/splatvr/shared/gamemath"
	"github.com/automoto/splatvr/shared/messages"
	"github.com/yohamta/donburi"
)

type fakePeer struct {
	id   string
	mu   sync.Mutex
	sent []any
}

func (p *fakePeer) Id() string { return p.id }

func (p *fakePeer) SendMessage(msg any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, msg)
	return nil
}

type fakeReplicator struct {
	tracked []donburi.Entity
	sent    []any
}

func (r *fakeReplicator) Track(entity donburi.Entity) error {
	r.tracked = append(r.tracked, entity)
	return nil
}

func (r *fakeReplicator) Broadcast(msg any) {
	r.sent = append(r.sent, msg)
}

func messagesOf[T any](msgs []any) []T {
	var out []T
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

type testServer struct {
	*Server
	rep *fakeReplicator
	now time.Time
}

var start = time.Unix(1_700_000_000, 0)

const tick = time.Second / 30

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{rep: &fakeReplicator{}, now: start}
	ts.Server = newServer(donburi.NewWorld(), NewFallbackArena(20), 30, "test arena", "")
	ts.Server.clock = func() time.Time { return ts.now }
	ts.attach(ts.rep)
	return ts
}

// join connects a peer and runs one tick so the join is applied.
func (ts *testServer) join(t *testing.T, name string) (*fakePeer, *donburi.Entry) {
	t.Helper()
	peer := &fakePeer{id: name}
	ts.enqueue(command{kind: cmdJoin, peer: peer, join: messages.JoinRequest{PlayerName: name}})
	ts.Tick(ts.now, 0)

	entry := ts.playerEntry(peer)
	if entry == nil {
		t.Fatalf("expected %s to join", name)
	}
	return peer, entry
}

func (ts *testServer) pose(peer *fakePeer, seq uint32, player components.PlayerData, knife bool) {
	ts.enqueue(command{kind: cmdPose, peer: peer, pose: messages.PoseUpdate{
		Sequence:     seq,
		Head:         player.Head,
		DominantHand: player.DominantHand,
		SupportHand:  player.SupportHand,
		KnifeDrawn:   knife,
	}})
}

func (ts *testServer) fire(peer *fakePeer, cmd messages.FireCommand) {
	ts.enqueue(command{kind: cmdFire, peer: peer, fire: cmd})
}

// run advances the clock by n ticks.
func (ts *testServer) run(n int) {
	for i := 0; i < n; i++ {
		ts.now = ts.now.Add(tick)
		ts.Tick(ts.now, tick)
	}
}

func (ts *testServer) healthOf(entry *donburi.Entry) int {
	cur, _ := ts.health.Current(entry.Entity())
	return cur
}

func (ts *testServer) netID(entry *donburi.Entry) uint {
	return components.Player.Get(entry).NetID
}

func near(a, b gamemath.Vec3) bool {
	return gamemath.Distance(a, b) < 1e-6
}
