// Package driver advances a population of actors in global time order. It is
// the only place that mutates scheduling state: exactly one actor is
// dispatched at a time, so the per-actor packages need no locking.
package driver

import (
	"container/heap"
	"sync"

	"github.com/sarchlab/throng/actor"
	"github.com/sarchlab/throng/hooking"
	"github.com/sarchlab/throng/naming"
	"github.com/sarchlab/throng/timing"
)

// An Agent is one simulated entity the driver can dispatch: it exposes its
// scheduling timeline and a think pass that runs after the timeline was
// advanced.
type Agent interface {
	naming.Named

	// Timeline returns the scheduling state of the agent.
	Timeline() *actor.Timeline

	// Think runs one arbitration pass at the given time. It is called after
	// every advancement of the agent's timeline.
	Think(now timing.VTimePoint)
}

// HookPosBeforeDispatch triggers before an agent is advanced. The Item is
// the Agent.
var HookPosBeforeDispatch = &hooking.HookPos{Name: "BeforeDispatch"}

// HookPosAfterDispatch triggers after an agent was advanced and thought.
var HookPosAfterDispatch = &hooking.HookPos{Name: "AfterDispatch"}

// A Driver dispatches agents one at a time, always the one with the earliest
// next wake time. Registration order breaks ties, keeping runs fully
// deterministic.
type Driver struct {
	hooking.HookableBase

	timeLock sync.RWMutex
	time     timing.VTimePoint

	agents agentHeap

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex
}

// NewDriver creates a Driver.
func NewDriver() *Driver {
	return &Driver{}
}

// Register adds an agent to the dispatch pool.
func (d *Driver) Register(a Agent) {
	entry := &agentEntry{
		agent: a,
		seq:   len(d.agents),
	}

	heap.Push(&d.agents, entry)
}

// Agents returns all registered agents in registration order.
func (d *Driver) Agents() []Agent {
	agents := make([]Agent, len(d.agents))
	for _, entry := range d.agents {
		agents[entry.seq] = entry.agent
	}

	return agents
}

// CurrentTime returns the time of the most recent dispatch.
func (d *Driver) CurrentTime() timing.VTimePoint {
	return d.readNow()
}

// RestoreTime sets the driver clock when a run resumes from a checkpoint,
// so the clock is consistent with the restored timelines before the first
// dispatch.
func (d *Driver) RestoreTime(t timing.VTimePoint) {
	d.writeNow(t)
}

// RunUntil dispatches agents in global time order until every agent's next
// wake time lies beyond the horizon, then settles all agents at the horizon.
// A TimeTravelError from any timeline aborts the run.
func (d *Driver) RunUntil(horizon timing.VTimePoint) error {
	d.singleRunLock.Lock()
	defer d.singleRunLock.Unlock()

	d.kickstart()

	for {
		d.pauseLock.Lock()

		if len(d.agents) == 0 {
			d.pauseLock.Unlock()
			break
		}

		entry := d.agents[0]
		wake := entry.agent.Timeline().NextWakeTime()

		if wake.After(horizon) {
			d.pauseLock.Unlock()
			break
		}

		if err := d.dispatch(entry, wake); err != nil {
			d.pauseLock.Unlock()
			return err
		}

		d.pauseLock.Unlock()
	}

	return d.settle(horizon)
}

// kickstart runs an initial think pass so freshly registered agents commit
// to their first action before any dispatching happens.
func (d *Driver) kickstart() {
	for _, entry := range d.agents {
		entry.agent.Think(entry.agent.Timeline().Now())
	}

	heap.Init(&d.agents)
}

func (d *Driver) dispatch(entry *agentEntry, wake timing.VTimePoint) error {
	now := d.readNow()
	if wake.Before(now) {
		// An out-of-band install from another actor can leave this agent
		// overdue. The overdue event is simply serviced at the current
		// time; the driver clock never moves backward.
		wake = now
	}

	d.writeNow(wake)

	hookCtx := hooking.HookCtx{
		Domain: d,
		Pos:    HookPosBeforeDispatch,
		Item:   entry.agent,
	}
	d.InvokeHook(hookCtx)

	if err := entry.agent.Timeline().SimulateTo(wake); err != nil {
		return err
	}

	entry.agent.Think(wake)

	hookCtx.Pos = HookPosAfterDispatch
	d.InvokeHook(hookCtx)

	// Actions and think passes may install events onto other agents'
	// timelines, changing their wake times while they sit in the heap, so
	// fixing the dispatched entry alone is not enough.
	heap.Init(&d.agents)

	return nil
}

// settle advances every agent to the horizon so the whole population shares
// one consistent final time.
func (d *Driver) settle(horizon timing.VTimePoint) error {
	for _, entry := range d.agents {
		if entry.agent.Timeline().Now().Before(horizon) {
			if err := entry.agent.Timeline().SimulateTo(horizon); err != nil {
				return err
			}
		}
	}

	heap.Init(&d.agents)

	if horizon.After(d.readNow()) {
		d.writeNow(horizon)
	}

	return nil
}

// Pause prevents the Driver from dispatching more agents.
func (d *Driver) Pause() {
	d.isPausedLock.Lock()
	defer d.isPausedLock.Unlock()

	if d.isPaused {
		return
	}

	d.pauseLock.Lock()
	d.isPaused = true
}

// Continue allows the Driver to dispatch more agents.
func (d *Driver) Continue() {
	d.isPausedLock.Lock()
	defer d.isPausedLock.Unlock()

	if !d.isPaused {
		return
	}

	d.pauseLock.Unlock()
	d.isPaused = false
}

func (d *Driver) readNow() timing.VTimePoint {
	d.timeLock.RLock()
	t := d.time
	d.timeLock.RUnlock()

	return t
}

func (d *Driver) writeNow(t timing.VTimePoint) {
	d.timeLock.Lock()
	d.time = t
	d.timeLock.Unlock()
}

type agentEntry struct {
	agent Agent
	seq   int
	index int
}

type agentHeap []*agentEntry

func (h agentHeap) Len() int {
	return len(h)
}

func (h agentHeap) Less(i, j int) bool {
	wi := h[i].agent.Timeline().NextWakeTime()
	wj := h[j].agent.Timeline().NextWakeTime()

	if wi != wj {
		return wi.Before(wj)
	}

	return h[i].seq < h[j].seq
}

func (h agentHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *agentHeap) Push(x any) {
	entry := x.(*agentEntry)
	entry.index = len(*h)
	*h = append(*h, entry)
}

func (h *agentHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[:n-1]

	return entry
}
