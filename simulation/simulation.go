// Package simulation assembles a driver, a data recorder, and a monitor into
// one runnable simulation, and checkpoints the population so runs can resume
// later.
package simulation

import (
	"fmt"
	"io"

	"github.com/sarchlab/throng/datarecording"
	"github.com/sarchlab/throng/driver"
	"github.com/sarchlab/throng/monitoring"
	"github.com/sarchlab/throng/serialization"
	"github.com/sarchlab/throng/timing"
)

// A Simulation provides the services required to define a simulation.
type Simulation struct {
	id string

	driver       *driver.Driver
	dataRecorder *datarecording.SQLiteWriter
	traceHook    *datarecording.TraceHook
	monitor      *monitoring.Monitor

	agents         []driver.Agent
	agentNameIndex map[string]int
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// Driver returns the driver that advances the simulation.
func (s *Simulation) Driver() *driver.Driver {
	return s.driver
}

// DataRecorder returns the data recorder used in the simulation.
func (s *Simulation) DataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// Monitor returns the monitor used in the simulation, or nil when monitoring
// is disabled.
func (s *Simulation) Monitor() *monitoring.Monitor {
	return s.monitor
}

// RegisterAgent registers an agent with the simulation. The agent's timeline
// starts recording into the trace table.
func (s *Simulation) RegisterAgent(a driver.Agent) {
	name := a.Name()
	if _, exists := s.agentNameIndex[name]; exists {
		panic("agent " + name + " already registered")
	}

	s.agents = append(s.agents, a)
	s.agentNameIndex[name] = len(s.agents) - 1

	a.Timeline().AcceptHook(s.traceHook)
	s.driver.Register(a)
}

// GetAgentByName returns the agent with the given name, or nil.
func (s *Simulation) GetAgentByName(name string) driver.Agent {
	index, exists := s.agentNameIndex[name]
	if !exists {
		return nil
	}

	return s.agents[index]
}

// RunUntil advances the whole population to the given time.
func (s *Simulation) RunUntil(horizon timing.VTimePoint) error {
	return s.driver.RunUntil(horizon)
}

// SaveCheckpoint captures the scheduling state of every registered agent.
// Mid-action state is preserved: a resumed run does not re-fire pre-actions
// that already ran.
func (s *Simulation) SaveCheckpoint(w io.Writer) error {
	actors := map[string]any{}

	for _, a := range s.agents {
		state, err := a.Timeline().Serialize()
		if err != nil {
			return fmt.Errorf("checkpoint %s: %w", a.Name(), err)
		}

		actors[a.Name()] = state
	}

	data := map[string]any{
		"time":   float64(s.driver.CurrentTime()),
		"actors": actors,
	}

	return serialization.JSONCodec{}.Encode(w, data)
}

// LoadCheckpoint restores the scheduling state captured by SaveCheckpoint
// onto the registered agents, along with the driver clock. Every agent in
// the checkpoint must already be registered; behavior modules are code and
// are not part of the checkpoint.
func (s *Simulation) LoadCheckpoint(r io.Reader) error {
	data, err := serialization.JSONCodec{}.Decode(r)
	if err != nil {
		return err
	}

	clock, err := serialization.AsFloat64(data["time"])
	if err != nil {
		return err
	}

	actors, err := serialization.AsMap(data["actors"])
	if err != nil {
		return err
	}

	for name, raw := range actors {
		agent := s.GetAgentByName(name)
		if agent == nil {
			return fmt.Errorf("checkpoint names unknown agent %s", name)
		}

		state, err := serialization.AsMap(raw)
		if err != nil {
			return fmt.Errorf("checkpoint %s: %w", name, err)
		}

		if err := agent.Timeline().Deserialize(state); err != nil {
			return fmt.Errorf("checkpoint %s: %w", name, err)
		}
	}

	s.driver.RestoreTime(timing.VTimePoint(clock))

	return nil
}

// Terminate terminates the simulation.
func (s *Simulation) Terminate() {
	s.dataRecorder.Flush()
	s.dataRecorder.Close()
}
