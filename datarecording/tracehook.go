package datarecording

import (
	"fmt"

	"github.com/sarchlab/throng/actor"
	"github.com/sarchlab/throng/hooking"
)

// TraceTableName is the table scheduling diagnostics are recorded into.
const TraceTableName = "timeline_trace"

// A TraceEntry is one recorded scheduling decision: a commit, a preemption,
// a dropped proposal, a service, or a time-travel attempt.
type TraceEntry struct {
	Time     float64
	Actor    string
	Kind     string
	EventID  string
	Label    string
	Priority int
	Start    float64
	End      float64
	Detail   string
}

// A TraceHook records every scheduling decision of the timelines it is
// attached to.
type TraceHook struct {
	recorder DataRecorder
}

// NewTraceHook creates a TraceHook writing into the recorder. The trace
// table is created eagerly.
func NewTraceHook(recorder DataRecorder) *TraceHook {
	recorder.CreateTable(TraceTableName, TraceEntry{})

	return &TraceHook{recorder: recorder}
}

// Func records the hook context as one trace row.
func (h *TraceHook) Func(ctx hooking.HookCtx) {
	timeline, ok := ctx.Domain.(*actor.Timeline)
	if !ok {
		return
	}

	entry := TraceEntry{
		Time:  float64(timeline.Now()),
		Actor: timeline.Name(),
		Kind:  ctx.Pos.Name,
	}

	if evt, ok := ctx.Item.(*actor.ScheduledEvent); ok {
		entry.EventID = evt.ID()
		entry.Label = evt.Label()
		entry.Priority = evt.Priority()
		entry.Start = float64(evt.Start())
		entry.End = float64(evt.End())
	}

	if ctx.Detail != nil {
		entry.Detail = fmt.Sprint(ctx.Detail)
	}

	h.recorder.InsertData(TraceTableName, entry)
}
