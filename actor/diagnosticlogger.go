package actor

import (
	"log"

	"github.com/sarchlab/throng/hooking"
)

// DiagnosticLogger is a hook that prints dropped proposals, preemptions, and
// time-travel attempts. Drops are diagnostics, not errors: the committed
// action keeps running.
type DiagnosticLogger struct {
	hooking.LogHookBase
}

// NewDiagnosticLogger returns a DiagnosticLogger which will write into the
// logger.
func NewDiagnosticLogger(logger *log.Logger) *DiagnosticLogger {
	l := new(DiagnosticLogger)
	l.Logger = logger

	return l
}

// Func writes the diagnostic information into the logger.
func (l *DiagnosticLogger) Func(ctx hooking.HookCtx) {
	timeline, ok := ctx.Domain.(*Timeline)
	if !ok {
		return
	}

	switch ctx.Pos {
	case HookPosProposalDropped, HookPosEventPreempted:
		evt := ctx.Item.(*ScheduledEvent)
		l.Printf("%s, %s, %s: %s",
			timeline.Now(), timeline.Name(), ctx.Detail, evt)
	case HookPosEventVoided:
		evt := ctx.Item.(*ScheduledEvent)
		l.Printf("%s, %s, voided: %s",
			timeline.Now(), timeline.Name(), evt)
	case HookPosTimeTravel:
		l.Printf("%s, %s, %v",
			timeline.Now(), timeline.Name(), ctx.Detail)
	}
}
