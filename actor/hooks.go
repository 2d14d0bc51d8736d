package actor

import (
	"github.com/sarchlab/throng/hooking"
)

// HookPosEventCommitted triggers when a candidate becomes the pending event.
var HookPosEventCommitted = &hooking.HookPos{Name: "EventCommitted"}

// HookPosEventPreempted triggers when a pending event is discarded in favor
// of a replacement. The Item is the discarded event; the Detail names the
// reason.
var HookPosEventPreempted = &hooking.HookPos{Name: "EventPreempted"}

// HookPosProposalDropped triggers when a candidate is rejected by the
// preemption policy. The Item is the rejected candidate; the Detail names
// the reason.
var HookPosProposalDropped = &hooking.HookPos{Name: "ProposalDropped"}

// HookPosEventStarted triggers when the pending event becomes active and its
// pre-action is about to fire.
var HookPosEventStarted = &hooking.HookPos{Name: "EventStarted"}

// HookPosEventServiced triggers when the pending event reaches its end time
// and is cleared from the timeline.
var HookPosEventServiced = &hooking.HookPos{Name: "EventServiced"}

// HookPosEventVoided triggers when the pending event is cleared externally
// without firing any callback.
var HookPosEventVoided = &hooking.HookPos{Name: "EventVoided"}

// HookPosTimeTravel triggers when a timeline is asked to move backward. The
// Detail carries the TimeTravelError.
var HookPosTimeTravel = &hooking.HookPos{Name: "TimeTravel"}
