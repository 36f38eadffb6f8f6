package pipeline

import (
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/shorts-studio/internal/types"
)

// State is a point in a content item's lifecycle.
type State string

const (
	StateDrafted     State = "drafted"
	StateVerifying   State = "verifying"
	StateValid       State = "valid"
	StateInvalid     State = "invalid"
	StateImproved    State = "improved"
	StateRegenerated State = "regenerated"
	StateReady       State = "ready"
	StateBlocked     State = "blocked"
)

// Action is the operator choice that drives a transition.
type Action string

const (
	ActionNone       Action = ""
	ActionImprove    Action = "improve"
	ActionRegenerate Action = "regenerate"
	ActionForce      Action = "force"
	ActionSkip       Action = "skip-verification"
)

// transition is an allowed edge and the action it requires
type transition struct {
	To     State
	Action Action
}

// transitions lists every allowed edge. Reaching StateReady from StateInvalid
// always requires an explicit action.
var transitions = map[State][]transition{
	StateDrafted: {
		{To: StateVerifying},
		{To: StateReady, Action: ActionSkip},
	},
	StateVerifying: {
		{To: StateValid},
		{To: StateInvalid},
	},
	StateValid: {
		{To: StateReady},
		{To: StateImproved, Action: ActionImprove},
		{To: StateRegenerated, Action: ActionRegenerate},
	},
	StateInvalid: {
		{To: StateBlocked},
		{To: StateImproved, Action: ActionImprove},
		{To: StateRegenerated, Action: ActionRegenerate},
		{To: StateReady, Action: ActionForce},
	},
	StateImproved: {
		{To: StateReady},
	},
	StateRegenerated: {
		{To: StateVerifying},
	},
}

// TransitionError represents a lifecycle move that is not allowed
type TransitionError struct {
	From   State
	To     State
	Action Action
}

func (e *TransitionError) Error() string {
	if e.Action == ActionNone {
		return fmt.Sprintf("cannot move from %s to %s", e.From, e.To)
	}
	return fmt.Sprintf("cannot move from %s to %s with %s", e.From, e.To, e.Action)
}

// Lifecycle tracks one content item through the states.
// A regenerated draft is verified once and that verdict is final.
type Lifecycle struct {
	state       State
	history     []State
	regenerated bool
}

// NewLifecycle starts a lifecycle at StateDrafted.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{state: StateDrafted, history: []State{StateDrafted}}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	return l.state
}

// History returns every state visited, in order.
func (l *Lifecycle) History() []State {
	return append([]State(nil), l.history...)
}

// Advance moves to the next state if the edge exists for action.
func (l *Lifecycle) Advance(to State, action Action) error {
	if action == ActionRegenerate && l.regenerated {
		return &TransitionError{From: l.state, To: to, Action: action}
	}
	for _, t := range transitions[l.state] {
		if t.To == to && t.Action == action {
			if action == ActionRegenerate {
				l.regenerated = true
			}
			l.state = to
			l.history = append(l.history, to)
			return nil
		}
	}
	return &TransitionError{From: l.state, To: to, Action: action}
}

// Verdict moves from StateVerifying to StateValid or StateInvalid. IsValid decides.
func (l *Lifecycle) Verdict(verdict types.VerificationVerdict) error {
	if verdict.IsValid {
		return l.Advance(StateValid, ActionNone)
	}
	return l.Advance(StateInvalid, ActionNone)
}

// GateDecision is the outcome of the assembly gate.
type GateDecision struct {
	Proceed bool
	Forced  bool
	State   State
}

// Gate decides whether content with verdict may proceed to assembly.
// IsValid is authoritative; force lets an invalid verdict through and is always logged.
// The decision depends only on its arguments.
func Gate(verdict types.VerificationVerdict, force bool) GateDecision {
	if !verdict.Consistent() {
		log.Printf("[gate] verdict disagreement: isValid=%t with %d issues; gating on isValid",
			verdict.IsValid, len(verdict.Issues))
	}
	if verdict.IsValid {
		return GateDecision{Proceed: true, State: StateReady}
	}
	if force {
		log.Printf("[gate] FORCE: proceeding despite invalid verdict (confidence=%s, issues: %s)",
			verdict.Confidence, strings.Join(verdict.Issues, "; "))
		return GateDecision{Proceed: true, Forced: true, State: StateReady}
	}
	return GateDecision{State: StateBlocked}
}

// apply moves l according to the decision from StateValid or StateInvalid.
func (d GateDecision) apply(l *Lifecycle) error {
	switch {
	case d.Forced:
		return l.Advance(StateReady, ActionForce)
	case d.Proceed:
		return l.Advance(StateReady, ActionNone)
	default:
		return l.Advance(StateBlocked, ActionNone)
	}
}
