package domain

// ArtDecision is the answer to the "does this need art work?" prompt shown
// when an order leaves pendente.
type ArtDecision int

const (
	ArtDecisionUnanswered ArtDecision = iota
	ArtDecisionYes
	ArtDecisionNo
)

// TransitionRequest describes a requested status change before gating.
type TransitionRequest struct {
	Current     Status
	Target      Status
	ArtDecision ArtDecision
}

// TransitionResult is the gated outcome. Target may differ from the
// requested target when a rewrite rule applied.
type TransitionResult struct {
	Target Status
	// NoOp is set when the order is already in the requested status.
	NoOp bool
	// RequiresReactivate is set for cancelado -> pendente; the caller must
	// hold the elevated reactivation capability before committing.
	RequiresReactivate bool
}

// ResolveTransition applies the board's gating rules to a requested
// transition. It is pure: persistence and permission checks stay with the
// caller.
//
// Rules:
//   - same status: no-op
//   - leaving pendente (except to cancelado) forks on the art prompt:
//     yes -> produzindo_arte, no -> em_producao, unanswered -> error
//   - cancelado -> pendente is flagged for the elevated-role check
//   - any other move out of a terminal status is rejected
func ResolveTransition(req TransitionRequest) (TransitionResult, error) {
	if !req.Current.Valid() || !req.Target.Valid() {
		return TransitionResult{}, ErrInvalidStatus
	}
	if req.Target == req.Current {
		return TransitionResult{Target: req.Current, NoOp: true}, nil
	}

	if req.Current == StatusCanceled {
		if req.Target != StatusPending {
			return TransitionResult{}, ErrTerminalStatus
		}
		return TransitionResult{Target: StatusPending, RequiresReactivate: true}, nil
	}
	if req.Current == StatusDelivered {
		return TransitionResult{}, ErrTerminalStatus
	}

	if req.Current == StatusPending && req.Target != StatusCanceled {
		switch req.ArtDecision {
		case ArtDecisionYes:
			return TransitionResult{Target: StatusArtInProgress}, nil
		case ArtDecisionNo:
			return TransitionResult{Target: StatusInProduction}, nil
		default:
			return TransitionResult{}, ErrArtDecisionRequired
		}
	}

	return TransitionResult{Target: req.Target}, nil
}
