package domain

import (
	"errors"
	"testing"
)

func TestResolveTransitionSameStatusIsNoOp(t *testing.T) {
	result, err := ResolveTransition(TransitionRequest{
		Current: StatusReady,
		Target:  StatusReady,
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !result.NoOp {
		t.Fatalf("expected no-op, got %+v", result)
	}
	if result.Target != StatusReady {
		t.Fatalf("expected target pronto, got %s", result.Target)
	}
}

func TestResolveTransitionPendingForksOnArtDecision(t *testing.T) {
	tests := []struct {
		name     string
		decision ArtDecision
		want     Status
		wantErr  error
	}{
		{name: "needs art", decision: ArtDecisionYes, want: StatusArtInProgress},
		{name: "no art", decision: ArtDecisionNo, want: StatusInProduction},
		{name: "unanswered", decision: ArtDecisionUnanswered, wantErr: ErrArtDecisionRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ResolveTransition(TransitionRequest{
				Current:     StatusPending,
				Target:      StatusReady,
				ArtDecision: tt.decision,
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if result.Target != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, result.Target)
			}
		})
	}
}

func TestResolveTransitionPendingToCanceledSkipsArtPrompt(t *testing.T) {
	result, err := ResolveTransition(TransitionRequest{
		Current: StatusPending,
		Target:  StatusCanceled,
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if result.Target != StatusCanceled {
		t.Fatalf("expected cancelado, got %s", result.Target)
	}
}

func TestResolveTransitionReactivationIsFlagged(t *testing.T) {
	result, err := ResolveTransition(TransitionRequest{
		Current: StatusCanceled,
		Target:  StatusPending,
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !result.RequiresReactivate {
		t.Fatalf("expected reactivation flag, got %+v", result)
	}
	if result.Target != StatusPending {
		t.Fatalf("expected pendente, got %s", result.Target)
	}
}

func TestResolveTransitionTerminalStatusesReject(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		target  Status
	}{
		{name: "delivered to ready", current: StatusDelivered, target: StatusReady},
		{name: "delivered to canceled", current: StatusDelivered, target: StatusCanceled},
		{name: "canceled to production", current: StatusCanceled, target: StatusInProduction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveTransition(TransitionRequest{Current: tt.current, Target: tt.target})
			if !errors.Is(err, ErrTerminalStatus) {
				t.Fatalf("expected terminal status error, got %v", err)
			}
		})
	}
}

func TestResolveTransitionRejectsUnknownStatus(t *testing.T) {
	_, err := ResolveTransition(TransitionRequest{Current: StatusQuote, Target: Status("finalizado")})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("aguardando_retirada")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if status != StatusAwaitingPickup {
		t.Fatalf("expected aguardando_retirada, got %s", status)
	}
	if _, err := ParseStatus("shipped"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
}
