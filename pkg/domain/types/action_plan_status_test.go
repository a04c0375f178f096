package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
)

func TestActionPlanStatus_IsValid(t *testing.T) {
	for _, s := range types.AllActionPlanStatuses() {
		gt.Bool(t, s.IsValid()).True()
	}
	gt.Bool(t, types.ActionPlanStatus("DONE").IsValid()).False()
	gt.Bool(t, types.ActionPlanStatus("").IsValid()).False()
}

func TestActionPlanStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from types.ActionPlanStatus
		to   types.ActionPlanStatus
		want bool
	}{
		{"pending to in progress", types.ActionPlanStatusPending, types.ActionPlanStatusInProgress, true},
		{"pending to cancelled", types.ActionPlanStatusPending, types.ActionPlanStatusCancelled, true},
		{"pending to completed", types.ActionPlanStatusPending, types.ActionPlanStatusCompleted, false},
		{"in progress to evidence submitted", types.ActionPlanStatusInProgress, types.ActionPlanStatusEvidenceSubmitted, true},
		{"in progress to completed", types.ActionPlanStatusInProgress, types.ActionPlanStatusCompleted, false},
		{"evidence submitted to completed", types.ActionPlanStatusEvidenceSubmitted, types.ActionPlanStatusCompleted, true},
		{"evidence submitted back to in progress", types.ActionPlanStatusEvidenceSubmitted, types.ActionPlanStatusInProgress, true},
		{"completed is terminal", types.ActionPlanStatusCompleted, types.ActionPlanStatusInProgress, false},
		{"cancelled is terminal", types.ActionPlanStatusCancelled, types.ActionPlanStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.from.CanTransitionTo(tt.to)).Equal(tt.want)
		})
	}
}

func TestActionPlanStatus_IsTerminal(t *testing.T) {
	gt.Bool(t, types.ActionPlanStatusCompleted.IsTerminal()).True()
	gt.Bool(t, types.ActionPlanStatusCancelled.IsTerminal()).True()
	gt.Bool(t, types.ActionPlanStatusPending.IsTerminal()).False()
	gt.Bool(t, types.ActionPlanStatusEvidenceSubmitted.IsTerminal()).False()
}

func TestParseActionPlanStatus(t *testing.T) {
	s, err := types.ParseActionPlanStatus("IN_PROGRESS")
	gt.NoError(t, err).Required()
	gt.Value(t, s).Equal(types.ActionPlanStatusInProgress)

	_, err = types.ParseActionPlanStatus("in_progress")
	gt.Value(t, err).NotNil()
}
