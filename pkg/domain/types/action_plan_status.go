package types

import "fmt"

// ActionPlanStatus represents the status of an action plan attached to a risk
type ActionPlanStatus string

const (
	ActionPlanStatusPending           ActionPlanStatus = "PENDING"
	ActionPlanStatusInProgress        ActionPlanStatus = "IN_PROGRESS"
	ActionPlanStatusEvidenceSubmitted ActionPlanStatus = "EVIDENCE_SUBMITTED"
	ActionPlanStatusCompleted         ActionPlanStatus = "COMPLETED"
	ActionPlanStatusCancelled         ActionPlanStatus = "CANCELLED"
)

var actionPlanTransitions = map[ActionPlanStatus][]ActionPlanStatus{
	ActionPlanStatusPending:           {ActionPlanStatusInProgress, ActionPlanStatusCancelled},
	ActionPlanStatusInProgress:        {ActionPlanStatusEvidenceSubmitted, ActionPlanStatusCancelled},
	ActionPlanStatusEvidenceSubmitted: {ActionPlanStatusCompleted, ActionPlanStatusInProgress},
}

// AllActionPlanStatuses returns all valid action plan statuses
func AllActionPlanStatuses() []ActionPlanStatus {
	return []ActionPlanStatus{
		ActionPlanStatusPending,
		ActionPlanStatusInProgress,
		ActionPlanStatusEvidenceSubmitted,
		ActionPlanStatusCompleted,
		ActionPlanStatusCancelled,
	}
}

// IsValid checks if the action plan status is valid
func (s ActionPlanStatus) IsValid() bool {
	switch s {
	case ActionPlanStatusPending,
		ActionPlanStatusInProgress,
		ActionPlanStatusEvidenceSubmitted,
		ActionPlanStatusCompleted,
		ActionPlanStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is allowed from s
func (s ActionPlanStatus) IsTerminal() bool {
	return s == ActionPlanStatusCompleted || s == ActionPlanStatusCancelled
}

// CanTransitionTo reports whether moving from s to next is allowed
func (s ActionPlanStatus) CanTransitionTo(next ActionPlanStatus) bool {
	for _, allowed := range actionPlanTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// String returns the string representation of the action plan status
func (s ActionPlanStatus) String() string {
	return string(s)
}

// ParseActionPlanStatus parses a string into an ActionPlanStatus
func ParseActionPlanStatus(s string) (ActionPlanStatus, error) {
	status := ActionPlanStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid action plan status: %s", s)
	}
	return status, nil
}

// EvidenceReviewStatus represents the review state of an uploaded evidence
type EvidenceReviewStatus string

const (
	EvidenceReviewPending  EvidenceReviewStatus = "PENDING"
	EvidenceReviewApproved EvidenceReviewStatus = "APPROVED"
	EvidenceReviewRejected EvidenceReviewStatus = "REJECTED"
)

// IsValid checks if the review status is valid
func (s EvidenceReviewStatus) IsValid() bool {
	switch s {
	case EvidenceReviewPending, EvidenceReviewApproved, EvidenceReviewRejected:
		return true
	default:
		return false
	}
}

func (s EvidenceReviewStatus) String() string {
	return string(s)
}
