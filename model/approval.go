package model

import "time"

// ApprovalState is the state of a posted request message.
type ApprovalState int

const (
	// StatePosted means the clip waits for a moderator.
	StatePosted ApprovalState = iota
	// StatePublished means the clip was approved and reposted.
	StatePublished
	// StateDiscarded means the clip was rejected.
	StateDiscarded
)

func (s ApprovalState) String() string {
	switch s {
	case StatePosted:
		return "posted"
	case StatePublished:
		return "published"
	case StateDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Decision is a moderator verdict carried by a reaction.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Reaction emojis attached to every request message, in this order.
const (
	ApproveEmoji = "✅"
	RejectEmoji  = "❌"
)

// DecisionFromEmoji maps a reaction to a decision.
func DecisionFromEmoji(name string) (Decision, bool) {
	switch name {
	case ApproveEmoji:
		return DecisionApprove, true
	case RejectEmoji:
		return DecisionReject, true
	default:
		return "", false
	}
}

// DecisionRecord is one entry of the decision log.
type DecisionRecord struct {
	RequestMessageID string
	ModeratorID      string
	Decision         Decision
	ClipsMessageID   string
	DecidedAt        time.Time
}
