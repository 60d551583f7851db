package rating

import (
	"strconv"
	"strings"
	"time"
)

// UserRef is the minimal identity the rating core accepts at its boundary.
// Handlers map the chat framework's user objects into this shape so the core
// never depends on a richer external type.
type UserRef struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	IsBot     bool
}

// Profile is the read model returned by Service.Profile and Service.Top.
type Profile struct {
	UserID            int64
	DisplayName       string
	Rating            int64
	Badge             Badge
	EfficiencyPercent int
	NextBadgeHint     string
}

// VoteStatus is the outcome of a vote attempt. Rejections are expected,
// frequent outcomes and are modeled as values, not errors.
type VoteStatus int

const (
	VoteAccepted VoteStatus = iota
	VoteRejectedSelf
	VoteRejectedCooldown
)

// VoteResult reports what happened to a /plus attempt. NewRating is only
// meaningful when Status is VoteAccepted; RetryAfter only when the vote was
// rejected by the cooldown.
type VoteResult struct {
	Status     VoteStatus
	NewRating  int64
	RetryAfter time.Duration
}

// ActivityStatus is the outcome of a passive-activity award attempt.
type ActivityStatus int

const (
	ActivityAwarded ActivityStatus = iota
	ActivityDisabled
	ActivityOnCooldown
)

// ActivityResult reports what happened to an activity award attempt.
// BadgeChanged is set when the award moved the user across a badge threshold
// (efficiency tie-break ignored), so callers can announce the new rank.
type ActivityResult struct {
	Status       ActivityStatus
	NewRating    int64
	RetryAfter   time.Duration
	BadgeChanged bool
}

// displayName follows the precedence @username, then "first last", then the
// numeric ID.
func displayName(userID int64, username, firstName, lastName string) string {
	if username != "" {
		return "@" + username
	}
	parts := make([]string, 0, 2)
	if firstName != "" {
		parts = append(parts, firstName)
	}
	if lastName != "" {
		parts = append(parts, lastName)
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	return strconv.FormatInt(userID, 10)
}
