package rating

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/avdeev/karmabot/internal/database"
)

// TopLimitMax bounds the leaderboard size regardless of the requested limit.
const TopLimitMax = 50

// Config holds the business-rule knobs for the rating service.
type Config struct {
	// VoteCooldown is the minimum time between two /plus votes for the same
	// ordered (chat, voter, target) triple.
	VoteCooldown time.Duration

	// ActivityPoints is the delta granted per passive-activity award. Zero or
	// negative disables activity awards entirely.
	ActivityPoints int64

	// ActivityCooldown is the minimum time between two activity awards for
	// the same (chat, user) pair.
	ActivityCooldown time.Duration

	// Efficiency cutoffs for the dual-name badge bands.
	GeniusEfficiencyCutoff  int
	SupremeEfficiencyCutoff int
}

// Service is the façade over the profile store and the vote/activity
// ledgers. All rating mutations flow through it; storage failures propagate
// as errors with no retries, expected negative outcomes come back as typed
// results.
type Service struct {
	store  database.Store
	clock  clockwork.Clock
	logger *slog.Logger
	cfg    Config
	badges BadgeResolver
}

// NewService creates a rating service. A nil clock falls back to the real
// clock; tests inject a fake one.
func NewService(store database.Store, clock clockwork.Clock, logger *slog.Logger, cfg Config) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		store:  store,
		clock:  clock,
		logger: logger.With("component", "rating_service"),
		cfg:    cfg,
		badges: NewBadgeResolver(cfg.GeniusEfficiencyCutoff, cfg.SupremeEfficiencyCutoff),
	}
}

func (s *Service) now() int64 {
	return s.clock.Now().Unix()
}

// TouchUser lazily creates the user row and refreshes the identity snapshot.
// Rating is never modified here.
func (s *Service) TouchUser(ctx context.Context, u UserRef) error {
	if err := s.store.UpsertUser(ctx, u.ID, u.Username, u.FirstName, u.LastName, s.now()); err != nil {
		return fmt.Errorf("touch user %d: %w", u.ID, err)
	}
	return nil
}

// TouchChat registers or refreshes a chat in the registry so maintenance
// jobs know it exists.
func (s *Service) TouchChat(ctx context.Context, chatID int64, chatType, title, username string) error {
	if err := s.store.UpsertChat(ctx, chatID, chatType, title, username, s.now()); err != nil {
		return fmt.Errorf("touch chat %d: %w", chatID, err)
	}
	return nil
}

// ListChatIDs returns every chat the bot has registered.
func (s *Service) ListChatIDs(ctx context.Context) ([]int64, error) {
	return s.store.ListChatIDs(ctx)
}

// AddPoints touches the user's identity and atomically applies delta to the
// rating, returning the new value.
func (s *Service) AddPoints(ctx context.Context, u UserRef, delta int64) (int64, error) {
	if err := s.TouchUser(ctx, u); err != nil {
		return 0, err
	}
	rating, err := s.store.AddPoints(ctx, u.ID, delta, s.now())
	if err != nil {
		return 0, fmt.Errorf("add points for user %d: %w", u.ID, err)
	}
	return rating, nil
}

// EfficiencyPercent computes received / (given + received) * 100, rounded to
// the nearest integer, and 0 when the user has no votes either way.
func (s *Service) EfficiencyPercent(ctx context.Context, userID int64) (int, error) {
	given, received, err := s.store.VoteCounts(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("vote counts for user %d: %w", userID, err)
	}
	total := given + received
	if total <= 0 {
		return 0, nil
	}
	return int(math.Round(float64(received) / float64(total) * 100)), nil
}

// CanVote reports whether the ordered (chat, from, to) triple is off
// cooldown, and how long is left otherwise.
func (s *Service) CanVote(ctx context.Context, chatID, fromUserID, toUserID int64) (bool, time.Duration, error) {
	lastTS, err := s.store.LastVoteTS(ctx, chatID, fromUserID, toUserID)
	if err != nil {
		return false, 0, fmt.Errorf("last vote timestamp: %w", err)
	}
	if lastTS == 0 {
		return true, 0, nil
	}

	elapsed := time.Duration(s.now()-lastTS) * time.Second
	if elapsed >= s.cfg.VoteCooldown {
		return true, 0, nil
	}
	return false, s.cfg.VoteCooldown - elapsed, nil
}

// VotePlusOne processes a +1 endorsement from one user to another within a
// chat. Self-votes are rejected outright; cooldown rejections carry the
// remaining wait. On acceptance both identities are touched, the vote is
// appended to the ledger, and the target gains exactly one point.
//
// The cooldown check and the vote write are not atomic: two concurrent votes
// for the same triple may both pass the check. That bounded slip is accepted
// behavior.
func (s *Service) VotePlusOne(ctx context.Context, chatID int64, from, to UserRef) (VoteResult, error) {
	if from.ID == to.ID {
		s.logger.DebugContext(ctx, "Self-vote rejected", "chat_id", chatID, "user_id", from.ID)
		return VoteResult{Status: VoteRejectedSelf}, nil
	}

	ok, retryAfter, err := s.CanVote(ctx, chatID, from.ID, to.ID)
	if err != nil {
		return VoteResult{}, err
	}
	if !ok {
		s.logger.DebugContext(ctx, "Vote rejected by cooldown",
			"chat_id", chatID, "from_user_id", from.ID, "to_user_id", to.ID, "retry_after", retryAfter)
		return VoteResult{Status: VoteRejectedCooldown, RetryAfter: retryAfter}, nil
	}

	if err := s.TouchUser(ctx, from); err != nil {
		return VoteResult{}, err
	}
	if err := s.TouchUser(ctx, to); err != nil {
		return VoteResult{}, err
	}

	if err := s.store.RecordVote(ctx, chatID, from.ID, to.ID, s.now()); err != nil {
		return VoteResult{}, fmt.Errorf("record vote: %w", err)
	}

	newRating, err := s.store.AddPoints(ctx, to.ID, 1, s.now())
	if err != nil {
		return VoteResult{}, fmt.Errorf("add vote point: %w", err)
	}

	s.logger.InfoContext(ctx, "Vote accepted",
		"chat_id", chatID, "from_user_id", from.ID, "to_user_id", to.ID, "new_rating", newRating)
	return VoteResult{Status: VoteAccepted, NewRating: newRating}, nil
}

// CanAwardActivity reports whether the (chat, user) pair is off the activity
// cooldown. Always false when the feature is disabled.
func (s *Service) CanAwardActivity(ctx context.Context, chatID, userID int64) (bool, time.Duration, error) {
	if s.cfg.ActivityPoints <= 0 {
		return false, 0, nil
	}

	lastTS, err := s.store.LastActivityTS(ctx, chatID, userID)
	if err != nil {
		return false, 0, fmt.Errorf("last activity timestamp: %w", err)
	}
	if lastTS == 0 {
		return true, 0, nil
	}

	elapsed := time.Duration(s.now()-lastTS) * time.Second
	if elapsed >= s.cfg.ActivityCooldown {
		return true, 0, nil
	}
	return false, s.cfg.ActivityCooldown - elapsed, nil
}

// AwardActivity grants the configured point delta for ordinary chat
// participation, rate-limited per (chat, user). The badge snapshot before
// and after the award feeds BadgeChanged; the comparison is by threshold
// only, so crossing into a dual-name band counts once.
func (s *Service) AwardActivity(ctx context.Context, chatID int64, u UserRef) (ActivityResult, error) {
	if s.cfg.ActivityPoints <= 0 {
		return ActivityResult{Status: ActivityDisabled}, nil
	}

	if err := s.TouchUser(ctx, u); err != nil {
		return ActivityResult{}, err
	}

	row, err := s.store.GetUser(ctx, u.ID)
	if err != nil {
		return ActivityResult{}, fmt.Errorf("get user %d: %w", u.ID, err)
	}
	var oldRating int64
	if row != nil {
		oldRating = row.Rating
	}
	oldBadge := s.badges.ForRating(oldRating, 0)

	ok, retryAfter, err := s.CanAwardActivity(ctx, chatID, u.ID)
	if err != nil {
		return ActivityResult{}, err
	}
	if !ok {
		return ActivityResult{Status: ActivityOnCooldown, RetryAfter: retryAfter}, nil
	}

	if err := s.store.RecordActivity(ctx, chatID, u.ID, s.now()); err != nil {
		return ActivityResult{}, fmt.Errorf("record activity: %w", err)
	}

	newRating, err := s.store.AddPoints(ctx, u.ID, s.cfg.ActivityPoints, s.now())
	if err != nil {
		return ActivityResult{}, fmt.Errorf("add activity points: %w", err)
	}

	newBadge := s.badges.ForRating(newRating, 0)
	changed := newBadge.Threshold != oldBadge.Threshold

	s.logger.DebugContext(ctx, "Activity awarded",
		"chat_id", chatID, "user_id", u.ID, "new_rating", newRating, "badge_changed", changed)
	return ActivityResult{Status: ActivityAwarded, NewRating: newRating, BadgeChanged: changed}, nil
}

// Profile builds the read model for a user, touching the identity first so
// the row exists.
func (s *Service) Profile(ctx context.Context, u UserRef) (Profile, error) {
	if err := s.TouchUser(ctx, u); err != nil {
		return Profile{}, err
	}

	row, err := s.store.GetUser(ctx, u.ID)
	if err != nil {
		return Profile{}, fmt.Errorf("get user %d: %w", u.ID, err)
	}

	var rating int64
	name := displayName(u.ID, u.Username, u.FirstName, u.LastName)
	if row != nil {
		rating = row.Rating
		name = displayName(row.UserID, row.Username.String, row.FirstName.String, row.LastName.String)
	}

	eff, err := s.EfficiencyPercent(ctx, u.ID)
	if err != nil {
		return Profile{}, err
	}

	return Profile{
		UserID:            u.ID,
		DisplayName:       name,
		Rating:            rating,
		Badge:             s.badges.ForRating(rating, eff),
		EfficiencyPercent: eff,
		NextBadgeHint:     NextBadgeHint(rating),
	}, nil
}

// Top returns the leaderboard, limit clamped to TopLimitMax. Next-badge
// hints are omitted in list context.
func (s *Service) Top(ctx context.Context, limit int) ([]Profile, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > TopLimitMax {
		limit = TopLimitMax
	}

	rows, err := s.store.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("top users: %w", err)
	}

	profiles := make([]Profile, 0, len(rows))
	for _, row := range rows {
		eff, err := s.EfficiencyPercent(ctx, row.UserID)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, Profile{
			UserID:            row.UserID,
			DisplayName:       displayName(row.UserID, row.Username.String, row.FirstName.String, row.LastName.String),
			Rating:            row.Rating,
			Badge:             s.badges.ForRating(row.Rating, eff),
			EfficiencyPercent: eff,
		})
	}
	return profiles, nil
}

// BadgeFor exposes badge resolution with the service's configured cutoffs.
func (s *Service) BadgeFor(rating int64, efficiencyPercent int) Badge {
	return s.badges.ForRating(rating, efficiencyPercent)
}
