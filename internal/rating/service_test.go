package rating_test

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/avdeev/karmabot/internal/database"
	"github.com/avdeev/karmabot/internal/rating"
)

// memStore is an in-memory Store for service tests. Not safe for concurrent
// use; service tests are sequential.
type memStore struct {
	users      map[int64]*database.User
	votes      []database.Vote
	activities map[[2]int64]int64
	chats      map[int64]struct{}
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[int64]*database.User),
		activities: make(map[[2]int64]int64),
		chats:      make(map[int64]struct{}),
	}
}

func nullable(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func (m *memStore) Ping(context.Context) error { return nil }

func (m *memStore) UpsertUser(_ context.Context, userID int64, username, firstName, lastName string, now int64) error {
	u, ok := m.users[userID]
	if !ok {
		u = &database.User{UserID: userID, CreatedAt: now}
		m.users[userID] = u
	}
	u.Username = nullable(username)
	u.FirstName = nullable(firstName)
	u.LastName = nullable(lastName)
	u.UpdatedAt = now
	return nil
}

func (m *memStore) AddPoints(_ context.Context, userID, delta, now int64) (int64, error) {
	u, ok := m.users[userID]
	if !ok {
		return 0, nil
	}
	u.Rating += delta
	u.UpdatedAt = now
	return u.Rating, nil
}

func (m *memStore) GetUser(_ context.Context, userID int64) (*database.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (m *memStore) Top(_ context.Context, limit int) ([]database.User, error) {
	all := make([]database.User, 0, len(m.users))
	for _, u := range m.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Rating != all[j].Rating {
			return all[i].Rating > all[j].Rating
		}
		return all[i].UpdatedAt < all[j].UpdatedAt
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *memStore) LastVoteTS(_ context.Context, chatID, fromUserID, toUserID int64) (int64, error) {
	var last int64
	for _, v := range m.votes {
		if v.ChatID == chatID && v.FromUserID == fromUserID && v.ToUserID == toUserID && v.TS > last {
			last = v.TS
		}
	}
	return last, nil
}

func (m *memStore) RecordVote(_ context.Context, chatID, fromUserID, toUserID, ts int64) error {
	m.votes = append(m.votes, database.Vote{
		ID: int64(len(m.votes) + 1), ChatID: chatID, FromUserID: fromUserID, ToUserID: toUserID, TS: ts,
	})
	return nil
}

func (m *memStore) VoteCounts(_ context.Context, userID int64) (int64, int64, error) {
	var given, received int64
	for _, v := range m.votes {
		if v.FromUserID == userID {
			given++
		}
		if v.ToUserID == userID {
			received++
		}
	}
	return given, received, nil
}

func (m *memStore) LastActivityTS(_ context.Context, chatID, userID int64) (int64, error) {
	return m.activities[[2]int64{chatID, userID}], nil
}

func (m *memStore) RecordActivity(_ context.Context, chatID, userID, ts int64) error {
	m.activities[[2]int64{chatID, userID}] = ts
	return nil
}

func (m *memStore) UpsertChat(_ context.Context, chatID int64, _, _, _ string, _ int64) error {
	m.chats[chatID] = struct{}{}
	return nil
}

func (m *memStore) ListChatIDs(context.Context) ([]int64, error) {
	ids := make([]int64, 0, len(m.chats))
	for id := range m.chats {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *memStore) ListUserIDs(_ context.Context, onlyZeroRating bool) ([]int64, error) {
	ids := make([]int64, 0, len(m.users))
	for id, u := range m.users {
		if onlyZeroRating && u.Rating != 0 {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *memStore) SetRating(_ context.Context, userID, ratingValue, now int64) error {
	if u, ok := m.users[userID]; ok {
		u.Rating = ratingValue
		u.UpdatedAt = now
	}
	return nil
}

func (m *memStore) RunSQLMaintenance(context.Context) error { return nil }

func newTestService(store database.Store, clock clockwork.Clock, cfg rating.Config) *rating.Service {
	if cfg.VoteCooldown == 0 {
		cfg.VoteCooldown = 100 * time.Second
	}
	return rating.NewService(store, clock, nil, cfg)
}

func TestVotePlusOne_SelfVoteRejected(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMemStore(), clockwork.NewFakeClock(), rating.Config{})

	alice := rating.UserRef{ID: 1, Username: "alice"}
	result, err := svc.VotePlusOne(context.Background(), 10, alice, alice)
	if err != nil {
		t.Fatalf("VotePlusOne() error = %v", err)
	}
	if result.Status != rating.VoteRejectedSelf {
		t.Errorf("Status = %v, want VoteRejectedSelf", result.Status)
	}
}

func TestVotePlusOne_CooldownWindow(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	clock := clockwork.NewFakeClock()
	svc := newTestService(store, clock, rating.Config{VoteCooldown: 100 * time.Second})

	ctx := context.Background()
	alice := rating.UserRef{ID: 1, Username: "alice"}
	bob := rating.UserRef{ID: 2, Username: "bob"}

	result, err := svc.VotePlusOne(ctx, 10, alice, bob)
	if err != nil {
		t.Fatalf("first vote: %v", err)
	}
	if result.Status != rating.VoteAccepted || result.NewRating != 1 {
		t.Fatalf("first vote = %+v, want accepted with rating 1", result)
	}

	clock.Advance(50 * time.Second)
	result, err = svc.VotePlusOne(ctx, 10, alice, bob)
	if err != nil {
		t.Fatalf("second vote: %v", err)
	}
	if result.Status != rating.VoteRejectedCooldown {
		t.Fatalf("second vote status = %v, want VoteRejectedCooldown", result.Status)
	}
	if result.RetryAfter != 50*time.Second {
		t.Errorf("RetryAfter = %v, want 50s", result.RetryAfter)
	}

	clock.Advance(50 * time.Second)
	result, err = svc.VotePlusOne(ctx, 10, alice, bob)
	if err != nil {
		t.Fatalf("third vote: %v", err)
	}
	if result.Status != rating.VoteAccepted || result.NewRating != 2 {
		t.Errorf("third vote = %+v, want accepted with rating 2", result)
	}
}

func TestVotePlusOne_CooldownIsPerTupleAndPerChat(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	clock := clockwork.NewFakeClock()
	svc := newTestService(store, clock, rating.Config{VoteCooldown: time.Hour})

	ctx := context.Background()
	alice := rating.UserRef{ID: 1, Username: "alice"}
	bob := rating.UserRef{ID: 2, Username: "bob"}
	carol := rating.UserRef{ID: 3, Username: "carol"}

	if result, _ := svc.VotePlusOne(ctx, 10, alice, bob); result.Status != rating.VoteAccepted {
		t.Fatalf("initial vote status = %v", result.Status)
	}

	// Different target, same voter and chat.
	if result, _ := svc.VotePlusOne(ctx, 10, alice, carol); result.Status != rating.VoteAccepted {
		t.Errorf("vote for different target status = %v, want accepted", result.Status)
	}

	// Reverse direction is a different ordered pair.
	if result, _ := svc.VotePlusOne(ctx, 10, bob, alice); result.Status != rating.VoteAccepted {
		t.Errorf("reverse vote status = %v, want accepted", result.Status)
	}

	// Same pair, different chat.
	if result, _ := svc.VotePlusOne(ctx, 20, alice, bob); result.Status != rating.VoteAccepted {
		t.Errorf("vote in other chat status = %v, want accepted", result.Status)
	}

	// Same pair, same chat: still on cooldown.
	if result, _ := svc.VotePlusOne(ctx, 10, alice, bob); result.Status != rating.VoteRejectedCooldown {
		t.Errorf("repeat vote status = %v, want VoteRejectedCooldown", result.Status)
	}
}

func TestAwardActivity(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	clock := clockwork.NewFakeClock()
	svc := newTestService(store, clock, rating.Config{
		ActivityPoints:   1,
		ActivityCooldown: time.Minute,
	})

	ctx := context.Background()
	alice := rating.UserRef{ID: 1, Username: "alice"}

	result, err := svc.AwardActivity(ctx, 10, alice)
	if err != nil {
		t.Fatalf("first award: %v", err)
	}
	if result.Status != rating.ActivityAwarded || result.NewRating != 1 {
		t.Fatalf("first award = %+v, want awarded with rating 1", result)
	}
	if !result.BadgeChanged {
		t.Error("first award should cross the 1-point badge threshold")
	}

	clock.Advance(30 * time.Second)
	result, err = svc.AwardActivity(ctx, 10, alice)
	if err != nil {
		t.Fatalf("second award: %v", err)
	}
	if result.Status != rating.ActivityOnCooldown {
		t.Fatalf("second award status = %v, want ActivityOnCooldown", result.Status)
	}
	if result.RetryAfter != 30*time.Second {
		t.Errorf("RetryAfter = %v, want 30s", result.RetryAfter)
	}

	clock.Advance(31 * time.Second)
	result, err = svc.AwardActivity(ctx, 10, alice)
	if err != nil {
		t.Fatalf("third award: %v", err)
	}
	if result.Status != rating.ActivityAwarded || result.NewRating != 2 {
		t.Errorf("third award = %+v, want awarded with rating 2", result)
	}
	if result.BadgeChanged {
		t.Error("third award should not change the badge")
	}

	// Per-chat cooldown: another chat awards immediately.
	if result, _ := svc.AwardActivity(ctx, 20, alice); result.Status != rating.ActivityAwarded {
		t.Errorf("award in other chat status = %v, want awarded", result.Status)
	}
}

func TestAwardActivity_Disabled(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMemStore(), clockwork.NewFakeClock(), rating.Config{ActivityPoints: 0})

	result, err := svc.AwardActivity(context.Background(), 10, rating.UserRef{ID: 1})
	if err != nil {
		t.Fatalf("AwardActivity() error = %v", err)
	}
	if result.Status != rating.ActivityDisabled {
		t.Errorf("Status = %v, want ActivityDisabled", result.Status)
	}
}

func TestEfficiencyPercent(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	clock := clockwork.NewFakeClock()
	svc := newTestService(store, clock, rating.Config{VoteCooldown: time.Second})

	ctx := context.Background()
	alice := rating.UserRef{ID: 1, Username: "alice"}

	// No votes either way.
	eff, err := svc.EfficiencyPercent(ctx, alice.ID)
	if err != nil {
		t.Fatalf("EfficiencyPercent() error = %v", err)
	}
	if eff != 0 {
		t.Errorf("empty efficiency = %d, want 0", eff)
	}

	// Alice gives 3 votes and receives 9: 9/12 = 75%.
	voters := []rating.UserRef{{ID: 2}, {ID: 3}, {ID: 4}}
	for i, target := range voters {
		clock.Advance(time.Duration(i+1) * time.Second)
		if result, err := svc.VotePlusOne(ctx, 10, alice, target); err != nil || result.Status != rating.VoteAccepted {
			t.Fatalf("alice vote %d: result=%+v err=%v", i, result, err)
		}
	}
	for i := 0; i < 9; i++ {
		clock.Advance(time.Second)
		voter := voters[i%len(voters)]
		if result, err := svc.VotePlusOne(ctx, int64(100+i), voter, alice); err != nil || result.Status != rating.VoteAccepted {
			t.Fatalf("vote %d for alice: result=%+v err=%v", i, result, err)
		}
	}

	eff, err = svc.EfficiencyPercent(ctx, alice.ID)
	if err != nil {
		t.Fatalf("EfficiencyPercent() error = %v", err)
	}
	if eff != 75 {
		t.Errorf("efficiency = %d, want 75", eff)
	}
}

func TestProfile(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	clock := clockwork.NewFakeClock()
	svc := newTestService(store, clock, rating.Config{})

	ctx := context.Background()
	profile, err := svc.Profile(ctx, rating.UserRef{ID: 1, Username: "alice"})
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if profile.DisplayName != "@alice" {
		t.Errorf("DisplayName = %q, want @alice", profile.DisplayName)
	}
	if profile.Rating != 0 || profile.Badge.Name != "Новичок" {
		t.Errorf("fresh profile = rating %d badge %q, want 0 / Новичок", profile.Rating, profile.Badge.Name)
	}
	if profile.NextBadgeHint == "" {
		t.Error("fresh profile should carry a next-badge hint")
	}

	// No username: fall back to the name parts.
	profile, err = svc.Profile(ctx, rating.UserRef{ID: 2, FirstName: "Боб", LastName: "Иванов"})
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if profile.DisplayName != "Боб Иванов" {
		t.Errorf("DisplayName = %q, want 'Боб Иванов'", profile.DisplayName)
	}
}

func TestTop_ClampsLimitAndOrders(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	clock := clockwork.NewFakeClock()
	svc := newTestService(store, clock, rating.Config{})

	ctx := context.Background()
	for i := int64(1); i <= 60; i++ {
		u := rating.UserRef{ID: i, Username: "user" + string(rune('a'+i%26))}
		if err := svc.TouchUser(ctx, u); err != nil {
			t.Fatalf("TouchUser(%d): %v", i, err)
		}
		if _, err := svc.AddPoints(ctx, u, i); err != nil {
			t.Fatalf("AddPoints(%d): %v", i, err)
		}
	}

	top, err := svc.Top(ctx, 1000)
	if err != nil {
		t.Fatalf("Top() error = %v", err)
	}
	if len(top) != rating.TopLimitMax {
		t.Fatalf("len(top) = %d, want %d", len(top), rating.TopLimitMax)
	}
	if top[0].Rating != 60 {
		t.Errorf("top[0].Rating = %d, want 60", top[0].Rating)
	}
	for i := 1; i < len(top); i++ {
		if top[i].Rating > top[i-1].Rating {
			t.Fatalf("leaderboard not sorted at index %d: %d > %d", i, top[i].Rating, top[i-1].Rating)
		}
	}
}
