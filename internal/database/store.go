package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Store defines the persistence contract for the reputation ledger. All
// timestamps cross this boundary as unix seconds; the service layer owns the
// clock. Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// UpsertUser creates or refreshes a user's identity snapshot. It never
	// touches the rating column.
	UpsertUser(ctx context.Context, userID int64, username, firstName, lastName string, now int64) error

	// AddPoints atomically adds delta to the user's rating and returns the
	// resulting value. Returns 0 if the user row does not exist.
	AddPoints(ctx context.Context, userID, delta, now int64) (int64, error)

	// GetUser retrieves a user by ID. Returns nil, nil if not found.
	GetUser(ctx context.Context, userID int64) (*User, error)

	// Top returns up to limit users ordered by rating descending, ties broken
	// by earliest updated_at.
	Top(ctx context.Context, limit int) ([]User, error)

	// LastVoteTS returns the most recent vote timestamp for the ordered
	// (chat, from, to) triple, or 0 if the pair has never voted in that chat.
	LastVoteTS(ctx context.Context, chatID, fromUserID, toUserID int64) (int64, error)

	// RecordVote unconditionally appends a vote to the ledger. The caller is
	// responsible for having already checked the cooldown.
	RecordVote(ctx context.Context, chatID, fromUserID, toUserID, ts int64) error

	// VoteCounts returns how many votes the user has given and received,
	// aggregated across all chats.
	VoteCounts(ctx context.Context, userID int64) (given, received int64, err error)

	// LastActivityTS returns the last passive-award timestamp for the
	// (chat, user) pair, or 0 if none exists.
	LastActivityTS(ctx context.Context, chatID, userID int64) (int64, error)

	// RecordActivity upserts the last passive-award timestamp for the pair.
	RecordActivity(ctx context.Context, chatID, userID, ts int64) error

	// UpsertChat creates or refreshes a chat registry row.
	UpsertChat(ctx context.Context, chatID int64, chatType, title, username string, now int64) error

	// ListChatIDs returns all known chat IDs.
	ListChatIDs(ctx context.Context) ([]int64, error)

	// ListUserIDs returns user IDs, optionally restricted to users with a
	// zero rating. Used by the seeding CLI.
	ListUserIDs(ctx context.Context, onlyZeroRating bool) ([]int64, error)

	// SetRating overwrites a user's rating. Used by the seeding CLI only;
	// regular mutations go through AddPoints.
	SetRating(ctx context.Context, userID, rating, now int64) error

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore implements Store on top of sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by sqlx. It requires a connected sqlx.DB.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// nullable maps an empty string to SQL NULL so absent Telegram identity
// fields round-trip as NULL instead of empty text.
func nullable(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func (s *sqlxStore) UpsertUser(ctx context.Context, userID int64, username, firstName, lastName string, now int64) error {
	if userID == 0 {
		return fmt.Errorf("user_id cannot be zero")
	}

	query := `
        INSERT INTO users (user_id, username, first_name, last_name, rating, created_at, updated_at)
        VALUES (?, ?, ?, ?, 0, ?, ?)
        ON CONFLICT (user_id) DO UPDATE SET
            username   = excluded.username,
            first_name = excluded.first_name,
            last_name  = excluded.last_name,
            updated_at = excluded.updated_at;
    `

	_, err := s.db.ExecContext(ctx, query,
		userID, nullable(username), nullable(firstName), nullable(lastName), now, now)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error upserting user", "user_id", userID, "error", err)
		return fmt.Errorf("failed to upsert user %d: %w", userID, err)
	}

	s.logger.DebugContext(ctx, "User identity touched", "user_id", userID)
	return nil
}

// AddPoints is the single write path for rating mutations. The increment is
// expressed as one UPDATE statement so concurrent callers cannot lose
// updates; the follow-up read runs in the same transaction.
func (s *sqlxStore) AddPoints(ctx context.Context, userID, delta, now int64) (int64, error) {
	if userID == 0 {
		return 0, fmt.Errorf("user_id cannot be zero")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for rating update",
			"user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET rating = rating + ?, updated_at = ? WHERE user_id = ?`,
		delta, now, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error adding rating points", "user_id", userID, "delta", delta, "error", err)
		return 0, fmt.Errorf("failed to add points for user %d: %w", userID, err)
	}

	var rating int64
	err = tx.GetContext(ctx, &rating, `SELECT rating FROM users WHERE user_id = ?`, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		rating = 0
	case err != nil:
		s.logger.ErrorContext(ctx, "Error reading rating after update", "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to read rating for user %d: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit rating update", "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Rating updated", "user_id", userID, "delta", delta, "rating", rating)
	return rating, nil
}

func (s *sqlxStore) GetUser(ctx context.Context, userID int64) (*User, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user_id cannot be zero")
	}

	var user User
	query := `SELECT user_id, username, first_name, last_name, rating, created_at, updated_at
	          FROM users WHERE user_id = ?`

	err := s.db.GetContext(ctx, &user, query, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No user found", "user_id", userID)
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting user", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	return &user, nil
}

func (s *sqlxStore) Top(ctx context.Context, limit int) ([]User, error) {
	if limit <= 0 {
		limit = 10
	}

	var users []User
	query := `
        SELECT user_id, username, first_name, last_name, rating, created_at, updated_at
        FROM users
        ORDER BY rating DESC, updated_at ASC
        LIMIT ?;
    `

	if err := s.db.SelectContext(ctx, &users, query, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error getting top users", "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to get top users: %w", err)
	}

	return users, nil
}

func (s *sqlxStore) LastVoteTS(ctx context.Context, chatID, fromUserID, toUserID int64) (int64, error) {
	var ts sql.NullInt64
	query := `
        SELECT MAX(ts) FROM votes
        WHERE chat_id = ? AND from_user_id = ? AND to_user_id = ?;
    `

	err := s.db.GetContext(ctx, &ts, query, chatID, fromUserID, toUserID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.logger.ErrorContext(ctx, "Error getting last vote timestamp",
			"chat_id", chatID, "from_user_id", fromUserID, "to_user_id", toUserID, "error", err)
		return 0, fmt.Errorf("failed to get last vote timestamp: %w", err)
	}
	if !ts.Valid {
		return 0, nil
	}
	return ts.Int64, nil
}

func (s *sqlxStore) RecordVote(ctx context.Context, chatID, fromUserID, toUserID, ts int64) error {
	query := `INSERT INTO votes (chat_id, from_user_id, to_user_id, ts) VALUES (?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, query, chatID, fromUserID, toUserID, ts); err != nil {
		s.logger.ErrorContext(ctx, "Error recording vote",
			"chat_id", chatID, "from_user_id", fromUserID, "to_user_id", toUserID, "error", err)
		return fmt.Errorf("failed to record vote: %w", err)
	}

	s.logger.DebugContext(ctx, "Vote recorded",
		"chat_id", chatID, "from_user_id", fromUserID, "to_user_id", toUserID)
	return nil
}

func (s *sqlxStore) VoteCounts(ctx context.Context, userID int64) (int64, int64, error) {
	var counts struct {
		Given    int64 `db:"given"`
		Received int64 `db:"received"`
	}
	query := `
        SELECT
            (SELECT COUNT(*) FROM votes WHERE from_user_id = ?) AS given,
            (SELECT COUNT(*) FROM votes WHERE to_user_id = ?)   AS received;
    `

	if err := s.db.GetContext(ctx, &counts, query, userID, userID); err != nil {
		s.logger.ErrorContext(ctx, "Error counting votes", "user_id", userID, "error", err)
		return 0, 0, fmt.Errorf("failed to count votes for user %d: %w", userID, err)
	}

	return counts.Given, counts.Received, nil
}

func (s *sqlxStore) LastActivityTS(ctx context.Context, chatID, userID int64) (int64, error) {
	var ts int64
	query := `SELECT last_ts FROM activity WHERE chat_id = ? AND user_id = ?`

	err := s.db.GetContext(ctx, &ts, query, chatID, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting last activity timestamp",
			"chat_id", chatID, "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to get last activity timestamp: %w", err)
	}

	return ts, nil
}

func (s *sqlxStore) RecordActivity(ctx context.Context, chatID, userID, ts int64) error {
	query := `
        INSERT INTO activity (chat_id, user_id, last_ts)
        VALUES (?, ?, ?)
        ON CONFLICT (chat_id, user_id) DO UPDATE SET last_ts = excluded.last_ts;
    `

	if _, err := s.db.ExecContext(ctx, query, chatID, userID, ts); err != nil {
		s.logger.ErrorContext(ctx, "Error recording activity",
			"chat_id", chatID, "user_id", userID, "error", err)
		return fmt.Errorf("failed to record activity: %w", err)
	}

	return nil
}

func (s *sqlxStore) UpsertChat(ctx context.Context, chatID int64, chatType, title, username string, now int64) error {
	if chatID == 0 {
		return fmt.Errorf("chat_id cannot be zero")
	}

	query := `
        INSERT INTO chats (chat_id, chat_type, title, username, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT (chat_id) DO UPDATE SET
            chat_type  = excluded.chat_type,
            title      = excluded.title,
            username   = excluded.username,
            updated_at = excluded.updated_at;
    `

	_, err := s.db.ExecContext(ctx, query,
		chatID, nullable(chatType), nullable(title), nullable(username), now, now)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error upserting chat", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to upsert chat %d: %w", chatID, err)
	}

	return nil
}

func (s *sqlxStore) ListChatIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, `SELECT chat_id FROM chats ORDER BY chat_id`); err != nil {
		s.logger.ErrorContext(ctx, "Error listing chat IDs", "error", err)
		return nil, fmt.Errorf("failed to list chat IDs: %w", err)
	}
	return ids, nil
}

func (s *sqlxStore) ListUserIDs(ctx context.Context, onlyZeroRating bool) ([]int64, error) {
	query := `SELECT user_id FROM users`
	if onlyZeroRating {
		query += ` WHERE rating = 0`
	}

	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, query); err != nil {
		s.logger.ErrorContext(ctx, "Error listing user IDs", "only_zero", onlyZeroRating, "error", err)
		return nil, fmt.Errorf("failed to list user IDs: %w", err)
	}
	return ids, nil
}

func (s *sqlxStore) SetRating(ctx context.Context, userID, rating, now int64) error {
	query := `UPDATE users SET rating = ?, updated_at = ? WHERE user_id = ?`

	result, err := s.db.ExecContext(ctx, query, rating, now, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error setting rating", "user_id", userID, "error", err)
		return fmt.Errorf("failed to set rating for user %d: %w", userID, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected != 1 {
		s.logger.WarnContext(ctx, "Unexpected number of rows affected when setting rating",
			"user_id", userID, "affected", affected)
	}

	return nil
}

// RunSQLMaintenance executes VACUUM. SQLite requires VACUUM to run outside a
// transaction, so this goes straight through the pool.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)")

	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed")
	return nil
}
