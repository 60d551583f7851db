package database

import "database/sql"

// User is a persisted per-user aggregate: identity snapshot plus the rating
// counter. Timestamps are unix seconds. Rows are created lazily on first
// interaction and never deleted.
type User struct {
	UserID    int64          `db:"user_id"`
	Username  sql.NullString `db:"username"`
	FirstName sql.NullString `db:"first_name"`
	LastName  sql.NullString `db:"last_name"`
	Rating    int64          `db:"rating"`
	CreatedAt int64          `db:"created_at"`
	UpdatedAt int64          `db:"updated_at"`
}

// Vote is one row of the append-only endorsement ledger. The ledger keeps
// every accepted vote; cooldown enforcement happens in the service, not here.
type Vote struct {
	ID         int64 `db:"id"`
	ChatID     int64 `db:"chat_id"`
	FromUserID int64 `db:"from_user_id"`
	ToUserID   int64 `db:"to_user_id"`
	TS         int64 `db:"ts"`
}

// Chat is a group chat the bot has seen, kept so maintenance jobs (title
// sync) know which chats to walk.
type Chat struct {
	ChatID    int64          `db:"chat_id"`
	ChatType  sql.NullString `db:"chat_type"`
	Title     sql.NullString `db:"title"`
	Username  sql.NullString `db:"username"`
	CreatedAt int64          `db:"created_at"`
	UpdatedAt int64          `db:"updated_at"`
}
