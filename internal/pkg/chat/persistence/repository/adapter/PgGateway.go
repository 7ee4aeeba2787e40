package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "skillswap/internal/pkg/chat/domain"
	repository "skillswap/internal/pkg/chat/persistence/repository/port"
)

// uniqueViolation is the Postgres SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

type PgGateway struct {
	pool *pgxpool.Pool
}

func NewPgGateway(pool *pgxpool.Pool) *PgGateway {
	return &PgGateway{pool: pool}
}

var _ repository.Gateway = (*PgGateway)(nil)

func (r *PgGateway) FindConversation(ctx context.Context, userLow, userHigh, listingID string) (*chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgGateway: nil pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT id::text, user_low::text, user_high::text, listing_id::text, last_message_id::text, created_at
		FROM conversations
		WHERE user_low = $1::uuid AND user_high = $2::uuid AND listing_id = $3::uuid
	`, userLow, userHigh, listingID)
	return scanConversation(row)
}

func (r *PgGateway) CreateConversation(ctx context.Context, userLow, userHigh, listingID string) (*chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgGateway: nil pool")
	}
	now := time.Now().UTC()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO conversations (user_low, user_high, listing_id, created_at)
		VALUES ($1::uuid, $2::uuid, $3::uuid, $4)
		ON CONFLICT (user_low, user_high, listing_id) DO NOTHING
		RETURNING id::text, user_low::text, user_high::text, listing_id::text, last_message_id::text, created_at
	`, userLow, userHigh, listingID, now)
	conv, err := scanConversation(row)
	if errors.Is(err, repository.ErrNotFound) {
		// DO NOTHING returned no row: another send created it first.
		return nil, repository.ErrConversationExists
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, repository.ErrConversationExists
		}
		return nil, err
	}
	return conv, nil
}

func (r *PgGateway) GetConversation(ctx context.Context, conversationID string) (*chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgGateway: nil pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT id::text, user_low::text, user_high::text, listing_id::text, last_message_id::text, created_at
		FROM conversations
		WHERE id = $1::uuid
	`, conversationID)
	return scanConversation(row)
}

func (r *PgGateway) AppendMessage(ctx context.Context, m chat.Message) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgGateway: nil pool")
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO messages (conversation_id, sender_id, created_at, body, msg_type, attachment_url, attachment_name)
		VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6, $7)
		RETURNING id::text
	`, m.ConversationID, m.SenderID, m.CreatedAt, m.Body, m.MsgType, m.AttachmentURL, m.AttachmentName).Scan(&id)
	return id, err
}

func (r *PgGateway) SetLastMessage(ctx context.Context, conversationID, messageID string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgGateway: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE conversations SET last_message_id = $2::uuid WHERE id = $1::uuid
	`, conversationID, messageID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PgGateway) GetMessages(ctx context.Context, conversationID string, limit, offset int) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgGateway: nil pool")
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, conversation_id::text, sender_id::text, created_at, body, msg_type, attachment_url, attachment_name, hidden
		FROM messages
		WHERE conversation_id = $1::uuid
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3
	`, conversationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var msg chat.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.CreatedAt,
			&msg.Body, &msg.MsgType, &msg.AttachmentURL, &msg.AttachmentName, &msg.Hidden); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return msgs, nil
}

func (r *PgGateway) ReportMessage(ctx context.Context, rep chat.Report) error {
	if r == nil || r.pool == nil {
		return errors.New("PgGateway: nil pool")
	}
	if rep.CreatedAt.IsZero() {
		rep.CreatedAt = time.Now().UTC()
	}
	ct, err := r.pool.Exec(ctx, `
		INSERT INTO message_reports (message_id, reporter_id, reason, created_at)
		VALUES ($1::uuid, $2::uuid, $3, $4)
		ON CONFLICT (message_id, reporter_id) DO NOTHING
	`, rep.MessageID, rep.ReporterID, rep.Reason, rep.CreatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrAlreadyReported
	}
	return nil
}

func (r *PgGateway) HideMessage(ctx context.Context, messageID string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgGateway: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE messages SET hidden = TRUE WHERE id = $1::uuid
	`, messageID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PgGateway) GetUser(ctx context.Context, userID string) (*chat.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgGateway: nil pool")
	}
	var u chat.User
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, display_name FROM users WHERE id = $1::uuid
	`, userID).Scan(&u.ID, &u.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PgGateway) ListingExists(ctx context.Context, listingID string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgGateway: nil pool")
	}
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM listings WHERE id = $1::uuid)
	`, listingID).Scan(&exists)
	return exists, err
}

func scanConversation(row pgx.Row) (*chat.Conversation, error) {
	var c chat.Conversation
	err := row.Scan(&c.ID, &c.UserLow, &c.UserHigh, &c.ListingID, &c.LastMessageID, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
