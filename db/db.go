package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"slices"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mbenaiss/whatsapp-session/models"
)

// DB handles storage in SQLite
type DB interface {
	StoreChat(ctx context.Context, chat models.Chat) error
	StoreMessage(ctx context.Context, msg models.Message) error
	GetMessages(ctx context.Context, chatJID string, limit int) ([]models.Message, error)
	GetUnreadMessages(ctx context.Context, chatJID string) ([]models.Message, error)
	MarkRead(ctx context.Context, chatJID string, ids []string) (int64, error)
	GetChats(ctx context.Context) ([]models.Chat, error)
	GetChat(ctx context.Context, jid string) (*models.Chat, error)
	Close() error
}

type db struct {
	db *sql.DB
}

const messageColumns = "seq, id, chat_jid, sender, content, media_ref, kind, direction, is_group, is_read, timestamp"

// NewDB creates a new database
func NewDB(ctx context.Context, dbPath string) (DB, error) {
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s/messages.db?_foreign_keys=on", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open message database: %w", err)
	}

	db := &db{conn}
	if err := db.initDB(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return db, nil
}

func (s *db) initDB(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `PRAGMA foreign_keys = ON;`)
	if err != nil {
		return fmt.Errorf("failed to set foreign keys pragma: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`)
	if err != nil {
		return fmt.Errorf("failed to set journal mode: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS chats (
			jid TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			is_group BOOLEAN NOT NULL DEFAULT 0,
			last_message_time TIMESTAMP NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create chats table: %w", err)
	}

	// seq records arrival order; upserts keep the original seq.
	_, err = s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS messages (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL,
			chat_jid TEXT NOT NULL,
			sender TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			media_ref TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL DEFAULT 'text',
			direction TEXT NOT NULL DEFAULT 'inbound',
			is_group BOOLEAN NOT NULL DEFAULT 0,
			is_read BOOLEAN NOT NULL DEFAULT 0,
			timestamp TIMESTAMP NOT NULL,
			UNIQUE (id, chat_jid),
			FOREIGN KEY (chat_jid) REFERENCES chats(jid)
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create messages table: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_messages_chat_seq ON messages(chat_jid, seq);`)
	if err != nil {
		return fmt.Errorf("failed to create chat_seq index: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_messages_unread ON messages(direction, is_read);`)
	if err != nil {
		return fmt.Errorf("failed to create unread index: %w", err)
	}

	return nil
}

func (s *db) Close() error {
	return s.db.Close()
}

// StoreChat stores a chat in the database. An empty name keeps the stored one.
func (s *db) StoreChat(ctx context.Context, chat models.Chat) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chats (jid, name, is_group, last_message_time) VALUES (?, ?, ?, ?)
		ON CONFLICT(jid) DO UPDATE SET
			name = CASE WHEN excluded.name != '' THEN excluded.name ELSE chats.name END,
			is_group = excluded.is_group,
			last_message_time = MAX(chats.last_message_time, excluded.last_message_time)`,
		chat.JID, chat.Name, chat.IsGroup || models.IsGroupJID(chat.JID), chat.LastMessageTime.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to store chat %s: %w", chat.JID, err)
	}
	return nil
}

// StoreMessage stores a message in the database, creating its chat if needed.
// Messages with neither text nor media are skipped.
func (s *db) StoreMessage(ctx context.Context, msg models.Message) error {
	if msg.Content == "" && msg.MediaRef == "" {
		return nil
	}
	if msg.Kind == "" {
		msg.Kind = models.KindText
	}
	if msg.Direction == "" {
		msg.Direction = models.Inbound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO chats (jid, name, is_group, last_message_time) VALUES (?, ?, ?, ?)`,
		msg.ChatJID, msg.ChatName, msg.IsGroup, msg.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to ensure chat %s: %w", msg.ChatJID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO messages (id, chat_jid, sender, content, media_ref, kind, direction, is_group, is_read, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id, chat_jid) DO UPDATE SET
			sender = excluded.sender,
			content = excluded.content,
			media_ref = excluded.media_ref,
			kind = excluded.kind,
			direction = excluded.direction,
			is_group = excluded.is_group,
			timestamp = excluded.timestamp`,
		msg.ID, msg.ChatJID, msg.Sender, msg.Content, msg.MediaRef, string(msg.Kind), string(msg.Direction),
		msg.IsGroup, msg.IsRead || msg.Direction == models.Outbound, msg.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to store message %s: %w", msg.ID, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE chats SET last_message_time = MAX(last_message_time, ?) WHERE jid = ?`,
		msg.Timestamp.UTC(), msg.ChatJID,
	)
	if err != nil {
		return fmt.Errorf("failed to touch chat %s: %w", msg.ChatJID, err)
	}

	return tx.Commit()
}

// GetMessages retrieves the last limit messages of a chat in arrival order.
// A limit of zero or less returns the whole chat.
func (s *db) GetMessages(ctx context.Context, chatJID string, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE chat_jid = ? ORDER BY seq DESC LIMIT ?`,
		chatJID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}
	slices.Reverse(messages)

	return messages, nil
}

// GetUnreadMessages retrieves unread inbound messages in arrival order.
// An empty chatJID returns unread messages across all chats.
func (s *db) GetUnreadMessages(ctx context.Context, chatJID string) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+messageColumns+` FROM messages
		WHERE direction = ? AND is_read = 0 AND (? = '' OR chat_jid = ?)
		ORDER BY seq ASC`,
		string(models.Inbound), chatJID, chatJID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query unread messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// MarkRead flags the given messages of a chat as read.
// Messages stored after the ids were collected keep their unread flag.
func (s *db) MarkRead(ctx context.Context, chatJID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var marked int64
	for _, id := range ids {
		res, err := tx.ExecContext(ctx,
			`UPDATE messages SET is_read = 1 WHERE chat_jid = ? AND id = ? AND is_read = 0`,
			chatJID, id,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to mark message %s read: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		marked += n
	}

	return marked, tx.Commit()
}

const chatQuery = `
	SELECT c.jid, c.name, c.is_group, c.last_message_time,
		COALESCE(m.content, ''), COALESCE(m.sender, ''), COALESCE(m.direction, ''),
		(SELECT COUNT(*) FROM messages u WHERE u.chat_jid = c.jid AND u.direction = 'inbound' AND u.is_read = 0)
	FROM chats c
	LEFT JOIN messages m ON m.seq = (SELECT MAX(seq) FROM messages WHERE chat_jid = c.jid)`

// GetChats retrieves all chats, most recently active first
func (s *db) GetChats(ctx context.Context) ([]models.Chat, error) {
	rows, err := s.db.QueryContext(ctx, chatQuery+` ORDER BY c.last_message_time DESC, c.jid ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	var chats []models.Chat
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}

	return chats, rows.Err()
}

// GetChat retrieves a specific chat, nil if it is unknown
func (s *db) GetChat(ctx context.Context, jid string) (*models.Chat, error) {
	chat, err := scanChat(s.db.QueryRowContext(ctx, chatQuery+` WHERE c.jid = ?`, jid))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanChat(row scanner) (models.Chat, error) {
	var chat models.Chat
	var direction string
	err := row.Scan(&chat.JID, &chat.Name, &chat.IsGroup, &chat.LastMessageTime,
		&chat.LastMessage, &chat.LastSender, &direction, &chat.UnreadCount)
	if err != nil {
		return models.Chat{}, err
	}
	chat.LastIsFromMe = models.Direction(direction) == models.Outbound
	return chat, nil
}

func scanMessages(rows *sql.Rows) ([]models.Message, error) {
	var messages []models.Message
	for rows.Next() {
		var seq int64
		var kind, direction string
		msg := models.Message{}
		err := rows.Scan(&seq, &msg.ID, &msg.ChatJID, &msg.Sender, &msg.Content, &msg.MediaRef,
			&kind, &direction, &msg.IsGroup, &msg.IsRead, &msg.Timestamp)
		if err != nil {
			return nil, err
		}
		msg.Kind = models.MessageKind(kind)
		msg.Direction = models.Direction(direction)
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}
