package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/xiaot623/genai-chat/internal/domain"
)

// ErrChatNotFound is returned when a chat id does not exist or is deleted.
var ErrChatNotFound = errors.New("chat not found")

// SQLiteStore implements ChatStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS chats (
			chat_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			tenant_id TEXT NOT NULL,
			title TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			deleted_at DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chats_user ON chats(user_id, tenant_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			chat_id TEXT NOT NULL,
			role TEXT NOT NULL,
			text TEXT NOT NULL,
			metadata TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (chat_id) REFERENCES chats(chat_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_chat ON messages(chat_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS rejected_messages (
			rejected_id TEXT PRIMARY KEY,
			chat_id TEXT,
			message TEXT NOT NULL,
			user_id TEXT NOT NULL,
			tenant_id TEXT NOT NULL,
			reasons TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS message_feedback (
			message_id TEXT PRIMARY KEY,
			rating TEXT NOT NULL,
			categories TEXT,
			text TEXT,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateChat creates a new chat and returns its id.
func (s *SQLiteStore) CreateChat(ctx context.Context, userID, tenantID string) (string, error) {
	chatID := "chat_" + uuid.New().String()[:8]
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chats (chat_id, user_id, tenant_id, created_at) VALUES (?, ?, ?, ?)`,
		chatID, userID, tenantID, time.Now())
	if err != nil {
		return "", err
	}
	return chatID, nil
}

// GetChats lists the user's non-deleted chats, newest first.
func (s *SQLiteStore) GetChats(ctx context.Context, userID, tenantID string) ([]domain.Chat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT chat_id, title, created_at FROM chats
		 WHERE user_id = ? AND tenant_id = ? AND deleted_at IS NULL
		 ORDER BY created_at DESC`,
		userID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []domain.Chat
	for rows.Next() {
		var chat domain.Chat
		var title sql.NullString
		if err := rows.Scan(&chat.ChatID, &title, &chat.CreatedAt); err != nil {
			return nil, err
		}
		if title.Valid {
			chat.Title = title.String
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

// GetChat retrieves a chat by id.
func (s *SQLiteStore) GetChat(ctx context.Context, chatID string) (*domain.Chat, error) {
	var chat domain.Chat
	var title sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT chat_id, title, created_at FROM chats WHERE chat_id = ? AND deleted_at IS NULL`,
		chatID).Scan(&chat.ChatID, &title, &chat.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, err
	}
	if title.Valid {
		chat.Title = title.String
	}
	return &chat, nil
}

// ChatOwner returns the user and tenant that own a chat.
func (s *SQLiteStore) ChatOwner(ctx context.Context, chatID string) (string, string, error) {
	var userID, tenantID string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, tenant_id FROM chats WHERE chat_id = ? AND deleted_at IS NULL`,
		chatID).Scan(&userID, &tenantID)
	if err == sql.ErrNoRows {
		return "", "", ErrChatNotFound
	}
	if err != nil {
		return "", "", err
	}
	return userID, tenantID, nil
}

// RenameChat sets the chat title.
func (s *SQLiteStore) RenameChat(ctx context.Context, chatID, title string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE chats SET title = ? WHERE chat_id = ? AND deleted_at IS NULL`,
		title, chatID)
	return err
}

// SoftDeleteChat marks the chat deleted without removing its rows.
func (s *SQLiteStore) SoftDeleteChat(ctx context.Context, chatID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE chats SET deleted_at = ? WHERE chat_id = ? AND deleted_at IS NULL`,
		time.Now(), chatID)
	return err
}

// AddMessage appends a message to a chat and returns the message id.
func (s *SQLiteStore) AddMessage(ctx context.Context, chatID string, role domain.AuthorRole, text string, meta domain.MessageMeta) (string, error) {
	messageID := "msg_" + uuid.New().String()[:8]
	metadata, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO messages (message_id, chat_id, role, text, metadata, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		messageID, chatID, role, text, string(metadata), time.Now())
	if err != nil {
		return "", err
	}
	return messageID, nil
}

// GetChatMessages retrieves a window of messages for a chat.
func (s *SQLiteStore) GetChatMessages(ctx context.Context, chatID string, limit, offset int, order string) ([]domain.ChatMessage, error) {
	dir := "ASC"
	if order == OrderDesc {
		dir = "DESC"
	}
	// rowid breaks ties between messages stored within the same tick.
	query := fmt.Sprintf(
		`SELECT message_id, chat_id, role, text, metadata, created_at FROM messages
		 WHERE chat_id = ? ORDER BY created_at %s, rowid %s LIMIT ? OFFSET ?`, dir, dir)

	rows, err := s.db.QueryContext(ctx, query, chatID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

// GetChatMessagesByID retrieves specific messages within a chat.
func (s *SQLiteStore) GetChatMessagesByID(ctx context.Context, chatID string, messageIDs []string) ([]domain.ChatMessage, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(messageIDs))
	args := []interface{}{chatID}
	for i, id := range messageIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	query := fmt.Sprintf(
		`SELECT message_id, chat_id, role, text, metadata, created_at FROM messages
		 WHERE chat_id = ? AND message_id IN (%s) ORDER BY created_at ASC, rowid ASC`,
		strings.Join(placeholders, ","))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

// GetTotalMessageCount returns the number of messages in a chat.
func (s *SQLiteStore) GetTotalMessageCount(ctx context.Context, chatID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE chat_id = ?`, chatID).Scan(&count)
	return count, err
}

// AddRejectedMessage records refused input. The chat id may be empty when the
// turn failed before a chat existed.
func (s *SQLiteStore) AddRejectedMessage(ctx context.Context, rejected domain.RejectedMessage) error {
	reasons, err := json.Marshal(rejected.Reasons)
	if err != nil {
		return fmt.Errorf("failed to marshal reasons: %w", err)
	}
	var chatID sql.NullString
	if rejected.ChatID != "" {
		chatID = sql.NullString{String: rejected.ChatID, Valid: true}
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO rejected_messages (rejected_id, chat_id, message, user_id, tenant_id, reasons, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		"rej_"+uuid.New().String()[:8], chatID, rejected.Message, rejected.UserID, rejected.TenantID, string(reasons), time.Now())
	return err
}

// UpsertFeedback stores or replaces feedback for a message.
func (s *SQLiteStore) UpsertFeedback(ctx context.Context, messageID string, feedback domain.MessageFeedback) error {
	categories, err := json.Marshal(feedback.Categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO message_feedback (message_id, rating, categories, text, updated_at) VALUES (?, ?, ?, ?, ?)`,
		messageID, feedback.Rating, string(categories), feedback.Text, time.Now())
	return err
}

func scanMessages(rows *sql.Rows) ([]domain.ChatMessage, error) {
	var messages []domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		var metadata sql.NullString
		if err := rows.Scan(&msg.MessageID, &msg.ChatID, &msg.Author.Role, &msg.Text, &metadata, &msg.CreatedAt); err != nil {
			return nil, err
		}
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &msg.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
