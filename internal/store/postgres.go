package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"mindscope/internal/models"
	"mindscope/internal/services"
)

const pgUniqueViolation = "23505"

// NewPostgres wires the sqlx-backed stores. Sensitive fields pass through the
// encryption service on the way in and out.
func NewPostgres(db *sqlx.DB, encSvc *services.EncryptionService) *Store {
	return &Store{
		Users: &pgUserStore{db: db, encSvc: encSvc},
		Moods: &pgMoodStore{db: db, encSvc: encSvc},
		Chats: &pgChatStore{db: db, encSvc: encSvc},
	}
}

type pgUserStore struct {
	db     *sqlx.DB
	encSvc *services.EncryptionService
}

func (s *pgUserStore) Create(ctx context.Context, user *models.User) error {
	stored := *user
	if err := s.encSvc.EncryptUser(&stored); err != nil {
		return err
	}
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO users (id, username, email, email_blind_index, password_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		stored.ID, stored.Username, stored.Email, stored.EmailBlindIndex, stored.PasswordHash,
	).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateEmail
		}
		return err
	}
	user.EmailBlindIndex = stored.EmailBlindIndex
	return nil
}

func (s *pgUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	blindIndex := s.encSvc.EmailBlindIndex(strings.TrimSpace(strings.ToLower(email)))
	var user models.User
	err := s.db.GetContext(ctx, &user,
		`SELECT id, username, email, email_blind_index, password_hash, intervention_active, created_at
		 FROM users WHERE email_blind_index=$1`, blindIndex)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.encSvc.DecryptUser(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *pgUserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		`SELECT id, username, email, email_blind_index, password_hash, intervention_active, created_at
		 FROM users WHERE id=$1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.encSvc.DecryptUser(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *pgUserStore) SetInterventionActive(ctx context.Context, id uuid.UUID, active bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET intervention_active=$2 WHERE id=$1`, id, active)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

type pgMoodStore struct {
	db     *sqlx.DB
	encSvc *services.EncryptionService
}

func (s *pgMoodStore) Create(ctx context.Context, log *models.MoodLog) error {
	stored := *log
	if err := s.encSvc.EncryptMoodLog(&stored); err != nil {
		return err
	}
	return s.db.QueryRowxContext(ctx,
		`INSERT INTO mood_logs (id, user_id, mood, note) VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		stored.ID, stored.UserID, stored.Mood, stored.Note,
	).Scan(&log.CreatedAt)
}

func (s *pgMoodStore) List(ctx context.Context, userID uuid.UUID) ([]models.MoodLog, error) {
	rows, err := s.db.QueryxContext(ctx,
		`SELECT id, user_id, mood, note, created_at FROM mood_logs
		 WHERE user_id=$1 ORDER BY seq`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.MoodLog
	for rows.Next() {
		var log models.MoodLog
		if err := rows.StructScan(&log); err != nil {
			return nil, err
		}
		if err := s.encSvc.DecryptMoodLog(&log); err != nil {
			return nil, err
		}
		out = append(out, log)
	}
	return out, rows.Err()
}

type pgChatStore struct {
	db     *sqlx.DB
	encSvc *services.EncryptionService
}

func (s *pgChatStore) Create(ctx context.Context, msg *models.ChatMessage) error {
	stored := *msg
	if err := s.encSvc.EncryptMessage(&stored); err != nil {
		return err
	}
	links := stored.GroundingLinks
	if links == nil {
		links = []models.GroundingLink{}
	}
	linksJSON, err := json.Marshal(links)
	if err != nil {
		return err
	}
	return s.db.QueryRowxContext(ctx,
		`INSERT INTO chat_messages (id, user_id, role, content, mood, grounding_links)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		stored.ID, stored.UserID, stored.Role, stored.Content, stored.Mood, linksJSON,
	).Scan(&msg.CreatedAt)
}

func (s *pgChatStore) List(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error) {
	rows, err := s.db.QueryxContext(ctx,
		`SELECT id, user_id, role, content, mood, grounding_links, created_at
		 FROM chat_messages WHERE user_id=$1 ORDER BY seq`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.ChatMessage
	for rows.Next() {
		var (
			msg       models.ChatMessage
			linksJSON []byte
		)
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Role, &msg.Content, &msg.Mood, &linksJSON, &msg.CreatedAt); err != nil {
			return nil, err
		}
		if err := s.encSvc.DecryptMessage(&msg); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(linksJSON, &msg.GroundingLinks); err != nil {
			return nil, err
		}
		if len(msg.GroundingLinks) == 0 {
			msg.GroundingLinks = nil
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}

func (s *pgChatStore) Clear(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE user_id=$1`, userID)
	return err
}
