package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// PostgresStorage implements Storage for PostgreSQL
type PostgresStorage struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewPostgresStorage connects, tunes the pool and makes sure the schema exists.
func NewPostgresStorage(ctx context.Context, connectionString string, logger zerolog.Logger) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// Test the connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	p := &PostgresStorage{db: db, logger: logger.With().Str("component", "postgres").Logger()}

	if err := p.createTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	p.logger.Info().Msg("connected to PostgreSQL")
	return p, nil
}

func (p *PostgresStorage) createTables(ctx context.Context) error {
	query := `
    CREATE TABLE IF NOT EXISTS invites (
        id UUID PRIMARY KEY,
        code VARCHAR(64) NOT NULL UNIQUE,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    );

    CREATE TABLE IF NOT EXISTS files (
        id UUID PRIMARY KEY,
        seq BIGSERIAL,
        invite_id UUID NOT NULL REFERENCES invites(id) ON DELETE CASCADE,
        name VARCHAR(255) NOT NULL,
        url VARCHAR(2048) NOT NULL,
        size_bytes BIGINT NOT NULL DEFAULT 0,
        mime_type VARCHAR(100) NOT NULL DEFAULT 'application/pdf',
        uploaded_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    );
    `
	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return err
	}

	indexQuery := `
    CREATE INDEX IF NOT EXISTS idx_files_invite_uploaded ON files(invite_id, uploaded_at, seq);
    `
	_, err := p.db.ExecContext(ctx, indexQuery)
	return err
}

func (p *PostgresStorage) CreateInvite(ctx context.Context, invite models.Invite) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO invites (id, code, created_at) VALUES ($1, $2, $3)`,
		invite.ID, invite.Code, invite.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation && pqErr.Constraint == "invites_code_key" {
			return ErrCodeTaken
		}
		return fmt.Errorf("insert invite: %w", err)
	}
	return nil
}

func (p *PostgresStorage) GetInviteByCode(ctx context.Context, code string) (models.Invite, error) {
	var invite models.Invite
	err := p.db.QueryRowContext(ctx,
		`SELECT id, code, created_at FROM invites WHERE code = $1`, code,
	).Scan(&invite.ID, &invite.Code, &invite.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Invite{}, models.ErrNotFound
		}
		return models.Invite{}, fmt.Errorf("select invite: %w", err)
	}
	return invite, nil
}

const fileColumns = `id, invite_id, name, url, size_bytes, mime_type, uploaded_at`

func scanFile(row interface{ Scan(...any) error }) (models.FileRecord, error) {
	var f models.FileRecord
	err := row.Scan(
		&f.ID,
		&f.InviteID,
		&f.Name,
		&f.ContentRef.Locator,
		&f.ContentRef.SizeBytes,
		&f.ContentRef.MimeType,
		&f.UploadedAt,
	)
	return f, err
}

func (p *PostgresStorage) ListFiles(ctx context.Context, inviteID uuid.UUID) ([]models.FileRecord, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+fileColumns+` FROM files WHERE invite_id = $1 ORDER BY uploaded_at ASC, seq ASC`,
		inviteID,
	)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	files := make([]models.FileRecord, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (p *PostgresStorage) InsertFile(ctx context.Context, record models.FileRecord) error {
	_, err := p.db.ExecContext(ctx, `
    INSERT INTO files (id, invite_id, name, url, size_bytes, mime_type, uploaded_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID,
		record.InviteID,
		record.Name,
		record.ContentRef.Locator,
		record.ContentRef.SizeBytes,
		record.ContentRef.MimeType,
		record.UploadedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
			return models.ErrInviteNotFound
		}
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

func (p *PostgresStorage) GetFile(ctx context.Context, fileID uuid.UUID) (models.FileRecord, error) {
	f, err := scanFile(p.db.QueryRowContext(ctx,
		`SELECT `+fileColumns+` FROM files WHERE id = $1`, fileID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.FileRecord{}, models.ErrNotFound
		}
		return models.FileRecord{}, fmt.Errorf("select file: %w", err)
	}
	return f, nil
}

func (p *PostgresStorage) RenameFile(ctx context.Context, fileID uuid.UUID, newName string) (models.FileRecord, error) {
	f, err := scanFile(p.db.QueryRowContext(ctx,
		`UPDATE files SET name = $2, updated_at = NOW() WHERE id = $1 RETURNING `+fileColumns,
		fileID, newName,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.FileRecord{}, models.ErrNotFound
		}
		return models.FileRecord{}, fmt.Errorf("rename file: %w", err)
	}
	return f, nil
}

func (p *PostgresStorage) DeleteFile(ctx context.Context, fileID uuid.UUID) error {
	result, err := p.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, fileID)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (p *PostgresStorage) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *PostgresStorage) Close() error {
	return p.db.Close()
}
