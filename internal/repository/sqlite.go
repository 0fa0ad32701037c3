package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/berwahousing/records-backend/internal/models"
)

// SQLiteRepository implements Store using SQLite. This is the default
// backend; a single file (or :memory: in tests) with no external service.
type SQLiteRepository struct {
	db *sqlx.DB
}

// NewSQLiteRepository opens (or creates) the SQLite database at dbPath.
func NewSQLiteRepository(dbPath string, pool PoolConfig) (*SQLiteRepository, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	applyPool(db, pool)
	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// RunMigrations executes the given schema SQL.
func (r *SQLiteRepository) RunMigrations(migrationSQL string) error {
	_, err := r.db.Exec(migrationSQL)
	return err
}

func applyPool(db *sqlx.DB, pool PoolConfig) {
	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
}

// validateClient enforces the persisted-record invariant: name and contact
// info are never empty. Checked on both create and update.
func validateClient(client *models.Client) error {
	if strings.TrimSpace(client.Name) == "" {
		return requiredField("name")
	}
	if strings.TrimSpace(client.ContactInfo) == "" {
		return requiredField("contactInfo")
	}
	return nil
}

// ClientRepository implementation

func (r *SQLiteRepository) CreateClient(ctx context.Context, client *models.Client) (int64, error) {
	if err := validateClient(client); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	query := `
		INSERT INTO clients (name, contact_info, address, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query,
		client.Name,
		client.ContactInfo,
		client.Address,
		client.Notes,
		now,
		now,
	)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	client.ID = id
	return id, nil
}

func (r *SQLiteRepository) GetClient(ctx context.Context, id int64) (*models.Client, error) {
	var client models.Client
	query := `SELECT * FROM clients WHERE client_id = ?`

	err := r.db.GetContext(ctx, &client, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("client %d: %w", id, ErrNotFound)
	}
	return &client, err
}

func (r *SQLiteRepository) ListClients(ctx context.Context) ([]*models.Client, error) {
	var clients []*models.Client
	query := `SELECT * FROM clients ORDER BY client_id`

	err := r.db.SelectContext(ctx, &clients, query)
	return clients, err
}

// UpdateClient touches updated_at on success. An absent id affects zero rows
// and is still reported as success.
func (r *SQLiteRepository) UpdateClient(ctx context.Context, client *models.Client) error {
	if err := validateClient(client); err != nil {
		return err
	}

	query := `
		UPDATE clients
		SET name = ?, contact_info = ?, address = ?, notes = ?, updated_at = ?
		WHERE client_id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		client.Name,
		client.ContactInfo,
		client.Address,
		client.Notes,
		time.Now().UTC(),
		client.ID,
	)
	return err
}

// DeleteClient is idempotent: deleting an absent id succeeds.
func (r *SQLiteRepository) DeleteClient(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE client_id = ?`, id)
	return err
}

// ReportRepository implementation

func (r *SQLiteRepository) CreateReportEntry(ctx context.Context, entry *models.ReportEntry) error {
	if entry.GeneratedAt.IsZero() {
		entry.GeneratedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO reports (user_id, report_type, details, generated_at)
		VALUES (?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query,
		entry.UserID,
		entry.ReportType,
		entry.Details,
		entry.GeneratedAt,
	)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = id
	return nil
}

func (r *SQLiteRepository) ListReportEntries(ctx context.Context) ([]*models.ReportEntry, error) {
	var entries []*models.ReportEntry
	query := `
		SELECT r.report_id, r.user_id, u.username, r.report_type, r.details, r.generated_at
		FROM reports r
		JOIN users u ON u.user_id = r.user_id
		ORDER BY r.generated_at DESC, r.report_id DESC
	`
	err := r.db.SelectContext(ctx, &entries, query)
	return entries, err
}

// UserRepository implementation

func (r *SQLiteRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO users (username, password_hash, email, role, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Email,
		user.Role,
		user.CreatedAt,
	)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	user.ID = id
	return id, nil
}

func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	return &user, err
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE user_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return &user, err
}

func (r *SQLiteRepository) UserExists(ctx context.Context, username, email string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM users WHERE username = ? OR email = ?`, username, email)
	return count > 0, err
}
