package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/berwahousing/records-backend/internal/models"
)

// PostgresRepository implements Store using PostgreSQL, for deployments
// where the database is shared or managed.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository connects to PostgreSQL with the given connection string.
func NewPostgresRepository(connectionString string, pool PoolConfig) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	applyPool(db, pool)
	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection.
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// RunMigrations executes the given schema SQL.
func (r *PostgresRepository) RunMigrations(migrationSQL string) error {
	_, err := r.db.Exec(migrationSQL)
	return err
}

// ClientRepository implementation

func (r *PostgresRepository) CreateClient(ctx context.Context, client *models.Client) (int64, error) {
	if err := validateClient(client); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	query := `
		INSERT INTO clients (name, contact_info, address, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING client_id
	`
	err := r.db.QueryRowContext(ctx, query,
		client.Name,
		client.ContactInfo,
		client.Address,
		client.Notes,
		now,
		now,
	).Scan(&client.ID)
	if err != nil {
		return 0, err
	}
	return client.ID, nil
}

func (r *PostgresRepository) GetClient(ctx context.Context, id int64) (*models.Client, error) {
	var client models.Client
	err := r.db.GetContext(ctx, &client, `SELECT * FROM clients WHERE client_id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("client %d: %w", id, ErrNotFound)
	}
	return &client, err
}

func (r *PostgresRepository) ListClients(ctx context.Context) ([]*models.Client, error) {
	var clients []*models.Client
	err := r.db.SelectContext(ctx, &clients, `SELECT * FROM clients ORDER BY client_id`)
	return clients, err
}

func (r *PostgresRepository) UpdateClient(ctx context.Context, client *models.Client) error {
	if err := validateClient(client); err != nil {
		return err
	}

	query := `
		UPDATE clients
		SET name = $1, contact_info = $2, address = $3, notes = $4, updated_at = $5
		WHERE client_id = $6
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

func (r *PostgresRepository) DeleteClient(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE client_id = $1`, id)
	return err
}

// ReportRepository implementation

func (r *PostgresRepository) CreateReportEntry(ctx context.Context, entry *models.ReportEntry) error {
	if entry.GeneratedAt.IsZero() {
		entry.GeneratedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO reports (user_id, report_type, details, generated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING report_id
	`
	return r.db.QueryRowContext(ctx, query,
		entry.UserID,
		entry.ReportType,
		entry.Details,
		entry.GeneratedAt,
	).Scan(&entry.ID)
}

func (r *PostgresRepository) ListReportEntries(ctx context.Context) ([]*models.ReportEntry, error) {
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

func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO users (username, password_hash, email, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING user_id
	`
	err := r.db.QueryRowContext(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Email,
		user.Role,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE username = $1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	return &user, err
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE user_id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return &user, err
}

func (r *PostgresRepository) UserExists(ctx context.Context, username, email string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM users WHERE username = $1 OR email = $2`, username, email)
	return count > 0, err
}
