package repository

import (
	"context"
	"time"

	"github.com/berwahousing/records-backend/internal/models"
)

// ClientRepository defines client record data access methods.
type ClientRepository interface {
	CreateClient(ctx context.Context, client *models.Client) (int64, error)
	GetClient(ctx context.Context, id int64) (*models.Client, error)
	ListClients(ctx context.Context) ([]*models.Client, error)
	UpdateClient(ctx context.Context, client *models.Client) error
	DeleteClient(ctx context.Context, id int64) error
}

// ReportRepository defines report history data access methods.
// The history is append-only; there is no update or delete.
type ReportRepository interface {
	CreateReportEntry(ctx context.Context, entry *models.ReportEntry) error
	ListReportEntries(ctx context.Context) ([]*models.ReportEntry, error)
}

// UserRepository defines staff account data access methods.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UserExists(ctx context.Context, username, email string) (bool, error)
}

// Store aggregates all repositories behind one storage backend.
type Store interface {
	ClientRepository
	ReportRepository
	UserRepository
	Close() error
}

// PoolConfig carries connection pool limits, passed explicitly at
// construction instead of being read from the environment inside the
// storage layer.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultPoolConfig is used when the config leaves pool limits unset.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{MaxOpenConns: 25, MaxIdleConns: 5, ConnMaxLifetime: 5 * time.Minute}
}
