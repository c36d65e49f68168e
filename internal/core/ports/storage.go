package ports

import (
	"context"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
)

// ScanRepository defines the behavior for scan history persistence.
type ScanRepository interface {
	// SaveSession saves or updates a session and replaces its results.
	SaveSession(ctx context.Context, session domain.ScanSession) error
	GetSession(ctx context.Context, id string) (*domain.ScanSession, error)

	// ListSessions returns the most recent sessions without results.
	ListSessions(ctx context.Context, limit int) ([]domain.ScanSession, error)

	// Close closes the storage connection.
	Close() error
}
