package port

import (
	"context"

	"github.com/tasselgroup/storefront/internal/domain"
)

// SnapshotStore persists the cart contents in the device's storage slot.
// Implementations write the full item list on every mutation and read it
// once at store construction.
type SnapshotStore interface {
	Load(ctx context.Context) ([]domain.LineItem, error)
	Save(ctx context.Context, items []domain.LineItem) error
}

type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelInfo    NotificationLevel = "info"
	LevelError   NotificationLevel = "error"
)

// Notifier surfaces non-blocking notifications to the user.
type Notifier interface {
	Notify(level NotificationLevel, message string)
}

// CredentialSource exposes the stored login credential and the profile
// saved next to it.
type CredentialSource interface {
	Token(ctx context.Context) (string, error)
	Customer(ctx context.Context) (domain.Customer, error)
}

// ConfirmFunc asks the user to confirm a destructive action.
type ConfirmFunc func() bool
