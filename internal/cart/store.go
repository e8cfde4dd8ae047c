package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tasselgroup/storefront/internal/domain"
	"github.com/tasselgroup/storefront/internal/port"
	"golang.org/x/text/currency"
)

var (
	// ErrLoginRequired is returned by Add when the store gates mutations on a
	// stored credential and none is present. No mutation happens; callers
	// must check for this short-circuit.
	ErrLoginRequired = errors.New("login required to add items to cart")

	// ErrNoConfirmer is returned by Clear when no confirmation step was
	// wired in; the cart must never be emptied without one.
	ErrNoConfirmer = errors.New("clear requires a confirmation step")
)

// Summary is pushed to change listeners after every mutation; it carries
// what the badge and sidebar render.
type Summary struct {
	ItemCount int
	Total     domain.Money
}

// Store is the single source of truth for cart contents. It is constructed
// once at application start and handed to whichever controllers need it;
// there is no ambient global instance.
//
// Persistence is best-effort: a failed save is logged and the in-memory
// state stays authoritative for the session.
type Store struct {
	mu   sync.Mutex
	cart domain.Cart

	snapshots port.SnapshotStore
	notifier  port.Notifier
	creds     port.CredentialSource
	confirm   port.ConfirmFunc
	prompt    func()
	logger    *slog.Logger

	listeners []func(Summary)
}

type Option func(*Store)

// WithNotifier wires the user-facing notification surface.
func WithNotifier(n port.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithCredentials gates Add on a stored login credential.
func WithCredentials(c port.CredentialSource) Option {
	return func(s *Store) { s.creds = c }
}

// WithConfirmer wires the confirmation step Clear requires.
func WithConfirmer(f port.ConfirmFunc) Option {
	return func(s *Store) { s.confirm = f }
}

// WithLoginPrompt wires the surface invoked when Add is refused for a
// missing credential, e.g. opening the login modal.
func WithLoginPrompt(f func()) Option {
	return func(s *Store) { s.prompt = f }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New loads the persisted snapshot, or starts empty when there is none or
// it cannot be read, and notifies listeners of the initial state. It never
// fails on storage problems.
func New(ctx context.Context, snapshots port.SnapshotStore, unit currency.Unit, opts ...Option) (*Store, error) {
	if snapshots == nil {
		return nil, fmt.Errorf("snapshots is nil")
	}

	s := &Store{
		snapshots: snapshots,
		logger:    slog.Default(),
		cart:      domain.Cart{Currency: unit},
	}
	for _, opt := range opts {
		opt(s)
	}

	items, err := snapshots.Load(ctx)
	if err != nil {
		s.logger.Warn("cart snapshot unavailable, starting empty", "error", err)
		items = nil
	}
	s.cart.Items = items

	s.fanOut()
	return s, nil
}

// Subscribe registers a listener invoked with a fresh Summary after every
// mutation. Listeners run on the mutating call's goroutine.
func (s *Store) Subscribe(fn func(Summary)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Add puts a product in the cart, incrementing quantity when the product is
// already present. When the store is credential-gated and no credential is
// stored, the operation is refused, the login prompt is raised and
// ErrLoginRequired is returned.
func (s *Store) Add(ctx context.Context, p domain.Product) error {
	if p.ID == "" {
		return fmt.Errorf("product id is empty")
	}
	if p.Name == "" {
		return fmt.Errorf("product name is empty")
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("product price is negative")
	}

	if s.creds != nil {
		token, err := s.creds.Token(ctx)
		if err != nil || token == "" {
			s.notify(port.LevelError, "Please log in to add items to cart")
			if s.prompt != nil {
				s.prompt()
			}
			return ErrLoginRequired
		}
	}

	s.mu.Lock()
	if i := s.cart.Find(p.ID); i >= 0 {
		s.cart.Items[i].Quantity++
	} else {
		s.cart.Items = append(s.cart.Items, domain.LineItem{
			ID:        p.ID,
			Name:      p.Name,
			Price:     p.Price,
			SalePrice: p.SalePrice,
			Image:     p.Image,
			Quantity:  1,
		})
	}
	s.mu.Unlock()

	s.persist(ctx)
	s.notify(port.LevelSuccess, fmt.Sprintf("%s added to cart", p.Name))
	return nil
}

// Remove deletes the item with the given product ID. A missing ID is a
// silent no-op, not an error.
func (s *Store) Remove(ctx context.Context, productID string) {
	s.mu.Lock()
	i := s.cart.Find(productID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.cart.Items = append(s.cart.Items[:i], s.cart.Items[i+1:]...)
	s.mu.Unlock()

	s.persist(ctx)
	s.notify(port.LevelInfo, "Item removed from cart")
}

// UpdateQuantity adjusts an item's quantity by delta, clamping at 1:
// decrementing never removes the item, removal is its own operation.
// A missing ID is a silent no-op.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, delta int) {
	s.mu.Lock()
	i := s.cart.Find(productID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	q := s.cart.Items[i].Quantity + delta
	if q < 1 {
		q = 1
	}
	s.cart.Items[i].Quantity = q
	s.mu.Unlock()

	s.persist(ctx)
}

// Clear empties the cart after the wired confirmation step agrees. It
// reports whether the cart was actually cleared; a declined confirmation
// is not an error.
func (s *Store) Clear(ctx context.Context) (bool, error) {
	if s.confirm == nil {
		return false, ErrNoConfirmer
	}
	if !s.confirm() {
		return false, nil
	}

	s.mu.Lock()
	s.cart.Items = nil
	s.mu.Unlock()

	s.persist(ctx)
	s.notify(port.LevelInfo, "Cart cleared")
	return true, nil
}

// Items returns a copy of the current line items in cart order.
func (s *Store) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.LineItem, len(s.cart.Items))
	copy(out, s.cart.Items)
	return out
}

// Subtotal sums effective unit price times quantity over the cart.
func (s *Store) Subtotal() domain.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Subtotal()
}

// Total equals Subtotal: the cart has no notion of fulfillment, so any
// delivery fee is added at checkout, not here.
func (s *Store) Total() domain.Money {
	return s.Subtotal()
}

// ItemCount sums quantities across items.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemCount()
}

// IsEmpty reports whether the cart holds no items.
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.IsEmpty()
}

// Currency returns the cart's trading currency.
func (s *Store) Currency() currency.Unit {
	return s.cart.Currency
}

func (s *Store) persist(ctx context.Context) {
	if err := s.snapshots.Save(ctx, s.Items()); err != nil {
		s.logger.Warn("cart snapshot save failed", "error", err)
	}
	s.fanOut()
}

func (s *Store) fanOut() {
	summary := Summary{ItemCount: s.ItemCount(), Total: s.Total()}

	s.mu.Lock()
	listeners := make([]func(Summary), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(summary)
	}
}

func (s *Store) notify(level port.NotificationLevel, message string) {
	if s.notifier != nil {
		s.notifier.Notify(level, message)
	}
}
