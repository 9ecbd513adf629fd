package test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
	"github.com/polkiloo/ordertrack/internal/domain/model"
)

// OrderRepositoryStub keeps orders in memory and lets tests override each call.
type OrderRepositoryStub struct {
	CreateFn             func(context.Context, *model.Order) error
	InsertItemsFn        func(context.Context, string, []model.OrderItem) error
	DeleteFn             func(context.Context, string) error
	GetByIDFn            func(context.Context, string) (*model.Order, error)
	GetByTrackingTokenFn func(context.Context, string) (*model.Order, error)
	ListFn               func(context.Context, model.OrderFilter) ([]model.Order, error)
	UpdateStatusFn       func(context.Context, model.StatusChange) error

	Orders        map[string]*model.Order
	CreateCalls   []model.Order
	Deleted       []string
	StatusChanges []model.StatusChange
	Swept         []time.Time

	mu sync.Mutex
}

// NewOrderRepositoryStub constructs an empty in-memory order repository.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[string]*model.Order)}
}

// Put stores an order directly, bypassing Create.
func (s *OrderRepositoryStub) Put(order model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure()
	o := order
	s.Orders[o.ID] = &o
}

// Stored returns a copy of an order regardless of its deleted flag.
func (s *OrderRepositoryStub) Stored(id string) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[id]
	if !ok {
		return model.Order{}, false
	}
	return *o, true
}

func (s *OrderRepositoryStub) ensure() {
	if s.Orders == nil {
		s.Orders = make(map[string]*model.Order)
	}
}

// Create records the order and stores it.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) error {
	s.mu.Lock()
	s.CreateCalls = append(s.CreateCalls, *order)
	s.mu.Unlock()
	if s.CreateFn != nil {
		if err := s.CreateFn(ctx, order); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure()
	if _, exists := s.Orders[order.ID]; exists {
		return domainErrors.ErrAlreadyExists
	}
	order.CreatedAt = order.PlacedAt
	order.UpdatedAt = order.PlacedAt
	stored := *order
	stored.Items = nil
	s.Orders[order.ID] = &stored
	return nil
}

// InsertItems attaches items to a stored order.
func (s *OrderRepositoryStub) InsertItems(ctx context.Context, orderID string, items []model.OrderItem) error {
	if s.InsertItemsFn != nil {
		if err := s.InsertItemsFn(ctx, orderID, items); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	o.Items = append([]model.OrderItem(nil), items...)
	return nil
}

// Delete removes the order row.
func (s *OrderRepositoryStub) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	s.Deleted = append(s.Deleted, id)
	s.mu.Unlock()
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Orders[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.Orders, id)
	return nil
}

// SoftDelete flags the order as deleted.
func (s *OrderRepositoryStub) SoftDelete(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[id]
	if !ok || o.IsDeleted {
		return domainErrors.ErrNotFound
	}
	o.IsDeleted = true
	deletedAt := at
	o.DeletedAt = &deletedAt
	o.UpdatedAt = at
	return nil
}

// GetByID returns a live order.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[id]
	if !ok || o.IsDeleted {
		return nil, domainErrors.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

// GetByTrackingToken returns a live order holding token.
func (s *OrderRepositoryStub) GetByTrackingToken(ctx context.Context, token string) (*model.Order, error) {
	if s.GetByTrackingTokenFn != nil {
		return s.GetByTrackingTokenFn(ctx, token)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.Orders {
		if o.IsDeleted || o.TrackingToken == nil || *o.TrackingToken != token {
			continue
		}
		cp := *o
		return &cp, nil
	}
	return nil, domainErrors.ErrNotFound
}

// List filters live orders and sorts them newest first.
func (s *OrderRepositoryStub) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, filter)
	}
	filter = filter.Normalize()

	s.mu.Lock()
	var result []model.Order
	for _, o := range s.Orders {
		if o.IsDeleted {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.OrderType != "" && o.OrderType != filter.OrderType {
			continue
		}
		if filter.CustomerPhone != "" && o.CustomerPhone != filter.CustomerPhone {
			continue
		}
		if filter.From != nil && o.OrderDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && o.OrderDate.After(*filter.To) {
			continue
		}
		result = append(result, *o)
	}
	s.mu.Unlock()

	sort.Slice(result, func(i, j int) bool { return result[i].PlacedAt.After(result[j].PlacedAt) })

	offset := filter.Offset()
	if offset >= len(result) {
		return []model.Order{}, nil
	}
	end := offset + filter.Limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], nil
}

// ListByOrderDate returns live orders within [from, to] by day and number.
func (s *OrderRepositoryStub) ListByOrderDate(ctx context.Context, from, to time.Time) ([]model.Order, error) {
	s.mu.Lock()
	var result []model.Order
	for _, o := range s.Orders {
		if o.IsDeleted || o.OrderDate.Before(from) || o.OrderDate.After(to) {
			continue
		}
		result = append(result, *o)
	}
	s.mu.Unlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].OrderDate.Equal(result[j].OrderDate) {
			return result[i].OrderDate.Before(result[j].OrderDate)
		}
		return result[i].DailyOrderNumber < result[j].DailyOrderNumber
	})
	return result, nil
}

// UpdateStatus applies the change with the same guards and stamps as the SQL store.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, change model.StatusChange) error {
	s.mu.Lock()
	s.StatusChanges = append(s.StatusChanges, change)
	s.mu.Unlock()
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, change)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[change.OrderID]
	if !ok || o.IsDeleted {
		return domainErrors.ErrNotFound
	}
	if change.AllowedFrom != nil && !containsStatus(change.AllowedFrom, o.Status) {
		return fmt.Errorf("%w: %s -> %s", domainErrors.ErrInvalidTransition, o.Status, change.Status)
	}

	at := change.At
	o.Status = change.Status
	o.UpdatedAt = at
	switch change.Status {
	case model.OrderStatusPreparing:
		o.PreparingStartedAt = &at
	case model.OrderStatusReady:
		o.ReadyAt = &at
	case model.OrderStatusCompleted:
		o.CompletedAt = &at
		if o.CollectedAt == nil {
			o.CollectedAt = &at
		}
		if change.TrackingExpiresAt != nil && o.TrackingToken != nil {
			exp := *change.TrackingExpiresAt
			o.TrackingTokenExpiresAt = &exp
		}
	case model.OrderStatusCancelled:
		o.CancelledAt = &at
	}
	return nil
}

// ClearExpiredTracking nulls expired tokens of completed or cancelled orders.
func (s *OrderRepositoryStub) ClearExpiredTracking(ctx context.Context, before time.Time, limit int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Swept = append(s.Swept, before)
	cleared := 0
	for _, o := range s.Orders {
		if limit > 0 && cleared >= limit {
			break
		}
		if !o.Status.IsTerminal() || o.TrackingToken == nil || o.TrackingTokenExpiresAt == nil || !o.TrackingTokenExpiresAt.Before(before) {
			continue
		}
		o.TrackingToken = nil
		o.TrackingTokenExpiresAt = nil
		cleared++
	}
	return cleared, nil
}

func containsStatus(list []model.OrderStatus, status model.OrderStatus) bool {
	for _, s := range list {
		if s == status {
			return true
		}
	}
	return false
}

// HistoryRepositoryStub stores the status log in memory.
type HistoryRepositoryStub struct {
	AppendFn       func(context.Context, model.StatusHistoryEntry) error
	ListByOrdersFn func(context.Context, []string) (map[string][]model.StatusHistoryEntry, error)
	Entries        []model.StatusHistoryEntry
	AdminNames     map[string]string

	mu sync.Mutex
}

// Append stores entry unless an override fails.
func (s *HistoryRepositoryStub) Append(ctx context.Context, entry model.StatusHistoryEntry) error {
	if s.AppendFn != nil {
		if err := s.AppendFn(ctx, entry); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = int64(len(s.Entries) + 1)
	if entry.ChangedBy != nil {
		if name, ok := s.AdminNames[*entry.ChangedBy]; ok {
			n := name
			entry.ChangedByName = &n
		}
	}
	s.Entries = append(s.Entries, entry)
	return nil
}

// ListByOrder returns entries of one order by timestamp.
func (s *HistoryRepositoryStub) ListByOrder(ctx context.Context, orderID string) ([]model.StatusHistoryEntry, error) {
	grouped, err := s.ListByOrders(ctx, []string{orderID})
	if err != nil {
		return nil, err
	}
	return grouped[orderID], nil
}

// ListByOrders groups entries by order id.
func (s *HistoryRepositoryStub) ListByOrders(ctx context.Context, orderIDs []string) (map[string][]model.StatusHistoryEntry, error) {
	if s.ListByOrdersFn != nil {
		return s.ListByOrdersFn(ctx, orderIDs)
	}
	wanted := make(map[string]struct{}, len(orderIDs))
	for _, id := range orderIDs {
		wanted[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	result := make(map[string][]model.StatusHistoryEntry)
	for _, e := range s.Entries {
		if _, ok := wanted[e.OrderID]; ok {
			result[e.OrderID] = append(result[e.OrderID], e)
		}
	}
	for id := range result {
		entries := result[id]
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].StatusTimestamp.Before(entries[j].StatusTimestamp) })
	}
	return result, nil
}

// MenuRepositoryStub serves a fixed catalog and promotion list.
type MenuRepositoryStub struct {
	Items        map[string]model.MenuItem
	Promos       map[string]model.Promotion
	LookupFn     func(context.Context, []string) (map[string]model.MenuItem, error)
	PromotionsFn func(context.Context, []string) (map[string]model.Promotion, error)
	Lookups      [][]string
	PromoLookups [][]string

	mu sync.Mutex
}

// Lookup returns the known subset of ids.
func (s *MenuRepositoryStub) Lookup(ctx context.Context, ids []string) (map[string]model.MenuItem, error) {
	s.mu.Lock()
	s.Lookups = append(s.Lookups, ids)
	s.mu.Unlock()
	if s.LookupFn != nil {
		return s.LookupFn(ctx, ids)
	}
	result := make(map[string]model.MenuItem, len(ids))
	for _, id := range ids {
		if item, ok := s.Items[id]; ok {
			result[id] = item
		}
	}
	return result, nil
}

// Promotions returns the known subset of promotion ids.
func (s *MenuRepositoryStub) Promotions(ctx context.Context, ids []string) (map[string]model.Promotion, error) {
	s.mu.Lock()
	s.PromoLookups = append(s.PromoLookups, ids)
	s.mu.Unlock()
	if s.PromotionsFn != nil {
		return s.PromotionsFn(ctx, ids)
	}
	result := make(map[string]model.Promotion, len(ids))
	for _, id := range ids {
		if promo, ok := s.Promos[id]; ok {
			result[id] = promo
		}
	}
	return result, nil
}

// AdminRepositoryStub stores admins in memory.
type AdminRepositoryStub struct {
	Admins  map[string]*model.Admin
	Err     error
	Touched []string
	next    int
}

// NewAdminRepositoryStub constructs an empty admin repository.
func NewAdminRepositoryStub() *AdminRepositoryStub {
	return &AdminRepositoryStub{Admins: make(map[string]*model.Admin)}
}

// Create stores the admin and assigns an id when missing.
func (s *AdminRepositoryStub) Create(ctx context.Context, admin *model.Admin) error {
	if s.Err != nil {
		return s.Err
	}
	if s.Admins == nil {
		s.Admins = make(map[string]*model.Admin)
	}
	for _, a := range s.Admins {
		if strings.EqualFold(a.Email, admin.Email) {
			return domainErrors.ErrAlreadyExists
		}
	}
	if admin.ID == "" {
		s.next++
		admin.ID = fmt.Sprintf("admin-%d", s.next)
	}
	stored := *admin
	s.Admins[admin.ID] = &stored
	return nil
}

// GetByEmail looks an admin up case-insensitively.
func (s *AdminRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, a := range s.Admins {
		if strings.EqualFold(a.Email, email) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID returns an admin by identifier.
func (s *AdminRepositoryStub) GetByID(ctx context.Context, id string) (*model.Admin, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if a, ok := s.Admins[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, domainErrors.ErrNotFound
}

// TouchLastLogin records the login time.
func (s *AdminRepositoryStub) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	if s.Err != nil {
		return s.Err
	}
	a, ok := s.Admins[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	t := at
	a.LastLogin = &t
	s.Touched = append(s.Touched, id)
	return nil
}

// UpdatePasswordHash replaces the stored hash.
func (s *AdminRepositoryStub) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	if s.Err != nil {
		return s.Err
	}
	a, ok := s.Admins[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	a.PasswordHash = hash
	return nil
}

// SequenceStub hands out per-day counters starting at 1.
type SequenceStub struct {
	NextFn   func(context.Context, time.Time) (int, error)
	Counters map[string]int
	Days     []time.Time

	mu sync.Mutex
}

// Next increments the counter of day.
func (s *SequenceStub) Next(ctx context.Context, day time.Time) (int, error) {
	s.mu.Lock()
	s.Days = append(s.Days, day)
	s.mu.Unlock()
	if s.NextFn != nil {
		return s.NextFn(ctx, day)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Counters == nil {
		s.Counters = make(map[string]int)
	}
	key := day.Format(model.DateLayout)
	s.Counters[key]++
	return s.Counters[key], nil
}

// CapabilitiesStub toggles the tracking capability.
type CapabilitiesStub struct {
	Enabled      bool
	DisableCalls int

	mu sync.Mutex
}

// TrackingEnabled reports the current flag.
func (s *CapabilitiesStub) TrackingEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Enabled
}

// DisableTracking turns the flag off.
func (s *CapabilitiesStub) DisableTracking() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Enabled = false
	s.DisableCalls++
}
