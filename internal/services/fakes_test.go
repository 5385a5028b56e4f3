package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"seller-backend/internal/models"
	"seller-backend/internal/repositories"
)

// In-memory stores shared by the service tests

type fakeUsers struct {
	mu    sync.Mutex
	next  int
	users map[int]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[int]*models.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	u.ID = f.next
	u.Email = strings.ToLower(u.Email)
	u.CreatedAt = time.Now()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUsers) Get(_ context.Context, id int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUsers) update(id int, fn func(u *models.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	fn(u)
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id int, hash string) error {
	return f.update(id, func(u *models.User) { u.PasswordHash = hash })
}

func (f *fakeUsers) SetTOTPSecret(_ context.Context, id int, secret string) error {
	return f.update(id, func(u *models.User) { u.TOTPSecret = secret })
}

func (f *fakeUsers) EnableTOTP(_ context.Context, id int) error {
	return f.update(id, func(u *models.User) {
		now := time.Now()
		u.TOTPEnabled = true
		u.TOTPVerifiedAt = &now
	})
}

func (f *fakeUsers) DisableTOTP(_ context.Context, id int) error {
	return f.update(id, func(u *models.User) {
		u.TOTPEnabled = false
		u.TOTPSecret = ""
		u.TOTPVerifiedAt = nil
		u.BackupCodes = ""
	})
}

func (f *fakeUsers) SetBackupCodes(_ context.Context, id int, codes string) error {
	return f.update(id, func(u *models.User) { u.BackupCodes = codes })
}

type fakeAttempts struct {
	mu     sync.Mutex
	failed map[int]int
	byIP   map[string]int
}

func newFakeAttempts() *fakeAttempts {
	return &fakeAttempts{failed: map[int]int{}, byIP: map[string]int{}}
}

func (f *fakeAttempts) LogVerificationAttempt(_ context.Context, userID int, ip string, success bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !success {
		f.failed[userID]++
		f.byIP[ip]++
	}
	return nil
}

func (f *fakeAttempts) GetRecentFailedAttempts(_ context.Context, userID int, _ time.Duration) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failed[userID], nil
}

func (f *fakeAttempts) GetRecentFailedAttemptsByIP(_ context.Context, ip string, _ time.Duration) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byIP[ip], nil
}

// table is a seller-scoped in-memory table
type table[T any] struct {
	mu     sync.Mutex
	next   int
	rows   map[int]*T
	seller func(*T) int
	setID  func(*T, int)
}

func newTable[T any](seller func(*T) int, setID func(*T, int)) *table[T] {
	return &table[T]{rows: map[int]*T{}, seller: seller, setID: setID}
}

// insert assigns the next id to row and stores a copy
func (t *table[T]) insert(row *T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.setID(row, t.next)
	cp := *row
	t.rows[t.next] = &cp
}

func (t *table[T]) get(sellerID, id int) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	if !ok || t.seller(row) != sellerID {
		return nil, repositories.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (t *table[T]) put(sellerID, id int, row *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	old, ok := t.rows[id]
	if !ok || t.seller(old) != sellerID {
		return repositories.ErrNotFound
	}
	cp := *row
	t.rows[id] = &cp
	return nil
}

func (t *table[T]) remove(sellerID, id int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	if !ok || t.seller(row) != sellerID {
		return repositories.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

func (t *table[T]) list(sellerID int) []*T {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]int, 0, len(t.rows))
	for id, row := range t.rows {
		if t.seller(row) == sellerID {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		cp := *t.rows[id]
		out = append(out, &cp)
	}
	return out
}

type fakeCustomers struct{ t *table[models.Customer] }

func newFakeCustomers() *fakeCustomers {
	return &fakeCustomers{newTable(
		func(c *models.Customer) int { return c.SellerID },
		func(c *models.Customer, id int) { c.ID = id },
	)}
}

func (f *fakeCustomers) Create(_ context.Context, c *models.Customer) error {
	f.t.insert(c)
	return nil
}

func (f *fakeCustomers) Get(_ context.Context, sellerID, id int) (*models.Customer, error) {
	return f.t.get(sellerID, id)
}

func (f *fakeCustomers) List(_ context.Context, sellerID int) ([]*models.Customer, error) {
	return f.t.list(sellerID), nil
}

func (f *fakeCustomers) Update(_ context.Context, c *models.Customer) error {
	return f.t.put(c.SellerID, c.ID, c)
}

func (f *fakeCustomers) Delete(_ context.Context, sellerID, id int) error {
	return f.t.remove(sellerID, id)
}

type fakeBrands struct{ t *table[models.Brand] }

func newFakeBrands() *fakeBrands {
	return &fakeBrands{newTable(
		func(b *models.Brand) int { return b.SellerID },
		func(b *models.Brand, id int) { b.ID = id },
	)}
}

func (f *fakeBrands) Create(_ context.Context, b *models.Brand) error {
	f.t.insert(b)
	return nil
}

func (f *fakeBrands) Get(_ context.Context, sellerID, id int) (*models.Brand, error) {
	return f.t.get(sellerID, id)
}

func (f *fakeBrands) List(_ context.Context, sellerID int) ([]*models.Brand, error) {
	return f.t.list(sellerID), nil
}

func (f *fakeBrands) Update(_ context.Context, b *models.Brand) error {
	return f.t.put(b.SellerID, b.ID, b)
}

func (f *fakeBrands) Delete(_ context.Context, sellerID, id int) error {
	return f.t.remove(sellerID, id)
}

type fakeProducts struct{ t *table[models.Product] }

func newFakeProducts() *fakeProducts {
	return &fakeProducts{newTable(
		func(p *models.Product) int { return p.SellerID },
		func(p *models.Product, id int) { p.ID = id },
	)}
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) error {
	f.t.insert(p)
	return nil
}

func (f *fakeProducts) Get(_ context.Context, sellerID, id int) (*models.Product, error) {
	return f.t.get(sellerID, id)
}

func (f *fakeProducts) List(_ context.Context, sellerID, brandID int) ([]*models.Product, error) {
	var out []*models.Product
	for _, p := range f.t.list(sellerID) {
		if brandID > 0 && (p.BrandID == nil || *p.BrandID != brandID) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProducts) Update(_ context.Context, p *models.Product) error {
	return f.t.put(p.SellerID, p.ID, p)
}

func (f *fakeProducts) Delete(_ context.Context, sellerID, id int) error {
	return f.t.remove(sellerID, id)
}

type fakeCampaigns struct{ t *table[models.Campaign] }

func newFakeCampaigns() *fakeCampaigns {
	return &fakeCampaigns{newTable(
		func(c *models.Campaign) int { return c.SellerID },
		func(c *models.Campaign, id int) { c.ID = id },
	)}
}

func (f *fakeCampaigns) Create(_ context.Context, c *models.Campaign) error {
	f.t.insert(c)
	return nil
}

func (f *fakeCampaigns) Get(_ context.Context, sellerID, id int) (*models.Campaign, error) {
	return f.t.get(sellerID, id)
}

func (f *fakeCampaigns) ListByBrand(_ context.Context, sellerID, brandID int) ([]*models.Campaign, error) {
	var out []*models.Campaign
	for _, c := range f.t.list(sellerID) {
		if c.BrandID == brandID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCampaigns) Delete(_ context.Context, sellerID, id int) error {
	return f.t.remove(sellerID, id)
}

type fakeOrders struct {
	t *table[models.Order]
	// lastFilter is the filter of the most recent List call
	lastFilter models.OrderFilter
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{t: newTable(
		func(o *models.Order) int { return o.SellerID },
		func(o *models.Order, id int) { o.ID = id },
	)}
}

func (f *fakeOrders) Create(_ context.Context, o *models.Order) error {
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	f.t.insert(o)
	return nil
}

// Update rebalances against the stored row while holding the table lock, like
// the SELECT ... FOR UPDATE in OrderRepository.Update
func (f *fakeOrders) Update(_ context.Context, o *models.Order, rebalance repositories.RebalanceFunc) error {
	f.t.mu.Lock()
	defer f.t.mu.Unlock()
	old, ok := f.t.rows[o.ID]
	if !ok || old.SellerID != o.SellerID {
		return repositories.ErrNotFound
	}
	o.PaidAmount, o.Status = rebalance(old.PaidAmount)
	o.CreatedAt = old.CreatedAt
	o.UpdatedAt = time.Now()
	cp := *o
	f.t.rows[o.ID] = &cp
	return nil
}

// setBalance writes the paid amount and status of a recorded payment
func (f *fakeOrders) setBalance(o *models.Order) error {
	o.UpdatedAt = time.Now()
	return f.t.put(o.SellerID, o.ID, o)
}

func (f *fakeOrders) Get(_ context.Context, sellerID, id int) (*models.Order, error) {
	return f.t.get(sellerID, id)
}

func (f *fakeOrders) List(_ context.Context, sellerID int, filter models.OrderFilter) ([]*models.Order, error) {
	f.lastFilter = filter
	var out []*models.Order
	for _, o := range f.t.list(sellerID) {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.PaymentType != "" && o.PaymentType != filter.PaymentType {
			continue
		}
		if filter.DueFrom != nil && (o.DueDate.IsZero() || o.DueDate.Before(filter.DueFrom.Time)) {
			continue
		}
		if filter.HasPayments && !o.PaidAmount.IsPositive() && o.Status != models.OrderStatusPaid {
			continue
		}
		out = append(out, o)
	}
	if filter.OrderByDue {
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].DueDate.IsZero() != out[j].DueDate.IsZero() {
				return !out[i].DueDate.IsZero()
			}
			return out[i].DueDate.Before(out[j].DueDate.Time)
		})
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate.Time) })
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeOrders) ListForDashboard(_ context.Context, sellerID int) ([]models.DashboardOrder, error) {
	var out []models.DashboardOrder
	for _, o := range f.t.list(sellerID) {
		brandID := o.BrandID
		out = append(out, models.DashboardOrder{
			TotalSRP:    o.TotalSRP,
			TotalCost:   o.TotalCost,
			Profit:      o.Profit,
			PaidAmount:  o.PaidAmount,
			PaymentType: o.PaymentType,
			Status:      o.Status,
			BrandID:     &brandID,
			BrandName:   o.BrandName,
		})
	}
	return out, nil
}

func (f *fakeOrders) Delete(_ context.Context, sellerID, id int) error {
	return f.t.remove(sellerID, id)
}

// fakePayments mirrors PaymentRepository.Record: one order at a time, replay by
// operation id, settle, then write payment and balance together.
type fakePayments struct {
	mu       sync.Mutex
	orders   *fakeOrders
	next     int
	payments []models.Payment
}

func newFakePayments(orders *fakeOrders) *fakePayments {
	return &fakePayments{orders: orders}
}

func (f *fakePayments) Record(ctx context.Context, sellerID, orderID int, operationID uuid.UUID, channel string, settle repositories.SettleFunc) (*repositories.PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, err := f.orders.Get(ctx, sellerID, orderID)
	if err != nil {
		return nil, err
	}
	if operationID != uuid.Nil {
		for _, p := range f.payments {
			if p.SellerID == sellerID && p.OperationID == operationID {
				if p.OrderID != orderID {
					return nil, repositories.ErrOperationReused
				}
				existing := p
				return &repositories.PaymentRecord{Order: order, Payment: &existing, Replayed: true}, nil
			}
		}
	}

	result, err := settle(order)
	if err != nil {
		return nil, err
	}

	var payment *models.Payment
	if result.Settled.IsPositive() {
		if operationID == uuid.Nil {
			operationID = uuid.New()
		}
		f.next++
		payment = &models.Payment{
			ID:          f.next,
			SellerID:    sellerID,
			OrderID:     orderID,
			OperationID: operationID,
			Amount:      result.Settled,
			Channel:     channel,
			CreatedAt:   time.Now(),
		}
		f.payments = append(f.payments, *payment)
	}

	order.PaidAmount = result.NewPaidAmount
	order.Status = result.NewStatus
	if err := f.orders.setBalance(order); err != nil {
		return nil, err
	}
	return &repositories.PaymentRecord{Order: order, Payment: payment, Result: result}, nil
}

func (f *fakePayments) ListByOrder(_ context.Context, sellerID, orderID int) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payment
	for _, p := range f.payments {
		if p.SellerID == sellerID && p.OrderID == orderID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePayments) ListByOrders(ctx context.Context, sellerID int, orderIDs []int) (map[int][]models.Payment, error) {
	out := make(map[int][]models.Payment)
	for _, id := range orderIDs {
		payments, _ := f.ListByOrder(ctx, sellerID, id)
		if len(payments) > 0 {
			out[id] = payments
		}
	}
	return out, nil
}

type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	return b, ok
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

func (c *memCache) Delete(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
		c.deleted = append(c.deleted, k)
	}
}

type event struct {
	sellerID int
	kind     string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event
}

func (p *recordingPublisher) Publish(sellerID int, kind string, _ any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event{sellerID, kind})
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
