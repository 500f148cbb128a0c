// Package testutil repositorios en memoria y dobles de los puertos para tests de
// casos de uso y handlers. Reproducen las guardas de las sentencias SQL (UPDATE ...
// WHERE status = ...) para que los tests ejerzan las mismas reglas.
package testutil

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/jobboard-api/internal/domain"
	"github.com/jhoicas/jobboard-api/internal/domain/entity"
	"github.com/jhoicas/jobboard-api/internal/domain/repository"
)

// Store estado compartido por todos los repos en memoria.
type Store struct {
	mu        sync.Mutex
	Accounts  map[string]*entity.Account
	Companies map[string]*entity.Company
	Provinces map[string]string
	Packages  map[string]*entity.VipPackage
	Orders    map[string]*entity.Order
	Events    []*entity.PaymentEvent

	// FailCompanyCreate fuerza un error al crear la empresa (prueba de rollback).
	FailCompanyCreate error
}

// NewStore crea un store vacío con una provincia "01".
func NewStore() *Store {
	return &Store{
		Accounts:  map[string]*entity.Account{},
		Companies: map[string]*entity.Company{},
		Provinces: map[string]string{"01": "Hà Nội"},
		Packages:  map[string]*entity.VipPackage{},
		Orders:    map[string]*entity.Order{},
	}
}

func (s *Store) snapshot() *Store {
	cp := NewStore()
	for k, v := range s.Accounts {
		a := *v
		cp.Accounts[k] = &a
	}
	for k, v := range s.Companies {
		c := *v
		cp.Companies[k] = &c
	}
	for k, v := range s.Provinces {
		cp.Provinces[k] = v
	}
	for k, v := range s.Packages {
		p := *v
		cp.Packages[k] = &p
	}
	for k, v := range s.Orders {
		o := *v
		cp.Orders[k] = &o
	}
	cp.Events = append(cp.Events, s.Events...)
	return cp
}

func (s *Store) restore(from *Store) {
	s.Accounts, s.Companies, s.Provinces = from.Accounts, from.Companies, from.Provinces
	s.Packages, s.Orders, s.Events = from.Packages, from.Orders, from.Events
}

// Repos vistas del store que implementan los puertos.
func (s *Store) AccountRepo() *AccountRepo       { return &AccountRepo{s} }
func (s *Store) CompanyRepo() *CompanyRepo       { return &CompanyRepo{s} }
func (s *Store) VipPackageRepo() *VipPackageRepo { return &VipPackageRepo{s} }
func (s *Store) OrderRepo() *OrderRepo           { return &OrderRepo{s} }
func (s *Store) PaymentEventRepo() *EventRepo    { return &EventRepo{s} }

// TxRunner ejecuta fn y, si falla, restaura el estado previo.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s} }

// ─── Accounts ────────────────────────────────────────────────────────────────

var _ repository.AccountRepository = (*AccountRepo)(nil)

type AccountRepo struct{ s *Store }

func (r *AccountRepo) Create(_ context.Context, a *entity.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.Accounts {
		if strings.EqualFold(x.Email, a.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *a
	r.s.Accounts[a.ID] = &cp
	return nil
}

func (r *AccountRepo) GetByID(_ context.Context, id string) (*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.Accounts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r *AccountRepo) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.Accounts {
		if strings.EqualFold(a.Email, email) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *AccountRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.Accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.PasswordHash = hash
	a.ResetToken, a.ResetTokenExpiresAt = nil, nil
	return nil
}

func (r *AccountRepo) SetLocked(_ context.Context, id string, locked bool) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.Accounts[id]
	if !ok {
		return false, nil
	}
	a.IsLocked = locked
	return true, nil
}

func (r *AccountRepo) SetResetToken(_ context.Context, id, tokenHash string, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.Accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	tok, exp := tokenHash, expiresAt
	a.ResetToken, a.ResetTokenExpiresAt = &tok, &exp
	return nil
}

func (r *AccountRepo) GetByResetToken(_ context.Context, tokenHash string, now time.Time) (*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a := r.byValidResetToken(tokenHash, now); a != nil {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r *AccountRepo) ResetPassword(_ context.Context, tokenHash, passwordHash string, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a := r.byValidResetToken(tokenHash, now)
	if a == nil {
		return false, nil
	}
	a.PasswordHash = passwordHash
	a.ResetToken, a.ResetTokenExpiresAt = nil, nil
	return true, nil
}

// byValidResetToken equivale a WHERE reset_token = $1 AND reset_token_expires_at >= $2.
func (r *AccountRepo) byValidResetToken(tokenHash string, now time.Time) *entity.Account {
	for _, a := range r.s.Accounts {
		if a.ResetToken != nil && *a.ResetToken == tokenHash &&
			a.ResetTokenExpiresAt != nil && !a.ResetTokenExpiresAt.Before(now) {
			return a
		}
	}
	return nil
}

// ─── Companies ───────────────────────────────────────────────────────────────

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

type CompanyRepo struct{ s *Store }

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailCompanyCreate != nil {
		return r.s.FailCompanyCreate
	}
	for _, x := range r.s.Companies {
		if strings.EqualFold(x.Email, c.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *c
	r.s.Companies[c.ID] = &cp
	return nil
}

func (r *CompanyRepo) find(pred func(*entity.Company) bool) *entity.Company {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.Companies {
		if pred(c) {
			cp := *c
			return &cp
		}
	}
	return nil
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return r.find(func(c *entity.Company) bool { return c.ID == id }), nil
}

func (r *CompanyRepo) GetByAccountID(_ context.Context, accountID string) (*entity.Company, error) {
	return r.find(func(c *entity.Company) bool { return c.AccountID == accountID }), nil
}

func (r *CompanyRepo) GetByEmail(_ context.Context, email string) (*entity.Company, error) {
	return r.find(func(c *entity.Company) bool { return strings.EqualFold(c.Email, email) }), nil
}

func (r *CompanyRepo) GetPendingByID(_ context.Context, id string) (*entity.Company, error) {
	return r.find(func(c *entity.Company) bool { return c.ID == id && c.Status == entity.CompanyPending }), nil
}

func (r *CompanyRepo) GetApprovedByID(_ context.Context, id string) (*entity.Company, error) {
	return r.find(func(c *entity.Company) bool { return c.ID == id && c.Status == entity.CompanyApproved }), nil
}

func (r *CompanyRepo) TransitionStatus(_ context.Context, id string, rv entity.CompanyReview) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.Companies[id]
	if !ok || c.Status != entity.CompanyPending {
		return false, nil
	}
	c.Status = rv.Status
	c.ReasonReject = rv.ReasonReject
	reviewer, at := rv.ReviewedBy, rv.ReviewedAt
	c.ReviewedBy, c.ReviewedAt = &reviewer, &at
	return true, nil
}

func (r *CompanyRepo) UpdateProfile(_ context.Context, id string, p entity.CompanyProfile) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.Companies[id]
	if !ok || c.Status != entity.CompanyApproved {
		return false, nil
	}
	if _, ok := r.s.Provinces[p.ProvinceID]; !ok {
		return false, domain.NewValidationError("provinceId", "NOT_FOUND")
	}
	c.Description, c.Address, c.ProvinceID, c.Website, c.Logo = p.Description, p.Address, p.ProvinceID, p.Website, p.Logo
	return true, nil
}

func (r *CompanyRepo) List(_ context.Context, f repository.CompanyFilter) ([]*entity.Company, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Company
	for _, c := range r.s.Companies {
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, c.Status) {
			continue
		}
		if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" &&
			!strings.Contains(strings.ToLower(c.Name+" "+c.Email+" "+c.TaxCode), q) {
			continue
		}
		if q := strings.ToLower(strings.TrimSpace(f.Province)); q != "" &&
			!strings.Contains(strings.ToLower(r.s.Provinces[c.ProvinceID]), q) {
			continue
		}
		if a, ok := r.s.Accounts[c.AccountID]; f.ActiveAccountOnly && ok && a.IsLocked {
			continue
		}
		cp := *c
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, f.Limit, f.Offset), len(all), nil
}

func (r *CompanyRepo) ProvinceExists(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.Provinces[id]
	return ok, nil
}

func containsStatus(list []entity.CompanyStatus, s entity.CompanyStatus) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// ─── VIP packages ────────────────────────────────────────────────────────────

var _ repository.VipPackageRepository = (*VipPackageRepo)(nil)

type VipPackageRepo struct{ s *Store }

func (r *VipPackageRepo) Create(_ context.Context, p *entity.VipPackage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	r.s.Packages[p.ID] = &cp
	return nil
}

func (r *VipPackageRepo) GetByID(_ context.Context, id string) (*entity.VipPackage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.Packages[id]
	if !ok || p.IsDeleted {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *VipPackageRepo) List(_ context.Context, f repository.VipPackageFilter) ([]*entity.VipPackage, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.VipPackage
	for _, p := range r.s.Packages {
		if p.IsDeleted {
			continue
		}
		if f.Priority != nil && p.Priority != *f.Priority {
			continue
		}
		if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Priority != all[j].Priority {
			return all[i].Priority > all[j].Priority
		}
		return all[i].Price.LessThan(all[j].Price)
	})
	return paginate(all, f.Limit, f.Offset), len(all), nil
}

func (r *VipPackageRepo) ListActive(ctx context.Context) ([]*entity.VipPackage, error) {
	list, _, err := r.List(ctx, repository.VipPackageFilter{Limit: 1 << 30})
	sort.Slice(list, func(i, j int) bool { return list[i].Price.LessThan(list[j].Price) })
	return list, err
}

func (r *VipPackageRepo) hasActive(id string, now time.Time) bool {
	for _, o := range r.s.Orders {
		if o.VipPackageID == id && o.EndDate.After(now) {
			return true
		}
	}
	return false
}

func (r *VipPackageRepo) HasActiveOrders(_ context.Context, id string, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.hasActive(id, now), nil
}

func (r *VipPackageRepo) Update(_ context.Context, p *entity.VipPackage, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.Packages[p.ID]
	if !ok || cur.IsDeleted || r.hasActive(p.ID, now) {
		return false, nil
	}
	cur.Name, cur.Description, cur.NumPost, cur.Price = p.Name, p.Description, p.NumPost, p.Price
	cur.DurationDay, cur.Priority, cur.UpdatedAt = p.DurationDay, p.Priority, now
	return true, nil
}

func (r *VipPackageRepo) SoftDelete(_ context.Context, id string, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.Packages[id]
	if !ok || cur.IsDeleted || r.hasActive(id, now) {
		return false, nil
	}
	cur.IsDeleted, cur.UpdatedAt = true, now
	return true, nil
}

// ─── Orders ──────────────────────────────────────────────────────────────────

var _ repository.OrderRepository = (*OrderRepo)(nil)

type OrderRepo struct{ s *Store }

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *o
	cp.VipPackage = nil
	r.s.Orders[o.ID] = &cp
	return nil
}

func (r *OrderRepo) withPackage(o *entity.Order) *entity.Order {
	cp := *o
	if p, ok := r.s.Packages[o.VipPackageID]; ok {
		pc := *p
		cp.VipPackage = &pc
	}
	return &cp
}

func (r *OrderRepo) GetWithPackage(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.Orders[id]
	if !ok {
		return nil, nil
	}
	return r.withPackage(o), nil
}

func (r *OrderRepo) CompareAndSetStatus(_ context.Context, id string, from, to entity.OrderStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.Orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (r *OrderRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Order, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Order
	for _, o := range r.s.Orders {
		if o.CompanyID == companyID {
			all = append(all, r.withPackage(o))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, limit, offset), len(all), nil
}

func (r *OrderRepo) ConsumePostCredit(_ context.Context, companyID string, now time.Time) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var best *entity.Order
	var bestPrio entity.PackageLevel
	for _, o := range r.s.Orders {
		if o.CompanyID != companyID || !o.Usable(now) {
			continue
		}
		prio := entity.LevelBasic
		if p, ok := r.s.Packages[o.VipPackageID]; ok {
			prio = p.Priority
		}
		if best == nil || prio > bestPrio || (prio == bestPrio && o.EndDate.Before(best.EndDate)) {
			best, bestPrio = o, prio
		}
	}
	if best == nil {
		return nil, nil
	}
	best.RemainingPosts--
	cp := *best
	return &cp, nil
}

// ─── Payment events ──────────────────────────────────────────────────────────

var _ repository.PaymentEventRepository = (*EventRepo)(nil)

type EventRepo struct{ s *Store }

func (r *EventRepo) Insert(_ context.Context, e *entity.PaymentEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *e
	r.s.Events = append(r.s.Events, &cp)
	return nil
}

// ─── Transactions ────────────────────────────────────────────────────────────

// TxRunner transacción simulada: snapshot antes de fn, restauración si fn falla.
type TxRunner struct{ s *Store }

func (t *TxRunner) RunRegistration(ctx context.Context, fn func(repository.AccountRepository, repository.CompanyRepository) error) error {
	t.s.mu.Lock()
	snap := t.s.snapshot()
	t.s.mu.Unlock()
	if err := fn(t.s.AccountRepo(), t.s.CompanyRepo()); err != nil {
		t.s.mu.Lock()
		t.s.restore(snap)
		t.s.mu.Unlock()
		return err
	}
	return nil
}

func paginate[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}

// ErrBoom error genérico para simular fallos de infraestructura.
var ErrBoom = errors.New("boom")
