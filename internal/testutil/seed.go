package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/jobboard-api/internal/domain/entity"
)

// DefaultPassword contraseña válida usada por las cuentas sembradas.
const DefaultPassword = "Abc@1234"

// SeedAccount inserta una cuenta con DefaultPassword.
func (s *Store) SeedAccount(email, role string) *entity.Account {
	hash, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	now := time.Now().UTC()
	a := &entity.Account{
		ID: uuid.New().String(), Email: email, PasswordHash: string(hash), Role: role,
		CreatedAt: now, UpdatedAt: now,
	}
	s.mu.Lock()
	s.Accounts[a.ID] = a
	s.mu.Unlock()
	return a
}

// SeedCompany inserta una cuenta COMPANY y su empresa en el estado dado.
func (s *Store) SeedCompany(email string, status entity.CompanyStatus) (*entity.Account, *entity.Company) {
	a := s.SeedAccount(email, entity.RoleCompany)
	now := time.Now().UTC()
	c := &entity.Company{
		ID: uuid.New().String(), AccountID: a.ID, Email: email, Name: "Công ty ABC",
		Address: "12 Lê Lợi", ProvinceID: "01", Logo: "mem://logos/seed.png", TaxCode: "0101234567",
		BusinessLicensePath: "mem://licenses/seed.pdf", Status: status, CreatedAt: now, UpdatedAt: now,
	}
	if status == entity.CompanyRejected {
		reason := "licencia ilegible"
		c.ReasonReject = &reason
	}
	s.mu.Lock()
	s.Companies[c.ID] = c
	s.mu.Unlock()
	return a, c
}

// SeedPackage inserta un paquete VIP vigente.
func (s *Store) SeedPackage(name string, price int64, numPost, durationDay int, level entity.PackageLevel) *entity.VipPackage {
	now := time.Now().UTC()
	p := &entity.VipPackage{
		ID: uuid.New().String(), Name: name, Description: "Paquete de visibilidad " + name,
		NumPost: numPost, Price: decimal.NewFromInt(price), DurationDay: durationDay, Priority: level,
		CreatedAt: now, UpdatedAt: now,
	}
	s.mu.Lock()
	s.Packages[p.ID] = p
	s.mu.Unlock()
	return p
}

// SeedOrder inserta un pedido con el estado y vencimiento dados.
func (s *Store) SeedOrder(companyID string, pkg *entity.VipPackage, status entity.OrderStatus, endDate time.Time) *entity.Order {
	now := time.Now().UTC()
	o := &entity.Order{
		ID: uuid.New().String(), CompanyID: companyID, VipPackageID: pkg.ID, EndDate: endDate,
		RemainingPosts: pkg.NumPost, Status: status, CreatedAt: now, UpdatedAt: now,
	}
	s.mu.Lock()
	s.Orders[o.ID] = o
	s.mu.Unlock()
	return o
}

// Order lectura directa del estado de un pedido.
func (s *Store) Order(id string) entity.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.Orders[id]
}

// Company lectura directa de una empresa.
func (s *Store) Company(id string) entity.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.Companies[id]
}

// Package lectura directa de un paquete (incluidos los eliminados).
func (s *Store) Package(id string) entity.VipPackage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.Packages[id]
}

// EventCount número de eventos de pago registrados.
func (s *Store) EventCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Events)
}

// Account lectura directa de una cuenta.
func (s *Store) Account(id string) entity.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.Accounts[id]
}
