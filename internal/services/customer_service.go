package services

import (
	"strings"
	"time"

	"github.com/tacology/feedback/internal/models"
)

// CustomerListParams filters the customer listing. Time/location filters
// match customers through their survey responses.
type CustomerListParams struct {
	Search string
	Filter Filter
	Limit  int
	Offset int
}

type CustomerStore interface {
	ListCustomers(p CustomerListParams) ([]*models.Customer, int, error)
	GetCustomer(id string) (*models.Customer, error)
	UpdateCustomer(c *models.Customer) error
	DeleteCustomer(id string) error
	CountNewCustomers(f Filter) (int, map[string]int, error)
	ListCustomerVisits(customerID string) ([]*CustomerVisit, error)
}

// CustomerVisit is one survey response by a customer, trimmed to what the
// admin profile timeline shows.
type CustomerVisit struct {
	ID        string          `json:"id"`
	Location  models.Location `json:"location"`
	CreatedAt time.Time       `json:"created_at"`
}

type CustomerPage struct {
	Customers []*models.Customer `json:"customers"`
	Total     int                `json:"total"`
}

// NewCustomerCounts reports distinct customers who responded inside a
// window, per location. TotalNew always equals the sum of ByLocation.
type NewCustomerCounts struct {
	TotalNew   int            `json:"totalNew"`
	ByLocation map[string]int `json:"byLocation"`
}

type CustomerService struct {
	store CustomerStore
}

func NewCustomerService(store CustomerStore) *CustomerService {
	return &CustomerService{store: store}
}

func (s *CustomerService) List(p CustomerListParams) (*CustomerPage, error) {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	customers, total, err := s.store.ListCustomers(p)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []*models.Customer{}
	}
	return &CustomerPage{Customers: customers, Total: total}, nil
}

func (s *CustomerService) Get(id string) (*models.Customer, error) {
	c, err := s.store.GetCustomer(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, NewNotFoundError("customer not found")
	}
	return c, nil
}

func (s *CustomerService) Update(id string, name, email, phone string) (*models.Customer, error) {
	c, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if email != "" {
		email = strings.TrimSpace(email)
		if !strings.Contains(email, "@") {
			return nil, NewValidationError("email", "must be a valid email")
		}
		c.Email = email
	}
	c.Name = strings.TrimSpace(name)
	c.Phone = strings.TrimSpace(phone)
	if err := s.store.UpdateCustomer(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CustomerService) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.store.DeleteCustomer(id)
}

// Visits lists a customer's survey responses, newest first.
func (s *CustomerService) Visits(id string) ([]*CustomerVisit, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	visits, err := s.store.ListCustomerVisits(id)
	if err != nil {
		return nil, err
	}
	if visits == nil {
		visits = []*CustomerVisit{}
	}
	return visits, nil
}

func (s *CustomerService) NewCounts(f Filter) (*NewCustomerCounts, error) {
	total, byLocation, err := s.store.CountNewCustomers(f)
	if err != nil {
		return nil, err
	}
	if byLocation == nil {
		byLocation = map[string]int{}
	}
	return &NewCustomerCounts{TotalNew: total, ByLocation: byLocation}, nil
}
