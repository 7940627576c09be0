package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"loyalty_club_backend/internal/models"
	"loyalty_club_backend/internal/repositories"
	"loyalty_club_backend/pkg/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// --- Custom Service Errors for Client ---
var (
	ErrClientNotFound   = errors.New("client not found")
	ErrClientValidation = errors.New("client data validation error")
	ErrClientNotSaved   = errors.New("client changes could not be saved")
)

var (
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	phonePattern = regexp.MustCompile(`^[+]?[\d\s\-()]+$`)
)

// --- Client DTOs ---

// ClientFormRequest is the add/edit form payload. Counters may arrive as
// numbers or strings; see formCount.
type ClientFormRequest struct {
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone"`
	Points      models.Number `json:"points"`
	TotalVisits models.Number `json:"totalVisits"`
	DateCreated string        `json:"dateCreated"` // YYYY-MM-DD or ISO timestamp
}

// Validate applies the form rules. Errors never reach the store.
func (r ClientFormRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.By(requiredTrimmed("Name required")),
			validation.By(func(value interface{}) error {
				if utf8.RuneCountInString(strings.TrimSpace(value.(string))) < 2 {
					return errors.New("Name too short")
				}
				return nil
			}),
		),
		validation.Field(&r.Email,
			validation.By(requiredTrimmed("Email required")),
			validation.Match(emailPattern).Error("Invalid email"),
		),
		validation.Field(&r.Phone,
			validation.By(requiredTrimmed("Phone required")),
			validation.Match(phonePattern).Error("Invalid phone"),
		),
		validation.Field(&r.DateCreated, validation.By(validDate)),
	)
}

// validDate accepts an empty value (meaning today, or unchanged on edit) or
// anything utils.DateOnly can reduce to a date.
func validDate(value interface{}) error {
	s, _ := value.(string)
	if utils.IsEmpty(s) {
		return nil
	}
	return validation.Validate(utils.DateOnly(s),
		validation.Required.Error("Invalid date"),
		validation.Date(utils.DateLayout).Error("Invalid date"),
	)
}

func requiredTrimmed(message string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if utils.IsEmpty(s) {
			return errors.New(message)
		}
		return nil
	}
}

// formCount reads a counter the way the form does: numbers as is, strings by
// their leading integer, anything else as 0, and never below 0.
func formCount(n models.Number) int {
	v, ok := n.Int()
	if !ok {
		v, ok = utils.ParseLeadingInt(n.Text)
		if !ok {
			v = 0
		}
	}
	if v < 0 {
		return 0
	}
	return v
}

func (r ClientFormRequest) toInput() models.ClientInput {
	name := strings.TrimSpace(r.Name)
	email := strings.TrimSpace(r.Email)
	phone := strings.TrimSpace(r.Phone)
	input := models.ClientInput{
		Name:        &name,
		Email:       &email,
		Phone:       &phone,
		Points:      models.NewNumber(formCount(r.Points)),
		TotalVisits: models.NewNumber(formCount(r.TotalVisits)),
	}
	input.DateCreated = utils.NewNullString(utils.DateOnly(r.DateCreated))
	return input
}

// ClientsView is the derived client list plus the collection statistics.
type ClientsView struct {
	Title   string             `json:"title"`
	Filter  FilterMode         `json:"filter"`
	Query   string             `json:"query,omitempty"`
	Count   int                `json:"count"`
	Clients []models.ClientRow `json:"clients"`
	Stats   models.ClientStats `json:"stats"`
}

// --- ClientService Interface ---
type ClientService interface {
	GetClientsView(query string, mode FilterMode) ClientsView
	GetStats() models.ClientStats
	GetClientByID(clientID int64) (*models.Client, error)
	CreateClient(ctx context.Context, req ClientFormRequest) (*models.Client, error)
	UpdateClient(ctx context.Context, clientID int64, req ClientFormRequest) (*models.Client, error)
	DeleteClient(ctx context.Context, clientID int64) error
	AddPoints(ctx context.Context, clientID int64, points int) (*models.Client, error)
	Close()
}

// --- clientService Implementation ---
type clientService struct {
	clientRepo  repositories.ClientRepository
	unsubscribe func()

	mu    sync.Mutex
	stats *models.ClientStats // nil until computed, reset on every store change
}

// NewClientService creates a new instance of ClientService.
func NewClientService(repo repositories.ClientRepository) ClientService {
	s := &clientService{clientRepo: repo}
	s.unsubscribe = repo.Subscribe(func(repositories.ClientEvent) {
		s.invalidate()
	})
	return s
}

func (s *clientService) invalidate() {
	s.mu.Lock()
	s.stats = nil
	s.mu.Unlock()
}

// Close stops listening to store changes.
func (s *clientService) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *clientService) GetStats() models.ClientStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stats == nil {
		stats := ComputeStats(s.clientRepo.ListClients())
		s.stats = &stats
	}
	return *s.stats
}

func (s *clientService) GetClientsView(query string, mode FilterMode) ClientsView {
	clients := FilterClients(s.clientRepo.ListClients(), query, mode)
	return ClientsView{
		Title:   mode.Label(),
		Filter:  mode,
		Query:   query,
		Count:   len(clients),
		Clients: ToRows(clients),
		Stats:   s.GetStats(),
	}
}

func (s *clientService) GetClientByID(clientID int64) (*models.Client, error) {
	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		return nil, mapRepoError(err, clientID)
	}
	return client, nil
}

func (s *clientService) CreateClient(ctx context.Context, req ClientFormRequest) (*models.Client, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClientValidation, err)
	}

	client, err := s.clientRepo.CreateClient(ctx, req.toInput())
	if err != nil {
		return client, mapRepoError(err, 0)
	}
	return client, nil
}

func (s *clientService) UpdateClient(ctx context.Context, clientID int64, req ClientFormRequest) (*models.Client, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClientValidation, err)
	}

	client, err := s.clientRepo.UpdateClient(ctx, clientID, req.toInput())
	if err != nil {
		return client, mapRepoError(err, clientID)
	}
	return client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, clientID int64) error {
	if err := s.clientRepo.DeleteClient(ctx, clientID); err != nil {
		return mapRepoError(err, clientID)
	}
	return nil
}

func (s *clientService) AddPoints(ctx context.Context, clientID int64, points int) (*models.Client, error) {
	client, err := s.clientRepo.AddPoints(ctx, clientID, points)
	if err != nil {
		return client, mapRepoError(err, clientID)
	}
	return client, nil
}

func mapRepoError(err error, clientID int64) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return ErrClientNotFound
	case errors.Is(err, repositories.ErrNotPersistable):
		return fmt.Errorf("%w: %v", ErrClientNotSaved, err)
	default:
		return fmt.Errorf("client %d: %w", clientID, err)
	}
}
