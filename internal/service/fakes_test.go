package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/flowr-io/workflow-service/internal/domain"
	"github.com/flowr-io/workflow-service/internal/events"
)

// memoryUserRepo is an in-memory UserRepository for service tests.
type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*domain.User)}
}

func (r *memoryUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memoryUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepo) GetActiveByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email && user.IsActive {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryUserRepo) ListByOrganization(_ context.Context, organizationID string) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, user := range r.users {
		if user.OrganizationID == organizationID {
			clone := *user
			out = append(out, &clone)
		}
	}
	return out, nil
}

// memoryOrgRepo is an in-memory OrganizationRepository for service tests.
type memoryOrgRepo struct {
	mu   sync.Mutex
	orgs map[string]*domain.Organization
}

func newMemoryOrgRepo() *memoryOrgRepo {
	return &memoryOrgRepo{orgs: make(map[string]*domain.Organization)}
}

func (r *memoryOrgRepo) Create(_ context.Context, org *domain.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if org.ID == "" {
		org.ID = uuid.NewString()
	}
	org.CreatedAt = time.Now()
	org.UpdatedAt = org.CreatedAt
	clone := *org
	r.orgs[org.ID] = &clone
	return nil
}

func (r *memoryOrgRepo) GetByID(_ context.Context, id string) (*domain.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	org, ok := r.orgs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *org
	return &clone, nil
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) lastOfType(eventType events.EventType) (events.Event, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := len(d.events) - 1; i >= 0; i-- {
		if d.events[i].Type == eventType {
			return d.events[i], true
		}
	}
	return events.Event{}, false
}

func (d *recordingDispatcher) lastToken(eventType events.EventType) (string, bool) {
	event, ok := d.lastOfType(eventType)
	if !ok {
		return "", false
	}
	payload, ok := event.Payload.(events.TokenIssuedPayload)
	if !ok {
		return "", false
	}
	return payload.Token, true
}
