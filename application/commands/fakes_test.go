package commands

import (
	"context"
	"encoding/json"
	"sync"

	"mnuda-backend/application/ports"
	"mnuda-backend/domain/core/aggregates"
	"mnuda-backend/domain/core/valueobjects"
	"mnuda-backend/domain/events"
	pkgerrors "mnuda-backend/pkg/errors"
)

// fakeSessionRepo is an in-memory repository for handler tests
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[aggregates.SessionID]*aggregates.Session
	saveErr  error
}

func newFakeSessionRepo(sessions ...*aggregates.Session) *fakeSessionRepo {
	r := &fakeSessionRepo{sessions: make(map[aggregates.SessionID]*aggregates.Session)}
	for _, s := range sessions {
		r.sessions[s.ID()] = s
	}
	return r
}

func (r *fakeSessionRepo) Save(_ context.Context, session *aggregates.Session) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id aggregates.SessionID) (*aggregates.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("session")
	}
	return s, nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id aggregates.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) List(_ context.Context) ([]aggregates.SessionID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]aggregates.SessionID, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids, nil
}

var _ ports.SessionRepository = (*fakeSessionRepo)(nil)

// fakeSkipEngine returns canned responses per operation. Each func field may
// be nil, in which case the call returns the shared response/err pair.
type fakeSkipEngine struct {
	response json.RawMessage
	err      error

	onPersonDetail    func(ctx context.Context, personID string) (json.RawMessage, error)
	onPeopleByAddress func(ctx context.Context, addr valueobjects.Address) (json.RawMessage, error)

	calls []string
}

func (f *fakeSkipEngine) PeopleByAddress(ctx context.Context, addr valueobjects.Address) (json.RawMessage, error) {
	f.calls = append(f.calls, "PeopleByAddress")
	if f.onPeopleByAddress != nil {
		return f.onPeopleByAddress(ctx, addr)
	}
	return f.response, f.err
}

func (f *fakeSkipEngine) PeopleByName(context.Context, string) (json.RawMessage, error) {
	f.calls = append(f.calls, "PeopleByName")
	return f.response, f.err
}

func (f *fakeSkipEngine) PeopleByEmail(context.Context, string) (json.RawMessage, error) {
	f.calls = append(f.calls, "PeopleByEmail")
	return f.response, f.err
}

func (f *fakeSkipEngine) PeopleByPhone(context.Context, string) (json.RawMessage, error) {
	f.calls = append(f.calls, "PeopleByPhone")
	return f.response, f.err
}

func (f *fakeSkipEngine) PersonDetail(ctx context.Context, personID string) (json.RawMessage, error) {
	f.calls = append(f.calls, "PersonDetail")
	if f.onPersonDetail != nil {
		return f.onPersonDetail(ctx, personID)
	}
	return f.response, f.err
}

func (f *fakeSkipEngine) PropertyByAddress(ctx context.Context, addr valueobjects.Address) (json.RawMessage, error) {
	f.calls = append(f.calls, "PropertyByAddress")
	return f.response, f.err
}

var _ ports.SkipEngine = (*fakeSkipEngine)(nil)

// fakeEventBus records published events
type fakeEventBus struct {
	published []events.DomainEvent
	err       error
}

func (f *fakeEventBus) Publish(_ context.Context, event events.DomainEvent) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, event)
	return nil
}

func (f *fakeEventBus) PublishBatch(_ context.Context, evts []events.DomainEvent) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, evts...)
	return nil
}

var _ ports.EventPublisher = (*fakeEventBus)(nil)

// fakeGeocoder returns a fixed address
type fakeGeocoder struct {
	addr valueobjects.Address
	err  error
}

func (f *fakeGeocoder) ReverseGeocode(context.Context, float64, float64) (valueobjects.Address, error) {
	return f.addr, f.err
}

var _ ports.Geocoder = (*fakeGeocoder)(nil)
