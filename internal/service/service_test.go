package service

import (
	"context"
	"sync"
	"time"

	"github.com/ABIRENIS/Jero-CRM/internal/domain"
	"github.com/ABIRENIS/Jero-CRM/internal/repository"
)

// broadcastRecord captures one fan-out call for assertions.
type broadcastRecord struct {
	method     string // "room", "conversation", "all"
	engineerID uint
	message    interface{}
}

type fakeBroadcaster struct {
	mu      sync.Mutex
	records []broadcastRecord
}

func (b *fakeBroadcaster) BroadcastToRoom(engineerID uint, message interface{}) error {
	b.record("room", engineerID, message)
	return nil
}

func (b *fakeBroadcaster) BroadcastToConversation(engineerID uint, message interface{}) error {
	b.record("conversation", engineerID, message)
	return nil
}

func (b *fakeBroadcaster) BroadcastAll(message interface{}) error {
	b.record("all", 0, message)
	return nil
}

func (b *fakeBroadcaster) record(method string, engineerID uint, message interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, broadcastRecord{method: method, engineerID: engineerID, message: message})
}

func (b *fakeBroadcaster) all() []broadcastRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]broadcastRecord, len(b.records))
	copy(out, b.records)
	return out
}

// byMethod returns the records of one fan-out method, in call order.
func (b *fakeBroadcaster) byMethod(method string) []broadcastRecord {
	var out []broadcastRecord
	for _, r := range b.all() {
		if r.method == method {
			out = append(out, r)
		}
	}
	return out
}

// fakeEngineerRepo is an in-memory EngineerRepository.
type fakeEngineerRepo struct {
	mu       sync.Mutex
	nextID   uint
	byID     map[uint]*domain.Engineer
	statsErr error
}

func newFakeEngineerRepo() *fakeEngineerRepo {
	return &fakeEngineerRepo{byID: make(map[uint]*domain.Engineer)}
}

func (r *fakeEngineerRepo) Create(_ context.Context, eng *domain.Engineer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seq := 1
	for _, e := range r.byID {
		if e.GroupType == eng.GroupType {
			seq++
		}
	}
	r.nextID++
	eng.ID = r.nextID
	eng.EngineerID = domain.FormatSeriesID(eng.GroupType, seq)
	if eng.Status == "" {
		eng.Status = domain.StatusOffline
	}
	cp := *eng
	r.byID[eng.ID] = &cp
	return nil
}

func (r *fakeEngineerRepo) GetByID(_ context.Context, id uint) (*domain.Engineer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	eng, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrEngineerNotFound
	}
	cp := *eng
	return &cp, nil
}

func (r *fakeEngineerRepo) GetByCredentials(_ context.Context, email, password string) (*domain.Engineer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, eng := range r.byID {
		if eng.Email == email && eng.Password == password {
			cp := *eng
			return &cp, nil
		}
	}
	return nil, repository.ErrEngineerNotFound
}

func (r *fakeEngineerRepo) ListByGroup(_ context.Context, group domain.GroupType) ([]domain.Engineer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Engineer
	for id := uint(1); id <= r.nextID; id++ {
		if eng, ok := r.byID[id]; ok && eng.GroupType == group {
			out = append(out, *eng)
		}
	}
	return out, nil
}

func (r *fakeEngineerRepo) UpdateStatus(_ context.Context, id uint, status domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	eng, ok := r.byID[id]
	if !ok {
		return repository.ErrEngineerNotFound
	}
	eng.Status = status
	return nil
}

func (r *fakeEngineerRepo) GroupStats(_ context.Context) (domain.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.statsErr != nil {
		return nil, r.statsErr
	}
	stats := make(domain.Stats, len(domain.AllGroups()))
	for _, g := range domain.AllGroups() {
		stats[g] = domain.GroupStats{}
	}
	for _, eng := range r.byID {
		gs := stats[eng.GroupType]
		gs.Total++
		if eng.Status == domain.StatusOnline {
			gs.Online++
		}
		stats[eng.GroupType] = gs
	}
	return stats, nil
}

// fakeMessageRepo is an in-memory MessageRepository with injectable
// failures for the persist-then-broadcast tests.
type fakeMessageRepo struct {
	mu        sync.Mutex
	nextID    uint
	byID      map[uint]*domain.ChatMessage
	createErr error
	editErr   error
	deleteErr error
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{byID: make(map[uint]*domain.ChatMessage)}
}

func (r *fakeMessageRepo) Create(_ context.Context, msg *domain.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	msg.ID = r.nextID
	msg.CreatedAt = time.Now()
	cp := *msg
	r.byID[msg.ID] = &cp
	return nil
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id uint) (*domain.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrMessageNotFound
	}
	cp := *msg
	return &cp, nil
}

func (r *fakeMessageRepo) ListByEngineer(_ context.Context, engineerDBID uint) ([]domain.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ChatMessage
	for id := uint(1); id <= r.nextID; id++ {
		if msg, ok := r.byID[id]; ok && msg.EngineerDBID == engineerDBID {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) Edit(_ context.Context, id uint, newText string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.editErr != nil {
		return r.editErr
	}
	msg, ok := r.byID[id]
	if !ok {
		return repository.ErrMessageNotFound
	}
	msg.MessageText = newText
	msg.IsEdited = true
	return nil
}

func (r *fakeMessageRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.byID[id]; !ok {
		return repository.ErrMessageNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeMessageRepo) DeleteOlderThan(_ context.Context, maxAge time.Duration) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-maxAge)
	var deleted int64
	for id, msg := range r.byID {
		if msg.CreatedAt.Before(cutoff) {
			delete(r.byID, id)
			deleted++
		}
	}
	return deleted, nil
}
