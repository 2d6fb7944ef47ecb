package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"flanes/internal/model"
	"flanes/internal/repository"
)

// MockFlanRepository is a mock implementation of FlanRepository.
type MockFlanRepository struct {
	mock.Mock
}

func (m *MockFlanRepository) Create(ctx context.Context, flan *model.Flan) error {
	args := m.Called(ctx, flan)
	return args.Error(0)
}

func (m *MockFlanRepository) Update(ctx context.Context, flan *model.Flan) error {
	args := m.Called(ctx, flan)
	return args.Error(0)
}

func (m *MockFlanRepository) Delete(ctx context.Context, id uint) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFlanRepository) FindByID(ctx context.Context, id uint) (*model.Flan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Flan), args.Error(1)
}

func (m *MockFlanRepository) FindBySlug(ctx context.Context, slug string) (*model.Flan, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Flan), args.Error(1)
}

func (m *MockFlanRepository) ListByVisibility(ctx context.Context, private bool) ([]model.Flan, error) {
	args := m.Called(ctx, private)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Flan), args.Error(1)
}

func (m *MockFlanRepository) PageByVisibility(ctx context.Context, private bool, offset, limit int) ([]model.Flan, int64, error) {
	args := m.Called(ctx, private, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.Flan), args.Get(1).(int64), args.Error(2)
}

func (m *MockFlanRepository) List(ctx context.Context, filter repository.FlanFilter) ([]model.Flan, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Flan), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockContactRepository is a mock implementation of ContactRepository.
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, msg *model.ContactMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockContactRepository) List(ctx context.Context) ([]model.ContactMessage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ContactMessage), args.Error(1)
}

// MockReviewRepository is a mock implementation of ReviewRepository.
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *model.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) ListByFlan(ctx context.Context, flanID uint) ([]model.Review, error) {
	args := m.Called(ctx, flanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByUser(ctx context.Context, userID uint) ([]model.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Review), args.Error(1)
}

func (m *MockReviewRepository) List(ctx context.Context, rating int) ([]model.Review, error) {
	args := m.Called(ctx, rating)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Review), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// memoryCartRepository keeps cart lines in memory with the same
// (user, flan) uniqueness the database enforces.
type memoryCartRepository struct {
	mu     sync.Mutex
	nextID uint
	items  []model.CartItem
	flans  map[uint]model.Flan
}

func newMemoryCartRepository(flans ...model.Flan) *memoryCartRepository {
	r := &memoryCartRepository{flans: make(map[uint]model.Flan)}
	for _, f := range flans {
		r.flans[f.ID] = f
	}
	return r
}

func (r *memoryCartRepository) AddOne(_ context.Context, userID, flanID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.flans[flanID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	for i := range r.items {
		if r.items[i].UserID == userID && r.items[i].FlanID == flanID {
			r.items[i].Quantity++
			return nil
		}
	}
	r.nextID++
	r.items = append(r.items, model.CartItem{ID: r.nextID, UserID: userID, FlanID: flanID, Quantity: 1})
	return nil
}

func (r *memoryCartRepository) DeleteOwned(_ context.Context, userID, itemID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == itemID && r.items[i].UserID == userID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *memoryCartRepository) ListByUser(_ context.Context, userID uint) ([]model.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := []model.CartItem{}
	for _, item := range r.items {
		if item.UserID == userID {
			item.Flan = r.flans[item.FlanID]
			items = append(items, item)
		}
	}
	return items, nil
}
