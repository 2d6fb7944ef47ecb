package router

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"flanes/internal/auth"
	"flanes/internal/model"
	"flanes/internal/repository"
	"flanes/internal/service"
	"flanes/internal/validation"
)

// MockCatalogService is a mock implementation of CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListPublic(ctx context.Context) ([]model.Flan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Flan), args.Error(1)
}

func (m *MockCatalogService) ListCatalog(ctx context.Context, page int) (*service.CatalogPage, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CatalogPage), args.Error(1)
}

func (m *MockCatalogService) ListPrivate(ctx context.Context) ([]model.Flan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Flan), args.Error(1)
}

func (m *MockCatalogService) GetProductDetail(ctx context.Context, id uint, authenticated bool) (*service.ProductDetail, error) {
	args := m.Called(ctx, id, authenticated)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProductDetail), args.Error(1)
}

// MockContactService is a mock implementation of ContactService.
type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) Submit(ctx context.Context, form *validation.ContactForm) (validation.Errors, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(validation.Errors), args.Error(1)
}

// MockReviewService is a mock implementation of ReviewService.
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Submit(ctx context.Context, userID, flanID uint, form *validation.ReviewForm) (validation.Errors, error) {
	args := m.Called(ctx, userID, flanID, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(validation.Errors), args.Error(1)
}

func (m *MockReviewService) ListByUser(ctx context.Context, userID uint) ([]model.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Review), args.Error(1)
}

// MockAuthService is a mock implementation of AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, form *validation.RegisterForm) (*model.User, validation.Errors, error) {
	args := m.Called(ctx, form)
	var user *model.User
	if args.Get(0) != nil {
		user = args.Get(0).(*model.User)
	}
	var errs validation.Errors
	if args.Get(1) != nil {
		errs = args.Get(1).(validation.Errors)
	}
	return user, errs, args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, form *validation.LoginForm) (*service.Session, validation.Errors, error) {
	args := m.Called(ctx, form)
	var session *service.Session
	if args.Get(0) != nil {
		session = args.Get(0).(*service.Session)
	}
	var errs validation.Errors
	if args.Get(1) != nil {
		errs = args.Get(1).(validation.Errors)
	}
	return session, errs, args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	args := m.Called(ctx, claims)
	return args.Error(0)
}

func (m *MockAuthService) EnsureAdmin(ctx context.Context, username, email, password string) (*model.User, bool, error) {
	args := m.Called(ctx, username, email, password)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.User), args.Bool(1), args.Error(2)
}

// MockAdminService is a mock implementation of AdminService.
type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) CreateFlan(ctx context.Context, in service.FlanInput) (*model.Flan, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Flan), args.Error(1)
}

func (m *MockAdminService) UpdateFlan(ctx context.Context, id uint, in service.FlanInput) (*model.Flan, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Flan), args.Error(1)
}

func (m *MockAdminService) DeleteFlan(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAdminService) ListFlans(ctx context.Context, filter repository.FlanFilter) ([]model.Flan, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Flan), args.Error(1)
}

func (m *MockAdminService) ListContactMessages(ctx context.Context) ([]model.ContactMessage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ContactMessage), args.Error(1)
}

func (m *MockAdminService) ListReviews(ctx context.Context, rating int) ([]model.Review, error) {
	args := m.Called(ctx, rating)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Review), args.Error(1)
}

// memoryCartRepository keeps cart lines in memory, merging repeated adds
// of the same (user, flan) pair.
type memoryCartRepository struct {
	mu     sync.Mutex
	nextID uint
	items  []model.CartItem
	flans  map[uint]model.Flan
}

func (r *memoryCartRepository) AddOne(_ context.Context, userID, flanID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

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

// memoryFlanRepository answers lookups by id from a fixed set of flans.
type memoryFlanRepository struct {
	repository.FlanRepository
	flans map[uint]model.Flan
}

func (r *memoryFlanRepository) FindByID(_ context.Context, id uint) (*model.Flan, error) {
	flan, ok := r.flans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &flan, nil
}
