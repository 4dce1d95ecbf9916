package service

import (
	"NoteKeeper/internal/model"
	"NoteKeeper/internal/repo"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// мок для repo.UserRepository
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id int64, updates map[string]any) (*model.User, error) {
	args := m.Called(ctx, id, updates)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	m := new(mockUserRepo)
	svc := NewUserService(m)

	t.Run("ok when email free", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByEmail", mock.Anything, "john@example.com").Return((*model.User)(nil), gorm.ErrRecordNotFound).Once()
		created := &model.User{ID: 10, Name: "John", Email: "john@example.com"}
		m.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			// в репозиторий уходит bcrypt-хеш, а не исходный пароль
			return u.Email == "john@example.com" && u.Password != "" && u.Password != "p@ssw0rd"
		})).Return(created, nil).Once()

		user, err := svc.Register(ctx, "John", "john@example.com", "p@ssw0rd")
		assert.NoError(t, err)
		assert.Equal(t, int64(10), user.ID)
		m.AssertExpectations(t)
	})

	t.Run("conflict when email taken", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByEmail", mock.Anything, "john@example.com").Return(&model.User{ID: 1, Email: "john@example.com"}, nil).Once()

		user, err := svc.Register(ctx, "Johnny", "john@example.com", "p@ssw0rd")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrEmailTaken)
		m.AssertExpectations(t)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	m := new(mockUserRepo)
	svc := NewUserService(m)

	// готовим хеш для пароля "secret"
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)

	t.Run("ok with valid credentials", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(&model.User{ID: 2, Email: "alice@example.com", Password: string(hash)}, nil).Once()

		user, err := svc.Login(ctx, "alice@example.com", "secret")
		assert.NoError(t, err)
		assert.Equal(t, int64(2), user.ID)
		m.AssertExpectations(t)
	})

	t.Run("invalid password", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(&model.User{ID: 2, Email: "alice@example.com", Password: string(hash)}, nil).Once()

		user, err := svc.Login(ctx, "alice@example.com", "wrong")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		m.AssertExpectations(t)
	})

	t.Run("unknown email gives the same error", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return((*model.User)(nil), gorm.ErrRecordNotFound).Once()

		user, err := svc.Login(ctx, "ghost@example.com", "secret")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		m.AssertExpectations(t)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	m := new(mockUserRepo)
	svc := NewUserService(m)

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		m.ExpectedCalls = nil
		name := "Alice B"
		m.On("UpdateProfile", mock.Anything, int64(2), map[string]any{"name": "Alice B"}).
			Return(&model.User{ID: 2, Name: "Alice B", Email: "alice@example.com"}, nil).Once()

		user, err := svc.UpdateProfile(ctx, 2, &name, nil)
		assert.NoError(t, err)
		assert.Equal(t, "Alice B", user.Name)
		m.AssertExpectations(t)
	})

	t.Run("email taken by another user", func(t *testing.T) {
		m.ExpectedCalls = nil
		email := "bob@example.com"
		m.On("GetUserByEmail", mock.Anything, "bob@example.com").Return(&model.User{ID: 3, Email: "bob@example.com"}, nil).Once()

		user, err := svc.UpdateProfile(ctx, 2, nil, &email)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrEmailTaken)
		m.AssertExpectations(t)
	})

	t.Run("no fields is a validation error", func(t *testing.T) {
		m.ExpectedCalls = nil
		user, err := svc.UpdateProfile(ctx, 2, nil, nil)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	m := new(mockUserRepo)
	svc := NewUserService(m)

	hash, _ := bcrypt.GenerateFromPassword([]byte("oldpass"), bcrypt.DefaultCost)

	t.Run("ok with correct old password", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByID", mock.Anything, int64(5)).Return(&model.User{ID: 5, Password: string(hash)}, nil).Once()
		m.On("UpdatePassword", mock.Anything, int64(5), mock.MatchedBy(func(h string) bool {
			return bcrypt.CompareHashAndPassword([]byte(h), []byte("newpass")) == nil
		})).Return(nil).Once()

		assert.NoError(t, svc.ChangePassword(ctx, 5, "oldpass", "newpass"))
		m.AssertExpectations(t)
	})

	t.Run("wrong old password", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByID", mock.Anything, int64(5)).Return(&model.User{ID: 5, Password: string(hash)}, nil).Once()

		err := svc.ChangePassword(ctx, 5, "nope", "newpass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		m.AssertExpectations(t)
	})
}
