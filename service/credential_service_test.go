package service

import (
	"errors"
	"go-admin-auth/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// mockUserRepo is a mock implementation of IUserRepository.
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) GetByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) GetUsernameByID(userID int) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *mockUserRepo) GetAccountStatus(userID int) (model.AccountStatus, error) {
	args := m.Called(userID)
	return args.Get(0).(model.AccountStatus), args.Error(1)
}

func activeUser(t *testing.T, username, password string) *model.User {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() returned an unexpected error: %v", err)
	}
	return &model.User{
		ID:           7,
		UUID:         "8e2f4c1a-0000-4000-8000-1234567890ab",
		Username:     username,
		PasswordHash: hash,
		Status:       model.StatusActive,
	}
}

func TestCredentialService_Validate_Success(t *testing.T) {
	mockRepo := new(mockUserRepo)
	user := activeUser(t, "admin", "correct horse battery")
	mockRepo.On("GetByUsername", "admin").Return(user, nil).Once()

	svc := NewCredentialService(mockRepo)
	result, err := svc.Validate("admin", "correct horse battery")

	assert.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 7, result.UserID)
	assert.Equal(t, user.UUID, result.UserUUID)
	assert.Equal(t, "admin", result.Username)
	mockRepo.AssertExpectations(t)
}

func TestCredentialService_Validate_Failures(t *testing.T) {
	t.Run("unknown user", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("GetByUsername", "ghost").Return(nil, nil).Once()

		result, err := NewCredentialService(mockRepo).Validate("ghost", "whatever")

		assert.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, ReasonUserNotFound, result.Reason)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("GetByUsername", "admin").Return(activeUser(t, "admin", "right"), nil).Once()

		result, err := NewCredentialService(mockRepo).Validate("admin", "wrong")

		assert.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, ReasonInvalidPassword, result.Reason)
	})

	t.Run("disabled account short-circuits before password check", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		user := activeUser(t, "admin", "right")
		user.Status = model.StatusDisabled
		mockRepo.On("GetByUsername", "admin").Return(user, nil).Once()

		// Even the correct password must not get past a disabled account.
		result, err := NewCredentialService(mockRepo).Validate("admin", "right")

		assert.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, ReasonAccountDisabled, result.Reason)
	})

	t.Run("requires_action account", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		user := activeUser(t, "admin", "right")
		user.Status = model.StatusRequiresAction
		mockRepo.On("GetByUsername", "admin").Return(user, nil).Once()

		result, err := NewCredentialService(mockRepo).Validate("admin", "right")

		assert.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, ReasonAccountRequiresAction, result.Reason)
	})

	t.Run("storage failure propagates", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("GetByUsername", "admin").Return(nil, errors.New("connection refused")).Once()

		result, err := NewCredentialService(mockRepo).Validate("admin", "right")

		assert.Nil(t, result)
		assert.Error(t, err)
		assert.Equal(t, KindStorage, KindOf(err))
	})
}
