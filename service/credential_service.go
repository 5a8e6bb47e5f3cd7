package service

import (
	"go-admin-auth/model"
	"go-admin-auth/repository"

	"golang.org/x/crypto/bcrypt"
)

// ValidationResult is the outcome of a credential check. Reason is set on
// failure and is for telemetry only; callers surface a uniform "invalid
// credentials" message regardless of which check failed.
type ValidationResult struct {
	Valid    bool
	UserID   int
	UserUUID string
	Username string
	Reason   string
}

// CredentialService verifies a username/password pair against the identity
// store. It is a pure read: it never mutates user rows.
type CredentialService struct {
	userRepo repository.IUserRepository
}

func NewCredentialService(userRepo repository.IUserRepository) *CredentialService {
	return &CredentialService{userRepo: userRepo}
}

// Validate looks the user up, checks the account status, and only then
// compares the password. Disabled and requires-action accounts short-circuit
// before the bcrypt comparison. Storage failures propagate as errors; a
// failed check is not an error, it is a result.
func (s *CredentialService) Validate(username, password string) (*ValidationResult, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, NewStorageError(err)
	}
	if user == nil {
		return &ValidationResult{Reason: ReasonUserNotFound}, nil
	}

	switch user.Status {
	case model.StatusDisabled:
		return &ValidationResult{Reason: ReasonAccountDisabled}, nil
	case model.StatusRequiresAction:
		return &ValidationResult{Reason: ReasonAccountRequiresAction}, nil
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return &ValidationResult{Reason: ReasonInvalidPassword}, nil
	}

	return &ValidationResult{
		Valid:    true,
		UserID:   user.ID,
		UserUUID: user.UUID,
		Username: user.Username,
	}, nil
}

// HashPassword is used by seeding and tests; the service itself only ever
// compares.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
