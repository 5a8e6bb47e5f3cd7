package service

import (
	"go-admin-auth/model"
	"go-admin-auth/repository"
)

// RefreshService rotates refresh tokens: the presented token is consumed
// (single use) and a replacement pair is issued in its stead.
type RefreshService struct {
	tokenRepo    repository.ITokenRepository
	userRepo     repository.IUserRepository
	fingerprints *FingerprintService
	issuer       *TokenService
}

func NewRefreshService(
	tokenRepo repository.ITokenRepository,
	userRepo repository.IUserRepository,
	fingerprints *FingerprintService,
	issuer *TokenService,
) *RefreshService {
	return &RefreshService{
		tokenRepo:    tokenRepo,
		userRepo:     userRepo,
		fingerprints: fingerprints,
		issuer:       issuer,
	}
}

// Refresh validates the presented secret and issues its successor pair.
// Consumption is a single conditional update, so replaying a secret can only
// succeed once even when two calls race on it. The internal failure reason
// (not found / revoked / expired / fingerprint mismatch) is carried in the
// returned events for telemetry; callers surface all of them as one generic
// message.
func (s *RefreshService) Refresh(presentedSecret string, fp model.DeviceFingerprint) (*model.TokenPair, []model.Event, error) {
	tokenHash := HashSecret(presentedSecret)

	token, err := s.tokenRepo.Consume(tokenHash)
	if err != nil {
		return nil, nil, NewStorageError(err)
	}
	if token == nil {
		reason, err := s.classifyDeadToken(tokenHash)
		if err != nil {
			return nil, nil, err
		}
		events := []model.Event{model.NewEvent(model.EventRefreshFailure, map[string]interface{}{
			"reason": reason,
		})}
		return nil, events, NewTokenError(reason)
	}

	// The presented token is already revoked at this point. A fingerprint
	// mismatch therefore burns it: the session ends rather than staying
	// replayable by whoever holds the secret.
	if token.FingerprintHash.Valid && token.FingerprintHash.String != "" {
		if !s.fingerprints.Matches(fp, token.FingerprintHash.String) {
			_, presentedShort := s.fingerprints.Hash(fp)
			events := []model.Event{model.NewEvent(model.EventFingerprintMismatch, map[string]interface{}{
				"user_id":         token.UserID,
				"token_id":        token.ID,
				"presented_short": presentedShort,
				"stored_short":    token.FingerprintHash.String[:shortHashLen],
			})}
			return nil, events, NewTokenError(ReasonFingerprintMismatch)
		}
	}

	// An account that was disabled mid-session must not rotate its way back
	// in; the consumed token stays revoked and the session ends here.
	status, err := s.userRepo.GetAccountStatus(token.UserID)
	if err != nil {
		return nil, nil, NewStorageError(err)
	}
	if status != model.StatusActive {
		reason := ReasonAccountDisabled
		if status == model.StatusRequiresAction {
			reason = ReasonAccountRequiresAction
		}
		events := []model.Event{model.NewEvent(model.EventRefreshFailure, map[string]interface{}{
			"user_id": token.UserID,
			"reason":  reason,
		})}
		return nil, events, NewTokenError(reason)
	}

	username, err := s.userRepo.GetUsernameByID(token.UserID)
	if err != nil {
		return nil, nil, NewStorageError(err)
	}

	pair, events, err := s.issuer.Issue(username, token.UserID, fp)
	if err != nil {
		return nil, events, err
	}

	events = append(events, model.NewEvent(model.EventRefreshSuccess, map[string]interface{}{
		"user_id":          token.UserID,
		"rotated_token_id": token.ID,
	}))
	return pair, events, nil
}

// classifyDeadToken distinguishes why a consume matched nothing. The
// distinction feeds telemetry only; every variant reaches the client as the
// same generic failure.
func (s *RefreshService) classifyDeadToken(tokenHash string) (string, error) {
	row, err := s.tokenRepo.GetByHash(tokenHash)
	if err != nil {
		return "", NewStorageError(err)
	}
	switch {
	case row == nil:
		return ReasonTokenNotFound, nil
	case row.Revoked:
		return ReasonTokenRevoked, nil
	default:
		return ReasonTokenExpired, nil
	}
}
