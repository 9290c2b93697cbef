package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fmtlab/fmtlab/internal/auth"
	"github.com/fmtlab/fmtlab/internal/metrics"
	"github.com/fmtlab/fmtlab/internal/models"
	"github.com/fmtlab/fmtlab/internal/store"
	"github.com/fmtlab/fmtlab/internal/token"
)

// Authentication failure taxonomy. Handlers map each member to a
// client-facing message; the raw cause never leaves the service boundary.
var (
	ErrInvalidInput         = errors.New("username and password are required")
	ErrUnknownUser          = errors.New("username not recognized")
	ErrAccountInactive      = errors.New("user account is not active")
	ErrWrongPassword        = errors.New("password is incorrect")
	ErrNoLocalPassword      = errors.New("no local password set for user")
	ErrStoreUnavailable     = errors.New("credential store unavailable")
	ErrDirectoryUnavailable = errors.New("directory service unavailable")
	ErrSystem               = errors.New("internal authentication error")
)

// UserFinder is the read-only slice of the store the authentication flow
// needs: one lookup per attempt, zero writes.
type UserFinder interface {
	FindUserByUsername(username string) (*models.User, error)
}

// DirectoryValidator validates a credential pair against the external
// directory service.
type DirectoryValidator interface {
	Validate(ctx context.Context, username, password string) (bool, error)
	Name() string
}

// AuthResult is returned on successful authentication.
type AuthResult struct {
	Token    string
	AuthType int
}

// AuthService orchestrates the authentication flow: input validation, user
// lookup, verifier dispatch by account type, and token issuance.
type AuthService struct {
	store     UserFinder
	local     *auth.LocalVerifier
	directory DirectoryValidator
	issuer    *token.Issuer
	metrics   metrics.Recorder
}

// NewAuthService creates the authentication orchestrator. directory may be
// nil when no directory service is configured; directory-typed accounts then
// fail with ErrDirectoryUnavailable.
func NewAuthService(
	s UserFinder,
	local *auth.LocalVerifier,
	directory DirectoryValidator,
	issuer *token.Issuer,
	m metrics.Recorder,
) *AuthService {
	return &AuthService{
		store:     s,
		local:     local,
		directory: directory,
		issuer:    issuer,
		metrics:   m,
	}
}

// Authenticate validates the supplied credentials and mints a token on
// success. The plaintext password is handed only to the verifier selected by
// the account's auth type and is never logged or persisted.
func (s *AuthService) Authenticate(
	ctx context.Context,
	username, password string,
) (*AuthResult, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	start := time.Now()

	user, err := s.store.FindUserByUsername(username)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, ErrUnknownUser
		}
		log.Printf("[Auth] Store lookup failed for user=%s: %v", username, err)
		s.metrics.RecordDatabaseQueryError("find_user_by_username")
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	// The set of verification strategies is closed: directory accounts go to
	// the directory validator, everything else is treated as local.
	var authSource string
	switch user.AuthType {
	case models.AuthTypeDirectory:
		authSource = "directory"
		if s.directory == nil {
			log.Printf("[Auth] Directory account user=%s but no directory service configured", user.Username)
			return nil, ErrDirectoryUnavailable
		}

		dirStart := time.Now()
		ok, err := s.directory.Validate(ctx, user.Username, password)
		s.metrics.RecordDirectoryRequest(time.Since(dirStart))
		if err != nil {
			log.Printf("[Auth] Directory validation error for user=%s: %v", user.Username, err)
			s.metrics.RecordLogin(authSource, false, time.Since(start))
			return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
		}
		if !ok {
			s.metrics.RecordLogin(authSource, false, time.Since(start))
			return nil, ErrWrongPassword
		}

	default:
		authSource = s.local.Name()
		if len(user.PasswordDigest) == 0 {
			return nil, ErrNoLocalPassword
		}
		if !s.local.Verify(password, user.PasswordDigest) {
			s.metrics.RecordLogin(authSource, false, time.Since(start))
			return nil, ErrWrongPassword
		}
	}

	issueStart := time.Now()
	tokenString, err := s.issuer.Issue(user)
	if err != nil {
		log.Printf("[Auth] Token issuance failed for user=%s: %v", user.Username, err)
		return nil, fmt.Errorf("%w: %v", ErrSystem, err)
	}
	s.metrics.RecordTokenIssued(time.Since(issueStart))
	s.metrics.RecordLogin(authSource, true, time.Since(start))

	return &AuthResult{
		Token:    tokenString,
		AuthType: user.AuthType,
	}, nil
}
