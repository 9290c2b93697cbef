package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmtlab/fmtlab/internal/auth"
	"github.com/fmtlab/fmtlab/internal/config"
	"github.com/fmtlab/fmtlab/internal/metrics"
	"github.com/fmtlab/fmtlab/internal/models"
	"github.com/fmtlab/fmtlab/internal/store"
	"github.com/fmtlab/fmtlab/internal/token"
)

// countingFinder counts store lookups so tests can assert the orchestrator
// never touched the store.
type countingFinder struct {
	users   map[string]*models.User
	err     error
	lookups int
}

func (f *countingFinder) FindUserByUsername(username string) (*models.User, error) {
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, store.ErrRecordNotFound
}

// stubDirectory records calls and returns a fixed verdict.
type stubDirectory struct {
	calls  int
	result bool
	err    error
}

func (d *stubDirectory) Validate(ctx context.Context, username, password string) (bool, error) {
	d.calls++
	return d.result, d.err
}

func (d *stubDirectory) Name() string { return "directory" }

func authTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "0123456789abcdef0123456789abcdef",
		JWTIssuer:     "fmtlab",
		JWTAudience:   "fmtlab-client",
		JWTExpiration: time.Hour,
	}
}

func newAuthService(finder UserFinder, directory DirectoryValidator) *AuthService {
	return NewAuthService(
		finder,
		auth.NewLocalVerifier(),
		directory,
		token.NewIssuer(authTestConfig()),
		metrics.NewNoopMetrics(),
	)
}

func localUser(username, password string) *models.User {
	return &models.User{
		ID:             7,
		Username:       username,
		PasswordDigest: auth.DigestPassword(password),
		IsActive:       true,
		AuthType:       models.AuthTypeLocal,
	}
}

func TestAuthenticate_InvalidInputSkipsStore(t *testing.T) {
	finder := &countingFinder{}
	svc := newAuthService(finder, nil)

	cases := []struct{ username, password string }{
		{"", ""},
		{"alice", ""},
		{"", "password"},
	}
	for _, c := range cases {
		_, err := svc.Authenticate(context.Background(), c.username, c.password)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Zero(t, finder.lookups, "store must not be consulted for invalid input")
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	finder := &countingFinder{users: map[string]*models.User{}}
	svc := newAuthService(finder, nil)

	_, err := svc.Authenticate(context.Background(), "ghost", "x")
	assert.ErrorIs(t, err, ErrUnknownUser)
	assert.Equal(t, 1, finder.lookups)
}

func TestAuthenticate_StoreUnavailable(t *testing.T) {
	finder := &countingFinder{err: store.ErrUnavailable}
	svc := newAuthService(finder, nil)

	_, err := svc.Authenticate(context.Background(), "alice", "correct")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestAuthenticate_InactiveAccount(t *testing.T) {
	u := localUser("alice", "correct")
	u.IsActive = false
	finder := &countingFinder{users: map[string]*models.User{"alice": u}}
	svc := newAuthService(finder, nil)

	// Correct password must not matter for inactive accounts
	_, err := svc.Authenticate(context.Background(), "alice", "correct")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestAuthenticate_LocalSuccess(t *testing.T) {
	finder := &countingFinder{users: map[string]*models.User{
		"alice": localUser("alice", "correct"),
	}}
	svc := newAuthService(finder, nil)

	result, err := svc.Authenticate(context.Background(), "alice", "correct")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, models.AuthTypeLocal, result.AuthType)
}

func TestAuthenticate_LocalWrongPassword(t *testing.T) {
	finder := &countingFinder{users: map[string]*models.User{
		"alice": localUser("alice", "correct"),
	}}
	svc := newAuthService(finder, nil)

	_, err := svc.Authenticate(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthenticate_LocalWithoutDigestFailsClosed(t *testing.T) {
	u := localUser("alice", "correct")
	u.PasswordDigest = nil
	finder := &countingFinder{users: map[string]*models.User{"alice": u}}
	svc := newAuthService(finder, nil)

	_, err := svc.Authenticate(context.Background(), "alice", "correct")
	assert.ErrorIs(t, err, ErrNoLocalPassword)
}

func TestAuthenticate_UnrecognizedAuthTypeTreatedAsLocal(t *testing.T) {
	u := localUser("alice", "correct")
	u.AuthType = 9
	finder := &countingFinder{users: map[string]*models.User{"alice": u}}
	svc := newAuthService(finder, nil)

	result, err := svc.Authenticate(context.Background(), "alice", "correct")
	require.NoError(t, err)
	assert.Equal(t, 9, result.AuthType)
}

func TestAuthenticate_DirectoryOnlyUsesDirectory(t *testing.T) {
	// Give the directory account a digest that WOULD match locally; if the
	// orchestrator compared digests the directory verdict would be ignored.
	u := localUser("bob", "correct")
	u.AuthType = models.AuthTypeDirectory
	finder := &countingFinder{users: map[string]*models.User{"bob": u}}
	directory := &stubDirectory{result: false}
	svc := newAuthService(finder, directory)

	_, err := svc.Authenticate(context.Background(), "bob", "correct")
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.Equal(t, 1, directory.calls, "directory validator must be the only verifier consulted")
}

func TestAuthenticate_DirectorySuccess(t *testing.T) {
	u := &models.User{
		ID:       12,
		Username: "bob",
		IsActive: true,
		AuthType: models.AuthTypeDirectory,
	}
	finder := &countingFinder{users: map[string]*models.User{"bob": u}}
	directory := &stubDirectory{result: true}
	svc := newAuthService(finder, directory)

	result, err := svc.Authenticate(context.Background(), "bob", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, models.AuthTypeDirectory, result.AuthType)
}

func TestAuthenticate_DirectoryErrorIsNotWrongPassword(t *testing.T) {
	u := &models.User{
		ID:       12,
		Username: "bob",
		IsActive: true,
		AuthType: models.AuthTypeDirectory,
	}
	finder := &countingFinder{users: map[string]*models.User{"bob": u}}
	directory := &stubDirectory{err: errors.New("dial tcp: connection refused")}
	svc := newAuthService(finder, directory)

	_, err := svc.Authenticate(context.Background(), "bob", "s3cret")
	assert.ErrorIs(t, err, ErrDirectoryUnavailable)
	assert.NotErrorIs(t, err, ErrWrongPassword)
}

func TestAuthenticate_DirectoryNotConfigured(t *testing.T) {
	u := &models.User{
		ID:       12,
		Username: "bob",
		IsActive: true,
		AuthType: models.AuthTypeDirectory,
	}
	finder := &countingFinder{users: map[string]*models.User{"bob": u}}
	svc := newAuthService(finder, nil)

	_, err := svc.Authenticate(context.Background(), "bob", "s3cret")
	assert.ErrorIs(t, err, ErrDirectoryUnavailable)
}
