package authsvc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booklending/internal/domain"
	"booklending/internal/infra/logging"
	"booklending/internal/repo/document"
	"booklending/internal/svc/authsvc"
)

func setupTestService(t *testing.T) (*authsvc.AuthService, *document.Transactor) {
	t.Helper()

	signingKey, err := authsvc.GeneratePrivateKey(2048)
	require.NoError(t, err)

	transactor := document.NewTransactor(document.NewMemoryStore())

	svc := &authsvc.AuthService{
		Config: authsvc.AuthConfig{
			TokenDuration: 86400,
			BcryptCost:    4, // fast hashing for tests
		},
		Store:      transactor,
		Log:        logging.GetLogger("test.authsvc"),
		SigningKey: signingKey,
	}

	return svc, transactor
}

func TestAuthService_RegisterUser(t *testing.T) {
	svc, transactor := setupTestService(t)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, "alice", "password123", "Alice")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "Alice", user.Name)
	assert.NotEqual(t, "password123", user.PasswordHash)

	require.NoError(t, transactor.View(ctx, func(doc *domain.Document) error {
		assert.Len(t, doc.Users, 1)

		return nil
	}))
}

func TestAuthService_RegisterUser_DuplicateUsername(t *testing.T) {
	svc, transactor := setupTestService(t)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, "alice", "password123", "Alice")
	require.NoError(t, err)

	_, err = svc.RegisterUser(ctx, "alice", "different", "Another Alice")
	require.ErrorIs(t, err, domain.ErrUserAlreadyExists)

	// the failed registration must not have touched the document
	require.NoError(t, transactor.View(ctx, func(doc *domain.Document) error {
		assert.Len(t, doc.Users, 1)

		return nil
	}))
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	registered, err := svc.RegisterUser(ctx, "alice", "password123", "Alice")
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{
			name:     "successful login",
			username: "alice",
			password: "password123",
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "nope",
			wantErr:  domain.ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			username: "bob",
			password: "password123",
			wantErr:  domain.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, user, err := svc.Login(ctx, tt.username, tt.password)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.Equal(t, registered.ID, user.ID)
		})
	}
}

func TestAuthService_VerifySession(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	registered, err := svc.RegisterUser(ctx, "alice", "password123", "Alice")
	require.NoError(t, err)

	token, _, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)

	session, err := svc.VerifySession(ctx, token)
	require.NoError(t, err)

	assert.Equal(t, registered.ID, session.UserID)
	assert.Equal(t, "alice", session.Username)
	assert.Equal(t, "Alice", session.Name)
}

func TestAuthService_VerifySession_Invalid(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	_, err := svc.VerifySession(ctx, "not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidSessionToken)
}

func TestAuthService_VerifySession_Expired(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, "alice", "password123", "Alice")
	require.NoError(t, err)

	svc.Config.TokenDuration = -60 // already expired at issuance

	token, _, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)

	_, err = svc.VerifySession(ctx, token)
	assert.ErrorIs(t, err, domain.ErrInvalidSessionToken)
}

func TestAuthService_VerifySession_ForeignKey(t *testing.T) {
	svc, _ := setupTestService(t)
	other, _ := setupTestService(t)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, "alice", "password123", "Alice")
	require.NoError(t, err)

	token, _, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)

	// a token signed by one key must not verify against another
	_, err = other.VerifySession(ctx, token)
	assert.ErrorIs(t, err, domain.ErrInvalidSessionToken)
}
