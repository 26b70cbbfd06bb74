package authsvc

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"booklending/internal/domain"
	"booklending/internal/infra/logging"
	"booklending/internal/repo/document"
)

// AuthConfig contains configuration parameters for the authentication service.
type AuthConfig struct {
	// SigningKeyFile is the path to the RSA private key file
	SigningKeyFile string `env:"SIGNING_KEY_FILE" default:"var/storage/lendingd.key"`

	// TokenDuration is the validity duration of session tokens in seconds
	TokenDuration int64 `env:"TOKEN_DURATION" default:"86400"` // 24h

	// BcryptCost is the bcrypt work factor for password hashing
	BcryptCost int `env:"BCRYPT_COST" default:"10"`
}

// AuthService provides user registration, login and session verification.
// Users live in the same shared document as the catalog and ledger, so all
// mutations go through the store's transactor.
type AuthService struct {
	Config     AuthConfig
	Store      *document.Transactor
	Log        logging.Logger
	SigningKey *rsa.PrivateKey
}

// sessionClaims is the JWT payload of a session token.
type sessionClaims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

// NewAuthService creates a new AuthService backed by the given transactor.
// Returns an error if the signing key cannot be loaded.
func NewAuthService(store *document.Transactor, cfg AuthConfig) (*AuthService, error) {
	log := logging.GetLogger("svc.authsvc.auth_service")

	signingKey, err := GetPrivateKey(cfg.SigningKeyFile)
	if err != nil {
		return nil, fmt.Errorf("get private key: %w", err)
	}

	return &AuthService{
		Config:     cfg,
		Store:      store,
		Log:        log,
		SigningKey: signingKey,
	}, nil
}

// RegisterUser creates a new user account with the given username, password
// and display name. The password is bcrypt-hashed before storage.
// Returns domain.ErrUserAlreadyExists if the username is already taken.
func (s *AuthService) RegisterUser(
	ctx context.Context,
	username, password, name string,
) (_ *domain.User, err error) {
	log := s.Log.With(logging.Group("user", "username", username))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "register user failed", "error", err)
		} else {
			log.DebugContext(ctx, "user registered")
		}
	}()

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), s.Config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(passwordHash),
		Name:         name,
	}

	if err := s.Store.Update(ctx, func(doc *domain.Document) error {
		if _, exists := doc.FindUserByUsername(username); exists {
			return domain.ErrUserAlreadyExists
		}

		doc.Users = append(doc.Users, user)

		return nil
	}); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &user, nil
}

// Login authenticates a user and issues a signed session token.
// An unknown username and a wrong password are indistinguishable to the
// caller; both return domain.ErrInvalidCredentials.
func (s *AuthService) Login(
	ctx context.Context,
	username, password string,
) (_ string, _ *domain.User, err error) {
	log := s.Log.With(logging.Group("user", "username", username))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "login failed", "error", err)
		} else {
			log.DebugContext(ctx, "login successful")
		}
	}()

	var user domain.User

	if err := s.Store.View(ctx, func(doc *domain.Document) error {
		found, exists := doc.FindUserByUsername(username)
		if !exists {
			return domain.ErrInvalidCredentials
		}

		user = *found

		return nil
	}); err != nil {
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, errors.Join(domain.ErrInvalidCredentials, err)
	}

	tokenString, err := s.issueSession(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue session: %w", err)
	}

	return tokenString, &user, nil
}

func (s *AuthService) issueSession(user domain.User) (string, error) {
	now := time.Now()
	expiry := now.Add(time.Duration(s.Config.TokenDuration * int64(time.Second)))

	//nolint:exhaustruct
	claims := sessionClaims{
		UserID:   user.ID,
		Username: user.Username,
		Name:     user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.SigningKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// VerifySession verifies a session token's signature and expiration.
// Returns the session it carries, or domain.ErrInvalidSessionToken.
func (s *AuthService) VerifySession(ctx context.Context, tokenString string) (_ domain.Session, err error) {
	log := s.Log

	defer func() {
		if err != nil {
			log.WarnContext(ctx, "verify session failed", "error", err)
		} else {
			log.DebugContext(ctx, "session verified")
		}
	}()

	claims := new(sessionClaims)

	if _, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return &s.SigningKey.PublicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()})); err != nil {
		return domain.Session{}, errors.Join(domain.ErrInvalidSessionToken, err)
	}

	return domain.Session{
		UserID:   claims.UserID,
		Username: claims.Username,
		Name:     claims.Name,
	}, nil
}
