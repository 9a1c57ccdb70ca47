package service

import (
	"context"
	"errors"
	"fmt"
	"go-ledger/logger"
	"go-ledger/model"
	"go-ledger/repository"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthConfig struct {
	SecretKey  string
	TTL        time.Duration
	BcryptCost int
}

// AuthService verifies credentials and issues the bearer tokens that carry
// the acting user id into the transfer engine. Every token is backed by a
// session record, so logging out invalidates tokens that have not expired yet.
type AuthService struct {
	users    repository.UserDirectory
	sessions repository.SessionStore
	cfg      AuthConfig
}

func NewAuthService(users repository.UserDirectory, sessions repository.SessionStore, cfg AuthConfig) *AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	return &AuthService{users: users, sessions: sessions, cfg: cfg}
}

// NormalizeUsername trims and lower-cases a username the way it is stored.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Login checks username and password, opens a session and returns its token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	username = NormalizeUsername(username)
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !s.CheckPasswordHash(password, user.PasswordHash) {
		logger.Log.WithField("username", username).Warn("Invalid password on login")
		return "", nil, ErrInvalidCredentials
	}

	session := &model.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(s.cfg.TTL),
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		logger.Log.WithError(err).WithField("user_id", user.ID).Error("Failed to create session")
		return "", nil, err
	}

	token, err := s.GenerateJWT(user, session)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout revokes every session of userID.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	if err := s.sessions.DeleteSessionsByUserID(ctx, userID); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// GenerateJWT signs a token for user whose jti is the session id.
func (s *AuthService) GenerateJWT(user *model.User, session *model.Session) (string, error) {
	claims := &model.AppClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", user.ID).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}
	return tokenString, nil
}

// ParseToken validates an HS256 token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.SecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// VerifyToken parses tokenString and checks that its session is still open.
func (s *AuthService) VerifyToken(ctx context.Context, tokenString string) (*model.AppClaims, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, ErrSessionRevoked
	}

	session, err := s.sessions.GetSession(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionRevoked
		}
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if session.UserID != claims.UserID {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}
