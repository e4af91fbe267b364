package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"filestore-backend/internal/models"
	"filestore-backend/internal/repository"
)

var ErrSessionInvalid = errors.New("missing, expired or invalid session")

// SessionStore is what SessionService needs from the sessions table.
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Claims is the identity a resolved token proves. Sessions bind to the
// immutable numeric user id, not the email.
type Claims struct {
	SessionID uuid.UUID
	UserID    int64
	Username  string
	Role      models.UserRole
}

// SessionService issues tokens that are signed JWTs wrapping a server-side
// session row. The signature makes tokens unforgeable; the row makes them
// revocable at logout and expirable by TTL.
type SessionService struct {
	sessions  SessionStore
	jwtSecret string
	ttl       time.Duration
}

func NewSessionService(sessions SessionStore, jwtSecret string, ttl time.Duration) *SessionService {
	return &SessionService{sessions: sessions, jwtSecret: jwtSecret, ttl: ttl}
}

// Start creates a session for the user and returns the signed token.
func (s *SessionService) Start(ctx context.Context, user *models.User) (string, error) {
	session := &models.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.ttl),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid":      session.ID.String(),
		"userID":   user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      session.ExpiresAt.Unix(),
	})

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Resolve exchanges a token for the identity it proves. A bad signature,
// unknown session id or expired session row all yield ErrSessionInvalid.
func (s *SessionService) Resolve(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	session, err := s.sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.Expired(time.Now()) || session.UserID != claims.UserID {
		return nil, ErrSessionInvalid
	}

	return claims, nil
}

// End invalidates the session behind the token immediately. Idempotent:
// unknown or garbage tokens are a no-op.
func (s *SessionService) End(ctx context.Context, tokenString string) error {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, claims.SessionID)
}

func (s *SessionService) parseToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrSessionInvalid
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrSessionInvalid
	}

	sidStr, ok := mapClaims["sid"].(string)
	if !ok {
		return nil, ErrSessionInvalid
	}
	sid, err := uuid.Parse(sidStr)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	// JSON numbers decode as float64
	userID, ok := mapClaims["userID"].(float64)
	if !ok {
		return nil, ErrSessionInvalid
	}
	username, ok := mapClaims["username"].(string)
	if !ok {
		return nil, ErrSessionInvalid
	}
	role, ok := mapClaims["role"].(string)
	if !ok {
		return nil, ErrSessionInvalid
	}

	return &Claims{
		SessionID: sid,
		UserID:    int64(userID),
		Username:  username,
		Role:      models.UserRole(role),
	}, nil
}
