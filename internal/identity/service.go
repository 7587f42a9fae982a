package identity

import (
	"context"
	"errors"
	"time"

	"github.com/Hardik-Kaushik/geotrackingFull/internal/db"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 24 * time.Hour

var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrUnknownUser   = errors.New("username not found")
	ErrWrongPassword = errors.New("wrong password")
)

type Service struct {
	secret   []byte
	db       db.Querier
	validate *validator.Validate
}

type Claims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

func NewService(secret string, db db.Querier) *Service {
	return &Service{
		secret:   []byte(secret),
		db:       db,
		validate: validator.New(),
	}
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (Principal, error) {
	if err := s.validate.Struct(req); err != nil {
		return Principal{}, err
	}

	var exists bool
	row := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, req.Username)
	if err := row.Scan(&exists); err != nil {
		return Principal{}, err
	}
	if exists {
		return Principal{}, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Principal{}, err
	}

	user := Principal{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: string(hash),
		Mobile:       req.Mobile,
		Email:        req.Email,
		Role:         RoleViewer,
	}

	row = s.db.QueryRow(ctx, `
		INSERT INTO users (id, username, password_hash, mobile, email, role)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at
	`, user.ID, user.Username, user.PasswordHash, user.Mobile, user.Email, string(user.Role))
	if err := row.Scan(&user.CreatedAt); err != nil {
		return Principal{}, err
	}
	return user, nil
}

// Login verifies credentials and mints a session token. Every login starts a
// fresh session id, so coordinate state never leaks across logins.
func (s *Service) Login(ctx context.Context, req LoginRequest) (Principal, string, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, username, password_hash, mobile, email, role, created_at
		FROM users WHERE username = $1
	`, req.Username)

	var user Principal
	var role string
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Mobile, &user.Email, &role, &user.CreatedAt); err != nil {
		return Principal{}, "", ErrUnknownUser
	}
	user.Role = Role(role)

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return Principal{}, "", ErrWrongPassword
	}

	token, err := s.signSession(user)
	if err != nil {
		return Principal{}, "", err
	}
	return user, token, nil
}

func (s *Service) signSession(user Principal) (string, error) {
	claims := Claims{
		UserID:    user.ID,
		SessionID: uuid.NewString(),
		Username:  user.Username,
		Email:     user.Email,
		Role:      string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) ParseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}
