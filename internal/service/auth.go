package service

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/argon2"

	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/config"
	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService authenticates the admin principal that may correct labels
// and trigger manual retraining.
type AuthService interface {
	Login(username, password string) (string, time.Time, error)
	JWTSecret() []byte
}

type authService struct {
	cfg    *config.Config
	secret []byte
	logger *zap.Logger
}

// NewAuthService creates the auth service from the configured admin
// credentials.
func NewAuthService(cfg *config.Config, logger *zap.Logger) AuthService {
	secret := []byte(cfg.Auth.JWTSecret)
	if len(secret) == 0 {
		logger.Warn("auth.jwt_secret not configured, using an insecure default")
		secret = []byte("supersecretjwtkey")
	}
	return &authService{cfg: cfg, secret: secret, logger: logger}
}

func (s *authService) JWTSecret() []byte {
	return s.secret
}

// Login verifies the admin credentials and returns a signed JWT with its
// expiration time.
func (s *authService) Login(username, password string) (string, time.Time, error) {
	if username != s.cfg.Auth.AdminUsername || s.cfg.Auth.AdminPasswordHash == "" {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if !verifyPassword(s.cfg.Auth.AdminPasswordHash, password) {
		return "", time.Time{}, ErrInvalidCredentials
	}

	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &models.Claims{
		Username: username,
		Role:     "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		s.logger.Error("Failed to generate JWT token", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("Admin logged in", zap.String("username", username))
	return tokenString, expirationTime, nil
}

// HashPassword encodes a password with Argon2id in the standard
// $argon2id$... format. Used by the ops tooling that seeds the config.
func HashPassword(password string, salt []byte) string {
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	encodedSalt := base64.RawStdEncoding.EncodeToString(salt)
	encodedHash := base64.RawStdEncoding.EncodeToString(hash)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, 64*1024, 1, 4, encodedSalt, encodedHash)
}

// verifyPassword compares a plaintext password with an encoded Argon2id
// hash of the form $argon2id$v=19$m=65536,t=1,p=4$salt$hash.
func verifyPassword(encoded, password string) bool {
	var sections []string
	start := 0
	for i := 0; i < len(encoded); i++ {
		if encoded[i] == '$' {
			if i > start {
				sections = append(sections, encoded[start:i])
			}
			start = i + 1
		}
	}
	if start < len(encoded) {
		sections = append(sections, encoded[start:])
	}
	if len(sections) != 5 {
		return false
	}

	var version int
	fmt.Sscanf(sections[1], "v=%d", &version)
	var m, t, p uint32
	fmt.Sscanf(sections[2], "m=%d,t=%d,p=%d", &m, &t, &p)

	salt, err := base64.RawStdEncoding.DecodeString(sections[3])
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(sections[4])
	if err != nil {
		return false
	}

	actual := argon2.IDKey([]byte(password), salt, t, m, uint8(p), uint32(len(expected)))
	return fmt.Sprintf("%x", actual) == fmt.Sprintf("%x", expected)
}
