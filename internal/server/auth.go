package server

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "pairpool-api"

// AuthService issues and validates bearer tokens for the single operator
// account.
type AuthService struct {
	username     string
	passwordHash []byte
	jwtSecret    []byte
	tokenTTL     time.Duration
}

// NewAuthService creates an auth service over a bcrypt password hash.
func NewAuthService(username, passwordHash string, jwtSecret []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		username:     username,
		passwordHash: []byte(passwordHash),
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
	}
}

// Claims represents JWT claims.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Login checks the credentials and returns a signed token with its expiry.
func (as *AuthService) Login(username, password string) (string, time.Time, error) {
	if username != as.username {
		return "", time.Time{}, fmt.Errorf("unknown user")
	}
	if err := bcrypt.CompareHashAndPassword(as.passwordHash, []byte(password)); err != nil {
		return "", time.Time{}, fmt.Errorf("invalid credentials")
	}
	return as.GenerateToken(username)
}

// GenerateToken signs a token for the given username.
func (as *AuthService) GenerateToken(username string) (string, time.Time, error) {
	expiresAt := time.Now().Add(as.tokenTTL)

	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(as.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and verifies a token, returning its claims.
func (as *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return as.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// HashPassword produces a bcrypt hash suitable for the auth.password-hash
// config key.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
