package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	internal "github.com/ramishka-devx/inquiry-system-api/internal"
	"github.com/ramishka-devx/inquiry-system-api/internal/user"
)

// Claims is the signed token payload: just the user identity. Permissions
// are deliberately absent; they are re-resolved from the store per request
// so revocations take effect without re-issuing tokens.
type Claims struct {
	UserID int64  `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type TokenGeneratorAPI interface {
	GenerateToken(userID int64, email string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// IdentityAPI is the slice of the identity service auth depends on.
type IdentityAPI interface {
	Create(dto user.CreateUserDTO) (*user.User, error)
	FindByEmail(email string) (*user.User, error)
	FindOneWithPermissions(id int64) (*user.User, error)
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User        interface{} `json:"user"`
	AccessToken string      `json:"accessToken"`
}

// LoginUserView is the trimmed user shape returned on login.
type LoginUserView struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type JWTTokenGenerator struct {
	Secret   []byte
	TokenTTL time.Duration
}

func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		Secret:   []byte(secret),
		TokenTTL: ttl,
	}
}

func (j *JWTTokenGenerator) GenerateToken(userID int64, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, internal.ErrInvalidToken
}
