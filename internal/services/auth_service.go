package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mentorhub/internal/caching"
	"mentorhub/internal/models"
	"mentorhub/internal/repositories"
	"mentorhub/internal/roles"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles credential checks and JWT token management. Refresh
// tokens are stored hashed in Redis and rotated on every use.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.TokenResponse, error)
	GenerateTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
	RevokeToken(ctx context.Context, refreshToken string) error
}

type authService struct {
	userRepo   repositories.UserRepository
	cacheSvc   caching.CacheService
	jwtSecret  []byte
	tokenTTL   int // seconds
	refreshTTL int // seconds
}

// TokenClaims are the JWT claims carried by access tokens. Role is canonical
// at issue time; the middleware still re-resolves defensively on read.
type TokenClaims struct {
	UserID string `json:"user_id"`
	OrgID  string `json:"org_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

const refreshKeyPrefix = "mentorhub:refresh:"

func NewAuthService(userRepo repositories.UserRepository, cacheSvc caching.CacheService, jwtSecret string, tokenTTLSeconds, refreshTTLSeconds int) AuthService {
	return &authService{
		userRepo:   userRepo,
		cacheSvc:   cacheSvc,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTLSeconds,
		refreshTTL: refreshTTLSeconds,
	}
}

// Login verifies the password and issues a token pair. The error is the same
// for a missing user and a wrong password.
func (s *authService) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	return s.GenerateTokens(ctx, user)
}

// GenerateTokens issues a signed access token and a refresh token for a user.
func (s *authService) GenerateTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error) {
	now := time.Now()
	tokenID := uuid.NewString()
	role := string(roles.Resolve(user.Role))

	claims := TokenClaims{
		UserID: user.ID.String(),
		OrgID:  user.OrganizationID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "mentorhub-auth",
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{"mentorhub-api"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.tokenTTL) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessTokenString, err := accessToken.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	refreshToken, err := generateSecureToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	refreshHash := hashToken(refreshToken)

	expiry := now.Unix() + int64(s.refreshTTL)
	tokenData := fmt.Sprintf("%s|%s|%s|%d", user.ID.String(), user.OrganizationID, role, expiry)
	if err := s.cacheSvc.SetString(ctx, refreshKeyPrefix+refreshHash, tokenData,
		time.Duration(s.refreshTTL)*time.Second); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.TokenResponse{
		AccessToken:  accessTokenString,
		TokenType:    "Bearer",
		ExpiresIn:    s.tokenTTL,
		RefreshToken: refreshToken,
		UserID:       user.ID.String(),
		OrgID:        user.OrganizationID,
		Role:         role,
		IssuedAt:     now,
	}, nil
}

// RefreshToken rotates a refresh token: the presented token is consumed and a
// fresh pair is issued. A reused token fails because the old hash is gone.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	refreshHash := hashToken(refreshToken)
	cacheKey := refreshKeyPrefix + refreshHash

	tokenData, err := s.cacheSvc.GetString(ctx, cacheKey)
	if err != nil || tokenData == "" {
		return nil, fmt.Errorf("invalid refresh token")
	}

	parts := strings.Split(tokenData, "|")
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid refresh token data")
	}
	userIDStr, expiryStr := parts[0], parts[3]

	expiry, err := strconv.ParseInt(expiryStr, 10, 64)
	if err != nil || time.Now().Unix() > expiry {
		_ = s.cacheSvc.Delete(ctx, cacheKey)
		return nil, fmt.Errorf("refresh token expired")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in refresh token")
	}

	// Single use: consume before reissuing.
	if err := s.cacheSvc.Delete(ctx, cacheKey); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	// Re-read the user so revoked accounts and role changes take effect on
	// rotation rather than living until refresh expiry.
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user no longer exists")
	}

	return s.GenerateTokens(ctx, user)
}

// ValidateToken parses and verifies an access token.
func (s *authService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	jwtToken, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if claims, ok := jwtToken.Claims.(*TokenClaims); ok && jwtToken.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token claims")
}

// RevokeToken invalidates one refresh token (logout).
func (s *authService) RevokeToken(ctx context.Context, refreshToken string) error {
	return s.cacheSvc.Delete(ctx, refreshKeyPrefix+hashToken(refreshToken))
}

func generateSecureToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
