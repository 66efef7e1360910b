package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/student-records/student-api/internal/rbac"
)

// Default lifetimes for issued tokens.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour

	minSecretLength = 32
)

// KeyClass selects which signing key, and which token use, a verification expects.
type KeyClass int

const (
	// AccessKey verifies short-lived tokens presented on API calls.
	AccessKey KeyClass = iota
	// RefreshKey verifies long-lived tokens presented to the refresh endpoint.
	RefreshKey
)

func (k KeyClass) String() string {
	if k == RefreshKey {
		return "refresh"
	}
	return "access"
}

// TokenConfig carries key material and lifetimes for the TokenService.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Now           func() time.Time
}

// Identity is the subject a token is minted for.
type Identity struct {
	SubjectID string
	Email     string
	Role      rbac.Role
}

// TokenPair is returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// Claims is the JWT payload.
type Claims struct {
	UserID      string            `json:"userId"`
	Email       string            `json:"email"`
	Role        rbac.Role         `json:"role"`
	Permissions []rbac.Capability `json:"permissions"`
	Use         string            `json:"use"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies access and refresh tokens. It holds only
// immutable key material and is safe for concurrent use.
type TokenService struct {
	accessKey  []byte
	refreshKey []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService validates cfg and constructs a TokenService.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("auth: access and refresh secrets are required")
	}
	if len(cfg.AccessSecret) < minSecretLength || len(cfg.RefreshSecret) < minSecretLength {
		return nil, fmt.Errorf("auth: secrets must be at least %d bytes", minSecretLength)
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("auth: access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &TokenService{
		accessKey:  []byte(cfg.AccessSecret),
		refreshKey: []byte(cfg.RefreshSecret),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        cfg.Now,
	}, nil
}

// AccessTTL reports the lifetime of access tokens.
func (s *TokenService) AccessTTL() time.Duration { return s.accessTTL }

// IssueAccessToken mints an access token for id.
func (s *TokenService) IssueAccessToken(id Identity) (string, error) {
	return s.issue(id, AccessKey)
}

// IssueRefreshToken mints a refresh token for id.
func (s *TokenService) IssueRefreshToken(id Identity) (string, error) {
	return s.issue(id, RefreshKey)
}

// IssuePair mints an access token and a refresh token for id.
func (s *TokenService) IssuePair(id Identity) (TokenPair, error) {
	access, err := s.IssueAccessToken(id)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.IssueRefreshToken(id)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL / time.Second),
	}, nil
}

func (s *TokenService) issue(id Identity, class KeyClass) (string, error) {
	if !id.Role.Valid() {
		return "", fmt.Errorf("auth: issue token: %w", rbac.ErrUnknownRole)
	}
	ttl := s.accessTTL
	if class == RefreshKey {
		ttl = s.refreshTTL
	}
	now := s.now()
	claims := Claims{
		UserID:      id.SubjectID,
		Email:       id.Email,
		Role:        id.Role,
		Permissions: rbac.CapabilitiesForRole(id.Role),
		Use:         class.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.SubjectID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key(class))
	if err != nil {
		return "", fmt.Errorf("auth: sign %s token: %w", class, err)
	}
	return signed, nil
}

// Verify decodes raw and checks it against the key of class. Structure is
// checked first, then expiry, then the signature and issuer, then the token
// use. A foreign issuer is reported as ErrTokenInvalidSignature.
func (s *TokenService) Verify(raw string, class KeyClass) (*rbac.Credential, error) {
	if strings.Count(raw, ".") != 2 {
		return nil, ErrTokenMalformed
	}
	var unverified Claims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &unverified); err != nil {
		return nil, ErrTokenMalformed
	}
	if unverified.ExpiresAt == nil || !unverified.Role.Valid() {
		return nil, ErrTokenMalformed
	}
	if !s.now().Before(unverified.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.key(class), nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, ErrTokenInvalidSignature
		}
	}
	if claims.Use != class.String() {
		return nil, ErrTokenInvalidSignature
	}

	cred := &rbac.Credential{
		SubjectID:    claims.UserID,
		Email:        claims.Email,
		Role:         claims.Role,
		Capabilities: claims.Permissions,
		TokenID:      claims.ID,
		ExpiresAt:    claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		cred.IssuedAt = claims.IssuedAt.Time
	}
	return cred, nil
}

// Refresh exchanges a valid refresh token for a new pair. The capability
// snapshot is rebuilt from the role, so grants follow the current table.
func (s *TokenService) Refresh(refreshToken string) (TokenPair, error) {
	cred, err := s.Verify(refreshToken, RefreshKey)
	if err != nil {
		return TokenPair{}, err
	}
	return s.IssuePair(Identity{SubjectID: cred.SubjectID, Email: cred.Email, Role: cred.Role})
}

func (s *TokenService) key(class KeyClass) []byte {
	if class == RefreshKey {
		return s.refreshKey
	}
	return s.accessKey
}
