package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/framevault-backend/internal/data/repos"
	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/platform/ctxutil"
	"github.com/yungbote/framevault-backend/internal/platform/docstore"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

// SessionClaims is the token minted by the identity provider. The service
// only verifies it.
type SessionClaims struct {
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type SessionService interface {
	// SetContextFromToken verifies tokenString and attaches the caller's identity.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type sessionService struct {
	log         *logger.Logger
	profileRepo repos.ProfileRepo
	secret      []byte
	issuer      string
}

var ErrInvalidSession = errors.New("invalid or expired session token")

func NewSessionService(log *logger.Logger, profileRepo repos.ProfileRepo, secret, issuer string) (SessionService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("session secret required")
	}
	return &sessionService{
		log:         log.With("service", "SessionService"),
		profileRepo: profileRepo,
		secret:      []byte(secret),
		issuer:      strings.TrimSpace(issuer),
	}, nil
}

func (ss *sessionService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return ctx, ErrInvalidSession
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if ss.issuer != "" {
		opts = append(opts, jwt.WithIssuer(ss.issuer))
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return ss.secret, nil
	}, opts...)
	if err != nil {
		return ctx, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return ctx, ErrInvalidSession
	}

	id := &ctxutil.Identity{
		UID:         claims.Subject,
		Role:        ss.effectiveRole(ctx, claims),
		Email:       claims.Email,
		DisplayName: claims.Name,
		SessionID:   claims.ID,
	}
	return ctxutil.WithIdentity(ctx, id), nil
}

// effectiveRole prefers the token's role claim and falls back to the role
// stored on the profile, so roles granted with set_admin apply to tokens
// that carry no claim.
func (ss *sessionService) effectiveRole(ctx context.Context, claims *SessionClaims) string {
	if r := strings.TrimSpace(claims.Role); r != "" {
		return string(types.ParseRole(r))
	}
	if ss.profileRepo == nil {
		return string(types.RoleUser)
	}
	p, err := ss.profileRepo.Get(ctx, claims.Subject)
	if err != nil {
		if !docstore.IsNotFound(err) {
			ss.log.Warn("profile role lookup failed", "uid", claims.Subject, "error", err)
		}
		return string(types.RoleUser)
	}
	return string(p.Role)
}
