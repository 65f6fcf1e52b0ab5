package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/framevault-backend/internal/data/repos/testutil"
	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/platform/ctxutil"
)

const testSecret = "test-session-secret"

func signToken(t *testing.T, secret string, claims SessionClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func claimsFor(uid, role string) SessionClaims {
	return SessionClaims{
		Role:  role,
		Email: uid + "@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestSessionFromToken(t *testing.T) {
	r := newTestRepos(t)
	svc, err := NewSessionService(testutil.Logger(t), r.profiles, testSecret, "")
	if err != nil {
		t.Fatalf("NewSessionService: %v", err)
	}
	ctx := context.Background()
	testutil.SeedProfile(t, ctx, r.store, "stored-admin", types.RoleAdmin)

	cases := []struct {
		name     string
		claims   SessionClaims
		wantRole string
	}{
		{"claim wins", claimsFor("u1", "admin"), "admin"},
		{"unknown claim is user", claimsFor("u2", "superuser"), "user"},
		{"profile role without claim", claimsFor("stored-admin", ""), "admin"},
		{"no profile no claim", claimsFor("nobody", ""), "user"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := svc.SetContextFromToken(ctx, signToken(t, testSecret, tc.claims))
			if err != nil {
				t.Fatalf("SetContextFromToken: %v", err)
			}
			id := ctxutil.GetIdentity(out)
			if id == nil || id.UID != tc.claims.Subject {
				t.Fatalf("identity: %+v", id)
			}
			if id.Role != tc.wantRole {
				t.Fatalf("role: want=%q got=%q", tc.wantRole, id.Role)
			}
		})
	}
}

func TestSessionRejectsBadTokens(t *testing.T) {
	r := newTestRepos(t)
	svc, _ := NewSessionService(testutil.Logger(t), r.profiles, testSecret, "framevault")
	ctx := context.Background()

	expired := claimsFor("u1", "user")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	expired.Issuer = "framevault"
	wrongIssuer := claimsFor("u1", "user")
	wrongIssuer.Issuer = "elsewhere"
	noSubject := claimsFor("", "user")
	noSubject.Issuer = "framevault"

	for name, tok := range map[string]string{
		"empty":        "",
		"garbage":      "not.a.jwt",
		"wrong secret": signToken(t, "other", claimsFor("u1", "user")),
		"expired":      signToken(t, testSecret, expired),
		"wrong issuer": signToken(t, testSecret, wrongIssuer),
		"no subject":   signToken(t, testSecret, noSubject),
	} {
		if _, err := svc.SetContextFromToken(ctx, tok); !errors.Is(err, ErrInvalidSession) {
			t.Fatalf("%s: want ErrInvalidSession got %v", name, err)
		}
	}

	if _, err := NewSessionService(testutil.Logger(t), r.profiles, " ", ""); err == nil {
		t.Fatalf("empty secret accepted")
	}
}
