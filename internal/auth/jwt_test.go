package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// newTestTokenService creates a TokenService with a fixed, known secret so
// tests are deterministic.
func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService("test-secret-at-least-16-chars!!", 0, 0)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

var testIdentity = Identity{Role: "manager", Email: "mia@agency.test", FullName: "Mia Manager"}

// =========================================================================
// TOKEN SERVICE CONSTRUCTION TESTS
// =========================================================================

func TestNewTokenService_ShortSecret(t *testing.T) {
	_, err := NewTokenService("short", 0, 0)
	if err == nil {
		t.Fatal("NewTokenService() should reject secrets shorter than 16 chars")
	}
}

func TestNewTokenService_DefaultLifetimes(t *testing.T) {
	ts := newTestTokenService(t)
	if ts.accessTTL != DefaultAccessTTL {
		t.Errorf("accessTTL = %v, want %v", ts.accessTTL, DefaultAccessTTL)
	}
	if ts.refreshTTL != DefaultRefreshTTL {
		t.Errorf("refreshTTL = %v, want %v", ts.refreshTTL, DefaultRefreshTTL)
	}
}

// =========================================================================
// ISSUE / VALIDATE TESTS
// =========================================================================

func TestIssuePair_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	pair, err := ts.IssuePair(testIdentity)
	if err != nil {
		t.Fatalf("IssuePair() error = %v", err)
	}
	if strings.Count(pair.Access, ".") != 2 || strings.Count(pair.Refresh, ".") != 2 {
		t.Fatalf("IssuePair() tokens don't look like JWTs: %q / %q", pair.Access, pair.Refresh)
	}
	if pair.Access == pair.Refresh {
		t.Error("access and refresh tokens are identical")
	}

	c, err := ts.Validate(pair.Access, AccessToken)
	if err != nil {
		t.Fatalf("Validate(access) error = %v", err)
	}
	if c.Identity() != testIdentity {
		t.Errorf("Identity() = %+v, want %+v", c.Identity(), testIdentity)
	}
	if c.Subject != testIdentity.Email {
		t.Errorf("Subject = %q, want %q", c.Subject, testIdentity.Email)
	}
	if c.ID == "" {
		t.Error("token has no jti")
	}
}

func TestIssuePair_UniqueTokenIDs(t *testing.T) {
	ts := newTestTokenService(t)

	a, _ := ts.IssuePair(testIdentity)
	b, _ := ts.IssuePair(testIdentity)

	if a.Access == b.Access {
		t.Error("two pairs for the same identity produced the same access token")
	}
}

func TestValidate_RejectsWrongType(t *testing.T) {
	ts := newTestTokenService(t)
	pair, _ := ts.IssuePair(testIdentity)

	if _, err := ts.Validate(pair.Refresh, AccessToken); !errors.Is(err, ErrWrongTokenType) {
		t.Errorf("Validate(refresh as access) error = %v, want ErrWrongTokenType", err)
	}
	if _, err := ts.Validate(pair.Access, RefreshToken); !errors.Is(err, ErrWrongTokenType) {
		t.Errorf("Validate(access as refresh) error = %v, want ErrWrongTokenType", err)
	}
}

func TestValidate_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.GenerateWithDuration(testIdentity, AccessToken, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateWithDuration() error = %v", err)
	}

	_, err = ts.Validate(token, AccessToken)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("Validate() error = %v, want ErrTokenExpired", err)
	}
}

func TestValidate_TamperedToken(t *testing.T) {
	ts := newTestTokenService(t)
	pair, _ := ts.IssuePair(testIdentity)

	tampered := pair.Access[:len(pair.Access)-3] + "xxx"

	if _, err := ts.Validate(tampered, AccessToken); err == nil {
		t.Fatal("Validate() should return an error for a tampered token")
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	ts1, _ := NewTokenService("correct-secret-32-chars-long!!!!", 0, 0)
	ts2, _ := NewTokenService("wrong-secret-32-chars-long!!!!!!", 0, 0)

	pair, _ := ts1.IssuePair(testIdentity)

	if _, err := ts2.Validate(pair.Access, AccessToken); err == nil {
		t.Fatal("Validate() should fail when using a different secret")
	}
}

func TestValidate_Garbage(t *testing.T) {
	ts := newTestTokenService(t)

	for _, input := range []string{"", "not.a.jwt.token", "abc"} {
		if _, err := ts.Validate(input, AccessToken); err == nil {
			t.Errorf("Validate(%q) should return an error", input)
		}
	}
}

// =========================================================================
// REFRESH TESTS
// =========================================================================

func TestRefresh_IssuesAccessForSameIdentity(t *testing.T) {
	ts := newTestTokenService(t)
	pair, _ := ts.IssuePair(testIdentity)

	access, err := ts.Refresh(pair.Refresh)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	c, err := ts.Validate(access, AccessToken)
	if err != nil {
		t.Fatalf("Validate(refreshed access) error = %v", err)
	}
	if c.Identity() != testIdentity {
		t.Errorf("Identity() = %+v, want %+v", c.Identity(), testIdentity)
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	ts := newTestTokenService(t)
	pair, _ := ts.IssuePair(testIdentity)

	if _, err := ts.Refresh(pair.Access); err == nil {
		t.Fatal("Refresh() should reject an access token")
	}
}

func TestRefresh_RejectsExpiredRefresh(t *testing.T) {
	ts := newTestTokenService(t)
	expired, _ := ts.GenerateWithDuration(testIdentity, RefreshToken, -time.Minute)

	if _, err := ts.Refresh(expired); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("Refresh() error = %v, want ErrTokenExpired", err)
	}
}
