package api

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"recruit-api/internal/common"
	"recruit-api/internal/domain"
)


func TestAuthenticatorResolvesCaller(t *testing.T) {
	auth := NewAuthenticator(testSecret)
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, CallerClaims{UserID: 7, UserType: "Recruiter", RecruiterID: 3, ApplicantID: 99}))

	caller, err := auth.Caller(req)
	if err != nil {
		t.Fatalf("Caller: %v", err)
	}
	want := domain.Caller{UserID: 7, Type: domain.UserRecruiter, RecruiterID: 3}
	if caller != want {
		t.Fatalf("caller = %+v, want %+v", caller, want)
	}
}

func TestAuthenticatorRejects(t *testing.T) {
	auth := NewAuthenticator(testSecret)
	expired := CallerClaims{UserID: 1, UserType: "applicant", ApplicantID: 1}
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	otherKey, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, CallerClaims{UserID: 1, UserType: "applicant"}).SignedString([]byte("other"))
	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, CallerClaims{UserID: 1, UserType: "applicant"}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	cases := map[string]string{
		"empty":        "",
		"basic scheme": "Basic abc",
		"wrong key":    "Bearer " + otherKey,
		"alg none":     "Bearer " + unsigned,
		"expired":      "Bearer " + signToken(t, expired),
		"no user":      "Bearer " + signToken(t, CallerClaims{UserType: "applicant"}),
		"unknown type": "Bearer " + signToken(t, CallerClaims{UserID: 1, UserType: "admin"}),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			if _, err := auth.Caller(req); !common.Is(err, common.CodeUnauthorized) {
				t.Fatalf("expected unauthorized, got %v", err)
			}
		})
	}
}
