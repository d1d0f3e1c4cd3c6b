package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"recruit-api/internal/common"
	"recruit-api/internal/domain"
)

// CallerClaims is the bearer token payload the API trusts. Tokens are issued
// by the account service; this package only verifies them.
type CallerClaims struct {
	jwt.RegisteredClaims
	UserID      int64  `json:"user_id"`
	UserType    string `json:"user_type"`
	RecruiterID int64  `json:"recruiter_id,omitempty"`
	ApplicantID int64  `json:"applicant_id,omitempty"`
}

// Authenticator resolves the caller from an HS256 bearer token.
type Authenticator struct {
	secret []byte
	parser *jwt.Parser
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

func (a *Authenticator) Caller(r *http.Request) (domain.Caller, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return domain.Caller{}, common.NewError(common.CodeUnauthorized, "missing authorization header", nil)
	}
	scheme, raw, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(raw) == "" {
		return domain.Caller{}, common.NewError(common.CodeUnauthorized, "invalid authorization header", nil)
	}

	var claims CallerClaims
	_, err := a.parser.ParseWithClaims(strings.TrimSpace(raw), &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Caller{}, common.NewError(common.CodeUnauthorized, "token expired", err)
		}
		return domain.Caller{}, common.NewError(common.CodeUnauthorized, "invalid token", err)
	}
	if claims.UserID == 0 {
		return domain.Caller{}, common.NewError(common.CodeUnauthorized, "token has no user", nil)
	}

	caller := domain.Caller{UserID: claims.UserID, Type: domain.UserType(strings.ToLower(claims.UserType))}
	switch caller.Type {
	case domain.UserRecruiter:
		caller.RecruiterID = claims.RecruiterID
	case domain.UserApplicant:
		caller.ApplicantID = claims.ApplicantID
	default:
		return domain.Caller{}, common.NewError(common.CodeUnauthorized, "unknown user type", nil)
	}
	return caller, nil
}

type callerKey struct{}

// withCaller rejects requests without a valid caller and stores it in the
// request context.
func (a *API) withCaller(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := a.auth.Caller(r)
		if err != nil {
			writeError(w, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), callerKey{}, caller)))
	}
}

func callerFrom(ctx context.Context) domain.Caller {
	caller, _ := ctx.Value(callerKey{}).(domain.Caller)
	return caller
}
