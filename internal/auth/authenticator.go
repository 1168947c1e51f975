package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/aoideee/library-graphql/internal/response"
)

// Authenticator establishes the principal of a request from its headers.
type Authenticator interface {
	Authenticate(ctx context.Context, header http.Header) (*Principal, *response.ErrorResponse)
}

// StubAuthenticator accepts every request as the same fixed principal.
// It is the default until a signing secret is configured.
type StubAuthenticator struct {
	User Principal
}

// DefaultStubPrincipal is the identity StubAuthenticator hands out when
// none is configured.
var DefaultStubPrincipal = Principal{
	ID:           1,
	FullName:     "Test",
	EmailAddress: "test@test.test",
	IsRoleAdmin:  false,
	RoleID:       1,
}

// NewStubAuthenticator returns a StubAuthenticator for DefaultStubPrincipal.
func NewStubAuthenticator() StubAuthenticator {
	return StubAuthenticator{User: DefaultStubPrincipal}
}

func (s StubAuthenticator) Authenticate(context.Context, http.Header) (*Principal, *response.ErrorResponse) {
	user := s.User
	return &user, nil
}

const accessDenied = "Access denied. You need to be loggedin to access this resource."

// Claims is the JWT payload JWTAuthenticator expects.
type Claims struct {
	UserID       int    `json:"id"`
	FullName     string `json:"fullName"`
	EmailAddress string `json:"emailAddress"`
	IsRoleAdmin  bool   `json:"isRoleAdmin"`
	RoleID       int    `json:"roleId"`
	jwt.RegisteredClaims
}

// JWTAuthenticator validates an HMAC-signed bearer token from the
// Authorization header.
type JWTAuthenticator struct {
	Secret []byte
	Now    func() time.Time // defaults to time.Now
}

func (j JWTAuthenticator) Authenticate(_ context.Context, header http.Header) (*Principal, *response.ErrorResponse) {
	token := header.Get("Authorization")
	if token == "" {
		return nil, response.New(response.CodeAuthTokenMissing, accessDenied)
	}
	if !strings.HasPrefix(token, "Bearer ") {
		return nil, response.New(response.CodeAuthTypeInvalid, accessDenied)
	}
	token = strings.TrimPrefix(token, "Bearer ")

	now := j.Now
	if now == nil {
		now = time.Now
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return j.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
		jwt.WithTimeFunc(now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, response.New(response.CodeTokenExpired, accessDenied)
	case err != nil:
		return nil, response.New(response.CodeDecode, accessDenied)
	}

	return &Principal{
		ID:           claims.UserID,
		FullName:     claims.FullName,
		EmailAddress: claims.EmailAddress,
		IsRoleAdmin:  claims.IsRoleAdmin,
		RoleID:       claims.RoleID,
	}, nil
}
