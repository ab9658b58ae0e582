package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rubiojr/qboard/pkg/core"
)

// UserHeader names the acting user for the default authenticator.
const UserHeader = "X-Qboard-User"

// ErrUnauthenticated is returned when a request carries no usable identity.
var ErrUnauthenticated = errors.New("unauthenticated")

// Authenticator resolves the acting user of a request. Sessions, passwords
// and tokens live behind implementations of this interface.
type Authenticator interface {
	Authenticate(r *http.Request) (core.User, error)
}

// UserResolver looks users up by name.
type UserResolver interface {
	ResolveUser(ctx context.Context, username string) (core.User, error)
}

// HeaderAuthenticator trusts the username sent in a request header. It is
// meant for deployments behind an authenticating proxy.
type HeaderAuthenticator struct {
	Header string
	Users  UserResolver
}

func NewHeaderAuthenticator(users UserResolver) *HeaderAuthenticator {
	return &HeaderAuthenticator{Header: UserHeader, Users: users}
}

func (a *HeaderAuthenticator) Authenticate(r *http.Request) (core.User, error) {
	name := r.Header.Get(a.Header)
	if name == "" {
		return core.User{}, fmt.Errorf("missing %s header: %w", a.Header, ErrUnauthenticated)
	}
	u, err := a.Users.ResolveUser(r.Context(), name)
	if errors.Is(err, core.ErrNotFound) {
		return core.User{}, fmt.Errorf("unknown user %q: %w", name, ErrUnauthenticated)
	}
	return u, err
}
