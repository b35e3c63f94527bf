/*Package access provides utilities for access control
 */
package access

import (
	"context"
	"sync"

	"github.com/relabs-tech/meshportal/core"
)

// contextKey is the type for context keys. Go linter does not like plain strings
type contextKey string

// the predefined context key
const (
	contextKeyAuthorization contextKey = "_authorization_"
)

/*Authorization is a context object which stores the resolved identity of
the caller: the user record the bearer token points at, reduced to the
fields authorization decisions need.

Authorizations are added to a request context by the token middleware with

	ctx = auth.ContextWithAuthorization(ctx)

and retrieved with

	auth := access.AuthorizationFromContext(ctx)
*/
type Authorization struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
	Role   string `json:"role"`
}

// HasRole returns true if the authorization carries the requested role;
// otherwise it returns false.
func (a *Authorization) HasRole(role string) bool {
	if a == nil {
		return false
	}
	return a.Role == role
}

// CanWriteDomain returns true if the caller may write records of the
// given domain: admins always, everybody else only within their own
// domain. Handlers without a domain gate do not call this.
func (a *Authorization) CanWriteDomain(domain string) bool {
	if a == nil {
		return false
	}
	return a.Role == core.RoleAdmin || a.Domain == domain
}

// ContextWithAuthorization returns a new context with this authorization added to it
func (a *Authorization) ContextWithAuthorization(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKeyAuthorization, a)
}

// AuthorizationFromContext retrieves an authorization from the context
func AuthorizationFromContext(ctx context.Context) *Authorization {
	a, ok := ctx.Value(contextKeyAuthorization).(*Authorization)
	if ok {
		return a
	}
	return nil
}

// AuthorizationCache is an in-memory cache for authorizations, keyed by
// bearer token. Without the cache the middleware would have to look up
// the user document for every single request.
type AuthorizationCache struct {
	mutex sync.RWMutex
	cache map[string]*Authorization
}

// NewAuthorizationCache creates a new authorization cache
func NewAuthorizationCache() *AuthorizationCache {
	return &AuthorizationCache{cache: make(map[string]*Authorization)}
}

// Read returns an authorization from in-process cache.
// This function is go-routine safe
func (a *AuthorizationCache) Read(token string) *Authorization {
	a.mutex.RLock()
	auth, ok := a.cache[token]
	a.mutex.RUnlock()
	if ok {
		return auth
	}
	return nil
}

// Write stores an authorization in the in-memory cache.
// This function is go-routine safe
func (a *AuthorizationCache) Write(token string, auth *Authorization) {
	a.mutex.Lock()
	a.cache[token] = auth
	a.mutex.Unlock()
}
