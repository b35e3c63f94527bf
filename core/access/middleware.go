// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package access

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/relabs-tech/meshportal/core/cdb"
	"github.com/relabs-tech/meshportal/core/logger"
)

// TokenMiddlewareBuilder is a helper builder for the token middleware
type TokenMiddlewareBuilder struct {
	// DB is the portal database. The middleware resolves the token's
	// subject against the users collection.
	DB *cdb.DB
	// Secret is the HS256 signing secret access tokens were issued with.
	Secret string
	// SkipPaths are exact request paths which pass through without a
	// token, i.e. the root route, registration and login.
	SkipPaths []string
}

// NewTokenMiddleware returns a middleware handler which validates the
// "Authorization: Bearer" token and resolves the caller's user document.
//
// This is a final handler with regards to the bearer token: a missing,
// malformed or expired token, and a token whose user has since been
// deleted, all end the request with http.StatusUnauthorized before any
// handler runs.
func NewTokenMiddleware(b *TokenMiddlewareBuilder) mux.MiddlewareFunc {
	skip := make(map[string]bool)
	for _, path := range b.SkipPaths {
		skip[path] = true
	}
	authCache := NewAuthorizationCache()

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] || r.Method == http.MethodOptions {
				h.ServeHTTP(w, r)
				return
			}
			if auth := AuthorizationFromContext(r.Context()); auth != nil {
				// already authorized, e.g. by the in-process client
				h.ServeHTTP(w, r)
				return
			}

			rlog := logger.FromContext(r.Context())

			tokenString := ""
			bearer := r.Header.Get("Authorization")
			if len(bearer) >= 8 && strings.ToLower(bearer[:7]) == "bearer " {
				tokenString = bearer[7:]
			}
			if len(tokenString) == 0 {
				unauthorized(w, "Not authenticated")
				return
			}

			claims, err := ParseToken(b.Secret, tokenString)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					unauthorized(w, "Token expired")
				} else {
					unauthorized(w, "Invalid token")
				}
				return
			}

			// look up the user for the token. We cache by tokenString, and
			// not by email, so the frontend can enforce a new database
			// lookup with a new token.
			auth := authCache.Read(tokenString)
			if auth == nil {
				var user struct {
					ID     string `bson:"id"`
					Email  string `bson:"email"`
					Name   string `bson:"name"`
					Domain string `bson:"domain"`
					Role   string `bson:"role"`
				}
				err = b.DB.Collection(cdb.CollectionUsers).
					FindOne(r.Context(), bson.M{"email": claims.Subject}).Decode(&user)
				if err == mongo.ErrNoDocuments {
					unauthorized(w, "User not found")
					return
				}
				if err != nil {
					rlog.WithError(err).Errorln("Error 4723: cannot execute authorization query")
					http.Error(w, "Error 4723", http.StatusInternalServerError)
					return
				}
				auth = &Authorization{
					UserID: user.ID,
					Email:  user.Email,
					Name:   user.Name,
					Domain: user.Domain,
					Role:   user.Role,
				}
				authCache.Write(tokenString, auth)
			}

			ctx := auth.ContextWithAuthorization(r.Context())
			ctx, _ = logger.ContextWithLoggerIdentity(ctx, auth.Email)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
