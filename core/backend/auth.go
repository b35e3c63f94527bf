// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/relabs-tech/meshportal/core"
	"github.com/relabs-tech/meshportal/core/access"
	"github.com/relabs-tech/meshportal/core/cdb"
)

// User is a registered portal user. Role and domain drive the write
// checks of the resource handlers, nothing else.
type User struct {
	ID        string    `json:"id" bson:"id"`
	Email     string    `json:"email" bson:"email"`
	Name      string    `json:"name" bson:"name"`
	Domain    string    `json:"domain" bson:"domain"`
	Role      string    `json:"role" bson:"role"`
	CreatedAt core.Time `json:"created_at" bson:"created_at"`
}

// storedUser is the user document as persisted, the password hash never
// leaves the store.
type storedUser struct {
	User     `bson:",inline"`
	Password string `json:"-" bson:"password"`
}

type userCreate struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	Role     string `json:"role"`
}

type userLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var create userCreate
	if !b.decode(w, r, cdb.CollectionUsers, &create) {
		return
	}
	if len(create.Role) == 0 {
		create.Role = core.RoleViewer
	}

	ctx := r.Context()
	n, err := b.count(ctx, cdb.CollectionUsers, bson.M{"email": create.Email})
	if err != nil {
		b.internalError(w, r, 4201, err, "cannot query users")
		return
	}
	if n > 0 {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}

	hash, err := access.HashPassword(create.Password)
	if err != nil {
		b.internalError(w, r, 4202, err, "cannot hash password")
		return
	}
	user := storedUser{
		User: User{
			Email:     create.Email,
			Name:      create.Name,
			Domain:    create.Domain,
			Role:      create.Role,
			CreatedAt: core.Now(),
		},
		Password: hash,
	}
	assignID(&user.ID)

	_, err = b.db.Collection(cdb.CollectionUsers).InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		// lost the race against a concurrent registration, the unique
		// index on email is the backstop for the check above
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	if err != nil {
		b.internalError(w, r, 4203, err, "cannot insert user")
		return
	}
	writeJSON(w, http.StatusOK, user.User)
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var login userLogin
	if !b.decode(w, r, "user_login", &login) {
		return
	}

	// unknown email and wrong password fail identically, the response
	// does not reveal whether the account exists
	var user storedUser
	err := b.db.Collection(cdb.CollectionUsers).
		FindOne(r.Context(), bson.M{"email": login.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		b.internalError(w, r, 4204, err, "cannot query users")
		return
	}
	if !access.VerifyPassword(user.Password, login.Password) {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := access.CreateToken(b.jwtSecret, user.Email, user.Domain)
	if err != nil {
		b.internalError(w, r, 4205, err, "cannot create token")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user.User,
	})
}

func (b *Backend) me(w http.ResponseWriter, r *http.Request) {
	auth := access.AuthorizationFromContext(r.Context())
	var user User
	err := b.db.Collection(cdb.CollectionUsers).
		FindOne(r.Context(), bson.M{"email": auth.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		writeDetail(w, http.StatusUnauthorized, "User not found")
		return
	}
	if err != nil {
		b.internalError(w, r, 4206, err, "cannot query users")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
