// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/relabs-tech/meshportal/core"
	"github.com/relabs-tech/meshportal/core/logger"
)

func writeJSON(w http.ResponseWriter, status int, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result)
}

// writeDetail writes an error response the portal way, a json object
// with a single detail string.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// internalError logs a store failure with its numbered marker and ends
// the request with a plain 500. The marker makes the log line greppable,
// the client gets no detail.
func (b *Backend) internalError(w http.ResponseWriter, r *http.Request, number int, err error, description string) {
	rlog := logger.FromContext(r.Context())
	rlog.WithError(err).Errorf("Error %d: %s", number, description)
	http.Error(w, fmt.Sprintf("Error %d", number), http.StatusInternalServerError)
}

// decode reads the request body, validates it against the resource's
// schema if one is registered, and unmarshals it into v. Unknown fields
// are ignored. On failure the response is written and false is returned.
func (b *Backend) decode(w http.ResponseWriter, r *http.Request, schemaID string, v interface{}) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "cannot read request body")
		return false
	}
	if b.validator.HasSchema(schemaID) {
		if err := b.validator.ValidateString(string(body), schemaID); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return false
		}
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid payload: "+err.Error())
		return false
	}
	return true
}

// list reads up to core.ListLimit documents from the collection into
// result, which must be a pointer to a slice.
func (b *Backend) list(ctx context.Context, collection string, filter bson.M, result interface{}) error {
	cursor, err := b.db.Collection(collection).Find(ctx, filter,
		options.Find().SetLimit(core.ListLimit).SetProjection(bson.M{"_id": 0}))
	if err != nil {
		return err
	}
	return cursor.All(ctx, result)
}

func (b *Backend) count(ctx context.Context, collection string, filter bson.M) (int64, error) {
	return b.db.Collection(collection).CountDocuments(ctx, filter)
}

// assignID fills in a fresh uuid if the payload did not carry one
func assignID(id *string) {
	if len(*id) == 0 {
		*id = uuid.New().String()
	}
}
