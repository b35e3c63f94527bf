// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/relabs-tech/meshportal/core"
	"github.com/relabs-tech/meshportal/core/cdb"
	"github.com/relabs-tech/meshportal/core/logger"
)

// EventLog is one audit record. The triggered actions are descriptive
// only, nothing in the portal acts on them.
type EventLog struct {
	ID               string    `json:"id" bson:"id"`
	EventType        string    `json:"event_type" bson:"event_type"`
	Domain           string    `json:"domain" bson:"domain"`
	ResourceID       string    `json:"resource_id" bson:"resource_id"`
	Description      string    `json:"description" bson:"description"`
	TriggeredActions []string  `json:"triggered_actions" bson:"triggered_actions"`
	Timestamp        core.Time `json:"timestamp" bson:"timestamp"`
}

// logEvent writes an audit record, fire-and-forget: a failure is logged
// and never rolls back the write that triggered the event. If a notifier
// is configured the record is additionally published there.
func (b *Backend) logEvent(ctx context.Context, eventType, domain, resourceID, description string, triggeredActions []string) {
	event := EventLog{
		ID:               uuid.New().String(),
		EventType:        eventType,
		Domain:           domain,
		ResourceID:       resourceID,
		Description:      description,
		TriggeredActions: triggeredActions,
		Timestamp:        core.Now(),
	}
	if _, err := b.db.Collection(cdb.CollectionEventLogs).InsertOne(ctx, event); err != nil {
		logger.FromContext(ctx).WithError(err).Warningln("cannot write audit event", eventType)
		return
	}
	if b.notifier != nil {
		payload, err := json.Marshal(event)
		if err == nil {
			b.notifier.Notify(event.EventType, core.OperationCreate, payload)
		}
	}
}

// getEvents returns the newest events, newest first
func (b *Backend) getEvents(w http.ResponseWriter, r *http.Request) {
	cursor, err := b.db.Collection(cdb.CollectionEventLogs).Find(r.Context(), bson.M{},
		options.Find().
			SetSort(bson.D{{Key: "timestamp", Value: -1}}).
			SetLimit(core.EventListLimit).
			SetProjection(bson.M{"_id": 0}))
	if err != nil {
		b.internalError(w, r, 4921, err, "cannot list events")
		return
	}
	events := []EventLog{}
	if err := cursor.All(r.Context(), &events); err != nil {
		b.internalError(w, r, 4922, err, "cannot decode events")
		return
	}
	writeJSON(w, http.StatusOK, events)
}
