// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

import (
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/relabs-tech/meshportal/core"
	"github.com/relabs-tech/meshportal/core/access"
	"github.com/relabs-tech/meshportal/core/cdb"
)

// VesselData is a vessel status record published by the port domain
type VesselData struct {
	ID          string    `json:"id" bson:"id"`
	VesselID    string    `json:"vessel_id" bson:"vessel_id"`
	VesselName  string    `json:"vessel_name" bson:"vessel_name"`
	Status      string    `json:"status" bson:"status"`
	BerthNumber *string   `json:"berth_number" bson:"berth_number"`
	ETA         *string   `json:"eta" bson:"eta"`
	CargoType   string    `json:"cargo_type" bson:"cargo_type"`
	LastUpdated core.Time `json:"last_updated" bson:"last_updated"`
}

func (b *Backend) getVessels(w http.ResponseWriter, r *http.Request) {
	vessels := []VesselData{}
	if err := b.list(r.Context(), cdb.CollectionPortVessels, bson.M{}, &vessels); err != nil {
		b.internalError(w, r, 4301, err, "cannot list vessels")
		return
	}
	writeJSON(w, http.StatusOK, vessels)
}

func (b *Backend) createVessel(w http.ResponseWriter, r *http.Request) {
	auth := access.AuthorizationFromContext(r.Context())
	if !auth.CanWriteDomain("port") {
		writeDetail(w, http.StatusForbidden, "Not authorized")
		return
	}
	var vessel VesselData
	if !b.decode(w, r, cdb.CollectionPortVessels, &vessel) {
		return
	}
	assignID(&vessel.ID)
	if vessel.LastUpdated.IsZero() {
		vessel.LastUpdated = core.Now()
	}

	if _, err := b.db.Collection(cdb.CollectionPortVessels).InsertOne(r.Context(), vessel); err != nil {
		b.internalError(w, r, 4302, err, "cannot insert vessel")
		return
	}
	b.logEvent(r.Context(), "vessel_update", "port", vessel.ID,
		fmt.Sprintf("Vessel %s status: %s", vessel.VesselName, vessel.Status),
		[]string{"notify_fleet"})

	writeJSON(w, http.StatusOK, vessel)
}
