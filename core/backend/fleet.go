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

// ShipmentData is a shipment status record published by the fleet domain
type ShipmentData struct {
	ID              string    `json:"id" bson:"id"`
	ShipmentID      string    `json:"shipment_id" bson:"shipment_id"`
	VesselID        string    `json:"vessel_id" bson:"vessel_id"`
	ComponentType   string    `json:"component_type" bson:"component_type"`
	Status          string    `json:"status" bson:"status"`
	DestinationSite string    `json:"destination_site" bson:"destination_site"`
	LastUpdated     core.Time `json:"last_updated" bson:"last_updated"`
}

func (b *Backend) getShipments(w http.ResponseWriter, r *http.Request) {
	shipments := []ShipmentData{}
	if err := b.list(r.Context(), cdb.CollectionFleetShipments, bson.M{}, &shipments); err != nil {
		b.internalError(w, r, 4311, err, "cannot list shipments")
		return
	}
	writeJSON(w, http.StatusOK, shipments)
}

func (b *Backend) createShipment(w http.ResponseWriter, r *http.Request) {
	auth := access.AuthorizationFromContext(r.Context())
	if !auth.CanWriteDomain("fleet") {
		writeDetail(w, http.StatusForbidden, "Not authorized")
		return
	}
	var shipment ShipmentData
	if !b.decode(w, r, cdb.CollectionFleetShipments, &shipment) {
		return
	}
	assignID(&shipment.ID)
	if shipment.LastUpdated.IsZero() {
		shipment.LastUpdated = core.Now()
	}

	if _, err := b.db.Collection(cdb.CollectionFleetShipments).InsertOne(r.Context(), shipment); err != nil {
		b.internalError(w, r, 4312, err, "cannot insert shipment")
		return
	}
	b.logEvent(r.Context(), "shipment_update", "fleet", shipment.ID,
		fmt.Sprintf("Shipment %s status: %s", shipment.ShipmentID, shipment.Status),
		[]string{"notify_site", "check_readiness"})

	writeJSON(w, http.StatusOK, shipment)
}
