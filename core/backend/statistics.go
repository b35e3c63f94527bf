package backend

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/relabs-tech/meshportal/core/cdb"
)

// getDashboardStats answers the portal landing page with counts across
// the operational collections
func (b *Backend) getDashboardStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var vessels, shipments, sites, products, routes, permits int64
	var vesselsInPort, shipmentsInTransit, sitesReady, permitsPending int64

	type countQuery struct {
		collection string
		filter     bson.M
		result     *int64
	}
	queries := []countQuery{
		{cdb.CollectionPortVessels, bson.M{}, &vessels},
		{cdb.CollectionFleetShipments, bson.M{}, &shipments},
		{cdb.CollectionEPCSites, bson.M{}, &sites},
		{cdb.CollectionDataCatalog, bson.M{}, &products},
		{cdb.CollectionLogisticsRoutes, bson.M{}, &routes},
		{cdb.CollectionLogisticsPermits, bson.M{}, &permits},
		{cdb.CollectionPortVessels, bson.M{"status": "berthed"}, &vesselsInPort},
		{cdb.CollectionFleetShipments, bson.M{"status": "in_transit"}, &shipmentsInTransit},
		{cdb.CollectionEPCSites, bson.M{"readiness_status": "ready"}, &sitesReady},
		{cdb.CollectionLogisticsPermits, bson.M{"status": "pending"}, &permitsPending},
	}
	for _, q := range queries {
		n, err := b.count(ctx, q.collection, q.filter)
		if err != nil {
			b.internalError(w, r, 4931, err, "cannot count "+q.collection)
			return
		}
		*q.result = n
	}

	writeJSON(w, http.StatusOK, map[string]int64{
		"total_vessels":        vessels,
		"vessels_in_port":      vesselsInPort,
		"total_shipments":      shipments,
		"shipments_in_transit": shipmentsInTransit,
		"total_sites":          sites,
		"sites_ready":          sitesReady,
		"data_products":        products,
		"total_routes":         routes,
		"total_permits":        permits,
		"permits_pending":      permitsPending,
	})
}
