// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

/*Package cdb wraps the mongo driver with the portal's database conventions:
one document collection per resource type, an explicit open/close lifecycle,
and the unique index backing user registration.
*/
package cdb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/relabs-tech/meshportal/core/logger"
)

// collection names, one per resource type
const (
	CollectionUsers                = "users"
	CollectionPortVessels          = "port_vessels"
	CollectionFleetShipments       = "fleet_shipments"
	CollectionEPCSites             = "epc_sites"
	CollectionDataCatalog          = "data_catalog"
	CollectionDataProductCanvases  = "data_product_canvases"
	CollectionDataContracts        = "data_contracts"
	CollectionSemanticMappings     = "semantic_mappings"
	CollectionAccessPolicies       = "access_policies"
	CollectionComplianceRules      = "compliance_rules"
	CollectionInteropStandards     = "interop_standards"
	CollectionEventLogs            = "event_logs"
	CollectionLogisticsRoutes      = "logistics_routes"
	CollectionLogisticsPermits     = "logistics_permits"
	CollectionWeatherForecasts     = "weather_forecasts"
	CollectionAssemblyAreas        = "assembly_areas"
	CollectionDomainJourneys       = "domain_journeys"
	CollectionQualityMetrics       = "quality_metrics"
	CollectionDataLineages         = "data_lineages"
	CollectionPlatformCapabilities = "platform_capabilities"
)

// AllCollections lists every resource collection the portal owns.
var AllCollections = []string{
	CollectionUsers,
	CollectionPortVessels,
	CollectionFleetShipments,
	CollectionEPCSites,
	CollectionDataCatalog,
	CollectionDataProductCanvases,
	CollectionDataContracts,
	CollectionSemanticMappings,
	CollectionAccessPolicies,
	CollectionComplianceRules,
	CollectionInteropStandards,
	CollectionEventLogs,
	CollectionLogisticsRoutes,
	CollectionLogisticsPermits,
	CollectionWeatherForecasts,
	CollectionAssemblyAreas,
	CollectionDomainJourneys,
	CollectionQualityMetrics,
	CollectionDataLineages,
	CollectionPlatformCapabilities,
}

// DB encapsulates a mongo database handle. It is created with MustOpen
// at service startup and closed with Close at shutdown; handlers receive
// it from their backend, there is no package-level instance.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
	Name   string
}

// MustOpen connects to the mongo instance at uri and selects the named
// database. It pings the server and panics if the database cannot be
// reached, just like a service would fail hard at startup.
func MustOpen(uri, name string) *DB {
	rlog := logger.Default()
	rlog.Infoln("connecting to mongo database:", name)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		panic(err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		panic(err)
	}

	return &DB{
		client: client,
		db:     client.Database(name),
		Name:   name,
	}
}

// Close disconnects from the database.
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// Collection returns a handle to the named collection.
func (d *DB) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// EnsureIndexes creates the indexes the portal relies on. Currently this
// is the unique index on the user email, which backs the registration
// conflict check.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	_, err := d.Collection(CollectionUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// ClearAll drops the content of every portal collection. Used by the
// seeder and by tests, never by request handlers.
func (d *DB) ClearAll(ctx context.Context) error {
	for _, name := range AllCollections {
		if _, err := d.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			return err
		}
	}
	return nil
}
