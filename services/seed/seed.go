// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

// The seed service populates the portal database with demo data. It
// clears all collections first, running it twice is safe.
package main

import (
	"context"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/sirupsen/logrus"

	"github.com/relabs-tech/meshportal/core"
	"github.com/relabs-tech/meshportal/core/access"
	"github.com/relabs-tech/meshportal/core/backend"
	"github.com/relabs-tech/meshportal/core/cdb"
	"github.com/relabs-tech/meshportal/core/logger"
)

// Service holds the configuration for this service
type Service struct {
	Mongo  string `env:"MESHPORTAL_MONGO,required" description:"the connection string for the mongo instance"`
	DBName string `env:"MESHPORTAL_DBNAME,default=meshportal" description:"the database name"`
}

// seededUser is a user document including its password hash, the seeder
// writes users directly, without going through registration
type seededUser struct {
	backend.User `bson:",inline"`
	Password     string `bson:"password"`
}

func mustTime(value string) core.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return core.Time{Time: t}
}

func stringPtr(s string) *string { return &s }

func main() {
	logger.InitLogger(logrus.InfoLevel)
	rlog := logger.Default()

	service := &Service{}
	if err := envdecode.Decode(service); err != nil {
		panic(err)
	}

	db := cdb.MustOpen(service.Mongo, service.DBName)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	defer db.Close(context.Background())

	rlog.Infoln("seeding database", service.DBName)
	if err := db.ClearAll(ctx); err != nil {
		panic(err)
	}
	if err := db.EnsureIndexes(ctx); err != nil {
		panic(err)
	}

	hash, err := access.HashPassword("password123")
	if err != nil {
		panic(err)
	}
	seededAt := mustTime("2025-01-15T10:00:00Z")
	updatedAt := mustTime("2025-01-15T12:00:00Z")

	insert(ctx, db, rlog, cdb.CollectionUsers, []interface{}{
		seededUser{backend.User{ID: "user1", Email: "admin@port.om", Name: "Port Authority Admin", Domain: "port", Role: "admin", CreatedAt: seededAt}, hash},
		seededUser{backend.User{ID: "user2", Email: "fleet@asyad.om", Name: "Asyad Fleet Manager", Domain: "fleet", Role: "editor", CreatedAt: seededAt}, hash},
		seededUser{backend.User{ID: "user3", Email: "site@hydrogen.om", Name: "EPC Site Coordinator", Domain: "epc", Role: "editor", CreatedAt: seededAt}, hash},
		seededUser{backend.User{ID: "user4", Email: "routes@logistics.om", Name: "Logistics Route Planner", Domain: "logistics", Role: "editor", CreatedAt: seededAt}, hash},
		seededUser{backend.User{ID: "user5", Email: "governance@mesh.om", Name: "Mesh Governance Lead", Domain: "governance", Role: "admin", CreatedAt: seededAt}, hash},
	})

	insert(ctx, db, rlog, cdb.CollectionPortVessels, []interface{}{
		backend.VesselData{ID: "v1", VesselID: "DQM-V001", VesselName: "Hydrogen Pioneer", Status: "berthed", BerthNumber: stringPtr("B-12"), ETA: stringPtr("2025-01-20T08:00:00Z"), CargoType: "turbine_blades", LastUpdated: updatedAt},
		backend.VesselData{ID: "v2", VesselID: "DQM-V002", VesselName: "Green Energy Carrier", Status: "approaching", BerthNumber: stringPtr(""), ETA: stringPtr("2025-01-22T14:00:00Z"), CargoType: "nacelles", LastUpdated: updatedAt},
	})

	insert(ctx, db, rlog, cdb.CollectionFleetShipments, []interface{}{
		backend.ShipmentData{ID: "s1", ShipmentID: "SHP-2025-001", VesselID: "DQM-V001", ComponentType: "turbine_blade", Status: "at_port", DestinationSite: "Duqm Hydrogen Hub A", LastUpdated: updatedAt},
		backend.ShipmentData{ID: "s2", ShipmentID: "SHP-2025-002", VesselID: "DQM-V002", ComponentType: "nacelle", Status: "in_transit", DestinationSite: "Duqm Hydrogen Hub B", LastUpdated: updatedAt},
	})

	insert(ctx, db, rlog, cdb.CollectionEPCSites, []interface{}{
		backend.SiteData{ID: "site1", SiteID: "DHH-A", SiteName: "Duqm Hydrogen Hub A", ReadinessStatus: "ready", ExpectedComponent: "turbine_blade", LastUpdated: updatedAt},
		backend.SiteData{ID: "site2", SiteID: "DHH-B", SiteName: "Duqm Hydrogen Hub B", ReadinessStatus: "preparing", ExpectedComponent: "nacelle", LastUpdated: updatedAt},
	})

	insert(ctx, db, rlog, cdb.CollectionDataCatalog, []interface{}{
		backend.DataProduct{
			ID:              "dp1",
			Name:            "Vessel Status API",
			Domain:          "port",
			Description:     "Real-time vessel berthing and arrival status at Port of Duqm",
			DataType:        "operational",
			Endpoint:        "/api/port/vessels",
			SchemaFields:    []string{"vessel_id", "vessel_name", "status", "berth_number", "eta"},
			UpdateFrequency: "15min",
			OwnerEmail:      "admin@port.om",
			Tags:            []string{"real-time", "logistics", "port-operations"},
			CreatedAt:       seededAt,
		},
		backend.DataProduct{
			ID:              "dp2",
			Name:            "Shipment Tracking API",
			Domain:          "fleet",
			Description:     "Asyad fleet shipment tracking for hydrogen turbine components",
			DataType:        "operational",
			Endpoint:        "/api/fleet/shipments",
			SchemaFields:    []string{"shipment_id", "vessel_id", "component_type", "status", "destination_site"},
			UpdateFrequency: "30min",
			OwnerEmail:      "fleet@asyad.om",
			Tags:            []string{"logistics", "tracking", "supply-chain"},
			CreatedAt:       seededAt,
		},
		backend.DataProduct{
			ID:              "dp3",
			Name:            "Site Readiness API",
			Domain:          "epc",
			Description:     "Hydrogen developer site readiness and installation status",
			DataType:        "operational",
			Endpoint:        "/api/epc/sites",
			SchemaFields:    []string{"site_id", "site_name", "readiness_status", "expected_component"},
			UpdateFrequency: "1hour",
			OwnerEmail:      "site@hydrogen.om",
			Tags:            []string{"construction", "readiness", "hydrogen"},
			CreatedAt:       seededAt,
		},
	})

	insert(ctx, db, rlog, cdb.CollectionSemanticMappings, []interface{}{
		backend.SemanticMapping{ID: "m1", SourceDomain: "port", SourceField: "Vessel_ID", TargetStandard: "IDS", TargetField: "vessel_identifier", Description: "Port Authority vessel identification to IDS standard"},
		backend.SemanticMapping{ID: "m2", SourceDomain: "fleet", SourceField: "Ship_Ref", TargetStandard: "IDS", TargetField: "vessel_identifier", Description: "Fleet operations ship reference to IDS standard"},
		backend.SemanticMapping{ID: "m3", SourceDomain: "epc", SourceField: "Component_Status", TargetStandard: "Gaia-X", TargetField: "resource_status", Description: "EPC component status to Gaia-X resource status"},
	})

	insert(ctx, db, rlog, cdb.CollectionAccessPolicies, []interface{}{
		backend.AccessPolicy{
			ID:                "p1",
			ResourceDomain:    "port",
			AllowedDomains:    []string{"port", "fleet"},
			AllowedRoles:      []string{"viewer", "editor", "admin"},
			DataFieldsVisible: []string{"vessel_id", "vessel_name", "status", "berth_number", "eta", "cargo_type"},
		},
		backend.AccessPolicy{
			ID:                "p2",
			ResourceDomain:    "fleet",
			AllowedDomains:    []string{"fleet", "epc"},
			AllowedRoles:      []string{"viewer", "editor", "admin"},
			DataFieldsVisible: []string{"shipment_id", "component_type", "status", "destination_site"},
		},
		backend.AccessPolicy{
			ID:                "p3",
			ResourceDomain:    "epc",
			AllowedDomains:    []string{"epc", "fleet"},
			AllowedRoles:      []string{"editor", "admin"},
			DataFieldsVisible: []string{"site_id", "site_name", "readiness_status", "expected_component"},
		},
	})

	insert(ctx, db, rlog, cdb.CollectionLogisticsRoutes, []interface{}{
		backend.Route{
			ID:                     "r1",
			RouteName:              "Duqm Port to Hub A",
			Origin:                 "Port of Duqm",
			Destination:            "Duqm Hydrogen Hub A",
			TransportMode:          "road",
			DistanceKM:             42.5,
			EstimatedDurationHours: 3.5,
			RoadRestrictions:       []string{"max height 5.2m", "night convoy only"},
			Status:                 "active",
			LastUpdated:            updatedAt,
		},
	})

	insert(ctx, db, rlog, cdb.CollectionLogisticsPermits, []interface{}{
		backend.Permit{
			ID:               "pm1",
			PermitNumber:     "PRM-2025-001",
			PermitType:       "oversize_transport",
			ShipmentID:       "SHP-2025-001",
			IssuingAuthority: "Ministry of Transport",
			Status:           "pending",
			RequestedDate:    "2025-01-14",
			Restrictions:     []string{"police escort required"},
		},
	})

	insert(ctx, db, rlog, cdb.CollectionWeatherForecasts, []interface{}{
		backend.WeatherForecast{
			ID:                 "w1",
			Location:           "Duqm",
			ForecastDate:       "2025-01-20",
			TemperatureCelsius: 28.5,
			WindSpeedKMH:       22.0,
			WeatherCondition:   "clear",
			VisibilityKM:       10.0,
			SafeForTransport:   true,
		},
	})

	insert(ctx, db, rlog, cdb.CollectionAssemblyAreas, []interface{}{
		backend.AssemblyArea{
			ID:               "a1",
			AreaName:         "Duqm Staging Yard 1",
			AreaType:         "staging",
			Location:         "Port of Duqm",
			Capacity:         24,
			CurrentOccupancy: 9,
			AvailableSpace:   15,
			Status:           "operational",
			ComponentsStored: []string{"turbine_blade", "tower_section"},
		},
	})

	insert(ctx, db, rlog, cdb.CollectionDomainJourneys, []interface{}{
		backend.DomainJourney{
			ID:                    "j1",
			DomainName:            "port",
			CurrentLevel:          3,
			LevelDescription:      "Data Producer - Publishing initial data products",
			DataProductsPublished: 1,
			DataProductsConsumed:  2,
			JourneyStarted:        "2024-09-01",
			LastUpdated:           updatedAt,
		},
		backend.DomainJourney{
			ID:                    "j2",
			DomainName:            "fleet",
			CurrentLevel:          2,
			LevelDescription:      "Data Aware - Understanding data needs and dependencies",
			DataProductsPublished: 1,
			DataProductsConsumed:  1,
			JourneyStarted:        "2024-10-15",
			LastUpdated:           updatedAt,
		},
		backend.DomainJourney{
			ID:                    "j3",
			DomainName:            "epc",
			CurrentLevel:          1,
			LevelDescription:      "Data Consumer - Consuming data from other domains",
			DataProductsPublished: 1,
			DataProductsConsumed:  0,
			JourneyStarted:        "2024-11-20",
			LastUpdated:           updatedAt,
		},
	})

	insert(ctx, db, rlog, cdb.CollectionPlatformCapabilities, []interface{}{
		backend.PlatformCapability{
			ID:          "c1",
			Name:        "Streaming Ingestion",
			Category:    "ingestion",
			Description: "Managed topic-based ingestion for real-time domain data",
			Features:    []string{"schema registry", "dead letter queues"},
			Status:      "active",
			UsageCount:  14,
		},
		backend.PlatformCapability{
			ID:          "c2",
			Name:        "Contract Registry",
			Category:    "governance",
			Description: "Central registry for data contracts with YAML export",
			Features:    []string{"versioning", "consumer tracking"},
			Status:      "active",
			UsageCount:  7,
		},
		backend.PlatformCapability{
			ID:          "c3",
			Name:        "Lineage Explorer",
			Category:    "observability",
			Description: "Graph view of data product dependencies",
			Features:    []string{"impact analysis"},
			Status:      "beta",
			UsageCount:  2,
		},
	})

	insert(ctx, db, rlog, cdb.CollectionComplianceRules, []interface{}{
		backend.ComplianceRule{
			ID:                "cr1",
			RuleName:          "PII Field Tagging",
			Standard:          "Gaia-X",
			Description:       "Every schema field carrying personal data must be tagged as PII",
			Severity:          "high",
			ApplicableDomains: []string{"port", "fleet", "epc", "logistics"},
			ValidationLogic:   "schema_fields[*].is_pii present",
			Status:            "active",
		},
	})

	insert(ctx, db, rlog, cdb.CollectionInteropStandards, []interface{}{
		backend.InteroperabilityStandard{
			ID:                "is1",
			Name:              "IDS",
			Version:           "4.1",
			Description:       "International Data Spaces information model",
			SupportedDomains:  []string{"port", "fleet"},
			ComplianceLevel:   "certified",
			CertificationDate: stringPtr("2024-12-01"),
		},
	})

	insert(ctx, db, rlog, cdb.CollectionEventLogs, []interface{}{
		backend.EventLog{
			ID:               "e1",
			EventType:        "vessel_update",
			Domain:           "port",
			ResourceID:       "v1",
			Description:      "Vessel Hydrogen Pioneer berthed at B-12",
			TriggeredActions: []string{"notify_fleet", "update_catalog"},
			Timestamp:        mustTime("2025-01-15T12:00:00Z"),
		},
		backend.EventLog{
			ID:               "e2",
			EventType:        "shipment_update",
			Domain:           "fleet",
			ResourceID:       "s1",
			Description:      "Shipment SHP-2025-001 arrived at port",
			TriggeredActions: []string{"notify_site", "check_readiness"},
			Timestamp:        mustTime("2025-01-15T12:15:00Z"),
		},
		backend.EventLog{
			ID:               "e3",
			EventType:        "site_update",
			Domain:           "epc",
			ResourceID:       "site1",
			Description:      "Site Duqm Hydrogen Hub A ready for component delivery",
			TriggeredActions: []string{"notify_fleet", "enable_shipping"},
			Timestamp:        mustTime("2025-01-15T11:30:00Z"),
		},
	})

	rlog.Infoln("database seeding completed")
}

func insert(ctx context.Context, db *cdb.DB, rlog *logrus.Entry, collection string, docs []interface{}) {
	if _, err := db.Collection(collection).InsertMany(ctx, docs); err != nil {
		panic(err)
	}
	rlog.Infof("created %d %s", len(docs), collection)
}
