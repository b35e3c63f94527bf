// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/relabs-tech/meshportal/core"
	"github.com/relabs-tech/meshportal/core/access"
	"github.com/relabs-tech/meshportal/core/cdb"
)

// Route is a transport route for hydrogen plant components
type Route struct {
	ID                     string    `json:"id" bson:"id"`
	RouteName              string    `json:"route_name" bson:"route_name"`
	Origin                 string    `json:"origin" bson:"origin"`
	Destination            string    `json:"destination" bson:"destination"`
	TransportMode          string    `json:"transport_mode" bson:"transport_mode"`
	DistanceKM             float64   `json:"distance_km" bson:"distance_km"`
	EstimatedDurationHours float64   `json:"estimated_duration_hours" bson:"estimated_duration_hours"`
	RoadRestrictions       []string  `json:"road_restrictions" bson:"road_restrictions"`
	Status                 string    `json:"status" bson:"status"`
	LastUpdated            core.Time `json:"last_updated" bson:"last_updated"`
}

// Permit is a transport permit request. Dates are plain strings, the
// issuing authorities work with calendar dates, not instants.
type Permit struct {
	ID               string   `json:"id" bson:"id"`
	PermitNumber     string   `json:"permit_number" bson:"permit_number"`
	PermitType       string   `json:"permit_type" bson:"permit_type"`
	ShipmentID       string   `json:"shipment_id" bson:"shipment_id"`
	IssuingAuthority string   `json:"issuing_authority" bson:"issuing_authority"`
	Status           string   `json:"status" bson:"status"`
	RequestedDate    string   `json:"requested_date" bson:"requested_date"`
	ApprovedDate     *string  `json:"approved_date" bson:"approved_date"`
	ExpiryDate       *string  `json:"expiry_date" bson:"expiry_date"`
	Restrictions     []string `json:"restrictions" bson:"restrictions"`
}

// WeatherForecast is a transport safety forecast for a location
type WeatherForecast struct {
	ID                 string  `json:"id" bson:"id"`
	Location           string  `json:"location" bson:"location"`
	ForecastDate       string  `json:"forecast_date" bson:"forecast_date"`
	TemperatureCelsius float64 `json:"temperature_celsius" bson:"temperature_celsius"`
	WindSpeedKMH       float64 `json:"wind_speed_kmh" bson:"wind_speed_kmh"`
	WeatherCondition   string  `json:"weather_condition" bson:"weather_condition"`
	VisibilityKM       float64 `json:"visibility_km" bson:"visibility_km"`
	SafeForTransport   bool    `json:"safe_for_transport" bson:"safe_for_transport"`
}

// AssemblyArea is a staging area for plant components
type AssemblyArea struct {
	ID               string   `json:"id" bson:"id"`
	AreaName         string   `json:"area_name" bson:"area_name"`
	AreaType         string   `json:"area_type" bson:"area_type"`
	Location         string   `json:"location" bson:"location"`
	Capacity         int      `json:"capacity" bson:"capacity"`
	CurrentOccupancy int      `json:"current_occupancy" bson:"current_occupancy"`
	AvailableSpace   int      `json:"available_space" bson:"available_space"`
	Status           string   `json:"status" bson:"status"`
	ComponentsStored []string `json:"components_stored" bson:"components_stored"`
}

func (b *Backend) getRoutes(w http.ResponseWriter, r *http.Request) {
	routes := []Route{}
	if err := b.list(r.Context(), cdb.CollectionLogisticsRoutes, bson.M{}, &routes); err != nil {
		b.internalError(w, r, 4701, err, "cannot list routes")
		return
	}
	writeJSON(w, http.StatusOK, routes)
}

func (b *Backend) createRoute(w http.ResponseWriter, r *http.Request) {
	auth := access.AuthorizationFromContext(r.Context())
	if !auth.CanWriteDomain("logistics") {
		writeDetail(w, http.StatusForbidden, "Not authorized")
		return
	}
	var route Route
	if !b.decode(w, r, cdb.CollectionLogisticsRoutes, &route) {
		return
	}
	assignID(&route.ID)
	if route.LastUpdated.IsZero() {
		route.LastUpdated = core.Now()
	}

	if _, err := b.db.Collection(cdb.CollectionLogisticsRoutes).InsertOne(r.Context(), route); err != nil {
		b.internalError(w, r, 4702, err, "cannot insert route")
		return
	}
	b.logEvent(r.Context(), "route_created", "logistics", route.ID,
		fmt.Sprintf("Route %s created: %s to %s", route.RouteName, route.Origin, route.Destination),
		[]string{"notify_fleet", "update_permits"})

	writeJSON(w, http.StatusOK, route)
}

func (b *Backend) getPermits(w http.ResponseWriter, r *http.Request) {
	permits := []Permit{}
	if err := b.list(r.Context(), cdb.CollectionLogisticsPermits, bson.M{}, &permits); err != nil {
		b.internalError(w, r, 4703, err, "cannot list permits")
		return
	}
	writeJSON(w, http.StatusOK, permits)
}

// any authenticated user may request a permit
func (b *Backend) createPermit(w http.ResponseWriter, r *http.Request) {
	var permit Permit
	if !b.decode(w, r, cdb.CollectionLogisticsPermits, &permit) {
		return
	}
	assignID(&permit.ID)
	if _, err := b.db.Collection(cdb.CollectionLogisticsPermits).InsertOne(r.Context(), permit); err != nil {
		b.internalError(w, r, 4704, err, "cannot insert permit")
		return
	}
	b.logEvent(r.Context(), "permit_requested", "logistics", permit.ID,
		fmt.Sprintf("Permit %s requested for shipment %s", permit.PermitNumber, permit.ShipmentID),
		[]string{"notify_authority", "track_status"})

	writeJSON(w, http.StatusOK, permit)
}

// updatePermit changes the permit status. The new status is a query
// parameter, the request has no body. Approving stamps the approval
// date, any other status clears it.
func (b *Backend) updatePermit(w http.ResponseWriter, r *http.Request) {
	auth := access.AuthorizationFromContext(r.Context())
	if !auth.HasRole(core.RoleAdmin) {
		writeDetail(w, http.StatusForbidden, "Admin access required")
		return
	}
	status := r.URL.Query().Get("status")
	if len(status) == 0 {
		writeDetail(w, http.StatusUnprocessableEntity, "query parameter status is required")
		return
	}
	id := mux.Vars(r)["id"]
	ctx := r.Context()

	var permit Permit
	err := b.db.Collection(cdb.CollectionLogisticsPermits).
		FindOne(ctx, bson.M{"id": id}).Decode(&permit)
	if err == mongo.ErrNoDocuments {
		writeDetail(w, http.StatusNotFound, "Permit not found")
		return
	}
	if err != nil {
		b.internalError(w, r, 4705, err, "cannot read permit")
		return
	}

	var approvedDate *string
	if status == "approved" {
		now := time.Now().UTC().Format(time.RFC3339)
		approvedDate = &now
	}
	_, err = b.db.Collection(cdb.CollectionLogisticsPermits).UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"status": status, "approved_date": approvedDate}})
	if err != nil {
		b.internalError(w, r, 4706, err, "cannot update permit")
		return
	}
	permit.Status = status
	permit.ApprovedDate = approvedDate

	b.logEvent(ctx, "permit_updated", "logistics", id,
		fmt.Sprintf("Permit %s status changed to %s", permit.PermitNumber, status),
		[]string{"notify_shipper", "enable_transport"})

	writeJSON(w, http.StatusOK, permit)
}

func (b *Backend) getWeatherForecasts(w http.ResponseWriter, r *http.Request) {
	forecasts := []WeatherForecast{}
	if err := b.list(r.Context(), cdb.CollectionWeatherForecasts, bson.M{}, &forecasts); err != nil {
		b.internalError(w, r, 4707, err, "cannot list weather forecasts")
		return
	}
	writeJSON(w, http.StatusOK, forecasts)
}

func (b *Backend) createWeatherForecast(w http.ResponseWriter, r *http.Request) {
	auth := access.AuthorizationFromContext(r.Context())
	if !auth.HasRole(core.RoleAdmin) {
		writeDetail(w, http.StatusForbidden, "Admin access required")
		return
	}
	var forecast WeatherForecast
	if !b.decode(w, r, cdb.CollectionWeatherForecasts, &forecast) {
		return
	}
	assignID(&forecast.ID)
	if _, err := b.db.Collection(cdb.CollectionWeatherForecasts).InsertOne(r.Context(), forecast); err != nil {
		b.internalError(w, r, 4708, err, "cannot insert weather forecast")
		return
	}
	writeJSON(w, http.StatusOK, forecast)
}

func (b *Backend) getAssemblyAreas(w http.ResponseWriter, r *http.Request) {
	areas := []AssemblyArea{}
	if err := b.list(r.Context(), cdb.CollectionAssemblyAreas, bson.M{}, &areas); err != nil {
		b.internalError(w, r, 4709, err, "cannot list assembly areas")
		return
	}
	writeJSON(w, http.StatusOK, areas)
}

func (b *Backend) createAssemblyArea(w http.ResponseWriter, r *http.Request) {
	auth := access.AuthorizationFromContext(r.Context())
	if !auth.HasRole(core.RoleAdmin) {
		writeDetail(w, http.StatusForbidden, "Admin access required")
		return
	}
	var area AssemblyArea
	if !b.decode(w, r, cdb.CollectionAssemblyAreas, &area) {
		return
	}
	assignID(&area.ID)
	if _, err := b.db.Collection(cdb.CollectionAssemblyAreas).InsertOne(r.Context(), area); err != nil {
		b.internalError(w, r, 4710, err, "cannot insert assembly area")
		return
	}
	b.logEvent(r.Context(), "assembly_area_registered", "logistics", area.ID,
		fmt.Sprintf("Assembly area %s registered with capacity %d", area.AreaName, area.Capacity),
		[]string{"update_inventory", "notify_logistics"})

	writeJSON(w, http.StatusOK, area)
}
