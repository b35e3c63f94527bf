package backend

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/goccy/go-json"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/joeshaw/envdecode"

	"github.com/relabs-tech/meshportal/core/access"
	"github.com/relabs-tech/meshportal/core/cdb"
	"github.com/relabs-tech/meshportal/core/client"
)

// TestService holds the configuration for this service
//
// use MESHPORTAL_MONGO="mongodb://localhost:27017"
type TestService struct {
	Mongo   string `env:"MESHPORTAL_MONGO,default=mongodb://localhost:27017" description:"the connection string for the Mongo instance"`
	backend *Backend
	db      *cdb.DB
	client  client.Client
}

var testService TestService

const testJWTSecret = "unit-test-secret"

func asJSON(object interface{}) string {
	j, _ := json.Marshal(object)
	return string(j)
}

// editorClient returns a client authorized as an editor of the given
// domain, without going through login
func editorClient(domain string) client.Client {
	return testService.client.WithAuthorization(&access.Authorization{
		Email:  "editor@" + domain + ".om",
		Domain: domain,
		Role:   "editor",
	})
}

func viewerClient(domain string) client.Client {
	return testService.client.WithAuthorization(&access.Authorization{
		Email:  "viewer@" + domain + ".om",
		Domain: domain,
		Role:   "viewer",
	})
}

// anonymousClient carries neither an authorization nor a token
func anonymousClient() client.Client {
	return testService.client.WithAuthorization(nil)
}

func TestMain(m *testing.M) {
	if err := envdecode.Decode(&testService); err != nil {
		panic(err)
	}

	ctx := context.Background()
	db := cdb.MustOpen(testService.Mongo, "_meshportal_unit_test_")
	if err := db.ClearAll(ctx); err != nil {
		panic(err)
	}
	if err := db.EnsureIndexes(ctx); err != nil {
		panic(err)
	}

	router := mux.NewRouter()
	testService.backend = New(&Builder{
		DB:        db,
		Router:    router,
		JWTSecret: testJWTSecret,
	})
	testService.db = db
	testService.client = client.NewWithRouter(router).WithAdminAuthorization()

	code := m.Run()
	db.Close(ctx)
	os.Exit(code)
}

func TestRoot(t *testing.T) {
	result := map[string]string{}
	_, err := anonymousClient().RawGet("/api", &result)
	if err != nil {
		t.Fatal(err)
	}
	if result["message"] != "Oman National Hydrogen Data Mesh API" {
		t.Fatal("unexpected banner:", asJSON(result))
	}
}

func TestRegisterLoginMe(t *testing.T) {
	create := map[string]string{
		"email":    "ahmed@port.om",
		"password": "secret-port-password",
		"name":     "Ahmed Al-Balushi",
		"domain":   "port",
		"role":     "editor",
	}

	user := User{}
	_, err := anonymousClient().RawPost("/api/auth/register", create, &user)
	if err != nil {
		t.Fatal(err)
	}
	if user.ID == "" {
		t.Fatal("no id")
	}
	if user.Email != create["email"] ||
		user.Name != create["name"] ||
		user.Domain != create["domain"] ||
		user.Role != create["role"] {
		t.Fatal("unexpected user:", asJSON(user))
	}
	if user.CreatedAt.IsZero() {
		t.Fatal("created_at not set")
	}

	// the response must not leak the password hash
	var raw []byte
	_, err = anonymousClient().RawPost("/api/auth/register", map[string]string{
		"email":    "latifa@fleet.om",
		"password": "secret-fleet-password",
		"name":     "Latifa Al-Harthy",
		"domain":   "fleet",
	}, &raw)
	if err != nil {
		t.Fatal(err)
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatal(err)
	}
	if _, ok := fields["password"]; ok {
		t.Fatal("password leaked in registration response")
	}
	if fields["role"] != "viewer" {
		t.Fatal("role should default to viewer:", asJSON(fields))
	}

	login := tokenResponse{}
	_, err = anonymousClient().RawPost("/api/auth/login", map[string]string{
		"email":    "ahmed@port.om",
		"password": "secret-port-password",
	}, &login)
	if err != nil {
		t.Fatal(err)
	}
	if login.TokenType != "bearer" || login.AccessToken == "" {
		t.Fatal("unexpected login response:", asJSON(login))
	}
	if login.User.Email != "ahmed@port.om" {
		t.Fatal("unexpected user in login response:", asJSON(login.User))
	}

	// the token authenticates requests through the middleware
	me := User{}
	_, err = anonymousClient().WithToken(login.AccessToken).RawGet("/api/auth/me", &me)
	if err != nil {
		t.Fatal(err)
	}
	if me.Email != user.Email || me.Domain != user.Domain || me.Role != user.Role {
		t.Fatal("unexpected identity:", asJSON(me))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	create := map[string]string{
		"email":    "duplicate@epc.om",
		"password": "some-password",
		"name":     "First",
		"domain":   "epc",
	}
	_, err := anonymousClient().RawPost("/api/auth/register", create, nil)
	if err != nil {
		t.Fatal(err)
	}

	create["name"] = "Second"
	status, err := anonymousClient().RawPost("/api/auth/register", create, nil)
	if err == nil {
		t.Fatal("duplicate registration accepted")
	}
	if status != http.StatusBadRequest {
		t.Fatal("expected 400, got", status)
	}
}

func TestRegisterValidation(t *testing.T) {
	status, err := anonymousClient().RawPost("/api/auth/register", map[string]string{
		"email":  "nopassword@port.om",
		"name":   "No Password",
		"domain": "port",
	}, nil)
	if err == nil {
		t.Fatal("registration without password accepted")
	}
	if status != http.StatusUnprocessableEntity {
		t.Fatal("expected 422, got", status)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	_, err := anonymousClient().RawPost("/api/auth/register", map[string]string{
		"email":    "salim@logistics.om",
		"password": "correct-password",
		"name":     "Salim Al-Hinai",
		"domain":   "logistics",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	wrongPassword, errPassword := anonymousClient().RawPost("/api/auth/login", map[string]string{
		"email":    "salim@logistics.om",
		"password": "wrong-password",
	}, nil)
	unknownEmail, errEmail := anonymousClient().RawPost("/api/auth/login", map[string]string{
		"email":    "nobody@logistics.om",
		"password": "wrong-password",
	}, nil)
	if errPassword == nil || errEmail == nil {
		t.Fatal("bad credentials accepted")
	}
	if wrongPassword != http.StatusUnauthorized || unknownEmail != http.StatusUnauthorized {
		t.Fatal("expected 401, got", wrongPassword, unknownEmail)
	}
	// the response must not reveal whether the account exists
	if errPassword.Error() != errEmail.Error() {
		t.Fatal("distinguishable error responses:", errPassword, "vs", errEmail)
	}
}

func TestUnauthenticated(t *testing.T) {
	status, err := anonymousClient().RawGet("/api/port/vessels", nil)
	if err == nil {
		t.Fatal("request without token accepted")
	}
	if status != http.StatusUnauthorized {
		t.Fatal("expected 401, got", status)
	}

	status, err = anonymousClient().WithToken("not-a-token").RawGet("/api/port/vessels", nil)
	if err == nil {
		t.Fatal("request with garbage token accepted")
	}
	if status != http.StatusUnauthorized {
		t.Fatal("expected 401, got", status)
	}

	// a token signed with a different secret must fail as well
	forged, err := access.CreateToken("other-secret", "ahmed@port.om", "port")
	if err != nil {
		t.Fatal(err)
	}
	status, err = anonymousClient().WithToken(forged).RawGet("/api/port/vessels", nil)
	if err == nil {
		t.Fatal("request with forged token accepted")
	}
	if status != http.StatusUnauthorized {
		t.Fatal("expected 401, got", status)
	}
}

func TestVessels(t *testing.T) {
	berth := "12"
	vesselNew := VesselData{
		VesselID:    "IMO-9876543",
		VesselName:  "Hydrogen Pioneer",
		Status:      "berthed",
		BerthNumber: &berth,
		CargoType:   "turbine_blades",
	}

	vessel := VesselData{}
	_, err := editorClient("port").RawPost("/api/port/vessels", &vesselNew, &vessel)
	if err != nil {
		t.Fatal(err)
	}
	if vessel.ID == "" {
		t.Fatal("no id")
	}
	if vessel.LastUpdated.IsZero() {
		t.Fatal("last_updated not set")
	}
	if vessel.VesselID != vesselNew.VesselID ||
		vessel.VesselName != vesselNew.VesselName ||
		vessel.Status != vesselNew.Status ||
		vessel.CargoType != vesselNew.CargoType {
		t.Fatal("unexpected result:", asJSON(vessel), "expected:", asJSON(vesselNew))
	}
	if vessel.BerthNumber == nil || *vessel.BerthNumber != berth {
		t.Fatal("berth number lost:", asJSON(vessel))
	}

	vessels := []VesselData{}
	_, err = viewerClient("fleet").RawGet("/api/port/vessels", &vessels)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, v := range vessels {
		if v.ID == vessel.ID {
			found = true
			// the timestamp survives the store round trip
			if !v.LastUpdated.Equal(vessel.LastUpdated.Time) {
				t.Fatal("timestamp mangled:", asJSON(v.LastUpdated), "expected:", asJSON(vessel.LastUpdated))
			}
		}
	}
	if !found {
		t.Fatal("created vessel not in list")
	}
}

func TestVesselsForbidden(t *testing.T) {
	vesselNew := VesselData{
		VesselID:   "IMO-1111111",
		VesselName: "Intruder",
		Status:     "arriving",
		CargoType:  "nacelles",
	}

	// a fleet editor must not publish port data
	status, err := editorClient("fleet").RawPost("/api/port/vessels", &vesselNew, nil)
	if err == nil {
		t.Fatal("cross-domain write accepted")
	}
	if status != http.StatusForbidden {
		t.Fatal("expected 403, got", status)
	}

	vessels := []VesselData{}
	if _, err := editorClient("fleet").RawGet("/api/port/vessels", &vessels); err != nil {
		t.Fatal(err)
	}
	for _, v := range vessels {
		if v.VesselID == vesselNew.VesselID {
			t.Fatal("rejected vessel was persisted")
		}
	}

	// admins write everywhere
	if _, err := testService.client.RawPost("/api/port/vessels", &vesselNew, nil); err != nil {
		t.Fatal(err)
	}
}

func TestVesselValidation(t *testing.T) {
	status, err := editorClient("port").RawPost("/api/port/vessels", map[string]string{
		"vessel_id":   "IMO-2222222",
		"vessel_name": "Incomplete",
		"status":      "arriving",
	}, nil)
	if err == nil {
		t.Fatal("vessel without cargo_type accepted")
	}
	if status != http.StatusUnprocessableEntity {
		t.Fatal("expected 422, got", status)
	}
}

func TestShipments(t *testing.T) {
	shipmentNew := ShipmentData{
		ShipmentID:      "SHP-2026-001",
		VesselID:        "IMO-9876543",
		ComponentType:   "tower_section",
		Status:          "in_transit",
		DestinationSite: "DHH-A",
	}
	shipment := ShipmentData{}
	_, err := editorClient("fleet").RawPost("/api/fleet/shipments", &shipmentNew, &shipment)
	if err != nil {
		t.Fatal(err)
	}
	if shipment.ID == "" || shipment.LastUpdated.IsZero() {
		t.Fatal("unexpected result:", asJSON(shipment))
	}

	status, err := editorClient("port").RawPost("/api/fleet/shipments", &shipmentNew, nil)
	if err == nil || status != http.StatusForbidden {
		t.Fatal("expected 403, got", status)
	}
}

func TestSites(t *testing.T) {
	capacity := 500
	siteNew := SiteData{
		SiteID:            "DHH-C",
		SiteName:          "Duqm Hydrogen Hub C",
		ReadinessStatus:   "preparing",
		ExpectedComponent: "tower_section",
		CapacityMW:        &capacity,
	}
	site := SiteData{}
	_, err := editorClient("epc").RawPost("/api/epc/sites", &siteNew, &site)
	if err != nil {
		t.Fatal(err)
	}
	if site.ID == "" {
		t.Fatal("no id")
	}
	if site.CapacityMW == nil || *site.CapacityMW != capacity {
		t.Fatal("capacity lost:", asJSON(site))
	}

	status, err := editorClient("logistics").RawPost("/api/epc/sites", &siteNew, nil)
	if err == nil || status != http.StatusForbidden {
		t.Fatal("expected 403, got", status)
	}
}

func TestCatalog(t *testing.T) {
	productNew := DataProduct{
		Name:            "vessel-arrivals",
		Domain:          "port",
		Description:     "Vessel arrival and berthing events of the port of Duqm",
		DataType:        "stream",
		Endpoint:        "/api/port/vessels",
		SchemaFields:    []string{"vessel_id", "vessel_name", "status", "eta"},
		UpdateFrequency: "realtime",
		OwnerEmail:      "ahmed@port.om",
		Tags:            []string{"port", "vessels"},
	}

	// the catalog has no write gate, every authenticated user may publish
	product := DataProduct{}
	_, err := viewerClient("epc").RawPost("/api/catalog/products", &productNew, &product)
	if err != nil {
		t.Fatal(err)
	}
	if product.ID == "" || product.CreatedAt.IsZero() {
		t.Fatal("unexpected result:", asJSON(product))
	}

	products := []DataProduct{}
	if _, err := viewerClient("epc").RawGet("/api/catalog/products", &products); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, p := range products {
		found = found || p.ID == product.ID
	}
	if !found {
		t.Fatal("created product not in list")
	}
}

func TestTagTemplates(t *testing.T) {
	templates := []TagTemplate{}
	_, err := viewerClient("port").RawGet("/api/catalog/tag-templates", &templates)
	if err != nil {
		t.Fatal(err)
	}
	if len(templates) != 5 {
		t.Fatal("expected 5 tag templates, got", len(templates))
	}
	ids := map[string]bool{}
	for _, template := range templates {
		ids[template.ID] = true
		if len(template.Fields) == 0 {
			t.Fatal("template without fields:", template.ID)
		}
	}
	for _, id := range []string{"tt-data-product", "tt-data-quality", "tt-streaming-topic", "tt-access-control", "tt-lineage"} {
		if !ids[id] {
			t.Fatal("missing tag template:", id)
		}
	}
}

func TestEvents(t *testing.T) {
	first := VesselData{
		VesselID:   "IMO-3333333",
		VesselName: "Event One",
		Status:     "arriving",
		CargoType:  "blades",
	}
	second := first
	second.VesselID = "IMO-4444444"
	second.VesselName = "Event Two"

	porter := editorClient("port")
	if _, err := porter.RawPost("/api/port/vessels", &first, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := porter.RawPost("/api/port/vessels", &second, nil); err != nil {
		t.Fatal(err)
	}

	events := []EventLog{}
	if _, err := porter.RawGet("/api/events", &events); err != nil {
		t.Fatal(err)
	}
	if len(events) < 2 {
		t.Fatal("expected at least 2 events, got", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.After(events[i-1].Timestamp.Time) {
			t.Fatal("events not sorted newest first")
		}
	}

	var vesselEvent *EventLog
	for i := range events {
		if events[i].EventType == "vessel_update" && events[i].Description == "Vessel Event Two status: arriving" {
			vesselEvent = &events[i]
			break
		}
	}
	if vesselEvent == nil {
		t.Fatal("vessel_update event not logged")
	}
	if vesselEvent.Domain != "port" {
		t.Fatal("unexpected event domain:", asJSON(vesselEvent))
	}
	if len(vesselEvent.TriggeredActions) != 1 || vesselEvent.TriggeredActions[0] != "notify_fleet" {
		t.Fatal("unexpected triggered actions:", asJSON(vesselEvent))
	}
}

func TestDashboardStats(t *testing.T) {
	stats := map[string]interface{}{}
	_, err := viewerClient("port").RawGet("/api/dashboard/stats", &stats)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{
		"total_vessels", "vessels_in_port", "total_shipments", "shipments_in_transit",
		"total_sites", "sites_ready", "data_products", "total_routes",
		"total_permits", "permits_pending",
	} {
		if _, ok := stats[key]; !ok {
			t.Fatal("missing key:", key, "in", asJSON(stats))
		}
	}
	// the vessel tests above have already published vessels
	if stats["total_vessels"].(float64) < 1 {
		t.Fatal("vessel count missing from dashboard:", asJSON(stats))
	}
}

func TestPlatform(t *testing.T) {
	capability := PlatformCapability{
		ID:          uuid.New().String(),
		Name:        "Schema Registry",
		Category:    "governance",
		Description: "Central registry for event and dataset schemas",
		Features:    []string{"versioning", "compatibility checks"},
		Status:      "available",
		UsageCount:  4,
	}
	ctx := context.Background()
	if _, err := testService.db.Collection(cdb.CollectionPlatformCapabilities).InsertOne(ctx, capability); err != nil {
		t.Fatal(err)
	}

	capabilities := []PlatformCapability{}
	if _, err := viewerClient("port").RawGet("/api/platform/capabilities", &capabilities); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, c := range capabilities {
		found = found || c.ID == capability.ID
	}
	if !found {
		t.Fatal("capability not in list")
	}

	stats := map[string]interface{}{}
	if _, err := viewerClient("port").RawGet("/api/platform/stats", &stats); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{
		"total_data_products", "total_contracts", "total_capabilities",
		"active_capabilities", "products_by_domain",
	} {
		if _, ok := stats[key]; !ok {
			t.Fatal("missing key:", key, "in", asJSON(stats))
		}
	}
	if stats["total_capabilities"].(float64) < 1 {
		t.Fatal("capability count missing:", asJSON(stats))
	}
}

func TestQualityAndLineage(t *testing.T) {
	metricNew := QualityMetric{
		DataProductID: "dp-port-vessels",
		MetricType:    "completeness",
		Value:         99.2,
		Threshold:     95,
		Status:        "passing",
	}
	metric := QualityMetric{}
	_, err := viewerClient("port").RawPost("/api/quality/metrics", &metricNew, &metric)
	if err != nil {
		t.Fatal(err)
	}
	if metric.ID == "" || metric.MeasuredAt.IsZero() {
		t.Fatal("unexpected result:", asJSON(metric))
	}

	lineageNew := DataLineage{
		SourceProductID:           "dp-port-vessels",
		TargetProductID:           "dp-fleet-eta",
		RelationshipType:          "derived",
		TransformationDescription: "ETA prediction joins vessel positions with berth schedules",
	}
	lineage := DataLineage{}
	if _, err := viewerClient("fleet").RawPost("/api/lineage", &lineageNew, &lineage); err != nil {
		t.Fatal(err)
	}
	if lineage.ID == "" {
		t.Fatal("no id")
	}

	lineages := []DataLineage{}
	if _, err := viewerClient("fleet").RawGet("/api/lineage", &lineages); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, l := range lineages {
		found = found || l.ID == lineage.ID
	}
	if !found {
		t.Fatal("created lineage not in list")
	}
}
