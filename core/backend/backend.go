// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

/*Package backend realizes the data mesh portal's REST api on top of the
mongo store: domain resources for port, fleet, epc and logistics, the
data product catalog with canvases and contracts, governance metadata,
and the audit event log. One file per domain area, each holding that
area's models and handlers.
*/
package backend

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/relabs-tech/meshportal/core"
	"github.com/relabs-tech/meshportal/core/access"
	"github.com/relabs-tech/meshportal/core/cdb"
	"github.com/relabs-tech/meshportal/core/logger"
	"github.com/relabs-tech/meshportal/core/schema"
)

// Builder is a builder helper for the Backend
type Builder struct {
	// DB is the portal database
	DB *cdb.DB
	// Router is a mux router. The backend registers all its routes with it,
	// prefixed with /api.
	Router *mux.Router
	// JWTSecret is the HS256 secret access tokens are signed with
	JWTSecret string
	// Notifier receives audit events in addition to the event log.
	// Optional.
	Notifier core.Notifier
}

// Backend is the portal backend
type Backend struct {
	db        *cdb.DB
	jwtSecret string
	notifier  core.Notifier
	validator *schema.Validator
}

// New realizes the portal backend. It registers all api routes with the
// builder's router and installs the bearer-token middleware in front of
// them; registration, login and the api banner pass through without a
// token.
func New(bb *Builder) *Backend {
	if bb.DB == nil {
		panic("backend builder: DB is missing")
	}
	if bb.Router == nil {
		panic("backend builder: Router is missing")
	}
	if len(bb.JWTSecret) == 0 {
		panic("backend builder: JWTSecret is missing")
	}

	validator, err := schema.NewValidator(resourceSchemas)
	if err != nil {
		panic(err)
	}

	b := &Backend{
		db:        bb.DB,
		jwtSecret: bb.JWTSecret,
		notifier:  bb.Notifier,
		validator: validator,
	}

	logger.AddRequestID(bb.Router)

	api := bb.Router.PathPrefix("/api").Subrouter()
	api.Use(access.NewTokenMiddleware(&access.TokenMiddlewareBuilder{
		DB:     bb.DB,
		Secret: bb.JWTSecret,
		SkipPaths: []string{
			"/api",
			"/api/",
			"/api/auth/register",
			"/api/auth/login",
		},
	}))
	b.routes(api)
	return b
}

func (b *Backend) routes(api *mux.Router) {
	api.HandleFunc("", b.root).Methods(http.MethodGet)
	api.HandleFunc("/", b.root).Methods(http.MethodGet)

	api.HandleFunc("/auth/register", b.register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", b.login).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", b.me).Methods(http.MethodGet)

	api.HandleFunc("/port/vessels", b.getVessels).Methods(http.MethodGet)
	api.HandleFunc("/port/vessels", b.createVessel).Methods(http.MethodPost)
	api.HandleFunc("/fleet/shipments", b.getShipments).Methods(http.MethodGet)
	api.HandleFunc("/fleet/shipments", b.createShipment).Methods(http.MethodPost)
	api.HandleFunc("/epc/sites", b.getSites).Methods(http.MethodGet)
	api.HandleFunc("/epc/sites", b.createSite).Methods(http.MethodPost)

	api.HandleFunc("/catalog/products", b.getDataProducts).Methods(http.MethodGet)
	api.HandleFunc("/catalog/products", b.createDataProduct).Methods(http.MethodPost)
	api.HandleFunc("/catalog/tag-templates", b.getTagTemplates).Methods(http.MethodGet)

	// the static sub-routes must be registered before /canvas/{id}
	api.HandleFunc("/canvas", b.getCanvases).Methods(http.MethodGet)
	api.HandleFunc("/canvas", b.createCanvas).Methods(http.MethodPost)
	api.Handle("/canvas/stats", handlers.CompressHandler(http.HandlerFunc(b.getCanvasStats))).Methods(http.MethodGet)
	api.HandleFunc("/canvas/domain/{domain}", b.getCanvasesByDomain).Methods(http.MethodGet)
	api.HandleFunc("/canvas/{id}", b.getCanvas).Methods(http.MethodGet)
	api.HandleFunc("/canvas/{id}", b.updateCanvas).Methods(http.MethodPut)
	api.HandleFunc("/canvas/{id}", b.deleteCanvas).Methods(http.MethodDelete)

	api.HandleFunc("/contracts", b.getContracts).Methods(http.MethodGet)
	api.HandleFunc("/contracts", b.createContract).Methods(http.MethodPost)
	api.Handle("/contracts/stats/summary", handlers.CompressHandler(http.HandlerFunc(b.getContractStats))).Methods(http.MethodGet)
	api.HandleFunc("/contracts/{id}", b.getContract).Methods(http.MethodGet)
	api.HandleFunc("/contracts/{id}", b.updateContract).Methods(http.MethodPut)
	api.HandleFunc("/contracts/{id}", b.deleteContract).Methods(http.MethodDelete)
	api.HandleFunc("/contracts/{id}/yaml", b.getContractYAML).Methods(http.MethodGet)
	api.HandleFunc("/contracts/{id}/consumers", b.addContractConsumer).Methods(http.MethodPost)

	api.HandleFunc("/governance/mappings", b.getMappings).Methods(http.MethodGet)
	api.HandleFunc("/governance/mappings", b.createMapping).Methods(http.MethodPost)
	api.HandleFunc("/governance/policies", b.getPolicies).Methods(http.MethodGet)
	api.HandleFunc("/governance/policies", b.createPolicy).Methods(http.MethodPost)
	api.HandleFunc("/governance/compliance", b.getComplianceRules).Methods(http.MethodGet)
	api.HandleFunc("/governance/compliance", b.createComplianceRule).Methods(http.MethodPost)
	api.HandleFunc("/governance/standards", b.getStandards).Methods(http.MethodGet)
	api.HandleFunc("/governance/standards", b.createStandard).Methods(http.MethodPost)
	api.Handle("/governance/dashboard", handlers.CompressHandler(http.HandlerFunc(b.getGovernanceDashboard))).Methods(http.MethodGet)

	api.HandleFunc("/logistics/routes", b.getRoutes).Methods(http.MethodGet)
	api.HandleFunc("/logistics/routes", b.createRoute).Methods(http.MethodPost)
	api.HandleFunc("/logistics/permits", b.getPermits).Methods(http.MethodGet)
	api.HandleFunc("/logistics/permits", b.createPermit).Methods(http.MethodPost)
	api.HandleFunc("/logistics/permits/{id}", b.updatePermit).Methods(http.MethodPut)
	api.HandleFunc("/logistics/weather", b.getWeatherForecasts).Methods(http.MethodGet)
	api.HandleFunc("/logistics/weather", b.createWeatherForecast).Methods(http.MethodPost)
	api.HandleFunc("/logistics/assembly-areas", b.getAssemblyAreas).Methods(http.MethodGet)
	api.HandleFunc("/logistics/assembly-areas", b.createAssemblyArea).Methods(http.MethodPost)

	api.HandleFunc("/domains/journey", b.getDomainJourneys).Methods(http.MethodGet)
	api.HandleFunc("/domains/journey/{domain}", b.getDomainJourney).Methods(http.MethodGet)
	api.HandleFunc("/domains/journey/{domain}/level", b.updateDomainLevel).Methods(http.MethodPut)

	api.HandleFunc("/quality/metrics", b.getQualityMetrics).Methods(http.MethodGet)
	api.HandleFunc("/quality/metrics", b.createQualityMetric).Methods(http.MethodPost)
	api.HandleFunc("/lineage", b.getLineages).Methods(http.MethodGet)
	api.HandleFunc("/lineage", b.createLineage).Methods(http.MethodPost)

	api.HandleFunc("/platform/capabilities", b.getCapabilities).Methods(http.MethodGet)
	api.Handle("/platform/stats", handlers.CompressHandler(http.HandlerFunc(b.getPlatformStats))).Methods(http.MethodGet)

	api.HandleFunc("/events", b.getEvents).Methods(http.MethodGet)
	api.Handle("/dashboard/stats", handlers.CompressHandler(http.HandlerFunc(b.getDashboardStats))).Methods(http.MethodGet)
}

func (b *Backend) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Oman National Hydrogen Data Mesh API"})
}
