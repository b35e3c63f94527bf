package backend

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/relabs-tech/meshportal/core"
	"github.com/relabs-tech/meshportal/core/access"
	"github.com/relabs-tech/meshportal/core/cdb"
)

// DomainJourney tracks a domain's maturity on its way into the mesh
type DomainJourney struct {
	ID                    string    `json:"id" bson:"id"`
	DomainName            string    `json:"domain_name" bson:"domain_name"`
	CurrentLevel          int       `json:"current_level" bson:"current_level"`
	LevelDescription      string    `json:"level_description" bson:"level_description"`
	DataProductsPublished int       `json:"data_products_published" bson:"data_products_published"`
	DataProductsConsumed  int       `json:"data_products_consumed" bson:"data_products_consumed"`
	JourneyStarted        string    `json:"journey_started" bson:"journey_started"`
	LastUpdated           core.Time `json:"last_updated" bson:"last_updated"`
}

var levelDescriptions = map[int]string{
	1: "Data Consumer - Consuming data from other domains",
	2: "Data Aware - Understanding data needs and dependencies",
	3: "Data Producer - Publishing initial data products",
	4: "Data Mesh Contributor - Active participant in the mesh ecosystem",
	5: "Data Mesh Leader - Driving data mesh excellence",
}

func (b *Backend) getDomainJourneys(w http.ResponseWriter, r *http.Request) {
	journeys := []DomainJourney{}
	if err := b.list(r.Context(), cdb.CollectionDomainJourneys, bson.M{}, &journeys); err != nil {
		b.internalError(w, r, 4801, err, "cannot list domain journeys")
		return
	}
	writeJSON(w, http.StatusOK, journeys)
}

func (b *Backend) getDomainJourney(w http.ResponseWriter, r *http.Request) {
	domain := mux.Vars(r)["domain"]
	var journey DomainJourney
	err := b.db.Collection(cdb.CollectionDomainJourneys).
		FindOne(r.Context(), bson.M{"domain_name": domain}).Decode(&journey)
	if err == mongo.ErrNoDocuments {
		writeDetail(w, http.StatusNotFound, "Domain journey not found")
		return
	}
	if err != nil {
		b.internalError(w, r, 4802, err, "cannot read domain journey")
		return
	}
	writeJSON(w, http.StatusOK, journey)
}

// updateDomainLevel sets a domain's maturity level. The new level is the
// new_level query parameter. An unknown domain is not an error, the
// update simply matches nothing.
func (b *Backend) updateDomainLevel(w http.ResponseWriter, r *http.Request) {
	auth := access.AuthorizationFromContext(r.Context())
	if !auth.HasRole(core.RoleAdmin) {
		writeDetail(w, http.StatusForbidden, "Admin access required")
		return
	}
	newLevel, err := strconv.Atoi(r.URL.Query().Get("new_level"))
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "query parameter new_level must be an integer")
		return
	}
	domain := mux.Vars(r)["domain"]
	ctx := r.Context()

	description, ok := levelDescriptions[newLevel]
	if !ok {
		description = "Unknown level"
	}
	_, err = b.db.Collection(cdb.CollectionDomainJourneys).UpdateOne(ctx,
		bson.M{"domain_name": domain},
		bson.M{"$set": bson.M{
			"current_level":     newLevel,
			"level_description": description,
			"last_updated":      core.Now(),
		}})
	if err != nil {
		b.internalError(w, r, 4803, err, "cannot update domain journey")
		return
	}
	b.logEvent(ctx, "domain_level_update", domain, domain,
		fmt.Sprintf("Domain %s reached maturity level %d", domain, newLevel),
		[]string{"notify_governance", "update_metrics"})

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Domain %s updated to level %d", domain, newLevel),
	})
}
