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

// SiteData is a construction site readiness record published by the epc
// domain
type SiteData struct {
	ID                string    `json:"id" bson:"id"`
	SiteID            string    `json:"site_id" bson:"site_id"`
	SiteName          string    `json:"site_name" bson:"site_name"`
	ReadinessStatus   string    `json:"readiness_status" bson:"readiness_status"`
	ExpectedComponent string    `json:"expected_component" bson:"expected_component"`
	CapacityMW        *int      `json:"capacity_mw" bson:"capacity_mw"`
	TurbinesPlanned   *int      `json:"turbines_planned" bson:"turbines_planned"`
	TurbinesInstalled *int      `json:"turbines_installed" bson:"turbines_installed"`
	Contractor        *string   `json:"contractor" bson:"contractor"`
	LastUpdated       core.Time `json:"last_updated" bson:"last_updated"`
}

func (b *Backend) getSites(w http.ResponseWriter, r *http.Request) {
	sites := []SiteData{}
	if err := b.list(r.Context(), cdb.CollectionEPCSites, bson.M{}, &sites); err != nil {
		b.internalError(w, r, 4321, err, "cannot list sites")
		return
	}
	writeJSON(w, http.StatusOK, sites)
}

func (b *Backend) createSite(w http.ResponseWriter, r *http.Request) {
	auth := access.AuthorizationFromContext(r.Context())
	if !auth.CanWriteDomain("epc") {
		writeDetail(w, http.StatusForbidden, "Not authorized")
		return
	}
	var site SiteData
	if !b.decode(w, r, cdb.CollectionEPCSites, &site) {
		return
	}
	assignID(&site.ID)
	if site.LastUpdated.IsZero() {
		site.LastUpdated = core.Now()
	}

	if _, err := b.db.Collection(cdb.CollectionEPCSites).InsertOne(r.Context(), site); err != nil {
		b.internalError(w, r, 4322, err, "cannot insert site")
		return
	}
	b.logEvent(r.Context(), "site_update", "epc", site.ID,
		fmt.Sprintf("Site %s readiness: %s", site.SiteName, site.ReadinessStatus),
		[]string{"notify_fleet", "enable_shipping"})

	writeJSON(w, http.StatusOK, site)
}
