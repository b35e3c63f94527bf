package backend

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/relabs-tech/meshportal/core/cdb"
)

// PlatformCapability is a self-serve capability the platform offers to
// domain teams. Capabilities are maintained by the seeder, the api only
// reads them.
type PlatformCapability struct {
	ID          string   `json:"id" bson:"id"`
	Name        string   `json:"name" bson:"name"`
	Category    string   `json:"category" bson:"category"`
	Description string   `json:"description" bson:"description"`
	Features    []string `json:"features" bson:"features"`
	Status      string   `json:"status" bson:"status"`
	UsageCount  int      `json:"usage_count" bson:"usage_count"`
}

func (b *Backend) getCapabilities(w http.ResponseWriter, r *http.Request) {
	capabilities := []PlatformCapability{}
	if err := b.list(r.Context(), cdb.CollectionPlatformCapabilities, bson.M{}, &capabilities); err != nil {
		b.internalError(w, r, 4911, err, "cannot list platform capabilities")
		return
	}
	writeJSON(w, http.StatusOK, capabilities)
}

func (b *Backend) getPlatformStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := b.count(ctx, cdb.CollectionDataCatalog, bson.M{})
	if err != nil {
		b.internalError(w, r, 4912, err, "cannot count data products")
		return
	}
	contracts, err := b.count(ctx, cdb.CollectionDataContracts, bson.M{})
	if err != nil {
		b.internalError(w, r, 4913, err, "cannot count contracts")
		return
	}
	capabilities, err := b.count(ctx, cdb.CollectionPlatformCapabilities, bson.M{})
	if err != nil {
		b.internalError(w, r, 4914, err, "cannot count platform capabilities")
		return
	}
	activeCapabilities, err := b.count(ctx, cdb.CollectionPlatformCapabilities, bson.M{"status": "active"})
	if err != nil {
		b.internalError(w, r, 4915, err, "cannot count active platform capabilities")
		return
	}

	byDomain := map[string]int64{}
	for _, domain := range []string{"port", "fleet", "epc", "logistics"} {
		n, err := b.count(ctx, cdb.CollectionDataCatalog, bson.M{"domain": domain})
		if err != nil {
			b.internalError(w, r, 4916, err, "cannot count data products by domain")
			return
		}
		byDomain[domain] = n
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_data_products": products,
		"total_contracts":     contracts,
		"total_capabilities":  capabilities,
		"active_capabilities": activeCapabilities,
		"products_by_domain":  byDomain,
	})
}
