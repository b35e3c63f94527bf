package backend

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/relabs-tech/meshportal/core"
	"github.com/relabs-tech/meshportal/core/cdb"
)

// DataProduct is a catalog entry describing a discoverable data asset
type DataProduct struct {
	ID              string    `json:"id" bson:"id"`
	Name            string    `json:"name" bson:"name"`
	Domain          string    `json:"domain" bson:"domain"`
	Description     string    `json:"description" bson:"description"`
	DataType        string    `json:"data_type" bson:"data_type"`
	Endpoint        string    `json:"endpoint" bson:"endpoint"`
	SchemaFields    []string  `json:"schema_fields" bson:"schema_fields"`
	UpdateFrequency string    `json:"update_frequency" bson:"update_frequency"`
	OwnerEmail      string    `json:"owner_email" bson:"owner_email"`
	Tags            []string  `json:"tags" bson:"tags"`
	CreatedAt       core.Time `json:"created_at" bson:"created_at"`
}

func (b *Backend) getDataProducts(w http.ResponseWriter, r *http.Request) {
	products := []DataProduct{}
	if err := b.list(r.Context(), cdb.CollectionDataCatalog, bson.M{}, &products); err != nil {
		b.internalError(w, r, 4331, err, "cannot list data products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// any authenticated user may publish to the catalog
func (b *Backend) createDataProduct(w http.ResponseWriter, r *http.Request) {
	var product DataProduct
	if !b.decode(w, r, cdb.CollectionDataCatalog, &product) {
		return
	}
	assignID(&product.ID)
	if product.CreatedAt.IsZero() {
		product.CreatedAt = core.Now()
	}
	if _, err := b.db.Collection(cdb.CollectionDataCatalog).InsertOne(r.Context(), product); err != nil {
		b.internalError(w, r, 4332, err, "cannot insert data product")
		return
	}
	writeJSON(w, http.StatusOK, product)
}
