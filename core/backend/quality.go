package backend

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/relabs-tech/meshportal/core"
	"github.com/relabs-tech/meshportal/core/cdb"
)

// QualityMetric is a measured quality value for a data product
type QualityMetric struct {
	ID            string    `json:"id" bson:"id"`
	DataProductID string    `json:"data_product_id" bson:"data_product_id"`
	MetricType    string    `json:"metric_type" bson:"metric_type"`
	Value         float64   `json:"value" bson:"value"`
	Threshold     float64   `json:"threshold" bson:"threshold"`
	Status        string    `json:"status" bson:"status"`
	MeasuredAt    core.Time `json:"measured_at" bson:"measured_at"`
}

// DataLineage is a directed edge between two data products
type DataLineage struct {
	ID                        string `json:"id" bson:"id"`
	SourceProductID           string `json:"source_product_id" bson:"source_product_id"`
	TargetProductID           string `json:"target_product_id" bson:"target_product_id"`
	RelationshipType          string `json:"relationship_type" bson:"relationship_type"`
	TransformationDescription string `json:"transformation_description" bson:"transformation_description"`
}

func (b *Backend) getQualityMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := []QualityMetric{}
	if err := b.list(r.Context(), cdb.CollectionQualityMetrics, bson.M{}, &metrics); err != nil {
		b.internalError(w, r, 4901, err, "cannot list quality metrics")
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

func (b *Backend) createQualityMetric(w http.ResponseWriter, r *http.Request) {
	var metric QualityMetric
	if !b.decode(w, r, cdb.CollectionQualityMetrics, &metric) {
		return
	}
	assignID(&metric.ID)
	if metric.MeasuredAt.IsZero() {
		metric.MeasuredAt = core.Now()
	}
	if _, err := b.db.Collection(cdb.CollectionQualityMetrics).InsertOne(r.Context(), metric); err != nil {
		b.internalError(w, r, 4902, err, "cannot insert quality metric")
		return
	}
	writeJSON(w, http.StatusOK, metric)
}

func (b *Backend) getLineages(w http.ResponseWriter, r *http.Request) {
	lineages := []DataLineage{}
	if err := b.list(r.Context(), cdb.CollectionDataLineages, bson.M{}, &lineages); err != nil {
		b.internalError(w, r, 4903, err, "cannot list data lineage")
		return
	}
	writeJSON(w, http.StatusOK, lineages)
}

func (b *Backend) createLineage(w http.ResponseWriter, r *http.Request) {
	var lineage DataLineage
	if !b.decode(w, r, cdb.CollectionDataLineages, &lineage) {
		return
	}
	assignID(&lineage.ID)
	if _, err := b.db.Collection(cdb.CollectionDataLineages).InsertOne(r.Context(), lineage); err != nil {
		b.internalError(w, r, 4904, err, "cannot insert data lineage")
		return
	}
	writeJSON(w, http.StatusOK, lineage)
}
