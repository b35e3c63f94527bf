// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/relabs-tech/meshportal/core"
	"github.com/relabs-tech/meshportal/core/access"
	"github.com/relabs-tech/meshportal/core/cdb"
)

// OutputPort describes how a data product exposes its data
type OutputPort struct {
	Format      string `json:"format" bson:"format"`
	Protocol    string `json:"protocol" bson:"protocol"`
	Location    string `json:"location" bson:"location"`
	Description string `json:"description" bson:"description"`
}

// InputPort describes a source the data product consumes
type InputPort struct {
	SourceType   string `json:"source_type" bson:"source_type"`
	SourceName   string `json:"source_name" bson:"source_name"`
	SourceDomain string `json:"source_domain" bson:"source_domain"`
	Format       string `json:"format" bson:"format"`
	Protocol     string `json:"protocol" bson:"protocol"`
	Description  string `json:"description" bson:"description"`
}

// DataModelField is one field of the canvas data model
type DataModelField struct {
	Name          string   `json:"name" bson:"name"`
	DataType      string   `json:"data_type" bson:"data_type"`
	Description   string   `json:"description" bson:"description"`
	Constraints   []string `json:"constraints" bson:"constraints"`
	IsPII         bool     `json:"is_pii" bson:"is_pii"`
	IsBusinessKey bool     `json:"is_business_key" bson:"is_business_key"`
	IsJoinKey     bool     `json:"is_join_key" bson:"is_join_key"`
}

// QualityCheck is an automated check the data product promises to run
type QualityCheck struct {
	CheckName   string   `json:"check_name" bson:"check_name"`
	CheckType   string   `json:"check_type" bson:"check_type"`
	Expression  string   `json:"expression" bson:"expression"`
	Threshold   *float64 `json:"threshold" bson:"threshold"`
	Description string   `json:"description" bson:"description"`
}

// SLADefinition captures the operational promises of the data product
type SLADefinition struct {
	Availability    string `json:"availability" bson:"availability"`
	SupportHours    string `json:"support_hours" bson:"support_hours"`
	RetentionPeriod string `json:"retention_period" bson:"retention_period"`
	BackupFrequency string `json:"backup_frequency" bson:"backup_frequency"`
	ResponseTime    string `json:"response_time" bson:"response_time"`
}

// SecurityDefinition captures access level and pii handling
type SecurityDefinition struct {
	AccessLevel      string   `json:"access_level" bson:"access_level"`
	ApprovalRequired bool     `json:"approval_required" bson:"approval_required"`
	AllowedRoles     []string `json:"allowed_roles" bson:"allowed_roles"`
	AllowedDomains   []string `json:"allowed_domains" bson:"allowed_domains"`
	PIIHandling      string   `json:"pii_handling" bson:"pii_handling"`
}

// DataProductArchitecture describes how the data product is built
type DataProductArchitecture struct {
	ProcessingType      string   `json:"processing_type" bson:"processing_type"`
	Framework           string   `json:"framework" bson:"framework"`
	StorageType         string   `json:"storage_type" bson:"storage_type"`
	QueryEngine         string   `json:"query_engine" bson:"query_engine"`
	TransformationSteps []string `json:"transformation_steps" bson:"transformation_steps"`
	SchedulingTool      string   `json:"scheduling_tool" bson:"scheduling_tool"`
	MonitoringTool      string   `json:"monitoring_tool" bson:"monitoring_tool"`
	EstimatedCost       *string  `json:"estimated_cost" bson:"estimated_cost"`
}

// UseCase is a business use case the data product serves
type UseCase struct {
	Name              string   `json:"name" bson:"name"`
	Description       string   `json:"description" bson:"description"`
	BusinessObjective string   `json:"business_objective" bson:"business_objective"`
	SuccessMetrics    []string `json:"success_metrics" bson:"success_metrics"`
}

// Consumer is a party consuming the data product
type Consumer struct {
	Name     string   `json:"name" bson:"name"`
	Domain   string   `json:"domain" bson:"domain"`
	Role     string   `json:"role" bson:"role"`
	UseCases []string `json:"use_cases" bson:"use_cases"`
}

// DataProductCanvas is the full design canvas of a data product, from
// ownership and consumers over the data contract sections down to the
// implementing architecture.
type DataProductCanvas struct {
	ID string `json:"id" bson:"id"`

	Name       string `json:"name" bson:"name"`
	Domain     string `json:"domain" bson:"domain"`
	OwnerName  string `json:"owner_name" bson:"owner_name"`
	OwnerEmail string `json:"owner_email" bson:"owner_email"`
	Date       string `json:"date" bson:"date"`
	Version    string `json:"version" bson:"version"`

	Description string `json:"description" bson:"description"`

	// source-aligned, aggregate or consumer-aligned
	Classification string `json:"classification" bson:"classification"`

	Consumers []Consumer `json:"consumers" bson:"consumers"`
	UseCases  []UseCase  `json:"use_cases" bson:"use_cases"`

	OutputPorts   []OutputPort       `json:"output_ports" bson:"output_ports"`
	Terms         string             `json:"terms" bson:"terms"`
	DataModel     []DataModelField   `json:"data_model" bson:"data_model"`
	QualityChecks []QualityCheck     `json:"quality_checks" bson:"quality_checks"`
	SLA           SLADefinition      `json:"sla" bson:"sla"`
	Security      SecurityDefinition `json:"security" bson:"security"`

	InputPorts []InputPort `json:"input_ports" bson:"input_ports"`

	Architecture DataProductArchitecture `json:"architecture" bson:"architecture"`

	UbiquitousLanguage map[string]string `json:"ubiquitous_language" bson:"ubiquitous_language"`

	Status          string     `json:"status" bson:"status"`
	CreatedAt       core.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt       *core.Time `json:"updated_at" bson:"updated_at"`
	FollowUpActions []string   `json:"follow_up_actions" bson:"follow_up_actions"`
	FollowUpDate    *string    `json:"follow_up_date" bson:"follow_up_date"`
}

func (b *Backend) getCanvases(w http.ResponseWriter, r *http.Request) {
	canvases := []DataProductCanvas{}
	if err := b.list(r.Context(), cdb.CollectionDataProductCanvases, bson.M{}, &canvases); err != nil {
		b.internalError(w, r, 4401, err, "cannot list canvases")
		return
	}
	writeJSON(w, http.StatusOK, canvases)
}

func (b *Backend) getCanvasesByDomain(w http.ResponseWriter, r *http.Request) {
	domain := mux.Vars(r)["domain"]
	canvases := []DataProductCanvas{}
	if err := b.list(r.Context(), cdb.CollectionDataProductCanvases, bson.M{"domain": domain}, &canvases); err != nil {
		b.internalError(w, r, 4402, err, "cannot list canvases by domain")
		return
	}
	writeJSON(w, http.StatusOK, canvases)
}

func (b *Backend) getCanvas(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var canvas DataProductCanvas
	err := b.db.Collection(cdb.CollectionDataProductCanvases).
		FindOne(r.Context(), bson.M{"id": id}).Decode(&canvas)
	if err == mongo.ErrNoDocuments {
		writeDetail(w, http.StatusNotFound, "Canvas not found")
		return
	}
	if err != nil {
		b.internalError(w, r, 4403, err, "cannot read canvas")
		return
	}
	writeJSON(w, http.StatusOK, canvas)
}

func (b *Backend) createCanvas(w http.ResponseWriter, r *http.Request) {
	var canvas DataProductCanvas
	if !b.decode(w, r, cdb.CollectionDataProductCanvases, &canvas) {
		return
	}
	assignID(&canvas.ID)
	if len(canvas.Status) == 0 {
		canvas.Status = "draft"
	}
	if canvas.CreatedAt.IsZero() {
		canvas.CreatedAt = core.Now()
	}
	if canvas.FollowUpActions == nil {
		canvas.FollowUpActions = []string{}
	}

	if _, err := b.db.Collection(cdb.CollectionDataProductCanvases).InsertOne(r.Context(), canvas); err != nil {
		b.internalError(w, r, 4404, err, "cannot insert canvas")
		return
	}
	b.logEvent(r.Context(), "canvas_created", canvas.Domain, canvas.ID,
		fmt.Sprintf("Data Product Canvas '%s' created", canvas.Name),
		[]string{"notify_governance", "update_catalog"})

	writeJSON(w, http.StatusOK, canvas)
}

// updateCanvas replaces the canvas document, keeping id and created_at
// and stamping updated_at. Last write wins.
func (b *Backend) updateCanvas(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx := r.Context()

	var existing struct {
		CreatedAt core.Time `bson:"created_at"`
	}
	err := b.db.Collection(cdb.CollectionDataProductCanvases).
		FindOne(ctx, bson.M{"id": id}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		writeDetail(w, http.StatusNotFound, "Canvas not found")
		return
	}
	if err != nil {
		b.internalError(w, r, 4405, err, "cannot read canvas")
		return
	}

	var canvas DataProductCanvas
	if !b.decode(w, r, cdb.CollectionDataProductCanvases, &canvas) {
		return
	}
	canvas.ID = id
	canvas.CreatedAt = existing.CreatedAt
	now := core.Now()
	canvas.UpdatedAt = &now

	_, err = b.db.Collection(cdb.CollectionDataProductCanvases).
		ReplaceOne(ctx, bson.M{"id": id}, canvas)
	if err != nil {
		b.internalError(w, r, 4406, err, "cannot replace canvas")
		return
	}
	b.logEvent(ctx, "canvas_updated", canvas.Domain, id,
		fmt.Sprintf("Data Product Canvas '%s' updated to v%s", canvas.Name, canvas.Version),
		[]string{"notify_consumers", "review_changes"})

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Canvas updated successfully",
		"id":      id,
	})
}

// deleteCanvas physically removes the canvas, unlike contracts which are
// only deprecated
func (b *Backend) deleteCanvas(w http.ResponseWriter, r *http.Request) {
	auth := access.AuthorizationFromContext(r.Context())
	if !auth.HasRole(core.RoleAdmin) {
		writeDetail(w, http.StatusForbidden, "Admin access required")
		return
	}
	id := mux.Vars(r)["id"]
	result, err := b.db.Collection(cdb.CollectionDataProductCanvases).
		DeleteOne(r.Context(), bson.M{"id": id})
	if err != nil {
		b.internalError(w, r, 4407, err, "cannot delete canvas")
		return
	}
	if result.DeletedCount == 0 {
		writeDetail(w, http.StatusNotFound, "Canvas not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Canvas deleted successfully"})
}

func (b *Backend) getCanvasStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	collection := cdb.CollectionDataProductCanvases

	var total, active, draft, deprecated int64
	var sourceAligned, aggregate, consumerAligned int64
	var port, fleet, epc, logistics int64

	type countQuery struct {
		filter bson.M
		result *int64
	}
	queries := []countQuery{
		{bson.M{}, &total},
		{bson.M{"status": "active"}, &active},
		{bson.M{"status": "draft"}, &draft},
		{bson.M{"status": "deprecated"}, &deprecated},
		{bson.M{"classification": "source-aligned"}, &sourceAligned},
		{bson.M{"classification": "aggregate"}, &aggregate},
		{bson.M{"classification": "consumer-aligned"}, &consumerAligned},
		{bson.M{"domain": "port"}, &port},
		{bson.M{"domain": "fleet"}, &fleet},
		{bson.M{"domain": "epc"}, &epc},
		{bson.M{"domain": "logistics"}, &logistics},
	}
	for _, q := range queries {
		n, err := b.count(ctx, collection, q.filter)
		if err != nil {
			b.internalError(w, r, 4408, err, "cannot count canvases")
			return
		}
		*q.result = n
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total": total,
		"by_status": map[string]int64{
			"active":     active,
			"draft":      draft,
			"deprecated": deprecated,
		},
		"by_classification": map[string]int64{
			"source_aligned":   sourceAligned,
			"aggregate":        aggregate,
			"consumer_aligned": consumerAligned,
		},
		"by_domain": map[string]int64{
			"port":      port,
			"fleet":     fleet,
			"epc":       epc,
			"logistics": logistics,
		},
	})
}
