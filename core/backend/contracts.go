// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/yaml.v3"

	"github.com/relabs-tech/meshportal/core"
	"github.com/relabs-tech/meshportal/core/access"
	"github.com/relabs-tech/meshportal/core/cdb"
)

// ContractProvider identifies the providing team and its output port
type ContractProvider struct {
	Name       string `json:"name" bson:"name" yaml:"name"`
	Email      string `json:"email" bson:"email" yaml:"email"`
	Team       string `json:"team" bson:"team" yaml:"team"`
	Domain     string `json:"domain" bson:"domain" yaml:"domain"`
	OutputPort string `json:"output_port" bson:"output_port" yaml:"output_port"`
}

// ContractDataset describes the dataset under contract
type ContractDataset struct {
	Name        string `json:"name" bson:"name" yaml:"name"`
	Description string `json:"description" bson:"description" yaml:"description"`
	Domain      string `json:"domain" bson:"domain" yaml:"domain"`
	DatasetType string `json:"dataset_type" bson:"dataset_type" yaml:"dataset_type"`
}

// SchemaField is one contract schema field with its semantics
type SchemaField struct {
	Name           string   `json:"name" bson:"name" yaml:"name"`
	DataType       string   `json:"data_type" bson:"data_type" yaml:"data_type"`
	Description    string   `json:"description" bson:"description" yaml:"description"`
	BusinessTerm   *string  `json:"business_term" bson:"business_term" yaml:"business_term"`
	Example        *string  `json:"example" bson:"example" yaml:"example"`
	Format         *string  `json:"format" bson:"format" yaml:"format"`
	Required       bool     `json:"required" bson:"required" yaml:"required"`
	Nullable       bool     `json:"nullable" bson:"nullable" yaml:"nullable"`
	Unique         bool     `json:"unique" bson:"unique" yaml:"unique"`
	Sensitive      bool     `json:"sensitive" bson:"sensitive" yaml:"sensitive"`
	IsPII          bool     `json:"is_pii" bson:"is_pii" yaml:"is_pii"`
	Classification *string  `json:"classification" bson:"classification" yaml:"classification"`
	Constraints    []string `json:"constraints" bson:"constraints" yaml:"constraints"`
	Tags           []string `json:"tags" bson:"tags" yaml:"tags"`
}

// ContractQuality captures the promised quality attributes
type ContractQuality struct {
	FreshnessSLO          string   `json:"freshness_slo" bson:"freshness_slo" yaml:"freshness_slo"`
	FreshnessDescription  string   `json:"freshness_description" bson:"freshness_description" yaml:"freshness_description"`
	ExpectedRowCountMin   *int     `json:"expected_row_count_min" bson:"expected_row_count_min" yaml:"expected_row_count_min"`
	ExpectedRowCountMax   *int     `json:"expected_row_count_max" bson:"expected_row_count_max" yaml:"expected_row_count_max"`
	CompletenessThreshold float64  `json:"completeness_threshold" bson:"completeness_threshold" yaml:"completeness_threshold"`
	AccuracyThreshold     float64  `json:"accuracy_threshold" bson:"accuracy_threshold" yaml:"accuracy_threshold"`
	ValidityRules         []string `json:"validity_rules" bson:"validity_rules" yaml:"validity_rules"`
	DataQualityChecks     []string `json:"data_quality_checks" bson:"data_quality_checks" yaml:"data_quality_checks"`
}

// ContractSLO captures the service level objectives
type ContractSLO struct {
	Availability            string  `json:"availability" bson:"availability" yaml:"availability"`
	AvailabilityDescription string  `json:"availability_description" bson:"availability_description" yaml:"availability_description"`
	LatencyP95              *string `json:"latency_p95" bson:"latency_p95" yaml:"latency_p95"`
	LatencyP99              *string `json:"latency_p99" bson:"latency_p99" yaml:"latency_p99"`
	Throughput              *string `json:"throughput" bson:"throughput" yaml:"throughput"`
	SupportHours            string  `json:"support_hours" bson:"support_hours" yaml:"support_hours"`
	ResponseTimeCritical    string  `json:"response_time_critical" bson:"response_time_critical" yaml:"response_time_critical"`
	ResponseTimeNormal      string  `json:"response_time_normal" bson:"response_time_normal" yaml:"response_time_normal"`
	MaintenanceWindow       *string `json:"maintenance_window" bson:"maintenance_window" yaml:"maintenance_window"`
	IncidentNotification    string  `json:"incident_notification" bson:"incident_notification" yaml:"incident_notification"`
}

// ContractBilling captures billing details for data usage
type ContractBilling struct {
	PricingModel        string  `json:"pricing_model" bson:"pricing_model" yaml:"pricing_model"`
	CostPerQuery        *string `json:"cost_per_query" bson:"cost_per_query" yaml:"cost_per_query"`
	MonthlySubscription *string `json:"monthly_subscription" bson:"monthly_subscription" yaml:"monthly_subscription"`
	FreeTierLimit       *string `json:"free_tier_limit" bson:"free_tier_limit" yaml:"free_tier_limit"`
	BillingContact      string  `json:"billing_contact" bson:"billing_contact" yaml:"billing_contact"`
	BillingCycle        string  `json:"billing_cycle" bson:"billing_cycle" yaml:"billing_cycle"`
	Currency            string  `json:"currency" bson:"currency" yaml:"currency"`
	CostCenter          *string `json:"cost_center" bson:"cost_center" yaml:"cost_center"`
}

// ContractTerms captures the terms and conditions of data usage
type ContractTerms struct {
	UsageRestrictions     []string `json:"usage_restrictions" bson:"usage_restrictions" yaml:"usage_restrictions"`
	AllowedPurposes       []string `json:"allowed_purposes" bson:"allowed_purposes" yaml:"allowed_purposes"`
	RetentionPeriod       string   `json:"retention_period" bson:"retention_period" yaml:"retention_period"`
	DataResidency         *string  `json:"data_residency" bson:"data_residency" yaml:"data_residency"`
	Licensing             string   `json:"licensing" bson:"licensing" yaml:"licensing"`
	AttributionRequired   bool     `json:"attribution_required" bson:"attribution_required" yaml:"attribution_required"`
	RedistributionAllowed bool     `json:"redistribution_allowed" bson:"redistribution_allowed" yaml:"redistribution_allowed"`
	ModificationAllowed   bool     `json:"modification_allowed" bson:"modification_allowed" yaml:"modification_allowed"`
	ChangeNoticePeriod    string   `json:"change_notice_period" bson:"change_notice_period" yaml:"change_notice_period"`
	BreakingChangePolicy  string   `json:"breaking_change_policy" bson:"breaking_change_policy" yaml:"breaking_change_policy"`
	DeprecationPolicy     string   `json:"deprecation_policy" bson:"deprecation_policy" yaml:"deprecation_policy"`
}

// ContractConsumer is a registered consumer of the contract
type ContractConsumer struct {
	Name         string   `json:"name" bson:"name" yaml:"name"`
	Team         string   `json:"team" bson:"team" yaml:"team"`
	Domain       string   `json:"domain" bson:"domain" yaml:"domain"`
	Email        string   `json:"email" bson:"email" yaml:"email"`
	UseCases     []string `json:"use_cases" bson:"use_cases" yaml:"use_cases"`
	ApprovedDate string   `json:"approved_date" bson:"approved_date" yaml:"approved_date"`
	AccessLevel  string   `json:"access_level" bson:"access_level" yaml:"access_level"`
}

// DataContract follows the Data Contract Specification: provider,
// dataset, schema, quality, slo, billing, terms and consumers.
type DataContract struct {
	ID string `json:"id" bson:"id"`

	ContractName string `json:"contract_name" bson:"contract_name"`
	Version      string `json:"version" bson:"version"`
	Status       string `json:"status" bson:"status"`

	Provider     ContractProvider   `json:"provider" bson:"provider"`
	Dataset      ContractDataset    `json:"dataset" bson:"dataset"`
	SchemaFields []SchemaField      `json:"schema_fields" bson:"schema_fields"`
	Quality      ContractQuality    `json:"quality" bson:"quality"`
	SLO          ContractSLO        `json:"slo" bson:"slo"`
	Billing      *ContractBilling   `json:"billing" bson:"billing"`
	Terms        ContractTerms      `json:"terms" bson:"terms"`
	Consumers    []ContractConsumer `json:"consumers" bson:"consumers"`

	// legacy fields, kept for older frontends
	DataProductID *string `json:"data_product_id" bson:"data_product_id"`
	Description   *string `json:"description" bson:"description"`

	EffectiveDate *string    `json:"effective_date" bson:"effective_date"`
	ExpiryDate    *string    `json:"expiry_date" bson:"expiry_date"`
	CreatedAt     core.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt     *core.Time `json:"updated_at" bson:"updated_at"`
}

func (b *Backend) getContracts(w http.ResponseWriter, r *http.Request) {
	contracts := []DataContract{}
	if err := b.list(r.Context(), cdb.CollectionDataContracts, bson.M{}, &contracts); err != nil {
		b.internalError(w, r, 4501, err, "cannot list contracts")
		return
	}
	writeJSON(w, http.StatusOK, contracts)
}

func (b *Backend) getContract(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var contract DataContract
	err := b.db.Collection(cdb.CollectionDataContracts).
		FindOne(r.Context(), bson.M{"id": id}).Decode(&contract)
	if err == mongo.ErrNoDocuments {
		writeDetail(w, http.StatusNotFound, "Contract not found")
		return
	}
	if err != nil {
		b.internalError(w, r, 4502, err, "cannot read contract")
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

func (b *Backend) createContract(w http.ResponseWriter, r *http.Request) {
	var contract DataContract
	if !b.decode(w, r, cdb.CollectionDataContracts, &contract) {
		return
	}
	assignID(&contract.ID)
	if len(contract.Status) == 0 {
		contract.Status = "draft"
	}
	if contract.Consumers == nil {
		contract.Consumers = []ContractConsumer{}
	}
	if contract.CreatedAt.IsZero() {
		contract.CreatedAt = core.Now()
	}

	if _, err := b.db.Collection(cdb.CollectionDataContracts).InsertOne(r.Context(), contract); err != nil {
		b.internalError(w, r, 4503, err, "cannot insert contract")
		return
	}
	b.logEvent(r.Context(), "contract_created", "governance", contract.ID,
		fmt.Sprintf("Data contract v%s created: %s", contract.Version, contract.ContractName),
		[]string{"notify_consumers", "update_catalog"})

	writeJSON(w, http.StatusOK, contract)
}

func (b *Backend) updateContract(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx := r.Context()

	var existing struct {
		CreatedAt core.Time `bson:"created_at"`
	}
	err := b.db.Collection(cdb.CollectionDataContracts).
		FindOne(ctx, bson.M{"id": id}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		writeDetail(w, http.StatusNotFound, "Contract not found")
		return
	}
	if err != nil {
		b.internalError(w, r, 4504, err, "cannot read contract")
		return
	}

	var contract DataContract
	if !b.decode(w, r, cdb.CollectionDataContracts, &contract) {
		return
	}
	contract.ID = id
	contract.CreatedAt = existing.CreatedAt
	now := core.Now()
	contract.UpdatedAt = &now

	_, err = b.db.Collection(cdb.CollectionDataContracts).
		ReplaceOne(ctx, bson.M{"id": id}, contract)
	if err != nil {
		b.internalError(w, r, 4505, err, "cannot replace contract")
		return
	}
	b.logEvent(ctx, "contract_updated", "governance", id,
		fmt.Sprintf("Data contract updated to v%s", contract.Version),
		[]string{"notify_consumers", "version_update"})

	writeJSON(w, http.StatusOK, contract)
}

// deleteContract is a soft delete: the contract is marked deprecated and
// stays readable
func (b *Backend) deleteContract(w http.ResponseWriter, r *http.Request) {
	auth := access.AuthorizationFromContext(r.Context())
	if !auth.HasRole(core.RoleAdmin) {
		writeDetail(w, http.StatusForbidden, "Admin access required")
		return
	}
	id := mux.Vars(r)["id"]
	result, err := b.db.Collection(cdb.CollectionDataContracts).UpdateOne(r.Context(),
		bson.M{"id": id},
		bson.M{"$set": bson.M{"status": "deprecated", "updated_at": core.Now()}})
	if err != nil {
		b.internalError(w, r, 4506, err, "cannot deprecate contract")
		return
	}
	if result.ModifiedCount == 0 {
		writeDetail(w, http.StatusNotFound, "Contract not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Contract %s has been deprecated", id),
	})
}

func (b *Backend) addContractConsumer(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx := r.Context()

	var contract DataContract
	err := b.db.Collection(cdb.CollectionDataContracts).
		FindOne(ctx, bson.M{"id": id}).Decode(&contract)
	if err == mongo.ErrNoDocuments {
		writeDetail(w, http.StatusNotFound, "Contract not found")
		return
	}
	if err != nil {
		b.internalError(w, r, 4507, err, "cannot read contract")
		return
	}

	var consumer ContractConsumer
	if !b.decode(w, r, "contract_consumer", &consumer) {
		return
	}
	consumers := append(contract.Consumers, consumer)

	_, err = b.db.Collection(cdb.CollectionDataContracts).UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"consumers": consumers, "updated_at": core.Now()}})
	if err != nil {
		b.internalError(w, r, 4508, err, "cannot update contract consumers")
		return
	}
	b.logEvent(ctx, "consumer_added", "governance", id,
		fmt.Sprintf("Consumer %s added to contract", consumer.Name),
		[]string{"update_access", "notify_provider"})

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Consumer %s added to contract", consumer.Name),
	})
}

// contractYAML is the Data Contract Specification 0.9.3 document layout.
// yaml.v3 keeps struct field order, which gives the canonical section
// order of the specification.
type contractYAML struct {
	DataContractSpecification string `yaml:"dataContractSpecification"`
	ID                        string `yaml:"id"`
	Info                      struct {
		Title       string `yaml:"title"`
		Version     string `yaml:"version"`
		Status      string `yaml:"status"`
		Description string `yaml:"description"`
	} `yaml:"info"`
	Provider ContractProvider `yaml:"provider"`
	Dataset  ContractDataset  `yaml:"dataset"`
	Schema   struct {
		Fields []SchemaField `yaml:"fields"`
	} `yaml:"schema"`
	Quality   ContractQuality    `yaml:"quality"`
	SLO       ContractSLO        `yaml:"slo"`
	Terms     ContractTerms      `yaml:"terms"`
	Billing   *ContractBilling   `yaml:"billing,omitempty"`
	Consumers []ContractConsumer `yaml:"consumers,omitempty"`
}

func (b *Backend) getContractYAML(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var contract DataContract
	err := b.db.Collection(cdb.CollectionDataContracts).
		FindOne(r.Context(), bson.M{"id": id}).Decode(&contract)
	if err == mongo.ErrNoDocuments {
		writeDetail(w, http.StatusNotFound, "Contract not found")
		return
	}
	if err != nil {
		b.internalError(w, r, 4509, err, "cannot read contract")
		return
	}

	doc := contractYAML{
		DataContractSpecification: "0.9.3",
		ID:                        contract.ID,
		Provider:                  contract.Provider,
		Dataset:                   contract.Dataset,
		Quality:                   contract.Quality,
		SLO:                       contract.SLO,
		Terms:                     contract.Terms,
		Billing:                   contract.Billing,
		Consumers:                 contract.Consumers,
	}
	doc.Info.Title = contract.ContractName
	doc.Info.Version = contract.Version
	doc.Info.Status = contract.Status
	doc.Info.Description = contract.Dataset.Description
	if len(doc.Info.Description) == 0 && contract.Description != nil {
		doc.Info.Description = *contract.Description
	}
	doc.Schema.Fields = contract.SchemaFields

	out, err := yaml.Marshal(doc)
	if err != nil {
		b.internalError(w, r, 4510, err, "cannot render contract yaml")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"yaml":        string(out),
		"contract_id": id,
	})
}

func (b *Backend) getContractStats(w http.ResponseWriter, r *http.Request) {
	contracts := []DataContract{}
	if err := b.list(r.Context(), cdb.CollectionDataContracts, bson.M{}, &contracts); err != nil {
		b.internalError(w, r, 4511, err, "cannot list contracts")
		return
	}

	byStatus := map[string]int{"draft": 0, "active": 0, "deprecated": 0}
	byDomain := map[string]int{}
	totalConsumers := 0
	totalFields := 0
	withBilling := 0
	for _, contract := range contracts {
		status := contract.Status
		if len(status) == 0 {
			status = "draft"
		}
		byStatus[status]++

		domain := contract.Dataset.Domain
		if len(domain) == 0 {
			domain = "unknown"
		}
		byDomain[domain]++

		totalConsumers += len(contract.Consumers)
		totalFields += len(contract.SchemaFields)
		if contract.Billing != nil {
			withBilling++
		}
	}
	avgFields := 0.0
	if len(contracts) > 0 {
		avgFields = math.Round(float64(totalFields)/float64(len(contracts))*10) / 10
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_contracts":   len(contracts),
		"by_status":         byStatus,
		"by_domain":         byDomain,
		"total_consumers":   totalConsumers,
		"avg_schema_fields": avgFields,
		"with_billing":      withBilling,
	})
}
