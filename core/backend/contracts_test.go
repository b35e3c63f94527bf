package backend

import (
	"net/http"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// testContract builds a contract payload with all mandatory sections filled
func testContract(name string) DataContract {
	rowsMin := 100
	return DataContract{
		ContractName: name,
		Version:      "1.0",
		Provider: ContractProvider{
			Name:       "Port Operations",
			Email:      "ahmed@port.om",
			Team:       "port-data",
			Domain:     "port",
			OutputPort: "vessel-arrivals",
		},
		Dataset: ContractDataset{
			Name:        "vessel_arrivals",
			Description: "Vessel arrival and berthing events",
			Domain:      "port",
			DatasetType: "stream",
		},
		SchemaFields: []SchemaField{
			{
				Name:        "vessel_id",
				DataType:    "string",
				Description: "IMO number",
				Required:    true,
				Unique:      true,
				Constraints: []string{"pattern: IMO-[0-9]{7}"},
				Tags:        []string{"business key"},
			},
			{
				Name:        "status",
				DataType:    "string",
				Description: "arriving, berthed or departed",
				Required:    true,
			},
		},
		Quality: ContractQuality{
			FreshnessSLO:          "5m",
			FreshnessDescription:  "events arrive within five minutes",
			ExpectedRowCountMin:   &rowsMin,
			CompletenessThreshold: 99.5,
			AccuracyThreshold:     99,
			ValidityRules:         []string{"status in (arriving, berthed, departed)"},
			DataQualityChecks:     []string{"vessel_id_present"},
		},
		SLO: ContractSLO{
			Availability:            "99.5%",
			AvailabilityDescription: "measured monthly",
			SupportHours:            "Sun-Thu 8:00-17:00 GST",
			ResponseTimeCritical:    "1h",
			ResponseTimeNormal:      "1 business day",
			IncidentNotification:    "email",
		},
		Terms: ContractTerms{
			UsageRestrictions:     []string{"no external sharing"},
			AllowedPurposes:       []string{"operations", "analytics"},
			RetentionPeriod:       "2 years",
			Licensing:             "internal",
			ChangeNoticePeriod:    "30 days",
			BreakingChangePolicy:  "new major version",
			DeprecationPolicy:     "6 months notice",
			AttributionRequired:   false,
			RedistributionAllowed: false,
			ModificationAllowed:   true,
		},
	}
}

func TestContractLifecycle(t *testing.T) {
	contractNew := testContract("port-vessel-arrivals-contract")

	contract := DataContract{}
	_, err := editorClient("port").RawPost("/api/contracts", &contractNew, &contract)
	if err != nil {
		t.Fatal(err)
	}
	if contract.ID == "" {
		t.Fatal("no id")
	}
	if contract.Status != "draft" {
		t.Fatal("status should default to draft:", contract.Status)
	}
	if contract.Consumers == nil {
		t.Fatal("consumers should be an empty list")
	}
	if contract.CreatedAt.IsZero() {
		t.Fatal("created_at not set")
	}

	contractGet := DataContract{}
	if _, err := viewerClient("fleet").RawGet("/api/contracts/"+contract.ID, &contractGet); err != nil {
		t.Fatal(err)
	}
	if contractGet.ContractName != contractNew.ContractName ||
		contractGet.Provider.Domain != "port" ||
		len(contractGet.SchemaFields) != 2 {
		t.Fatal("unexpected result:", asJSON(contractGet))
	}
	if contractGet.Quality.ExpectedRowCountMin == nil || *contractGet.Quality.ExpectedRowCountMin != 100 {
		t.Fatal("row count bound lost:", asJSON(contractGet.Quality))
	}

	// the update returns the full document, not just a message
	contractPut := contractGet
	contractPut.Version = "1.1"
	contractPut.Status = "active"
	updated := DataContract{}
	if _, err := editorClient("port").RawPut("/api/contracts/"+contract.ID, &contractPut, &updated); err != nil {
		t.Fatal(err)
	}
	if updated.Version != "1.1" || updated.Status != "active" {
		t.Fatal("unexpected update result:", asJSON(updated))
	}
	if !updated.CreatedAt.Equal(contract.CreatedAt.Time) {
		t.Fatal("created_at changed on update")
	}
	if updated.UpdatedAt == nil {
		t.Fatal("updated_at not stamped")
	}

	status, err := editorClient("port").RawPut("/api/contracts/no-such-contract", &contractPut, nil)
	if err == nil || status != http.StatusNotFound {
		t.Fatal("expected 404, got", status)
	}
}

func TestContractConsumers(t *testing.T) {
	contract := DataContract{}
	contractNew := testContract("contract-with-consumers")
	if _, err := editorClient("port").RawPost("/api/contracts", &contractNew, &contract); err != nil {
		t.Fatal(err)
	}

	consumer := ContractConsumer{
		Name:         "Fleet Operations",
		Team:         "fleet-analytics",
		Domain:       "fleet",
		Email:        "latifa@fleet.om",
		UseCases:     []string{"eta prediction"},
		ApprovedDate: "2026-08-15",
		AccessLevel:  "read",
	}
	result := map[string]string{}
	if _, err := editorClient("fleet").RawPost("/api/contracts/"+contract.ID+"/consumers", &consumer, &result); err != nil {
		t.Fatal(err)
	}
	if result["message"] != "Consumer Fleet Operations added to contract" {
		t.Fatal("unexpected response:", asJSON(result))
	}

	contractGet := DataContract{}
	if _, err := viewerClient("fleet").RawGet("/api/contracts/"+contract.ID, &contractGet); err != nil {
		t.Fatal(err)
	}
	if len(contractGet.Consumers) != 1 || contractGet.Consumers[0].Name != consumer.Name {
		t.Fatal("consumer not registered:", asJSON(contractGet.Consumers))
	}
	if contractGet.UpdatedAt == nil {
		t.Fatal("updated_at not stamped")
	}

	// a consumer without an access level is rejected
	status, err := editorClient("fleet").RawPost("/api/contracts/"+contract.ID+"/consumers", map[string]string{
		"name": "incomplete",
	}, nil)
	if err == nil || status != http.StatusUnprocessableEntity {
		t.Fatal("expected 422, got", status)
	}

	status, err = editorClient("fleet").RawPost("/api/contracts/no-such-contract/consumers", &consumer, nil)
	if err == nil || status != http.StatusNotFound {
		t.Fatal("expected 404, got", status)
	}
}

// contracts are soft deleted, the document stays readable as deprecated
func TestContractDeprecation(t *testing.T) {
	contract := DataContract{}
	contractNew := testContract("contract-to-deprecate")
	if _, err := editorClient("port").RawPost("/api/contracts", &contractNew, &contract); err != nil {
		t.Fatal(err)
	}

	status, err := editorClient("port").RawDelete("/api/contracts/"+contract.ID, nil)
	if err == nil || status != http.StatusForbidden {
		t.Fatal("expected 403 for non-admin, got", status)
	}

	result := map[string]string{}
	if _, err := testService.client.RawDelete("/api/contracts/"+contract.ID, &result); err != nil {
		t.Fatal(err)
	}
	if result["message"] != "Contract "+contract.ID+" has been deprecated" {
		t.Fatal("unexpected response:", asJSON(result))
	}

	contractGet := DataContract{}
	if _, err := viewerClient("port").RawGet("/api/contracts/"+contract.ID, &contractGet); err != nil {
		t.Fatal(err)
	}
	if contractGet.Status != "deprecated" {
		t.Fatal("contract not deprecated:", asJSON(contractGet))
	}
	if contractGet.UpdatedAt == nil {
		t.Fatal("updated_at not stamped")
	}

	status, err = testService.client.RawDelete("/api/contracts/no-such-contract", nil)
	if err == nil || status != http.StatusNotFound {
		t.Fatal("expected 404, got", status)
	}
}

func TestContractYAML(t *testing.T) {
	contract := DataContract{}
	contractNew := testContract("contract-for-export")
	if _, err := editorClient("port").RawPost("/api/contracts", &contractNew, &contract); err != nil {
		t.Fatal(err)
	}

	result := map[string]string{}
	if _, err := viewerClient("fleet").RawGet("/api/contracts/"+contract.ID+"/yaml", &result); err != nil {
		t.Fatal(err)
	}
	if result["contract_id"] != contract.ID {
		t.Fatal("unexpected contract id:", asJSON(result))
	}

	doc := map[string]interface{}{}
	if err := yaml.Unmarshal([]byte(result["yaml"]), &doc); err != nil {
		t.Fatal(err)
	}
	if doc["dataContractSpecification"] != "0.9.3" {
		t.Fatal("wrong specification version:", doc["dataContractSpecification"])
	}
	info := doc["info"].(map[string]interface{})
	if info["title"] != contractNew.ContractName || info["version"] != "1.0" {
		t.Fatal("unexpected info section:", asJSON(info))
	}
	if info["description"] != contractNew.Dataset.Description {
		t.Fatal("description should come from the dataset:", asJSON(info))
	}
	schema := doc["schema"].(map[string]interface{})
	if len(schema["fields"].([]interface{})) != 2 {
		t.Fatal("unexpected schema fields:", asJSON(schema))
	}
	// no billing section was provided, the export omits it
	if _, ok := doc["billing"]; ok {
		t.Fatal("empty billing section exported")
	}
	// the canonical section order starts with the specification header
	if !strings.HasPrefix(result["yaml"], "dataContractSpecification:") {
		t.Fatal("unexpected document start:", result["yaml"][:40])
	}

	status, err := viewerClient("fleet").RawGet("/api/contracts/no-such-contract/yaml", nil)
	if err == nil || status != http.StatusNotFound {
		t.Fatal("expected 404, got", status)
	}
}

func TestContractStats(t *testing.T) {
	contractNew := testContract("contract-with-billing")
	contractNew.Billing = &ContractBilling{
		PricingModel:   "subscription",
		BillingContact: "finance@port.om",
		BillingCycle:   "monthly",
		Currency:       "OMR",
	}
	if _, err := editorClient("port").RawPost("/api/contracts", &contractNew, nil); err != nil {
		t.Fatal(err)
	}

	stats := map[string]interface{}{}
	if _, err := viewerClient("port").RawGet("/api/contracts/stats/summary", &stats); err != nil {
		t.Fatal(err)
	}
	if stats["total_contracts"].(float64) < 1 {
		t.Fatal("total missing:", asJSON(stats))
	}
	byStatus := stats["by_status"].(map[string]interface{})
	// the three lifecycle states are always reported, even when zero
	for _, key := range []string{"draft", "active", "deprecated"} {
		if _, ok := byStatus[key]; !ok {
			t.Fatal("missing status key:", key, "in", asJSON(byStatus))
		}
	}
	byDomain := stats["by_domain"].(map[string]interface{})
	if byDomain["port"].(float64) < 1 {
		t.Fatal("port count missing:", asJSON(byDomain))
	}
	if stats["with_billing"].(float64) < 1 {
		t.Fatal("billing count missing:", asJSON(stats))
	}
	if stats["avg_schema_fields"].(float64) <= 0 {
		t.Fatal("schema field average missing:", asJSON(stats))
	}
}
