package backend

import "net/http"

// TagTemplateField describes one field of a catalog tag template
type TagTemplateField struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Type        string   `json:"type"`
	Values      []string `json:"values,omitempty"`
	Required    bool     `json:"required"`
	Order       int      `json:"order"`
}

// TagTemplate is a standardized governance tag template for catalog
// entries. The set of templates is static, they are metadata about the
// mesh itself and not stored.
type TagTemplate struct {
	ID           string             `json:"id"`
	TemplateType string             `json:"template_type"`
	DisplayName  string             `json:"display_name"`
	Description  string             `json:"description"`
	Fields       []TagTemplateField `json:"fields"`
}

var tagTemplates = []TagTemplate{
	{
		ID:           "tt-data-product",
		TemplateType: "data_product",
		DisplayName:  "Data Product",
		Description:  "Core metadata for data products in the mesh - identifies discoverable data assets",
		Fields: []TagTemplateField{
			{Name: "product_name", DisplayName: "Product Name", Type: "string", Required: true, Order: 1},
			{Name: "data_product_description", DisplayName: "Description", Type: "string", Required: true, Order: 2},
			{Name: "data_product_status", DisplayName: "Status", Type: "enum", Values: []string{"DRAFT", "RELEASED", "DEPRECATED"}, Required: true, Order: 3},
			{Name: "data_domain", DisplayName: "Data Domain", Type: "enum", Values: []string{"Port", "Fleet", "EPC", "Logistics", "Analytics"}, Required: true, Order: 4},
			{Name: "business_owner", DisplayName: "Business Owner", Type: "string", Required: true, Order: 5},
			{Name: "technical_owner", DisplayName: "Technical Owner", Type: "string", Required: true, Order: 6},
			{Name: "documentation_link", DisplayName: "Documentation Link", Type: "string", Order: 7},
			{Name: "access_request_link", DisplayName: "Access Request Link", Type: "string", Order: 8},
		},
	},
	{
		ID:           "tt-data-quality",
		TemplateType: "data_quality",
		DisplayName:  "Data Quality SLA",
		Description:  "Quality metrics and service level agreements for data products",
		Fields: []TagTemplateField{
			{Name: "freshness_sla", DisplayName: "Freshness SLA", Type: "string", Required: true, Order: 1},
			{Name: "completeness_threshold", DisplayName: "Completeness Threshold (%)", Type: "number", Required: true, Order: 2},
			{Name: "accuracy_threshold", DisplayName: "Accuracy Threshold (%)", Type: "number", Required: true, Order: 3},
			{Name: "availability_sla", DisplayName: "Availability SLA (%)", Type: "number", Order: 4},
			{Name: "validation_rules", DisplayName: "Validation Rules", Type: "string", Order: 5},
		},
	},
	{
		ID:           "tt-streaming-topic",
		TemplateType: "streaming_topic",
		DisplayName:  "Streaming Topic Details",
		Description:  "Metadata for Pub/Sub streaming data products",
		Fields: []TagTemplateField{
			{Name: "schema_ref", DisplayName: "Schema Reference", Type: "string", Required: true, Order: 1},
			{Name: "message_format", DisplayName: "Message Format", Type: "enum", Values: []string{"JSON", "Avro", "Protobuf"}, Required: true, Order: 2},
			{Name: "throughput", DisplayName: "Expected Throughput", Type: "string", Order: 3},
			{Name: "retention_period", DisplayName: "Retention Period", Type: "string", Order: 4},
			{Name: "partitioning_key", DisplayName: "Partitioning Key", Type: "string", Order: 5},
		},
	},
	{
		ID:           "tt-access-control",
		TemplateType: "access_control",
		DisplayName:  "Access Control Policy",
		Description:  "Access policies and permissions for data products",
		Fields: []TagTemplateField{
			{Name: "classification", DisplayName: "Data Classification", Type: "enum", Values: []string{"Public", "Internal", "Confidential", "Restricted"}, Required: true, Order: 1},
			{Name: "allowed_consumers", DisplayName: "Allowed Consumers", Type: "string", Order: 2},
			{Name: "column_level_security", DisplayName: "Column-Level Security", Type: "boolean", Order: 3},
			{Name: "row_level_security", DisplayName: "Row-Level Security", Type: "boolean", Order: 4},
			{Name: "pii_fields", DisplayName: "PII Fields", Type: "string", Order: 5},
		},
	},
	{
		ID:           "tt-lineage",
		TemplateType: "lineage",
		DisplayName:  "Data Lineage",
		Description:  "Tracks data origin, transformations, and dependencies",
		Fields: []TagTemplateField{
			{Name: "source_systems", DisplayName: "Source Systems", Type: "string", Required: true, Order: 1},
			{Name: "transformation_logic", DisplayName: "Transformation Logic", Type: "string", Order: 2},
			{Name: "upstream_dependencies", DisplayName: "Upstream Dependencies", Type: "string", Order: 3},
			{Name: "downstream_consumers", DisplayName: "Downstream Consumers", Type: "string", Order: 4},
		},
	},
}

func (b *Backend) getTagTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, tagTemplates)
}
