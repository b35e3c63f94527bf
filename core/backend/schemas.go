// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

// resourceSchemas are the write-payload schemas, one per resource,
// addressed by their $id. Resources without a schema here are accepted
// as-is. The schemas pin down the mandatory fields, optional fields and
// unknown fields pass through.
var resourceSchemas = []string{
	`{
		"$id": "users",
		"type": "object",
		"properties": {
			"email": {"type": "string", "minLength": 1},
			"password": {"type": "string", "minLength": 1},
			"name": {"type": "string"},
			"domain": {"type": "string"},
			"role": {"type": "string"}
		},
		"required": ["email", "password", "name", "domain"]
	}`,
	`{
		"$id": "user_login",
		"type": "object",
		"properties": {
			"email": {"type": "string"},
			"password": {"type": "string"}
		},
		"required": ["email", "password"]
	}`,
	`{
		"$id": "port_vessels",
		"type": "object",
		"properties": {
			"vessel_id": {"type": "string"},
			"vessel_name": {"type": "string"},
			"status": {"type": "string"},
			"berth_number": {"type": ["string", "null"]},
			"eta": {"type": ["string", "null"]},
			"cargo_type": {"type": "string"}
		},
		"required": ["vessel_id", "vessel_name", "status", "cargo_type"]
	}`,
	`{
		"$id": "fleet_shipments",
		"type": "object",
		"properties": {
			"shipment_id": {"type": "string"},
			"vessel_id": {"type": "string"},
			"component_type": {"type": "string"},
			"status": {"type": "string"},
			"destination_site": {"type": "string"}
		},
		"required": ["shipment_id", "vessel_id", "component_type", "status", "destination_site"]
	}`,
	`{
		"$id": "epc_sites",
		"type": "object",
		"properties": {
			"site_id": {"type": "string"},
			"site_name": {"type": "string"},
			"readiness_status": {"type": "string"},
			"expected_component": {"type": "string"},
			"capacity_mw": {"type": ["integer", "null"]},
			"turbines_planned": {"type": ["integer", "null"]},
			"turbines_installed": {"type": ["integer", "null"]},
			"contractor": {"type": ["string", "null"]}
		},
		"required": ["site_id", "site_name", "readiness_status", "expected_component"]
	}`,
	`{
		"$id": "data_catalog",
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"domain": {"type": "string"},
			"description": {"type": "string"},
			"data_type": {"type": "string"},
			"endpoint": {"type": "string"},
			"schema_fields": {"type": "array", "items": {"type": "string"}},
			"update_frequency": {"type": "string"},
			"owner_email": {"type": "string"},
			"tags": {"type": "array", "items": {"type": "string"}}
		},
		"required": ["name", "domain", "description", "data_type", "endpoint", "schema_fields", "update_frequency", "owner_email", "tags"]
	}`,
	`{
		"$id": "data_product_canvases",
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"domain": {"type": "string"},
			"owner_name": {"type": "string"},
			"owner_email": {"type": "string"},
			"date": {"type": "string"},
			"version": {"type": "string"},
			"description": {"type": "string"},
			"classification": {"type": "string"},
			"consumers": {"type": "array"},
			"use_cases": {"type": "array"},
			"output_ports": {"type": "array"},
			"terms": {"type": "string"},
			"data_model": {"type": "array"},
			"quality_checks": {"type": "array"},
			"sla": {"type": "object"},
			"security": {"type": "object"},
			"input_ports": {"type": "array"},
			"architecture": {"type": "object"},
			"ubiquitous_language": {"type": "object"}
		},
		"required": ["name", "domain", "owner_name", "owner_email", "date", "version",
			"description", "classification", "consumers", "use_cases", "output_ports",
			"terms", "data_model", "quality_checks", "sla", "security", "input_ports",
			"architecture", "ubiquitous_language"]
	}`,
	`{
		"$id": "data_contracts",
		"type": "object",
		"properties": {
			"contract_name": {"type": "string"},
			"version": {"type": "string"},
			"status": {"type": "string"},
			"provider": {"type": "object"},
			"dataset": {"type": "object"},
			"schema_fields": {"type": "array"},
			"quality": {"type": "object"},
			"slo": {"type": "object"},
			"billing": {"type": ["object", "null"]},
			"terms": {"type": "object"},
			"consumers": {"type": "array"}
		},
		"required": ["contract_name", "version", "provider", "dataset", "schema_fields", "quality", "slo", "terms"]
	}`,
	`{
		"$id": "contract_consumer",
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"team": {"type": "string"},
			"domain": {"type": "string"},
			"email": {"type": "string"},
			"use_cases": {"type": "array", "items": {"type": "string"}},
			"approved_date": {"type": "string"},
			"access_level": {"type": "string"}
		},
		"required": ["name", "team", "domain", "email", "use_cases", "approved_date", "access_level"]
	}`,
	`{
		"$id": "semantic_mappings",
		"type": "object",
		"properties": {
			"source_domain": {"type": "string"},
			"source_field": {"type": "string"},
			"target_standard": {"type": "string"},
			"target_field": {"type": "string"},
			"description": {"type": "string"}
		},
		"required": ["source_domain", "source_field", "target_standard", "target_field", "description"]
	}`,
	`{
		"$id": "access_policies",
		"type": "object",
		"properties": {
			"resource_domain": {"type": "string"},
			"allowed_domains": {"type": "array", "items": {"type": "string"}},
			"allowed_roles": {"type": "array", "items": {"type": "string"}},
			"data_fields_visible": {"type": "array", "items": {"type": "string"}}
		},
		"required": ["resource_domain", "allowed_domains", "allowed_roles", "data_fields_visible"]
	}`,
	`{
		"$id": "compliance_rules",
		"type": "object",
		"properties": {
			"rule_name": {"type": "string"},
			"standard": {"type": "string"},
			"description": {"type": "string"},
			"severity": {"type": "string"},
			"applicable_domains": {"type": "array", "items": {"type": "string"}},
			"validation_logic": {"type": "string"},
			"status": {"type": "string"}
		},
		"required": ["rule_name", "standard", "description", "severity", "applicable_domains", "validation_logic", "status"]
	}`,
	`{
		"$id": "interop_standards",
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"version": {"type": "string"},
			"description": {"type": "string"},
			"supported_domains": {"type": "array", "items": {"type": "string"}},
			"compliance_level": {"type": "string"},
			"certification_date": {"type": ["string", "null"]}
		},
		"required": ["name", "version", "description", "supported_domains", "compliance_level"]
	}`,
	`{
		"$id": "logistics_routes",
		"type": "object",
		"properties": {
			"route_name": {"type": "string"},
			"origin": {"type": "string"},
			"destination": {"type": "string"},
			"transport_mode": {"type": "string"},
			"distance_km": {"type": "number"},
			"estimated_duration_hours": {"type": "number"},
			"road_restrictions": {"type": "array", "items": {"type": "string"}},
			"status": {"type": "string"}
		},
		"required": ["route_name", "origin", "destination", "transport_mode", "distance_km", "estimated_duration_hours", "road_restrictions", "status"]
	}`,
	`{
		"$id": "logistics_permits",
		"type": "object",
		"properties": {
			"permit_number": {"type": "string"},
			"permit_type": {"type": "string"},
			"shipment_id": {"type": "string"},
			"issuing_authority": {"type": "string"},
			"status": {"type": "string"},
			"requested_date": {"type": "string"},
			"approved_date": {"type": ["string", "null"]},
			"expiry_date": {"type": ["string", "null"]},
			"restrictions": {"type": "array", "items": {"type": "string"}}
		},
		"required": ["permit_number", "permit_type", "shipment_id", "issuing_authority", "status", "requested_date", "restrictions"]
	}`,
	`{
		"$id": "weather_forecasts",
		"type": "object",
		"properties": {
			"location": {"type": "string"},
			"forecast_date": {"type": "string"},
			"temperature_celsius": {"type": "number"},
			"wind_speed_kmh": {"type": "number"},
			"weather_condition": {"type": "string"},
			"visibility_km": {"type": "number"},
			"safe_for_transport": {"type": "boolean"}
		},
		"required": ["location", "forecast_date", "temperature_celsius", "wind_speed_kmh", "weather_condition", "visibility_km", "safe_for_transport"]
	}`,
	`{
		"$id": "assembly_areas",
		"type": "object",
		"properties": {
			"area_name": {"type": "string"},
			"area_type": {"type": "string"},
			"location": {"type": "string"},
			"capacity": {"type": "integer"},
			"current_occupancy": {"type": "integer"},
			"available_space": {"type": "integer"},
			"status": {"type": "string"},
			"components_stored": {"type": "array", "items": {"type": "string"}}
		},
		"required": ["area_name", "area_type", "location", "capacity", "current_occupancy", "available_space", "status", "components_stored"]
	}`,
	`{
		"$id": "quality_metrics",
		"type": "object",
		"properties": {
			"data_product_id": {"type": "string"},
			"metric_type": {"type": "string"},
			"value": {"type": "number"},
			"threshold": {"type": "number"},
			"status": {"type": "string"}
		},
		"required": ["data_product_id", "metric_type", "value", "threshold", "status"]
	}`,
	`{
		"$id": "data_lineages",
		"type": "object",
		"properties": {
			"source_product_id": {"type": "string"},
			"target_product_id": {"type": "string"},
			"relationship_type": {"type": "string"},
			"transformation_description": {"type": "string"}
		},
		"required": ["source_product_id", "target_product_id", "relationship_type", "transformation_description"]
	}`,
}
