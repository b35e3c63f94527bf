package schema_test

import (
	"testing"

	"github.com/relabs-tech/meshportal/core/schema"
)

const vesselSchema = `{
	"$id": "port_vessels",
	"type": "object",
	"properties": {
		"vessel_id": {"type": "string"},
		"vessel_name": {"type": "string"},
		"status": {"type": "string"},
		"cargo_type": {"type": "string"}
	},
	"required": ["vessel_id", "vessel_name", "status", "cargo_type"]
}`

const loginSchema = `{
	"$id": "user_login",
	"type": "object",
	"properties": {
		"email": {"type": "string"},
		"password": {"type": "string"}
	},
	"required": ["email", "password"]
}`

func TestValidateString(t *testing.T) {
	v, err := schema.NewValidator([]string{vesselSchema, loginSchema})
	if err != nil {
		t.Fatalf("No error expected when creating validator, got %v", err)
	}

	valid := `{"vessel_id":"V-100","vessel_name":"MV Salalah","status":"berthed","cargo_type":"turbine blades"}`
	if err := v.ValidateString(valid, "port_vessels"); err != nil {
		t.Fatalf("%s is expected to be valid. Reported error was: %v", valid, err)
	}

	missingField := `{"vessel_id":"V-100","status":"berthed"}`
	if err := v.ValidateString(missingField, "port_vessels"); err == nil {
		t.Fatalf("%s is expected to be invalid, required fields are missing", missingField)
	}

	wrongType := `{"vessel_id":42,"vessel_name":"MV Salalah","status":"berthed","cargo_type":"turbine blades"}`
	if err := v.ValidateString(wrongType, "port_vessels"); err == nil {
		t.Fatalf("%s is expected to be invalid, vessel_id is not a string", wrongType)
	}

	// unknown fields pass through
	extraField := `{"vessel_id":"V-100","vessel_name":"MV Salalah","status":"berthed","cargo_type":"turbine blades","unknown":true}`
	if err := v.ValidateString(extraField, "port_vessels"); err != nil {
		t.Fatalf("%s is expected to be valid, unknown fields are ignored. Reported error was: %v", extraField, err)
	}
}

func TestValidateStruct(t *testing.T) {
	type login struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	type loginWrong struct {
		Email string `json:"email_address"`
	}

	v, err := schema.NewValidator([]string{loginSchema})
	if err != nil {
		t.Fatalf("No error expected when creating validator, got %v", err)
	}
	if err := v.ValidateStruct(login{"jane@port.example.com", "secret"}, "user_login"); err != nil {
		t.Fatal(err)
	}
	if err := v.ValidateStruct(loginWrong{"jane@port.example.com"}, "user_login"); err == nil {
		t.Fatal("struct without required fields is expected to be invalid")
	}
}

func TestHasSchema(t *testing.T) {
	v, err := schema.NewValidator([]string{vesselSchema, loginSchema})
	if err != nil {
		t.Fatalf("No error expected when creating validator, got %v", err)
	}
	if !v.HasSchema("port_vessels") {
		t.Fatal("port_vessels schema is expected to be available")
	}
	if v.HasSchema("unknown_resource") {
		t.Fatal("unknown_resource schema is not expected to be available")
	}
}

func TestSchemaWithoutID(t *testing.T) {
	if _, err := schema.NewValidator([]string{`{"type":"object"}`}); err == nil {
		t.Fatal("schema without $id is expected to be rejected")
	}
}
