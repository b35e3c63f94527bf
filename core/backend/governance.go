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

// SemanticMapping maps a domain field onto a target standard
type SemanticMapping struct {
	ID             string `json:"id" bson:"id"`
	SourceDomain   string `json:"source_domain" bson:"source_domain"`
	SourceField    string `json:"source_field" bson:"source_field"`
	TargetStandard string `json:"target_standard" bson:"target_standard"`
	TargetField    string `json:"target_field" bson:"target_field"`
	Description    string `json:"description" bson:"description"`
}

// AccessPolicy declares which domains and roles may see which fields of
// a resource domain. The portal stores these as governance metadata, it
// does not enforce them.
type AccessPolicy struct {
	ID                string   `json:"id" bson:"id"`
	ResourceDomain    string   `json:"resource_domain" bson:"resource_domain"`
	AllowedDomains    []string `json:"allowed_domains" bson:"allowed_domains"`
	AllowedRoles      []string `json:"allowed_roles" bson:"allowed_roles"`
	DataFieldsVisible []string `json:"data_fields_visible" bson:"data_fields_visible"`
}

// ComplianceRule is a governance rule tied to a standard
type ComplianceRule struct {
	ID                string   `json:"id" bson:"id"`
	RuleName          string   `json:"rule_name" bson:"rule_name"`
	Standard          string   `json:"standard" bson:"standard"`
	Description       string   `json:"description" bson:"description"`
	Severity          string   `json:"severity" bson:"severity"`
	ApplicableDomains []string `json:"applicable_domains" bson:"applicable_domains"`
	ValidationLogic   string   `json:"validation_logic" bson:"validation_logic"`
	Status            string   `json:"status" bson:"status"`
}

// InteroperabilityStandard is a registered interoperability standard
type InteroperabilityStandard struct {
	ID                string   `json:"id" bson:"id"`
	Name              string   `json:"name" bson:"name"`
	Version           string   `json:"version" bson:"version"`
	Description       string   `json:"description" bson:"description"`
	SupportedDomains  []string `json:"supported_domains" bson:"supported_domains"`
	ComplianceLevel   string   `json:"compliance_level" bson:"compliance_level"`
	CertificationDate *string  `json:"certification_date" bson:"certification_date"`
}

func (b *Backend) getMappings(w http.ResponseWriter, r *http.Request) {
	mappings := []SemanticMapping{}
	if err := b.list(r.Context(), cdb.CollectionSemanticMappings, bson.M{}, &mappings); err != nil {
		b.internalError(w, r, 4601, err, "cannot list semantic mappings")
		return
	}
	writeJSON(w, http.StatusOK, mappings)
}

func (b *Backend) createMapping(w http.ResponseWriter, r *http.Request) {
	auth := access.AuthorizationFromContext(r.Context())
	if !auth.HasRole(core.RoleAdmin) {
		writeDetail(w, http.StatusForbidden, "Admin access required")
		return
	}
	var mapping SemanticMapping
	if !b.decode(w, r, cdb.CollectionSemanticMappings, &mapping) {
		return
	}
	assignID(&mapping.ID)
	if _, err := b.db.Collection(cdb.CollectionSemanticMappings).InsertOne(r.Context(), mapping); err != nil {
		b.internalError(w, r, 4602, err, "cannot insert semantic mapping")
		return
	}
	writeJSON(w, http.StatusOK, mapping)
}

func (b *Backend) getPolicies(w http.ResponseWriter, r *http.Request) {
	policies := []AccessPolicy{}
	if err := b.list(r.Context(), cdb.CollectionAccessPolicies, bson.M{}, &policies); err != nil {
		b.internalError(w, r, 4603, err, "cannot list access policies")
		return
	}
	writeJSON(w, http.StatusOK, policies)
}

func (b *Backend) createPolicy(w http.ResponseWriter, r *http.Request) {
	auth := access.AuthorizationFromContext(r.Context())
	if !auth.HasRole(core.RoleAdmin) {
		writeDetail(w, http.StatusForbidden, "Admin access required")
		return
	}
	var policy AccessPolicy
	if !b.decode(w, r, cdb.CollectionAccessPolicies, &policy) {
		return
	}
	assignID(&policy.ID)
	if _, err := b.db.Collection(cdb.CollectionAccessPolicies).InsertOne(r.Context(), policy); err != nil {
		b.internalError(w, r, 4604, err, "cannot insert access policy")
		return
	}
	writeJSON(w, http.StatusOK, policy)
}

func (b *Backend) getComplianceRules(w http.ResponseWriter, r *http.Request) {
	rules := []ComplianceRule{}
	if err := b.list(r.Context(), cdb.CollectionComplianceRules, bson.M{}, &rules); err != nil {
		b.internalError(w, r, 4605, err, "cannot list compliance rules")
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

func (b *Backend) createComplianceRule(w http.ResponseWriter, r *http.Request) {
	auth := access.AuthorizationFromContext(r.Context())
	if !auth.HasRole(core.RoleAdmin) {
		writeDetail(w, http.StatusForbidden, "Admin access required")
		return
	}
	var rule ComplianceRule
	if !b.decode(w, r, cdb.CollectionComplianceRules, &rule) {
		return
	}
	assignID(&rule.ID)
	if _, err := b.db.Collection(cdb.CollectionComplianceRules).InsertOne(r.Context(), rule); err != nil {
		b.internalError(w, r, 4606, err, "cannot insert compliance rule")
		return
	}
	b.logEvent(r.Context(), "compliance_rule_created", "governance", rule.ID,
		fmt.Sprintf("Compliance rule '%s' created for standard %s", rule.RuleName, rule.Standard),
		[]string{"notify_domains", "update_policies"})

	writeJSON(w, http.StatusOK, rule)
}

func (b *Backend) getStandards(w http.ResponseWriter, r *http.Request) {
	standards := []InteroperabilityStandard{}
	if err := b.list(r.Context(), cdb.CollectionInteropStandards, bson.M{}, &standards); err != nil {
		b.internalError(w, r, 4607, err, "cannot list interoperability standards")
		return
	}
	writeJSON(w, http.StatusOK, standards)
}

func (b *Backend) createStandard(w http.ResponseWriter, r *http.Request) {
	auth := access.AuthorizationFromContext(r.Context())
	if !auth.HasRole(core.RoleAdmin) {
		writeDetail(w, http.StatusForbidden, "Admin access required")
		return
	}
	var standard InteroperabilityStandard
	if !b.decode(w, r, cdb.CollectionInteropStandards, &standard) {
		return
	}
	assignID(&standard.ID)
	if _, err := b.db.Collection(cdb.CollectionInteropStandards).InsertOne(r.Context(), standard); err != nil {
		b.internalError(w, r, 4608, err, "cannot insert interoperability standard")
		return
	}
	writeJSON(w, http.StatusOK, standard)
}

func (b *Backend) getGovernanceDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	mappings, err := b.count(ctx, cdb.CollectionSemanticMappings, bson.M{})
	if err != nil {
		b.internalError(w, r, 4609, err, "cannot count semantic mappings")
		return
	}
	policies, err := b.count(ctx, cdb.CollectionAccessPolicies, bson.M{})
	if err != nil {
		b.internalError(w, r, 4610, err, "cannot count access policies")
		return
	}
	rules, err := b.count(ctx, cdb.CollectionComplianceRules, bson.M{})
	if err != nil {
		b.internalError(w, r, 4611, err, "cannot count compliance rules")
		return
	}
	activeRules, err := b.count(ctx, cdb.CollectionComplianceRules, bson.M{"status": "active"})
	if err != nil {
		b.internalError(w, r, 4612, err, "cannot count active compliance rules")
		return
	}
	standards, err := b.count(ctx, cdb.CollectionInteropStandards, bson.M{})
	if err != nil {
		b.internalError(w, r, 4613, err, "cannot count interoperability standards")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{
		"semantic_mappings":          mappings,
		"access_policies":            policies,
		"compliance_rules":           rules,
		"active_compliance_rules":    activeRules,
		"interoperability_standards": standards,
	})
}
