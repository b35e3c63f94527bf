package test

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/suite"

	"github.com/relabs-tech/meshportal/core/backend"
	"github.com/relabs-tech/meshportal/core/client"
)

type PortalTestSuite struct {
	IntegrationTestSuite
}

func TestPortalTestSuite(t *testing.T) {
	ts := &PortalTestSuite{}
	suite.Run(t, ts)
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        backend.User `json:"user"`
}

// register an account and log in over real HTTP, returning a client
// that authenticates with the issued bearer token
func (s *PortalTestSuite) loginClient(email, password, domain, role string) client.Client {
	cl := client.NewWithURL(serverURL)

	_, err := cl.RawPost("/api/auth/register", map[string]string{
		"email":    email,
		"password": password,
		"name":     "Integration User",
		"domain":   domain,
		"role":     role,
	}, nil)
	s.Require().NoError(err)

	login := tokenResponse{}
	_, err = cl.RawPost("/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &login)
	s.Require().NoError(err)
	s.Require().Equal("bearer", login.TokenType)
	s.Require().NotEmpty(login.AccessToken)

	return cl.WithToken(login.AccessToken)
}

func (s *PortalTestSuite) TestAuthOverHTTP() {
	cl := s.loginClient("ahmed@port.om", "integration-password", "port", "editor")

	me := backend.User{}
	_, err := cl.RawGet("/api/auth/me", &me)
	s.Require().NoError(err)
	s.Require().Equal("ahmed@port.om", me.Email)
	s.Require().Equal("port", me.Domain)
	s.Require().Equal("editor", me.Role)

	// without a token the api is closed
	status, err := client.NewWithURL(serverURL).RawGet("/api/port/vessels", nil)
	s.Require().Error(err)
	s.Require().Equal(401, status)
}

func (s *PortalTestSuite) TestVesselRoundTripAndKafkaEvent() {
	cl := s.loginClient("latifa@port.om", "integration-password", "port", "editor")

	vesselNew := backend.VesselData{
		VesselID:   "IMO-5555555",
		VesselName: "Integration Carrier",
		Status:     "berthed",
		CargoType:  "tower_section",
	}
	vessel := backend.VesselData{}
	_, err := cl.RawPost("/api/port/vessels", &vesselNew, &vessel)
	s.Require().NoError(err)
	s.Require().NotEmpty(vessel.ID)

	vessels := []backend.VesselData{}
	_, err = cl.RawGet("/api/port/vessels", &vessels)
	s.Require().NoError(err)
	found := false
	for _, v := range vessels {
		found = found || v.ID == vessel.ID
	}
	s.Require().True(found, "created vessel not in list")

	events := []backend.EventLog{}
	_, err = cl.RawGet("/api/events", &events)
	s.Require().NoError(err)
	s.Require().NotEmpty(events)
	s.Require().Equal("vessel_update", events[0].EventType)
	s.Require().Equal(vessel.ID, events[0].ResourceID)

	// the audit event is also published to the event topic
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{s.kafkaAddr},
		Topic:       eventTopic,
		Partition:   0,
		StartOffset: kafka.FirstOffset,
		MaxWait:     time.Second,
	})
	defer reader.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for {
		message, err := reader.ReadMessage(ctx)
		s.Require().NoError(err, "vessel_update event not published to kafka")
		if string(message.Key) != "vessel_update" {
			continue
		}
		event := backend.EventLog{}
		s.Require().NoError(json.Unmarshal(message.Value, &event))
		if event.ResourceID != vessel.ID {
			continue
		}
		s.Require().Equal("port", event.Domain)
		operation := ""
		for _, header := range message.Headers {
			if header.Key == "operation" {
				operation = string(header.Value)
			}
		}
		s.Require().Equal("create", operation)
		return
	}
}

func (s *PortalTestSuite) TestContractExportOverHTTP() {
	cl := s.loginClient("fatma@governance.om", "integration-password", "governance", "admin")

	contractNew := backend.DataContract{
		ContractName: "integration-contract",
		Version:      "1.0",
		Provider: backend.ContractProvider{
			Name:       "Port Operations",
			Email:      "ahmed@port.om",
			Team:       "port-data",
			Domain:     "port",
			OutputPort: "vessel-arrivals",
		},
		Dataset: backend.ContractDataset{
			Name:        "vessel_arrivals",
			Description: "Vessel arrival events",
			Domain:      "port",
			DatasetType: "stream",
		},
		SchemaFields: []backend.SchemaField{
			{Name: "vessel_id", DataType: "string", Description: "IMO number", Required: true},
		},
		Quality: backend.ContractQuality{
			FreshnessSLO:          "5m",
			FreshnessDescription:  "events arrive within five minutes",
			CompletenessThreshold: 99.5,
			AccuracyThreshold:     99,
		},
		SLO: backend.ContractSLO{
			Availability:            "99.5%",
			AvailabilityDescription: "measured monthly",
			SupportHours:            "Sun-Thu 8:00-17:00 GST",
			ResponseTimeCritical:    "1h",
			ResponseTimeNormal:      "1 business day",
			IncidentNotification:    "email",
		},
		Terms: backend.ContractTerms{
			RetentionPeriod:      "2 years",
			Licensing:            "internal",
			ChangeNoticePeriod:   "30 days",
			BreakingChangePolicy: "new major version",
			DeprecationPolicy:    "6 months notice",
		},
	}

	contract := backend.DataContract{}
	_, err := cl.RawPost("/api/contracts", &contractNew, &contract)
	s.Require().NoError(err)
	s.Require().NotEmpty(contract.ID)
	s.Require().Equal("draft", contract.Status)

	export := map[string]string{}
	_, err = cl.RawGet("/api/contracts/"+contract.ID+"/yaml", &export)
	s.Require().NoError(err)
	s.Require().Equal(contract.ID, export["contract_id"])
	s.Require().Contains(export["yaml"], "dataContractSpecification: 0.9.3")
	s.Require().Contains(export["yaml"], "title: integration-contract")
}
