// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

// Smoketest exercises a running portal over real HTTP: it registers a
// throwaway user, logs in and walks the representative endpoints,
// reporting pass or fail per check.
package main

import (
	"fmt"
	"os"

	"github.com/joeshaw/envdecode"
	"github.com/sirupsen/logrus"

	"github.com/google/uuid"

	"github.com/relabs-tech/meshportal/core/client"
	"github.com/relabs-tech/meshportal/core/logger"
)

// Service holds the configuration for this tool
type Service struct {
	URL string `env:"MESHPORTAL_URL,default=http://localhost:3000" description:"base url of the running portal"`
}

type smoketest struct {
	rlog   *logrus.Entry
	failed int
	passed int
}

func (s *smoketest) check(name string, err error) {
	if err != nil {
		s.failed++
		s.rlog.WithError(err).Errorln("FAIL", name)
		return
	}
	s.passed++
	s.rlog.Infoln("PASS", name)
}

func main() {
	logger.InitLogger(logrus.InfoLevel)
	s := &smoketest{rlog: logger.Default()}

	service := &Service{}
	if err := envdecode.Decode(service); err != nil {
		panic(err)
	}

	c := client.NewWithURL(service.URL)

	var banner struct {
		Message string `json:"message"`
	}
	_, err := c.RawGet("/api/", &banner)
	if err == nil && len(banner.Message) == 0 {
		err = fmt.Errorf("banner message is empty")
	}
	s.check("api banner", err)

	// a throwaway port editor, so the vessel write below is authorized
	email := fmt.Sprintf("smoketest-%s@port.om", uuid.New().String())
	_, err = c.RawPost("/api/auth/register", map[string]string{
		"email":    email,
		"password": "smoketest123",
		"name":     "Smoketest User",
		"domain":   "port",
		"role":     "editor",
	}, nil)
	s.check("register", err)

	var token struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	_, err = c.RawPost("/api/auth/login", map[string]string{
		"email":    email,
		"password": "smoketest123",
	}, &token)
	if err == nil && token.TokenType != "bearer" {
		err = fmt.Errorf("unexpected token type %q", token.TokenType)
	}
	s.check("login", err)

	c = c.WithToken(token.AccessToken)

	var me struct {
		Email string `json:"email"`
	}
	_, err = c.RawGet("/api/auth/me", &me)
	if err == nil && me.Email != email {
		err = fmt.Errorf("got %q, want %q", me.Email, email)
	}
	s.check("auth me", err)

	vesselID := uuid.New().String()
	_, err = c.RawPost("/api/port/vessels", map[string]interface{}{
		"vessel_id":   vesselID,
		"vessel_name": "Smoketest Vessel",
		"status":      "approaching",
		"cargo_type":  "turbine_blades",
	}, nil)
	s.check("create vessel", err)

	var vessels []struct {
		VesselID string `json:"vessel_id"`
	}
	_, err = c.RawGet("/api/port/vessels", &vessels)
	if err == nil {
		err = fmt.Errorf("vessel %s not in listing", vesselID)
		for _, v := range vessels {
			if v.VesselID == vesselID {
				err = nil
				break
			}
		}
	}
	s.check("list vessels", err)

	for _, path := range []string{
		"/api/catalog/products",
		"/api/catalog/tag-templates",
		"/api/canvas",
		"/api/canvas/stats",
		"/api/contracts",
		"/api/contracts/stats/summary",
		"/api/governance/dashboard",
		"/api/logistics/routes",
		"/api/logistics/permits",
		"/api/domains/journey",
		"/api/platform/capabilities",
		"/api/platform/stats",
		"/api/quality/metrics",
		"/api/lineage",
		"/api/events",
		"/api/dashboard/stats",
	} {
		_, err = c.RawGet(path, nil)
		s.check("get "+path, err)
	}

	s.rlog.Infof("%d passed, %d failed", s.passed, s.failed)
	if s.failed > 0 {
		os.Exit(1)
	}
}
