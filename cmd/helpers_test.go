//go:build !integration

package main

import (
	"context"
	"strings"

	"github.com/sells-group/leadscore/internal/scorer"
	"github.com/sells-group/leadscore/internal/session"
)

// roleGenerator answers Low for engineers and High for everyone else.
type roleGenerator struct{}

func (roleGenerator) Generate(_ context.Context, req scorer.GenerateRequest) (string, error) {
	if strings.Contains(req.Prompt, "Engineer") {
		return "Intent: Low\nIndividual contributor without budget.", nil
	}
	return "Intent: High\nOwns the problem the offer solves.", nil
}

func newTestSession() *session.Session {
	return session.New(scorer.New(scorer.NewClassifier(roleGenerator{})))
}

const testOfferJSON = `{"name":"FlowPilot","value_props":["faster pipeline reviews"],"ideal_use_cases":["SaaS"]}`

const testLeadsCSV = "name,role,company,industry,location,linkedin_bio\n" +
	"Ava Patel,CEO,FlowMetrics,SaaS,Berlin,Builds revenue teams\n" +
	"Ben Ode,Engineer,ShopCo,Retail,Lagos,\n" +
	"Cleo Park,Marketing Manager,Nimbus,Technology,Seoul,Runs demand gen\n"
