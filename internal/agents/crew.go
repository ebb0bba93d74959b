package agents

import (
	"fmt"
	"time"

	"github.com/pebblohq/pebblomcp/internal/engine"
	"github.com/pebblohq/pebblomcp/internal/policy"
	"github.com/pebblohq/pebblomcp/internal/records"
)

// Agent type identifiers accepted by the crew router.
const (
	AgentNurse   = "nurse_agent"
	AgentBilling = "billing_agent"
)

// Response is the agent-agnostic envelope returned by the crew.
type Response struct {
	Success        bool           `json:"success"`
	AgentType      string         `json:"agent_type"`
	ResponseData   map[string]any `json:"response_data"`
	Protection     *engine.Report `json:"pebblo_protection"`
	ProcessingTime float64        `json:"processing_time"`
	Timestamp      time.Time      `json:"timestamp"`
}

// Crew routes queries to the agent matching the caller's role.
type Crew struct {
	nurse   *NurseAgent
	billing *BillingAgent
}

// NewCrew builds both agents over shared repository and engine.
func NewCrew(repo *records.Repository, eng *engine.Engine) *Crew {
	return &Crew{
		nurse:   NewNurseAgent(repo, eng),
		billing: NewBillingAgent(repo, eng),
	}
}

// Nurse returns the nurse agent.
func (c *Crew) Nurse() *NurseAgent { return c.nurse }

// Billing returns the billing agent.
func (c *Crew) Billing() *BillingAgent { return c.billing }

// Route dispatches to the agent matching agentType. A role may only use
// its own agent; mismatches are rejected before any data is touched.
func (c *Crew) Route(query, role, agentType, patientIdentifier, ticketID string) (*Response, error) {
	switch agentType {
	case AgentNurse:
		if role != policy.RoleNursing {
			return nil, fmt.Errorf("access denied: role %s cannot use %s", role, agentType)
		}
		resp := c.nurse.ProcessQuery(query, patientIdentifier)
		return &Response{
			Success:   resp.Success,
			AgentType: AgentNurse,
			ResponseData: map[string]any{
				"patient_data":     resp.PatientData,
				"clinical_summary": resp.ClinicalSummary,
			},
			Protection:     resp.Protection,
			ProcessingTime: resp.ProcessingTime,
			Timestamp:      resp.Timestamp,
		}, nil

	case AgentBilling:
		if role != policy.RoleBilling {
			return nil, fmt.Errorf("access denied: role %s cannot use %s", role, agentType)
		}
		resp := c.billing.ProcessQuery(query, patientIdentifier, ticketID)
		data := map[string]any{
			"billing_data":    resp.BillingData,
			"billing_summary": resp.BillingSummary,
		}
		if resp.TicketInfo != nil {
			data["jira_ticket_info"] = resp.TicketInfo
		}
		return &Response{
			Success:        resp.Success,
			AgentType:      AgentBilling,
			ResponseData:   data,
			Protection:     resp.Protection,
			ProcessingTime: resp.ProcessingTime,
			Timestamp:      resp.Timestamp,
		}, nil

	default:
		return nil, fmt.Errorf("unknown agent type: %s", agentType)
	}
}
