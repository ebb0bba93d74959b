package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pebblohq/pebblomcp/internal/agents"
)

type nurseQueryRequest struct {
	Query             string `json:"query"`
	PatientIdentifier string `json:"patient_identifier"`
}

type billingQueryRequest struct {
	Query             string `json:"query"`
	PatientIdentifier string `json:"patient_identifier"`
	TicketID          string `json:"ticket_id"`
}

type agentQueryRequest struct {
	Query             string `json:"query"`
	UserRole          string `json:"user_role"`
	AgentType         string `json:"agent_type"`
	PatientIdentifier string `json:"patient_identifier"`
	TicketID          string `json:"ticket_id"`
}

func (s *Server) root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Pebblo MCP data-access policy engine",
		"agents":   []string{agents.AgentNurse, agents.AgentBilling},
		"security": "Pebblo MCP protection",
		"status":   "operational",
	})
}

func (s *Server) health(c echo.Context) error {
	m := s.engine.Metrics()
	return c.JSON(http.StatusOK, echo.Map{
		"status":        "healthy",
		"pebblo_mcp":    "active",
		"last_activity": m.LastActivity,
	})
}

func (s *Server) demoNurse(c echo.Context) error {
	patient := c.Param("patient")
	resp := s.crew.Nurse().ProcessQuery("show clinical information", patient)
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) demoBilling(c echo.Context) error {
	patient := c.Param("patient")
	ticketID := c.QueryParam("ticket_id")
	resp := s.crew.Billing().ProcessQuery("show billing information", patient, ticketID)
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) nurseQuery(c echo.Context) error {
	var req nurseQueryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	resp := s.crew.Nurse().ProcessQuery(req.Query, req.PatientIdentifier)
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) billingQuery(c echo.Context) error {
	var req billingQueryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	resp := s.crew.Billing().ProcessQuery(req.Query, req.PatientIdentifier, req.TicketID)
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) agentQuery(c echo.Context) error {
	var req agentQueryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	resp, err := s.crew.Route(req.Query, req.UserRole, req.AgentType, req.PatientIdentifier, req.TicketID)
	if err != nil {
		status := http.StatusBadRequest
		if strings.HasPrefix(err.Error(), "access denied") {
			status = http.StatusForbidden
		}
		return c.JSON(status, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) dashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, s.engine.Metrics())
}

func (s *Server) auditLog(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"entries": s.engine.Trail().Entries(),
	})
}
