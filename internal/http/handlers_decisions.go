package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	decisiondomain "github.com/louisbranch/decisionlog/internal/decision/domain"
)

// CreateDecisionFromMessageRequest is the body for POST /messages/:messageID/decision.
type CreateDecisionFromMessageRequest struct {
	SupersedesDecisionID string `json:"supersedes_decision_id"`
}

func (s *Server) handleCreateDecisionFromMessage(c echo.Context) error {
	var req CreateDecisionFromMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	decision, err := s.services.Decisions.CreateFromMessage(c.Request().Context(), c.Param("messageID"), currentUser(c).ID, decisiondomain.CreateFromMessageInput{
		SupersedesDecisionID: req.SupersedesDecisionID,
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, decisionJSON(decision))
}

func (s *Server) handleUnmarkMessage(c echo.Context) error {
	if err := s.services.Decisions.UnmarkMessage(c.Request().Context(), c.Param("messageID"), currentUser(c).ID); err != nil {
		return s.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateDecisionRequest is the body for POST /decisions.
type CreateDecisionRequest struct {
	ChannelID            string `json:"channel_id"`
	Title                string `json:"title"`
	Status               string `json:"status"`
	SupersedesDecisionID string `json:"supersedes_decision_id"`
}

func (s *Server) handleCreateDecision(c echo.Context) error {
	var req CreateDecisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	input := decisiondomain.CreateManualInput{
		Title:                req.Title,
		SupersedesDecisionID: req.SupersedesDecisionID,
	}
	if req.Status != "" {
		status, err := decisiondomain.ParseStatus(req.Status)
		if err != nil {
			return s.writeError(c, err)
		}
		input.Status = status
	}
	decision, err := s.services.Decisions.CreateManual(c.Request().Context(), req.ChannelID, currentUser(c).ID, input)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, decisionJSON(decision))
}

func (s *Server) handleGetDecision(c echo.Context) error {
	decision, err := s.services.Decisions.GetByID(c.Request().Context(), c.Param("decisionID"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, decisionJSON(decision))
}

func (s *Server) handleDecisionHistory(c echo.Context) error {
	chain, err := s.services.Decisions.History(c.Request().Context(), c.Param("decisionID"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, decisionsJSON(chain))
}

// SetDecisionStatusRequest is the body for PATCH /decisions/:decisionID/status.
type SetDecisionStatusRequest struct {
	Status        string `json:"status"`
	ClosureReason string `json:"closure_reason"`
}

func (s *Server) handleSetDecisionStatus(c echo.Context) error {
	var req SetDecisionStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	status, err := decisiondomain.ParseStatus(req.Status)
	if err != nil {
		return s.writeError(c, err)
	}
	decision, err := s.services.Decisions.SetStatus(c.Request().Context(), c.Param("decisionID"), status, currentUser(c).ID, req.ClosureReason)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, decisionJSON(decision))
}

func (s *Server) handleDeleteDecision(c echo.Context) error {
	if err := s.services.Decisions.Delete(c.Request().Context(), c.Param("decisionID"), currentUser(c).ID); err != nil {
		return s.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListTeamDecisions(c echo.Context) error {
	filter, err := listFilterFromQuery(c)
	if err != nil {
		return s.writeError(c, err)
	}
	decisions, err := s.services.Decisions.ListByTeam(c.Request().Context(), c.Param("teamID"), filter)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, decisionsJSON(decisions))
}

// handleListTeamOpenDecisions serves the candidates for a supersede picker:
// only OPEN decisions, supersession-closed ones excluded by construction.
func (s *Server) handleListTeamOpenDecisions(c echo.Context) error {
	decisions, err := s.services.Decisions.ListOpenByTeam(c.Request().Context(), c.Param("teamID"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, decisionsJSON(decisions))
}

func (s *Server) handleListChannelDecisions(c echo.Context) error {
	var status decisiondomain.Status
	if raw := c.QueryParam("status"); raw != "" {
		parsed, err := decisiondomain.ParseStatus(raw)
		if err != nil {
			return s.writeError(c, err)
		}
		status = parsed
	}
	decisions, err := s.services.Decisions.ListByChannel(c.Request().Context(), c.Param("channelID"), status)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, decisionsJSON(decisions))
}

func listFilterFromQuery(c echo.Context) (decisiondomain.ListFilter, error) {
	var filter decisiondomain.ListFilter
	if raw := c.QueryParam("status"); raw != "" {
		status, err := decisiondomain.ParseStatus(raw)
		if err != nil {
			return decisiondomain.ListFilter{}, err
		}
		filter.Status = status
	}
	filter.IncludeSuperseded = c.QueryParam("include_superseded") == "true"
	return filter, nil
}
