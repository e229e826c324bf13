package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	teamdomain "github.com/louisbranch/decisionlog/internal/team/domain"
)

// CreateTeamRequest is the body for POST /teams.
type CreateTeamRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateTeam(c echo.Context) error {
	var req CreateTeamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	team, err := s.services.Teams.Create(c.Request().Context(), currentUser(c).ID, teamdomain.CreateTeamInput{Name: req.Name})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, teamJSON(team))
}

func (s *Server) handleListMyTeams(c echo.Context) error {
	teams, err := s.services.Teams.ListByUser(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, teamsJSON(teams))
}

// JoinTeamRequest is the body for POST /teams/join.
type JoinTeamRequest struct {
	InviteCode string `json:"invite_code"`
}

func (s *Server) handleJoinTeam(c echo.Context) error {
	var req JoinTeamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	team, err := s.services.Teams.Join(c.Request().Context(), currentUser(c).ID, req.InviteCode)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, teamJSON(team))
}

func (s *Server) handleGetTeam(c echo.Context) error {
	team, err := s.services.Teams.Get(c.Request().Context(), c.Param("teamID"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, teamJSON(team))
}

func (s *Server) handleRegenerateInviteCode(c echo.Context) error {
	team, err := s.services.Teams.RegenerateInviteCode(c.Request().Context(), c.Param("teamID"), currentUser(c).ID)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, teamJSON(team))
}

func (s *Server) handleListMembers(c echo.Context) error {
	members, err := s.services.Teams.ListMembers(c.Request().Context(), c.Param("teamID"))
	if err != nil {
		return s.writeError(c, err)
	}
	out := make([]MemberJSON, 0, len(members))
	for _, member := range members {
		out = append(out, memberJSON(member))
	}
	return c.JSON(http.StatusOK, out)
}

// AddMemberRequest is the body for POST /teams/:teamID/members.
type AddMemberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (s *Server) handleAddMember(c echo.Context) error {
	var req AddMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	role, err := teamdomain.ParseRole(req.Role)
	if err != nil {
		return s.writeError(c, err)
	}
	member, err := s.services.Teams.AddMember(c.Request().Context(), c.Param("teamID"), currentUser(c).ID, req.UserID, role)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, memberJSON(member))
}
