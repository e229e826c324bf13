package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	msgdomain "github.com/louisbranch/decisionlog/internal/messaging/domain"
)

// CreateChannelRequest is the body for POST /teams/:teamID/channels.
type CreateChannelRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateChannel(c echo.Context) error {
	var req CreateChannelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	channel, err := s.services.Messaging.CreateChannel(c.Request().Context(), msgdomain.CreateChannelInput{
		TeamID: c.Param("teamID"),
		Name:   req.Name,
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, channelJSON(channel))
}

func (s *Server) handleListChannels(c echo.Context) error {
	channels, err := s.services.Messaging.ListTeamChannels(c.Request().Context(), c.Param("teamID"))
	if err != nil {
		return s.writeError(c, err)
	}
	out := make([]ChannelJSON, 0, len(channels))
	for _, channel := range channels {
		out = append(out, channelJSON(channel))
	}
	return c.JSON(http.StatusOK, out)
}

// CreateMessageRequest is the body for POST /channels/:channelID/messages.
type CreateMessageRequest struct {
	Content string `json:"content"`
}

// CreateMessageResponse pairs the stored message with the analyzer verdict
// so clients can prompt the author to promote it.
type CreateMessageResponse struct {
	Message    MessageJSON  `json:"message"`
	Suggestion *VerdictJSON `json:"suggestion,omitempty"`
}

func (s *Server) handleCreateMessage(c echo.Context) error {
	var req CreateMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	message, verdict, err := s.services.Messaging.CreateMessage(c.Request().Context(), c.Param("channelID"), currentUser(c).ID, req.Content)
	if err != nil {
		return s.writeError(c, err)
	}
	resp := CreateMessageResponse{Message: messageJSON(message)}
	if verdict.Suggest {
		v := verdictJSON(verdict)
		resp.Suggestion = &v
	}
	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleListMessages(c echo.Context) error {
	limit := queryInt(c, "limit", 0)
	offset := queryInt(c, "offset", 0)
	messages, err := s.services.Messaging.ListChannelMessages(c.Request().Context(), c.Param("channelID"), limit, offset)
	if err != nil {
		return s.writeError(c, err)
	}
	out := make([]MessageJSON, 0, len(messages))
	for _, message := range messages {
		out = append(out, messageJSON(message))
	}
	return c.JSON(http.StatusOK, out)
}

// AnalyzeRequest is the body for POST /analyze.
type AnalyzeRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleAnalyze(c echo.Context) error {
	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.JSON(http.StatusOK, verdictJSON(s.services.Analyzer.Analyze(req.Content)))
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
