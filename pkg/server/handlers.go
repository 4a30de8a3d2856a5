package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	errs "engage/pkg/errors"
	"engage/pkg/gamification"
)

type checkRequest struct {
	Username string `json:"username" binding:"required"`
}

type checkResponse struct {
	Username       string                    `json:"username"`
	Followers      int                       `json:"followers"`
	AvgLikes       int                       `json:"avgLikes"`
	AvgComments    int                       `json:"avgComments"`
	EngagementRate float64                   `json:"engagementRate"`
	Gamification   *gamification.CheckResult `json:"gamification"`
}

// handleCheck fetches engagement metrics for a username and runs the
// gamification pipeline on the result. A failed fetch mutates nothing.
func (s *Server) handleCheck(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username is required"})
		return
	}

	report, err := s.checker.CheckEngagement(req.Username)
	if err != nil {
		s.metrics.IncChecksTotal("error")
		status, message := endpointErrorResponse(err)
		s.logger.WarnWithFields("engagement check failed", map[string]interface{}{
			"username": req.Username,
			"error":    err.Error(),
		})
		c.JSON(status, gin.H{"error": message})
		return
	}

	rate := report.EngagementRate.Float()
	result := s.engine.ProcessCheck(rate, report.Username, report.Followers)
	s.sessionChecks.Add(1)

	s.metrics.IncChecksTotal("ok")
	s.metrics.AddAchievementsUnlocked(len(result.NewAchievements))

	c.JSON(http.StatusOK, checkResponse{
		Username:       report.Username,
		Followers:      report.Followers,
		AvgLikes:       report.AvgLikes,
		AvgComments:    report.AvgComments,
		EngagementRate: rate,
		Gamification:   result,
	})
}

func (s *Server) handleStats(c *gin.Context) {
	stats := s.engine.Stats()
	c.JSON(http.StatusOK, gin.H{
		"stats":         stats,
		"levelProgress": gamification.LevelProgressPercent(stats.TotalPoints, stats.Level),
		"pointsToNext":  gamification.PointsForLevel(stats.Level+1) - stats.TotalPoints,
		"sessionChecks": s.sessionChecks.Load(),
		"challengeDone": gamification.DailyChallengeComplete(stats),
	})
}

func (s *Server) handleAchievements(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"achievements": s.engine.Achievements()})
}

func (s *Server) handleLeaderboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"leaderboard": gamification.Leaderboard(s.engine.Stats())})
}

func (s *Server) handleTop(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	entries := s.engine.TopToday(limit)
	if entries == nil {
		entries = []gamification.EngagementEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (s *Server) handleChallenge(c *gin.Context) {
	stats := s.engine.Stats()
	challenge := gamification.DailyChallenge()
	c.JSON(http.StatusOK, gin.H{
		"description": challenge.Description,
		"reward":      challenge.Reward,
		"progress":    stats.DailyChallenge,
		"complete":    gamification.DailyChallengeComplete(stats),
	})
}

func (s *Server) handleVSMode(c *gin.Context) {
	unlocked := s.engine.UnlockVSMode()
	if unlocked == nil {
		unlocked = []gamification.Achievement{}
	}
	s.metrics.AddAchievementsUnlocked(len(unlocked))
	c.JSON(http.StatusOK, gin.H{"unlocked": unlocked})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// endpointErrorResponse maps analytics errors to an HTTP status and a
// user-facing message
func endpointErrorResponse(err error) (int, string) {
	var apiErr *errs.Error
	if !errors.As(err, &apiErr) {
		return http.StatusBadGateway, "analytics endpoint unavailable"
	}

	switch apiErr.Type {
	case errs.ErrorTypeEndpoint, errs.ErrorTypeNotFound:
		return http.StatusBadRequest, apiErr.Message
	case errs.ErrorTypeRateLimit:
		return http.StatusTooManyRequests, apiErr.Message
	case errs.ErrorTypeNetwork:
		return http.StatusBadGateway, "analytics endpoint unreachable"
	default:
		return http.StatusBadGateway, apiErr.Message
	}
}
