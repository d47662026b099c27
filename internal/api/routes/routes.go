package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/talentscope/internal/api/handlers"
	"github.com/yoockh/talentscope/internal/api/middleware"
)

type Deps struct {
	Tokens middleware.TokenResolver

	Auth      *handlers.AuthHandler
	Torre     *handlers.TorreHandler
	Candidate *handlers.CandidateHandler
	Shortlist *handlers.ShortlistHandler
	Chat      *handlers.ChatHandler
	WS        *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	requireAuth := middleware.Auth(d.Tokens)
	optionalAuth := middleware.OptionalAuth(d.Tokens)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/login", d.Auth.Login)
	authGroup.POST("/register", d.Auth.Register)
	authGroup.GET("/me", requireAuth, d.Auth.Me)
	authGroup.POST("/logout", requireAuth, d.Auth.Logout)

	api.POST("/chat", optionalAuth, d.Chat.Chat)
	api.GET("/messages/:candidateId", requireAuth, d.Chat.Messages)

	torre := api.Group("/torre")
	torre.POST("/search", optionalAuth, d.Torre.Search)
	torre.GET("/search/history", requireAuth, d.Torre.History)
	torre.GET("/profile/:username", d.Torre.Profile)
	torre.GET("/top", d.Torre.Top)
	torre.GET("/suggestions", d.Torre.Suggestions)

	api.POST("/candidates/search", d.Candidate.Search)
	api.GET("/candidates/:username", d.Candidate.Get)

	sl := api.Group("/shortlist", requireAuth)
	sl.GET("", d.Shortlist.Get)
	sl.POST("/candidates", d.Shortlist.AddCandidate)
	sl.DELETE("/candidates/:id", d.Shortlist.RemoveCandidate)
	sl.PUT("/candidates/:id/note", d.Shortlist.UpdateNote)
	sl.POST("/talented-users", d.Shortlist.AddTalentedUser)
	sl.DELETE("/talented-users/:id", d.Shortlist.RemoveTalentedUser)
	sl.GET("/comparison", d.Shortlist.Comparison)
	sl.POST("/comparison/:id", d.Shortlist.ToggleComparison)
	sl.DELETE("/comparison", d.Shortlist.ClearComparison)
	sl.POST("/export", d.Shortlist.Export)

	// WebSocket
	r.GET("/ws/chat/:candidateId", requireAuth, d.WS.ChatWS)
}
