package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.POST("/sessions", h.createSession)

		s := api.Group("/sessions/:id", h.loadSession)
		{
			s.GET("", h.getSession)
			s.POST("/metadata", h.metadata)
			s.POST("/playback", h.playback)
			s.POST("/seek", h.seek)
			s.POST("/validate", h.validateField)
			s.POST("/certificate", h.submitCertificate)
			s.GET("/certificate", h.downloadAgain)
			s.DELETE("/certificate", h.resetCertificate)
			s.GET("/result", h.result)
		}
	}
}
