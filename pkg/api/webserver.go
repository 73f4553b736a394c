package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// multipartOverhead leaves room for boundaries and form fields on top of the file limits.
const multipartOverhead = 1 << 20

func SetRouter(h *Handler, corsOrigins []string, log *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), AccessLog(log), Recovery(log))

	//the web client runs on a separate dev server
	corsConfig := cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", RequestIDHeader},
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsOrigins) == 0 {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))

	imageLimit := LimitBody(h.opts.MaxImageBytes + multipartOverhead)
	videoLimit := LimitBody(h.opts.MaxVideoBytes + multipartOverhead)

	r.GET("/health", h.Health)
	r.POST("/detect-image", imageLimit, h.DetectImage)
	r.POST("/analyze-video", videoLimit, h.AnalyzeVideo)

	apiRoutes := r.Group("/api")
	apiRoutes.GET("/health", h.Health)
	apiRoutes.POST("/detect", imageLimit, h.DetectImage)
	apiRoutes.POST("/analyze-video", videoLimit, h.AnalyzeVideo)

	return r
}
