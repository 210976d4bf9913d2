package middlewares

import (
	"github.com/danisworo/pos-station/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the local POS UI origin to reach the station API.
func CORSMiddleware() gin.HandlerFunc {
	origin := config.GetEnv("POS_UI_ORIGIN", "http://127.0.0.1:5500")

	return cors.New(cors.Config{
		AllowOrigins:     []string{origin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Tab-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	})
}
