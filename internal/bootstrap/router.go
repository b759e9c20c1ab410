package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	httpapi "github.com/personalink-ai/go-chat-backend/internal/api/http"
	"github.com/personalink-ai/go-chat-backend/internal/api/http/middleware"
	chathttp "github.com/personalink-ai/go-chat-backend/internal/chat/http"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	StorageBackend string
	AllowedOrigins []string

	Chat *chathttp.Handler

	// DB is set only for the postgres backend; the health endpoint
	// pings it.
	DB *pgxpool.Pool
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(dep.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = dep.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	r.Use(middleware.RequestIDMiddleware())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.StorageBackend, dep.DB)
	healthHandler.RegisterRoutes(r)

	dep.Chat.RegisterRoutes(r)

	return r
}
