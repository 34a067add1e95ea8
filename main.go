package main

import (
	"api/configs"
	"api/game"
	"api/logger"
	"api/migrations"
	"api/storage"
	"api/users"
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	env := configs.Load()
	logger.Setup(env.DEBUG != "")

	if env.POSTGRES_URL == "" {
		log.Fatal("Missing postgres url")
	}
	allowedOrigins := strings.Split(env.ALLOWED_ORIGINS, ",")

	migrations.Migrate(env.POSTGRES_URL)

	pgRepo, err := storage.NewPostgresRepo(context.Background(), env.POSTGRES_URL)
	if err != nil {
		log.Fatal(err)
	}

	r := CreateServer(allowedOrigins)

	usersHandler := users.NewUsersHandler(pgRepo)
	{
		usersGroup := r.Group("/users")
		usersGroup.POST("", usersHandler.CreateHandler)
		usersGroup.GET("", usersHandler.ListHandler)
		usersGroup.DELETE("", usersHandler.DeleteAllHandler)
	}

	store := game.NewRoomStore()
	gateway := game.NewGateway(store)
	gameHandler := game.NewGameHandler(gateway)
	r.GET("/ws", gameHandler.ConnectHandler)

	r.Run(env.HTTP_ADDR)
}
