package main

import (
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"scribble0/auth"
	"scribble0/config"
	"scribble0/game"
	"scribble0/logger"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.SetTrustedProxies([]string{"127.0.0.1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })

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
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
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
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Setup(cfg.LogLevel)

	verifier := auth.FromConfig(cfg.AdminPassword, cfg.AdminPasswordHash)

	idGen := game.NewIdGen()
	tickerGen := game.NewTickerGen()

	lobby := game.NewLobby(&idGen, &tickerGen, cfg.RoomCapacity)

	lobbyStarted := make(chan struct{})
	go lobby.LobbyActor(lobbyStarted)
	<-lobbyStarted

	r := CreateServer(cfg.AllowedOrigins)

	gameHandler := game.NewGameHandler(lobby, verifier, &idGen)
	{
		roomGroup := r.Group("/room")
		roomGroup.GET("/new", gameHandler.NewRoomHandler)
		roomGroup.GET("/join/:roomid", gameHandler.JoinRoomHandler)
	}

	go func() {
		if err := r.Run(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, os.Interrupt)
	log.Info().Str("port", cfg.Port).Msg("server started")
	<-sigCh
	log.Info().Msg("shutting down")
}
