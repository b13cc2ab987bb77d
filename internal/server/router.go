package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/christianEkogha/basic-cash-card/internal/auth"
	"github.com/christianEkogha/basic-cash-card/internal/handler"
	"github.com/christianEkogha/basic-cash-card/internal/middleware"
)

// CardPrefixes are the paths the card routes are mounted under.
var CardPrefixes = []string{"/cashcards", "/records"}

// Tokens both issues bearer tokens at login and checks them on card routes.
type Tokens interface {
	middleware.TokenParser
	handler.TokenIssuer
}

type Deps struct {
	Commands    handler.CardCommander
	Queries     handler.CardQuerier
	Credentials auth.CredentialStore
	Tokens      Tokens
}

// NewRouter builds the HTTP surface. Card routes require an authenticated
// caller holding the card-owner role; login and health are open.
func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.LoggingMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := handler.NewAuthHandler(deps.Credentials, deps.Tokens)
	router.POST("/auth/login", authHandler.Login)

	cardHandler := handler.NewCardHandler(deps.Commands, deps.Queries)
	for _, prefix := range CardPrefixes {
		cards := router.Group(prefix,
			middleware.AuthMiddleware(deps.Credentials, deps.Tokens),
			middleware.RequireRole(auth.RoleCardOwner),
		)
		{
			cards.POST("", cardHandler.CreateCard)
			cards.GET("", cardHandler.ListCards)
			cards.GET("/:id", cardHandler.GetCard)
			cards.PUT("/:id", cardHandler.UpdateCard)
		}
	}

	return router
}
