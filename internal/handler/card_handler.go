package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/christianEkogha/basic-cash-card/internal/cqrs"
	"github.com/christianEkogha/basic-cash-card/internal/middleware"
	"github.com/christianEkogha/basic-cash-card/internal/models"
)

// CardCommander defines the write-side operations used by CardHandler.
type CardCommander interface {
	CreateCard(context.Context, cqrs.CreateCardCommand) (*models.Card, error)
	UpdateCard(context.Context, cqrs.UpdateCardCommand) (*models.Card, error)
}

// CardQuerier defines the read-side operations used by CardHandler.
type CardQuerier interface {
	GetCard(context.Context, cqrs.GetCardQuery) (*models.Card, error)
	ListCards(context.Context, cqrs.ListCardsQuery) ([]models.Card, error)
}

// CardHandler handles cash card HTTP requests. The owner of every card it
// touches is the authenticated caller; request bodies cannot name one.
type CardHandler struct {
	commands CardCommander
	queries  CardQuerier
}

type CreateCardRequest struct {
	Amount *models.Amount `json:"amount" validate:"required"`
}

type UpdateCardRequest struct {
	Amount *models.Amount `json:"amount" validate:"required"`
}

func NewCardHandler(commands CardCommander, queries CardQuerier) *CardHandler {
	return &CardHandler{commands: commands, queries: queries}
}

func (h *CardHandler) CreateCard(c *gin.Context) {
	owner := caller(c)

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	card, err := h.commands.CreateCard(c.Request.Context(), cqrs.CreateCardCommand{
		Owner:  owner,
		Amount: *req.Amount,
	})
	if err != nil {
		respondWithCardError(c, err)
		return
	}

	c.Header("Location", c.FullPath()+"/"+strconv.FormatInt(card.ID, 10))
	c.Status(http.StatusCreated)
}

func (h *CardHandler) ListCards(c *gin.Context) {
	cards, err := h.queries.ListCards(c.Request.Context(), cqrs.ListCardsQuery{
		Owner: caller(c),
		Page:  c.Query("page"),
		Size:  c.Query("size"),
		Sort:  c.QueryArray("sort"),
	})
	if err != nil {
		respondWithCardError(c, err)
		return
	}

	c.JSON(http.StatusOK, cards)
}

func (h *CardHandler) GetCard(c *gin.Context) {
	id, ok := cardID(c)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	card, err := h.queries.GetCard(c.Request.Context(), cqrs.GetCardQuery{ID: id, Owner: caller(c)})
	if err != nil {
		respondWithCardError(c, err)
		return
	}

	c.JSON(http.StatusOK, card)
}

func (h *CardHandler) UpdateCard(c *gin.Context) {
	id, ok := cardID(c)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	_, err := h.commands.UpdateCard(c.Request.Context(), cqrs.UpdateCardCommand{
		ID:     id,
		Owner:  caller(c),
		Amount: *req.Amount,
	})
	if err != nil {
		respondWithCardError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func caller(c *gin.Context) string {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return ""
	}
	return identity.Username
}

// cardID reads the :id path parameter. Anything that is not a decimal id
// cannot name a card, so callers answer 404 rather than 400.
func cardID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func respondWithCardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrCardNotFound):
		// Blank 404: a missing card and someone else's card look identical.
		c.Status(http.StatusNotFound)
	case errors.Is(err, models.ErrInvalidAmount):
		middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrInvalidPaging):
		middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
	default:
		_ = c.Error(err)
		middleware.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
