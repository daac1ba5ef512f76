package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"agenda-backend/models"
)

type ClientStore interface {
	ListClients(ctx context.Context) ([]models.Client, error)
	FindClient(ctx context.Context, id uint) (*models.Client, error)
}

// ClientController is read-only; clients are created by the booking flow.
type ClientController struct {
	store ClientStore
	log   *slog.Logger
}

func NewClientController(store ClientStore, log *slog.Logger) *ClientController {
	return &ClientController{store: store, log: log}
}

func (cc *ClientController) GetClients(c *gin.Context) {
	clients, err := cc.store.ListClients(c.Request.Context())
	if err != nil {
		respondWithStoreError(c, cc.log, err, "Client")
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (cc *ClientController) GetClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	client, err := cc.store.FindClient(c.Request.Context(), id)
	if err != nil {
		respondWithStoreError(c, cc.log, err, "Client")
		return
	}
	c.JSON(http.StatusOK, client)
}
