package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/srgjo27/party_rental/internal/core/domain"
	"github.com/srgjo27/party_rental/internal/core/services"
)

type CatalogHandler struct {
	svc *services.CatalogService
	log *zap.Logger
}

func NewCatalogHandler(svc *services.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{svc: svc, log: log}
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (h *CatalogHandler) ListItems(c echo.Context) error {
	items, err := h.svc.ListItems(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHandler) GetItem(c echo.Context) error {
	item, err := h.svc.GetItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHandler) CreateItem(c echo.Context) error {
	var item domain.Item
	if err := c.Bind(&item); err != nil {
		return invalidBody(c)
	}
	item.ID = ""

	if err := h.svc.CreateItem(c.Request().Context(), &item); err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusCreated, item)
}

func (h *CatalogHandler) UpdateItem(c echo.Context) error {
	var item domain.Item
	if err := c.Bind(&item); err != nil {
		return invalidBody(c)
	}
	item.ID = c.Param("id")

	if err := h.svc.UpdateItem(c.Request().Context(), &item); err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHandler) DeleteItem(c echo.Context) error {
	if err := h.svc.DeleteItem(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, h.log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.svc.ListCategories(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, categories)
}

func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}

	category, err := h.svc.CreateCategory(c.Request().Context(), req.Name)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusCreated, category)
}

func (h *CatalogHandler) RenameCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}

	category, err := h.svc.RenameCategory(c.Request().Context(), c.Param("id"), req.Name)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, category)
}

func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	if err := h.svc.DeleteCategory(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, h.log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) ListClients(c echo.Context) error {
	clients, err := h.svc.ListClients(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, clients)
}

func (h *CatalogHandler) GetClient(c echo.Context) error {
	client, err := h.svc.GetClient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, client)
}

func (h *CatalogHandler) CreateClient(c echo.Context) error {
	var client domain.Client
	if err := c.Bind(&client); err != nil {
		return invalidBody(c)
	}
	client.ID = ""

	if err := h.svc.CreateClient(c.Request().Context(), &client); err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusCreated, client)
}

func (h *CatalogHandler) UpdateClient(c echo.Context) error {
	var client domain.Client
	if err := c.Bind(&client); err != nil {
		return invalidBody(c)
	}
	client.ID = c.Param("id")

	if err := h.svc.UpdateClient(c.Request().Context(), &client); err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, client)
}

func (h *CatalogHandler) DeleteClient(c echo.Context) error {
	if err := h.svc.DeleteClient(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, h.log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) ClientStats(c echo.Context) error {
	stats, err := h.svc.ClientStats(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, stats)
}
