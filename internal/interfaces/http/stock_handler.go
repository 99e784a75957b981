package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-sync/internal/application/dto"
	"github.com/jhoicas/stock-sync/internal/application/usecase"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

// StockHandler consola de stock: listado, búsqueda, alta y sincronización.
type StockHandler struct {
	uc *usecase.StockUseCase
	// runCtx vive lo que vive el proceso: una corrida no se cancela porque termine la petición HTTP.
	runCtx context.Context
	log    *logger.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *usecase.StockUseCase, runCtx context.Context, log *logger.Logger) *StockHandler {
	return &StockHandler{uc: uc, runCtx: runCtx, log: log}
}

// List godoc
// @Summary      Listar stock con estado de sincronización
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockListResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar por SKU o nombre (sin acentos ni mayúsculas)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        q    query  string  false  "término"
// @Success      200  {object}  dto.StockListResponse
// @Router       /api/stock/search [get]
func (h *StockHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Refresh godoc
// @Summary      Releer el banco local
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockListResponse
// @Router       /api/stock/refresh [post]
func (h *StockHandler) Refresh(c *fiber.Ctx) error {
	out, err := h.uc.Refresh(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	h.log.Info().Str("username", GetUsername(c)).Int("rows", out.Total).Msg("consola recargada")
	return c.JSON(out)
}

// Get godoc
// @Summary      Fila de un SKU con el rastro de la última sincronización
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        sku  path  string  true  "SKU"
// @Success      200  {object}  dto.StockRowResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{sku} [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("sku"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Alta de producto (solo admin)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *StockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Sync godoc
// @Summary      Actualizar el stock local y propagarlo a Shopee
// @Description  Responde 202 en cuanto la corrida queda en marcha; el progreso se ve en GET /api/stock/{sku}.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        sku   path  string                 true  "SKU"
// @Param        body  body  dto.SyncStockRequest   true  "Nueva cantidad"
// @Success      202   {object}  dto.SyncAcceptedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/{sku}/sync [post]
func (h *StockHandler) Sync(c *fiber.Ctx) error {
	var in dto.SyncStockRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	sku := c.Params("sku")
	out, err := h.uc.RequestSync(h.runCtx, sku, *in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	h.log.Info().
		Str("username", GetUsername(c)).
		Str("sku", sku).
		Str("run_id", out.RunID).
		Int("quantity", out.Quantity).
		Msg("sincronización solicitada")
	return c.Status(fiber.StatusAccepted).JSON(out)
}
