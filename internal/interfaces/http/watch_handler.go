package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ukena18/Haci-sub000/internal/application/dto"
	"github.com/ukena18/Haci-sub000/internal/application/workspace"
	"github.com/ukena18/Haci-sub000/internal/domain/ledger"
)

// WatchHandler lista de cobros vigilados (protegido).
type WatchHandler struct {
	svc *workspace.Service
}

// NewWatchHandler construye el handler.
func NewWatchHandler(svc *workspace.Service) *WatchHandler {
	return &WatchHandler{svc: svc}
}

// List godoc
// @Summary      Cobros vigilados, los más urgentes primero
// @Tags         watchlist
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.WatchItemResponse
// @Router       /api/watchlist [get]
func (h *WatchHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.Watchlist(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Dismissed godoc
// @Summary      Elementos descartados
// @Tags         watchlist
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.WatchItemResponse
// @Router       /api/watchlist/dismissed [get]
func (h *WatchHandler) Dismissed(c *fiber.Ctx) error {
	out, err := h.svc.DismissedItems(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Dismiss godoc
// @Summary      Dejar de vigilar un trabajo o deuda
// @Tags         watchlist
// @Security     Bearer
// @Param        kind  path  string  true  "job | debt"
// @Param        id    path  string  true  "ID del elemento"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/watchlist/{kind}/{id}/dismiss [post]
func (h *WatchHandler) Dismiss(c *fiber.Ctx) error {
	kind, ok := watchKind(c.Params("kind"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "kind debe ser job o debt"})
	}
	if _, err := h.svc.Dispatch(c.UserContext(), GetUserID(c), ledger.DismissWatchItem{ItemKind: kind, ID: c.Params("id")}); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Restore godoc
// @Summary      Volver a vigilar un elemento descartado
// @Tags         watchlist
// @Security     Bearer
// @Param        kind  path  string  true  "job | debt"
// @Param        id    path  string  true  "ID del elemento"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/watchlist/{kind}/{id}/restore [post]
func (h *WatchHandler) Restore(c *fiber.Ctx) error {
	kind, ok := watchKind(c.Params("kind"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "kind debe ser job o debt"})
	}
	if _, err := h.svc.Dispatch(c.UserContext(), GetUserID(c), ledger.RestoreWatchItem{ItemKind: kind, ID: c.Params("id")}); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func watchKind(s string) (ledger.WatchKind, bool) {
	switch k := ledger.WatchKind(s); k {
	case ledger.WatchJob, ledger.WatchDebt:
		return k, true
	default:
		return "", false
	}
}
