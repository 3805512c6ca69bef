package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ukena18/Haci-sub000/internal/application/dto"
	"github.com/ukena18/Haci-sub000/internal/application/workspace"
	"github.com/ukena18/Haci-sub000/internal/domain/entity"
	"github.com/ukena18/Haci-sub000/internal/domain/ledger"
)

// JobHandler trabajos, cronómetro y liquidación (protegido).
type JobHandler struct {
	svc *workspace.Service
}

// NewJobHandler construye el handler.
func NewJobHandler(svc *workspace.Service) *JobHandler {
	return &JobHandler{svc: svc}
}

// toJob arma el trabajo con el costeo del modo pedido; los campos de otros modos se ignoran.
func toJob(in dto.JobRequest) entity.Job {
	j := entity.Job{
		ID:           in.ID,
		CustomerID:   in.CustomerID,
		Title:        in.Title,
		Notes:        in.Notes,
		Date:         in.Date,
		DueDays:      in.DueDays,
		DueDate:      in.DueDate,
		TrackPayment: in.TrackPayment == nil || *in.TrackPayment,
	}
	switch entity.TimeMode(in.TimeMode) {
	case entity.TimeModeClock:
		sessions := make([]entity.Session, 0, len(in.Sessions))
		for _, s := range in.Sessions {
			sessions = append(sessions, entity.Session{InAt: s.InAt, OutAt: s.OutAt})
		}
		j.Costing = entity.ClockCosting{Sessions: sessions, Rate: in.Rate}
	case entity.TimeModeFixed:
		j.Costing = entity.FixedCosting{FixedPrice: in.FixedPrice, PlannedStart: in.PlannedStart, PlannedEnd: in.PlannedEnd}
	default:
		j.Costing = entity.ManualCosting{Start: in.Start, End: in.End, BreakMinutes: in.BreakMinutes, Rate: in.Rate}
	}
	for _, p := range in.Parts {
		j.Parts = append(j.Parts, entity.Part{Name: p.Name, Qty: p.Qty, UnitPrice: p.UnitPrice, Price: p.Price})
	}
	return j
}

// Save godoc
// @Summary      Crear o editar trabajo
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.JobRequest  true  "Trabajo (id vacío o desconocido crea)"
// @Success      200   {object}  dto.CreatedResponse  "editado"
// @Success      201   {object}  dto.CreatedResponse  "creado"
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/jobs [post]
func (h *JobHandler) Save(c *fiber.Ctx) error {
	in, ok, err := bind[dto.JobRequest](c)
	if !ok {
		return err
	}
	ctx, userID := c.UserContext(), GetUserID(c)
	existed := false
	if in.ID == "" {
		in.ID = h.svc.NewID()
	} else if prev, err := h.svc.Load(ctx, userID); err == nil {
		_, existed = prev.FindJob(in.ID)
	}
	if _, err := h.svc.Dispatch(ctx, userID, ledger.SaveJob{Job: toJob(in)}); err != nil {
		return writeError(c, err)
	}
	status := fiber.StatusCreated
	if existed {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(dto.CreatedResponse{ID: in.ID})
}

// Delete godoc
// @Summary      Eliminar trabajo
// @Tags         jobs
// @Security     Bearer
// @Param        id   path  string  true  "ID del trabajo"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id} [delete]
func (h *JobHandler) Delete(c *fiber.Ctx) error {
	if _, err := h.svc.Dispatch(c.UserContext(), GetUserID(c), ledger.DeleteJob{ID: c.Params("id")}); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Cost godoc
// @Summary      Costeo actual del trabajo
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del trabajo"
// @Success      200  {object}  dto.JobCostResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/cost [get]
func (h *JobHandler) Cost(c *fiber.Ctx) error {
	out, err := h.svc.JobCost(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ClockIn godoc
// @Summary      Iniciar cronómetro
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del trabajo"
// @Success      200  {object}  dto.JobCostResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/clock-in [post]
func (h *JobHandler) ClockIn(c *fiber.Ctx) error {
	return h.transition(c, ledger.ClockIn{JobID: c.Params("id")})
}

// ClockOut godoc
// @Summary      Detener cronómetro
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del trabajo"
// @Success      200  {object}  dto.JobCostResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/clock-out [post]
func (h *JobHandler) ClockOut(c *fiber.Ctx) error {
	return h.transition(c, ledger.ClockOut{JobID: c.Params("id")})
}

// Complete godoc
// @Summary      Marcar trabajo terminado
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del trabajo"
// @Success      200  {object}  dto.JobCostResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/complete [post]
func (h *JobHandler) Complete(c *fiber.Ctx) error {
	return h.transition(c, ledger.CompleteJob{JobID: c.Params("id")})
}

// transition aplica un cambio de estado del trabajo y responde con el costeo resultante.
func (h *JobHandler) transition(c *fiber.Ctx, in ledger.Intent) error {
	userID := GetUserID(c)
	if _, err := h.svc.Dispatch(c.UserContext(), userID, in); err != nil {
		return writeError(c, err)
	}
	out, err := h.svc.JobCost(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Pay godoc
// @Summary      Liquidar trabajo (genera el cobro en la caja)
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true   "ID del trabajo"
// @Param        body  body  dto.PayJobRequest  false  "Caja, medio y fecha"
// @Success      201   {object}  dto.CreatedResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/pay [post]
func (h *JobHandler) Pay(c *fiber.Ctx) error {
	var in dto.PayJobRequest
	if len(c.Body()) > 0 {
		parsed, ok, err := bind[dto.PayJobRequest](c)
		if !ok {
			return err
		}
		in = parsed
	}
	txID := h.svc.NewID()
	intent := ledger.MarkJobPaid{
		JobID:         c.Params("id"),
		TransactionID: txID,
		VaultID:       in.VaultID,
		Method:        entity.PaymentMethod(in.Method),
		Date:          in.Date,
	}
	state, err := h.svc.Dispatch(c.UserContext(), GetUserID(c), intent)
	if err != nil {
		return writeError(c, err)
	}
	// total cero: el trabajo queda pagado sin generar cobro
	if _, ok := state.FindTransaction(txID); !ok {
		txID = ""
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreatedResponse{ID: txID})
}
