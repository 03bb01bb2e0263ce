package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/yuandi-erp/internal/application/cashbook"
	"github.com/jhoicas/yuandi-erp/internal/application/dto"
	"github.com/jhoicas/yuandi-erp/internal/application/usecase"
	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

// CashbookHandler maneja consultas y asientos manuales del libro de caja (protegido).
type CashbookHandler struct {
	recorder *cashbook.Recorder
	query    *cashbook.QueryService
	settings *usecase.SettingsService
	log      zerolog.Logger
}

// NewCashbookHandler construye el handler.
func NewCashbookHandler(recorder *cashbook.Recorder, query *cashbook.QueryService, settings *usecase.SettingsService, log zerolog.Logger) *CashbookHandler {
	return &CashbookHandler{recorder: recorder, query: query, settings: settings, log: log}
}

// List godoc
// @Summary      Listar asientos del libro de caja
// @Description  Incluye balance_after: saldo acumulado en moneda base hasta cada asiento.
// @Tags         cashbook
// @Security     Bearer
// @Produce      json
// @Param        type            query  string  false  "income | expense"
// @Param        category        query  string  false  "order_payment | refund | shipping_cost | inventory_purchase | adjustment"
// @Param        reference_type  query  string  false  "Tipo de referencia"
// @Param        reference_id    query  string  false  "ID de la referencia"
// @Param        from            query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to              query  string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Param        limit           query  int     false  "Límite"  default(50)
// @Param        offset          query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.CashbookListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/cashbook [get]
func (h *CashbookHandler) List(c *fiber.Ctx) error {
	from, err := queryTime(c, "from", false)
	if err != nil {
		return writeError(c, h.log, err)
	}
	to, err := queryTime(c, "to", true)
	if err != nil {
		return writeError(c, h.log, err)
	}
	page := queryPage(c, 50)
	filter := repository.CashbookFilter{
		From:          from,
		To:            to,
		Type:          c.Query("type"),
		Category:      c.Query("category"),
		ReferenceType: c.Query("reference_type"),
		ReferenceID:   c.Query("reference_id"),
		Limit:         page.Limit,
		Offset:        page.Offset,
	}
	list, err := h.query.List(c.UserContext(), filter)
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]dto.CashbookEntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, toCashbookEntryResponse(e))
	}
	return c.JSON(dto.CashbookListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(items)},
	})
}

// Balance godoc
// @Summary      Saldo del libro de caja
// @Tags         cashbook
// @Security     Bearer
// @Produce      json
// @Param        at   query  string  false  "Instante de corte (RFC3339 o YYYY-MM-DD). Vacío = ahora."
// @Success      200  {object}  dto.CashbookBalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/cashbook/balance [get]
func (h *CashbookHandler) Balance(c *fiber.Ctx) error {
	at, err := queryTime(c, "at", true)
	if err != nil {
		return writeError(c, h.log, err)
	}
	cut := time.Now()
	if at != nil {
		cut = *at
	}
	balance, err := h.query.BalanceAt(c.UserContext(), cut)
	if err != nil {
		return writeError(c, h.log, err)
	}
	st, err := h.settings.Get(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.CashbookBalanceResponse{At: cut, BaseCurrency: st.BaseCurrency, Balance: balance})
}

// CreateEntry godoc
// @Summary      Registrar asiento manual
// @Description  Ingresos con monto positivo, egresos con monto negativo. Sin fx_rate se resuelve la tasa del día.
// @Tags         cashbook
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CashbookEntryRequest  true  "Asiento"
// @Success      201   {object}  dto.CashbookEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cashbook/entries [post]
func (h *CashbookHandler) CreateEntry(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CashbookEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	input := cashbook.RecordEntryInput{
		Type:          in.Type,
		Category:      in.Category,
		Amount:        in.Amount,
		Currency:      in.Currency,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Description:   in.Description,
		Actor:         userID,
	}
	if in.FXRate != nil {
		input.FXRate = *in.FXRate
	}
	if in.TransactionDate != nil {
		input.TransactionDate = *in.TransactionDate
	}
	if input.ReferenceType == "" {
		input.ReferenceType = entity.ReferenceManual
	}
	entry, err := h.recorder.RecordEntry(c.UserContext(), input)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCashbookEntryResponse(entry))
}

func toCashbookEntryResponse(e *entity.CashbookEntry) dto.CashbookEntryResponse {
	return dto.CashbookEntryResponse{
		ID:              e.ID,
		TransactionDate: e.TransactionDate,
		Type:            e.Type,
		Category:        e.Category,
		Amount:          e.Amount,
		Currency:        e.Currency,
		FXRate:          e.FXRate,
		AmountBase:      e.AmountBase,
		BalanceAfter:    e.BalanceAfter,
		ReferenceType:   e.ReferenceType,
		ReferenceID:     e.ReferenceID,
		Description:     e.Description,
		CreatedBy:       e.CreatedBy,
		CreatedAt:       e.CreatedAt,
	}
}
