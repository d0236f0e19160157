package importcsv

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/auth"
	"github.com/MrJamesThe3rd/financeflow/internal/http/respond"
	txHandler "github.com/MrJamesThe3rd/financeflow/internal/http/transaction"
	"github.com/MrJamesThe3rd/financeflow/internal/importer"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

// MaxUploadSize bounds the multipart form held in memory.
const MaxUploadSize = 10 << 20

type Handler struct {
	svc *importer.Service
}

func NewHandler(svc *importer.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type importSuccessResponse struct {
	Format       string               `json:"format,omitempty"`
	Imported     int                  `json:"imported"`
	Skipped      int                  `json:"skipped"`
	Transactions []txHandler.Response `json:"transactions"`
}

type paramsDTO struct {
	Date          string                    `json:"date"`
	Type          transaction.Type          `json:"type"`
	CategoryID    *uuid.UUID                `json:"categoryId"`
	Amount        decimal.Decimal           `json:"amount"`
	PaymentMethod transaction.PaymentMethod `json:"paymentMethod"`
	Note          string                    `json:"note"`
}

type conflictDTO struct {
	Incoming paramsDTO          `json:"incoming"`
	Existing txHandler.Response `json:"existing"`
}

type importConflictResponse struct {
	Format    string        `json:"format"`
	New       []paramsDTO   `json:"new"`
	Conflicts []conflictDTO `json:"conflicts"`
}

type confirmRequest struct {
	Params []paramsDTO `json:"params"`
}

// importCSV answers 201 when every row was stored and 409 with the split when some rows
// already exist. Nothing is stored in the second case.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	res, err := h.svc.Import(r.Context(), auth.UserID(r.Context()), file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if len(res.Conflicts) > 0 {
		resp := importConflictResponse{
			Format:    res.Format,
			New:       make([]paramsDTO, 0, len(res.New)),
			Conflicts: make([]conflictDTO, 0, len(res.Conflicts)),
		}

		for _, p := range res.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range res.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toParamsDTO(c.Incoming),
				Existing: txHandler.ToResponse(c.Existing),
			})
		}

		respond.JSON(w, http.StatusConflict, resp)

		return
	}

	respond.JSON(w, http.StatusCreated, importSuccessResponse{
		Format:       res.Format,
		Imported:     len(res.Imported),
		Skipped:      res.Skipped,
		Transactions: txHandler.ToResponseList(res.Imported),
	})
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	params := make([]transaction.CreateParams, 0, len(req.Params))

	for _, p := range req.Params {
		date, err := respond.Date(p.Date)
		if err != nil || date == nil {
			http.Error(w, "invalid date "+p.Date, http.StatusBadRequest)
			return
		}

		cp := transaction.CreateParams{
			Date:          *date,
			Type:          p.Type,
			Amount:        p.Amount,
			PaymentMethod: p.PaymentMethod,
			Note:          p.Note,
		}

		if p.CategoryID != nil {
			cp.CategoryID = *p.CategoryID
		}

		params = append(params, cp)
	}

	txs, err := h.svc.Confirm(r.Context(), auth.UserID(r.Context()), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, importSuccessResponse{
		Imported:     len(txs),
		Transactions: txHandler.ToResponseList(txs),
	})
}

func toParamsDTO(p transaction.CreateParams) paramsDTO {
	dto := paramsDTO{
		Date:          p.Date.Format(time.DateOnly),
		Type:          p.Type,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		Note:          p.Note,
	}

	if p.CategoryID != uuid.Nil {
		dto.CategoryID = &p.CategoryID
	}

	return dto
}
