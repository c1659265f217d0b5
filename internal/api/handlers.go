package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Veraticus/ccgen/internal/common"
	"github.com/Veraticus/ccgen/internal/engine"
	"github.com/Veraticus/ccgen/internal/formatter"
	"github.com/Veraticus/ccgen/internal/model"
)

type classifyResponse struct {
	BIN       string        `json:"bin"`
	Network   model.Network `json:"network"`
	Hint      string        `json:"hint"`
	Mask      string        `json:"mask,omitempty"`
	CVCLength int           `json:"cvcLength"`
}

type generateRequest struct {
	BIN          string `json:"bin"`
	Format       string `json:"format"`
	Month        string `json:"month"`
	Year         string `json:"year"`
	CVC          string `json:"cvc"`
	Currency     string `json:"currency"`
	Balance      string `json:"balance"`
	Quantity     int    `json:"quantity"`
	DateEnabled  bool   `json:"date"`
	CVCEnabled   bool   `json:"cvcEnabled"`
	MoneyEnabled bool   `json:"money"`
}

type generateResponse struct {
	BIN       string         `json:"bin"`
	Network   model.Network  `json:"network"`
	Format    formatter.Tag  `json:"format"`
	Output    string         `json:"output"`
	Cards     []model.Record `json:"cards"`
	CVCLength int            `json:"cvcLength"`
	Count     int            `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	orchestrator *engine.Orchestrator
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handlers) classify(c *gin.Context) {
	res := h.orchestrator.Classify(c.Param("bin"))
	c.JSON(http.StatusOK, classifyResponse{
		BIN:       res.BIN,
		Network:   res.Classification.Network,
		CVCLength: res.Classification.CVCLength,
		Hint:      res.Hint,
		Mask:      res.Mask,
	})
}

func (h *handlers) format(c *gin.Context) {
	var doc model.GenerateResponse
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Request body must be a {\"cards\": [...]} document."})
		return
	}

	money := &model.Money{
		Currency: c.Query("currency"),
		Balance:  c.Query("balance"),
	}
	out := formatter.Format(doc.Cards, c.DefaultQuery("format", string(formatter.Pipe)), money)
	c.String(http.StatusOK, out)
}

func (h *handlers) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Request body must be a JSON object."})
		return
	}

	result, err := h.orchestrator.Generate(c.Request.Context(), engine.Request{
		BIN:          req.BIN,
		Quantity:     req.Quantity,
		Format:       formatter.ParseTag(req.Format),
		Month:        req.Month,
		Year:         req.Year,
		CVC:          req.CVC,
		Currency:     req.Currency,
		Balance:      req.Balance,
		DateEnabled:  req.DateEnabled,
		CVCEnabled:   req.CVCEnabled,
		MoneyEnabled: req.MoneyEnabled,
	})
	if err != nil {
		_ = c.Error(err)
		c.JSON(statusFor(err), errorResponse{Error: common.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, generateResponse{
		BIN:       result.BIN,
		Network:   result.Classification.Network,
		CVCLength: result.Classification.CVCLength,
		Format:    result.Format,
		Count:     len(result.Records),
		Output:    result.Output,
		Cards:     result.Records,
	})
}

// statusFor maps engine and generator errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidBIN), errors.Is(err, common.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrNoCards):
		return http.StatusUnprocessableEntity
	case errors.Is(err, common.ErrRequestTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, common.ErrRateLimit):
		return http.StatusTooManyRequests
	case errors.Is(err, common.ErrServerBusy), errors.Is(err, common.ErrRequestFailed),
		errors.Is(err, common.ErrUnreachable), errors.Is(err, common.ErrBadResponse):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
