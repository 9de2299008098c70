package handlers

import (
	"time"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/nimasrn/ppob-gateway/internal/receipt"
	xhttp "github.com/nimasrn/ppob-gateway/pkg/http"
)

type ReceiptHandler struct {
	loc *time.Location
	now func() time.Time
}

func RegisterReceiptRoutes(e *xhttp.Group, h *ReceiptHandler) {
	e.POST("/receipts/pln", h.PrintPLNReceipt)
}

func NewReceiptHandler(loc *time.Location) *ReceiptHandler {
	return &ReceiptHandler{loc: loc, now: time.Now}
}

// PrintPLNReceipt renders a checked bill. ?format=text returns the bare
// 32 column text; anything else the printable HTML page.
func (h *ReceiptHandler) PrintPLNReceipt(ctx *xhttp.RequestCtx) {
	var res model.BillCheckResult
	if err := readJSON(ctx, &res); err != nil {
		writeInvalidJSON(ctx, err)
		return
	}
	if res.CustomerNumber == "" {
		writeError(ctx, xhttp.StatusBadRequest, "nomor_id_pelanggan is required")
		return
	}
	res.ApplyAdminFee(res.AdminFee)

	text := receipt.Text(&res, h.now(), h.loc)
	ctx.Response.SetStatusCode(xhttp.StatusOK)
	if query(ctx, "format") == "text" {
		ctx.Response.Header.Set("Content-Type", "text/plain; charset=utf-8")
		ctx.Response.SetBodyString(text)
		return
	}
	ctx.Response.Header.Set("Content-Type", "text/html; charset=utf-8")
	ctx.Response.SetBodyString(receipt.HTML(text))
}
