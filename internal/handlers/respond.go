package handlers

import (
	"encoding/json"
	"errors"

	"github.com/nimasrn/ppob-gateway/internal/model"
	xhttp "github.com/nimasrn/ppob-gateway/pkg/http"
	"github.com/nimasrn/ppob-gateway/pkg/logger"
)

const MessageServerError = "Internal server error"

// exposeErrors adds the raw error text to 5xx bodies. Only development
// deployments turn it on.
var exposeErrors bool

func ExposeErrors(enabled bool) {
	exposeErrors = enabled
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, errorResponse{Message: msg})
}

// writeServerError logs err and answers with a fixed message.
func writeServerError(ctx *xhttp.RequestCtx, status int, msg string, err error) {
	logErr(ctx, status, err)
	resp := errorResponse{Message: msg}
	if exposeErrors && err != nil {
		resp.Error = err.Error()
	}
	writeJSON(ctx, status, resp)
}

// writeServiceError maps the shared sentinel errors. notFound is the
// message used for model.ErrNotFound.
func writeServiceError(ctx *xhttp.RequestCtx, err error, notFound string) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(ctx, xhttp.StatusBadRequest, ve.Message)
	case errors.Is(err, model.ErrNotFound):
		writeError(ctx, xhttp.StatusNotFound, notFound)
	default:
		writeServerError(ctx, xhttp.StatusInternalServerError, MessageServerError, err)
	}
}

func logErr(ctx *xhttp.RequestCtx, status int, err error) {
	logger.Error("request failed", "path", string(ctx.Path()), "status", status, "error", err)
}

func writeInvalidJSON(ctx *xhttp.RequestCtx, err error) {
	writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

func param(ctx *xhttp.RequestCtx, name string) string {
	if v, ok := ctx.UserValue(name).(string); ok {
		return v
	}
	return ""
}
