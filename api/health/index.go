// Package handler serves GET /api/health as a serverless function.
package handler

import (
	"net/http"

	"github.com/nimasrn/ppob-gateway/internal/app"
)

func Handler(w http.ResponseWriter, r *http.Request) {
	app.ServeHTTP(w, r)
}
