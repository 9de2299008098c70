// Package handler serves POST /api/auth/login as a serverless function.
package handler

import (
	"net/http"

	"github.com/nimasrn/ppob-gateway/internal/app"
)

func Handler(w http.ResponseWriter, r *http.Request) {
	app.ServeHTTP(w, r)
}
