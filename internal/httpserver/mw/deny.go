package mw

import (
	"encoding/json"
	"net/http"
)

type denial struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// Deny writes the JSON error body every handler uses.
func Deny(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(denial{Error: msg, Code: code})
}
