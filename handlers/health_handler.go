package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

func InitHealth(router *mux.Router) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(map[string]string{"status": "ok"}, w, http.StatusOK)
	}).Methods(http.MethodGet)
}
