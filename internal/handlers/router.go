package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter assembles the HTTP API. Registration, login and the liveness
// probe are open; everything else requires a bearer session token.
func NewRouter(auth *AuthHandler, chatHandler *ChatHandler, sessions *SessionsHandler) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/ping", chatHandler.Ping).Methods(http.MethodGet)
	router.HandleFunc("/register", auth.Register).Methods(http.MethodPost)
	router.HandleFunc("/login", auth.Login).Methods(http.MethodPost)

	api := router.NewRoute().Subrouter()
	api.Use(auth.Middleware)

	api.HandleFunc("/chat", chatHandler.Chat).Methods(http.MethodPost)
	api.HandleFunc("/chat/confirm", chatHandler.Confirm).Methods(http.MethodPost)
	api.HandleFunc("/history", chatHandler.History).Methods(http.MethodGet)

	api.HandleFunc("/sessions", sessions.List).Methods(http.MethodGet)
	api.HandleFunc("/sessions", sessions.Create).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/open", sessions.Open).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", sessions.Rename).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{id}", sessions.Delete).Methods(http.MethodDelete)

	return router
}
