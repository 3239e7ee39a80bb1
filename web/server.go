// Package web serves viewer diagnostics over http: frame stats, the
// scene tree, the config and a websocket status feed.
package web

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

func NewRouter(s *State) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/json/stats", HandlerStats(s)).Methods(http.MethodGet)
	r.HandleFunc("/json/scene", HandlerScene(s)).Methods(http.MethodGet)
	r.HandleFunc("/json/scene/{id}", HandlerSceneNode(s)).Methods(http.MethodGet)
	r.HandleFunc("/json/config", HandlerConfig).Methods(http.MethodGet)
	r.HandleFunc("/dump/scene", HandlerDumpScene(s)).Methods(http.MethodGet)
	r.HandleFunc("/ws/status", HandlerStatusSocket)
	return r
}

func StartServer(addr string, s *State) error {
	h := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(NewRouter(s))
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
