package matches

import (
	"github.com/gorilla/mux"
)

func RegisterRoutes(router *mux.Router, handler *Handler) {
	api := router.PathPrefix("/api/v1/matches").Subrouter()

	api.HandleFunc("/find", handler.FindMatches).Methods("POST")
	api.HandleFunc("/event", handler.RecordEvent).Methods("POST")
	api.HandleFunc("/seen", handler.GetSeenProfiles).Methods("GET")
	api.HandleFunc("/seen", handler.ClearSeen).Methods("DELETE")
	api.HandleFunc("/seen/stats", handler.GetSeenStats).Methods("GET")
}
