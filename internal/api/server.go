package api

import (
	"encoding/json"
	"net/http"

	"github.com/sportexhq/sportex/internal/config"
	"github.com/sportexhq/sportex/internal/notify"
	"github.com/sportexhq/sportex/internal/registration"
	"github.com/sportexhq/sportex/internal/store"
)

// Server is the main struct for the API. It holds all dependencies the
// HTTP handlers need: configuration, the document store, the notification
// emitter and the registration engine. Everything is injected at
// construction, which keeps handlers testable against an in-process store.
type Server struct {
	config        *config.Config
	store         store.Store
	emitter       *notify.Emitter
	registrations *registration.Engine
}

// NewServer wires the given dependencies into a new Server instance.
func NewServer(cfg *config.Config, st store.Store, emitter *notify.Emitter, engine *registration.Engine) *Server {
	return &Server{
		config:        cfg,
		store:         st,
		emitter:       emitter,
		registrations: engine,
	}
}

// envelope is a custom map type used for creating structured JSON
// responses, e.g. envelope{"user": userObject}.
type envelope map[string]interface{}

// writeJSON sends a JSON response with the given status code. Output is
// pretty-printed; it makes debugging with curl pleasant and costs nothing
// at this traffic level.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}, headers ...http.Header) {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		http.Error(w, "Internal Server Error: Failed to marshal JSON", http.StatusInternalServerError)
		return
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
}

// errorJSON sends a standardized JSON error response of the form
// {"error": "message"}. Defaults to 500 when no status is provided.
func (s *Server) errorJSON(w http.ResponseWriter, err error, status ...int) {
	statusCode := http.StatusInternalServerError
	if len(status) > 0 {
		statusCode = status[0]
	}
	s.writeJSON(w, statusCode, envelope{"error": err.Error()})
}
