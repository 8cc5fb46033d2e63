package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/codenames-backend/internal/apperror"
	"github.com/rocketscienceinc/codenames-backend/internal/codenames"
	"github.com/rocketscienceinc/codenames-backend/internal/entity"
)

type playerResponse struct {
	Player  *entity.Player `json:"player"`
	Session codenames.View `json:"session"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

func (that *Server) handleCards(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, that.sessions.Board())
}

func (that *Server) handleCreatePlayer(w http.ResponseWriter, _ *http.Request) {
	player := that.sessions.CreatePlayer()

	view, err := that.sessions.View(player.ID)
	if err != nil {
		that.writeSessionError(w, "handleCreatePlayer", err)
		return
	}

	writeJSON(w, http.StatusCreated, playerResponse{Player: player, Session: view})
}

func (that *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	that.respond(w, "handleSession")(that.sessions.View(chi.URLParam(r, "playerID")))
}

func (that *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	that.respond(w, "handleStart")(that.sessions.Start(chi.URLParam(r, "playerID")))
}

func (that *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	that.respond(w, "handleStop")(that.sessions.Stop(chi.URLParam(r, "playerID")))
}

func (that *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	that.respond(w, "handleClose")(that.sessions.Close(chi.URLParam(r, "playerID")))
}

func (that *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	cardID, err := strconv.Atoi(chi.URLParam(r, "cardID"))
	if err != nil {
		that.writeSessionError(w, "handleReveal", fmt.Errorf("%w: %s", apperror.ErrInvalidCard, chi.URLParam(r, "cardID")))
		return
	}

	that.respond(w, "handleReveal")(that.sessions.Reveal(chi.URLParam(r, "playerID"), cardID))
}

func (that *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleScore")

	score, err := that.sessions.Score(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		log.Error("failed to get score", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get score")
		return
	}

	writeJSON(w, http.StatusOK, score)
}

// respond - writes the view of a session operation or maps its error.
func (that *Server) respond(w http.ResponseWriter, method string) func(codenames.View, error) {
	return func(view codenames.View, err error) {
		if err != nil {
			that.writeSessionError(w, method, err)
			return
		}

		writeJSON(w, http.StatusOK, view)
	}
}

func (that *Server) writeSessionError(w http.ResponseWriter, method string, err error) {
	log := that.logger.With("method", method)

	switch {
	case errors.Is(err, apperror.ErrPlayerNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperror.ErrInvalidCard):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error("session operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(payload)
}
