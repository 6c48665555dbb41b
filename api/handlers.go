package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/battlesnakeio/gridsnake/controller"
	"github.com/battlesnakeio/gridsnake/controller/pb"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	defaultFrameLimit = 100
	maxFrameLimit     = 1000
)

func (s *Server) createGame(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := &pb.CreateRequest{}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			writeError(w, errors.Wrap(err, "invalid json"), http.StatusBadRequest)
			return
		}
	}
	game, err := s.controller.Create(r.Context(), req)
	if err != nil {
		writeError(w, err, errorStatus(err))
		return
	}
	writeJSON(w, game, http.StatusOK)
}

func (s *Server) listGames(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	games, err := s.controller.Games(r.Context())
	if err != nil {
		writeError(w, err, errorStatus(err))
		return
	}
	writeJSON(w, games, http.StatusOK)
}

func (s *Server) status(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	resp, err := s.controller.Status(r.Context(), ps.ByName("id"))
	if err != nil {
		writeError(w, err, errorStatus(err))
		return
	}
	writeJSON(w, resp, http.StatusOK)
}

func (s *Server) frames(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	q := r.URL.Query()
	offset, err := intParam(q.Get("offset"), 0)
	if err != nil {
		writeError(w, errors.Wrap(err, "invalid offset"), http.StatusBadRequest)
		return
	}
	limit, err := intParam(q.Get("limit"), defaultFrameLimit)
	if err != nil || limit <= 0 {
		writeError(w, errors.New("invalid limit"), http.StatusBadRequest)
		return
	}
	if limit > maxFrameLimit {
		limit = maxFrameLimit
	}

	resp, err := s.controller.Frames(r.Context(), ps.ByName("id"), limit, offset)
	if err != nil {
		writeError(w, err, errorStatus(err))
		return
	}
	writeJSON(w, resp, http.StatusOK)
}

func (s *Server) snapshot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	f, err := s.controller.Snapshot(r.Context(), ps.ByName("id"))
	if err != nil {
		writeError(w, err, errorStatus(err))
		return
	}
	writeJSON(w, f, http.StatusOK)
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func errorStatus(err error) int {
	switch errors.Cause(err) {
	case controller.ErrNotFound:
		return http.StatusNotFound
	case controller.ErrInvalidRequest:
		return http.StatusBadRequest
	case controller.ErrStoreFull:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error, code int) {
	if code >= http.StatusInternalServerError {
		log.WithError(err).Error("api request failed")
	}
	writeJSON(w, errorResponse{Error: err.Error()}, code)
}

func writeJSON(w http.ResponseWriter, v interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("unable to write response")
	}
}
