package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ethiapath/djmusicorganizer/internal/engine"
	"github.com/ethiapath/djmusicorganizer/internal/library"
)

// ConvertRequest asks for a full source -> canonical -> target conversion.
type ConvertRequest struct {
	SourceSchema string `json:"sourceSchema"`
	TargetSchema string `json:"targetSchema"`
	Document     string `json:"document"`
}

// ConvertResponse carries the converted document and everything that was
// dropped along the way. Warnings on a 200 are the expected common case for
// any non-trivial library.
type ConvertResponse struct {
	Document string            `json:"document"`
	Warnings []library.Warning `json:"warnings"`
}

// InspectRequest asks for a canonical summary of one document.
type InspectRequest struct {
	Schema   string `json:"schema"`
	Document string `json:"document"`
}

// InspectResponse summarizes the parsed library.
type InspectResponse struct {
	Tracks    int               `json:"tracks"`
	Playlists int               `json:"playlists"`
	CuePoints int               `json:"cuePoints"`
	Warnings  []library.Warning `json:"warnings"`
}

func (s *Server) convert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body: "+err.Error()))
		return
	}

	source, err := engine.ParseSchema(req.SourceSchema)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	target, err := engine.ParseSchema(req.TargetSchema)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	out, warnings, err := engine.Convert([]byte(req.Document), source, target)
	if err != nil {
		var structural *engine.StructuralError
		if errors.As(err, &structural) {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	slog.Info("conversion request served",
		"source", source,
		"target", target,
		"warnings", len(warnings))
	writeJSON(w, http.StatusOK, ConvertResponse{
		Document: string(out),
		Warnings: nonNil(warnings),
	})
}

func (s *Server) inspect(w http.ResponseWriter, r *http.Request) {
	var req InspectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body: "+err.Error()))
		return
	}

	schema, err := engine.ParseSchema(req.Schema)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	lib, warnings, err := engine.ReadToCanonical([]byte(req.Document), schema)
	if err != nil {
		var structural *engine.StructuralError
		if errors.As(err, &structural) {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	cues := 0
	for _, t := range lib.Tracks {
		cues += len(t.CuePoints)
	}
	writeJSON(w, http.StatusOK, InspectResponse{
		Tracks:    len(lib.Tracks),
		Playlists: len(lib.Root.Playlists()),
		CuePoints: cues,
		Warnings:  nonNil(warnings),
	})
}

// nonNil keeps the warnings array present in JSON even when empty.
func nonNil(ws library.Warnings) []library.Warning {
	if ws == nil {
		return []library.Warning{}
	}
	return ws
}
