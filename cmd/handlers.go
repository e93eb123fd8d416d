package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscore/internal/leadcsv"
	"github.com/sells-group/leadscore/internal/model"
	"github.com/sells-group/leadscore/internal/session"
)

// maxUploadBytes bounds the in-memory part of a multipart lead upload.
const maxUploadBytes = 32 << 20

const (
	msgOfferSaved    = "Offer details saved successfully."
	msgOfferInvalid  = "Invalid or incomplete offer details provided."
	msgNoOffer       = "No offer has been submitted."
	msgLeadsUploaded = "Leads uploaded successfully."
	msgNoFile        = "No file uploaded."
	msgLeadsInvalid  = "Could not parse the uploaded lead file."
	msgScored        = "Scoring complete."
	msgNoResults     = "No results available. Run scoring first."
)

type handlers struct {
	sess *session.Session
}

type messageResponse struct {
	Message string       `json:"message"`
	Error   string       `json:"error,omitempty"`
	Data    *model.Offer `json:"data,omitempty"`
	Count   *int         `json:"count,omitempty"`
	RunID   string       `json:"run_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response", zap.Error(err))
	}
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) submitOffer(w http.ResponseWriter, r *http.Request) {
	var offer model.Offer
	if err := json.NewDecoder(r.Body).Decode(&offer); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{
			Message: msgOfferInvalid,
			Error:   "invalid JSON body",
		})
		return
	}

	if err := h.sess.SubmitOffer(offer); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{
			Message: msgOfferInvalid,
			Error:   err.Error(),
		})
		return
	}

	saved, err := h.sess.Offer()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msgOfferSaved, Data: &saved})
}

func (h *handlers) getOffer(w http.ResponseWriter, _ *http.Request) {
	offer, err := h.sess.Offer()
	if err != nil {
		writeJSON(w, http.StatusNotFound, messageResponse{Message: msgNoOffer})
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

func (h *handlers) uploadLeads(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: msgNoFile, Error: err.Error()})
		return
	}

	file, header, err := r.FormFile("leads_file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: msgNoFile})
		return
	}
	defer file.Close() //nolint:errcheck

	n, err := h.sess.SubmitLeadsFile(header.Filename, file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: msgLeadsInvalid, Error: err.Error()})
		return
	}

	zap.L().Info("leads uploaded",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("file", header.Filename),
		zap.Int("count", n),
	)
	writeJSON(w, http.StatusOK, messageResponse{Message: msgLeadsUploaded, Count: &n})
}

func (h *handlers) score(w http.ResponseWriter, r *http.Request) {
	res, err := h.sess.Run(r.Context())
	if err != nil {
		if eris.Is(err, session.ErrNotReady) {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: session.ErrNotReady.Error()})
			return
		}
		zap.L().Error("scoring run failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Scoring failed.", Error: err.Error()})
		return
	}

	n := len(res.Leads)
	writeJSON(w, http.StatusOK, messageResponse{Message: msgScored, Count: &n, RunID: res.RunID})
}

func (h *handlers) results(w http.ResponseWriter, r *http.Request) {
	res, err := h.sess.Results()
	if err != nil {
		writeJSON(w, http.StatusNotFound, messageResponse{Message: msgNoResults})
		return
	}

	leads := res.Leads
	if r.URL.Query().Get("sort") == "score" {
		leads = model.RankByScore(leads)
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *handlers) exportResults(w http.ResponseWriter, r *http.Request) {
	res, err := h.sess.Results()
	if err != nil {
		writeJSON(w, http.StatusNotFound, messageResponse{Message: msgNoResults})
		return
	}

	leads := res.Leads
	if r.URL.Query().Get("sort") == "score" {
		leads = model.RankByScore(leads)
	}

	var buf bytes.Buffer
	if err := leadcsv.Write(&buf, leads); err != nil {
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Export failed.", Error: err.Error()})
		return
	}

	name := fmt.Sprintf("scored_leads_%s.csv", res.CompletedAt.Format(time.DateOnly))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
