package handler

import (
	"errors"
	"net/http"

	"github.com/roadwatch/roadwatch/internal/accident"
	"github.com/roadwatch/roadwatch/internal/alert"
	"github.com/roadwatch/roadwatch/internal/middleware"
	"github.com/roadwatch/roadwatch/internal/model"
	"github.com/roadwatch/roadwatch/internal/notice"
	"github.com/roadwatch/roadwatch/internal/service"
	"github.com/roadwatch/roadwatch/internal/view"
)

// ToggleAllRequest is the body of the select-all control
type ToggleAllRequest struct {
	Selected *bool `json:"selected"`
}

// ToggleResponse reports whether a toggle matched a contact
type ToggleResponse struct {
	Found   bool          `json:"found"`
	Session view.Snapshot `json:"session"`
}

// SubmitResponse is the result of one alert submission
type SubmitResponse struct {
	Outcome    alert.Outcome `json:"outcome"`
	Recipients []string      `json:"recipients"`
	MessageID  string        `json:"messageId,omitempty"`
	Notice     *model.Notice `json:"notice,omitempty"`
	Session    view.Snapshot `json:"session"`
}

// CreateAlertSession opens an alert session for an accident
func (h *Handler) CreateAlertSession(w http.ResponseWriter, r *http.Request) {
	accidentID := r.PathValue("id")

	sess, err := h.alertSvc.Open(r.Context(), accidentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccidentIDEmpty):
			writeError(w, http.StatusBadRequest, "invalid_request", "Accident id is required")
		case errors.Is(err, accident.ErrNotFound):
			writeError(w, http.StatusNotFound, "accident_not_found", view.MsgNotFound)
		default:
			h.log.Error().Err(err).Str("accident_id", accidentID).Msg("failed to open alert session")
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to open alert session")
		}
		return
	}

	h.log.Info().
		Str("session_id", sess.ID()).
		Str("operator", middleware.GetOperator(r.Context())).
		Msg("operator opened alert session")

	writeJSON(w, http.StatusCreated, sess.View())
}

// GetAlertSession returns the current view of a session
func (h *Handler) GetAlertSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

// ReloadAlertSession re-queries the accident provider, bypassing its cache
func (h *Handler) ReloadAlertSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := sess.Reload(r.Context()); err != nil {
		if errors.Is(err, accident.ErrNotFound) {
			writeError(w, http.StatusNotFound, "accident_not_found", view.MsgNotFound)
			return
		}
		writeError(w, http.StatusBadGateway, "accident_unavailable", view.MsgLoadFailed)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

// ToggleContact flips one recipient. Unknown contacts are not an error.
func (h *Handler) ToggleContact(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	found := sess.ToggleOne(r.PathValue("contactId"))
	writeJSON(w, http.StatusOK, ToggleResponse{Found: found, Session: sess.View()})
}

// ToggleAllContacts sets every recipient to the requested state
func (h *Handler) ToggleAllContacts(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req ToggleAllRequest
	if err := readJSON(r, &req); err != nil || req.Selected == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Body must be {\"selected\": true|false}")
		return
	}

	sess.ToggleAll(*req.Selected)
	writeJSON(w, http.StatusOK, ToggleResponse{Found: true, Session: sess.View()})
}

// SubmitAlert dispatches the alert to the selected recipients. Dispatch
// failures are reported in the body, not as HTTP errors.
func (h *Handler) SubmitAlert(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	res, err := sess.Submit(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, view.ErrSubmitInProgress):
			writeError(w, http.StatusConflict, "submit_in_progress", "An alert is already being sent")
		case errors.Is(err, alert.ErrDataUnavailable):
			writeError(w, http.StatusUnprocessableEntity, "data_unavailable", view.MsgDataUnavailable)
		default:
			h.log.Error().Err(err).Str("session_id", sess.ID()).Msg("alert submit failed")
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to submit alert")
		}
		return
	}

	resp := SubmitResponse{
		Outcome:    res.Outcome,
		Recipients: res.Recipients,
		Notice:     sess.Notice(),
		Session:    sess.View(),
	}
	if resp.Recipients == nil {
		resp.Recipients = []string{}
	}
	if res.Receipt != nil {
		resp.MessageID = res.Receipt.MessageID
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetNotice returns the latest notice of a session, 204 when there is none
func (h *Handler) GetNotice(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var n *model.Notice
	if h.notices != nil {
		latest, err := h.notices.Latest(r.Context(), sess.ID())
		switch {
		case err == nil:
			n = latest
		case errors.Is(err, notice.ErrNoNotice):
		default:
			h.log.Warn().Err(err).Str("session_id", sess.ID()).Msg("failed to read notice channel")
		}
	}
	if n == nil {
		n = sess.Notice()
	}
	if n == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// DeleteAlertSession discards a session when the operator leaves the view
func (h *Handler) DeleteAlertSession(w http.ResponseWriter, r *http.Request) {
	if err := h.alertSvc.Close(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session_not_found", "Alert session not found")
			return
		}
		h.log.Warn().Err(err).Msg("failed to close alert session")
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*view.Session, bool) {
	sess, err := h.alertSvc.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "session_not_found", "Alert session not found")
		return nil, false
	}
	return sess, true
}
