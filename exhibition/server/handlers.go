package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	internal "github.com/EvelinyStark/vides-makslas-sarunas/exhibition"
	"github.com/EvelinyStark/vides-makslas-sarunas/exhibition/store"
)

type addMessageRequest struct {
	APIKey  string `json:"api_key"`
	Message struct {
		Speaker   string `json:"speaker"`
		Text      string `json:"text"`
		Timestamp string `json:"timestamp"`
		Turn      int    `json:"turn"`
	} `json:"message"`
}

type updateStatusRequest struct {
	APIKey string       `json:"api_key"`
	Status statusFields `json:"status"`
}

// statusFields mirrors the wire shape of the status object. Fields the
// caller omits keep the fixed defaults set before decoding; update-status is
// a full replace, not a patch.
type statusFields struct {
	Active  bool   `json:"active"`
	Turn    int    `json:"turn"`
	Speaker string `json:"speaker"`
	TTSMode string `json:"tts_mode"`
	AIMode  string `json:"ai_mode"`
}

type apiKeyRequest struct {
	APIKey string `json:"api_key"`
}

type commandRequest struct {
	Command string `json:"command"`
}

func (s *Server) handleAddMessage(w http.ResponseWriter, r *http.Request) {
	var req addMessageRequest
	// A malformed body carries no usable key; the guard below rejects it.
	_ = json.NewDecoder(r.Body).Decode(&req)

	if !s.authorized(req.APIKey) {
		writeUnauthorized(w)
		return
	}

	id, err := s.store.AppendTurn(r.Context(), store.Turn{
		Speaker:   req.Message.Speaker,
		Text:      req.Message.Text,
		Timestamp: req.Message.Timestamp,
		Turn:      req.Message.Turn,
	})
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message_id": id})
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	req := updateStatusRequest{
		Status: statusFields{
			Speaker: internal.DefaultSpeaker,
			TTSMode: internal.DefaultTTSMode,
			AIMode:  internal.DefaultAIMode,
		},
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	if !s.authorized(req.APIKey) {
		writeUnauthorized(w)
		return
	}

	err := s.store.UpdateStatus(r.Context(), store.Status{
		Active:  req.Status.Active,
		Turn:    req.Status.Turn,
		Speaker: req.Status.Speaker,
		TTSMode: req.Status.TTSMode,
		AIMode:  req.Status.AIMode,
	})
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleConversation(w http.ResponseWriter, r *http.Request) {
	limit := s.historyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	turns, status, err := s.store.Conversation(r.Context(), limit)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"messages": turns,
		"status":   status,
	})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	var req apiKeyRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if !s.authorized(req.APIKey) {
		writeUnauthorized(w)
		return
	}

	if err := s.store.ClearHistory(r.Context()); err != nil {
		s.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	id, err := s.store.SubmitCommand(r.Context(), req.Command)
	if err != nil {
		if isInvalidCommand(err) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"status":  "error",
				"message": fmt.Sprintf("unknown command %q", req.Command),
			})
			return
		}
		s.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": fmt.Sprintf("command %q queued (#%d)", req.Command, id),
	})
}

func (s *Server) handleCheckCommands(w http.ResponseWriter, r *http.Request) {
	var req apiKeyRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	// Claiming marks commands processed, so the driver authenticates like
	// any other writer.
	if !s.authorized(req.APIKey) {
		writeUnauthorized(w)
		return
	}

	commands, err := s.store.ClaimCommands(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"commands": commands})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	text, err := s.store.RenderTranscript(r.Context(), now)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	filename := fmt.Sprintf("exhibition_conversation_%s.txt", now.Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
