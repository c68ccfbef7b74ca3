package httpapi

import (
	"fmt"
	"net/http"

	"github.com/kofany/sshm.io/internal/common"
	"github.com/kofany/sshm.io/internal/server/services"
)

func (s *Server) handleSyncGet(w http.ResponseWriter, r *http.Request) {
	data, err := s.sync.Fetch(r.Context(), UserID(r.Context()))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, "OK", data)
}

func (s *Server) handleSyncPost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Data *services.SyncInput `json:"data"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeServiceError(w, err)
		return
	}
	// A body without a data document is malformed; {"data":{}} is the
	// legitimate touch-only request.
	if req.Data == nil {
		s.writeServiceError(w, fmt.Errorf("%w: %w", common.ErrorValidation, common.ErrorMissingFields))
		return
	}

	lastSync, err := s.sync.Replace(r.Context(), UserID(r.Context()), req.Data)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, "Sync complete", map[string]any{
		"last_sync": lastSync,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := s.users.Info(ctx, UserID(ctx))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	stats, err := s.sync.Stats(ctx, user.ID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, "OK", map[string]any{
		"version": Version,
		"email":   user.Email,
		"stats":   stats,
	})
}
