package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/berrythewa/clipsense/internal/storage"
	"github.com/berrythewa/clipsense/internal/types"
)

const (
	eventBuffer   = 16
	keepAliveTick = 15 * time.Second
)

type handlers struct {
	svc    Service
	logger *zap.Logger
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, storage.ErrNotFound) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func badRequest(w http.ResponseWriter, format string, a ...any) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: fmt.Sprintf(format, a...)})
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}

func (h *handlers) listEntries(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit")
	if err != nil {
		badRequest(w, "%v", err)
		return
	}
	offset, err := intParam(r, "offset")
	if err != nil {
		badRequest(w, "%v", err)
		return
	}
	q := r.URL.Query()
	ct := types.ContentType(q.Get("type"))
	if ct != "" && !ct.Valid() {
		badRequest(w, "unknown content type %q", ct)
		return
	}

	entries, err := h.svc.History(r.Context(), storage.HistoryQuery{
		Limit:         limit,
		Offset:        offset,
		Search:        q.Get("q"),
		Type:          ct,
		FavoritesOnly: q.Get("favorites") == "true",
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *handlers) getEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.Entry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *handlers) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	fav, err := h.svc.ToggleFavorite(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "is_favorite": fav})
}

func (h *handlers) deleteEntry(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) clearEntries(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Clear(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Statistics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *handlers) cacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.CacheStatistics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// events streams finalized entries as server-sent events until the client goes away
func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "streaming unsupported"})
		return
	}

	entries, unsubscribe := h.svc.Subscribe(eventBuffer)
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveTick)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case entry, ok := <-entries:
			if !ok {
				return
			}
			data, err := json.Marshal(entry)
			if err != nil {
				h.logger.Warn("Failed to encode event", zap.String("id", entry.ID), zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "id: %s\nevent: entry\ndata: %s\n\n", entry.ID, data)
			flusher.Flush()
		}
	}
}
