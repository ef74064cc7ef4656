package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hampi-heritage/quest/backend/internal/guide"
	"github.com/hampi-heritage/quest/backend/internal/middleware"
)

// GuideChatRequest is the body of POST /guide/chat: the full conversation so
// far, oldest message first. The client resends the history on every turn;
// nothing is stored server-side.
type GuideChatRequest struct {
	Messages []guide.Message `json:"messages"`
}

// GuideChatResponse is the body of a successful guide reply.
type GuideChatResponse struct {
	Reply string `json:"reply"`
}

// GuideChat handles POST /guide/chat.
// The route is public; signed-in travellers get replies grounded in their
// visited sites, anonymous visitors get the full catalog as unvisited.
func (s *Server) GuideChat(w http.ResponseWriter, r *http.Request) {
	var req GuideChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		requestError(w, "request body must be valid JSON")
		return
	}

	actorID, _ := middleware.UserID(r.Context())
	reply, err := s.guide.Chat(r.Context(), actorID, req.Messages)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, GuideChatResponse{Reply: reply})
}
