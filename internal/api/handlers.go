package api

import (
	"encoding/json"
	"net/http"
	"sort"

	"arena-shooter/internal/lobby"

	"github.com/go-chi/chi/v5"
)

// handleCreateOrJoinMatch creates a new match for the requested mode, or
// joins an existing open one, per lobby.FindOrJoin's policy.
func (h *routerHandlers) handleCreateOrJoinMatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode    string `json:"mode"`
		MatchID string `json:"matchId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Mode == "" {
		writeError(w, "mode is required", http.StatusBadRequest)
		return
	}

	m, err := h.lobby.FindOrJoin(req.MatchID, req.Mode)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, matchSummary(m))
}

// handleListMatches lists every live match, for a lobby browser UI.
func (h *routerHandlers) handleListMatches(w http.ResponseWriter, r *http.Request) {
	matches := h.lobby.Matches()
	result := make([]map[string]interface{}, 0, len(matches))
	for _, m := range matches {
		result = append(result, matchSummary(m))
	}
	writeJSON(w, result)
}

// handleGetMatch returns a single match's current stats.
func (h *routerHandlers) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchId")
	m, err := h.lobby.GetMatch(matchID)
	if err != nil {
		writeError(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, matchSummary(m))
}

// handleGetLeaderboard returns the top-scoring players in a match, sorted
// by kills then fewer deaths.
func (h *routerHandlers) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchId")
	m, err := h.lobby.GetMatch(matchID)
	if err != nil {
		writeError(w, err.Error(), http.StatusNotFound)
		return
	}

	snap := m.Engine.GetSnapshot()
	players := make([]struct {
		Name   string `json:"name"`
		Kills  int    `json:"kills"`
		Deaths int    `json:"deaths"`
	}, 0, len(snap.Players))
	for _, p := range snap.Players {
		players = append(players, struct {
			Name   string `json:"name"`
			Kills  int    `json:"kills"`
			Deaths int    `json:"deaths"`
		}{Name: p.Name, Kills: p.Kills, Deaths: p.Deaths})
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].Kills != players[j].Kills {
			return players[i].Kills > players[j].Kills
		}
		return players[i].Deaths < players[j].Deaths
	})

	limit := 10
	if len(players) < limit {
		limit = len(players)
	}
	writeJSON(w, players[:limit])
}

func matchSummary(m *lobby.Match) map[string]interface{} {
	snap := m.Engine.GetSnapshot()
	return map[string]interface{}{
		"matchId":     m.ID,
		"mode":        m.Mode,
		"ruleset":     snap.RulesetName,
		"phase":       snap.RoundPhase,
		"playerCount": len(snap.Players),
		"scores":      snap.Scores,
		"createdAt":   m.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
