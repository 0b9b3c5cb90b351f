// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fieldgeneral/dynasty/internal/adapters/repository"
	"github.com/fieldgeneral/dynasty/internal/domain/model"
)

// Board view names accepted by the view query parameter.
const (
	viewTrade = "trade"
	viewTiers = "tiers"
)

// BoardHandler handles positional board requests.
type BoardHandler struct {
	deps Dependencies
}

// NewBoardHandler creates a new board handler.
func NewBoardHandler(deps Dependencies) *BoardHandler {
	return &BoardHandler{deps: deps}
}

// boardResponse is the wire shape of GET /api/v1/board/{pos}.
type boardResponse struct {
	Position    string     `json:"position"`
	View        string     `json:"view"`
	RunID       string     `json:"run_id"`
	GeneratedAt time.Time  `json:"generated_at"`
	Players     []boardRow `json:"players"`
}

// boardRow flattens a RankedPlayerRow for JSON. Tier fields are omitted on
// the trade view and vice versa.
type boardRow struct {
	PlayerID       string   `json:"player_id"`
	Player         string   `json:"player"`
	Team           string   `json:"team"`
	Age            *float64 `json:"age,omitempty"`
	ConsensusRank  float64  `json:"consensus_rank"`
	BestRank       float64  `json:"best_rank,omitempty"`
	WorstRank      float64  `json:"worst_rank,omitempty"`
	RankStdDev     float64  `json:"rank_std_dev,omitempty"`
	Owner          string   `json:"owner"`
	Tier           int      `json:"tier,omitempty"`
	TierConfidence string   `json:"tier_confidence,omitempty"`
	TradeValue     int      `json:"trade_value,omitempty"`
}

// HandleGetBoard handles GET /api/v1/board/{pos}?view=tiers|trade requests.
func (h *BoardHandler) HandleGetBoard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_board"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	pos := model.Position(strings.ToUpper(strings.TrimPrefix(r.URL.Path, "/api/v1/board/")))
	if !pos.Valid() {
		writeError(w, http.StatusBadRequest, "unknown_position", NewKind(op, ErrBadRequest))
		return
	}
	view := r.URL.Query().Get("view")
	if view == "" {
		view = viewTrade
	}
	if view != viewTrade && view != viewTiers {
		writeError(w, http.StatusBadRequest, "unknown_view", NewKind(op, ErrBadRequest))
		return
	}

	board, err := h.deps.Board(r.Context(), pos)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "board_not_ready", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	resp := boardResponse{
		Position:    string(pos),
		View:        view,
		RunID:       board.RunID,
		GeneratedAt: board.GeneratedAt,
	}
	rows := board.Ranked
	if view == viewTiers {
		rows = board.Tiered
	}
	for _, row := range rows {
		out := boardRow{
			PlayerID:      row.RankingProviderID.String(),
			Player:        row.PlayerName,
			Team:          row.Team,
			Age:           row.Age,
			ConsensusRank: row.ConsensusRank,
			Owner:         row.Owner,
		}
		if view == viewTiers {
			out.BestRank = row.BestRank
			out.WorstRank = row.WorstRank
			out.RankStdDev = row.RankStdDev
			out.Tier = row.Tier
			out.TierConfidence = row.TierConfidence
		} else {
			out.TradeValue = row.TradeValue
		}
		resp.Players = append(resp.Players, out)
	}
	writeJSON(w, http.StatusOK, resp)
}
