package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/fieldgeneral/dynasty/internal/adapters/http/api"
	"github.com/fieldgeneral/dynasty/internal/adapters/repository"
	service "github.com/fieldgeneral/dynasty/internal/app"
	"github.com/fieldgeneral/dynasty/internal/domain/model"
)

// fakeDeps serves canned boards and reports to the handlers.
type fakeDeps struct {
	boards  map[model.Position]repository.Board
	reports map[string]service.TeamReport
}

func (f *fakeDeps) Board(_ context.Context, pos model.Position) (repository.Board, error) {
	b, ok := f.boards[pos]
	if !ok {
		return repository.Board{}, repository.ErrNotFound
	}
	return b, nil
}

func (f *fakeDeps) TeamStrength(_ context.Context, owner string) (service.TeamReport, error) {
	r, ok := f.reports[owner]
	if !ok {
		return service.TeamReport{}, fmt.Errorf("owner %q: %w", owner, repository.ErrNotFound)
	}
	return r, nil
}

func (f *fakeDeps) Stats(context.Context) map[string]interface{} {
	return map[string]interface{}{"boards": len(f.boards)}
}

func age(v float64) *float64 { return &v }

func newMux() (*http.ServeMux, *fakeDeps) {
	deps := &fakeDeps{
		boards: map[model.Position]repository.Board{
			model.RB: {
				Position:    model.RB,
				RunID:       "run-1",
				GeneratedAt: time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
				Ranked: []model.RankedPlayerRow{
					{RankingProviderID: "19798", PlayerName: "Player One", Team: "MIN", ConsensusRank: 1, Owner: "Alice", Age: age(24.5), TradeValue: 99},
					{RankingProviderID: "17237", PlayerName: "Player Two", Team: "KC", ConsensusRank: 2, Owner: model.OwnerFreeAgent, TradeValue: 95},
				},
				Tiered: []model.RankedPlayerRow{
					{RankingProviderID: "19798", PlayerName: "Player One", Team: "MIN", ConsensusRank: 1, BestRank: 1, WorstRank: 2, RankStdDev: 0.5, Owner: "Alice", Tier: 1, TierConfidence: "99.12%"},
				},
			},
		},
		reports: map[string]service.TeamReport{
			"Alice": {
				Owner:     "Alice",
				Roster:    []model.RankedPlayerRow{{RankingProviderID: "19798", PlayerName: "Player One", Owner: "Alice", TradeValue: 99}},
				Strengths: []service.PositionStrength{{Position: "Overall", TotalValue: 99, Rank: 1, LeagueAvg: 50}},
			},
		},
	}
	mux := http.NewServeMux()
	api.NewServer(deps).Register(context.Background(), mux)
	return mux, deps
}

func get(mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestBoardEndpoint(t *testing.T) {
	convey.Convey("Given the API routes", t, func() {
		mux, _ := newMux()

		convey.Convey("When requesting the trade view", func() {
			rec := get(mux, "/api/v1/board/RB")

			convey.Convey("Then the full valued board comes back", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				var resp struct {
					Position string `json:"position"`
					View     string `json:"view"`
					RunID    string `json:"run_id"`
					Players  []map[string]any `json:"players"`
				}
				convey.So(json.Unmarshal(rec.Body.Bytes(), &resp), convey.ShouldBeNil)
				convey.So(resp.Position, convey.ShouldEqual, "RB")
				convey.So(resp.View, convey.ShouldEqual, "trade")
				convey.So(resp.RunID, convey.ShouldEqual, "run-1")
				convey.So(resp.Players, convey.ShouldHaveLength, 2)
				convey.So(resp.Players[0]["trade_value"], convey.ShouldEqual, 99)
				convey.So(resp.Players[0]["tier"], convey.ShouldBeNil)
			})
		})

		convey.Convey("When requesting the tiers view", func() {
			rec := get(mux, "/api/v1/board/rb?view=tiers")

			convey.Convey("Then the tier columns replace the trade column", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				var resp struct {
					View    string `json:"view"`
					Players []map[string]any `json:"players"`
				}
				convey.So(json.Unmarshal(rec.Body.Bytes(), &resp), convey.ShouldBeNil)
				convey.So(resp.View, convey.ShouldEqual, "tiers")
				convey.So(resp.Players, convey.ShouldHaveLength, 1)
				convey.So(resp.Players[0]["tier"], convey.ShouldEqual, 1)
				convey.So(resp.Players[0]["tier_confidence"], convey.ShouldEqual, "99.12%")
				convey.So(resp.Players[0]["trade_value"], convey.ShouldBeNil)
			})
		})

		convey.Convey("When requesting an unknown position", func() {
			rec := get(mux, "/api/v1/board/K")

			convey.Convey("Then it is a bad request", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)
			})
		})

		convey.Convey("When requesting an unknown view", func() {
			rec := get(mux, "/api/v1/board/RB?view=sparkline")

			convey.Convey("Then it is a bad request", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)
			})
		})

		convey.Convey("When the board has not been built yet", func() {
			rec := get(mux, "/api/v1/board/QB")

			convey.Convey("Then it is not found", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusNotFound)
				var resp map[string]string
				convey.So(json.Unmarshal(rec.Body.Bytes(), &resp), convey.ShouldBeNil)
				convey.So(resp["code"], convey.ShouldEqual, "board_not_ready")
			})
		})

		convey.Convey("When using a non-GET method", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/board/RB", nil))

			convey.Convey("Then it is not found", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestTeamEndpoint(t *testing.T) {
	convey.Convey("Given the API routes", t, func() {
		mux, _ := newMux()

		convey.Convey("When requesting a known owner", func() {
			rec := get(mux, "/api/v1/teams/Alice")

			convey.Convey("Then the report is returned", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				var report service.TeamReport
				convey.So(json.Unmarshal(rec.Body.Bytes(), &report), convey.ShouldBeNil)
				convey.So(report.Owner, convey.ShouldEqual, "Alice")
				convey.So(report.Strengths, convey.ShouldHaveLength, 1)
			})
		})

		convey.Convey("When the owner name needs escaping", func() {
			deps := &fakeDeps{reports: map[string]service.TeamReport{
				"Waiver Wire Wizards": {Owner: "Waiver Wire Wizards"},
			}}
			escMux := http.NewServeMux()
			api.NewServer(deps).Register(context.Background(), escMux)

			rec := get(escMux, "/api/v1/teams/Waiver%20Wire%20Wizards")

			convey.Convey("Then the path segment is unescaped", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When requesting an unknown owner", func() {
			rec := get(mux, "/api/v1/teams/Nobody")

			convey.Convey("Then it is not found", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusNotFound)
			})
		})

		convey.Convey("When the owner segment is empty", func() {
			rec := get(mux, "/api/v1/teams/")

			convey.Convey("Then it is a bad request", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestHealthAndStatsEndpoints(t *testing.T) {
	convey.Convey("Given the API routes", t, func() {
		mux, _ := newMux()

		convey.Convey("When probing /healthz", func() {
			rec := get(mux, "/healthz")

			convey.Convey("Then the service reports ok", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				var resp map[string]string
				convey.So(json.Unmarshal(rec.Body.Bytes(), &resp), convey.ShouldBeNil)
				convey.So(resp["status"], convey.ShouldEqual, "ok")
			})
		})

		convey.Convey("When reading /stats", func() {
			rec := get(mux, "/stats")

			convey.Convey("Then service statistics come back as JSON", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				var resp map[string]any
				convey.So(json.Unmarshal(rec.Body.Bytes(), &resp), convey.ShouldBeNil)
				convey.So(resp["boards"], convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When scraping /metrics", func() {
			rec := get(mux, "/metrics")

			convey.Convey("Then the Prometheus registry is served", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			})
		})
	})
}
