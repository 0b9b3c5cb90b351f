package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldgeneral/dynasty/internal/domain/model"
)

func TestNewPlayerID(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want model.PlayerID
	}{
		{"plain id", "4046", "4046"},
		{"float rendered", "4046.0", "4046"},
		{"double zero suffix", "4046.00", "4046"},
		{"whitespace", "  4046 ", "4046"},
		{"whitespace and float", " 4046.0 ", "4046"},
		{"nonzero fraction kept", "4046.5", "4046.5"},
		{"trailing dot kept", "4046.", "4046."},
		{"alphanumeric untouched", "team_KC", "team_KC"},
		{"empty", "", ""},
		{"only whitespace", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, model.NewPlayerID(tc.raw))
		})
	}
}

func TestPlayerIDJoinEquality(t *testing.T) {
	// The float-rendered and plain forms of the same id must join.
	assert.Equal(t, model.NewPlayerID("4046.0"), model.NewPlayerID("4046"))
	assert.NotEqual(t, model.NewPlayerID("4046.5"), model.NewPlayerID("4046"))
}

func TestPlayerIDIsZero(t *testing.T) {
	assert.True(t, model.NewPlayerID("").IsZero())
	assert.True(t, model.NewPlayerID("  ").IsZero())
	assert.False(t, model.NewPlayerID("1").IsZero())
}

func TestPositionValid(t *testing.T) {
	for _, pos := range model.Positions() {
		assert.True(t, pos.Valid(), "position %s should be valid", pos)
	}
	assert.False(t, model.Position("K").Valid())
	assert.False(t, model.Position("").Valid())
	assert.False(t, model.Position("qb").Valid())
}

func TestPositionsOrder(t *testing.T) {
	assert.Equal(t, []model.Position{model.QB, model.RB, model.WR, model.TE}, model.Positions())
}
