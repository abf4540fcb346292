package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	text := Render(Report{
		MatchID:       987654,
		MatchScore:    2900,
		NetWorthTeam0: 31000,
		NetWorthTeam1: 28500,
		HeroNames0:    []string{"Abrams", "Bebop", "Dynamo", "Haze", "Infernus", "Kelvin"},
		HeroNames1:    []string{"Lady Geist", "Lash", "McGinnis", "Mirage", "Paradox", "Seven"},
		WinningTeam:   0,
		WinProb:       0.6789,
		UpdatedAt:     time.Date(2024, 11, 3, 12, 30, 45, 0, time.UTC),
	})

	assert.Contains(t, text, "<b>Match ID:</b> 987654")
	assert.Contains(t, text, "<b>Average rating:</b> 2900")
	assert.Contains(t, text, "<b>Winning Team:</b> The Amber Hand (67.89% probability)")
	assert.Contains(t, text, "- <b>Net Worth:</b> 31000")
	assert.Contains(t, text, "- <b>Net Worth:</b> 28500")
	assert.Contains(t, text, "Abrams, Bebop, Dynamo, Haze, Infernus, Kelvin")
	assert.Contains(t, text, "Lady Geist, Lash, McGinnis, Mirage, Paradox, Seven")
	assert.Contains(t, text, "<b>Last Updated:</b> 2024-11-03 12:30:45")
}

func TestRender_Team1Favored(t *testing.T) {
	text := Render(Report{WinningTeam: 1, WinProb: 0.51})
	assert.Contains(t, text, "The Sapphire Flame (51.00% probability)")
}

func TestRender_MissingHeroNames(t *testing.T) {
	text := Render(Report{
		HeroNames0: []string{"Abrams", "", "Dynamo"},
	})
	assert.Contains(t, text, "Abrams, , Dynamo")
}
