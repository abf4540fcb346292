// Package report renders match state into the notification text. Pure
// formatting only: no I/O, no failure path.
package report

import (
	"fmt"
	"strings"
	"time"
)

const (
	TeamName0 = "The Amber Hand"
	TeamName1 = "The Sapphire Flame"
)

type Report struct {
	MatchID       int64
	MatchScore    int
	NetWorthTeam0 int64
	NetWorthTeam1 int64
	HeroNames0    []string
	HeroNames1    []string
	WinningTeam   int
	WinProb       float64
	UpdatedAt     time.Time
}

// Render produces the fixed notification layout. Missing hero names are
// rendered blank rather than failing the whole message.
func Render(r Report) string {
	team := TeamName0
	if r.WinningTeam == 1 {
		team = TeamName1
	}

	var sb strings.Builder
	sb.WriteString("<b>🏆 Match Information 🏆</b>\n")
	fmt.Fprintf(&sb, "<b>Match ID:</b> %d\n", r.MatchID)
	fmt.Fprintf(&sb, "<b>Average rating:</b> %d\n", r.MatchScore)
	fmt.Fprintf(&sb, "<b>Winning Team:</b> %s (%.2f%% probability)\n", team, r.WinProb*100)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "<b>%s</b>\n", TeamName0)
	fmt.Fprintf(&sb, "- <b>Net Worth:</b> %d\n", r.NetWorthTeam0)
	fmt.Fprintf(&sb, "- <b>Heroes:</b> %s\n", strings.Join(r.HeroNames0, ", "))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "<b>%s</b>\n", TeamName1)
	fmt.Fprintf(&sb, "- <b>Net Worth:</b> %d\n", r.NetWorthTeam1)
	fmt.Fprintf(&sb, "- <b>Heroes:</b> %s\n", strings.Join(r.HeroNames1, ", "))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "<b>Last Updated:</b> %s\n", r.UpdatedAt.UTC().Format("2006-01-02 15:04:05"))
	return sb.String()
}
