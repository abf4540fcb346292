// Package features turns raw match snapshots into the fixed-order numeric
// rows the classifier was trained on.
//
// The row layout is a contract with the model artifact, not an
// implementation detail: net worth differential (team 1 minus team 0), the
// 12 hero ids in player order, then 15 objective flags for team 0 and 15
// for team 1. Objective flags follow bitmask order with the core flag
// excluded; the core bit is decoded for display but was dropped from the
// training features. Reordering anything here silently corrupts predictions.
package features

import (
	"errors"
	"fmt"

	"github.com/fiffu/matchwatch/lib/deadlock"
)

// ErrValidation marks a malformed snapshot, which is a feed contract
// violation rather than a transient failure.
var ErrValidation = errors.New("malformed match snapshot")

const (
	// PlayersPerMatch is fixed by the game: two teams of six.
	PlayersPerMatch = 6 * 2

	// RowWidth is the number of classifier-facing fields:
	// 1 net worth diff + 12 hero ids + 2 * 15 objective flags.
	RowWidth = 1 + PlayersPerMatch + 2*(ObjectiveFlags-1)

	// ObjectiveFlags is the number of display flags per team mask.
	ObjectiveFlags = 16
)

// Objectives holds the 16 per-team structure-destruction flags, decoded
// from bitmask positions 0..15 in this exact order.
type Objectives struct {
	Core             bool // bit 0; display only, excluded from Row
	Tier1Lane1       bool // bit 1
	Tier1Lane2       bool // bit 2
	Tier1Lane3       bool // bit 3
	Tier1Lane4       bool // bit 4
	Tier2Lane1       bool // bit 5
	Tier2Lane2       bool // bit 6
	Tier2Lane3       bool // bit 7
	Tier2Lane4       bool // bit 8
	Titan            bool // bit 9
	TitanShieldGen1  bool // bit 10
	TitanShieldGen2  bool // bit 11
	BarrackBossLane1 bool // bit 12
	BarrackBossLane2 bool // bit 13
	BarrackBossLane3 bool // bit 14
	BarrackBossLane4 bool // bit 15
}

func DecodeObjectives(mask uint16) Objectives {
	bit := func(pos int) bool { return mask&(1<<pos) != 0 }
	return Objectives{
		Core:             bit(0),
		Tier1Lane1:       bit(1),
		Tier1Lane2:       bit(2),
		Tier1Lane3:       bit(3),
		Tier1Lane4:       bit(4),
		Tier2Lane1:       bit(5),
		Tier2Lane2:       bit(6),
		Tier2Lane3:       bit(7),
		Tier2Lane4:       bit(8),
		Titan:            bit(9),
		TitanShieldGen1:  bit(10),
		TitanShieldGen2:  bit(11),
		BarrackBossLane1: bit(12),
		BarrackBossLane2: bit(13),
		BarrackBossLane3: bit(14),
		BarrackBossLane4: bit(15),
	}
}

// row emits the 15 trained flags in bitmask order, core excluded.
func (o Objectives) row() []float64 {
	flags := []bool{
		o.Tier1Lane1, o.Tier1Lane2, o.Tier1Lane3, o.Tier1Lane4,
		o.Tier2Lane1, o.Tier2Lane2, o.Tier2Lane3, o.Tier2Lane4,
		o.Titan, o.TitanShieldGen1, o.TitanShieldGen2,
		o.BarrackBossLane1, o.BarrackBossLane2, o.BarrackBossLane3, o.BarrackBossLane4,
	}
	out := make([]float64, len(flags))
	for i, f := range flags {
		if f {
			out[i] = 1
		}
	}
	return out
}

// FeatureVector is the decoded, ephemeral view of one snapshot.
type FeatureVector struct {
	NetWorthDiff float64
	HeroIDs      [PlayersPerMatch]int64
	Team0        Objectives
	Team1        Objectives
}

// Decode is total for well-formed snapshots; a snapshot without exactly 12
// players violates the feed contract and fails with ErrValidation.
func Decode(snap *deadlock.RawMatchSnapshot) (*FeatureVector, error) {
	if got := len(snap.Players); got != PlayersPerMatch {
		return nil, fmt.Errorf("%w: expected %d players, got %d", ErrValidation, PlayersPerMatch, got)
	}

	v := &FeatureVector{
		NetWorthDiff: float64(snap.NetWorthTeam1 - snap.NetWorthTeam0),
		Team0:        DecodeObjectives(snap.ObjectivesMaskTeam0),
		Team1:        DecodeObjectives(snap.ObjectivesMaskTeam1),
	}
	for i, p := range snap.Players {
		v.HeroIDs[i] = p.HeroID
	}
	return v, nil
}

// Row assembles the classifier-facing fields in training order.
func (v *FeatureVector) Row() []float64 {
	row := make([]float64, 0, RowWidth)
	row = append(row, v.NetWorthDiff)
	for _, id := range v.HeroIDs {
		row = append(row, float64(id))
	}
	row = append(row, v.Team0.row()...)
	row = append(row, v.Team1.row()...)
	return row
}

// HeroIDsTeam0 returns the first six hero ids in player order.
func (v *FeatureVector) HeroIDsTeam0() []int64 {
	return v.HeroIDs[:PlayersPerMatch/2]
}

// HeroIDsTeam1 returns the last six hero ids in player order.
func (v *FeatureVector) HeroIDsTeam1() []int64 {
	return v.HeroIDs[PlayersPerMatch/2:]
}
