package features

import (
	"testing"

	"github.com/fiffu/matchwatch/lib/deadlock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotWithPlayers(n int) *deadlock.RawMatchSnapshot {
	players := make([]deadlock.Player, n)
	for i := range players {
		players[i] = deadlock.Player{AccountID: uint32(100 + i), HeroID: int64(i + 1)}
	}
	return &deadlock.RawMatchSnapshot{
		MatchID:       555,
		NetWorthTeam0: 1000,
		NetWorthTeam1: 1500,
		MatchScore:    2900,
		Players:       players,
	}
}

func TestDecodeObjectives(t *testing.T) {
	tests := []struct {
		name   string
		mask   uint16
		expect func(o Objectives) bool
	}{
		{"bit 0 is core", 1 << 0, func(o Objectives) bool { return o.Core }},
		{"bit 1 is tier1 lane1", 1 << 1, func(o Objectives) bool { return o.Tier1Lane1 }},
		{"bit 4 is tier1 lane4", 1 << 4, func(o Objectives) bool { return o.Tier1Lane4 }},
		{"bit 5 is tier2 lane1", 1 << 5, func(o Objectives) bool { return o.Tier2Lane1 }},
		{"bit 8 is tier2 lane4", 1 << 8, func(o Objectives) bool { return o.Tier2Lane4 }},
		{"bit 9 is titan", 1 << 9, func(o Objectives) bool { return o.Titan }},
		{"bit 10 is shield generator 1", 1 << 10, func(o Objectives) bool { return o.TitanShieldGen1 }},
		{"bit 11 is shield generator 2", 1 << 11, func(o Objectives) bool { return o.TitanShieldGen2 }},
		{"bit 12 is barrack boss lane1", 1 << 12, func(o Objectives) bool { return o.BarrackBossLane1 }},
		{"bit 15 is barrack boss lane4", 1 << 15, func(o Objectives) bool { return o.BarrackBossLane4 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded := DecodeObjectives(tt.mask)
			assert.True(t, tt.expect(decoded))

			// A single set bit must raise exactly one flag.
			count := 0
			for _, f := range append(decoded.row(), boolToFloat(decoded.Core)) {
				if f == 1 {
					count++
				}
			}
			assert.Equal(t, 1, count)
		})
	}

	assert.Equal(t, Objectives{}, DecodeObjectives(0))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func TestDecode(t *testing.T) {
	snap := snapshotWithPlayers(12)
	snap.ObjectivesMaskTeam0 = 0b11 // core + tier1 lane1

	vector, err := Decode(snap)
	require.NoError(t, err)

	assert.Equal(t, float64(500), vector.NetWorthDiff)
	assert.True(t, vector.Team0.Core)
	assert.True(t, vector.Team0.Tier1Lane1)
	assert.False(t, vector.Team0.Tier1Lane2)
	assert.False(t, vector.Team0.Titan)
	assert.Equal(t, Objectives{}, vector.Team1)

	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, vector.HeroIDsTeam0())
	assert.Equal(t, []int64{7, 8, 9, 10, 11, 12}, vector.HeroIDsTeam1())
}

func TestDecode_RejectsMalformedSnapshots(t *testing.T) {
	for _, n := range []int{0, 5, 11, 13} {
		_, err := Decode(snapshotWithPlayers(n))
		assert.ErrorIs(t, err, ErrValidation, "players=%d", n)
	}
}

func TestRow_Order(t *testing.T) {
	snap := snapshotWithPlayers(12)
	snap.ObjectivesMaskTeam0 = 1<<1 | 1<<9  // tier1 lane1, titan
	snap.ObjectivesMaskTeam1 = 1<<0 | 1<<15 // core (display only), barrack boss lane4

	vector, err := Decode(snap)
	require.NoError(t, err)

	row := vector.Row()
	require.Len(t, row, RowWidth)
	require.Len(t, row, 43)

	assert.Equal(t, float64(500), row[0])
	for i := 0; i < 12; i++ {
		assert.Equal(t, float64(i+1), row[1+i])
	}

	// Team 0 flags occupy row[13:28] in bitmask order, core excluded:
	// tier1 lane1 is first, titan is ninth.
	team0 := row[13:28]
	assert.Equal(t, float64(1), team0[0])
	assert.Equal(t, float64(1), team0[8])
	assert.Equal(t, float64(2), sum(team0))

	// Team 1: its core bit must not leak into the row; only barrack boss
	// lane4 (the last flag) is set.
	team1 := row[28:43]
	assert.Equal(t, float64(1), team1[14])
	assert.Equal(t, float64(1), sum(team1))
}

func sum(fs []float64) (total float64) {
	for _, f := range fs {
		total += f
	}
	return
}
