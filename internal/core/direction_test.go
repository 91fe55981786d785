package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirection_OppositeAndMove(t *testing.T) {
	p := Pos{Row: 2, Col: 2}
	for _, d := range []Direction{Up, Down, Left, Right} {
		n := p.Move(d)
		require.Equal(t, p, n.Move(d.Opposite()))
	}
	require.Equal(t, None, None.Opposite())
}

func TestDirection_DirectionBetween(t *testing.T) {
	p := Pos{Row: 2, Col: 2}
	require.Equal(t, Up, DirectionBetween(p, Pos{Row: 1, Col: 2}))
	require.Equal(t, Down, DirectionBetween(p, Pos{Row: 3, Col: 2}))
	require.Equal(t, Left, DirectionBetween(p, Pos{Row: 2, Col: 1}))
	require.Equal(t, Right, DirectionBetween(p, Pos{Row: 2, Col: 3}))
	require.Equal(t, None, DirectionBetween(p, Pos{Row: 5, Col: 5}))
}

func TestCanonicalEdge(t *testing.T) {
	p := Pos{Row: 2, Col: 2}
	rp, rd := canonicalEdge(p, Right)
	require.Equal(t, p, rp)
	require.Equal(t, Right, rd)

	lp, ld := canonicalEdge(p, Left)
	require.Equal(t, p.Move(Left), lp)
	require.Equal(t, Right, ld)

	up, ud := canonicalEdge(p, Up)
	require.Equal(t, p.Move(Up), up)
	require.Equal(t, Down, ud)

	dp, dd := canonicalEdge(p, Down)
	require.Equal(t, p, dp)
	require.Equal(t, Down, dd)
}

func TestPos_Manhattan(t *testing.T) {
	require.Equal(t, 5, Pos{Row: 0, Col: 0}.Manhattan(Pos{Row: 2, Col: 3}))
	require.Zero(t, Pos{Row: 1, Col: 1}.Manhattan(Pos{Row: 1, Col: 1}))
}
