package component

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arenacore/arena/internal/vmath"
)

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"Player":     KindPlayer,
		"player":     KindPlayer,
		"Enemy":      KindEnemy,
		"AIPlayer":   KindEnemy,
		"aiplayer":   KindEnemy,
		"BULLET":     KindBullet,
		"Decoration": KindDecoration,
		"Star":       KindDecoration,
		"":           KindDecoration,
	}
	for name, want := range cases {
		assert.Equal(t, want, ParseKind(name), name)
	}
}

func TestKindNameRoundTrip(t *testing.T) {
	for _, k := range []Kind{KindDecoration, KindPlayer, KindEnemy, KindBullet} {
		assert.Equal(t, k, ParseKind(KindName(k)))
	}
}

func TestShapeGeometry(t *testing.T) {
	s := Shape{Kind: ShapeCircle, Size: vmath.V(10, 10)}
	assert.Equal(t, vmath.V(15, 25), s.Center(vmath.V(10, 20)))
	assert.Equal(t, 5.0, s.Radius())

	k, ok := ParseShapeKind("rect")
	assert.True(t, ok)
	assert.Equal(t, ShapeRectangle, k)
	_, ok = ParseShapeKind("hexagon")
	assert.False(t, ok)
	assert.Equal(t, "circle", ShapeCircle.String())
}
