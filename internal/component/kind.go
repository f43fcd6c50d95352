package component

import (
	"strings"

	"github.com/arenacore/arena/internal/core/ecs"
)

// Kind is the behaviour tag of an entity. Every entity carries exactly one.
type Kind = ecs.Tag

const (
	KindDecoration Kind = iota
	KindPlayer
	KindEnemy
	KindBullet
)

// KindName returns the canonical type name used in save files.
func KindName(k Kind) string {
	switch k {
	case KindPlayer:
		return "Player"
	case KindEnemy:
		return "Enemy"
	case KindBullet:
		return "Bullet"
	}
	return "Decoration"
}

// ParseKind maps a type tag or entity name to a Kind, case-insensitively.
// "AIPlayer" is the legacy name for enemies. Anything unknown is decoration.
func ParseKind(name string) Kind {
	switch {
	case strings.EqualFold(name, "Player"):
		return KindPlayer
	case strings.EqualFold(name, "Enemy"), strings.EqualFold(name, "AIPlayer"):
		return KindEnemy
	case strings.EqualFold(name, "Bullet"):
		return KindBullet
	}
	return KindDecoration
}
