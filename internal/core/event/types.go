package event

import "github.com/arenacore/arena/internal/core/ecs"

// PlayerHit fires when an enemy touches the player.
type PlayerHit struct {
	Player    ecs.EntityID
	Enemy     ecs.EntityID
	LivesLeft int
}

// EnemyKilled fires when a bullet destroys an enemy.
type EnemyKilled struct {
	Bullet ecs.EntityID
	Enemy  ecs.EntityID
	Score  int
}

// GameOver fires once, on the frame the last life is lost.
type GameOver struct {
	Score int
}

// Saved reports the outcome of a save. Auto is set for autosaves.
type Saved struct {
	Name string
	Auto bool
	Err  error
}
