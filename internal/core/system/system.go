package system

import "time"

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseInput     Phase = iota // 0: deliver last frame's events, player input
	PhaseBehavior               // 1: per-kind behaviour (wander, projectiles), motion
	PhasePhysics                // 2: boundary reflection + clamp
	PhaseAI                     // 3: avoidance between AI-driven entities
	PhaseCollision              // 4: damage, scoring, separation
	PhaseSpawn                  // 5: shooting, enemy spawner
	PhaseCleanup                // 6: destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseBehavior:
		return "behavior"
	case PhasePhysics:
		return "physics"
	case PhaseAI:
		return "ai"
	case PhaseCollision:
		return "collision"
	case PhaseSpawn:
		return "spawn"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
