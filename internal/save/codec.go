package save

import (
	"strings"

	"go.uber.org/zap"

	"github.com/arenacore/arena/internal/component"
	"github.com/arenacore/arena/internal/core/ecs"
	"github.com/arenacore/arena/internal/vmath"
	"github.com/arenacore/arena/internal/world"
)

// ClassifyName maps an entity name to its save type tag. Names that match no
// kind fall back to the entity's own tag.
func ClassifyName(name string, tag component.Kind) string {
	kind := component.ParseKind(name)
	if kind == component.KindDecoration && !strings.EqualFold(name, "Decoration") {
		kind = tag
	}
	return component.KindName(kind)
}

// Capture snapshots every entity that has a Transform, in creation order.
// Inactive entities are included.
func Capture(ws *world.State) *State {
	s := &State{
		Version:  Version,
		Score:    ws.Score(),
		Lives:    ws.Lives(),
		Spawn:    ws.SpawnTimer,
		Shot:     ws.ShotTimer,
		Seed:     ws.Seed(),
		Entities: make([]EntityRecord, 0, ws.Transforms.Len()),
	}
	for _, e := range ws.ECS.Entities() {
		if rec, ok := record(ws, e); ok {
			s.Entities = append(s.Entities, rec)
		}
	}
	return s
}

func record(ws *world.State, e *ecs.Entity) (EntityRecord, bool) {
	tf, ok := ws.Transforms.Get(e.ID)
	if !ok {
		return EntityRecord{}, false
	}
	rec := EntityRecord{
		Type: ClassifyName(e.Name, e.Tag),
		Name: e.Name,
		X:    tf.Position.X,
		Y:    tf.Position.Y,
	}
	if ph, ok := ws.Physics.Get(e.ID); ok {
		rec.VX, rec.VY = ph.Velocity.X, ph.Velocity.Y
	}
	if sh, ok := ws.Shapes.Get(e.ID); ok {
		rec.W, rec.H = sh.Size.X, sh.Size.Y
		rec.Color = [4]float64{sh.Color.R, sh.Color.G, sh.Color.B, sh.Color.A}
	}
	if p, ok := ws.Projectiles.Get(e.ID); ok {
		rec.PVX, rec.PVY = p.Velocity.X, p.Velocity.Y
		rec.PLife = p.Lifetime
	}
	return rec, true
}

// Restore fills an empty world from s. A nil s, or one with no entities,
// yields a default player at the centre. A snapshot taken after game over
// comes back frozen.
func Restore(ws *world.State, s *State) {
	if s == nil {
		s = &State{}
	}
	ws.SetScore(s.Score)
	if s.Lives > 0 || len(s.Entities) > 0 {
		ws.SetLives(s.Lives)
	}
	ws.SpawnTimer = max(0, s.Spawn)
	ws.SetShotTimer(s.Shot)

	if len(s.Entities) == 0 {
		ws.SpawnPlayer(ws.Size().Scale(0.5), vmath.Vec2{})
		return
	}
	for i := range s.Entities {
		spawnRecord(ws, &s.Entities[i])
	}
	if ws.GameOver() {
		ws.FreezeAll()
	}
}

func spawnRecord(ws *world.State, rec *EntityRecord) ecs.EntityID {
	pos := vmath.V(rec.X, rec.Y)
	vel := vmath.V(rec.VX, rec.VY)

	var id ecs.EntityID
	switch component.ParseKind(rec.Type) {
	case component.KindPlayer:
		id = ws.SpawnPlayer(pos, vel)
	case component.KindEnemy:
		id = ws.SpawnEnemy(pos, vel)
	case component.KindBullet:
		id = ws.SpawnBullet(pos, vmath.V(rec.PVX, rec.PVY), rec.PLife)
	default:
		id = ws.SpawnDecoration(pos)
	}

	if sh, ok := ws.Shapes.Get(id); ok && rec.W > 0 && rec.H > 0 {
		sh.Size = vmath.V(rec.W, rec.H)
		sh.Color = component.Color{R: rec.Color[0], G: rec.Color[1], B: rec.Color[2], A: rec.Color[3]}
	}
	if rec.Name != "" {
		if e, ok := ws.ECS.Entity(id); ok {
			e.Name = rec.Name
		}
	}
	return id
}

// NewFromSave builds a fresh world from s. A non-zero saved seed is reused.
func NewFromSave(s *State, opts world.Options, log *zap.Logger) *world.State {
	if s != nil && s.Seed != 0 {
		opts.Seed = s.Seed
	}
	ws := world.New(opts, log)
	Restore(ws, s)
	return ws
}
