// Package save converts between a live world.State and the versioned
// snapshot written to save slots.
package save

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Version is the snapshot format written by Marshal.
const Version = 1

// ErrUnsupportedVersion is returned for snapshots newer than Version.
var ErrUnsupportedVersion = errors.New("unsupported save version")

// State is a value copy of everything needed to rebuild a running game.
// It holds no references into the live simulation.
type State struct {
	Version  int            `json:"version"`
	Score    int            `json:"score"`
	Lives    int            `json:"lives"`
	Spawn    float64        `json:"spawn"` // seconds since the last enemy spawn
	Shot     float64        `json:"shot"`  // seconds since the last shot
	Seed     int64          `json:"seed"`
	Entities []EntityRecord `json:"entities"`
}

// EntityRecord is one serialised entity.
type EntityRecord struct {
	Type  string     `json:"type"` // Player, Enemy, Bullet, Decoration
	Name  string     `json:"name"`
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
	VX    float64    `json:"vx"`
	VY    float64    `json:"vy"`
	W     float64    `json:"w"`
	H     float64    `json:"h"`
	Color [4]float64 `json:"color"`
	PLife float64    `json:"plife"`
	PVX   float64    `json:"pvx"`
	PVY   float64    `json:"pvy"`
}

// Marshal encodes s in the save file format. s is not modified.
func Marshal(s *State) ([]byte, error) {
	c := *s
	if c.Version == 0 {
		c.Version = Version
	}
	if c.Entities == nil {
		c.Entities = []EntityRecord{}
	}
	data, err := json.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("encode save: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a save file. A missing version is read as Version.
func Unmarshal(data []byte) (*State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}
	if s.Version == 0 {
		s.Version = Version
	}
	if s.Version > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}
	return &s, nil
}

// Digest is a short content hash of the encoded snapshot, used in logs and
// as the integrity column of database slots.
func (s *State) Digest() string {
	data, err := Marshal(s)
	if err != nil {
		return ""
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
