package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gopkg.in/yaml.v3"

	"github.com/arenacore/arena/internal/persist"
	"github.com/arenacore/arena/internal/save"
)

func TestSummarizeCountsTypes(t *testing.T) {
	s := &save.State{
		Version: save.Version,
		Score:   4,
		Lives:   1,
		Entities: []save.EntityRecord{
			{Type: "Player"}, {Type: "Enemy"}, {Type: "Enemy"}, {Type: "Bullet"},
		},
	}
	sum := summarize("save1.json", s)
	assert.Equal(t, map[string]int{"Player": 1, "Enemy": 2, "Bullet": 1}, sum.Entities)
	assert.Equal(t, s.Digest(), sum.Digest)

	out, err := yaml.Marshal(sum)
	require.NoError(t, err)
	assert.Contains(t, string(out), "name: save1.json")
}

func TestCopySlotsKeepsNames(t *testing.T) {
	ctx := context.Background()
	log := zaptest.NewLogger(t)
	src := persist.NewFileRepo(t.TempDir(), log)
	dst := persist.NewFileRepo(t.TempDir(), log)

	for i := 0; i < 3; i++ {
		_, err := persist.SaveNext(ctx, src, &save.State{Score: 1, Lives: 3})
		require.NoError(t, err)
	}
	require.NoError(t, copySlots(ctx, src, dst, ""))

	names, err := dst.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"save1.json", "save2.json", "save3.json"}, names)

	require.NoError(t, copySlots(ctx, src, dst, "save2.json"))
	assert.Error(t, copySlots(ctx, src, dst, "save9.json"))
}
