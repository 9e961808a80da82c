package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeScript(t *testing.T, dir, sub, name, src string) {
	t.Helper()
	p := filepath.Join(dir, sub)
	require.NoError(t, os.MkdirAll(p, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(p, name), []byte(src), 0o644))
}

func TestCalcProjectileHitFromScript(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "combat", "projectile.lua", `
function calc_projectile_hit(ctx)
  local sparks = 10
  if ctx.target.scale >= 1.0 then sparks = 25 end
  if ctx.projectile.kind == "creature_projectile" then
    return { damage = 5, sparks = sparks }
  end
  return { damage = 10 + ctx.target.hp, sparks = sparks }
end
`)
	e, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	res := e.CalcProjectileHit(HitContext{ProjectileKind: "player_projectile", TargetKind: "creature", TargetHP: 3, TargetScale: 0.5})
	assert.Equal(t, HitResult{Damage: 13, Sparks: 10}, res)

	res = e.CalcProjectileHit(HitContext{ProjectileKind: "creature_projectile", TargetKind: "player", TargetHP: 100, TargetScale: 1})
	assert.Equal(t, HitResult{Damage: 5, Sparks: 25}, res)
}

func TestCalcProjectileHitFallsBack(t *testing.T) {
	dir := t.TempDir()
	e, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	want := HitResult{Damage: DefaultHitDamage, Sparks: DefaultHitSparks}
	assert.Equal(t, want, e.CalcProjectileHit(HitContext{}))

	writeScript(t, dir, "combat", "broken.lua", `function calc_projectile_hit(ctx) error("boom") end`)
	e2, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	defer e2.Close()
	assert.Equal(t, want, e2.CalcProjectileHit(HitContext{}))
}

func TestNewEngineRejectsBadScript(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "core", "bad.lua", `this is not lua`)
	_, err := NewEngine(dir, zap.NewNop())
	assert.Error(t, err)
}

func TestFixedHits(t *testing.T) {
	assert.Equal(t, HitResult{Damage: 10, Sparks: 10}, FixedHits{}.CalcProjectileHit(HitContext{}))
}
