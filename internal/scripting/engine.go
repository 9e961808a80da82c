package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Defaults used when a script is missing or fails.
const (
	DefaultHitDamage = 10
	DefaultHitSparks = 10
)

// Engine wraps a single gopher-lua VM for game rules.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	// Load core scripts first, then feature scripts
	for _, sub := range []string{"core", "combat"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// HitContext holds pre-packed data for a projectile hit.
type HitContext struct {
	ProjectileKind string
	TargetKind     string
	TargetHP       int
	TargetScale    float64
}

// HitResult is the damage applied per spark and the number of sparks the
// hit bursts into. Total damage is Damage * Sparks.
type HitResult struct {
	Damage int
	Sparks int
}

// FixedHits is the rule set used without a scripting engine.
type FixedHits struct{}

func (FixedHits) CalcProjectileHit(HitContext) HitResult {
	return HitResult{Damage: DefaultHitDamage, Sparks: DefaultHitSparks}
}

// CalcProjectileHit calls the Lua calc_projectile_hit function.
func (e *Engine) CalcProjectileHit(ctx HitContext) HitResult {
	fallback := FixedHits{}.CalcProjectileHit(ctx)

	fn := e.vm.GetGlobal("calc_projectile_hit")
	if fn == lua.LNil {
		e.log.Error("lua function calc_projectile_hit not found")
		return fallback
	}

	t := e.vm.NewTable()

	proj := e.vm.NewTable()
	proj.RawSetString("kind", lua.LString(ctx.ProjectileKind))
	t.RawSetString("projectile", proj)

	tgt := e.vm.NewTable()
	tgt.RawSetString("kind", lua.LString(ctx.TargetKind))
	tgt.RawSetString("hp", lua.LNumber(ctx.TargetHP))
	tgt.RawSetString("scale", lua.LNumber(ctx.TargetScale))
	t.RawSetString("target", tgt)

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua calc_projectile_hit error", zap.Error(err))
		return fallback
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua calc_projectile_hit returned non-table")
		return fallback
	}

	res := HitResult{
		Damage: lInt(rt, "damage"),
		Sparks: lInt(rt, "sparks"),
	}
	if res.Sparks <= 0 {
		res.Sparks = fallback.Sparks
	}
	if res.Damage < 0 {
		res.Damage = 0
	}
	return res
}

// --- Lua helpers ---

// lInt reads an integer field from a Lua table.
func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
