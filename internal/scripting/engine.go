package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cudagame/cudasim/internal/character"
)

// Engine wraps a single gopher-lua VM holding the combat rules.
// Single-goroutine access only (simulation loop). Reload swaps the VM.
//
// Engine implements character.Rules. Any scripting failure falls back to the
// Go rules it was built with, so a broken script never stalls a tick.
type Engine struct {
	dir      string
	vm       *lua.LState
	log      *zap.Logger
	fallback character.Rules
}

// NewEngine creates a Lua engine and loads all scripts from scriptsDir.
// fallback answers when a script is missing or fails; nil selects
// character.BaseRules over the default tuning.
func NewEngine(scriptsDir string, fallback character.Rules, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if fallback == nil {
		fallback = character.BaseRules{Tuning: character.DefaultTuning()}
	}
	e := &Engine{dir: scriptsDir, log: log, fallback: fallback}
	vm, err := e.load()
	if err != nil {
		return nil, err
	}
	e.vm = vm
	return e, nil
}

func (e *Engine) load() (*lua.LState, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	for _, sub := range []string{"core", "combat"} {
		if err := e.loadDir(vm, filepath.Join(e.dir, sub)); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return vm, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(vm *lua.LState, dir string) error {
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
		if err := vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Reload re-reads every script into a fresh VM. On failure the running VM is
// kept and the error returned.
func (e *Engine) Reload() error {
	vm, err := e.load()
	if err != nil {
		return err
	}
	old := e.vm
	e.vm = vm
	old.Close()
	e.log.Info("lua scripts reloaded", zap.String("dir", e.dir))
	return nil
}

// SetFallback replaces the Go rules used when a script fails.
func (e *Engine) SetFallback(r character.Rules) {
	if r != nil {
		e.fallback = r
	}
}

// Scripts lists the .lua files the engine loads, for hot reload watching.
func (e *Engine) Scripts() []string {
	var out []string
	for _, sub := range []string{"core", "combat"} {
		matches, _ := filepath.Glob(filepath.Join(e.dir, sub, "*.lua"))
		out = append(out, matches...)
	}
	return out
}

// IncomingDamage calls the Lua calc_incoming_damage function.
func (e *Engine) IncomingDamage(ctx character.DamageContext) int {
	t := e.vm.NewTable()
	t.RawSetString("amount", lua.LNumber(ctx.Amount))
	t.RawSetString("health", lua.LNumber(ctx.Health))
	t.RawSetString("state", lua.LString(ctx.State.Animation()))
	t.RawSetString("blocking", lua.LBool(ctx.Blocking))

	v, ok := e.call("calc_incoming_damage", t)
	if !ok {
		return e.fallback.IncomingDamage(ctx)
	}
	n, isNum := v.(lua.LNumber)
	if !isNum {
		e.log.Error("lua calc_incoming_damage returned non-number", zap.String("type", v.Type().String()))
		return e.fallback.IncomingDamage(ctx)
	}
	return int(math.Floor(float64(n)))
}

// StunDuration calls the Lua calc_stun_duration function. The script receives
// the damage and the fallback duration in seconds and returns seconds.
func (e *Engine) StunDuration(damage int) time.Duration {
	base := e.fallback.StunDuration(damage)
	v, ok := e.call("calc_stun_duration", lua.LNumber(damage), lua.LNumber(base.Seconds()))
	if !ok {
		return base
	}
	n, isNum := v.(lua.LNumber)
	if !isNum || n < 0 {
		e.log.Error("lua calc_stun_duration returned invalid value", zap.String("value", v.String()))
		return base
	}
	return time.Duration(float64(n) * float64(time.Second))
}

// call runs a global Lua function with one result. ok is false when the
// function is missing or raised an error; both are logged.
func (e *Engine) call(name string, args ...lua.LValue) (lua.LValue, bool) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Error("lua function not found", zap.String("name", name))
		return lua.LNil, false
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return lua.LNil, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return result, true
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
