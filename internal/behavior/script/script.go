// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

// Package script provides a behavior driven by a sandboxed Lua chunk.
//
// The chunk may define init() and update(dt). Both run with a global
// "burge" table of host functions:
//
//	burge.self()                  -- this element's id
//	burge.spawn(name, settings?)  -- instantiate a template
//	burge.delete(id)              -- remove an element
//	burge.set_camera(id)          -- switch the active camera
//	burge.emit(alias?)            -- burst a particle emitter
//	burge.find_tags(pattern)      -- ids whose tags match a glob
//	burge.log(level, message)
//
// A chunk that raises an error is disabled for the rest of its life.
package script

import (
	"log/slog"

	lua "github.com/yuin/gopher-lua"

	"github.com/burge/burge/internal/behavior/particles"
	"github.com/burge/burge/internal/element"
	"github.com/burge/burge/internal/event"
	"github.com/burge/burge/internal/id"
	"github.com/burge/burge/internal/scene"
	"github.com/burge/burge/pkg/errutil"
)

// TemplateName is the registry name of the script template.
const TemplateName = "script"

// Settings describe a script.
type Settings struct {
	Source string   `mapstructure:"source"`
	Tags   []string `mapstructure:"tags"`
}

// Script is the script behavior.
type Script struct {
	element.Base
	settings Settings
	logger   *slog.Logger

	self     id.ID
	tools    *element.ModuleTool
	state    *lua.LState
	disabled bool
}

// New creates a script. It does not run anything until Init.
func New(s Settings, logger *slog.Logger) *Script {
	if logger == nil {
		logger = slog.Default()
	}
	return &Script{settings: s, logger: logger}
}

// Settings returns the script's settings.
func (s *Script) Settings() Settings { return s.settings }

// Disabled reports whether the script stopped after an error or Close.
func (s *Script) Disabled() bool { return s.disabled }

// Close releases the Lua state. The scene calls it when the element is
// deleted; the script never runs again afterwards.
func (s *Script) Close() error {
	s.disabled = true
	if s.state != nil {
		s.state.Close()
		s.state = nil
	}
	return nil
}

// Init creates the Lua state, runs the chunk and calls its init().
func (s *Script) Init(self id.ID, tools *element.ModuleTool) {
	s.self = self
	s.tools = tools
	s.logger = s.logger.With("element", self.String())

	if len(s.settings.Tags) > 0 {
		scene.TagsKey.Access(tools, func(t *scene.Tags) {
			t.Set(self, s.settings.Tags)
		})
	}

	L, err := newState()
	if err != nil {
		s.fail("script state failed", err)
		return
	}
	s.state = L
	s.register(L)

	if err := L.DoString(s.settings.Source); err != nil {
		s.fail("script load failed", err)
		return
	}
	s.call("init")
}

// LocalUpdate calls the chunk's update(dt).
func (s *Script) LocalUpdate(dt float64) {
	s.call("update", lua.LNumber(dt))
}

func (s *Script) call(name string, args ...lua.LValue) {
	if s.disabled || s.state == nil {
		return
	}
	fn := s.state.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return
	}
	if err := s.state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...); err != nil {
		s.fail("script "+name+" failed", err)
	}
}

func (s *Script) fail(msg string, err error) {
	errutil.LogError(s.logger, msg, err)
	_ = s.Close()
}

// register installs the burge table of host functions.
func (s *Script) register(L *lua.LState) {
	mod := L.NewTable()
	L.SetField(mod, "self", L.NewFunction(s.selfFn))
	L.SetField(mod, "spawn", L.NewFunction(s.spawnFn))
	L.SetField(mod, "delete", L.NewFunction(s.deleteFn))
	L.SetField(mod, "set_camera", L.NewFunction(s.setCameraFn))
	L.SetField(mod, "emit", L.NewFunction(s.emitFn))
	L.SetField(mod, "find_tags", L.NewFunction(s.findTagsFn))
	L.SetField(mod, "log", L.NewFunction(s.logFn))
	L.SetGlobal("burge", mod)
}

func (s *Script) selfFn(L *lua.LState) int {
	L.Push(lua.LString(s.self.String()))
	return 1
}

// broadcast sends ev to the scene, reporting whether the scene was reachable.
func (s *Script) broadcast(ev scene.Event) bool {
	sender, ok := scene.BroadcastKey.Get(s.tools)
	if !ok {
		return false
	}
	sender.Send(ev)
	return true
}

func (s *Script) spawnFn(L *lua.LState) int {
	name := L.CheckString(1)
	var settings any
	if L.GetTop() >= 2 && L.Get(2) != lua.LNil {
		converted, err := toGo(L.CheckTable(2))
		if err != nil {
			L.RaiseError("spawn %s: %s", name, err.Error())
			return 0
		}
		settings = converted
	}
	L.Push(lua.LBool(s.broadcast(scene.Instantiate{Doc: element.NewDocument(name, settings)})))
	return 1
}

func (s *Script) deleteFn(L *lua.LState) int {
	target, err := id.Parse(L.CheckString(1))
	if err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LBool(s.broadcast(scene.Delete{ID: target})))
	return 1
}

func (s *Script) setCameraFn(L *lua.LState) int {
	target, err := id.Parse(L.CheckString(1))
	if err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LBool(s.broadcast(scene.SetCamera{ID: target})))
	return 1
}

func (s *Script) emitFn(L *lua.LState) int {
	alias := L.OptString(1, particles.DefaultID)
	sent := particles.Key(alias).Access(s.tools, func(e *event.Sender[particles.Event]) {
		e.Send(particles.Emit)
	})
	L.Push(lua.LBool(sent))
	return 1
}

func (s *Script) findTagsFn(L *lua.LState) int {
	pattern := L.CheckString(1)
	tags, ok := scene.TagsKey.Get(s.tools)
	if !ok {
		L.Push(lua.LNil)
		L.Push(lua.LString("tags unavailable"))
		return 2
	}
	ids, err := tags.Find(pattern)
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	out := L.NewTable()
	for _, eid := range ids {
		out.Append(lua.LString(eid.String()))
	}
	L.Push(out)
	return 1
}

func (s *Script) logFn(L *lua.LState) int {
	level := L.CheckString(1)
	message := L.CheckString(2)
	switch level {
	case "debug":
		s.logger.Debug(message)
	case "warn":
		s.logger.Warn(message)
	case "error":
		s.logger.Error(message)
	default:
		s.logger.Info(message)
	}
	return 0
}

// Save records the script's settings.
func (s *Script) Save() element.Document {
	return element.SaveDocument(s.logger, TemplateName, s.settings)
}

// Load builds a script from doc after checking that its source compiles.
func (s *Script) Load(doc element.Document) (element.Element, error) {
	var settings Settings
	if _, err := doc.DecodeSettings(&settings); err != nil {
		return nil, err
	}
	if err := compile(settings.Source); err != nil {
		return nil, err
	}
	return element.NewLeaf(New(settings, s.logger)), nil
}
