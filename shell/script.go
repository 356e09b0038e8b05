package shell

import (
	"errors"
	"net/http"
	"time"

	"github.com/cjoudrey/gluahttp"
	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"
)

const scriptHTTPTimeout = 30 * time.Second

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("solitaire_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// luaCommand wraps a shell command so that Lua gets its message back, or a
// string starting with ERROR.
func luaCommand(name string, fn func(sc *ShellController, cmd *shellcmd) (*Response, error)) lua.LGFunction {
	return func(L *lua.LState) int {
		line := name
		for i := 1; i <= L.GetTop(); i++ {
			line += " " + L.ToString(i)
		}
		sc := getShell(L)
		cmd, err := extractFields(line)
		if err != nil {
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		r, err := fn(sc, cmd)
		if err != nil {
			log.Err(err).Msg("error-executing-" + name)
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		L.Push(lua.LString(r.message))
		// return number of results pushed to stack.
		return 1
	}
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}
	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()
	// scripts may require("json") and require("http"), e.g. to fetch
	// layouts from a puzzle server.
	luajson.Preload(L)
	L.PreloadModule("http", gluahttp.NewHttpModule(&http.Client{Timeout: scriptHTTPTimeout}).Loader)

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("solitaire_shell", lsc)
	L.SetGlobal("solitaire_load", L.NewFunction(luaCommand("load", (*ShellController).load)))
	L.SetGlobal("solitaire_set", L.NewFunction(luaCommand("set", (*ShellController).set)))
	L.SetGlobal("solitaire_show", L.NewFunction(luaCommand("show", (*ShellController).show)))
	L.SetGlobal("solitaire_solve", L.NewFunction(luaCommand("solve", (*ShellController).solve)))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return msg("ran " + filepath), nil
}
