// Package lua runs scripted editor macros.
//
// This package wraps the gopher-lua library to provide:
//   - Sandboxed Lua state management
//   - Conversion between Go and script values
//   - The inkwell module through which scripts define macros
//
// # Macros
//
// A script defines named macros with inkwell.macro. Inside a macro,
// inkwell.run invokes an editor command by identifier and inkwell.can asks
// whether it would apply:
//
//	inkwell.macro("duplicate-bold", function()
//	    inkwell.run("copyLineDown")
//	    if inkwell.can("toggleBold") then
//	        inkwell.run("toggleBold")
//	    end
//	end)
//
// Running a macro from Go:
//
//	rt, err := lua.New(e)
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//
//	if err := rt.LoadFile("macros.lua"); err != nil {
//	    return err
//	}
//	err = rt.Run(ctx, "duplicate-bold")
//
// Every command a macro runs dispatches its own transaction; the host
// groups them so one undo reverts the whole macro.
//
// # Sandbox
//
// The Sandbox restricts Lua code execution by:
//   - Opening only the base, table, string and math libraries
//   - Removing dofile, loadfile, load and loadstring
//   - Replacing require with a whitelist of built-in modules
//
// Each load or macro run is bounded by the execution timeout.
package lua
