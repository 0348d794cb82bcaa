package hints

import (
	"math/big"

	"github.com/zkhint-dev/zkhint/exec"
	"github.com/zkhint-dev/zkhint/hint"
	"github.com/zkhint-dev/zkhint/relocatable"
	"github.com/zkhint-dev/zkhint/vm"
)

// Canonical hint bodies, matched verbatim at compile time.
const (
	AddSegmentCode            = "memory[ap] = segments.add()"
	EnterScopeCode            = "vm_enter_scope()"
	ExitScopeCode             = "vm_exit_scope()"
	MemcpyEnterScopeCode      = "vm_enter_scope({'n': ids.len})"
	MemcpyContinueCopyingCode = "n -= 1\nids.continue_copying = 1 if n > 0 else 0"
)

// Context is the bundle handed to every hint invocation: machine state,
// the scope stack, this call site's ids, and the program constants.
type Context struct {
	Machine   *vm.Machine
	Scopes    *exec.Scopes
	Ids       hint.Ids
	Constants map[string]*big.Int
}

// Func is one executable hint body.
type Func func(ctx *Context) error

func registry() map[string]Func {
	return map[string]Func{
		AddSegmentCode:            addSegment,
		EnterScopeCode:            enterScope,
		ExitScopeCode:             exitScope,
		MemcpyEnterScopeCode:      memcpyEnterScope,
		MemcpyContinueCopyingCode: memcpyContinueCopying,
	}
}

// addSegment allocates a fresh segment and leaves its base address at
// the allocation pointer.
func addSegment(ctx *Context) error {
	base := ctx.Machine.Memory.AddSegment()
	return hint.InsertIntoAP(ctx.Machine, relocatable.NewAddr(base))
}

func enterScope(ctx *Context) error {
	ctx.Scopes.Enter(nil)
	return nil
}

func exitScope(ctx *Context) error {
	return ctx.Scopes.Exit()
}

// memcpyEnterScope opens the copy loop's scope with n bound to ids.len.
func memcpyEnterScope(ctx *Context) error {
	length, err := ctx.Ids.Int("len", ctx.Machine)
	if err != nil {
		return err
	}
	ctx.Scopes.Enter(map[string]any{"n": new(big.Int).Set(length)})
	return nil
}

// memcpyContinueCopying decrements the loop counter and writes 1 into
// ids.continue_copying while iterations remain, 0 on the last one.
func memcpyContinueCopying(ctx *Context) error {
	n, err := ctx.Scopes.GetInt("n")
	if err != nil {
		return err
	}
	next := new(big.Int).Sub(n, big.NewInt(1))
	flag := relocatable.NewInt(0)
	if next.Sign() > 0 {
		flag = relocatable.NewInt(1)
	}
	if err := ctx.Ids.Insert("continue_copying", flag, ctx.Machine); err != nil {
		return err
	}
	ctx.Scopes.Set("n", next)
	return nil
}
