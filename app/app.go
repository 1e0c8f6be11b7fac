package app

import (
	"github.com/iov-one/tokenswap/runtime"
	"github.com/iov-one/tokenswap/store"
	"github.com/iov-one/tokenswap/x/ata"
	"github.com/iov-one/tokenswap/x/escrow"
	"github.com/iov-one/tokenswap/x/system"
	"github.com/iov-one/tokenswap/x/token"
	"github.com/tendermint/tendermint/libs/log"
)

// New returns a runtime with the system, token, associated account and
// escrow programs registered under the ids of conf.
func New(db store.CacheableKVStore, conf runtime.Config, logger log.Logger, opts ...runtime.Option) *runtime.Runtime {
	rt := runtime.New(db, conf, logger, opts...)
	Register(rt)
	return rt
}

// Register adds the built-in programs to rt.
func Register(rt *runtime.Runtime) {
	ids := rt.Config().Programs
	rt.Register("system", ids.System, system.New())
	rt.Register("token", ids.Token, token.New())
	rt.Register("ata", ids.ATA, ata.New())
	rt.Register("escrow", ids.Escrow, escrow.New(ids))
}
