package runtime

import (
	"context"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
)

// execution is the state of a single transaction. All instructions and
// nested invocations share the same account objects.
type execution struct {
	rt      *Runtime
	db      store.KVCacheWrap
	signers map[tokenswap.Address]bool
	// accounts is the working copy of every account referenced so far.
	accounts map[tokenswap.Address]*tokenswap.Account
	// loaded is the state as found in the store, used to skip unchanged
	// accounts on commit.
	loaded map[tokenswap.Address]*tokenswap.Account
}

// frame is one program call, either a top level instruction or a nested
// invocation.
type frame struct {
	program  tokenswap.Address
	infos    []*tokenswap.AccountInfo
	writable map[tokenswap.Address]bool
	signer   map[tokenswap.Address]bool
	pre      map[tokenswap.Address]*tokenswap.Account
}

func (f *frame) snapshot(accounts map[tokenswap.Address]*tokenswap.Account) {
	f.pre = make(map[tokenswap.Address]*tokenswap.Account, len(f.writable))
	for key := range f.writable {
		f.pre[key] = accounts[key].Clone()
	}
}

func (ex *execution) account(key tokenswap.Address) (*tokenswap.Account, error) {
	if acc, ok := ex.accounts[key]; ok {
		return acc, nil
	}
	var acc *tokenswap.Account
	if _, ok := ex.rt.programs[key]; ok {
		acc = programAccount()
	} else {
		stored, err := loadAccount(ex.db, key)
		if err != nil {
			return nil, err
		}
		acc = stored
		if acc == nil {
			acc = &tokenswap.Account{}
		}
		ex.loaded[key] = acc.Clone()
	}
	ex.accounts[key] = acc
	return acc, nil
}

// run executes ix. The caller is nil for a top level instruction, in which
// case signer flags must be backed by a transaction signature. Nested calls
// have their privileges checked by Invoke.
func (ex *execution) run(ctx context.Context, ix tokenswap.Instruction, depth int, caller *frame) (err error) {
	reg, ok := ex.rt.programs[ix.ProgramID]
	if !ok {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "no program %s", ix.ProgramID)
	}
	defer func() { ex.rt.metrics.instruction(reg.name, err) }()

	f := &frame{
		program:  ix.ProgramID,
		infos:    make([]*tokenswap.AccountInfo, len(ix.Accounts)),
		writable: make(map[tokenswap.Address]bool, len(ix.Accounts)),
		signer:   make(map[tokenswap.Address]bool, len(ix.Accounts)),
	}
	for i, meta := range ix.Accounts {
		if caller == nil && meta.IsSigner && !ex.signers[meta.Key] {
			return errors.Wrapf(errors.ErrMissingAuthorization, "no signature of %s", meta.Key)
		}
		acc, err := ex.account(meta.Key)
		if err != nil {
			return err
		}
		f.infos[i] = &tokenswap.AccountInfo{
			Key:        meta.Key,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
			Account:    acc,
		}
		f.writable[meta.Key] = f.writable[meta.Key] || meta.IsWritable
		f.signer[meta.Key] = f.signer[meta.Key] || meta.IsSigner
	}
	f.snapshot(ex.accounts)

	ctx = tokenswap.WithLogInfo(ctx, "program", reg.name)
	inv := &invoker{ex: ex, frame: f, depth: depth}
	if err := process(ctx, reg.program, inv, ix, f.infos); err != nil {
		return err
	}
	for _, info := range f.infos {
		if info.Account != ex.accounts[info.Key] {
			return errors.Wrapf(errors.ErrHuman, "%s replaced account %s", reg.name, info.Key)
		}
	}
	return ex.verify(f)
}

func process(ctx context.Context, p tokenswap.Program, inv tokenswap.Invoker, ix tokenswap.Instruction, infos []*tokenswap.AccountInfo) (err error) {
	defer errors.Recover(&err)
	return p.Process(ctx, inv, ix.ProgramID, infos, ix.Data)
}

// verify checks the changes made by the frame's program since the last
// snapshot.
func (ex *execution) verify(f *frame) error {
	var preSum, postSum uint64
	for key, pre := range f.pre {
		post := ex.accounts[key]
		var ok bool
		if preSum, ok = addLamports(preSum, pre.Lamports); !ok {
			return errors.Wrap(errors.ErrOverflow, "lamports")
		}
		if postSum, ok = addLamports(postSum, post.Lamports); !ok {
			return errors.Wrap(errors.ErrOverflow, "lamports")
		}
		if post.Equals(pre) {
			continue
		}
		if !f.writable[key] {
			return errors.Wrapf(errors.ErrReadonly, "account %s", key)
		}
		if pre.Executable || post.Executable {
			return errors.Wrapf(errors.ErrIllegalModification, "executable account %s", key)
		}
		owned := pre.Owner == f.program
		if post.Owner != pre.Owner && (!owned || !zeroed(post.Data)) {
			return errors.Wrapf(errors.ErrIllegalModification, "owner of %s", key)
		}
		if post.Lamports < pre.Lamports && !owned {
			return errors.Wrapf(errors.ErrIllegalModification, "debit of %s", key)
		}
		if !owned && string(post.Data) != string(pre.Data) {
			return errors.Wrapf(errors.ErrIllegalModification, "data of %s", key)
		}
	}
	if preSum != postSum {
		return errors.Wrapf(errors.ErrUnbalanced, "%d lamports before, %d after", preSum, postSum)
	}
	f.snapshot(ex.accounts)
	return nil
}

func addLamports(a, b uint64) (uint64, bool) {
	s := a + b
	return s, s >= a
}

func zeroed(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}

// commit writes every changed account to the cache wrap. Accounts without
// lamports are removed. Accounts holding data must keep the rent reserve.
func (ex *execution) commit() error {
	rent := ex.rt.conf.Rent
	for key, acc := range ex.accounts {
		if acc.Executable {
			continue
		}
		if orig := ex.loaded[key]; orig != nil && orig.Equals(acc) {
			continue
		}
		if acc.Lamports > 0 && len(acc.Data) > 0 {
			if min := rent.MinimumBalance(len(acc.Data)); acc.Lamports < min {
				return errors.Wrapf(errors.ErrInsufficientFunds, "account %s holds %d lamports, rent requires %d", key, acc.Lamports, min)
			}
		}
		if err := storeAccount(ex.db, key, acc); err != nil {
			return errors.Wrap(errors.ErrDatabase, err.Error())
		}
	}
	return nil
}

// invoker runs nested instructions for the program of a frame.
type invoker struct {
	ex    *execution
	frame *frame
	depth int
}

var _ tokenswap.Invoker = (*invoker)(nil)

// Invoke checks that the nested instruction does not escalate the caller's
// privileges, runs it and verifies the changes of both programs.
func (inv *invoker) Invoke(ctx context.Context, ix tokenswap.Instruction, signerSeeds ...[][]byte) error {
	if inv.depth+1 > inv.ex.rt.maxDepth {
		return errors.Wrapf(errors.ErrInvalidInput, "invocation depth %d", inv.depth+1)
	}
	caller := inv.frame

	derived := make(map[tokenswap.Address]bool, len(signerSeeds))
	for _, seeds := range signerSeeds {
		addr, err := tokenswap.CreateProgramAddress(seeds, caller.program)
		if err != nil {
			return err
		}
		derived[addr] = true
	}

	for _, meta := range ix.Accounts {
		if _, ok := caller.pre[meta.Key]; !ok {
			return errors.Wrapf(errors.ErrInvalidInput, "account %s not available to caller", meta.Key)
		}
		if meta.IsWritable && !caller.writable[meta.Key] {
			return errors.Wrapf(errors.ErrPrivilegeEscalation, "writable %s", meta.Key)
		}
		if meta.IsSigner && !caller.signer[meta.Key] && !derived[meta.Key] {
			return errors.Wrapf(errors.ErrPrivilegeEscalation, "signer %s", meta.Key)
		}
	}
	if _, ok := caller.pre[ix.ProgramID]; !ok {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "program %s not available to caller", ix.ProgramID)
	}

	// The caller's own changes so far are checked before the callee may
	// build on them.
	if err := inv.ex.verify(caller); err != nil {
		return err
	}
	if err := inv.ex.run(ctx, ix, inv.depth+1, caller); err != nil {
		return err
	}
	caller.snapshot(inv.ex.accounts)
	return nil
}
