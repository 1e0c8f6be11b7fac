package escrow

import (
	"context"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/x/ata"
	"github.com/iov-one/tokenswap/x/system"
	"github.com/iov-one/tokenswap/x/token"
)

// Program is the escrow program. It holds the program ids it cross checks
// supplied accounts against.
type Program struct {
	ids tokenswap.ProgramIDs
}

var _ tokenswap.Program = Program{}

// New returns the escrow program for a ledger using ids.
func New(ids tokenswap.ProgramIDs) Program {
	return Program{ids: ids}
}

// Process reads the tag byte and routes to Make, Take or Refund.
func (p Program) Process(ctx context.Context, inv tokenswap.Invoker, programID tokenswap.Address, accounts []*tokenswap.AccountInfo, data []byte) error {
	if len(data) == 0 {
		return errors.Wrap(errors.ErrInvalidInstructionData, "empty")
	}
	switch tag, payload := data[0], data[1:]; tag {
	case TagMake:
		return p.make(ctx, inv, programID, accounts, payload)
	case TagTake:
		if len(payload) != 0 {
			return errors.Wrap(errors.ErrInvalidInstructionData, "take takes no payload")
		}
		return p.take(ctx, inv, programID, accounts)
	case TagRefund:
		if len(payload) != 0 {
			return errors.Wrap(errors.ErrInvalidInstructionData, "refund takes no payload")
		}
		return p.refund(ctx, inv, programID, accounts)
	default:
		return errors.Wrapf(errors.ErrInvalidInstructionData, "unknown tag %d", tag)
	}
}

func (p Program) make(ctx context.Context, inv tokenswap.Invoker, programID tokenswap.Address, accounts []*tokenswap.AccountInfo, payload []byte) error {
	if len(accounts) != makeAccounts {
		return errors.Wrapf(errors.ErrWrongAccountCount, "make needs %d, got %d", makeAccounts, len(accounts))
	}
	var (
		maker      = accounts[0]
		mintA      = accounts[1]
		mintB      = accounts[2]
		escrow     = accounts[3]
		makerAtaA  = accounts[4]
		vault      = accounts[5]
		sysProgram = accounts[6]
		tokProgram = accounts[7]
		ataProgram = accounts[8]
	)

	if !maker.IsSigner {
		return errors.Wrap(errors.ErrMissingAuthorization, "maker must sign")
	}
	msg, err := decodeMake(payload)
	if err != nil {
		return err
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	seeds := Seeds(maker.Key, msg.Bump)
	if err := checkDerived(escrow, seeds, programID); err != nil {
		return err
	}
	if !escrow.IsUnallocated() {
		return errors.Wrapf(errors.ErrAccountInUse, "escrow %s", escrow.Key)
	}
	if _, err := token.LoadMint(p.ids.Token, mintA); err != nil {
		return errors.Wrap(err, "mint a")
	}
	if _, err := token.LoadMint(p.ids.Token, mintB); err != nil {
		return errors.Wrap(err, "mint b")
	}
	if mintA.Key == mintB.Key {
		return errors.Wrap(errors.ErrInvalidInput, "mint a and mint b are the same")
	}
	if _, err := p.checkHolding(makerAtaA, maker.Key, mintA.Key, msg.AmountToGive); err != nil {
		return errors.Wrap(err, "maker ata a")
	}
	if want := ata.Address(p.ids, escrow.Key, mintA.Key); vault.Key != want {
		return errors.Wrapf(errors.ErrAddressDerivationMismatch, "vault is %s, want %s", vault.Key, want)
	}
	if !vault.IsUnallocated() {
		return errors.Wrapf(errors.ErrAccountInUse, "vault %s", vault.Key)
	}
	if sysProgram.Key != p.ids.System {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "system program %s", sysProgram.Key)
	}
	if tokProgram.Key != p.ids.Token {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "token program %s", tokProgram.Key)
	}
	if ataProgram.Key != p.ids.ATA {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "associated account program %s", ataProgram.Key)
	}

	rent := tokenswap.GetRent(ctx)
	alloc := system.CreateAccount(maker.Key, escrow.Key, rent.MinimumBalance(EscrowSize), EscrowSize, programID)
	if err := inv.Invoke(ctx, alloc, seeds); err != nil {
		return errors.Wrap(err, "allocate escrow")
	}
	escrow.Data = Escrow{
		Maker:           maker.Key,
		MintA:           mintA.Key,
		MintB:           mintB.Key,
		AmountToReceive: msg.AmountToReceive,
		AmountToGive:    msg.AmountToGive,
		Bump:            msg.Bump,
	}.Marshal()

	if err := inv.Invoke(ctx, ata.Create(p.ids, maker.Key, escrow.Key, mintA.Key)); err != nil {
		return errors.Wrap(err, "create vault")
	}
	deposit := token.Transfer(p.ids.Token, makerAtaA.Key, vault.Key, maker.Key, msg.AmountToGive)
	if err := inv.Invoke(ctx, deposit); err != nil {
		return errors.Wrap(err, "deposit")
	}

	tokenswap.GetLogger(ctx).Info("escrow opened",
		"escrow", escrow.Key,
		"maker", maker.Key,
		"give", msg.AmountToGive,
		"receive", msg.AmountToReceive)
	return nil
}

func (p Program) take(ctx context.Context, inv tokenswap.Invoker, programID tokenswap.Address, accounts []*tokenswap.AccountInfo) error {
	if len(accounts) != takeAccounts {
		return errors.Wrapf(errors.ErrWrongAccountCount, "take needs %d, got %d", takeAccounts, len(accounts))
	}
	var (
		taker      = accounts[0]
		maker      = accounts[1]
		mintA      = accounts[2]
		mintB      = accounts[3]
		escrow     = accounts[4]
		takerAtaB  = accounts[5]
		makerAtaB  = accounts[6]
		takerAtaA  = accounts[7]
		vault      = accounts[8]
		tokProgram = accounts[9]
	)

	if !taker.IsSigner {
		return errors.Wrap(errors.ErrMissingAuthorization, "taker must sign")
	}
	rec, err := p.loadEscrow(programID, escrow, maker, mintA, mintB)
	if err != nil {
		return err
	}
	seeds := Seeds(maker.Key, rec.Bump)
	if err := checkDerived(escrow, seeds, programID); err != nil {
		return err
	}
	if _, err := p.checkHolding(takerAtaB, taker.Key, mintB.Key, rec.AmountToReceive); err != nil {
		return errors.Wrap(err, "taker ata b")
	}
	if _, err := p.checkHolding(makerAtaB, maker.Key, mintB.Key, 0); err != nil {
		return errors.Wrap(err, "maker ata b")
	}
	if _, err := p.checkHolding(takerAtaA, taker.Key, mintA.Key, 0); err != nil {
		return errors.Wrap(err, "taker ata a")
	}
	held, err := p.checkHolding(vault, escrow.Key, mintA.Key, rec.AmountToGive)
	if err != nil {
		return errors.Wrap(err, "vault")
	}
	if tokProgram.Key != p.ids.Token {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "token program %s", tokProgram.Key)
	}

	pay := token.Transfer(p.ids.Token, takerAtaB.Key, makerAtaB.Key, taker.Key, rec.AmountToReceive)
	if err := inv.Invoke(ctx, pay); err != nil {
		return errors.Wrap(err, "pay maker")
	}
	release := token.Transfer(p.ids.Token, vault.Key, takerAtaA.Key, escrow.Key, held.Amount)
	if err := inv.Invoke(ctx, release, seeds); err != nil {
		return errors.Wrap(err, "release vault")
	}
	if err := p.closeEscrow(ctx, inv, seeds, escrow, vault, maker); err != nil {
		return err
	}

	tokenswap.GetLogger(ctx).Info("escrow taken",
		"escrow", escrow.Key,
		"maker", maker.Key,
		"taker", taker.Key)
	return nil
}

func (p Program) refund(ctx context.Context, inv tokenswap.Invoker, programID tokenswap.Address, accounts []*tokenswap.AccountInfo) error {
	if len(accounts) != refundAccounts {
		return errors.Wrapf(errors.ErrWrongAccountCount, "refund needs %d, got %d", refundAccounts, len(accounts))
	}
	var (
		maker      = accounts[0]
		mintA      = accounts[1]
		mintB      = accounts[2]
		escrow     = accounts[3]
		makerAtaA  = accounts[4]
		vault      = accounts[5]
		tokProgram = accounts[6]
	)

	if !maker.IsSigner {
		return errors.Wrap(errors.ErrMissingAuthorization, "maker must sign")
	}
	rec, err := p.loadEscrow(programID, escrow, maker, mintA, mintB)
	if err != nil {
		return err
	}
	seeds := Seeds(maker.Key, rec.Bump)
	if err := checkDerived(escrow, seeds, programID); err != nil {
		return err
	}
	if _, err := p.checkHolding(makerAtaA, maker.Key, mintA.Key, 0); err != nil {
		return errors.Wrap(err, "maker ata a")
	}
	held, err := p.checkHolding(vault, escrow.Key, mintA.Key, rec.AmountToGive)
	if err != nil {
		return errors.Wrap(err, "vault")
	}
	if tokProgram.Key != p.ids.Token {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "token program %s", tokProgram.Key)
	}

	back := token.Transfer(p.ids.Token, vault.Key, makerAtaA.Key, escrow.Key, held.Amount)
	if err := inv.Invoke(ctx, back, seeds); err != nil {
		return errors.Wrap(err, "return deposit")
	}
	if err := p.closeEscrow(ctx, inv, seeds, escrow, vault, maker); err != nil {
		return err
	}

	tokenswap.GetLogger(ctx).Info("escrow refunded", "escrow", escrow.Key, "maker", maker.Key)
	return nil
}

// loadEscrow reads a record owned by this program and matches its stored
// maker and mints against the supplied accounts.
func (p Program) loadEscrow(programID tokenswap.Address, escrow, maker, mintA, mintB *tokenswap.AccountInfo) (Escrow, error) {
	if !escrow.OwnedBy(programID) {
		return Escrow{}, errors.Wrapf(errors.ErrNotOwnedByProgram, "escrow %s", escrow.Key)
	}
	rec, err := UnmarshalEscrow(escrow.Data)
	if err != nil {
		return rec, errors.Wrapf(err, "escrow %s", escrow.Key)
	}
	switch {
	case rec.Maker != maker.Key:
		return rec, errors.Wrapf(errors.ErrStateFieldMismatch, "maker is %s", rec.Maker)
	case rec.MintA != mintA.Key:
		return rec, errors.Wrapf(errors.ErrStateFieldMismatch, "mint a is %s", rec.MintA)
	case rec.MintB != mintB.Key:
		return rec, errors.Wrapf(errors.ErrStateFieldMismatch, "mint b is %s", rec.MintB)
	}
	return rec, nil
}

// checkDerived re-derives the escrow address from the seeds, bump
// included, in a single attempt.
func checkDerived(escrow *tokenswap.AccountInfo, seeds [][]byte, programID tokenswap.Address) error {
	want, err := tokenswap.CreateProgramAddress(seeds, programID)
	if err != nil {
		return errors.Wrapf(errors.ErrAddressDerivationMismatch, "escrow seeds: %s", err)
	}
	if want != escrow.Key {
		return errors.Wrapf(errors.ErrAddressDerivationMismatch, "escrow is %s, want %s", escrow.Key, want)
	}
	return nil
}

// checkHolding validates a token account held by owner in mint with at least
// min units.
func (p Program) checkHolding(info *tokenswap.AccountInfo, owner, mint tokenswap.Address, min uint64) (token.Account, error) {
	acc, err := token.LoadAccount(p.ids.Token, info)
	if err != nil {
		return acc, errors.Wrap(errors.ErrInvalidCustodyAccount, err.Error())
	}
	if acc.Owner != owner {
		return acc, errors.Wrapf(errors.ErrInvalidCustodyAccount, "%s is held by %s, not %s", info.Key, acc.Owner, owner)
	}
	if acc.Mint != mint {
		return acc, errors.Wrapf(errors.ErrInvalidCustodyAccount, "%s holds mint %s, not %s", info.Key, acc.Mint, mint)
	}
	if acc.Amount < min {
		return acc, errors.Wrapf(errors.ErrInvalidCustodyAccount, "%s holds %d, needs %d", info.Key, acc.Amount, min)
	}
	return acc, nil
}

// closeEscrow closes the emptied vault and the record, both reserves go to
// the maker.
func (p Program) closeEscrow(ctx context.Context, inv tokenswap.Invoker, seeds [][]byte, escrow, vault, maker *tokenswap.AccountInfo) error {
	closeVault := token.CloseAccount(p.ids.Token, vault.Key, maker.Key, escrow.Key)
	if err := inv.Invoke(ctx, closeVault, seeds); err != nil {
		return errors.Wrap(err, "close vault")
	}
	if err := escrow.Close(maker); err != nil {
		return errors.Wrap(err, "close escrow")
	}
	return nil
}
