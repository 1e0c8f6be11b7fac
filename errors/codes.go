package errors

var (
	// ErrMissingAuthorization is returned when an account that must
	// authorize the instruction did not sign it.
	ErrMissingAuthorization = Register(2, "missing required signature")

	// ErrWrongAccountCount is returned when an instruction does not carry
	// the exact number of accounts its handler declares.
	ErrWrongAccountCount = Register(3, "wrong number of accounts")

	// ErrNotOwnedByProgram is returned when a state account is not owned by
	// the program processing the instruction. A closed escrow fails with
	// this error as well.
	ErrNotOwnedByProgram = Register(4, "account not owned by program")

	// ErrAddressDerivationMismatch is returned when a supplied address does
	// not equal the address re-derived from its seeds.
	ErrAddressDerivationMismatch = Register(5, "address derivation mismatch")

	// ErrStateFieldMismatch is returned when stored state disagrees with the
	// supplied accounts.
	ErrStateFieldMismatch = Register(6, "state field mismatch")

	// ErrInvalidCustodyAccount is returned when a token holding account has
	// the wrong owner, the wrong mint or an insufficient balance.
	ErrInvalidCustodyAccount = Register(7, "invalid custody account")

	// ErrInvalidInstructionData is returned when instruction data cannot be
	// decoded.
	ErrInvalidInstructionData = Register(8, "invalid instruction data")

	// ErrIncorrectProgramID is returned when an account expected to be a
	// given program points somewhere else.
	ErrIncorrectProgramID = Register(9, "incorrect program id")

	// ErrAccountInUse is returned when an account that must be created is
	// already allocated.
	ErrAccountInUse = Register(10, "account already in use")

	// ErrInvalidAmount stands for invalid amount of whatever
	ErrInvalidAmount = Register(11, "invalid amount")

	// ErrInsufficientFunds is returned when a balance cannot cover a debit.
	ErrInsufficientFunds = Register(12, "insufficient funds")

	// ErrUninitialized is returned when account data was never initialized.
	ErrUninitialized = Register(13, "account not initialized")

	// ErrNotFound is used when a requested operation cannot be completed
	// due to missing data.
	ErrNotFound = Register(14, "not found")

	// ErrInvalidInput stands for general input problems indication
	ErrInvalidInput = Register(15, "invalid input")

	// ErrPrivilegeEscalation is returned when a cross program invocation
	// asks for a signer or writable privilege the caller does not hold.
	ErrPrivilegeEscalation = Register(16, "privilege escalation")

	// ErrUnbalanced is returned when an instruction creates or destroys
	// lamports.
	ErrUnbalanced = Register(17, "sum of account balances changed")

	// ErrReadonly is returned when a read-only account was modified.
	ErrReadonly = Register(18, "read-only account modified")

	// ErrIllegalModification is returned when a program modifies an account
	// it does not own in a way only the owner may.
	ErrIllegalModification = Register(19, "illegal account modification")

	// ErrInvalidSignature is returned when a transaction signature does not
	// verify.
	ErrInvalidSignature = Register(20, "invalid signature")

	// ErrInvalidSeeds is returned when seeds cannot produce a derived
	// address.
	ErrInvalidSeeds = Register(21, "invalid seeds")

	// ErrDatabase is returned when the backing store fails.
	ErrDatabase = Register(22, "database")

	// ErrOverflow s returned when a computation cannot be completed
	// because the result value exceeds the type.
	ErrOverflow = Register(23, "an operation cannot be completed due to value overflow")

	// ErrHuman is returned when application reaches a code path which should not
	// ever be reached if the code was written as expected by the framework
	ErrHuman = Register(24, "coding error")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info
	ErrPanic = Register(111222, "panic")
)
