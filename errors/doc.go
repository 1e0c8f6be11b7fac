/*
Package errors implements the error kinds shared by the runtime and all
programs.

Every failure a program can report is one of the root errors declared in this
package. Root errors carry a numeric code that is stable across releases, so a
client that resubmits an instruction can tell a substitution attack
(ErrAddressDerivationMismatch) from a plain missing signature
(ErrMissingAuthorization) without parsing messages.

Create an error instance at the point of failure using ErrXyz.New("...") or
Wrap(ErrXyz, "..."). The first wrap records a stacktrace. Test for a kind with
ErrXyz.Is(err), which unwraps any number of layers.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context
	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created

If you want to register a custom error, use Register(code, description) during
program start up. Codes below 100 are reserved for this package.
*/
package errors
