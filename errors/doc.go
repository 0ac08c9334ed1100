/*
Package errors implements the coded errors used across the funding round.

The idea is to reuse as many errors from this package as possible and define
custom package errors only when absolutely necessary. Extensions register
their own root errors with Register(code, description); codes must be unique
across the whole application so that clients can distinguish error types.

There is also support for stacktraces. Ensure you create the error using
ErrXyz.New("...") or errors.Wrap(err, "...") at the point of creation so a
stacktrace is attached. If you wrap multiple times, only the first wrap
records the stacktrace.

Once you have an error, fmt verbs provide more context:

	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
