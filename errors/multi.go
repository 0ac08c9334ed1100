package errors

import "strings"

// Append clubs together all provided errors. Nil values are ignored.
//
// If given a multi error instance, it is flattened so that a multi error
// never wraps another multi error.
func Append(errs ...error) error {
	var res multiError
	for _, e := range errs {
		switch v := e.(type) {
		case nil:
			continue
		case multiError:
			res = append(res, v...)
		default:
			res = append(res, e)
		}
	}
	if len(res) == 0 {
		return nil
	}
	return res
}

type multiError []error

func (e multiError) Error() string {
	switch len(e) {
	case 0:
		return "<nil>"
	case 1:
		return e[0].Error()
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Contains first checks if given error is a multi error and if so, it checks
// each of the held errors. Otherwise a direct match is performed.
func Contains(err error, kind *Error) bool {
	if errs, ok := err.(multiError); ok {
		for _, e := range errs {
			if kind.Is(e) {
				return true
			}
		}
		return false
	}
	return kind.Is(err)
}
