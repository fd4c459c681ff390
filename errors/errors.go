// The errors package provides additional error primitives. It mirrors the
// standard library functions so that callers need import only one package.
package errors

import (
	"errors"
	"strings"
)

func New(text string) error {
	return errors.New(text)
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Errors is a list of errors, typically warnings collected while decoding.
type Errors []error

// Error formats the list by placing each message on its own line. Lines
// within a message are indented with a tab.
func (errs Errors) Error() string {
	switch len(errs) {
	case 0:
		return "no errors"
	case 1:
		return errs[0].Error()
	}
	var buf strings.Builder
	buf.WriteString("multiple errors:")
	for _, err := range errs {
		buf.WriteString("\n\t")
		buf.WriteString(strings.ReplaceAll(err.Error(), "\n", "\n\t"))
	}
	return buf.String()
}

// Unwrap returns the list, allowing Is and As to match any member.
func (errs Errors) Unwrap() []error {
	return errs
}

// Append returns errs with each non-nil err appended to it.
func (errs Errors) Append(err ...error) Errors {
	for _, e := range err {
		if e != nil {
			errs = append(errs, e)
		}
	}
	return errs
}

// Return returns nil if errs is empty, and errs otherwise.
func (errs Errors) Return() error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Union combines errs into one Errors, flattening any that are themselves
// Errors. Returns nil if every err is nil or empty.
func Union(errs ...error) error {
	var u Errors
	for _, err := range errs {
		if list, ok := err.(Errors); ok {
			u = u.Append(list...)
			continue
		}
		u = u.Append(err)
	}
	return u.Return()
}
