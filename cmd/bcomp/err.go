package main

import (
	"errors"

	"github.com/ezrec/bcomp/translate"
)

var f = translate.From

var (
	ErrValueRequired = errors.New(f("value required"))
	ErrValueOne      = errors.New(f("only one value required"))
	ErrDeviceInvalid = errors.New(f("device invalid"))
	ErrNoProgram     = errors.New(f("no program assembled"))
	ErrInputEnded    = errors.New(f("input ended"))
)

// ErrConsoleInput reports a console command that could not be executed.
type ErrConsoleInput struct {
	Command string
	Err     error
}

func (err ErrConsoleInput) Error() string {
	return f("%v: %v", err.Command, err.Err)
}

func (err ErrConsoleInput) Unwrap() error {
	return err.Err
}

// ErrValueInvalid is returned for a console value that is not hexadecimal.
type ErrValueInvalid string

func (err ErrValueInvalid) Error() string {
	return f("'%v' is not a hexadecimal value", string(err))
}
