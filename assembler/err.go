package assembler

import (
	"errors"

	"github.com/ezrec/bcomp/translate"
)

var f = translate.From

var (
	ErrOrgSyntax          = errors.New(f("ORG syntax"))
	ErrOrgInvalid         = errors.New(f("ORG outside main memory"))
	ErrWordSyntax         = errors.New(f("WORD syntax"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrOperandMissing     = errors.New(f("operand missing"))
	ErrOperandExtra       = errors.New(f("excessive operands"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrAddressInvalid     = errors.New(f("address invalid"))
	ErrAddressOverlap     = errors.New(f("address already assembled"))
	ErrDeviceInvalid      = errors.New(f("device invalid"))
)

// ErrLabelMissing is returned when a label is referenced, but never defined.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrSyntax locates an error in the program text.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
