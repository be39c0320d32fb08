package io

import (
	"errors"
	"io"
	"log"
)

// Tape moves bytes between a stream and a controller.
//
// With Input set, the tape is an input device: whenever the controller is
// not ready, the next byte is read into the data register and the ready
// flag is raised. At end of input the flag stays down.
//
// With Output set, the tape is an output device: it starts ready, and
// whenever the CPU drops the ready flag, the data register is written to
// the stream and the flag is raised again. If the stream fails, the error
// is kept and the flag stays down.
type Tape struct {
	Verbose bool // If set, logs stream errors.
	Input   io.Reader
	Output  io.Writer

	started bool
	ended   bool
	err     error
}

var _ Device = (*Tape)(nil)

// Rewind forgets any end-of-input condition. The streams themselves
// cannot be rewound.
func (tc *Tape) Rewind() {
	tc.started = false
	tc.ended = false
	tc.err = nil
}

// Err returns the stream error that stopped the tape, if any.
// The end of input is not an error.
func (tc *Tape) Err() error {
	return tc.err
}

// fail stops the tape on a stream error.
func (tc *Tape) fail(err error) {
	tc.ended = true
	if errors.Is(err, io.EOF) {
		return
	}

	tc.err = err
	if tc.Verbose {
		log.Printf("io: tape: %v", err)
	}
}

// Tick services the controller.
func (tc *Tape) Tick(ctl *Controller) {
	if ctl.Ready() {
		return
	}

	if tc.ended {
		return
	}

	switch {
	case tc.Input != nil:
		var one [1]byte
		n, err := tc.Input.Read(one[:])
		if n == 0 {
			if err != nil {
				tc.fail(err)
			}
			return
		}
		ctl.SetData(uint16(one[0]))
		ctl.SetReady()
	case tc.Output != nil:
		if tc.started {
			_, err := tc.Output.Write([]byte{byte(ctl.Data())})
			if err != nil {
				tc.fail(err)
				return
			}
		}
		tc.started = true
		ctl.SetReady()
	}
}
