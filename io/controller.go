// Package io provides the I/O boundary of the Basic Computer.
//
// Each device is reached through a Controller holding one ready flag and
// one 8-bit data register. The CPU reads and writes controllers through a
// Bus; device models attached to the bus advance once per micro-step.
package io

import (
	"sync/atomic"
)

const (
	CONTROLLER_COUNT = 4    // Number of controllers on the bus.
	DATA_MASK        = 0xff // Width of a controller data register.
)

// Controller is the register interface of a single device.
//
// Controllers are safe to touch from the console while the emulator runs.
type Controller struct {
	ready atomic.Bool
	data  atomic.Uint32
}

// Ready returns the state of the ready flag.
func (ctl *Controller) Ready() bool {
	return ctl.ready.Load()
}

// SetReady raises the ready flag.
func (ctl *Controller) SetReady() {
	ctl.ready.Store(true)
}

// ClearReady drops the ready flag.
func (ctl *Controller) ClearReady() {
	ctl.ready.Store(false)
}

// Data returns the data register.
func (ctl *Controller) Data() uint16 {
	return uint16(ctl.data.Load())
}

// SetData sets the data register.
func (ctl *Controller) SetData(value uint16) {
	ctl.data.Store(uint32(value & DATA_MASK))
}

// Reset clears the ready flag and the data register.
func (ctl *Controller) Reset() {
	ctl.ClearReady()
	ctl.SetData(0)
}
