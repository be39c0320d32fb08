package io

// Device is an external device model attached to a controller.
type Device interface {
	// Rewind resets the device to its initial state.
	Rewind()
	// Tick advances the device once, after a CPU micro-step.
	Tick(ctl *Controller)
}

// Bus is the set of controllers addressable by the CPU.
//
// Indices outside the bus read as not-ready with zero data, and writes to
// them are dropped.
type Bus struct {
	Controller [CONTROLLER_COUNT]Controller

	device [CONTROLLER_COUNT]Device
}

func (bus *Bus) controller(index uint32) (ctl *Controller, ok bool) {
	if index >= CONTROLLER_COUNT {
		return
	}

	return &bus.Controller[index], true
}

// Attach connects a device model to a controller. A nil device detaches.
func (bus *Bus) Attach(index uint32, device Device) (err error) {
	if index >= CONTROLLER_COUNT {
		err = ErrDeviceInvalid
		return
	}

	bus.device[index] = device
	return
}

// Device returns the device attached to a controller, if any.
func (bus *Bus) Device(index uint32) (device Device) {
	if index >= CONTROLLER_COUNT {
		return
	}

	return bus.device[index]
}

// GetData returns the data register of a controller.
func (bus *Bus) GetData(index uint32) (value uint16) {
	ctl, ok := bus.controller(index)
	if ok {
		value = ctl.Data()
	}
	return
}

// SetData sets the data register of a controller.
func (bus *Bus) SetData(index uint32, value uint16) {
	ctl, ok := bus.controller(index)
	if ok {
		ctl.SetData(value)
	}
}

// GetReady returns the ready flag of a controller.
func (bus *Bus) GetReady(index uint32) (ready bool) {
	ctl, ok := bus.controller(index)
	if ok {
		ready = ctl.Ready()
	}
	return
}

// SetReady raises the ready flag of a controller.
func (bus *Bus) SetReady(index uint32) {
	ctl, ok := bus.controller(index)
	if ok {
		ctl.SetReady()
	}
}

// ClearReady drops the ready flag of a controller.
func (bus *Bus) ClearReady(index uint32) {
	ctl, ok := bus.controller(index)
	if ok {
		ctl.ClearReady()
	}
}

// Tick advances every attached device.
func (bus *Bus) Tick() {
	for n, device := range bus.device {
		if device != nil {
			device.Tick(&bus.Controller[n])
		}
	}
}

// Reset clears every controller and rewinds every attached device.
func (bus *Bus) Reset() {
	for n := range bus.Controller {
		bus.Controller[n].Reset()
		if bus.device[n] != nil {
			bus.device[n].Rewind()
		}
	}
}
