package io

import (
	"errors"

	"github.com/ezrec/bcomp/translate"
)

var f = translate.From

var (
	// Bus errors
	ErrDeviceInvalid = errors.New(f("device invalid"))
)
