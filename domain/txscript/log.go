// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"github.com/beevm/beevm/infrastructure/logger"
)

var log = logger.RegisterSubSystem("SCRP")

// newLogClosure returns a new closure over a function that returns a string
// which itself provides a Stringer interface so that it can be used with the
// logging system.
func newLogClosure(c func() string) logger.LogClosure {
	return logger.NewLogClosure(c)
}
