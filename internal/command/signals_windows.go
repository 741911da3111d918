// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package command

import (
	"os"
)

var shutdownSignals = []os.Signal{os.Interrupt}
