// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// interruptSignals defines the signals that are handled to do a clean shutdown.
var interruptSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// InterruptListener listens for OS Signals such as SIGINT (Ctrl+C) and
// SIGTERM. The returned channel is closed on the first signal. Later
// signals are logged and otherwise ignored.
func InterruptListener() <-chan struct{} {
	interruptChannel := make(chan os.Signal, 1)
	signal.Notify(interruptChannel, interruptSignals...)
	return listen(interruptChannel)
}

func listen(interruptChannel <-chan os.Signal) <-chan struct{} {
	c := make(chan struct{})
	go func() {
		sig := <-interruptChannel
		log.Infof("Received signal (%s). Shutting down...", sig)
		close(c)

		for sig := range interruptChannel {
			log.Infof("Received signal (%s). Already shutting down...", sig)
		}
	}()
	return c
}

// WithInterrupt returns a copy of parent which is cancelled once interrupt
// is closed
func WithInterrupt(parent context.Context, interrupt <-chan struct{}) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case <-interrupt:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
