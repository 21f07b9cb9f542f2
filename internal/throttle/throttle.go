// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package throttle provides the cancellable delays that space out requests
// to remote services: the fixed pause between PDF downloads, the interval
// between git clones, and rate-limit backoff waits.
package throttle

import (
	"context"
	"time"
)

// SleepFunc blocks for d or until ctx is done. Components take a SleepFunc
// so tests can record requested waits instead of sleeping.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep blocks for d. It returns ctx.Err() if the context is cancelled
// first. A non-positive d returns immediately.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Throttle spaces successive actions against one remote service. Wait
// always pauses for at least Floor, even when Interval is smaller.
//
// A Throttle is meant to be shared: every worker touching the same service
// calls Wait on the same value, so the interval is global rather than per
// worker.
type Throttle struct {
	Interval time.Duration
	Floor    time.Duration

	// Sleep defaults to the package-level Sleep when nil.
	Sleep SleepFunc
}

// New returns a Throttle that waits max(interval, floor).
func New(interval, floor time.Duration) *Throttle {
	return &Throttle{Interval: interval, Floor: floor}
}

// Delay reports the pause Wait applies.
func (t *Throttle) Delay() time.Duration {
	return max(t.Interval, t.Floor)
}

// Wait pauses for Delay or until ctx is cancelled.
func (t *Throttle) Wait(ctx context.Context) error {
	sleep := t.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	return sleep(ctx, t.Delay())
}

// Recorder is a SleepFunc target that records requested durations without
// blocking. It is used by tests across packages.
type Recorder struct {
	Waits []time.Duration
}

// Sleep records d and returns ctx.Err().
func (r *Recorder) Sleep(ctx context.Context, d time.Duration) error {
	r.Waits = append(r.Waits, d)
	return ctx.Err()
}
