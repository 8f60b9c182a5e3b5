// Package emulator drives the CHIP-8 machine core: it schedules the
// instruction cycle cadence and the fixed 60 Hz timer cadence, applies
// key state between cycles, and tracks the run state machine.
package emulator

import (
	"context"
	"sync"
	"time"

	"github.com/go7box/chip8/cpu"
)

const (
	TIMER_RATE     = 60 // Timer decrement events per second.
	TIMER_INTERVAL = time.Second / TIMER_RATE
)

// Status is the run state of the emulator.
type Status int

//go:generate go tool stringer -linecomment -type=Status
const (
	STATUS_RUNNING = Status(iota) // running
	STATUS_WAITING                // waiting for key
	STATUS_HALTED                 // halted
)

// Emulator owns a machine and serializes all access to it. The only
// external mutation between cycles is key state, applied under the same
// lock that cycles run under, so a handler never observes a half-updated
// pad or a mid-decrement timer.
type Emulator struct {
	Verbose bool // If set, enables verbose logging.

	*cpu.Machine // The machine state being driven.

	mu     sync.Mutex
	halted error
}

// NewEmulator creates an emulator around a fresh machine. Malformed
// configuration is rejected here, before any cycle executes.
func NewEmulator(config cpu.Config) (emu *Emulator, err error) {
	machine, err := cpu.NewMachine(config)
	if err != nil {
		return
	}

	emu = &Emulator{Machine: machine}
	return
}

// Status returns the current run state.
func (emu *Emulator) Status() Status {
	emu.mu.Lock()
	defer emu.mu.Unlock()

	switch {
	case emu.halted != nil:
		return STATUS_HALTED
	case emu.Machine.Waiting():
		return STATUS_WAITING
	default:
		return STATUS_RUNNING
	}
}

// Halted returns the reason the machine halted, or nil. Halting is
// terminal: the reason is reported, never retried.
func (emu *Emulator) Halted() (err error) {
	emu.mu.Lock()
	defer emu.mu.Unlock()
	return emu.halted
}

// Step executes a single instruction cycle. A waiting or halted machine
// consumes no cycle: waiting steps are no-ops and a halted machine
// reports its halt reason.
func (emu *Emulator) Step() (err error) {
	emu.mu.Lock()
	defer emu.mu.Unlock()
	return emu.step()
}

func (emu *Emulator) step() (err error) {
	if emu.halted != nil {
		return emu.halted
	}
	if emu.Machine.Waiting() {
		return
	}

	emu.Machine.Verbose = emu.Verbose

	err = emu.Machine.Step()
	if err != nil {
		emu.halted = &ErrHalted{Pc: emu.Machine.PC, Err: err}
		err = emu.halted
	}
	return
}

// TimerTick applies one 60 Hz decrement to the delay and sound timers.
// The tick cadence is independent of how many instruction cycles have
// executed; a waiting machine still ticks.
func (emu *Emulator) TimerTick() {
	emu.mu.Lock()
	defer emu.mu.Unlock()

	if emu.halted != nil {
		return
	}
	emu.Machine.TimerTick()
}

// KeyDown records a key press. If the machine is waiting for a key, the
// press resolves the wait and the machine resumes on the next cycle.
func (emu *Emulator) KeyDown(key uint8) {
	emu.mu.Lock()
	defer emu.mu.Unlock()

	emu.Machine.Keys[key&0xF] = true
	emu.Machine.ResolveKey(key)
}

// KeyUp records a key release.
func (emu *Emulator) KeyUp(key uint8) {
	emu.mu.Lock()
	defer emu.mu.Unlock()

	emu.Machine.Keys[key&0xF] = false
}

// SetKeys replaces the whole pad snapshot atomically.
func (emu *Emulator) SetKeys(keys [cpu.KEY_COUNT]bool) {
	emu.mu.Lock()
	defer emu.mu.Unlock()

	emu.Machine.Keys = keys
}

// Pixels returns a copy of the framebuffer bit grid, 1 = lit.
func (emu *Emulator) Pixels() (pixels [cpu.DISPLAY_HEIGHT][cpu.DISPLAY_WIDTH]uint8) {
	emu.mu.Lock()
	defer emu.mu.Unlock()
	return emu.Machine.Pixels
}

// SoundActive reports whether the tone should be playing.
func (emu *Emulator) SoundActive() bool {
	emu.mu.Lock()
	defer emu.mu.Unlock()
	return emu.Machine.Sound > 0
}

// Run drives the instruction cadence and the 60 Hz timer cadence until
// the machine halts or the context is cancelled. The two cadences are
// deliberately decoupled: timers never decrement per instruction.
// Cancellation lands on a cycle boundary; there is no detached work.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	timers := time.NewTicker(TIMER_INTERVAL)
	defer timers.Stop()

	rate := emu.Machine.Config().CyclesPerSecond
	if rate > 0 {
		cycles := time.NewTicker(time.Second / time.Duration(rate))
		defer cycles.Stop()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timers.C:
				emu.TimerTick()
			case <-cycles.C:
				err = emu.Step()
				if err != nil {
					return
				}
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timers.C:
			emu.TimerTick()
		default:
			err = emu.Step()
			if err != nil {
				return
			}
			if emu.Status() == STATUS_WAITING {
				// Suspension is cooperative; don't burn the host
				// while no cycles can progress.
				time.Sleep(time.Millisecond)
			}
		}
	}
}
