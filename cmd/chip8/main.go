package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/go7box/chip8/cpu"
	"github.com/go7box/chip8/emulator"
	"github.com/go7box/chip8/gui"
)

func main() {
	var cycles int
	var scale int
	var shiftVy bool
	var incI bool
	var verbose bool

	flag.IntVar(&cycles, "cycles", 700, "Instruction cycles per second (0 = unthrottled)")
	flag.IntVar(&scale, "scale", gui.DEFAULT_SCALE, "Window pixels per display pixel")
	flag.BoolVar(&shiftVy, "shift-vy", false, "Shift instructions read their operand from vY")
	flag.BoolVar(&incI, "inc-i", false, "Register save/restore advances the address register")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("%v: expected a single ROM image argument", os.Args[0])
	}
	romfile := flag.Arg(0)

	emu, err := emulator.NewEmulator(cpu.Config{
		Quirks: cpu.Quirks{
			ShiftUsesVy: shiftVy,
			IncrementI:  incI,
		},
		CyclesPerSecond: cycles,
	})
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	emu.Verbose = verbose

	inf, err := os.Open(romfile)
	if err != nil {
		log.Fatalf("%v: %v", romfile, err)
	}
	err = emu.LoadRom(inf)
	inf.Close()
	if err != nil {
		log.Fatalf("%v: %v", romfile, err)
	}

	front, err := gui.NewFront(emu, "chip8", scale)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	defer front.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- emu.Run(ctx)
	}()

	err = front.Run(ctx, cancel)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	err = <-done
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("%v: %v", romfile, err)
	}
}
