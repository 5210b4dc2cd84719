// Command chiprun runs a test program on one of the interpreter
// cores, printing what the program writes to its serial port or
// console.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/thelolagemann/chipcore/internal/machine"
	"github.com/thelolagemann/chipcore/internal/types"
	"github.com/thelolagemann/chipcore/pkg/log"
	"github.com/thelolagemann/chipcore/pkg/savestate"
	"github.com/thelolagemann/chipcore/pkg/trace"
	"github.com/thelolagemann/chipcore/pkg/trace/web"
	"github.com/thelolagemann/chipcore/pkg/utils"
)

// histogramBars is the number of instructions drawn by -histogram.
const histogramBars = 40

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("chiprun", flag.ContinueOnError)
	flags.SetOutput(stderr)

	romFile := flags.String("rom", "", "The program file to load (.gb, .gbc, .com, .bin, optionally .gz, .zip or .7z)")
	asModel := flags.String("model", "auto", "The model to emulate. Can be auto, z80, dmg, cgb, or any model name")
	steps := flags.Uint64("steps", 0, "Stop after this many steps, 0 for no limit")
	timeout := flags.Duration("timeout", time.Minute, "Stop after this long, 0 for no limit")
	until := flags.String("until", "", "Stop once the output contains this text")
	traceOut := flags.Bool("trace", false, "Write every executed instruction to stdout")
	traceWS := flags.String("trace-ws", "", "Broadcast every executed instruction to websocket clients on this address")
	histogram := flags.String("histogram", "", "Write a histogram of the executed instructions to this image file")
	dump := flags.Int("dump", 32, "Number of instructions dumped when the program fails, 0 to disable")
	frameIRQ := flags.Uint64("frame-irq", 0, "Raise the Z80 maskable interrupt every this many cycles, 0 to disable")
	bootROM := flags.Bool("boot", false, "Start a Game Boy program at 0x0000 with cleared registers")
	loadState := flags.String("load", "", "The state file to load before running")
	saveState := flags.String("save", "", "The state file to save after running")
	logLevel := flags.String("log-level", "info", "The log level: debug, info, warn or error")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	logger := log.NewWithLevel(stderr, *logLevel)
	if *romFile == "" {
		logger.Errorf("no program given, use -rom")
		return 2
	}

	model, err := selectModel(*asModel, *romFile)
	if err != nil {
		logger.Errorf("%v", err)
		return 2
	}

	program, err := utils.LoadFile(*romFile)
	if err != nil {
		logger.Errorf("unable to load program: %v", err)
		return 1
	}

	// assemble the trace sinks
	var tracers trace.Multi
	var ring *trace.Ring
	if *dump > 0 {
		ring = trace.NewRing(utils.Clamp(1, *dump, 1<<16))
		tracers = append(tracers, ring)
	}
	var writer *trace.Writer
	if *traceOut {
		writer = trace.NewWriter(stdout)
		tracers = append(tracers, writer)
	}
	var hist *trace.Histogram
	if *histogram != "" {
		hist = trace.NewHistogram()
		tracers = append(tracers, hist)
	}
	if *traceWS != "" {
		hub := web.NewHub(logger)
		if err := hub.Start(*traceWS); err != nil {
			logger.Errorf("unable to start trace hub: %v", err)
			return 1
		}
		defer hub.Close()
		tracers = append(tracers, hub)
	}

	opts := []machine.Opt{machine.WithLogger(logger), machine.WithFrameIRQ(*frameIRQ)}
	if len(tracers) > 0 {
		opts = append(opts, machine.WithTracer(tracers))
	}
	if *bootROM {
		opts = append(opts, machine.WithBootROM())
	}
	m, err := machine.New(model, program, opts...)
	if err != nil {
		logger.Errorf("unable to start %s: %v", model, err)
		return 1
	}

	if *loadState != "" {
		s, err := savestate.Load(*loadState)
		if err != nil {
			logger.Errorf("unable to read state: %v", err)
			return 1
		}
		if err := m.Load(s); err != nil {
			logger.Errorf("unable to load state: %v", err)
			return 1
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := machine.Run(ctx, m, *steps, *until)
	elapsed := time.Since(start)

	fmt.Fprint(stdout, result.Output)
	if result.Output != "" && !strings.HasSuffix(result.Output, "\n") {
		fmt.Fprintln(stdout)
	}
	logger.Infof("%s: %s after %d steps, %d cycles in %s", model, result.Reason, result.Steps, result.Cycles, elapsed.Round(time.Millisecond))

	if writer != nil && writer.Err() != nil {
		logger.Warnf("trace output: %v", writer.Err())
	}
	if hist != nil {
		if err := hist.SavePNG(*histogram, histogramBars); err != nil {
			logger.Errorf("unable to save histogram: %v", err)
		}
	}
	if *saveState != "" {
		s := types.NewState("", 0)
		m.Save(s)
		if err := savestate.Save(*saveState, s); err != nil {
			logger.Errorf("unable to save state: %v", err)
			return 1
		}
	}

	failed := result.Failed()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Errorf("timed out after %s", *timeout)
		} else {
			logger.Warnf("interrupted: %v", err)
		}
		failed = true
	}
	if failed {
		if ring != nil {
			fmt.Fprintf(stderr, "last %d instructions:\n", len(ring.Records()))
			ring.Dump(stderr)
		}
		return 1
	}
	return 0
}

// selectModel resolves the -model flag. The auto model is chosen
// from the extension of the program file.
func selectModel(name, filename string) (types.Model, error) {
	if name != "auto" {
		model := types.StringToModel(name)
		if model == types.Unset {
			return model, fmt.Errorf("unknown model %q", name)
		}
		return model, nil
	}

	base := strings.ToLower(filename)
	for _, ext := range []string{".gz", ".zip", ".7z"} {
		base = strings.TrimSuffix(base, ext)
	}
	switch filepath.Ext(base) {
	case ".com":
		return types.MasterSystem, nil
	case ".gbc":
		return types.CGBABC, nil
	}
	return types.DMGABC, nil
}
