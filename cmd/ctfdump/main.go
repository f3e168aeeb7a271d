// ctfdump is a demo driver for the graph runtime: it builds a trace/stream/
// event class hierarchy, wires a small source-to-sink graph around it, and
// runs the graph to completion while logging each message it sees. It is
// this module's analogue of the teacher's cmd/trc, built on the same
// ff/v4 + oklog/run foundation rather than cmd/trc's HTTP client surface,
// since this module has no network service to talk to.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/oklog/run"
	"github.com/oklog/ulid/v2"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"go.uber.org/zap"

	"github.com/tracekit/ctf/graph"
	"github.com/tracekit/ctf/ir"
	"github.com/tracekit/ctf/resolve"
	"github.com/tracekit/ctf/tsdl"
)

func main() {
	err := exec(context.Background(), os.Args[1:])
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type rootConfig struct {
	EventCount int  `ff:"long: events | default: 5 | usage: number of events the demo source emits"`
	PrintTSDL  bool `ff:"long: print-tsdl | usage: print the demo event payload's TSDL type before running"`
	Verbose    bool `ff:"short: v | long: verbose | usage: enable debug-level logging"`
}

func exec(ctx context.Context, args []string) error {
	cfg := &rootConfig{}
	flags := ff.NewFlagSet("ctfdump")
	if err := flags.AddStruct(cfg); err != nil {
		return fmt.Errorf("invalid struct config: %w", err)
	}

	cmd := &ff.Command{
		Name:      "ctfdump",
		ShortHelp: "build and run a small demo CTF graph",
		Flags:     flags,
	}

	if err := cmd.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, ffhelp.Command(cmd))
		if errors.Is(err, ff.ErrHelp) {
			return nil
		}
		return err
	}

	zapConfig := zap.NewProductionConfig()
	if cfg.Verbose {
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := zapConfig.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	runID := ulid.MustNew(ulid.Timestamp(time.Now()), rand.New(rand.NewSource(time.Now().UnixNano())))
	logger = logger.With(zap.Stringer("run_id", runID))
	logger.Debug("starting run")

	stream, eventClass, err := buildDemoTraceClass()
	if err != nil {
		return fmt.Errorf("build demo trace class: %w", err)
	}

	if cfg.PrintTSDL {
		text, err := tsdl.Serialize(eventClass.PayloadFieldClass())
		if err != nil {
			return fmt.Errorf("serialize payload field class: %w", err)
		}
		fmt.Println(text)
	}

	g, err := buildDemoGraph(stream, eventClass, cfg.EventCount, logger)
	if err != nil {
		return fmt.Errorf("build demo graph: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var rg run.Group
	{
		rg.Add(func() error {
			return g.Run(runCtx)
		}, func(error) {
			cancel()
		})
	}
	{
		rg.Add(run.SignalHandler(runCtx, os.Interrupt, os.Kill))
	}
	return rg.Run()
}

// buildDemoTraceClass constructs a minimal trace class with one stream
// class and one event class whose payload is a single uint32 counter
// field, returning a stream instance ready for events to be created
// against it. It finalizes the stream class and the event class through
// package resolve before using either, the way any builder of this API
// must (ir has no way to do this itself; see resolve.FinalizeStreamClass).
func buildDemoTraceClass() (*ir.Stream, *ir.EventClass, error) {
	traceClass := ir.NewTraceClass("ctfdump-demo")
	streamClass, err := traceClass.AppendStreamClass("demo-stream")
	if err != nil {
		return nil, nil, err
	}
	if err := resolve.FinalizeStreamClass(streamClass); err != nil {
		return nil, nil, fmt.Errorf("finalize stream class: %w", err)
	}

	counter, err := ir.NewIntegerFC(false, 32, 8, ir.DisplayDec, ir.EncodingNone, ir.ByteOrderNative)
	if err != nil {
		return nil, nil, err
	}
	payload := ir.NewStructureFC()
	if err := payload.AppendMember("counter", counter); err != nil {
		return nil, nil, err
	}

	eventClass, err := streamClass.AppendEventClass("tick")
	if err != nil {
		return nil, nil, err
	}
	if err := eventClass.SetPayloadFieldClass(payload); err != nil {
		return nil, nil, err
	}
	if err := resolve.FinalizeEventClass(eventClass); err != nil {
		return nil, nil, fmt.Errorf("finalize event class: %w", err)
	}

	trace := ir.NewTrace(traceClass)
	stream, err := trace.CreateStream(streamClass)
	if err != nil {
		return nil, nil, err
	}
	return stream, eventClass, nil
}
