package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/kbukum/pipekit/config"
	apperrors "github.com/kbukum/pipekit/errors"
	"github.com/kbukum/pipekit/logger"
	"github.com/kbukum/pipekit/observability"
	"github.com/kbukum/pipekit/pipe"
	"github.com/kbukum/pipekit/step"
)

var mappers = map[string]pipe.Mapper[string, string]{
	"lower":    stringMapper(strings.ToLower),
	"upper":    stringMapper(strings.ToUpper),
	"identity": stringMapper(func(s string) string { return s }),
	"trim":     stringMapper(strings.TrimSpace),
}

func stringMapper(fn func(string) string) pipe.Mapper[string, string] {
	return pipe.MapperFunc[string, string](func(_ context.Context, s string) (string, error) {
		return fn(s), nil
	})
}

// lookupMappers resolves mapper names in order.
func lookupMappers(names []string) ([]pipe.Mapper[string, string], error) {
	out := make([]pipe.Mapper[string, string], 0, len(names))
	for _, name := range names {
		m, ok := mappers[name]
		if !ok {
			return nil, apperrors.InvalidConfig("pipeline.mappers", fmt.Sprintf("has unknown mapper %q", name))
		}
		out = append(out, m)
	}
	return out, nil
}

// lines yields r line by line. The scanner error, if any, ends the sequence.
func lines(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			if !yield(sc.Text(), nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield("", err)
		}
	}
}

// lineWriter writes one value per line and flushes on Close.
type lineWriter struct {
	w     *bufio.Writer
	count int
}

func (lw *lineWriter) Write(_ context.Context, s string) error {
	if _, err := lw.w.WriteString(s); err != nil {
		return err
	}
	lw.count++
	return lw.w.WriteByte('\n')
}

func (lw *lineWriter) Close() error { return lw.w.Flush() }

type jobDeps struct {
	log      *logger.Logger
	metrics  *observability.Metrics
	observer step.RunObserver
}

// job reads lines, maps each through the configured mappers and writes the
// results: read -> map (optionally async) -> write. A final action reports
// the line count.
type job struct {
	source *pipe.LambdaFirstPipe[string]
	mapped pipe.Producer[string]
	sink   *pipe.WritePipe[string]
	out    *lineWriter
	runner *step.Runner
	log    *logger.Logger
}

func newJob(cfg config.PipelineConfig, in io.Reader, out io.Writer, deps jobDeps) (*job, error) {
	ms, err := lookupMappers(cfg.Mappers)
	if err != nil {
		return nil, err
	}
	log := deps.log.WithComponent("job")

	opts := func(name string) []pipe.Option {
		hooks := []pipe.StatusHook{deps.metrics.StatusHook(name)}
		if cfg.LogTransitions {
			hooks = append(hooks, transitionLogger(log, name))
		}
		return []pipe.Option{pipe.WithName(name), pipe.WithLogger(deps.log), pipe.WithStatusHook(chainHooks(hooks...))}
	}

	source := pipe.NewLambdaFirstPipe(pipe.FromSeq(lines(in)), opts("read")...)

	mapper := pipe.NewMapPipe(ms, opts("map")...)
	mapper.SetConsumes(source.Produces())
	var mapped pipe.Producer[string] = mapper
	if cfg.Async {
		mapped = pipe.Async[string, string](mapper, pipe.WithBufferSize(cfg.BufferSize), pipe.WithLogger(deps.log))
	}

	lw := &lineWriter{w: bufio.NewWriter(out)}
	sink := pipe.NewWritePipe[string](lw, opts("write")...)
	sink.SetConsumes(mapped.Produces())

	runnerOpts := []step.RunnerOption{
		step.WithRunnerLogger(deps.log),
		step.WithMetrics(deps.metrics),
	}
	if deps.observer != nil {
		runnerOpts = append(runnerOpts, step.WithObserver(deps.observer))
	}

	j := &job{source: source, mapped: mapped, sink: sink, out: lw, log: log}
	work := step.NewChain(
		step.NewPipeStep[string](sink),
		step.NewActionStep(j.report),
	)
	j.runner = step.NewRunner(serviceName, work, runnerOpts...)
	if cfg.LogTransitions {
		j.runner.Tracker().AddListener(step.LogListener(log))
	}
	return j, nil
}

// pipes lists the job's stages in chain order.
func (j *job) pipes() []pipe.Pipe {
	return []pipe.Pipe{j.source, j.mapped, j.sink}
}

func (j *job) run(ctx context.Context) error {
	return j.runner.Run(ctx)
}

// report runs after the pipes have drained.
func (j *job) report(context.Context) error {
	j.log.Info("job completed", logger.Fields("lines_written", j.out.count))
	return nil
}

func chainHooks(hooks ...pipe.StatusHook) pipe.StatusHook {
	return func(from, to pipe.Status) {
		for _, h := range hooks {
			h(from, to)
		}
	}
}

func transitionLogger(log *logger.Logger, name string) pipe.StatusHook {
	return func(from, to pipe.Status) {
		log.Info("pipe transition", logger.Fields(
			logger.FieldPipe, name,
			logger.FieldFrom, from.String(),
			logger.FieldTo, to.String(),
		))
	}
}
