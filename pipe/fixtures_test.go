package pipe

import (
	"context"
	"errors"
	"iter"
	"strings"
)

var production = []string{"A", "B", "C"}

func lowered() []string {
	out := make([]string, len(production))
	for i, s := range production {
		out[i] = strings.ToLower(s)
	}
	return out
}

// manyProduction can be traversed any number of times.
func manyProduction() *Sequence[string] {
	return FromSlice(production)
}

// singleProduction is drained by its first traversal.
func singleProduction() *Sequence[string] {
	ch := make(chan string, len(production))
	for _, s := range production {
		ch <- s
	}
	close(ch)
	return FromChannel(ch)
}

func failing(prefix []string, err error) *Sequence[string] {
	var seq iter.Seq2[string, error] = func(yield func(string, error) bool) {
		for _, s := range prefix {
			if !yield(s, nil) {
				return
			}
		}
		yield("", err)
	}
	return FromSeq(seq)
}

func firstError() *Sequence[string] { return failing(nil, errors.New("First")) }
func lastError() *Sequence[string]  { return failing([]string{"A", "B"}, errors.New("Last")) }
func onlyError() *Sequence[string]  { return failing(nil, errors.New("Only")) }

func toLower(_ context.Context, s string) (string, error)  { return strings.ToLower(s), nil }
func toUpper(_ context.Context, s string) (string, error)  { return strings.ToUpper(s), nil }
func identity(_ context.Context, s string) (string, error) { return s, nil }

func lowerTransform(in *Sequence[string]) *Sequence[string] {
	return Map(in, toLower)
}

// midFactory builds a lowercase mid pipe fed by consumes.
type midFactory func(consumes *Sequence[string]) MidPipe[string, string]

var midFactories = map[string]midFactory{
	"LambdaPipe": func(consumes *Sequence[string]) MidPipe[string, string] {
		p := NewLambdaMidPipe(lowerTransform, WithName("lower"))
		p.SetConsumes(consumes)
		return p
	},
	"AsyncPipe": func(consumes *Sequence[string]) MidPipe[string, string] {
		p := Async[string, string](NewLambdaMidPipe(lowerTransform, WithName("lower")))
		p.SetConsumes(consumes)
		return p
	},
}

// recordingWriter collects written values and counts Close calls.
type recordingWriter struct {
	got      []string
	closed   int
	failOn   string
	err      error
	closeErr error
}

func (w *recordingWriter) Write(_ context.Context, v string) error {
	if w.failOn != "" && v == w.failOn {
		return w.err
	}
	w.got = append(w.got, v)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed++
	return w.closeErr
}
