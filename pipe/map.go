package pipe

import (
	"context"
	"slices"
)

// MapPipe applies every mapper to every consumed value. For K mappers and N
// values it produces K*N values: all K results for the first value (in
// mapper order), then all K for the second, and so on.
type MapPipe[C, P any] struct {
	*LambdaMidPipe[C, P]
	mappers []Mapper[C, P]
}

// NewMapPipe creates a MapPipe over the given mappers.
func NewMapPipe[C, P any](mappers []Mapper[C, P], opts ...Option) *MapPipe[C, P] {
	mappers = slices.Clone(mappers)
	opts = append([]Option{WithName("map")}, opts...)
	return &MapPipe[C, P]{
		LambdaMidPipe: NewLambdaMidPipe(func(in *Sequence[C]) *Sequence[P] {
			return mapEach(in, mappers)
		}, opts...),
		mappers: mappers,
	}
}

// Mappers returns the number of mappers applied to each value.
func (p *MapPipe[C, P]) Mappers() int { return len(p.mappers) }

func mapEach[C, P any](in *Sequence[C], mappers []Mapper[C, P]) *Sequence[P] {
	return FromFunc(func(ctx context.Context) Iterator[P] {
		return &mapEachIter[C, P]{source: in.Iter(ctx), mappers: mappers}
	})
}

type mapEachIter[C, P any] struct {
	source  Iterator[C]
	mappers []Mapper[C, P]
	current C
	next    int
}

func (it *mapEachIter[C, P]) Next(ctx context.Context) (P, bool, error) {
	var zero P
	if len(it.mappers) == 0 {
		// Still drain so upstream errors surface.
		for {
			_, ok, err := it.source.Next(ctx)
			if err != nil || !ok {
				return zero, false, err
			}
		}
	}
	if it.next == 0 {
		val, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		it.current = val
	}
	out, err := it.mappers[it.next].Map(ctx, it.current)
	if err != nil {
		return zero, false, err
	}
	it.next = (it.next + 1) % len(it.mappers)
	return out, true, nil
}

func (it *mapEachIter[C, P]) Close() error { return it.source.Close() }
