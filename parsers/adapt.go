package parsers

import "context"

// Adapt returns a parser that wraps `inner` converting each parsed value.
func Adapt[From, To any](inner SeriesParser[From], adapt func(From) To) SeriesParser[To] {
	return TryAdapt(inner, func(from From) (To, error) {
		return adapt(from), nil
	})
}

// TryAdapt returns a parser that wraps `inner` and tries to convert each parsed value.
func TryAdapt[From, To any](inner SeriesParser[From], adapt func(From) (To, error)) SeriesParser[To] {
	return newAdapter(inner, adapt)
}

type adapter[From, To any] struct {
	inner SeriesParser[From]
	adapt func(From) (To, error)
}

func newAdapter[From, To any](inner SeriesParser[From], adapt func(From) (To, error)) SeriesParser[To] {
	return &adapter[From, To]{inner, adapt}
}

func (a *adapter[From, To]) Position() string {
	return a.inner.Position()
}

func (a *adapter[From, To]) Next(ctx context.Context) (To, error) {
	from, err := a.inner.Next(ctx)
	if err != nil {
		var zero To

		return zero, err
	}

	res, err := a.adapt(from)
	if err != nil {
		var zero To

		return zero, err
	}

	return res, nil
}

// SkipValues returns a parser that wraps `inner` and drops every value for which `skip` returns true.
func SkipValues[T any](inner SeriesParser[T], skip func(T) bool) SeriesParser[T] {
	return &skipper[T]{inner, skip}
}

type skipper[T any] struct {
	inner SeriesParser[T]
	skip  func(T) bool
}

func (s *skipper[T]) Position() string {
	return s.inner.Position()
}

func (s *skipper[T]) Next(ctx context.Context) (T, error) {
	for {
		res, err := s.inner.Next(ctx)
		if err != nil {
			var zero T

			return zero, err
		}

		if !s.skip(res) {
			return res, nil
		}
	}
}
