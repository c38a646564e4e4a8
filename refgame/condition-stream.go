package refgame

import (
	"fmt"
	"io"
	"strings"
)

type ConditionStream struct {
	Outlet chan ConditionState
}

func NewConditionStream() *ConditionStream {
	stream := &ConditionStream{
		Outlet: make(chan ConditionState),
	}
	return stream
}

func StreamCondition(X ConditionState) *ConditionStream {
	next := NewConditionStream()

	go func() {
		next.Outlet <- X.MakeCopy()
		next.Close()
	}()

	return next
}

func (stream *ConditionStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

func (stream *ConditionStream) PushCondition(X ConditionState) {
	stream.Outlet <- X.MakeCopy()
}

func (stream *ConditionStream) PullCondition() ConditionState {
	X := <-stream.Outlet
	return X
}

func (stream *ConditionStream) PullAll() int {
	count := int(0)
	for X := range stream.Outlet {
		count++
		X.Reclaim()
	}
	return count
}

func (stream *ConditionStream) Print(
	out io.WriteCloser,
	opts PrintOpts) *ConditionStream {

	next := &ConditionStream{
		Outlet: make(chan ConditionState, 1),
	}

	go func() {
		buf := strings.Builder{}
		buf.Grow(128)

		count := 0
		for X := range stream.Outlet {
			if len(opts.Label) > 0 {
				buf.WriteString(opts.Label)
			}
			buf.WriteByte(',')

			count++
			fmt.Fprintf(&buf, "%04d,", count)
			X.WriteAsString(&buf, opts)
			buf.WriteByte('\n')
			out.Write([]byte(buf.String()))
			buf.Reset()
			next.Outlet <- X
		}
		out.Close()
		next.Close()
	}()

	return next
}

func (stream *ConditionStream) AddTo(target ConditionAdder) *ConditionStream {
	next := &ConditionStream{
		Outlet: make(chan ConditionState, 1),
	}

	go func() {
		for X := range stream.Outlet {
			wasAdded := target.TryAddCondition(X)
			if wasAdded {
				next.Outlet <- X
			} else {
				X.Reclaim()
			}
		}
		next.Close()
	}()

	return next
}

func SelectFromCatalog(cat Catalog, sel ConditionSelector) *ConditionStream {
	next := &ConditionStream{
		Outlet: make(chan ConditionState, 1),
	}

	onHit := make(chan ConditionState, 4)

	go func() {
		cat.Select(sel, onHit)
		close(onHit)
	}()

	go func() {
		for X := range onHit {
			if sel.SelectsCondition(X) {
				next.Outlet <- X
			} else {
				X.Reclaim()
			}
		}
		next.Close()
	}()

	return next
}

func (stream *ConditionStream) SelectFromStream(sel ConditionSelector) *ConditionStream {
	next := &ConditionStream{
		Outlet: make(chan ConditionState, 1),
	}

	go func() {
		for X := range stream.Outlet {
			if sel.SelectsCondition(X) {
				next.Outlet <- X
			} else {
				X.Reclaim()
			}
		}
		next.Close()
	}()

	return next
}

func (stream *ConditionStream) PermuteIncentiveSigns() *ConditionStream {
	next := &ConditionStream{
		Outlet: make(chan ConditionState, 1),
	}

	go func() {
		for Xsrc := range stream.Outlet {
			Xsrc.PermuteIncentiveSigns(next)
			Xsrc.Reclaim()
		}
		next.Close()
	}()

	return next
}
