package parser

import "fmt"

const dash = "-"

// Optional holds a log field that nginx writes as "-" when it has no value.
type Optional[T any] struct {
	value   T
	present bool
}

func Missing[T any]() Optional[T] {
	return Optional[T]{}
}

func Present[T any](value T) Optional[T] {
	return Optional[T]{
		value:   value,
		present: true,
	}
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

func (o Optional[T]) IsPresent() bool {
	return o.present
}

func (o Optional[T]) OrElse(def T) T {
	if !o.present {
		return def
	}

	return o.value
}

func (o Optional[T]) String() string {
	if !o.present {
		return dash
	}

	return fmt.Sprint(o.value)
}
