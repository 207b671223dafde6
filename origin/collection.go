// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package origin

import (
	"fmt"
	"iter"
)

// Collection is an ordered list of objects sharing a bound type. It
// preserves the server's ordering and never drops elements; a list
// holding a non-record element fails construction instead.
type Collection struct {
	typ   *BoundType
	items []*Object
}

// NewCollection wraps each element of list as an object of typ.
// Elements may be raw records or already-wrapped objects of the same
// type; anything else is an [InvalidRecordError].
func NewCollection(typ *BoundType, list []any) (*Collection, error) {
	items := make([]*Object, 0, len(list))
	for _, element := range list {
		switch v := element.(type) {
		case *Object:
			if v.typ != typ {
				return nil, &InvalidRecordError{Type: typ.name, Value: v}
			}
			items = append(items, v)
		default:
			obj, err := typ.New(element)
			if err != nil {
				return nil, err
			}
			items = append(items, obj)
		}
	}
	return &Collection{typ: typ, items: items}, nil
}

// Type returns the element type.
func (c *Collection) Type() *BoundType { return c.typ }

// Len returns the number of elements.
func (c *Collection) Len() int { return len(c.items) }

// At returns the i-th element in server order.
func (c *Collection) At(i int) *Object { return c.items[i] }

// All iterates the elements in order.
func (c *Collection) All() iter.Seq[*Object] {
	return func(yield func(*Object) bool) {
		for _, item := range c.items {
			if !yield(item) {
				return
			}
		}
	}
}

// Items returns the elements as a slice, in server order. The slice is
// a copy; the objects are shared.
func (c *Collection) Items() []*Object {
	out := make([]*Object, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection) String() string {
	return fmt.Sprintf("<%s collection, %d items>", c.typ.name, len(c.items))
}
