// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

// Package event provides the in-process event bus used between scene
// entities: broadcast fan-out to every subscriber and point-to-point delivery
// to a receiver registered under an identifier.
//
// The bus is single-threaded. Senders, locked views and receivers share plain
// slices and maps without synchronization; every operation is expected to run
// on the frame loop.
package event

import "github.com/burge/burge/internal/id"

// Receiver is an append-only FIFO of events polled by one consumer.
type Receiver[T any] struct {
	queue []T
}

// NewReceiver creates a detached receiver. Most callers obtain receivers
// from a Sender or Locked view instead.
func NewReceiver[T any]() *Receiver[T] {
	return &Receiver[T]{}
}

// Push appends an event to the queue.
func (r *Receiver[T]) Push(ev T) {
	r.queue = append(r.queue, ev)
}

// Poll drains the queue, returning every pending event in arrival order.
// A second Poll without intervening pushes returns an empty slice.
func (r *Receiver[T]) Poll() []T {
	if len(r.queue) == 0 {
		return nil
	}
	out := r.queue
	r.queue = nil
	return out
}

// Len returns the number of pending events.
func (r *Receiver[T]) Len() int {
	return len(r.queue)
}

// Registrar is the receive-only half of a channel: it can hand out
// receivers but cannot publish.
type Registrar[T any] interface {
	NewReceiver() *Receiver[T]
	NewRoutedReceiver(want id.ID) (id.ID, *Receiver[T])
}

// Publisher is the full channel handle.
type Publisher[T any] interface {
	Registrar[T]
	Send(ev T)
	Route(target id.ID, ev T) bool
}

// hub is the backing store shared by every clone and locked view of a sender.
type hub[T any] struct {
	receivers []*Receiver[T]
	routed    map[id.ID]*Receiver[T]
}

func (h *hub[T]) newReceiver() *Receiver[T] {
	r := NewReceiver[T]()
	h.receivers = append(h.receivers, r)
	return r
}

func (h *hub[T]) newRoutedReceiver(want id.ID) (id.ID, *Receiver[T]) {
	key := id.OrNew(want)
	r := NewReceiver[T]()
	h.routed[key] = r
	return key, r
}

// Sender publishes events to broadcast subscribers and routed receivers.
type Sender[T any] struct {
	hub *hub[T]
}

// NewSender creates a sender with an empty subscriber list.
func NewSender[T any]() *Sender[T] {
	return &Sender[T]{hub: &hub[T]{routed: make(map[id.ID]*Receiver[T])}}
}

// NewReceiver registers and returns a new broadcast subscriber. It observes
// only events sent after its creation.
func (s *Sender[T]) NewReceiver() *Receiver[T] {
	return s.hub.newReceiver()
}

// NewRoutedReceiver registers a dedicated receiver under want, or under a
// freshly generated identifier when want is zero. Registering the same
// identifier twice replaces the earlier receiver.
func (s *Sender[T]) NewRoutedReceiver(want id.ID) (id.ID, *Receiver[T]) {
	return s.hub.newRoutedReceiver(want)
}

// Send delivers a copy of ev to every current broadcast subscriber.
func (s *Sender[T]) Send(ev T) {
	for _, r := range s.hub.receivers {
		r.Push(ev)
	}
}

// Route delivers ev to the receiver registered under target. It reports
// whether a receiver was found; unknown targets are silently dropped.
func (s *Sender[T]) Route(target id.ID, ev T) bool {
	r, ok := s.hub.routed[target]
	if !ok {
		return false
	}
	r.Push(ev)
	return true
}

// Clone returns another handle over the same subscriber tables.
func (s *Sender[T]) Clone() *Sender[T] {
	return &Sender[T]{hub: s.hub}
}

// Lock returns a view over the same tables that cannot publish. It is an
// access restriction only and provides no mutual exclusion.
func (s *Sender[T]) Lock() *Locked[T] {
	return &Locked[T]{hub: s.hub}
}

// Subscribers returns the number of broadcast subscribers.
func (s *Sender[T]) Subscribers() int {
	return len(s.hub.receivers)
}

// Locked is a receive-only view of a Sender.
type Locked[T any] struct {
	hub *hub[T]
}

// NewReceiver registers and returns a new broadcast subscriber.
func (l *Locked[T]) NewReceiver() *Receiver[T] {
	return l.hub.newReceiver()
}

// NewRoutedReceiver registers a dedicated receiver; see Sender.NewRoutedReceiver.
func (l *Locked[T]) NewRoutedReceiver(want id.ID) (id.ID, *Receiver[T]) {
	return l.hub.newRoutedReceiver(want)
}

var (
	_ Publisher[int] = (*Sender[int])(nil)
	_ Registrar[int] = (*Locked[int])(nil)
)
