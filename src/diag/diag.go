// Package diag provides the shared diagnostic shape and a parallel-safe collector used by every
// compiler pass. Errors raised during creation or elaboration are appended here rather than
// panicking, so that a single pass can report every independent mistake it finds before the pass
// boundary is reached (spec.md §7's recovery policy).
package diag

import "fmt"

// Kind enumerates every diagnostic kind spec.md §7 names. It is a closed taxonomy: nothing in the
// creation or elaboration passes reports an error outside this set.
type Kind int

const (
	CannotRead Kind = iota
	SyntaxError
	DoubleAlias
	SlabNotAttached
	TypeNotFound
	VariableNotFound
	MemberNotOfCollection
	MemberNotFound
	IndexNotOfVector
	IndexNotInteger
	TableRefNotTable
	IDNotInt
	IDRefNotInt
	FieldNotFound
	MeasureNotInteger
	VectorRefNotVector
	QueryNotAddress
	UnheapExpressionNotAddress
	ConditionNotTruth
	OperatorTypeMismatch
	ArgTypeMismatch
	CallArityMismatch
	AssignmentTypeMismatch
	ContextNotFound
	ContextNotCaptured
	DumpNotFound
	FunctionNotFound
	ExpressionNotRecognised
)

var kindNames = [...]string{
	"cannot-read",
	"syntax-error",
	"double-alias",
	"slab-not-attached",
	"type-not-found",
	"variable-not-found",
	"member-not-of-collection",
	"member-not-found",
	"index-not-of-vector",
	"index-not-integer",
	"table-ref-not-table",
	"id-not-int",
	"id-ref-not-int",
	"field-not-found",
	"measure-not-integer",
	"vector-ref-not-vector",
	"query-not-address",
	"unheap-expression-not-address",
	"condition-not-truth",
	"operator-type-mismatch",
	"arg-type-mismatch",
	"call-arity-mismatch",
	"assignment-type-mismatch",
	"context-not-found",
	"context-not-captured",
	"dump-not-found",
	"function-not-found",
	"expression-not-recognised",
}

// String returns the canonical kebab-case name for k.
func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "unknown-kind"
	}
	return kindNames[k]
}

// Diagnostic is the shared shape every pass reports errors in: a source position, the closed
// Kind taxonomy, a short human message, and optional contextual detail.
type Diagnostic struct {
	Line    int
	Col     int
	Kind    Kind
	Message string
	Detail  string
}

// Error implements the error interface so a Diagnostic can be passed around as a plain Go error
// when only one is in play.
func (d Diagnostic) Error() string {
	if d.Detail != "" {
		return fmt.Sprintf("%d:%d: %s (%s): %s", d.Line, d.Col, d.Kind, d.Message, d.Detail)
	}
	return fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Col, d.Kind, d.Message)
}

// defaultBufferSize defines the fallback buffer size of the diagnostic slice.
const defaultBufferSize = 16

// Collector gathers diagnostics from a single pass, possibly reported concurrently by several
// worker goroutines lowering/elaborating distinct slabs. Adapted from vslc's perror: a channel
// listener goroutine owns the backing slice so callers never need their own locking.
type Collector struct {
	listen chan Diagnostic
	stop   chan struct{}
	done   chan struct{}
	diags  []Diagnostic
}

// NewCollector returns a running Collector with n pre-allocated diagnostic slots.
func NewCollector(n int) *Collector {
	if n < 1 {
		n = defaultBufferSize
	}
	c := &Collector{
		listen: make(chan Diagnostic),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		diags:  make([]Diagnostic, 0, n),
	}
	go c.run()
	return c
}

func (c *Collector) run() {
	defer close(c.done)
	for {
		select {
		case d := <-c.listen:
			c.diags = append(c.diags, d)
		case <-c.stop:
			// Drain any diagnostics already in flight before exiting.
			for {
				select {
				case d := <-c.listen:
					c.diags = append(c.diags, d)
				default:
					return
				}
			}
		}
	}
}

// Append sends a diagnostic to the collector. Safe to call from multiple goroutines.
func (c *Collector) Append(d Diagnostic) {
	c.listen <- d
}

// Stop halts the collector's listener goroutine and blocks until it has drained. Diagnostics
// must not be appended after Stop returns.
func (c *Collector) Stop() {
	close(c.stop)
	<-c.done
}

// Diagnostics returns every diagnostic collected so far. Must be called after Stop.
func (c *Collector) Diagnostics() []Diagnostic {
	return c.diags
}

// Len reports how many diagnostics have been collected so far. Must be called after Stop.
func (c *Collector) Len() int {
	return len(c.diags)
}
