package classkit

import (
	"context"

	"github.com/probeum/classkit/classfile"
)

// ClassObserver receives decoded class files from an instrumentation
// boundary. The tree is shared between observers and must be treated as
// read-only.
type ClassObserver interface {
	ObserveClass(ctx context.Context, name string, cf *classfile.ClassFile) error
}

// ObserverFunc adapts a plain function to the ClassObserver interface.
type ObserverFunc func(ctx context.Context, name string, cf *classfile.ClassFile) error

func (f ObserverFunc) ObserveClass(ctx context.Context, name string, cf *classfile.ClassFile) error {
	return f(ctx, name, cf)
}
