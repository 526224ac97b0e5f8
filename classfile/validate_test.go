package classfile_test

import (
	"testing"

	"github.com/probeum/classkit/classfile"
	"github.com/probeum/classkit/errors"
)

func TestValidateEmptyClass(t *testing.T) {
	if _, err := classfile.ParseValidate(emptyClass()); err != nil {
		t.Fatalf("ParseValidate: %v", err)
	}
}

func TestValidateConstantValueIndex(t *testing.T) {
	build := func(cvIdx uint16) []byte {
		w := &cw{}
		header(w)
		stdPool(w, 4, func(w *cw) {
			w.utf8("ConstantValue")                // 12
			w.utf8("COUNT")                        // 13
			w.utf8("I")                            // 14
			w.u1(3).u4(42)                         // 15: Integer
		})
		w.u2(0x0021, 7, 2)
		w.u2(0) // interfaces
		w.u2(1) // one field
		w.u2(0x0019, 13, 14)
		w.u2(1)  // field attribute
		w.u2(12) // "ConstantValue"
		w.u4(2)
		w.u2(cvIdx)
		w.u2(0, 0) // methods, class attributes
		return w.b
	}

	// Parsing alone never follows the ConstantValue reference.
	cf, err := classfile.Parse(build(16))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := cf.Validate(); !errors.IsKind(err, errors.KindInvalidPoolIndex) {
		t.Fatalf("Validate: got %v, want invalid_constant_pool_index", err)
	}

	if _, err := classfile.ParseValidate(build(15)); err != nil {
		t.Fatalf("valid ConstantValue rejected: %v", err)
	}
	_, err = classfile.ParseValidate(build(0))
	wantKind(t, err, errors.KindInvalidPoolIndex)
}

func TestValidateExceptionsClasses(t *testing.T) {
	build := func(excIdx uint16) []byte {
		w := &cw{}
		header(w)
		stdPool(w, 1, func(w *cw) {
			w.utf8("Exceptions") // 12
		})
		w.u2(0x0021, 7, 2)
		w.u2(0, 0)
		w.u2(1)
		w.u2(0x0401, 5, 6) // abstract method, no Code
		w.u2(1)
		w.u2(12) // "Exceptions"
		w.u4(4)
		w.u2(1, excIdx)
		w.u2(0) // class attributes
		return w.b
	}

	if _, err := classfile.ParseValidate(build(2)); err != nil {
		t.Fatalf("Exceptions referencing a Class rejected: %v", err)
	}
	// Entry 4 is a Utf8, not a Class.
	_, err := classfile.ParseValidate(build(4))
	wantKind(t, err, errors.KindInvalidPoolIndex)
}

func TestValidateBootstrapMethods(t *testing.T) {
	build := func(ref uint16) []byte {
		w := &cw{}
		header(w)
		stdPool(w, 2, func(w *cw) {
			w.utf8("BootstrapMethods") // 12
			w.u1(15).u1(6).u2(1)       // 13: MethodHandle invokestatic -> Methodref 1
		})
		w.u2(0x0021, 7, 2)
		w.u2(0, 0, 0)
		w.u2(1)
		w.u2(12)
		w.u4(8)
		w.u2(1)      // one bootstrap method
		w.u2(ref)    // method handle ref
		w.u2(1, 6)   // one argument: Utf8 "()V"
		return w.b
	}

	if _, err := classfile.ParseValidate(build(13)); err != nil {
		t.Fatalf("ParseValidate: %v", err)
	}
	// Entry 1 is a Methodref, not a MethodHandle.
	_, err := classfile.ParseValidate(build(1))
	wantKind(t, err, errors.KindInvalidPoolIndex)
}

func TestValidateReportsPhase(t *testing.T) {
	w := &cw{}
	header(w)
	stdPool(w, 0, nil)
	w.u2(0x0021, 5, 2) // this_class points at a Utf8
	w.u2(0, 0, 0, 0)

	_, err := classfile.Parse(w.b)
	var e *errors.Error
	if !errors.As(err, &e) {
		t.Fatalf("error type %T", err)
	}
	if e.Kind != errors.KindInvalidPoolIndex || e.Phase != errors.PhaseValidate {
		t.Errorf("kind %s phase %s", e.Kind, e.Phase)
	}
}
