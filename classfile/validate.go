package classfile

import "github.com/probeum/classkit/errors"

// Validate runs the deferred cross-reference checks that the structural parse
// leaves to the caller: every stored pool index must resolve to an entry of
// the right kind. These checks are deferred rather than inline because some
// zero indices are legitimate (java/lang/Object has super_class 0, an
// anonymous inner class has inner_name_index 0) and only the finished tree
// knows which position a given index sits in.
func (cf *ClassFile) Validate() error {
	if err := cf.validateClassRefs(); err != nil {
		return err
	}
	if err := cf.validateInterfaces(); err != nil {
		return err
	}
	if err := cf.validateMembers(cf.Fields); err != nil {
		return err
	}
	if err := cf.validateMembers(cf.Methods); err != nil {
		return err
	}
	if err := cf.validateBootstrapMethods(); err != nil {
		return err
	}
	return nil
}

// ParseValidate parses a class file and validates its pool references.
// This is a convenience function combining Parse and Validate.
func ParseValidate(data []byte) (*ClassFile, error) {
	cf, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := cf.Validate(); err != nil {
		return nil, err
	}
	return cf, nil
}

func (cf *ClassFile) requireClass(index uint16) error {
	e, err := cf.ConstantPool.Entry(index)
	if err != nil {
		return err
	}
	if _, ok := e.(*ConstClass); !ok {
		return errors.InvalidPoolIndex(errors.PhaseValidate, int(index), cf.ConstantPool.Size(), 0)
	}
	return nil
}

func (cf *ClassFile) requireUtf8(index uint16) error {
	e, err := cf.ConstantPool.Entry(index)
	if err != nil {
		return err
	}
	if _, ok := e.(*ConstUtf8); !ok {
		return errors.InvalidPoolIndex(errors.PhaseValidate, int(index), cf.ConstantPool.Size(), 0)
	}
	return nil
}

func (cf *ClassFile) validateClassRefs() error {
	if err := cf.requireClass(cf.ThisClass); err != nil {
		return err
	}
	// super_class 0 is valid only in the java/lang/Object position; any
	// other zero or non-Class reference fails.
	if cf.SuperClass != 0 {
		if err := cf.requireClass(cf.SuperClass); err != nil {
			return err
		}
	}
	return nil
}

func (cf *ClassFile) validateInterfaces() error {
	for _, idx := range cf.Interfaces {
		if err := cf.requireClass(idx); err != nil {
			return err
		}
	}
	return nil
}

// validateMemberNames checks the name and descriptor references of every
// member. The structural parser runs this as its deferred step; Validate
// repeats it as part of the full pass.
func (cf *ClassFile) validateMemberNames(members []Member) error {
	for i := range members {
		m := &members[i]
		if err := cf.requireUtf8(m.NameIndex); err != nil {
			return err
		}
		if err := cf.requireUtf8(m.DescriptorIndex); err != nil {
			return err
		}
	}
	return nil
}

func (cf *ClassFile) validateMembers(members []Member) error {
	if err := cf.validateMemberNames(members); err != nil {
		return err
	}
	for i := range members {
		m := &members[i]
		for _, a := range m.Attributes {
			if cv, ok := a.(*ConstantValueAttr); ok {
				if _, err := cf.ConstantPool.Entry(cv.Index); err != nil {
					return err
				}
			}
			if ex, ok := a.(*ExceptionsAttr); ok {
				for _, idx := range ex.Classes {
					if err := cf.requireClass(idx); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func (cf *ClassFile) validateBootstrapMethods() error {
	for _, a := range cf.Attributes {
		bsm, ok := a.(*BootstrapMethodsAttr)
		if !ok {
			continue
		}
		for _, m := range bsm.Methods {
			e, err := cf.ConstantPool.Entry(m.MethodRef)
			if err != nil {
				return err
			}
			if _, ok := e.(*ConstMethodHandle); !ok {
				return errors.InvalidPoolIndex(errors.PhaseValidate, int(m.MethodRef), cf.ConstantPool.Size(), 0)
			}
			for _, arg := range m.Arguments {
				if _, err := cf.ConstantPool.Entry(arg); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
