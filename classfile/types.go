package classfile

import (
	"fmt"

	"github.com/probeum/classkit/errors"
)

// ClassFile is the fully decoded representation of one class file. It is
// built by a single Parse call and never mutated afterwards. All
// cross-references between sections are 1-based constant pool indices,
// resolved on demand against ConstantPool.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool *ConstantPool
	AccessFlags  uint16
	ThisClass    uint16
	SuperClass   uint16 // 0 only for java/lang/Object
	Interfaces   []uint16
	Fields       []Member
	Methods      []Member
	Attributes   []Attribute
}

// ClassName resolves this_class to its fully qualified internal name
// (e.g. "java/lang/String").
func (cf *ClassFile) ClassName() (string, error) {
	return cf.ConstantPool.ClassName(cf.ThisClass)
}

// SuperClassName resolves super_class. It returns "" for java/lang/Object,
// which legitimately has super_class 0.
func (cf *ClassFile) SuperClassName() (string, error) {
	if cf.SuperClass == 0 {
		return "", nil
	}
	return cf.ConstantPool.ClassName(cf.SuperClass)
}

// JavaVersion renders the major version as a release name ("Java 8",
// "Java 17"). Pre-1.2 majors share the "Java 1.x" form.
func (cf *ClassFile) JavaVersion() string {
	switch {
	case cf.MajorVersion < firstSupportedMajor:
		return fmt.Sprintf("unknown (major %d)", cf.MajorVersion)
	case cf.MajorVersion < 49:
		return fmt.Sprintf("Java 1.%d", cf.MajorVersion-44)
	default:
		return fmt.Sprintf("Java %d", cf.MajorVersion-44)
	}
}

// Member is a field or method declaration. Both share the same shape on
// disk; methods additionally tend to carry a Code attribute.
type Member struct {
	AccessFlags     uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []Attribute
}

// Name resolves the member's name against the pool.
func (m *Member) Name(cp *ConstantPool) (string, error) {
	return cp.Utf8(m.NameIndex)
}

// Descriptor resolves the member's type descriptor against the pool.
func (m *Member) Descriptor(cp *ConstantPool) (string, error) {
	return cp.Utf8(m.DescriptorIndex)
}

// Code returns the method's Code attribute, or nil when absent. Abstract and
// native methods legitimately have none.
func (m *Member) Code() *CodeAttr {
	for _, a := range m.Attributes {
		if c, ok := a.(*CodeAttr); ok {
			return c
		}
	}
	return nil
}

// Const is one constant pool entry. Concrete types mirror the tagged set of
// the class file format; consumers type-switch on the entry.
type Const interface {
	Tag() byte
}

// ConstUtf8 holds the raw modified-UTF-8 bytes of a string constant. The
// bytes alias the input buffer and are only validated and decoded to text
// when a consumer asks, so a tool that never reads a given string never pays
// for it.
type ConstUtf8 struct {
	Raw []byte
}

func (c *ConstUtf8) Tag() byte { return TagUtf8 }

type ConstInteger struct {
	Value int32
}

func (c *ConstInteger) Tag() byte { return TagInteger }

type ConstFloat struct {
	Value float32
}

func (c *ConstFloat) Tag() byte { return TagFloat }

type ConstLong struct {
	Value int64
}

func (c *ConstLong) Tag() byte { return TagLong }

type ConstDouble struct {
	Value float64
}

func (c *ConstDouble) Tag() byte { return TagDouble }

type ConstClass struct {
	NameIndex uint16
}

func (c *ConstClass) Tag() byte { return TagClass }

type ConstString struct {
	StringIndex uint16
}

func (c *ConstString) Tag() byte { return TagString }

type ConstFieldref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstFieldref) Tag() byte { return TagFieldref }

type ConstMethodref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstMethodref) Tag() byte { return TagMethodref }

type ConstInterfaceMethodref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstInterfaceMethodref) Tag() byte { return TagInterfaceMethodref }

type ConstNameAndType struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (c *ConstNameAndType) Tag() byte { return TagNameAndType }

type ConstMethodHandle struct {
	ReferenceKind  byte
	ReferenceIndex uint16
}

func (c *ConstMethodHandle) Tag() byte { return TagMethodHandle }

type ConstMethodType struct {
	DescriptorIndex uint16
}

func (c *ConstMethodType) Tag() byte { return TagMethodType }

type ConstDynamic struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (c *ConstDynamic) Tag() byte { return TagDynamic }

type ConstInvokeDynamic struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (c *ConstInvokeDynamic) Tag() byte { return TagInvokeDynamic }

type ConstModule struct {
	NameIndex uint16
}

func (c *ConstModule) Tag() byte { return TagModule }

type ConstPackage struct {
	NameIndex uint16
}

func (c *ConstPackage) Tag() byte { return TagPackage }

// placeholderConst marks the unaddressable slot following a Long or Double.
type placeholderConst struct{}

func (placeholderConst) Tag() byte { return 0 }

var placeholder Const = placeholderConst{}

// ConstantPool is the 1-based table of interned constants shared by every
// other section of the class file. It is immutable once built.
type ConstantPool struct {
	entries []Const // entries[0] is nil; placeholder slots mark long/double tails
}

// Size returns the declared constant_pool_count. Valid indices are
// [1, Size()), excluding placeholder slots.
func (cp *ConstantPool) Size() int {
	return len(cp.entries)
}

// Entry resolves a 1-based pool index.
func (cp *ConstantPool) Entry(index uint16) (Const, error) {
	i := int(index)
	if i == 0 || i >= len(cp.entries) {
		return nil, errors.InvalidPoolIndex(errors.PhaseResolve, i, len(cp.entries), 0)
	}
	e := cp.entries[i]
	if e == placeholder {
		return nil, errors.PlaceholderReference(i, 0)
	}
	if e == nil {
		return nil, errors.Internal(fmt.Sprintf("constant pool slot %d was never populated", i))
	}
	return e, nil
}

// Utf8 resolves index to a Utf8 entry and decodes its modified-UTF-8 bytes.
// Decoding happens here, not at parse time, so malformed text in strings a
// consumer never touches costs nothing and fails nothing.
func (cp *ConstantPool) Utf8(index uint16) (string, error) {
	e, err := cp.Entry(index)
	if err != nil {
		return "", err
	}
	u, ok := e.(*ConstUtf8)
	if !ok {
		return "", errors.InvalidPoolIndex(errors.PhaseResolve, int(index), len(cp.entries), 0)
	}
	return decodeModifiedUTF8(int(index), u.Raw)
}

// ClassName resolves index to a Class entry and returns its name.
func (cp *ConstantPool) ClassName(index uint16) (string, error) {
	e, err := cp.Entry(index)
	if err != nil {
		return "", err
	}
	c, ok := e.(*ConstClass)
	if !ok {
		return "", errors.InvalidPoolIndex(errors.PhaseResolve, int(index), len(cp.entries), 0)
	}
	return cp.Utf8(c.NameIndex)
}
