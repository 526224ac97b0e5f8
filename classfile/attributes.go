package classfile

// Attribute is one named, length-prefixed sub-structure attached to a class,
// member, record component, or Code attribute. The set of concrete types is
// closed over the attributes defined through Java 27; anything else decodes
// to *UnknownAttr with its payload preserved verbatim.
type Attribute interface {
	// Name returns the attribute's name as it appears in the class file.
	Name() string
}

type ConstantValueAttr struct {
	Index uint16 // pool index of the constant
}

func (*ConstantValueAttr) Name() string { return "ConstantValue" }

// CodeAttr holds a method body. The bytecode itself is kept as an opaque
// byte view; only the attribute structure around it is decoded. The nested
// attribute list is drawn from the same registry as every other level.
type CodeAttr struct {
	MaxStack       uint16
	MaxLocals      uint16
	Code           []byte
	ExceptionTable []ExceptionHandler
	Attributes     []Attribute
}

func (*CodeAttr) Name() string { return "Code" }

type ExceptionHandler struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16 // 0 means catch-all
}

type StackMapTableAttr struct {
	Frames []StackMapFrame
}

func (*StackMapTableAttr) Name() string { return "StackMapTable" }

// StackMapFrame keeps the raw frame_type byte alongside the decoded fields.
// Locals and Stack are populated only for the frame kinds that carry them.
type StackMapFrame struct {
	Type        byte
	OffsetDelta uint16
	Locals      []VerificationType
	Stack       []VerificationType
}

// Kind classifies the raw frame type.
func (f *StackMapFrame) Kind() byte {
	switch {
	case f.Type <= 63:
		return FrameSame
	case f.Type <= 127:
		return FrameSameLocals1StackItem
	case f.Type == 247:
		return FrameSameLocals1StackItemExtended
	case f.Type >= 248 && f.Type <= 250:
		return FrameChop
	case f.Type == 251:
		return FrameSameExtended
	case f.Type >= 252 && f.Type <= 254:
		return FrameAppend
	default:
		return FrameFull
	}
}

// ChopCount returns how many locals a chop frame removes.
func (f *StackMapFrame) ChopCount() int {
	return int(251 - f.Type)
}

// VerificationType is one entry in a stack map frame. Index holds a pool
// index for VerObject and a bytecode offset for VerUninitialized.
type VerificationType struct {
	Tag   byte
	Index uint16
}

type ExceptionsAttr struct {
	Classes []uint16 // pool indices of thrown exception classes
}

func (*ExceptionsAttr) Name() string { return "Exceptions" }

type InnerClassesAttr struct {
	Classes []InnerClass
}

func (*InnerClassesAttr) Name() string { return "InnerClasses" }

type InnerClass struct {
	InnerClassIndex uint16
	OuterClassIndex uint16
	InnerNameIndex  uint16
	AccessFlags     uint16
}

type EnclosingMethodAttr struct {
	ClassIndex  uint16
	MethodIndex uint16
}

func (*EnclosingMethodAttr) Name() string { return "EnclosingMethod" }

type SyntheticAttr struct{}

func (*SyntheticAttr) Name() string { return "Synthetic" }

type SignatureAttr struct {
	Index uint16
}

func (*SignatureAttr) Name() string { return "Signature" }

type SourceFileAttr struct {
	Index uint16
}

func (*SourceFileAttr) Name() string { return "SourceFile" }

type SourceDebugExtensionAttr struct {
	Data []byte
}

func (*SourceDebugExtensionAttr) Name() string { return "SourceDebugExtension" }

type LineNumberTableAttr struct {
	Entries []LineNumber
}

func (*LineNumberTableAttr) Name() string { return "LineNumberTable" }

type LineNumber struct {
	StartPC uint16
	Line    uint16
}

type LocalVariableTableAttr struct {
	Entries []LocalVariable
}

func (*LocalVariableTableAttr) Name() string { return "LocalVariableTable" }

type LocalVariable struct {
	StartPC         uint16
	Length          uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Index           uint16
}

type LocalVariableTypeTableAttr struct {
	Entries []LocalVariableType
}

func (*LocalVariableTypeTableAttr) Name() string { return "LocalVariableTypeTable" }

type LocalVariableType struct {
	StartPC        uint16
	Length         uint16
	NameIndex      uint16
	SignatureIndex uint16
	Index          uint16
}

type DeprecatedAttr struct{}

func (*DeprecatedAttr) Name() string { return "Deprecated" }

// AnnotationsAttr covers both RuntimeVisibleAnnotations and
// RuntimeInvisibleAnnotations; the two differ only in name.
type AnnotationsAttr struct {
	Visible     bool
	Annotations []Annotation
}

func (a *AnnotationsAttr) Name() string {
	if a.Visible {
		return "RuntimeVisibleAnnotations"
	}
	return "RuntimeInvisibleAnnotations"
}

type ParameterAnnotationsAttr struct {
	Visible    bool
	Parameters [][]Annotation
}

func (a *ParameterAnnotationsAttr) Name() string {
	if a.Visible {
		return "RuntimeVisibleParameterAnnotations"
	}
	return "RuntimeInvisibleParameterAnnotations"
}

type TypeAnnotationsAttr struct {
	Visible     bool
	Annotations []TypeAnnotation
}

func (a *TypeAnnotationsAttr) Name() string {
	if a.Visible {
		return "RuntimeVisibleTypeAnnotations"
	}
	return "RuntimeInvisibleTypeAnnotations"
}

type AnnotationDefaultAttr struct {
	Value ElementValue
}

func (*AnnotationDefaultAttr) Name() string { return "AnnotationDefault" }

type Annotation struct {
	TypeIndex uint16
	Pairs     []ElementValuePair
}

type ElementValuePair struct {
	NameIndex uint16
	Value     ElementValue
}

// ElementValue is one annotation element value. Tag selects which fields are
// meaningful: primitive/string tags use ConstIndex, 'e' uses TypeNameIndex
// and ConstNameIndex, 'c' uses ClassIndex, '@' uses Annotation, '[' uses
// Values.
type ElementValue struct {
	Tag            byte
	ConstIndex     uint16
	TypeNameIndex  uint16
	ConstNameIndex uint16
	ClassIndex     uint16
	Annotation     *Annotation
	Values         []ElementValue
}

type TypeAnnotation struct {
	TargetType byte
	Target     TargetInfo
	Path       []TypePathEntry
	TypeIndex  uint16
	Pairs      []ElementValuePair
}

// TargetInfo holds the target_info union; TargetType on the enclosing
// TypeAnnotation decides which fields are set.
type TargetInfo struct {
	TypeParameterIndex   byte
	SupertypeIndex       uint16
	BoundIndex           byte
	FormalParameterIndex byte
	ThrowsTypeIndex      uint16
	LocalVars            []LocalVarTarget
	ExceptionTableIndex  uint16
	Offset               uint16
	TypeArgumentIndex    byte
}

type LocalVarTarget struct {
	StartPC uint16
	Length  uint16
	Index   uint16
}

type TypePathEntry struct {
	Kind          byte
	ArgumentIndex byte
}

type BootstrapMethodsAttr struct {
	Methods []BootstrapMethod
}

func (*BootstrapMethodsAttr) Name() string { return "BootstrapMethods" }

type BootstrapMethod struct {
	MethodRef uint16
	Arguments []uint16
}

type MethodParametersAttr struct {
	Parameters []MethodParameter
}

func (*MethodParametersAttr) Name() string { return "MethodParameters" }

type MethodParameter struct {
	NameIndex   uint16
	AccessFlags uint16
}

type ModuleAttr struct {
	NameIndex    uint16
	Flags        uint16
	VersionIndex uint16
	Requires     []ModuleRequire
	Exports      []ModuleExport
	Opens        []ModuleOpen
	Uses         []uint16
	Provides     []ModuleProvide
}

func (*ModuleAttr) Name() string { return "Module" }

type ModuleRequire struct {
	Index        uint16
	Flags        uint16
	VersionIndex uint16
}

type ModuleExport struct {
	Index uint16
	Flags uint16
	To    []uint16
}

type ModuleOpen struct {
	Index uint16
	Flags uint16
	To    []uint16
}

type ModuleProvide struct {
	Index uint16
	With  []uint16
}

type ModulePackagesAttr struct {
	Packages []uint16
}

func (*ModulePackagesAttr) Name() string { return "ModulePackages" }

type ModuleMainClassAttr struct {
	Index uint16
}

func (*ModuleMainClassAttr) Name() string { return "ModuleMainClass" }

type ModuleHashesAttr struct {
	AlgorithmIndex uint16
	Hashes         []ModuleHash
}

func (*ModuleHashesAttr) Name() string { return "ModuleHashes" }

type ModuleHash struct {
	ModuleNameIndex uint16
	Hash            []byte
}

type ModuleTargetAttr struct {
	PlatformIndex uint16
}

func (*ModuleTargetAttr) Name() string { return "ModuleTarget" }

type ModuleResolutionAttr struct {
	Flags uint16
}

func (*ModuleResolutionAttr) Name() string { return "ModuleResolution" }

type NestHostAttr struct {
	HostClassIndex uint16
}

func (*NestHostAttr) Name() string { return "NestHost" }

type NestMembersAttr struct {
	Classes []uint16
}

func (*NestMembersAttr) Name() string { return "NestMembers" }

// RecordAttr lists the components of a record class. Each component carries
// its own attribute list, decoded recursively.
type RecordAttr struct {
	Components []RecordComponent
}

func (*RecordAttr) Name() string { return "Record" }

type RecordComponent struct {
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []Attribute
}

type PermittedSubclassesAttr struct {
	Classes []uint16
}

func (*PermittedSubclassesAttr) Name() string { return "PermittedSubclasses" }

// UnknownAttr preserves an attribute whose name is not in the registry. Data
// is the exact payload, so a future consumer can still interpret it and a
// writer elsewhere can round-trip it byte for byte.
type UnknownAttr struct {
	AttrName string
	Data     []byte
}

func (u *UnknownAttr) Name() string { return u.AttrName }
