package classfile

// Magic is the class file magic number. Every class file starts with these
// four bytes in big-endian order.
const Magic uint32 = 0xCAFEBABE

// Constant pool tags define the binary identifiers for each entry kind.
// Long and Double entries occupy two consecutive pool slots; the second slot
// is unaddressable.
const (
	TagUtf8               byte = 1
	TagInteger            byte = 3
	TagFloat              byte = 4
	TagLong               byte = 5
	TagDouble             byte = 6
	TagClass              byte = 7
	TagString             byte = 8
	TagFieldref           byte = 9
	TagMethodref          byte = 10
	TagInterfaceMethodref byte = 11
	TagNameAndType        byte = 12
	TagMethodHandle       byte = 15
	TagMethodType         byte = 16
	TagDynamic            byte = 17
	TagInvokeDynamic      byte = 18
	TagModule             byte = 19
	TagPackage            byte = 20
)

// Access flags for classes, members and parameters. Only the flags the
// toolkit inspects are named; flag words are preserved verbatim either way.
const (
	AccPublic     uint16 = 0x0001
	AccPrivate    uint16 = 0x0002
	AccProtected  uint16 = 0x0004
	AccStatic     uint16 = 0x0008
	AccFinal      uint16 = 0x0010
	AccSuper      uint16 = 0x0020
	AccVolatile   uint16 = 0x0040
	AccTransient  uint16 = 0x0080
	AccNative     uint16 = 0x0100
	AccInterface  uint16 = 0x0200
	AccAbstract   uint16 = 0x0400
	AccSynthetic  uint16 = 0x1000
	AccAnnotation uint16 = 0x2000
	AccEnum       uint16 = 0x4000
	AccModule     uint16 = 0x8000
)

// Verification type tags used in StackMapTable frames.
const (
	VerTop               byte = 0
	VerInteger           byte = 1
	VerFloat             byte = 2
	VerDouble            byte = 3
	VerLong              byte = 4
	VerNull              byte = 5
	VerUninitializedThis byte = 6
	VerObject            byte = 7 // carries a constant pool index
	VerUninitialized     byte = 8 // carries a bytecode offset
)

// Stack map frame kinds, derived from the raw frame_type byte.
const (
	FrameSame byte = iota
	FrameSameLocals1StackItem
	FrameSameLocals1StackItemExtended
	FrameChop
	FrameSameExtended
	FrameAppend
	FrameFull
)

// DefaultMaxDepth bounds attribute and element value nesting during a parse.
// The format itself has no limit, so a cap is required to keep adversarial
// input from exhausting the stack.
const DefaultMaxDepth = 64

// firstSupportedMajor is the major version of Java 1.0 class files.
// Versions are never rejected: attribute recognition does not depend on the
// declared version, so files from future JDK releases still decode, with
// unrecognized attributes preserved as Unknown.
const firstSupportedMajor = 45
