package classfile

import (
	"math"

	"github.com/probeum/classkit/classfile/internal/bigend"
	"github.com/probeum/classkit/errors"
)

// Parse decodes a class file from data with the default nesting limit.
//
// The parse is atomic: it returns either a complete tree or an error, never a
// partial result. Decoded Utf8 bytes, bytecode arrays and unknown-attribute
// payloads are views into data, which must stay unmodified while the tree is
// in use.
func Parse(data []byte) (*ClassFile, error) {
	return ParseDepth(data, DefaultMaxDepth)
}

// ParseDepth is Parse with an explicit cap on attribute and annotation
// nesting depth.
func ParseDepth(data []byte, maxDepth int) (*ClassFile, error) {
	r := bigend.NewReader(data)
	d := &decoder{maxDepth: maxDepth}

	magic, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, errors.NotAClassFile(magic)
	}

	cf := &ClassFile{}
	if cf.MinorVersion, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if cf.MajorVersion, err = r.ReadU16(); err != nil {
		return nil, err
	}

	if cf.ConstantPool, err = parseConstantPool(r); err != nil {
		return nil, err
	}
	d.cp = cf.ConstantPool

	if cf.AccessFlags, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if cf.ThisClass, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if cf.SuperClass, err = r.ReadU16(); err != nil {
		return nil, err
	}

	ifaceCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	cf.Interfaces = make([]uint16, ifaceCount)
	for i := range cf.Interfaces {
		if cf.Interfaces[i], err = r.ReadU16(); err != nil {
			return nil, err
		}
	}

	if cf.Fields, err = d.parseMembers(r); err != nil {
		return nil, err
	}
	if cf.Methods, err = d.parseMembers(r); err != nil {
		return nil, err
	}
	if cf.Attributes, err = d.parseAttributes(r, 0); err != nil {
		return nil, err
	}

	// A well-formed class file has no trailer.
	if r.Remaining() != 0 {
		return nil, errors.TrailingData(r.Offset(), r.Remaining())
	}

	// Deferred reference checks. These run after the pool and tree are
	// complete because index 0 is legal in some positions (super_class of
	// java/lang/Object) and the position decides.
	if err := cf.validateClassRefs(); err != nil {
		return nil, err
	}
	if err := cf.validateInterfaces(); err != nil {
		return nil, err
	}
	if err := cf.validateMemberNames(cf.Fields); err != nil {
		return nil, err
	}
	if err := cf.validateMemberNames(cf.Methods); err != nil {
		return nil, err
	}

	return cf, nil
}

// decoder carries the state one parse needs: the pool for attribute name
// resolution and the nesting cap. A decoder is used for exactly one input.
type decoder struct {
	cp       *ConstantPool
	maxDepth int
}

func parseConstantPool(r *bigend.Reader) (*ConstantPool, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}

	// Slot 0 is implicit and invalid; long/double tails get a placeholder.
	entries := make([]Const, count)
	for i := 1; i < int(count); i++ {
		tagOffset := r.Offset()
		tag, err := r.ReadU8()
		if err != nil {
			return nil, err
		}

		switch tag {
		case TagUtf8:
			n, err := r.ReadU16()
			if err != nil {
				return nil, err
			}
			raw, err := r.ReadBytes(int(n))
			if err != nil {
				return nil, err
			}
			entries[i] = &ConstUtf8{Raw: raw}

		case TagInteger:
			v, err := r.ReadU32()
			if err != nil {
				return nil, err
			}
			entries[i] = &ConstInteger{Value: int32(v)}

		case TagFloat:
			v, err := r.ReadU32()
			if err != nil {
				return nil, err
			}
			entries[i] = &ConstFloat{Value: math.Float32frombits(v)}

		case TagLong, TagDouble:
			v, err := r.ReadU64()
			if err != nil {
				return nil, err
			}
			if tag == TagLong {
				entries[i] = &ConstLong{Value: int64(v)}
			} else {
				entries[i] = &ConstDouble{Value: math.Float64frombits(v)}
			}
			// The second slot exists but can never be referenced.
			i++
			if i >= int(count) {
				return nil, errors.InvalidData("", "long or double entry in last constant pool slot", tagOffset)
			}
			entries[i] = placeholder

		case TagClass:
			e := &ConstClass{}
			if e.NameIndex, err = r.ReadU16(); err != nil {
				return nil, err
			}
			entries[i] = e

		case TagString:
			e := &ConstString{}
			if e.StringIndex, err = r.ReadU16(); err != nil {
				return nil, err
			}
			entries[i] = e

		case TagFieldref, TagMethodref, TagInterfaceMethodref:
			classIdx, err := r.ReadU16()
			if err != nil {
				return nil, err
			}
			natIdx, err := r.ReadU16()
			if err != nil {
				return nil, err
			}
			switch tag {
			case TagFieldref:
				entries[i] = &ConstFieldref{ClassIndex: classIdx, NameAndTypeIndex: natIdx}
			case TagMethodref:
				entries[i] = &ConstMethodref{ClassIndex: classIdx, NameAndTypeIndex: natIdx}
			default:
				entries[i] = &ConstInterfaceMethodref{ClassIndex: classIdx, NameAndTypeIndex: natIdx}
			}

		case TagNameAndType:
			e := &ConstNameAndType{}
			if e.NameIndex, err = r.ReadU16(); err != nil {
				return nil, err
			}
			if e.DescriptorIndex, err = r.ReadU16(); err != nil {
				return nil, err
			}
			entries[i] = e

		case TagMethodHandle:
			e := &ConstMethodHandle{}
			if e.ReferenceKind, err = r.ReadU8(); err != nil {
				return nil, err
			}
			if e.ReferenceIndex, err = r.ReadU16(); err != nil {
				return nil, err
			}
			entries[i] = e

		case TagMethodType:
			e := &ConstMethodType{}
			if e.DescriptorIndex, err = r.ReadU16(); err != nil {
				return nil, err
			}
			entries[i] = e

		case TagDynamic, TagInvokeDynamic:
			bsmIdx, err := r.ReadU16()
			if err != nil {
				return nil, err
			}
			natIdx, err := r.ReadU16()
			if err != nil {
				return nil, err
			}
			if tag == TagDynamic {
				entries[i] = &ConstDynamic{BootstrapMethodAttrIndex: bsmIdx, NameAndTypeIndex: natIdx}
			} else {
				entries[i] = &ConstInvokeDynamic{BootstrapMethodAttrIndex: bsmIdx, NameAndTypeIndex: natIdx}
			}

		case TagModule:
			e := &ConstModule{}
			if e.NameIndex, err = r.ReadU16(); err != nil {
				return nil, err
			}
			entries[i] = e

		case TagPackage:
			e := &ConstPackage{}
			if e.NameIndex, err = r.ReadU16(); err != nil {
				return nil, err
			}
			entries[i] = e

		default:
			return nil, errors.InvalidConstantTag(tag, tagOffset)
		}
	}

	return &ConstantPool{entries: entries}, nil
}

func (d *decoder) parseMembers(r *bigend.Reader) ([]Member, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	members := make([]Member, count)
	for i := range members {
		m := &members[i]
		if m.AccessFlags, err = r.ReadU16(); err != nil {
			return nil, err
		}
		if m.NameIndex, err = r.ReadU16(); err != nil {
			return nil, err
		}
		if m.DescriptorIndex, err = r.ReadU16(); err != nil {
			return nil, err
		}
		if m.Attributes, err = d.parseAttributes(r, 0); err != nil {
			return nil, err
		}
	}
	return members, nil
}

// parseAttributes reads an attribute_count-prefixed attribute list. Each
// attribute body is decoded from a sub-reader scoped to exactly its declared
// length; consuming more or fewer bytes than declared fails the parse rather
// than resynchronizing, since a mis-sized length would otherwise shift the
// interpretation of everything that follows.
func (d *decoder) parseAttributes(r *bigend.Reader, depth int) ([]Attribute, error) {
	if depth > d.maxDepth {
		return nil, errors.NestingTooDeep(depth, d.maxDepth, r.Offset())
	}

	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	attrs := make([]Attribute, 0, count)
	for i := 0; i < int(count); i++ {
		nameIndex, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		length, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		name, err := d.cp.Utf8(nameIndex)
		if err != nil {
			return nil, err
		}

		bodyOffset := r.Offset()
		body, err := r.ReadBytes(int(length))
		if err != nil {
			return nil, err
		}
		sub := bigend.NewReaderAt(body, bodyOffset)

		attr, err := d.decodeAttribute(name, sub, depth)
		if err != nil {
			// A truncated body inside the scoped reader means the declared
			// length was too small for the structure it frames.
			if errors.IsKind(err, errors.KindUnexpectedEOF) {
				lm := errors.LengthMismatch(name, int(length), sub.Position(), bodyOffset)
				lm.Cause = err
				return nil, lm
			}
			return nil, err
		}
		if sub.Remaining() != 0 {
			return nil, errors.LengthMismatch(name, int(length), sub.Position(), bodyOffset)
		}

		attrs = append(attrs, attr)
	}
	return attrs, nil
}

// decodeAttribute is the registry: exact name match selects the decode
// routine, anything else is preserved as Unknown. Recognition never depends
// on the class file version, which is what keeps the decoder forward
// compatible with attribute kinds introduced by later JDKs.
func (d *decoder) decodeAttribute(name string, r *bigend.Reader, depth int) (Attribute, error) {
	switch name {
	case "ConstantValue":
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return &ConstantValueAttr{Index: idx}, nil

	case "Code":
		return d.parseCode(r, depth)

	case "StackMapTable":
		return parseStackMapTable(r)

	case "Exceptions":
		classes, err := readIndexTable(r)
		if err != nil {
			return nil, err
		}
		return &ExceptionsAttr{Classes: classes}, nil

	case "InnerClasses":
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		classes := make([]InnerClass, n)
		for i := range classes {
			c := &classes[i]
			if err := readU16s(r, &c.InnerClassIndex, &c.OuterClassIndex, &c.InnerNameIndex, &c.AccessFlags); err != nil {
				return nil, err
			}
		}
		return &InnerClassesAttr{Classes: classes}, nil

	case "EnclosingMethod":
		a := &EnclosingMethodAttr{}
		if err := readU16s(r, &a.ClassIndex, &a.MethodIndex); err != nil {
			return nil, err
		}
		return a, nil

	case "Synthetic":
		return &SyntheticAttr{}, nil

	case "Signature":
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return &SignatureAttr{Index: idx}, nil

	case "SourceFile":
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return &SourceFileAttr{Index: idx}, nil

	case "SourceDebugExtension":
		data, err := r.ReadBytes(r.Remaining())
		if err != nil {
			return nil, err
		}
		return &SourceDebugExtensionAttr{Data: data}, nil

	case "LineNumberTable":
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		entries := make([]LineNumber, n)
		for i := range entries {
			e := &entries[i]
			if err := readU16s(r, &e.StartPC, &e.Line); err != nil {
				return nil, err
			}
		}
		return &LineNumberTableAttr{Entries: entries}, nil

	case "LocalVariableTable":
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		entries := make([]LocalVariable, n)
		for i := range entries {
			e := &entries[i]
			if err := readU16s(r, &e.StartPC, &e.Length, &e.NameIndex, &e.DescriptorIndex, &e.Index); err != nil {
				return nil, err
			}
		}
		return &LocalVariableTableAttr{Entries: entries}, nil

	case "LocalVariableTypeTable":
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		entries := make([]LocalVariableType, n)
		for i := range entries {
			e := &entries[i]
			if err := readU16s(r, &e.StartPC, &e.Length, &e.NameIndex, &e.SignatureIndex, &e.Index); err != nil {
				return nil, err
			}
		}
		return &LocalVariableTypeTableAttr{Entries: entries}, nil

	case "Deprecated":
		return &DeprecatedAttr{}, nil

	case "RuntimeVisibleAnnotations", "RuntimeInvisibleAnnotations":
		anns, err := d.parseAnnotations(r, depth)
		if err != nil {
			return nil, err
		}
		return &AnnotationsAttr{Visible: name == "RuntimeVisibleAnnotations", Annotations: anns}, nil

	case "RuntimeVisibleParameterAnnotations", "RuntimeInvisibleParameterAnnotations":
		numParams, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		params := make([][]Annotation, numParams)
		for i := range params {
			anns, err := d.parseAnnotations(r, depth)
			if err != nil {
				return nil, err
			}
			params[i] = anns
		}
		return &ParameterAnnotationsAttr{Visible: name == "RuntimeVisibleParameterAnnotations", Parameters: params}, nil

	case "RuntimeVisibleTypeAnnotations", "RuntimeInvisibleTypeAnnotations":
		anns, err := d.parseTypeAnnotations(r, depth)
		if err != nil {
			return nil, err
		}
		return &TypeAnnotationsAttr{Visible: name == "RuntimeVisibleTypeAnnotations", Annotations: anns}, nil

	case "AnnotationDefault":
		v, err := d.parseElementValue(r, depth)
		if err != nil {
			return nil, err
		}
		return &AnnotationDefaultAttr{Value: v}, nil

	case "BootstrapMethods":
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		methods := make([]BootstrapMethod, n)
		for i := range methods {
			ref, err := r.ReadU16()
			if err != nil {
				return nil, err
			}
			args, err := readIndexTable(r)
			if err != nil {
				return nil, err
			}
			methods[i] = BootstrapMethod{MethodRef: ref, Arguments: args}
		}
		return &BootstrapMethodsAttr{Methods: methods}, nil

	case "MethodParameters":
		n, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		params := make([]MethodParameter, n)
		for i := range params {
			p := &params[i]
			if err := readU16s(r, &p.NameIndex, &p.AccessFlags); err != nil {
				return nil, err
			}
		}
		return &MethodParametersAttr{Parameters: params}, nil

	case "Module":
		return parseModule(r)

	case "ModulePackages":
		pkgs, err := readIndexTable(r)
		if err != nil {
			return nil, err
		}
		return &ModulePackagesAttr{Packages: pkgs}, nil

	case "ModuleMainClass":
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return &ModuleMainClassAttr{Index: idx}, nil

	case "ModuleHashes":
		algo, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		hashes := make([]ModuleHash, n)
		for i := range hashes {
			nameIdx, err := r.ReadU16()
			if err != nil {
				return nil, err
			}
			hashLen, err := r.ReadU16()
			if err != nil {
				return nil, err
			}
			hash, err := r.ReadBytes(int(hashLen))
			if err != nil {
				return nil, err
			}
			hashes[i] = ModuleHash{ModuleNameIndex: nameIdx, Hash: hash}
		}
		return &ModuleHashesAttr{AlgorithmIndex: algo, Hashes: hashes}, nil

	case "ModuleTarget":
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return &ModuleTargetAttr{PlatformIndex: idx}, nil

	case "ModuleResolution":
		flags, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return &ModuleResolutionAttr{Flags: flags}, nil

	case "NestHost":
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return &NestHostAttr{HostClassIndex: idx}, nil

	case "NestMembers":
		classes, err := readIndexTable(r)
		if err != nil {
			return nil, err
		}
		return &NestMembersAttr{Classes: classes}, nil

	case "Record":
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		components := make([]RecordComponent, n)
		for i := range components {
			c := &components[i]
			if err := readU16s(r, &c.NameIndex, &c.DescriptorIndex); err != nil {
				return nil, err
			}
			if c.Attributes, err = d.parseAttributes(r, depth+1); err != nil {
				return nil, err
			}
		}
		return &RecordAttr{Components: components}, nil

	case "PermittedSubclasses":
		classes, err := readIndexTable(r)
		if err != nil {
			return nil, err
		}
		return &PermittedSubclassesAttr{Classes: classes}, nil

	default:
		data, err := r.ReadBytes(r.Remaining())
		if err != nil {
			return nil, err
		}
		return &UnknownAttr{AttrName: name, Data: data}, nil
	}
}

func (d *decoder) parseCode(r *bigend.Reader, depth int) (*CodeAttr, error) {
	a := &CodeAttr{}
	var err error
	if a.MaxStack, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if a.MaxLocals, err = r.ReadU16(); err != nil {
		return nil, err
	}

	codeLen, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if a.Code, err = r.ReadBytes(int(codeLen)); err != nil {
		return nil, err
	}

	handlerCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	a.ExceptionTable = make([]ExceptionHandler, handlerCount)
	for i := range a.ExceptionTable {
		h := &a.ExceptionTable[i]
		if err := readU16s(r, &h.StartPC, &h.EndPC, &h.HandlerPC, &h.CatchType); err != nil {
			return nil, err
		}
	}

	if a.Attributes, err = d.parseAttributes(r, depth+1); err != nil {
		return nil, err
	}
	return a, nil
}

func parseStackMapTable(r *bigend.Reader) (*StackMapTableAttr, error) {
	n, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	frames := make([]StackMapFrame, n)
	for i := range frames {
		f := &frames[i]
		frameOffset := r.Offset()
		if f.Type, err = r.ReadU8(); err != nil {
			return nil, err
		}

		switch {
		case f.Type <= 63: // same_frame
			f.OffsetDelta = uint16(f.Type)

		case f.Type <= 127: // same_locals_1_stack_item_frame
			f.OffsetDelta = uint16(f.Type - 64)
			if f.Stack, err = readVerificationTypes(r, 1); err != nil {
				return nil, err
			}

		case f.Type == 247: // same_locals_1_stack_item_frame_extended
			if f.OffsetDelta, err = r.ReadU16(); err != nil {
				return nil, err
			}
			if f.Stack, err = readVerificationTypes(r, 1); err != nil {
				return nil, err
			}

		case f.Type >= 248 && f.Type <= 251: // chop_frame, same_frame_extended
			if f.OffsetDelta, err = r.ReadU16(); err != nil {
				return nil, err
			}

		case f.Type >= 252 && f.Type <= 254: // append_frame
			if f.OffsetDelta, err = r.ReadU16(); err != nil {
				return nil, err
			}
			if f.Locals, err = readVerificationTypes(r, int(f.Type-251)); err != nil {
				return nil, err
			}

		case f.Type == 255: // full_frame
			if f.OffsetDelta, err = r.ReadU16(); err != nil {
				return nil, err
			}
			numLocals, err := r.ReadU16()
			if err != nil {
				return nil, err
			}
			if f.Locals, err = readVerificationTypes(r, int(numLocals)); err != nil {
				return nil, err
			}
			numStack, err := r.ReadU16()
			if err != nil {
				return nil, err
			}
			if f.Stack, err = readVerificationTypes(r, int(numStack)); err != nil {
				return nil, err
			}

		default: // 128..246 are reserved
			return nil, errors.InvalidData("StackMapTable", "reserved frame type", frameOffset)
		}
	}
	return &StackMapTableAttr{Frames: frames}, nil
}

func readVerificationTypes(r *bigend.Reader, n int) ([]VerificationType, error) {
	types := make([]VerificationType, n)
	for i := range types {
		t := &types[i]
		tagOffset := r.Offset()
		tag, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		if tag > VerUninitialized {
			return nil, errors.InvalidData("StackMapTable", "invalid verification type tag", tagOffset)
		}
		t.Tag = tag
		if tag == VerObject || tag == VerUninitialized {
			if t.Index, err = r.ReadU16(); err != nil {
				return nil, err
			}
		}
	}
	return types, nil
}

func (d *decoder) parseAnnotations(r *bigend.Reader, depth int) ([]Annotation, error) {
	n, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	anns := make([]Annotation, n)
	for i := range anns {
		if anns[i], err = d.parseAnnotation(r, depth); err != nil {
			return nil, err
		}
	}
	return anns, nil
}

func (d *decoder) parseAnnotation(r *bigend.Reader, depth int) (Annotation, error) {
	var a Annotation
	var err error
	if a.TypeIndex, err = r.ReadU16(); err != nil {
		return a, err
	}
	numPairs, err := r.ReadU16()
	if err != nil {
		return a, err
	}
	a.Pairs = make([]ElementValuePair, numPairs)
	for i := range a.Pairs {
		p := &a.Pairs[i]
		if p.NameIndex, err = r.ReadU16(); err != nil {
			return a, err
		}
		if p.Value, err = d.parseElementValue(r, depth); err != nil {
			return a, err
		}
	}
	return a, nil
}

// parseElementValue decodes one element_value. Values nest through '@' and
// '[' tags, so the same depth cap that guards attribute recursion applies
// here too.
func (d *decoder) parseElementValue(r *bigend.Reader, depth int) (ElementValue, error) {
	var v ElementValue
	if depth > d.maxDepth {
		return v, errors.NestingTooDeep(depth, d.maxDepth, r.Offset())
	}

	tagOffset := r.Offset()
	tag, err := r.ReadU8()
	if err != nil {
		return v, err
	}
	v.Tag = tag

	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's':
		if v.ConstIndex, err = r.ReadU16(); err != nil {
			return v, err
		}

	case 'e':
		if err := readU16s(r, &v.TypeNameIndex, &v.ConstNameIndex); err != nil {
			return v, err
		}

	case 'c':
		if v.ClassIndex, err = r.ReadU16(); err != nil {
			return v, err
		}

	case '@':
		a, err := d.parseAnnotation(r, depth+1)
		if err != nil {
			return v, err
		}
		v.Annotation = &a

	case '[':
		n, err := r.ReadU16()
		if err != nil {
			return v, err
		}
		v.Values = make([]ElementValue, n)
		for i := range v.Values {
			if v.Values[i], err = d.parseElementValue(r, depth+1); err != nil {
				return v, err
			}
		}

	default:
		return v, errors.InvalidData("annotation", "invalid element value tag", tagOffset)
	}

	return v, nil
}

func (d *decoder) parseTypeAnnotations(r *bigend.Reader, depth int) ([]TypeAnnotation, error) {
	n, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	anns := make([]TypeAnnotation, n)
	for i := range anns {
		a := &anns[i]
		if a.TargetType, err = r.ReadU8(); err != nil {
			return nil, err
		}
		if a.Target, err = parseTargetInfo(r, a.TargetType); err != nil {
			return nil, err
		}

		pathLen, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		a.Path = make([]TypePathEntry, pathLen)
		for j := range a.Path {
			p := &a.Path[j]
			if p.Kind, err = r.ReadU8(); err != nil {
				return nil, err
			}
			if p.ArgumentIndex, err = r.ReadU8(); err != nil {
				return nil, err
			}
		}

		if a.TypeIndex, err = r.ReadU16(); err != nil {
			return nil, err
		}
		numPairs, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		a.Pairs = make([]ElementValuePair, numPairs)
		for j := range a.Pairs {
			p := &a.Pairs[j]
			if p.NameIndex, err = r.ReadU16(); err != nil {
				return nil, err
			}
			if p.Value, err = d.parseElementValue(r, depth); err != nil {
				return nil, err
			}
		}
	}
	return anns, nil
}

func parseTargetInfo(r *bigend.Reader, targetType byte) (TargetInfo, error) {
	var t TargetInfo
	var err error

	switch targetType {
	case 0x00, 0x01:
		t.TypeParameterIndex, err = r.ReadU8()
	case 0x10:
		t.SupertypeIndex, err = r.ReadU16()
	case 0x11, 0x12:
		if t.TypeParameterIndex, err = r.ReadU8(); err != nil {
			return t, err
		}
		t.BoundIndex, err = r.ReadU8()
	case 0x13, 0x14, 0x15:
		// empty_target
	case 0x16:
		t.FormalParameterIndex, err = r.ReadU8()
	case 0x17:
		t.ThrowsTypeIndex, err = r.ReadU16()
	case 0x40, 0x41:
		n, err := r.ReadU16()
		if err != nil {
			return t, err
		}
		t.LocalVars = make([]LocalVarTarget, n)
		for i := range t.LocalVars {
			v := &t.LocalVars[i]
			if err := readU16s(r, &v.StartPC, &v.Length, &v.Index); err != nil {
				return t, err
			}
		}
	case 0x42:
		t.ExceptionTableIndex, err = r.ReadU16()
	case 0x43, 0x44, 0x45, 0x46:
		t.Offset, err = r.ReadU16()
	case 0x47, 0x48, 0x49, 0x4A, 0x4B:
		if t.Offset, err = r.ReadU16(); err != nil {
			return t, err
		}
		t.TypeArgumentIndex, err = r.ReadU8()
	default:
		return t, errors.InvalidData("type_annotation", "invalid target type", r.Offset())
	}

	return t, err
}

func parseModule(r *bigend.Reader) (*ModuleAttr, error) {
	a := &ModuleAttr{}
	if err := readU16s(r, &a.NameIndex, &a.Flags, &a.VersionIndex); err != nil {
		return nil, err
	}

	requiresCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	a.Requires = make([]ModuleRequire, requiresCount)
	for i := range a.Requires {
		req := &a.Requires[i]
		if err := readU16s(r, &req.Index, &req.Flags, &req.VersionIndex); err != nil {
			return nil, err
		}
	}

	exportsCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	a.Exports = make([]ModuleExport, exportsCount)
	for i := range a.Exports {
		exp := &a.Exports[i]
		if err := readU16s(r, &exp.Index, &exp.Flags); err != nil {
			return nil, err
		}
		if exp.To, err = readIndexTable(r); err != nil {
			return nil, err
		}
	}

	opensCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	a.Opens = make([]ModuleOpen, opensCount)
	for i := range a.Opens {
		op := &a.Opens[i]
		if err := readU16s(r, &op.Index, &op.Flags); err != nil {
			return nil, err
		}
		if op.To, err = readIndexTable(r); err != nil {
			return nil, err
		}
	}

	if a.Uses, err = readIndexTable(r); err != nil {
		return nil, err
	}

	providesCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	a.Provides = make([]ModuleProvide, providesCount)
	for i := range a.Provides {
		p := &a.Provides[i]
		if p.Index, err = r.ReadU16(); err != nil {
			return nil, err
		}
		if p.With, err = readIndexTable(r); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// readIndexTable reads a u16 count followed by that many u16 pool indices.
func readIndexTable(r *bigend.Reader) ([]uint16, error) {
	n, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	out := make([]uint16, n)
	for i := range out {
		if out[i], err = r.ReadU16(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// readU16s fills each destination in order, stopping at the first error.
func readU16s(r *bigend.Reader, dst ...*uint16) error {
	for _, d := range dst {
		v, err := r.ReadU16()
		if err != nil {
			return err
		}
		*d = v
	}
	return nil
}
