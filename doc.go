// Package classkit provides structural decoding of JVM class files.
//
// The library parses the binary class file format for every release from
// Java 8 through Java 27 into a fully typed tree: constant pool, fields,
// methods and the complete attribute set, including nested attributes such
// as Code and Record. It is built for instrumentation agents and tooling
// that must survive arbitrary, possibly hostile, class bytes: every read is
// bounds checked, parsing is allocation-bounded and recursion-capped, and
// malformed input produces a structured error rather than a panic.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	classkit/            Root package with the ClassObserver interface
//	├── classfile/       Class file structural decoder and constant pool
//	├── errors/          Structured error types with offsets and kinds
//	├── hook/            Class-load dispatch boundary with caching and stats
//	└── cmd/classinspect CLI and TUI class inspector
//
// # Quick Start
//
// Parse a class file and walk its methods:
//
//	cf, err := classfile.Parse(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	name, _ := cf.ClassName()
//	fmt.Println(name, cf.JavaVersion())
//
//	for i := range cf.Methods {
//	    m := &cf.Methods[i]
//	    mname, _ := m.Name(cf.ConstantPool)
//	    if code := m.Code(); code != nil {
//	        fmt.Printf("  %s: %d bytes of bytecode\n", mname, len(code.Code))
//	    }
//	}
//
// # Decoding Model
//
// Parse is structural: it records every constant pool index exactly as
// written and checks cross-references in a deferred pass, because some zero
// indices are legitimate depending on position (java/lang/Object has
// super_class 0). ParseValidate additionally resolves the remaining stored
// references. Unrecognized attributes are preserved byte-for-byte as
// UnknownAttr, which keeps the decoder forward compatible with future JDK
// releases.
//
// # Thread Safety
//
// A decoded ClassFile and its ConstantPool are immutable after Parse and
// safe for concurrent readers. hook.Hook is safe for concurrent use.
//
// # Memory Model
//
// Decoded trees alias the input buffer: Utf8 bytes, bytecode arrays and
// unknown attribute payloads are views into the data passed to Parse. The
// buffer must stay unmodified for the lifetime of the tree. This keeps a
// parse to a bounded number of small allocations even for large classes.
package classkit
