// Package classfile provides structural decoding of JVM class files.
//
// The decoder turns a raw byte slice in the class file binary format into a
// fully typed tree, covering constant pool revisions and attributes from
// Java 8 through Java 27. It is a pure function of its input: no I/O, no
// shared state, and concurrent parses of independent buffers are fully
// independent.
//
// # Parsing
//
//	data, _ := os.ReadFile("Example.class")
//	cf, err := classfile.Parse(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	name, _ := cf.ClassName()
//
// Parse with deferred pool-reference validation of attribute contents:
//
//	cf, err := classfile.ParseValidate(data)
//
// # Attributes
//
// Every attribute defined through Java 27 decodes to a concrete type
// (*CodeAttr, *RecordAttr, *StackMapTableAttr, ...); unrecognized names are
// preserved verbatim as *UnknownAttr so future JDK releases decode without
// code changes here. Attribute lists nest (Code and Record carry their own),
// and every level enforces the declared attribute_length exactly: an
// attribute whose decode consumes more or fewer bytes than declared fails
// the whole parse.
//
// # Hardened against hostile input
//
// Class bytes may arrive from a live class-load hook on an untrusted source.
// All buffer access is bounds checked, truncation at any byte yields a
// structured unexpected_eof error, and attribute nesting is capped (see
// DefaultMaxDepth) so adversarial recursion cannot exhaust the stack. A
// failed parse returns a single structured error from the errors package,
// never a partial tree and never a panic.
//
// # Constant pool
//
// The pool is 1-based; Long and Double entries occupy two slots and the
// second is unaddressable. Utf8 entries hold raw modified-UTF-8 bytes that
// alias the input buffer and decode to text lazily, so malformed text only
// surfaces for strings a consumer actually reads. The input buffer must
// therefore remain valid and unmodified while the tree is in use.
package classfile
