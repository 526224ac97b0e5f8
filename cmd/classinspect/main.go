package main

import (
	"archive/zip"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/probeum/classkit/classfile"
)

func main() {
	var (
		classPath   = flag.String("class", "", "Path to a .class file to inspect")
		jarPath     = flag.String("jar", "", "Path to a .jar archive to scan")
		depth       = flag.Int("depth", classfile.DefaultMaxDepth, "Attribute nesting cap")
		validate    = flag.Bool("validate", false, "Also resolve stored constant pool references")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *classPath == "" && *jarPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: classinspect -class <file.class> [-validate] [-depth n]")
		fmt.Fprintln(os.Stderr, "       classinspect -class <file.class> -i  (interactive mode)")
		fmt.Fprintln(os.Stderr, "       classinspect -jar <file.jar>  (parse every class, report totals)")
		os.Exit(1)
	}

	if *jarPath != "" {
		if err := scanJar(*jarPath, *depth, *validate); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *interactive && term.IsTerminal(int(os.Stdout.Fd())) {
		if err := runInteractive(*classPath, *depth); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := inspect(*classPath, *depth, *validate); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func inspect(path string, depth int, validate bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	cf, err := classfile.ParseDepth(data, depth)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if validate {
		if err := cf.Validate(); err != nil {
			return fmt.Errorf("validate: %w", err)
		}
	}

	name, _ := cf.ClassName()
	super, _ := cf.SuperClassName()

	fmt.Printf("Class: %s\n", name)
	fmt.Printf("Version: %d.%d (%s)\n", cf.MajorVersion, cf.MinorVersion, cf.JavaVersion())
	fmt.Printf("Flags: %s\n", classFlags(cf.AccessFlags))
	if super != "" {
		fmt.Printf("Super: %s\n", super)
	}
	for _, idx := range cf.Interfaces {
		if iname, err := cf.ConstantPool.ClassName(idx); err == nil {
			fmt.Printf("Implements: %s\n", iname)
		}
	}
	fmt.Printf("Constant pool: %d entries\n", cf.ConstantPool.Size())

	if len(cf.Fields) > 0 {
		fmt.Printf("\nFields (%d):\n", len(cf.Fields))
		for i := range cf.Fields {
			printMember(cf, &cf.Fields[i])
		}
	}
	if len(cf.Methods) > 0 {
		fmt.Printf("\nMethods (%d):\n", len(cf.Methods))
		for i := range cf.Methods {
			printMember(cf, &cf.Methods[i])
		}
	}
	if len(cf.Attributes) > 0 {
		fmt.Printf("\nClass attributes:\n")
		for _, a := range cf.Attributes {
			fmt.Printf("  %s\n", attrSummary(cf, a))
		}
	}
	return nil
}

func printMember(cf *classfile.ClassFile, m *classfile.Member) {
	name, _ := m.Name(cf.ConstantPool)
	desc, _ := m.Descriptor(cf.ConstantPool)
	fmt.Printf("  %s %s\n", name, desc)
	if code := m.Code(); code != nil {
		fmt.Printf("    Code: %d bytes, max_stack=%d, max_locals=%d, handlers=%d\n",
			len(code.Code), code.MaxStack, code.MaxLocals, len(code.ExceptionTable))
	}
	for _, a := range m.Attributes {
		if _, ok := a.(*classfile.CodeAttr); ok {
			continue
		}
		fmt.Printf("    %s\n", attrSummary(cf, a))
	}
}

func attrSummary(cf *classfile.ClassFile, a classfile.Attribute) string {
	switch v := a.(type) {
	case *classfile.SourceFileAttr:
		if s, err := cf.ConstantPool.Utf8(v.Index); err == nil {
			return "SourceFile: " + s
		}
	case *classfile.SignatureAttr:
		if s, err := cf.ConstantPool.Utf8(v.Index); err == nil {
			return "Signature: " + s
		}
	case *classfile.ExceptionsAttr:
		names := make([]string, 0, len(v.Classes))
		for _, idx := range v.Classes {
			if s, err := cf.ConstantPool.ClassName(idx); err == nil {
				names = append(names, s)
			}
		}
		return "Exceptions: " + strings.Join(names, ", ")
	case *classfile.InnerClassesAttr:
		return fmt.Sprintf("InnerClasses: %d entries", len(v.Classes))
	case *classfile.BootstrapMethodsAttr:
		return fmt.Sprintf("BootstrapMethods: %d entries", len(v.Methods))
	case *classfile.RecordAttr:
		return fmt.Sprintf("Record: %d components", len(v.Components))
	case *classfile.NestMembersAttr:
		return fmt.Sprintf("NestMembers: %d classes", len(v.Classes))
	case *classfile.UnknownAttr:
		return fmt.Sprintf("%s (unknown): %d bytes", v.Name(), len(v.Data))
	}
	return a.Name()
}

// scanJar parses every .class entry in the archive and reports totals. It
// never stops on a bad class: broken entries are counted and listed.
func scanJar(path string, depth int, validate bool) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("open jar: %w", err)
	}
	defer zr.Close()

	var (
		ok, failed int
		totalBytes int64
		start      = time.Now()
	)
	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, ".class") {
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f.Name, err)
		}
		totalBytes += int64(len(data))

		cf, err := classfile.ParseDepth(data, depth)
		if err == nil && validate {
			err = cf.Validate()
		}
		if err != nil {
			failed++
			fmt.Printf("FAIL %s: %v\n", f.Name, err)
			continue
		}
		ok++
	}
	elapsed := time.Since(start)

	fmt.Printf("\nScanned %s\n", path)
	fmt.Printf("Classes: %d ok, %d failed\n", ok, failed)
	fmt.Printf("Bytes: %d\n", totalBytes)
	fmt.Printf("Time: %s", elapsed)
	if n := ok + failed; n > 0 {
		fmt.Printf(" (%s/class)", elapsed/time.Duration(n))
	}
	fmt.Println()

	if failed > 0 {
		return fmt.Errorf("%d classes failed to parse", failed)
	}
	return nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

var classFlagNames = []struct {
	flag uint16
	name string
}{
	{classfile.AccPublic, "public"},
	{classfile.AccFinal, "final"},
	{classfile.AccSuper, "super"},
	{classfile.AccInterface, "interface"},
	{classfile.AccAbstract, "abstract"},
	{classfile.AccSynthetic, "synthetic"},
	{classfile.AccAnnotation, "annotation"},
	{classfile.AccEnum, "enum"},
	{classfile.AccModule, "module"},
}

func classFlags(flags uint16) string {
	var names []string
	for _, f := range classFlagNames {
		if flags&f.flag != 0 {
			names = append(names, f.name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("0x%04X", flags)
	}
	return fmt.Sprintf("%s (0x%04X)", strings.Join(names, " "), flags)
}
