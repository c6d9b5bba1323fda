package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/jacoelho/xmlpipe"
	pipeerrors "github.com/jacoelho/xmlpipe/errors"
	"github.com/jacoelho/xmlpipe/pkg/event"
)

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Stdout, os.Stderr)
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("xmlpipe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	events := fs.Bool("events", false, "print the event trace instead of XML")
	comments := fs.Bool("comments", false, "keep comments")
	pis := fs.Bool("pi", false, "keep processing instructions")
	cpuProfilePath := fs.String("cpuprofile", "", "write CPU profile to file")
	memProfilePath := fs.String("memprofile", "", "write memory profile to file")
	var usageErr error
	fs.Usage = func() {
		usageErr = errors.Join(
			usageErr,
			writef(stderr, "Usage: %s [flags] [document.xml]\n\n", os.Args[0]),
			writeln(stderr, "Runs an XML document through the normalize and namespace"),
			writeln(stderr, "fixup pipeline, reading stdin when no file is given."),
			writeln(stderr),
			writeln(stderr, "Options:"),
		)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		if err := writeln(stderr, "error: at most one XML file argument is allowed"); err != nil {
			return 1
		}
		fs.Usage()
		if usageErr != nil {
			return 1
		}
		return 2
	}

	if *cpuProfilePath != "" {
		stopCPUProfile, err := startCPUProfile(*cpuProfilePath)
		if err != nil {
			if writeErr := writef(stderr, "error starting CPU profile: %v\n", err); writeErr != nil {
				return 1
			}
			return 1
		}
		defer func() {
			if err := stopCPUProfile(); err != nil {
				_ = writef(stderr, "error stopping CPU profile: %v\n", err)
			}
		}()
	}

	if *memProfilePath != "" {
		defer func() {
			if err := writeMemProfile(*memProfilePath); err != nil {
				_ = writef(stderr, "error writing memory profile: %v\n", err)
			}
		}()
	}

	input := io.Reader(os.Stdin)
	source := "stdin"
	if len(remaining) == 1 {
		source = remaining[0]
		f, err := os.Open(source)
		if err != nil {
			if writeErr := writef(stderr, "error opening %s: %v\n", source, err); writeErr != nil {
				return 1
			}
			return 1
		}
		defer func() {
			_ = f.Close()
		}()
		input = f
	}

	session := xmlpipe.NewSession()
	opts := []xmlpipe.ReadOption{
		xmlpipe.WithComments(*comments),
		xmlpipe.WithProcessingInstructions(*pis),
	}
	var err error
	if *events {
		err = printEvents(stdout, session, session.Normalize(session.ReadXML(input, opts...)))
	} else {
		err = session.WriteXML(stdout, session.ReadXML(input, opts...))
		if err == nil {
			err = writeln(stdout)
		}
	}
	if err != nil {
		err = pipeerrors.WrapParse(err)
		if writeErr := writef(stderr, "%s: %v\n", source, err); writeErr != nil {
			return 1
		}
		return 1
	}
	return 0
}

func printEvents(w io.Writer, session *xmlpipe.Session, src event.Stream) error {
	err := printEventTrace(w, session, src)
	if cerr := src.Close(); err == nil {
		err = cerr
	}
	return err
}

func printEventTrace(w io.Writer, session *xmlpipe.Session, src event.Stream) error {
	pool := session.Pool()
	depth := 0
	for ev, err := range event.All(src) {
		if err != nil {
			return err
		}
		if ev.IsEnd() && depth > 0 {
			depth--
		}
		indent := ""
		for range depth {
			indent += "  "
		}
		switch ev.Kind {
		case event.KindStartElement:
			if err := writef(w, "%s%s %s\n", indent, ev.Kind, pool.Display(ev.Name)); err != nil {
				return err
			}
		case event.KindText, event.KindComment, event.KindAtomic:
			if err := writef(w, "%s%s %q\n", indent, ev.Kind, ev.Value); err != nil {
				return err
			}
		case event.KindPI:
			if err := writef(w, "%s%s %s %q\n", indent, ev.Kind, pool.Display(ev.Name), ev.Value); err != nil {
				return err
			}
		default:
			if err := writef(w, "%s%s\n", indent, ev.Kind); err != nil {
				return err
			}
		}
		if ev.IsStart() {
			depth++
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}

func startCPUProfile(path string) (func() error, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create cpu profile %s: %w", path, err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		if closeErr := f.Close(); closeErr != nil {
			return nil, fmt.Errorf("start cpu profile %s: %w (close failed: %w)", path, err, closeErr)
		}
		return nil, fmt.Errorf("start cpu profile %s: %w", path, err)
	}
	return func() error {
		pprof.StopCPUProfile()
		if err := f.Close(); err != nil {
			return fmt.Errorf("close cpu profile %s: %w", path, err)
		}
		return nil
	}, nil
}

func writeMemProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create mem profile %s: %w", path, err)
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		if closeErr := f.Close(); closeErr != nil {
			return fmt.Errorf("write mem profile %s: %w (close failed: %w)", path, err, closeErr)
		}
		return fmt.Errorf("write mem profile %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close mem profile %s: %w", path, err)
	}
	return nil
}
