// Command cpogcheck verifies a CPOG or SCPOG proof that a DIMACS CNF
// formula compiles to a given partitioned operation graph, optionally
// certifying clause deletions by reverse implication and computing
// regular and weighted model counts.
//
// Grounded on cmd/gini/main.go's flag-based CLI idiom (package-level
// flag.* vars, a path2Reader helper transparently handling .gz/.bz2
// suffixes, os.Exit carrying the process result).
package main

import (
	"compress/bzip2"
	"compress/gzip"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/rebryant/cpogcheck/checker"
)

var verbosity = flag.Int("v", 1, "diagnostic verbosity level (0-3)")
var logPath = flag.String("L", "", "also append a copy of all diagnostics to this file")
var skipAdditions = flag.Bool("A", false, "skip clause-addition (RUP) checking")
var skipAdditions1 = flag.Bool("1", false, "alias for -A")
var explicitDeletion = flag.Bool("D", false, "add explicit Skolem-deletion clauses instead of treating them as virtual")
var lenientRup = flag.Bool("l", false, "tolerate hint clauses that don't cause unit propagation")
var weakMode = flag.Bool("w", false, "check POG structure only, skip model counting")
var threads = flag.Int("n", 1, "number of worker threads for deletion checking")

func path2Reader(p string) (io.Reader, error) {
	if p == "-" {
		return os.Stdin, nil
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(p, ".gz") {
		return gzip.NewReader(f)
	}
	if strings.HasSuffix(p, ".bz2") {
		return bzip2.NewReader(f), nil
	}
	return f, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] FILE.cnf [FILE.cpog]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 || flag.NArg() > 2 {
		usage()
		os.Exit(1)
	}

	logWriter := io.Writer(os.Stderr)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatalf("cpogcheck: %s", err)
		}
		defer f.Close()
		logWriter = io.MultiWriter(os.Stderr, f)
	}

	opts := checker.DefaultOptions()
	opts.Verbosity = *verbosity
	opts.SkipAdditions = *skipAdditions || *skipAdditions1
	opts.WeakMode = *weakMode
	opts.Threads = *threads
	if *explicitDeletion {
		// Trust explicit d/D delete commands instead of running the
		// reverse-implication engine, and require Skolem clauses to be
		// physically present for those deletes to find.
		opts.Explicit = checker.Explicit
		opts.CheckDeletion = false
	}
	if *lenientRup {
		opts.Rup = checker.Lenient
	}

	cnfPath := flag.Arg(0)
	cnfReader, err := path2Reader(cnfPath)
	if err != nil {
		log.Fatalf("cpogcheck: %s", err)
	}

	var cpogReader io.Reader
	if flag.NArg() == 2 {
		cpogReader, err = path2Reader(flag.Arg(1))
		if err != nil {
			log.Fatalf("cpogcheck: %s", err)
		}
	}

	c := checker.New(opts, logWriter)
	res, err := c.Run(cnfReader, cpogReader, func() (io.Reader, error) {
		return path2Reader(cnfPath)
	})
	if err != nil {
		fmt.Println("NOTHING CHECKED.  CPOG representation not verified")
		log.Fatalf("cpogcheck: %s", err)
	}

	fmt.Println(res.Outcome.Banner())
	if res.Regular != nil {
		fmt.Printf("Regular model count: %s\n", res.Regular)
	}
	if res.Weighted != nil {
		fmt.Printf("Weighted model count: %s\n", res.Weighted)
	}

	if res.Outcome != checker.FullProofSuccess && res.Outcome != checker.FullProofSuccessUnsat && res.Outcome != checker.NothingChecked {
		os.Exit(1)
	}
	if res.Outcome == checker.NothingChecked && cpogReader != nil {
		os.Exit(1)
	}
}
