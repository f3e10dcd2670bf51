// Package checker implements the top-level CPOG/SCPOG proof-checking
// pipeline: reading a CNF input formula, reading and validating a CPOG
// proof against it, certifying clause deletions by reverse implication,
// and computing regular and weighted model counts via ring evaluation.
//
// All state is gathered into the Checker struct and threaded explicitly
// through every stage, with the CLI entry point (cmd/cpogcheck) owning
// its lifetime end to end — the single mutable top-level object pattern
// is grounded on the gini solver's top-level Gini struct
// (gini/gini.go), which plays the same "thin facade over internal
// engines" role for that library.
package checker

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/rebryant/cpogcheck/internal/dimacs"
	"github.com/rebryant/cpogcheck/internal/pog"
	"github.com/rebryant/cpogcheck/internal/q25"
	"github.com/rebryant/cpogcheck/internal/store"
)

// RupMode controls how strictly the RUP engine treats a hint clause that
// fails to cause unit propagation. Exposed explicitly per the decision in
// DESIGN.md (Open Question 1) rather than silently toggled.
type RupMode int

const (
	// Strict mode fails the run the first time a hint clause stalls.
	Strict RupMode = iota
	// Lenient mode logs a warning and continues, matching the original's
	// skipping_rup flag.
	Lenient
)

// DeletionMode controls whether Skolem defining clauses are physically
// added to the clause store (Explicit) or treated as implicit/virtual
// (Virtual, the default), per DESIGN.md Open Question 2.
type DeletionMode int

const (
	Virtual DeletionMode = iota
	Explicit
)

// Outcome is the terminal verification result, surfaced verbatim as one
// of the banners below rather than inferred silently from flag
// combinations (DESIGN.md Open Question 3).
type Outcome int

const (
	NothingChecked Outcome = iota
	DeletionsValid
	AdditionsValid
	FullProofSuccess
	// FullProofSuccessUnsat is reached when the root is declared
	// unsatisfiable (root literal 0) and the empty clause was actually
	// derived by RUP, rather than via a POG whose root node evaluates.
	FullProofSuccessUnsat
)

func (o Outcome) Banner() string {
	switch o {
	case DeletionsValid:
		return "CLAUSE DELETIONS VALID.  CPOG representation partially verified"
	case AdditionsValid:
		return "CLAUSE ADDITIONS VALID.  CPOG representation partially verified"
	case FullProofSuccess:
		return "FULL-PROOF SUCCESS.  CPOG representation verified"
	case FullProofSuccessUnsat:
		return "FULL-PROOF SUCCESS.  CPOG representation of unsatisfiable POG verified"
	default:
		return "NOTHING CHECKED.  CPOG representation not verified"
	}
}

// Options configures a checking run; every field corresponds to one CLI
// flag in cmd/cpogcheck.
type Options struct {
	Verbosity     int
	SkipAdditions bool // -A / -1: trust clause additions without RUP
	CheckDeletion bool // deletion checking is on unless ExplicitDeletion bypasses it entirely
	Explicit      DeletionMode
	Rup           RupMode
	WeakMode      bool // -w: skip counting, only check POG structure
	Threads       int
}

// DefaultOptions returns the options matching the original checker's
// defaults: full checking, strict RUP, virtual Skolem clauses, 1 thread.
func DefaultOptions() Options {
	return Options{
		Verbosity:     1,
		CheckDeletion: true,
		Explicit:      Virtual,
		Rup:           Strict,
		Threads:       1,
	}
}

// Checker holds every piece of mutable state for one checking run.
type Checker struct {
	opts Options
	log  zerolog.Logger

	cnf *dimacs.CNF

	clauses *store.Store
	arena   *pog.Arena

	inputVariableCount int32
	inputClauseCount   int32
	declaredRoot        int32
	declaredUnsat       bool
	provedUnsat         bool
	rootClauseAdded     bool
	lastClauseID        int32

	opCount          int64
	tseitinClauses   int64
	disableClauses   int64
	skolemClauses    int64
	structuralCount  int64
	forwardCount     int64
	virtualClauses   int64
	explicitDeletion int64
	noninputDeletion int64
	implicitDeletion int64
	eventCount       int64
}

// New returns a Checker configured with opts, logging to w at the given
// level.
func New(opts Options, w io.Writer) *Checker {
	level := zerolog.WarnLevel
	switch {
	case opts.Verbosity >= 3:
		level = zerolog.DebugLevel
	case opts.Verbosity >= 2:
		level = zerolog.InfoLevel
	case opts.Verbosity >= 1:
		level = zerolog.ErrorLevel
	default:
		level = zerolog.Disabled
	}
	log := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &Checker{opts: opts, log: log, clauses: store.New()}
}

// ReadCNF reads and stores the input formula.
func (c *Checker) ReadCNF(r io.Reader) error {
	cnf, err := dimacs.ReadCNF(r)
	if err != nil {
		return &ParseError{Msg: err.Error()}
	}
	c.cnf = cnf
	c.inputVariableCount = cnf.VarCount
	c.inputClauseCount = cnf.ClauseCount
	c.arena = pog.New(cnf.VarCount + 1)
	for i, lits := range cnf.Clauses {
		cid := int32(i + 1)
		if err := c.clauses.Start(cid); err != nil {
			return err
		}
		for _, m := range lits {
			c.clauses.PushLiteral(m)
		}
		if err := c.clauses.Finish(cid, store.INPUT); err != nil {
			return err
		}
	}
	c.lastClauseID = cnf.ClauseCount
	c.log.Info().Int32("vars", cnf.VarCount).Int32("clauses", cnf.ClauseCount).Bool("pkc", cnf.IsPKC).Msg("read CNF")
	return nil
}

// Result is the full outcome of a checking run, returned by Run for the
// CLI to render.
type Result struct {
	Outcome  Outcome
	Root     int32
	Regular  *q25.Value
	Weighted *q25.Value
}

// Run executes the full pipeline against an optional CPOG proof. If
// cpogReader is nil, only the CNF is read and Outcome is always
// NothingChecked.
func (c *Checker) Run(cnfReader io.Reader, cpogReader io.Reader, cnfPathForWeights func() (io.Reader, error)) (*Result, error) {
	if err := c.ReadCNF(cnfReader); err != nil {
		return nil, err
	}
	if cpogReader == nil {
		return &Result{Outcome: NothingChecked}, nil
	}
	if err := c.readCPOG(cpogReader); err != nil {
		return nil, err
	}
	root, err := c.finalRoot()
	if err != nil {
		return nil, err
	}
	res := &Result{Root: root}
	checkAdd := !c.opts.SkipAdditions
	checkDel := c.opts.CheckDeletion
	if root == 0 {
		if !checkAdd {
			res.Outcome = NothingChecked
		} else if !c.provedUnsat {
			return nil, &IntegrityError{Msg: "POG declared unsatisfiable, but empty clause not added"}
		} else {
			res.Outcome = FullProofSuccessUnsat
		}
	} else {
		switch {
		case !checkAdd && !checkDel:
			res.Outcome = NothingChecked
		case !checkAdd:
			res.Outcome = DeletionsValid
		case !checkDel:
			res.Outcome = AdditionsValid
		default:
			res.Outcome = FullProofSuccess
		}
	}

	if c.opts.WeakMode {
		return res, nil
	}

	res.Regular = c.countRegular()
	if cnfPathForWeights != nil {
		wr, werr := cnfPathForWeights()
		if werr == nil {
			if wmc, werr2 := c.countWeighted(wr); werr2 == nil {
				res.Weighted = wmc
			} else if _, isParse := werr2.(*ParseError); isParse {
				return nil, werr2
			}
		}
	}
	return res, nil
}

// Logger exposes the checker's diagnostic sink, for the CLI's own
// top-level messages.
func (c *Checker) Logger() *zerolog.Logger { return &c.log }
