package checker

import (
	"fmt"
	"io"

	"github.com/rebryant/cpogcheck/internal/dimacs"
	"github.com/rebryant/cpogcheck/internal/pog"
	"github.com/rebryant/cpogcheck/internal/reverse"
	"github.com/rebryant/cpogcheck/internal/rup"
	"github.com/rebryant/cpogcheck/internal/store"
	"github.com/rebryant/cpogcheck/z"
)

// readCPOG parses and validates every command in the CPOG/SCPOG proof
// file, dispatching on the command table in the original's cpog_read.
func (c *Checker) readCPOG(r io.Reader) error {
	t := dimacs.NewTokenizer(r)
	for {
		tok := t.Next()
		if tok.Kind == dimacs.EOF {
			break
		}
		if tok.Kind == dimacs.EOL {
			continue
		}
		var cid int32
		if tok.Kind == dimacs.String && tok.Text == "c" {
			t.FindEOL()
			continue
		}
		if tok.Kind == dimacs.Int {
			cid = tok.Int
			tok = t.Next()
		}
		if tok.Kind != dimacs.String {
			return &ParseError{Line: t.Line(), Msg: fmt.Sprintf("expected CPOG command, got %s", tok.Kind)}
		}
		var err error
		switch tok.Text {
		case "a":
			err = c.cmdAddClause(t, cid, false)
		case "as":
			err = c.cmdAddClause(t, cid, true)
		case "r":
			err = c.cmdReadRoot(t)
		case "d":
			err = c.cmdDeleteClause(t)
		case "D":
			err = c.cmdBatchDeleteClauses(t)
		case "p":
			err = c.cmdAddProduct(t, cid)
		case "t":
			err = c.cmdAddSkolem(t, cid)
		case "s":
			err = c.cmdAddSum(t, cid, false)
		case "S":
			if !c.opts.WeakMode {
				return &ParseError{Line: t.Line(), Msg: "weak sum node encountered outside weak mode"}
			}
			err = c.cmdAddSum(t, cid, true)
		default:
			return &ParseError{Line: t.Line(), Msg: fmt.Sprintf("invalid CPOG command %q", tok.Text)}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func expectInt(t *dimacs.Tokenizer, what string) (int32, error) {
	tok := t.Next()
	if tok.Kind != dimacs.Int {
		return 0, &ParseError{Line: t.Line(), Msg: fmt.Sprintf("expected %s, got %s", what, tok.Kind)}
	}
	return tok.Int, nil
}

func (c *Checker) cmdReadRoot(t *dimacs.Tokenizer) error {
	lit, err := expectInt(t, "root literal")
	if err != nil {
		return err
	}
	if lit == 0 {
		c.declaredUnsat = true
	} else {
		c.declaredRoot = lit
	}
	return t.ConfirmEOL()
}

func (c *Checker) cmdDeleteClause(t *dimacs.Tokenizer) error {
	cid, err := expectInt(t, "clause id")
	if err != nil {
		return err
	}
	loc, ok := c.clauses.Find(cid)
	if !ok {
		return &UnknownClauseIDError{CID: cid}
	}
	if !c.clauses.Delete(loc) {
		return &AlreadyDeletedError{CID: cid}
	}
	c.explicitDeletion++
	return t.ConfirmEOL()
}

func (c *Checker) cmdBatchDeleteClauses(t *dimacs.Tokenizer) error {
	dcount := int64(0)
	for {
		tok := t.Next()
		if tok.Kind != dimacs.Int {
			return &ParseError{Line: t.Line(), Msg: "list of clauses must be terminated by 0"}
		}
		if tok.Int == 0 {
			break
		}
		cid := tok.Int
		loc, ok := c.clauses.Find(cid)
		if !ok {
			return &UnknownClauseIDError{CID: cid}
		}
		ctype := c.clauses.TypeAt(loc)
		if ctype != store.FORWARD && ctype != store.STRUCTURAL {
			return &IntegrityError{Msg: fmt.Sprintf("cannot delete clause %d (type %s) with batch delete", cid, ctype)}
		}
		if !c.clauses.Delete(loc) {
			return &AlreadyDeletedError{CID: cid}
		}
		dcount++
	}
	c.noninputDeletion += dcount
	return t.ConfirmEOL()
}

// cmdAddClause handles the 'a'/'as' commands: add a clause whose
// validity is established by RUP against the hints that follow it
// (skipped when Options.SkipAdditions is set). 'a' adds a forward (or
// root) clause and 'as' a structural one; the two differ only in the
// target type used for hint compatibility and the stored clause type.
func (c *Checker) cmdAddClause(t *dimacs.Tokenizer, cid int32, structural bool) error {
	var lits []z.Lit
	for {
		v, err := expectInt(t, "clause literal")
		if err != nil {
			return err
		}
		if v == 0 {
			break
		}
		lits = append(lits, z.Dimacs2Lit(int(v)))
	}
	targetType := store.FORWARD
	switch {
	case structural:
		targetType = store.STRUCTURAL
	case len(lits) == 0:
		c.provedUnsat = true
	case len(lits) == 1 && int32(lits[0].Dimacs()) == c.declaredRoot:
		targetType = store.ROOT
		c.rootClauseAdded = true
	}
	if !c.opts.SkipAdditions {
		if err := c.runRUP(t, cid, lits, targetType); err != nil {
			return err
		}
	} else {
		t.FindEOL()
	}
	if err := c.clauses.Start(cid); err != nil {
		return err
	}
	for _, m := range lits {
		c.clauses.PushLiteral(m)
	}
	if err := c.clauses.Finish(cid, targetType); err != nil {
		return err
	}
	switch targetType {
	case store.STRUCTURAL:
		c.structuralCount++
	case store.ROOT:
		// root clause counted separately via rootClauseAdded, not as forward
	default:
		c.forwardCount++
	}
	return nil
}

// runRUP validates a target clause against the hint list that follows it
// in the token stream, per rup_run.
func (c *Checker) runRUP(t *dimacs.Tokenizer, tcid int32, lits []z.Lit, targetType store.Type) error {
	eng := rup.New()
	if !eng.Setup(lits) {
		return &RupFailureError{TargetCID: tcid, Cause: fmt.Errorf("target clause is a tautology")}
	}
	conflict := false
	ok := true
	var badHint int32
	for {
		tok := t.Next()
		if tok.Kind == dimacs.Star {
			return &ParseError{Line: t.Line(), Msg: "this checker requires explicit hints"}
		}
		if tok.Kind != dimacs.Int {
			return &ParseError{Line: t.Line(), Msg: fmt.Sprintf("RUP for clause %d: expecting integer hint, got %s", tcid, tok.Kind)}
		}
		if tok.Int == 0 {
			if !conflict {
				return &RupFailureError{TargetCID: tcid, Cause: &rup.ErrNoConflict{TargetCID: tcid}}
			}
			if !ok {
				return &RupFailureError{TargetCID: tcid, Cause: &IncompatibleHintTypeError{TargetCID: tcid, HintCID: badHint}}
			}
			return nil
		}
		if conflict {
			// A conflict was already reached; the remaining hints are
			// discarded rather than re-checked, matching early_rup.
			continue
		}
		hcid := tok.Int
		loc, found := c.clauses.Find(hcid)
		if !found {
			return &RupFailureError{TargetCID: tcid, Cause: fmt.Errorf("invalid hint clause %d", hcid)}
		}
		htype := c.clauses.TypeAt(loc)
		if !rup.TypeCompatible(htype, targetType) && ok {
			ok = false
			badHint = hcid
		}
		result, unit := eng.Propagate(c.clauses, loc)
		switch result {
		case rup.Conflict:
			conflict = true
		case rup.Stall:
			if c.opts.Rup == Lenient {
				c.log.Warn().Int32("hint", hcid).Int32("target", tcid).Msg("hint did not cause unit propagation")
			} else {
				return &RupFailureError{TargetCID: tcid, Cause: &NonPropagatingHintError{TargetCID: tcid, HintCID: hcid}}
			}
		case rup.Unit:
			eng.AddUnit(unit)
		}
	}
}

func (c *Checker) cmdAddProduct(t *dimacs.Tokenizer, cid int32) error {
	nid, err := expectInt(t, "operation number")
	if err != nil {
		return err
	}
	node := c.arena.NewNode(pog.Product, nid, cid)
	var localDeps []z.Var
	for {
		v, err := expectInt(t, "product operand")
		if err != nil {
			return err
		}
		if v == 0 {
			break
		}
		lit := z.Dimacs2Lit(int(v))
		node.Children = append(node.Children, lit)
		vr := lit.Var()
		if int32(vr) <= c.inputVariableCount {
			localDeps = append(localDeps, vr)
		} else {
			if !lit.IsPos() {
				return &DependencyViolationError{NodeID: nid, Detail: fmt.Sprintf("negative literal %d violates NNF", v)}
			}
			cnode := c.arena.Find(int32(vr))
			if cnode == nil {
				return &DependencyViolationError{NodeID: nid, Detail: fmt.Sprintf("invalid child node id %d", vr)}
			}
			merged, uerr := pog.DepUnion(node.Dep, cnode.Dep)
			if uerr != nil {
				return &DependencyViolationError{NodeID: nid, Detail: uerr.Error()}
			}
			node.Dep = merged
		}
	}
	if len(localDeps) > 0 {
		pog.SortVars(localDeps)
		if dup, has := pog.FindDuplicate(localDeps); has {
			return &DependencyViolationError{NodeID: nid, Detail: fmt.Sprintf("repeated variable %d among product arguments", dup)}
		}
		merged, uerr := pog.DepUnion(node.Dep, localDeps)
		if uerr != nil {
			return &DependencyViolationError{NodeID: nid, Detail: uerr.Error()}
		}
		node.Dep = merged
	}
	if err := t.ConfirmEOL(); err != nil {
		return err
	}

	n := int32(len(node.Children))
	if err := c.clauses.Start(cid); err != nil {
		return err
	}
	c.clauses.PushLiteral(z.Var(nid).Pos())
	for _, ch := range node.Children {
		c.clauses.PushLiteral(ch.Not())
	}
	ctype := store.TSEITIN
	if n == 0 && nid == c.declaredRoot {
		ctype = store.ROOT
	}
	if err := c.clauses.Finish(cid, ctype); err != nil {
		return err
	}
	for i, ch := range node.Children {
		ncid := cid + int32(i) + 1
		if err := c.clauses.Start(ncid); err != nil {
			return err
		}
		c.clauses.PushLiteral(z.Var(nid).Neg())
		c.clauses.PushLiteral(ch)
		if err := c.clauses.Finish(ncid, store.TSEITIN); err != nil {
			return err
		}
	}
	if n == 0 && nid == c.declaredRoot {
		c.rootClauseAdded = true
	}
	c.opCount++
	c.tseitinClauses += int64(n + 1)
	return nil
}

func (c *Checker) cmdAddSkolem(t *dimacs.Tokenizer, cid int32) error {
	nid, err := expectInt(t, "operation number")
	if err != nil {
		return err
	}
	if !c.cnf.IsPKC {
		return &IntegrityError{Msg: fmt.Sprintf("cannot add Skolem node %d: not performing projected compilation", nid)}
	}
	node := c.arena.NewNode(pog.Skolem, nid, cid)
	for {
		v, err := expectInt(t, "skolem operand")
		if err != nil {
			return err
		}
		if v == 0 {
			break
		}
		lit := z.Dimacs2Lit(int(v))
		node.Children = append(node.Children, lit)
		vr := lit.Var()
		if int32(vr) > c.inputVariableCount {
			return &DependencyViolationError{NodeID: nid, Detail: fmt.Sprintf("child %d must be a literal of an input projection variable", v)}
		}
		if int(vr)-1 < len(c.cnf.ShowVars) && c.cnf.ShowVars[vr-1] {
			return &DependencyViolationError{NodeID: nid, Detail: fmt.Sprintf("variable %d is not a projection variable", vr)}
		}
		node.Dep = append(node.Dep, vr)
	}
	pog.SortVars(node.Dep)
	if dup, has := pog.FindDuplicate(node.Dep); has {
		return &DependencyViolationError{NodeID: nid, Detail: fmt.Sprintf("repeated variable %d among skolem arguments", dup)}
	}
	if err := t.ConfirmEOL(); err != nil {
		return err
	}

	if err := c.clauses.Start(cid); err != nil {
		return err
	}
	c.clauses.PushLiteral(z.Var(nid).Pos())
	if err := c.clauses.Finish(cid, store.DISABLE); err != nil {
		return err
	}
	n := int32(len(node.Children))
	if c.opts.Explicit == Explicit {
		for i, ch := range node.Children {
			ncid := cid + int32(i) + 1
			if err := c.clauses.Start(ncid); err != nil {
				return err
			}
			c.clauses.PushLiteral(z.Var(nid).Neg())
			c.clauses.PushLiteral(ch)
			if err := c.clauses.Finish(ncid, store.SKOLEM); err != nil {
				return err
			}
		}
		c.skolemClauses += int64(n)
	} else {
		c.virtualClauses += int64(n)
	}
	c.opCount++
	c.disableClauses++
	return nil
}

func (c *Checker) cmdAddSum(t *dimacs.Tokenizer, cid int32, weak bool) error {
	nid, err := expectInt(t, "operation number")
	if err != nil {
		return err
	}
	node := c.arena.NewNode(pog.Sum, nid, cid)
	var localDeps []z.Var
	for {
		v, err := expectInt(t, "sum operand")
		if err != nil {
			return err
		}
		if weak && v == 0 {
			break
		}
		lit := z.Dimacs2Lit(int(v))
		node.Children = append(node.Children, lit)
		vr := lit.Var()
		if int32(vr) <= c.inputVariableCount {
			if c.cnf.IsPKC && (int(vr)-1 >= len(c.cnf.ShowVars) || !c.cnf.ShowVars[vr-1]) {
				return &DependencyViolationError{NodeID: nid, Detail: fmt.Sprintf("literal %d is not a data variable", v)}
			}
			localDeps = append(localDeps, vr)
		} else {
			if !lit.IsPos() {
				return &DependencyViolationError{NodeID: nid, Detail: fmt.Sprintf("negative literal %d violates NNF", v)}
			}
			cnode := c.arena.Find(int32(vr))
			if cnode == nil {
				return &DependencyViolationError{NodeID: nid, Detail: fmt.Sprintf("invalid child node id %d", vr)}
			}
			merged, uerr := pog.DepUnion(node.Dep, cnode.Dep)
			if uerr != nil {
				return &DependencyViolationError{NodeID: nid, Detail: uerr.Error()}
			}
			node.Dep = merged
		}
		if !weak && len(node.Children) == 2 {
			break
		}
	}
	if len(localDeps) > 0 {
		pog.SortVars(localDeps)
		merged, uerr := pog.DepUnion(node.Dep, localDeps)
		if uerr != nil {
			return &DependencyViolationError{NodeID: nid, Detail: uerr.Error()}
		}
		node.Dep = merged
	}

	if !weak {
		eng := rup.New()
		eng.Setup(nil)
		eng.AddUnit(node.Children[0])
		eng.AddUnit(node.Children[1])
		if err := c.proveMutex(t, cid, eng); err != nil {
			return &MutexFailureError{NodeID: nid}
		}
	}
	if err := t.ConfirmEOL(); err != nil {
		return err
	}

	if err := c.clauses.Start(cid); err != nil {
		return err
	}
	c.clauses.PushLiteral(z.Var(nid).Neg())
	for _, ch := range node.Children {
		c.clauses.PushLiteral(ch)
	}
	if err := c.clauses.Finish(cid, store.TSEITIN); err != nil {
		return err
	}
	n := int32(len(node.Children))
	for i, ch := range node.Children {
		ncid := cid + int32(i) + 1
		if err := c.clauses.Start(ncid); err != nil {
			return err
		}
		c.clauses.PushLiteral(z.Var(nid).Pos())
		c.clauses.PushLiteral(ch.Not())
		if err := c.clauses.Finish(ncid, store.TSEITIN); err != nil {
			return err
		}
	}
	c.opCount++
	c.tseitinClauses += int64(n + 1)
	return nil
}

// proveMutex runs RUP (against the hints following a sum command) to
// establish that the two disjuncts of a binary SUM node are mutually
// exclusive; this uses the STRUCTURAL target type per the original's
// rup_run(cid, CLAUSE_STRUCTURAL) call in cpog_add_sum.
func (c *Checker) proveMutex(t *dimacs.Tokenizer, cid int32, eng *rup.Engine) error {
	conflict := false
	ok := true
	for {
		tok := t.Next()
		if tok.Kind != dimacs.Int {
			return &ParseError{Line: t.Line(), Msg: "expecting integer hint for mutex proof"}
		}
		if tok.Int == 0 {
			if !conflict || !ok {
				return fmt.Errorf("mutex proof for node %d failed", cid)
			}
			return nil
		}
		if conflict {
			return fmt.Errorf("mutex proof for node %d: hints continue past conflict", cid)
		}
		hcid := tok.Int
		loc, found := c.clauses.Find(hcid)
		if !found {
			return fmt.Errorf("mutex proof for node %d: invalid hint clause %d", cid, hcid)
		}
		htype := c.clauses.TypeAt(loc)
		if !rup.TypeCompatible(htype, store.STRUCTURAL) {
			ok = false
		}
		result, unit := eng.Propagate(c.clauses, loc)
		switch result {
		case rup.Conflict:
			conflict = true
		case rup.Stall:
			return fmt.Errorf("mutex proof for node %d: hint clause %d did not propagate", cid, hcid)
		case rup.Unit:
			eng.AddUnit(unit)
		}
	}
}

// finalRoot checks that the root clause was added (or the POG was
// declared unsatisfiable) and, if deletion checking is enabled, runs
// implicit deletion over every remaining input clause.
func (c *Checker) finalRoot() (int32, error) {
	if c.declaredUnsat {
		return 0, nil
	}
	if !c.rootClauseAdded {
		return 0, &IntegrityError{Msg: fmt.Sprintf("unit clause for root %d not added", c.declaredRoot)}
	}
	if c.opts.CheckDeletion && c.explicitDeletion < int64(c.inputClauseCount) {
		if err := c.clearTautologies(); err != nil {
			return 0, err
		}
		c.clauses.FreeNonInput(c.inputClauseCount)
		eng := reverse.Build(c.arena, c.inputVariableCount, c.declaredRoot)
		if err := c.runDeletion(eng); err != nil {
			return 0, err
		}
	}
	return c.declaredRoot, nil
}

// clearTautologies deletes any remaining input clause whose literals
// contain a complementary pair, mirroring clear_tautologies: such clauses
// are trivially satisfied and cannot be certified by reverse implication
// (which assumes falsifying every literal is possible).
func (c *Checker) clearTautologies() error {
	loc, ok := c.clauses.First()
	eng := rup.New()
	for ok {
		cid := c.clauses.ID(loc)
		if cid > c.inputClauseCount {
			break
		}
		lits := c.clauses.LiteralsAt(loc)
		if lits != nil && !eng.Setup(lits) {
			if !c.clauses.Delete(loc) {
				return &IntegrityError{Msg: fmt.Sprintf("could not delete tautological clause %d", cid)}
			}
			c.implicitDeletion++
		}
		loc, ok = c.clauses.Next(loc)
	}
	return nil
}

// deletionResult is one worker's findings: every input clause id it
// certified for implicit deletion, plus its propagator's own counters.
// Returned from the worker closure rather than folded into Checker
// fields in place, since multiple workers run this closure concurrently
// and Checker fields and the clause store are shared across all of them.
type deletionResult struct {
	cids     []int32
	implicit int64
	events   int64
}

// runDeletion certifies the remaining input clauses via reverse
// implication, optionally spread across Options.Threads workers. Workers
// only read the clause store (Find/Next/TypeAt/LiteralsAt/ID); the store
// stays read-only for the whole deletion pass, and every id a worker
// certifies is reported back for the caller to delete and tally
// sequentially once every worker has finished, so no goroutine ever
// mutates the shared store or a shared counter.
func (c *Checker) runDeletion(eng *reverse.Engine) error {
	blockSize := int32(250)
	if c.opts.Threads > 0 {
		perThread := (c.inputClauseCount + int32(c.opts.Threads) - 1) / int32(c.opts.Threads)
		if perThread < blockSize {
			blockSize = perThread
		}
	}
	if blockSize < 1 {
		blockSize = 1
	}
	var ranges []workRange
	for lo := int32(1); lo <= c.inputClauseCount; lo += blockSize {
		hi := lo + blockSize - 1
		if hi > c.inputClauseCount {
			hi = c.inputClauseCount
		}
		ranges = append(ranges, workRange{Lo: lo, Hi: hi})
	}

	results, err := runWorkRanges(ranges, c.opts.Threads, func(lo, hi int32) (interface{}, error) {
		p := eng.NewPropagator()
		res := &deletionResult{}
		loc, ok := c.clauses.Find(lo)
		for ok {
			cid := c.clauses.ID(loc)
			if cid > hi {
				break
			}
			if c.clauses.TypeAt(loc) == store.INPUT {
				lits := c.clauses.LiteralsAt(loc)
				if err := p.RunInput(c.arena, cid, lits); err != nil {
					return nil, &ImplicitDeletionError{CID: cid, Cause: err}
				}
				res.cids = append(res.cids, cid)
			}
			loc, ok = c.clauses.Next(loc)
		}
		res.implicit = p.ImplicitDeletions()
		res.events = p.Events()
		return res, nil
	})
	if err != nil {
		return err
	}
	for _, r := range results {
		res := r.(*deletionResult)
		for _, cid := range res.cids {
			loc, ok := c.clauses.Find(cid)
			if !ok || !c.clauses.Delete(loc) {
				return &AlreadyDeletedError{CID: cid}
			}
		}
		c.implicitDeletion += res.implicit
		c.eventCount += res.events
	}
	return nil
}
