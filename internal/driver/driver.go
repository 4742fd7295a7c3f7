// Package driver runs the categorization engine over fixture files: one
// file at a time for the CLI, or a directory in parallel for batch use.
package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"ferrite/internal/ast"
	"ferrite/internal/diag"
	"ferrite/internal/fixture"
	"ferrite/internal/memcat"
	"ferrite/internal/sema"
	"ferrite/internal/source"
)

// Options configure an analysis run.
type Options struct {
	// Jobs bounds directory-level parallelism; 0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps the per-file bag.
	MaxDiagnostics int
	// DefaultMutable is forwarded to the engine's ambient default.
	DefaultMutable bool
}

func (o Options) jobs() int {
	if o.Jobs > 0 {
		return o.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics > 0 {
		return o.MaxDiagnostics
	}
	return 100
}

// Dump is one rendered categorization tree.
type Dump struct {
	Handle string
	Text   string
}

// Result bundles everything one fixture produced.
type Result struct {
	Path    string
	Program *fixture.Program
	Bag     *diag.Bag
	Dumps   []Dump
	Walks   []Dump
}

// AnalyzeFile loads one fixture and runs every check and dump it requests.
func AnalyzeFile(path string, opts Options) (*Result, error) {
	prog, err := fixture.Load(path)
	if err != nil {
		return nil, err
	}
	res := Analyze(prog, opts)
	res.Path = path
	return res, nil
}

// Analyze runs a decoded fixture. It never fails: problems inside the
// fixture surface as diagnostics in the result bag.
func Analyze(prog *fixture.Program, opts Options) *Result {
	bag := diag.NewBag(opts.maxDiagnostics())
	mc := &memcat.Context{
		Builder:        prog.Builder,
		Types:          prog.Types,
		Strings:        prog.Strings,
		Infer:          prog.Infer,
		Copy:           prog.Infer,
		DefaultMutable: opts.DefaultMutable,
	}
	ck := &sema.Checker{Cat: mc, Reporter: bag}
	res := &Result{Program: prog, Bag: bag}

	for _, handle := range prog.Checks.Assign {
		if expr, ok := lookupExpr(prog, bag, handle); ok {
			ck.CheckAssign(expr)
		}
	}
	for _, handle := range prog.Checks.MutBorrow {
		if expr, ok := lookupExpr(prog, bag, handle); ok {
			ck.CheckMutBorrow(expr)
		}
	}
	for _, handle := range prog.Checks.Move {
		if expr, ok := lookupExpr(prog, bag, handle); ok {
			ck.CheckMove(expr)
		}
	}
	for _, handle := range prog.Checks.Dump {
		expr, ok := lookupExpr(prog, bag, handle)
		if !ok {
			continue
		}
		cmt := mc.ProcessExpr(expr)
		res.Dumps = append(res.Dumps, Dump{
			Handle: handle,
			Text:   memcat.Sprint(cmt, prog.Types, prog.Strings, prog.Builder.Decls),
		})
	}
	for _, walk := range prog.Checks.Walk {
		expr, ok := lookupExpr(prog, bag, walk.Base)
		if !ok {
			continue
		}
		pat, ok := prog.Pats[walk.Pat]
		if !ok {
			reportUnknownRef(bag, "pat", walk.Pat)
			continue
		}
		var sb strings.Builder
		base := mc.ProcessExpr(expr)
		mc.WalkPat(base, pat, func(cmt memcat.Cmt, _ ast.PatID) {
			sb.WriteString(memcat.Sprint(cmt, prog.Types, prog.Strings, prog.Builder.Decls))
		})
		res.Walks = append(res.Walks, Dump{
			Handle: walk.Pat,
			Text:   sb.String(),
		})
	}
	bag.Sort()
	return res
}

func lookupExpr(prog *fixture.Program, bag *diag.Bag, handle string) (ast.ExprID, bool) {
	expr, ok := prog.Exprs[handle]
	if !ok {
		reportUnknownRef(bag, "expr", handle)
		return ast.NoExprID, false
	}
	return expr, true
}

func reportUnknownRef(bag *diag.Bag, kind, handle string) {
	if b := diag.ReportWarning(bag, diag.FixUnknownRef, source.Span{},
		fmt.Sprintf("fixture references unknown %s %q", kind, handle)); b != nil {
		b.Emit()
	}
}

// listFixtures returns the sorted *.toml files under dir.
func listFixtures(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".toml") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// AnalyzeDir analyzes every fixture under dir concurrently. Results come
// back in path order regardless of which worker finished first.
func AnalyzeDir(ctx context.Context, dir string, opts Options) ([]*Result, error) {
	files, err := listFixtures(dir)
	if err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}
	results := make([]*Result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs())
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := AnalyzeFile(path, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
