// Package harness drives an AOI instance tag through a vector suite: inputs
// are written one parameter at a time and outputs are compared once every
// input of a case is in place.
package harness

import (
	"context"
	"errors"
	"fmt"

	"github.com/tturner/aoiunit/internal/layout"
	"github.com/tturner/aoiunit/internal/logging"
	"github.com/tturner/aoiunit/internal/report"
	"github.com/tturner/aoiunit/internal/tagstore"
	"github.com/tturner/aoiunit/internal/vectors"
)

// Runner executes vector suites against one instance tag.
type Runner struct {
	Store  tagstore.Store
	Layout *layout.Layout
	Tag    string
	Logger *logging.Logger

	// OnCase, if set, is called after each finished case.
	OnCase func(report.Case)
}

// EnsureTag creates a zeroed tag of size bytes if the store does not have one.
// An existing tag shorter than size is an error.
func EnsureTag(ctx context.Context, s tagstore.Store, tag string, size int) error {
	data, err := s.ReadTag(ctx, tag)
	if errors.Is(err, tagstore.ErrTagNotFound) {
		return s.WriteTag(ctx, tag, make([]byte, size))
	}
	if err != nil {
		return err
	}
	if len(data) < size {
		return fmt.Errorf("%w: tag %s has %d bytes, layout needs %d", layout.ErrOutOfRange, tag, len(data), size)
	}
	return nil
}

// Run executes every case in order. A case that cannot be applied is marked
// failed and the run moves on; store errors and cancellation stop the run and
// return the cases finished so far.
func (r *Runner) Run(ctx context.Context, suite *vectors.Suite) (*report.Suite, error) {
	log := r.Logger
	if log == nil {
		log = logging.Discard()
	}

	res := report.NewSuite(suite.AOI, r.Tag)
	for i, c := range suite.Cases {
		log.Info("Case %d/%d: %s", i+1, len(suite.Cases), c.Name)

		rc, err := r.runCase(ctx, log, c)
		if err != nil {
			return res, fmt.Errorf("case %q: %w", c.Name, err)
		}
		if rc.Pass {
			log.Verbose("  PASS")
		} else {
			log.Info("  FAIL %s", c.Name)
		}
		res.Add(rc)
		if r.OnCase != nil {
			r.OnCase(rc)
		}
	}
	return res, nil
}

// caseError marks a failure that belongs to the case rather than the run.
type caseError struct{ err error }

func (e caseError) Error() string { return e.err.Error() }
func (e caseError) Unwrap() error { return e.err }

func (r *Runner) runCase(ctx context.Context, log *logging.Logger, c vectors.Case) (report.Case, error) {
	rc := report.Case{Name: c.Name, Pass: true}

	fail := func(err error) (report.Case, error) {
		var ce caseError
		if errors.As(err, &ce) {
			rc.Pass = false
			rc.Error = ce.err.Error()
			return rc, nil
		}
		return rc, err
	}

	for _, a := range c.Values {
		f, err := r.field(a.Param)
		if err != nil {
			return fail(err)
		}
		if f.Usage == layout.Output {
			continue
		}
		check, err := r.write(ctx, log, f, a.Value)
		if err != nil {
			return fail(err)
		}
		rc.Checks = append(rc.Checks, check)
		rc.Pass = rc.Pass && check.Pass
	}

	// Inputs that did not land make the outputs meaningless.
	if !rc.Pass {
		return rc, nil
	}

	var buf []byte
	for _, a := range c.Values {
		f, err := r.field(a.Param)
		if err != nil {
			return fail(err)
		}
		if f.Usage == layout.Input {
			continue
		}
		if buf == nil {
			if err := ctx.Err(); err != nil {
				return rc, err
			}
			buf, err = r.Store.ReadTag(ctx, r.Tag)
			if err != nil {
				return rc, fmt.Errorf("read %s: %w", r.Tag, err)
			}
			log.LogHex("  "+r.Tag, buf)
		}
		check, err := r.expect(f, a.Value, buf)
		if err != nil {
			return fail(err)
		}
		if !check.Pass {
			log.Info("  %s: expected %s, got %s", f.Name, check.Expected, check.Observed)
		}
		rc.Checks = append(rc.Checks, check)
		rc.Pass = rc.Pass && check.Pass
	}
	return rc, nil
}

func (r *Runner) field(name string) (layout.Field, error) {
	f, ok := r.Layout.Lookup(name)
	if !ok {
		return f, caseError{fmt.Errorf("%w: %q", layout.ErrUnknownParameter, name)}
	}
	if !f.Type.Supported() {
		return f, caseError{fmt.Errorf("%w: %s is %s", layout.ErrUnsupportedType, name, f.TypeName)}
	}
	return f, nil
}

// write applies one value with read-modify-write and reads it back.
func (r *Runner) write(ctx context.Context, log *logging.Logger, f layout.Field, value string) (report.Check, error) {
	check := report.Check{Kind: report.KindWrite, Param: f.Name}

	want, err := layout.Normalize(f.Type, value)
	if err != nil {
		log.LogWrite(r.Tag, f.Name, value, "", err)
		return check, caseError{fmt.Errorf("%s: %w", f.Name, err)}
	}
	check.Expected = want

	if err := ctx.Err(); err != nil {
		return check, err
	}
	buf, err := r.Store.ReadTag(ctx, r.Tag)
	if err != nil {
		return check, fmt.Errorf("read %s: %w", r.Tag, err)
	}
	out, err := r.Layout.Encode(buf, f.Name, value)
	if err != nil {
		log.LogWrite(r.Tag, f.Name, want, "", err)
		return check, caseError{err}
	}
	if err := r.Store.WriteTag(ctx, r.Tag, out); err != nil {
		return check, fmt.Errorf("write %s: %w", r.Tag, err)
	}

	back, err := r.Store.ReadTag(ctx, r.Tag)
	if err != nil {
		return check, fmt.Errorf("read %s: %w", r.Tag, err)
	}
	got, err := r.Layout.DecodeField(back, f.Name)
	if err != nil {
		log.LogWrite(r.Tag, f.Name, want, "", err)
		return check, caseError{err}
	}
	check.Observed = got
	check.Pass = got == want
	log.LogWrite(r.Tag, f.Name, want, got, nil)
	return check, nil
}

func (r *Runner) expect(f layout.Field, value string, buf []byte) (report.Check, error) {
	check := report.Check{Kind: report.KindExpect, Param: f.Name}

	want, err := layout.Normalize(f.Type, value)
	if err != nil {
		return check, caseError{fmt.Errorf("%s: %w", f.Name, err)}
	}
	got, err := r.Layout.DecodeField(buf, f.Name)
	if err != nil {
		return check, caseError{err}
	}
	check.Expected = want
	check.Observed = got
	check.Pass = got == want
	return check, nil
}
