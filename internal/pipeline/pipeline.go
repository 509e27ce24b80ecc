// Package pipeline runs a course configuration: it imports the roster,
// executes each configured step against one gradebook and writes the
// report and upload sheets.
package pipeline

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/esselltwo/gradr/internal/config"
	"github.com/esselltwo/gradr/internal/gradebook"
	"github.com/esselltwo/gradr/internal/policy"
	"github.com/esselltwo/gradr/internal/sheet"
)

// Runner executes a course configuration.
type Runner struct {
	cfg     *config.Config
	baseDir string
	logger  *zap.Logger
	written []string
}

// New creates a runner. Relative sheet paths resolve against baseDir.
func New(cfg *config.Config, baseDir string, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, baseDir: baseDir, logger: logger}
}

// Run grades the course and writes the configured report and upload sheets.
func (r *Runner) Run() (*gradebook.Gradebook, error) {
	gb, err := r.Grade()
	if err != nil {
		return nil, err
	}

	if rep := r.cfg.Gradr.Report; rep != nil {
		path := r.path(rep.Output)
		rows, err := sheet.ReportRows(gb, rep.Categories)
		if err != nil {
			return nil, fmt.Errorf("report: %w", err)
		}
		if err := sheet.WriteFile(path, rows); err != nil {
			return nil, fmt.Errorf("report: %w", err)
		}
		r.written = append(r.written, path)
		r.logger.Info("wrote report", zap.String("path", path), zap.Strings("categories", rep.Categories))
	}

	if up := r.cfg.Gradr.Upload; up != nil {
		path := r.path(up.Output)
		rows, err := gb.UploadRows(up.Category)
		if err != nil {
			return nil, fmt.Errorf("upload: %w", err)
		}
		if err := sheet.WriteFile(path, rows); err != nil {
			return nil, fmt.Errorf("upload: %w", err)
		}
		r.written = append(r.written, path)
		r.logger.Info("wrote upload", zap.String("path", path), zap.String("category", up.Category))
	}

	return gb, nil
}

// Grade imports the roster and runs every step without writing the
// report or upload sheets. Gradescope steps still write their output,
// since later steps import it.
func (r *Runner) Grade() (*gradebook.Gradebook, error) {
	start := time.Now()
	scale, err := r.cfg.ScaleNamed("")
	if err != nil {
		return nil, err
	}
	gb := gradebook.New(gradebook.WithScale(scale), gradebook.WithLogger(r.logger))

	roster := r.path(r.cfg.Gradr.Roster)
	rows, err := sheet.ReadFile(roster)
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	if err := gb.ImportNames(rows); err != nil {
		return nil, fmt.Errorf("roster %s: %w", roster, err)
	}
	r.logger.Info("imported roster", zap.String("path", roster), zap.Int("students", gb.Len()))

	for i, step := range r.cfg.Gradr.Steps {
		kind, err := step.Kind()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		if err := r.runStep(gb, step, kind); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, kind, err)
		}
	}

	r.logger.Debug("graded course",
		zap.String("course", r.cfg.Gradr.Course),
		zap.Int("steps", len(r.cfg.Gradr.Steps)),
		zap.Duration("elapsed", time.Since(start)))
	return gb, nil
}

// Written returns the sheets the last Run wrote, in order.
func (r *Runner) Written() []string {
	return append([]string(nil), r.written...)
}

func (r *Runner) runStep(gb *gradebook.Gradebook, step config.Step, kind string) error {
	log := r.logger.With(zap.String("step", kind))

	switch kind {
	case config.KindImport:
		rows, err := sheet.ReadFile(r.path(step.Import))
		if err != nil {
			return err
		}
		if err := gb.ImportScores(rows); err != nil {
			return fmt.Errorf("%s: %w", step.Import, err)
		}
		log.Info("imported scores", zap.String("path", step.Import))

	case config.KindImportScaled:
		rows, err := sheet.ReadFile(r.path(step.ImportScaled))
		if err != nil {
			return err
		}
		if err := gb.ImportScaledScores(rows); err != nil {
			return fmt.Errorf("%s: %w", step.ImportScaled, err)
		}
		log.Info("imported scaled scores", zap.String("path", step.ImportScaled))

	case config.KindGradescope:
		gs := step.Gradescope
		rows, err := sheet.ReadFile(r.path(gs.Input))
		if err != nil {
			return err
		}
		out, err := sheet.GradescopeRows(rows, gb.IDs())
		if err != nil {
			return fmt.Errorf("%s: %w", gs.Input, err)
		}
		if err := sheet.WriteFile(r.path(gs.Output), out); err != nil {
			return err
		}
		log.Info("converted gradescope export",
			zap.String("input", gs.Input),
			zap.String("output", gs.Output),
			zap.Int("students", len(out)-1))

	case config.KindFold:
		f := step.Fold
		if err := gb.FoldCategories(f.Sources, f.Weights, f.Into, f.DeleteSources); err != nil {
			return err
		}
		log.Info("folded categories", zap.Strings("sources", f.Sources), zap.String("into", f.Into))

	case config.KindGrade:
		g := step.Grade
		scale, err := r.cfg.ScaleNamed(g.Scale)
		if err != nil {
			return err
		}
		cutoffs, err := gradebook.NewCutoffs(scale, g.Cutoffs)
		if err != nil {
			return fmt.Errorf("%s: %w", g.Category, err)
		}
		if err := gb.ApplyCutoffs(g.Category, cutoffs); err != nil {
			return err
		}
		log.Info("assigned grades", zap.String("category", g.Category))

	case config.KindCompose:
		c := step.Compose
		formula, err := policy.Compile(c.Formula)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Category, err)
		}
		if err := formula.Apply(gb, c.Category); err != nil {
			return fmt.Errorf("%s: %w", c.Category, err)
		}
		log.Info("composed category", zap.String("category", c.Category))

	default:
		return fmt.Errorf("unknown step kind %q", kind)
	}
	return nil
}

func (r *Runner) path(p string) string {
	return r.cfg.Resolve(r.baseDir, p)
}
