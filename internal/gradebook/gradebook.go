package gradebook

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Gradebook is the in-memory table of students by categories.
type Gradebook struct {
	// names maps student id to display name.
	names map[string]string

	// order preserves roster order for consistent output.
	order []string

	// table holds scores by student id, then category.
	table map[string]map[string]Score

	// grades holds grades by student id, then category. Only categories
	// passed through cutoff assignment have entries.
	grades map[string]map[string]Grade

	// graded is the set of categories that have been assigned grades.
	graded map[string]struct{}

	scale  *Scale
	logger *zap.Logger
}

// Option configures a Gradebook.
type Option func(*Gradebook)

// WithScale sets the scale used by AssignGrades.
func WithScale(s *Scale) Option {
	return func(gb *Gradebook) {
		if s != nil {
			gb.scale = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(gb *Gradebook) {
		if l != nil {
			gb.logger = l
		}
	}
}

// New creates an empty gradebook.
func New(opts ...Option) *Gradebook {
	gb := &Gradebook{
		names:  make(map[string]string),
		order:  make([]string, 0),
		table:  make(map[string]map[string]Score),
		grades: make(map[string]map[string]Grade),
		graded: make(map[string]struct{}),
		scale:  DefaultScale(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(gb)
	}
	return gb
}

// Scale returns the default scale for grade assignment.
func (gb *Gradebook) Scale() *Scale {
	return gb.scale
}

// Len returns the number of students.
func (gb *Gradebook) Len() int {
	return len(gb.order)
}

// IDs returns all student ids in roster order.
func (gb *Gradebook) IDs() []string {
	return append([]string{}, gb.order...)
}

// Exists checks if a student is on the roster.
func (gb *Gradebook) Exists(id string) bool {
	_, ok := gb.table[id]
	return ok
}

// AddStudent puts a student on the roster with an empty row. Adding an
// existing id replaces the name and clears the row but keeps its position.
func (gb *Gradebook) AddStudent(id, name string) {
	if !gb.Exists(id) {
		gb.order = append(gb.order, id)
	}
	gb.names[id] = name
	gb.table[id] = make(map[string]Score)
	gb.grades[id] = make(map[string]Grade)
}

// Name returns a student's display name.
func (gb *Gradebook) Name(id string) (string, error) {
	if !gb.Exists(id) {
		return "", fmt.Errorf("%w: %q", ErrUnknownStudent, id)
	}
	return gb.names[id], nil
}

// Score returns a student's score in a category.
func (gb *Gradebook) Score(id, category string) (Score, error) {
	row, ok := gb.table[id]
	if !ok {
		return Score{}, fmt.Errorf("%w: %q", ErrUnknownStudent, id)
	}
	s, ok := row[category]
	if !ok {
		return Score{}, fmt.Errorf("%w: %q for student %q", ErrMissingCategory, category, id)
	}
	return s, nil
}

// SetScore stores a score for a student.
func (gb *Gradebook) SetScore(id, category string, s Score) error {
	row, ok := gb.table[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStudent, id)
	}
	row[category] = s
	return nil
}

// Grade returns a student's grade in a category.
func (gb *Gradebook) Grade(id, category string) (Grade, error) {
	row, ok := gb.grades[id]
	if !ok {
		return Grade{}, fmt.Errorf("%w: %q", ErrUnknownStudent, id)
	}
	g, ok := row[category]
	if !ok {
		return Grade{}, fmt.Errorf("%w: %q has no grade for student %q", ErrMissingCategory, category, id)
	}
	return g, nil
}

// Categories returns a student's categories, sorted.
func (gb *Gradebook) Categories(id string) ([]string, error) {
	row, ok := gb.table[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStudent, id)
	}
	cats := make([]string, 0, len(row))
	for c := range row {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats, nil
}

// CheckCategory verifies that every student has the category.
func (gb *Gradebook) CheckCategory(category string) error {
	for _, id := range gb.order {
		if _, ok := gb.table[id][category]; !ok {
			return fmt.Errorf("%w: %q for student %q", ErrMissingCategory, category, id)
		}
	}
	return nil
}

// IsGraded returns true if the category has been assigned grades.
func (gb *Gradebook) IsGraded(category string) bool {
	_, ok := gb.graded[category]
	return ok
}

// GradedCategories returns the graded categories, sorted.
func (gb *Gradebook) GradedCategories() []string {
	cats := make([]string, 0, len(gb.graded))
	for c := range gb.graded {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

// FoldCategories combines source categories into newCategory using weights.
// Missing sources contribute zero. When deleteSources is set, each
// student's sources are removed right after that student's total is
// written. Fails on the first student lacking a source; students already
// processed keep their new totals.
func (gb *Gradebook) FoldCategories(sources []string, weights []float64, newCategory string, deleteSources bool) error {
	if len(sources) != len(weights) {
		return fmt.Errorf("%w: %d categories but %d weights", ErrInvalidInput, len(sources), len(weights))
	}
	if len(sources) == 0 {
		return fmt.Errorf("%w: nothing to fold into %q", ErrInvalidInput, newCategory)
	}

	for _, id := range gb.order {
		row := gb.table[id]
		var total float64
		for i, cat := range sources {
			s, ok := row[cat]
			if !ok {
				return fmt.Errorf("%w: %q for student %q", ErrMissingCategory, cat, id)
			}
			total += weights[i] * s.Value()
		}
		if !finite(total) {
			return fmt.Errorf("%w: %q total for student %q is not finite", ErrInvalidInput, newCategory, id)
		}
		if deleteSources {
			for _, cat := range sources {
				delete(row, cat)
			}
		}
		row[newCategory] = NewScore(total)
	}

	gb.logger.Debug("folded categories",
		zap.Strings("sources", sources),
		zap.Float64s("weights", weights),
		zap.String("into", newCategory),
		zap.Bool("delete_sources", deleteSources))
	return nil
}

// AssignGrades grades a category against bounds on the gradebook's scale.
func (gb *Gradebook) AssignGrades(category string, bounds []float64) error {
	c, err := NewCutoffs(gb.scale, bounds)
	if err != nil {
		return err
	}
	return gb.ApplyCutoffs(category, c)
}

// ApplyCutoffs grades a category for every student and marks it graded.
// Reassigning a graded category recomputes it.
func (gb *Gradebook) ApplyCutoffs(category string, c Cutoffs) error {
	if c.scale == nil {
		return fmt.Errorf("%w: cutoffs have no scale", ErrInvalidInput)
	}
	for _, id := range gb.order {
		s, ok := gb.table[id][category]
		if !ok {
			return fmt.Errorf("%w: %q for student %q", ErrMissingCategory, category, id)
		}
		g, err := c.Assign(s)
		if err != nil {
			return fmt.Errorf("student %q: %w", id, err)
		}
		gb.grades[id][category] = g
	}
	gb.graded[category] = struct{}{}

	gb.logger.Debug("assigned grades",
		zap.String("category", category),
		zap.Int("students", len(gb.order)))
	return nil
}

// Row is a read-only view of one student's scores and grades.
type Row struct {
	ID   string
	Name string
	gb   *Gradebook
}

// Score returns the student's score in category.
func (r Row) Score(category string) (Score, error) {
	return r.gb.Score(r.ID, category)
}

// Grade returns the student's grade in category.
func (r Row) Grade(category string) (Grade, error) {
	return r.gb.Grade(r.ID, category)
}

// Row returns the view for one student.
func (gb *Gradebook) Row(id string) (Row, error) {
	if !gb.Exists(id) {
		return Row{}, fmt.Errorf("%w: %q", ErrUnknownStudent, id)
	}
	return Row{ID: id, Name: gb.names[id], gb: gb}, nil
}

// Derive computes category for every student from that student's row.
// Fails on the first error; earlier students keep their values.
func (gb *Gradebook) Derive(category string, f func(Row) (Score, error)) error {
	for _, id := range gb.order {
		s, err := f(Row{ID: id, Name: gb.names[id], gb: gb})
		if err != nil {
			return fmt.Errorf("student %q: %w", id, err)
		}
		gb.table[id][category] = s
	}

	gb.logger.Debug("derived category", zap.String("category", category))
	return nil
}
