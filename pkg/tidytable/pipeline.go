package tidytable

import "context"

// Verb is one table-to-table step: select, filter, group_by, summarize and
// friends. Apply must treat the input frame as read-only and return a new
// frame (or the input unchanged).
type Verb interface {
	Name() string
	Apply(ctx context.Context, f *Frame) (*Frame, error)
}

// Pipeline composes verbs left to right: the output of each step is the
// input of the next, so Add-chaining reads like a pipe.
type Pipeline struct {
	steps []Verb
}

func NewPipeline() *Pipeline { return &Pipeline{} }

func (p *Pipeline) Add(v Verb) *Pipeline {
	p.steps = append(p.steps, v)
	return p
}

func (p *Pipeline) Run(ctx context.Context, f *Frame) (*Frame, error) {
	var err error
	cur := f
	for _, v := range p.steps {
		cur, err = v.Apply(ctx, cur)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}
