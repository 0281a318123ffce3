package vsearch

import "context"

// Recording wraps a Runner and retains every result, including failed
// ones, so callers can log what was actually executed
type Recording struct {
	Inner   Runner
	Results []*RunResult
}

var _ Runner = (*Recording)(nil)

// Run delegates to the inner runner and records the result
func (r *Recording) Run(ctx context.Context, args ...string) (*RunResult, error) {
	result, err := r.Inner.Run(ctx, args...)
	if result != nil {
		r.Results = append(r.Results, result)
	}
	return result, err
}

// Last returns the most recent result, or nil
func (r *Recording) Last() *RunResult {
	if len(r.Results) == 0 {
		return nil
	}
	return r.Results[len(r.Results)-1]
}
