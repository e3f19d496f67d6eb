package agedpool

// reportInternalError reports an internal pool error.
//
// Internal errors are non-task failures such as unexpected runtime
// conditions inside the pool itself.
// If no handler is registered, the error is silently ignored.
func (p *Pool) reportInternalError(e error) {
	if p.opts.OnInternalError != nil {
		p.opts.OnInternalError(e)
	}
}

// reportTaskError reports the final error of a fire-and-forget task.
//
// Task errors do not stop pool execution. Tasks submitted through
// SubmitResult deliver their error via the completion handle instead.
func (p *Pool) reportTaskError(err error) {
	if p.opts.OnTaskError != nil {
		p.opts.OnTaskError(err)
	}
}
