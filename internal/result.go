package internal

// Result is what an action hands back to the dispatcher. A terminal result
// ends the request: callers up the chain must return it unchanged instead
// of continuing with their own work.
type Result struct {
	Response *Response
	Terminal bool
}

// Continue wraps a response that callers may still inspect or extend.
func Continue(resp *Response) Result {
	return Result{Response: resp}
}

// Terminate wraps a response that must be sent as-is.
func Terminate(resp *Response) Result {
	return Result{Response: resp, Terminal: true}
}
