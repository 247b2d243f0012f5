package runner

// Message is one line of output, shown when the run's verbosity is at
// least Verbosity.
type Message struct {
	Text      string
	Verbosity int
}

// Result is the outcome of processing one file.
type Result struct {
	Success  bool
	Messages []Message
}

func ok() Result { return Result{Success: true} }

// Join combines two results: both must succeed, and messages keep their
// order.
func (r Result) Join(other Result) Result {
	msgs := make([]Message, 0, len(r.Messages)+len(other.Messages))
	msgs = append(msgs, r.Messages...)
	msgs = append(msgs, other.Messages...)
	return Result{Success: r.Success && other.Success, Messages: msgs}
}

// Texts returns the text of every message visible at verbosity.
func (r Result) Texts(verbosity int) []string {
	var out []string
	for _, m := range r.Messages {
		if m.Verbosity <= verbosity {
			out = append(out, m.Text)
		}
	}
	return out
}

func (r *Result) add(verbosity int, text string) {
	r.Messages = append(r.Messages, Message{Text: text, Verbosity: verbosity})
}
