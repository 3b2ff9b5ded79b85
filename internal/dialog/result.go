package dialog

// resultKind enumerates what a step asks the engine to do next.
type resultKind int

const (
	kindPrompt resultKind = iota
	kindNext
	kindAdvance
	kindReplace
	kindComplete
	kindFail
)

// Result is the tagged outcome of one step execution. Use the constructors;
// the zero value is not a valid result.
type Result struct {
	kind     resultKind
	question string
	choices  []string
	dialog   string
	args     map[string]string
	reason   error
}

// Prompt suspends the dialog and asks a free-text question. The next inbound
// message is delivered to the same step.
func Prompt(question string) Result {
	return Result{kind: kindPrompt, question: question}
}

// Choice suspends the dialog and asks a question with an enumerated answer
// set, rendered as quick replies.
func Choice(question string, choices []string) Result {
	return Result{kind: kindPrompt, question: question, choices: choices}
}

// Next moves on to the following step of the same dialog.
func Next() Result {
	return Result{kind: kindNext}
}

// Advance pushes the named dialog as a child; the current dialog stays on the
// stack but is not automatically resumed when the child completes.
func Advance(dialog string, args map[string]string) Result {
	return Result{kind: kindAdvance, dialog: dialog, args: args}
}

// Replace swaps the current frame for the named dialog, tail-call style.
func Replace(dialog string, args map[string]string) Result {
	return Result{kind: kindReplace, dialog: dialog, args: args}
}

// Complete pops the current dialog's frame and ends the turn.
func Complete() Result {
	return Result{kind: kindComplete}
}

// Fail aborts the current dialog. The reason is logged for operators; the
// user sees a generic failure message. State written by earlier steps stays.
func Fail(reason error) Result {
	return Result{kind: kindFail, reason: reason}
}
