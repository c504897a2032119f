package review

import "github.com/abhisek/vocabdrill/internal/practice"

// turnReadyMsg is sent when the next item has been selected and its
// question generated.
type turnReadyMsg struct {
	Turn *practice.Turn
	Err  error
}

// judgedMsg is sent when an answer has been graded and scheduled.
type judgedMsg struct {
	Result *practice.Result
	Err    error
}

// masteredMsg is sent when the current item has been marked mastered.
type masteredMsg struct {
	Err error
}
