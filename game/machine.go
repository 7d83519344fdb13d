package game

import "time"

// Outcome classifies a single guess submission.
type Outcome string

const (
	OutcomeAlreadyCompleted Outcome = "already_completed"
	OutcomeNoGuess          Outcome = "no_guess"
	OutcomeTooFewHandles    Outcome = "too_few_handles"
	OutcomeTooManyHandles   Outcome = "too_many_handles"
	OutcomePartialMatch     Outcome = "partial_match"
	OutcomeSolved           Outcome = "solved"
)

// Policy selects how strictly the handle count is enforced.
//
// PolicyStrict requires the guess to name exactly the expected number of
// handles before a match is even considered; naming more than expected
// flags the user. PolicyLenient scores whatever handles are present.
type Policy string

const (
	PolicyStrict  Policy = "strict"
	PolicyLenient Policy = "lenient"
)

// ParsePolicy maps a config string to a Policy, defaulting to strict.
func ParsePolicy(s string) Policy {
	if s == string(PolicyLenient) {
		return PolicyLenient
	}
	return PolicyStrict
}

// Machine applies one riddle's scoring rules to user state.
//
// Answers is the secret solution set. Extract pulls candidate handles out
// of raw message text; Match decides whether one answer is satisfied by
// the text. Both default to the mention-based rules in mentions.go.
// With Cumulative set, answers found across separate submissions add up
// and the task completes once every answer has been seen.
type Machine struct {
	TaskID     string
	Answers    []string
	Policy     Policy
	Cumulative bool

	Extract func(text string) []string
	Match   func(text, answer string) bool
	Now     func() time.Time
}

// SubmitGuess scores rawText against the machine's answers and mutates
// the user's task record accordingly. A submission with no recognizable
// handles leaves the record untouched.
func (m Machine) SubmitGuess(user *User, rawText string) Outcome {
	task := user.EnsureTask(m.TaskID)
	if task.Completed() {
		return OutcomeAlreadyCompleted
	}

	extract := m.Extract
	if extract == nil {
		extract = ExtractMentions
	}
	handles := extract(rawText)
	if len(handles) == 0 {
		return OutcomeNoGuess
	}

	task.Attempts++
	task.MergeGuesses(handles)

	match := m.Match
	if match == nil {
		match = MentionMatch
	}
	matched := 0
	for _, a := range m.Answers {
		if match(rawText, a) {
			matched++
		}
	}

	if m.Cumulative && m.covered(task) {
		m.complete(task)
		return OutcomeSolved
	}

	if m.Policy == PolicyStrict {
		switch {
		case len(handles) < len(m.Answers):
			return OutcomeTooFewHandles
		case len(handles) > len(m.Answers):
			user.Suspicious = true
			return OutcomeTooManyHandles
		}
	}

	if matched == len(m.Answers) {
		m.complete(task)
		return OutcomeSolved
	}
	return OutcomePartialMatch
}

// Found reports how many answers the task's accumulated guesses cover.
func (m Machine) Found(task *Task) int {
	if task == nil {
		return 0
	}
	match := m.Match
	if match == nil {
		match = MentionMatch
	}
	n := 0
	for _, a := range m.Answers {
		for _, g := range task.Guesses {
			if match(g, a) {
				n++
				break
			}
		}
	}
	return n
}

func (m Machine) covered(task *Task) bool {
	return len(m.Answers) > 0 && m.Found(task) == len(m.Answers)
}

func (m Machine) complete(task *Task) {
	now := m.Now
	if now == nil {
		now = time.Now
	}
	ts := now().UTC()
	task.CompletedAt = &ts
}
