package onboarding

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Control tokens recognised on any answer line.
const (
	tokenSkip = "skip"
	tokenBack = "back"
)

var quitTokens = map[string]bool{"quit": true, "exit": true, "bye": true}

// skipPlaceholder is substituted when the user skips a question.
const skipPlaceholder = "I'd prefer to skip this question."

// ErrQuit is returned when the user types a quit token. The session ends
// immediately; nothing from the in-flight stage is persisted.
var ErrQuit = errors.New("user quit")

// LogEntry is one question/answer exchange in the conversation log.
type LogEntry struct {
	Timestamp time.Time
	Agent     string
	Question  string
	Answer    string
}

// Runner drives the scripted Q&A over a line-oriented reader/writer pair.
type Runner struct {
	in        *bufio.Scanner
	out       io.Writer
	agentName string

	transcript []LogEntry
}

// NewRunner creates a Runner reading answers from in and writing prompts to
// out. agentName labels the asking persona in prompts and the log.
func NewRunner(in io.Reader, out io.Writer, agentName string) *Runner {
	return &Runner{
		in:        bufio.NewScanner(in),
		out:       out,
		agentName: agentName,
	}
}

// Transcript returns the conversation log accumulated so far.
func (r *Runner) Transcript() []LogEntry {
	return r.transcript
}

// Run walks the question script and returns the collected answers.
//
// Line protocol: quit/exit/bye end the session (ErrQuit); "skip" records a
// fixed placeholder and moves on; "back" moves to the previous question, a
// no-op re-prompt at the first; an empty line re-prompts. After the script,
// a summary is shown and the user confirms with y — answering anything else
// restarts the script (previous answers become defaults shown in prompts).
func (r *Runner) Run() (map[string]string, error) {
	answers := make(map[string]string)

	for {
		if err := r.askAll(answers); err != nil {
			return nil, err
		}

		r.printSummary(answers)
		confirm, err := r.readLine("Does this look correct? (y/n): ")
		if err != nil {
			return nil, err
		}
		if quitTokens[strings.ToLower(confirm)] {
			return nil, ErrQuit
		}
		if strings.EqualFold(confirm, "y") || strings.EqualFold(confirm, "yes") {
			return answers, nil
		}
		fmt.Fprintln(r.out, "Let's go through the questions again.")
	}
}

// askAll runs the question script once, mutating answers in place.
func (r *Runner) askAll(answers map[string]string) error {
	idx := 0
	for idx < len(Script) {
		q := Script[idx]

		line, err := r.ask(q)
		if err != nil {
			return err
		}

		switch strings.ToLower(line) {
		case tokenBack:
			if idx > 0 {
				idx--
			} else {
				fmt.Fprintln(r.out, "You're already at the first question.")
			}
			continue
		case tokenSkip:
			line = skipPlaceholder
		}

		r.record(q.Prompt, line)
		answers[q.Key] = line
		idx++
	}
	return nil
}

// ask prompts a single question and returns a non-empty answer line or a
// control token. Empty lines re-prompt.
func (r *Runner) ask(q Question) (string, error) {
	fmt.Fprintf(r.out, "\n%s: %s\n", r.agentName, q.Prompt)
	for {
		line, err := r.readLine("Your answer: ")
		if err != nil {
			return "", err
		}
		if quitTokens[strings.ToLower(line)] {
			return "", ErrQuit
		}
		if line == "" {
			fmt.Fprintln(r.out, "Please provide an answer, or type 'skip' to skip this question.")
			continue
		}
		return line, nil
	}
}

func (r *Runner) readLine(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if !r.in.Scan() {
		if err := r.in.Err(); err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(r.in.Text()), nil
}

func (r *Runner) record(question, answer string) {
	r.transcript = append(r.transcript, LogEntry{
		Timestamp: time.Now().UTC(),
		Agent:     r.agentName,
		Question:  question,
		Answer:    answer,
	})
}

func (r *Runner) printSummary(answers map[string]string) {
	fmt.Fprintln(r.out, "\nProfile summary")
	fmt.Fprintln(r.out, strings.Repeat("-", 40))
	for _, q := range Script {
		v := answers[q.Key]
		if v == "" {
			v = "n/a"
		}
		fmt.Fprintf(r.out, "  %s: %s\n", q.Key, v)
	}
	fmt.Fprintln(r.out, strings.Repeat("-", 40))
}

// AskFeedback runs the post-presentation feedback questions. Quit tokens
// and EOF end feedback collection without error; blank answers are skipped.
func (r *Runner) AskFeedback() map[string]string {
	questions := []string{
		"How satisfied are you with these recommendations? (1-10)",
		"Which project interests you most?",
		"Is there anything you'd like to see in future recommendations?",
	}

	feedback := make(map[string]string)
	for _, q := range questions {
		fmt.Fprintf(r.out, "\n%s\n", q)
		line, err := r.readLine("Your answer: ")
		if err != nil || quitTokens[strings.ToLower(line)] {
			break
		}
		if line == "" {
			continue
		}
		r.record(q, line)
		feedback[q] = line
	}
	return feedback
}
