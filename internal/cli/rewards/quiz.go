package rewards

import (
	"fmt"

	"github.com/julianstephens/bobarewards/internal/cli"
	"github.com/julianstephens/bobarewards/internal/constants"
)

type QuizCmd struct {
	Show   QuizShowCmd   `cmd:"" help:"Show today's question." default:"1"`
	Answer QuizAnswerCmd `cmd:"" help:"Answer today's question."`
}

type QuizShowCmd struct{}

func (c *QuizShowCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	if !sess.QuizEnabled() {
		fmt.Println("The daily quiz is disabled. Enable it with 'bobarewards settings --quiz-enabled'.")
		return nil
	}

	p, err := sess.Snapshot(ctx.Context())
	if err != nil {
		return err
	}
	q := p.Quiz.Question
	gate := p.Quiz.Gate

	fmt.Printf("Quiz of the day (%s): %s\n\n", p.Today, q.Prompt)
	for i, opt := range q.Options {
		mark := " "
		if gate.Answered() && i == gate.AnsweredIndex {
			mark = "›"
		}
		fmt.Printf(" %s %d. %s\n", mark, i+1, opt)
	}
	fmt.Printf("\nStatus: %s\n", cli.QuizStatus(gate))
	if !gate.Answered() {
		fmt.Println("Answer with 'bobarewards quiz answer <number>'.")
	}
	return nil
}

type QuizAnswerCmd struct {
	Choice int `arg:"" help:"Option number, starting at 1."`
}

func (c *QuizAnswerCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}

	result, err := sess.AnswerQuiz(ctx.Context(), c.Choice-1)
	if err != nil {
		return err
	}

	switch {
	case result.AlreadyAnswered:
		fmt.Println("You already answered today's quiz. Come back tomorrow!")
	case result.Correct:
		fmt.Printf("🎉 Correct! +%d pts (balance %d)\n", constants.QuizPoints, result.Balance)
	default:
		fmt.Printf("Not quite. The answer was: %s\n", result.CorrectOption())
	}
	return nil
}
