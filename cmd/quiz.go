/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/masterly/internal/adapter/fixture"
	"github.com/eslsoft/masterly/internal/entity"
	"github.com/eslsoft/masterly/internal/usecase"
	"github.com/eslsoft/masterly/internal/usecase/adaptive"
)

const (
	bankKey               = "data.bank"
	seedKey               = "quiz.seed"
	minQuestionsKey       = "adaptive.min_questions"
	maxQuestionsKey       = "adaptive.max_questions"
	startingDifficultyKey = "adaptive.starting_difficulty"
	targetAccuracyKey     = "adaptive.target_accuracy"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Run an interactive adaptive practice test",
	Long: `Runs an adaptive practice test over one course topic of a question bank.

Type the answer and press enter. For multiple choice questions the option letter (a-d) works too.
Type "hint" to reveal the next hint (the answer is then marked as hint-assisted) or "quit" to stop.
With --learner set, every answer also updates that learner's concept reviews.`,
	Example: `  masterly quiz --bank questions.yaml --course "BIO 101" --topic Cells --learner ana --max 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		flags := cmd.Flags()

		course := mustString(flags.GetString("course"))
		topic := mustString(flags.GetString("topic"))
		learner := mustString(flags.GetString("learner"))
		if course == "" || topic == "" {
			return usagef("--course and --topic are required")
		}
		bankPath := viper.GetString(bankKey)
		if bankPath == "" {
			return usagef("--bank is required")
		}

		c, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		bank, err := fixture.LoadQuestionBank(bankPath)
		if err != nil {
			return err
		}
		for _, pool := range bank.Pools {
			if err := c.Bank.Add(pool.Course, pool.Topic, pool.Questions...); err != nil {
				return err
			}
		}

		session, err := c.Practice.Start(ctx, usecase.StartRequest{LearnerID: learner, Course: course, Topic: topic})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		in := bufio.NewScanner(cmd.InOrStdin())
		fmt.Fprintf(out, "%s / %s: %d questions available\n", course, topic, len(session.Questions))

		for n := 1; ; n++ {
			q, ok, err := c.Practice.Next(ctx, session.ID)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			userAnswer, hintUsed, elapsed, quit := askQuestion(out, in, n, q)
			if quit {
				break
			}
			res, err := c.Practice.Answer(ctx, usecase.AnswerRequest{
				SessionID:  session.ID,
				QuestionID: q.ID,
				Answer:     userAnswer,
				TimeTaken:  elapsed.Seconds(),
				HintUsed:   hintUsed,
			})
			if err != nil {
				return err
			}
			printFeedback(out, res)
			if res.Finished {
				break
			}
		}

		summary, err := c.Practice.Finish(ctx, session.ID)
		if err != nil {
			return err
		}
		if learner != "" {
			if err := persist(ctx, c); err != nil {
				return err
			}
		}
		return printJSON(out, summary)
	},
}

// askQuestion prompts until an answer is given. It reports quit on "quit" or end of input.
func askQuestion(out io.Writer, in *bufio.Scanner, n int, q entity.TestQuestion) (string, bool, time.Duration, bool) {
	fmt.Fprintf(out, "\nQ%d [%s, %.1f] %s\n", n, q.Difficulty, q.DifficultyScore, q.Question)
	for i, opt := range q.Options {
		if i < 4 {
			fmt.Fprintf(out, "  %c) %s\n", 'a'+i, opt)
		} else {
			fmt.Fprintf(out, "  -  %s\n", opt)
		}
	}

	start := time.Now()
	hintsShown := 0
	for {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			return "", false, 0, true
		}
		line := strings.TrimSpace(in.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			return "", false, 0, true
		case "hint":
			if hintsShown >= len(q.Hints) {
				fmt.Fprintln(out, "no more hints")
				continue
			}
			fmt.Fprintf(out, "hint: %s\n", q.Hints[hintsShown])
			hintsShown++
			continue
		}
		return line, hintsShown > 0, time.Since(start), false
	}
}

func printFeedback(out io.Writer, res usecase.AnswerResult) {
	if res.Correct {
		fmt.Fprintln(out, "correct")
	} else {
		fmt.Fprintf(out, "incorrect, the answer is %q\n", res.CorrectAnswer)
	}
	if res.Explanation != "" {
		fmt.Fprintln(out, res.Explanation)
	}
}

func init() {
	rootCmd.AddCommand(quizCmd)

	def := adaptive.DefaultConfig()
	quizCmd.Flags().String("bank", "", "question bank file (.yaml, .yml or .json)")
	quizCmd.Flags().String("course", "", "course of the question pool")
	quizCmd.Flags().String("topic", "", "topic of the question pool")
	quizCmd.Flags().String("learner", "", "learner whose concept reviews are updated")
	quizCmd.Flags().Int64("seed", 0, "seed for question selection; 0 picks a time-based seed")
	quizCmd.Flags().Int("min", def.MinQuestions, "questions answered before the test may stop")
	quizCmd.Flags().Int("max", def.MaxQuestions, "hard cap on answered questions")
	quizCmd.Flags().Float64("start", def.StartingDifficulty, "starting difficulty (1-10)")
	quizCmd.Flags().Float64("target", def.TargetAccuracy, "accuracy the test converges on")

	bindFlagToViper(bankKey, quizCmd.Flags().Lookup("bank"))
	bindFlagToViper(seedKey, quizCmd.Flags().Lookup("seed"))
	bindFlagToViper(minQuestionsKey, quizCmd.Flags().Lookup("min"))
	bindFlagToViper(maxQuestionsKey, quizCmd.Flags().Lookup("max"))
	bindFlagToViper(startingDifficultyKey, quizCmd.Flags().Lookup("start"))
	bindFlagToViper(targetAccuracyKey, quizCmd.Flags().Lookup("target"))
}
