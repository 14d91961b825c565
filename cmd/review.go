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
	"strings"

	"github.com/spf13/cobra"

	"github.com/eslsoft/masterly/internal/entity"
	"github.com/eslsoft/masterly/internal/usecase"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Record one review of a concept and reschedule it",
	Example: `  masterly review --learner ana --course "BIO 101" --topic Cells --concept Mitosis --quality 4
  masterly review --learner ana --course "BIO 101" --topic Cells --concept Mitosis --correct=false --time 8 --answer "anaphase"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		flags := cmd.Flags()

		key := entity.ConceptKey{
			LearnerID: mustString(flags.GetString("learner")),
			Course:    mustString(flags.GetString("course")),
			Topic:     mustString(flags.GetString("topic")),
			Concept:   mustString(flags.GetString("concept")),
		}.Normalize()
		if !key.Valid() {
			return usagef("--learner, --course, --topic and --concept are required")
		}

		req := usecase.ReviewRequest{Key: key}
		req.Answer, _ = flags.GetString("answer")
		req.WasCorrect, _ = flags.GetBool("correct")
		if flags.Changed("quality") {
			q, _ := flags.GetInt("quality")
			req.Quality = &q
			if !flags.Changed("correct") {
				req.WasCorrect = q >= entity.PassingQuality
			}
		}
		if flags.Changed("time") {
			secs, _ := flags.GetFloat64("time")
			if secs < 0 {
				return usagef("--time must not be negative")
			}
			req.TimeTakenSeconds = &secs
		}

		c, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		if _, err := c.Study.RegisterConcepts(ctx, key.LearnerID, key.Course, key.Topic, []string{key.Concept}); err != nil {
			return err
		}
		res, err := c.Study.RecordReview(ctx, req)
		if err != nil {
			return err
		}
		if err := persist(ctx, c); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

func mustString(v string, _ error) string {
	return strings.TrimSpace(v)
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().String("learner", "", "learner id")
	reviewCmd.Flags().String("course", "", "course name")
	reviewCmd.Flags().String("topic", "", "topic name")
	reviewCmd.Flags().String("concept", "", "concept name")
	reviewCmd.Flags().Int("quality", 0, "recall quality 0-5; derived from --correct and --time when omitted")
	reviewCmd.Flags().Bool("correct", true, "whether the concept was recalled correctly")
	reviewCmd.Flags().Float64("time", 0, "seconds taken to answer")
	reviewCmd.Flags().String("answer", "", "the learner's answer, kept for weak-spot diagnostics")
}
