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
	"github.com/spf13/cobra"

	"github.com/eslsoft/masterly/internal/entity"
	"github.com/eslsoft/masterly/internal/repository"
)

type conceptPage struct {
	Concepts []entity.StudyConcept `json:"concepts"`
	Total    int64                 `json:"total"`
}

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List concepts due for review",
	Example: `  masterly due --learner ana
  masterly due --learner ana --filter "mastery <= 50 && difficulty == 'hard'" --order-by "mastery asc"
  masterly due --all --filter "topic == 'Cells'" --page 2 --page-size 20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		flags := cmd.Flags()

		query := &repository.ListConceptQuery{LearnerID: mustString(flags.GetString("learner"))}
		query.Filter, _ = flags.GetString("filter")
		query.OrderBy, _ = flags.GetString("order-by")
		query.PageNo, _ = flags.GetInt32("page")
		query.PageSize, _ = flags.GetInt32("page-size")
		if query.PageNo < 0 || query.PageSize < 0 {
			return usagef("--page and --page-size must not be negative")
		}
		all, _ := flags.GetBool("all")

		c, err := bootstrap(ctx)
		if err != nil {
			return err
		}

		var page conceptPage
		if all {
			page.Concepts, page.Total, err = c.Concepts.List(ctx, query)
		} else {
			page.Concepts, page.Total, err = c.Study.ListDue(ctx, query)
		}
		if err != nil {
			return err
		}
		if page.Concepts == nil {
			page.Concepts = []entity.StudyConcept{}
		}
		return printJSON(cmd.OutOrStdout(), page)
	},
}

func init() {
	rootCmd.AddCommand(dueCmd)

	dueCmd.Flags().String("learner", "", "only list this learner's concepts")
	dueCmd.Flags().String("filter", "", "CEL filter over concept, course, topic, difficulty, mastery, ease_factor, next_review, archived")
	dueCmd.Flags().String("order-by", "", "order keys: next_review, mastery, concept, ease_factor (asc|desc)")
	dueCmd.Flags().Int32("page", 1, "page number, starting at 1")
	dueCmd.Flags().Int32("page-size", 0, "page size; 0 lists everything")
	dueCmd.Flags().Bool("all", false, "list every concept, not only those due today")
}
