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
)

var resolveCmd = &cobra.Command{
	Use:   "resolve WEAK_SPOT_ID",
	Short: "Mark a weak spot as resolved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		spot, err := c.Study.ResolveWeakSpot(ctx, args[0])
		if err != nil {
			return err
		}
		if err := persist(ctx, c); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), spot)
	},
}

var weakSpotsCmd = &cobra.Command{
	Use:   "weak-spots",
	Short: "List flagged weak spots, most missed first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		learner := mustString(cmd.Flags().GetString("learner"))
		includeResolved, _ := cmd.Flags().GetBool("all")

		c, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		spots, err := c.Study.ListWeakSpots(ctx, learner, includeResolved)
		if err != nil {
			return err
		}
		if spots == nil {
			spots = []entity.WeakSpot{}
		}
		return printJSON(cmd.OutOrStdout(), spots)
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(weakSpotsCmd)

	weakSpotsCmd.Flags().String("learner", "", "only list this learner's weak spots")
	weakSpotsCmd.Flags().Bool("all", false, "include resolved weak spots")
}
