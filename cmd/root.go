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
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eslsoft/masterly/internal/adapter/mapping"
)

const (
	logLevelKey  = "log.level"
	logFormatKey = "log.format"
	conceptsKey  = "data.concepts"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "masterly",
	Short: "Spaced-repetition study tracking and adaptive practice tests",
	Long: `masterly schedules concept reviews with an SM-2 derived algorithm, flags weak spots,
runs adaptive practice tests from a question bank and analyzes graded answers.

Study state is kept in a YAML or JSON snapshot file (--concepts).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it, exiting with a code derived
// from the returned error.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	code := mapping.ExitCode(err)
	var usage usageError
	if errors.As(err, &usage) {
		code = mapping.ExitUsage
	}
	os.Exit(code)
}

// usageError marks invalid command line input.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "log format (json or text)")
	rootCmd.PersistentFlags().String("concepts", "masterly.yaml", "study state snapshot file (.yaml, .yml or .json)")

	bindFlagToViper(logLevelKey, rootCmd.PersistentFlags().Lookup("log-level"))
	bindFlagToViper(logFormatKey, rootCmd.PersistentFlags().Lookup("log-format"))
	bindFlagToViper(conceptsKey, rootCmd.PersistentFlags().Lookup("concepts"))
}
