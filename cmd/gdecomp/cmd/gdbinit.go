/*
Copyright © 2025 gdecomp

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
	"os"
	"text/template"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

// gdbStub registers a `decompile` command inside a live GDB session that
// forwards to this binary with the inferior's executable as the target.
const gdbStub = `import subprocess

import gdb


class GDecompCommand(gdb.Command):
    """Decompile a function in the current target via gdecomp."""

    def __init__(self):
        super(GDecompCommand, self).__init__("decompile", gdb.COMMAND_DATA)

    def invoke(self, arg, from_tty):
        self.dont_repeat()
        args = arg.split()
        if len(args) != 1:
            gdb.write("usage: decompile <function>\n", gdb.STDERR)
            return
        progspace = gdb.current_progspace()
        if progspace is None or not progspace.filename:
            gdb.write("decompile: no target is loaded\n", gdb.STDERR)
            return
        proc = subprocess.run(
            ["{{ .Binary }}", "decompile", "--color",
             "--target", progspace.filename, args[0]],
            capture_output=True, text=True)
        if proc.stderr:
            gdb.write(proc.stderr, gdb.STDERR)
        if proc.returncode == 0:
            gdb.write(proc.stdout)


GDecompCommand()
`

func init() {
	rootCmd.AddCommand(gdbinitCmd)
	gdbinitCmd.Flags().String("binary", "", "Path of the gdecomp binary the stub should invoke (default is this executable)")
}

// gdbinitCmd represents the gdbinit command
var gdbinitCmd = &cobra.Command{
	Use:   "gdbinit",
	Short: "Generate the GDB stub that registers the decompile command",
	Long: heredoc.Doc(`
		Generate the python stub that registers a 'decompile' command in a GDB
		session. The stub asks GDB for the current target's executable and
		forwards the request to this binary.

		Install it with:

		  ❯ gdecomp gdbinit > ~/.config/gdecomp/gdecomp-gdb.py
		  ❯ echo 'source ~/.config/gdecomp/gdecomp-gdb.py' >> ~/.gdbinit`),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		binary, _ := cmd.Flags().GetString("binary")
		if binary == "" {
			exe, err := os.Executable()
			if err != nil {
				return err
			}
			binary = exe
		}

		tmpl, err := template.New("gdbinit").Parse(gdbStub)
		if err != nil {
			return err
		}

		return tmpl.Execute(os.Stdout, struct{ Binary string }{Binary: binary})
	},
}
