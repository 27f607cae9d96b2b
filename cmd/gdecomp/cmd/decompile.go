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
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/alecthomas/chroma/v2/quick"
	"github.com/apex/log"
	"github.com/gdecomp/gdecomp/internal/colors"
	"github.com/gdecomp/gdecomp/internal/config"
	"github.com/gdecomp/gdecomp/internal/utils"
	"github.com/gdecomp/gdecomp/pkg/decompiler"
	"github.com/gdecomp/gdecomp/pkg/symtab"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(decompileCmd)
	decompileCmd.Flags().StringP("target", "t", "", "Target binary to decompile")
	decompileCmd.MarkFlagFilename("target")
	decompileCmd.Flags().StringP("output", "o", "", "Directory for the decompiler's output (default is a scratch dir)")
	decompileCmd.MarkFlagDirname("output")
	decompileCmd.Flags().Bool("keep", false, "Keep the decompiler's output directory")
	decompileCmd.Flags().String("theme", "", "Syntax highlight theme (default is github-dark)")
	decompileCmd.Flags().Bool("no-highlight", false, "Disable syntax highlighting")
	viper.BindPFlag("decompile.target", decompileCmd.Flags().Lookup("target"))
	viper.BindPFlag("decompile.output", decompileCmd.Flags().Lookup("output"))
	viper.BindPFlag("decompile.keep", decompileCmd.Flags().Lookup("keep"))
	viper.BindPFlag("decompile.theme", decompileCmd.Flags().Lookup("theme"))
	viper.BindPFlag("decompile.no-highlight", decompileCmd.Flags().Lookup("no-highlight"))
}

// decompileCmd represents the decompile command
var decompileCmd = &cobra.Command{
	Use:   "decompile <function>",
	Short: "Decompile a function in the target binary",
	Example: heredoc.Doc(`
		# decompile main in ./a.out
		❯ gdecomp decompile --target ./a.out main

		# an ambiguous name lists the candidates instead
		❯ gdecomp decompile --target ./a.out fo
		   ⨯ multiple functions match "fo", retry with one of:
		      foo
		      foobar`),
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Verbose {
			log.SetLevel(log.DebugLevel)
		}

		conf, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if t := viper.GetString("decompile.target"); t != "" {
			conf.Target = t
		}
		if conf.Target == "" {
			return fmt.Errorf("no target binary: use --target or set 'target' in the config file")
		}
		conf.Target = filepath.Clean(conf.Target)

		funcName := args[0]

		tbl, err := symtab.Open(conf.Target)
		if err != nil {
			return err
		}

		r := decompiler.New(&decompiler.Config{
			Target:    conf.Target,
			GhidraDir: conf.Ghidra.Dir,
			Tool:      conf.Ghidra.Tool,
			Output:    conf.Decompile.Output,
			Keep:      conf.Decompile.Keep,
		}, tbl)

		sym, err := r.Resolve(funcName)
		if err != nil {
			var amb *decompiler.AmbiguousNameError
			if errors.As(err, &amb) {
				log.Errorf("multiple functions match %q, retry with one of:", funcName)
				for _, name := range amb.Candidates {
					utils.Indent(log.Error, 2)(name)
				}
				return fmt.Errorf("ambiguous function name %q", funcName)
			}
			if errors.Is(err, decompiler.ErrNoSuchFunction) {
				return fmt.Errorf("no function matching %q in %s", funcName, conf.Target)
			}
			return err
		}

		log.WithFields(log.Fields{
			"function": sym.Name,
			"address":  fmt.Sprintf("%#x", sym.Address),
		}).Info("Decompiling")

		code, err := r.Decompile(sym)
		if err != nil {
			var fe *decompiler.FailedError
			if errors.As(err, &fe) {
				log.WithField("tool", fe.Tool).Error("decompilation failed")
				if len(fe.Output) > 0 {
					fmt.Fprint(os.Stderr, fe.Output)
				}
				return fmt.Errorf("failed to decompile %s", sym.Name)
			}
			return err
		}

		if viper.GetBool("decompile.no-highlight") || !colors.Enabled() {
			fmt.Println(code)
			return nil
		}

		var buf bytes.Buffer
		if err := quick.Highlight(&buf, "\n"+code+"\n", "c", "terminal256", conf.Decompile.Theme); err != nil {
			// fall back to plain output rather than fail a finished decompilation
			fmt.Println(code)
			return nil
		}
		fmt.Println(buf.String())

		return nil
	},
}
