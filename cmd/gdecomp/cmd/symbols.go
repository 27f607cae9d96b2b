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
	"fmt"
	"path/filepath"

	"github.com/gdecomp/gdecomp/internal/colors"
	"github.com/gdecomp/gdecomp/internal/utils"
	"github.com/gdecomp/gdecomp/pkg/decompiler"
	"github.com/gdecomp/gdecomp/pkg/symtab"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(symbolsCmd)
	symbolsCmd.Flags().StringP("target", "t", "", "Target binary to search")
	symbolsCmd.MarkFlagFilename("target")
	viper.BindPFlag("symbols.target", symbolsCmd.Flags().Lookup("target"))
}

// symbolsCmd represents the symbols command
var symbolsCmd = &cobra.Command{
	Use:           "symbols <pattern>",
	Aliases:       []string{"syms"},
	Short:         "List function symbols matching a name",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		target := viper.GetString("symbols.target")
		if target == "" {
			target = viper.GetString("target")
		}
		if target == "" {
			return fmt.Errorf("no target binary: use --target or set 'target' in the config file")
		}
		target = filepath.Clean(target)

		tbl, err := symtab.Open(target)
		if err != nil {
			return err
		}
		syms, err := tbl.Functions()
		if err != nil {
			return err
		}

		matches := decompiler.Match(syms, args[0])
		if len(matches) == 0 {
			return fmt.Errorf("no function matching %q in %s", args[0], target)
		}

		width := 0
		for _, sym := range matches {
			if len(sym.Name) > width {
				width = len(sym.Name)
			}
		}
		for _, sym := range matches {
			fmt.Printf("%s%s %s\n",
				colors.Bold().Sprint(sym.Name),
				utils.Pad(width-len(sym.Name)),
				colors.Faint().Sprintf("%#09x", sym.Address))
		}

		return nil
	},
}
