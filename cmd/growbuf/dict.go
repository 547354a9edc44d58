package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pavanmanishd/growbuf"
)

func newDictCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dict [key=value...]",
		Short: "Set keys in a sorted dictionary and list it in key order",
		Long: `dict sets a=X, b=Y and a=Z, then any key=value pairs given as
arguments, and prints the entries in key order.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.cfg.NewDictionary(a.options()...)
			if err != nil {
				return err
			}
			defer d.Release()
			return runDict(cmd.OutOrStdout(), d, args)
		},
	}
}

func runDict(out io.Writer, d *growbuf.Dictionary, pairs []string) error {
	sets := [][2]string{{"a", "X"}, {"b", "Y"}, {"a", "Z"}}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			return fmt.Errorf("%w: expected key=value, got %q", growbuf.ErrInvalidArgument, p)
		}
		sets = append(sets, [2]string{k, v})
	}
	for _, kv := range sets {
		if _, err := d.Set([]byte(kv[0]), growbuf.CopyString(kv[1])); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "entries: %d\n", d.Len())
	for k, v := range d.All() {
		fmt.Fprintf(out, "%s = %s\n", k, v)
	}
	if v, ok := d.Get([]byte("a")); ok {
		fmt.Fprintf(out, "get a: %s\n", v)
	}
	return nil
}
