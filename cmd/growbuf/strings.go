package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pavanmanishd/growbuf"
)

func newStringsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "strings",
		Short: "Push, insert, search, delete and pop on a string vector",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := a.cfg.NewStringVector(a.options()...)
			if err != nil {
				return err
			}
			defer v.Release()
			return runStrings(cmd.OutOrStdout(), v)
		},
	}
}

func runStrings(out io.Writer, v *growbuf.StringVector) error {
	show := func() {
		m := v.IndexMetrics()
		b := v.Metrics()
		fmt.Fprintf(out, "strings: %d/%d buffer: %d/%d\n", m.SizeInUse, m.Capacity, b.SizeInUse, b.Capacity)
		for i, s := range v.All() {
			off, _ := v.Offset(i)
			fmt.Fprintf(out, "%d @%d = '%s'\n", i, off, s)
		}
	}

	show()
	for _, s := range []string{"Hello World!", "How Are you?", "Im fine."} {
		if err := v.Push(s); err != nil {
			return err
		}
		show()
	}
	if err := v.Insert(1, "Thank you!"); err != nil {
		return err
	}
	show()

	fmt.Fprintf(out, "%d %t %d %t\n",
		v.Search("hello world!", true), v.Has("hello world!", true),
		v.Search("hello world!", false), v.Has("hello world!", false))

	if err := v.Delete(1); err != nil {
		return err
	}
	show()
	if err := v.Pop(); err != nil {
		return err
	}
	show()
	return nil
}
