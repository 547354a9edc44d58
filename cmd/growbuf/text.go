package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pavanmanishd/growbuf"
)

func newTextCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "text [string...]",
		Short: "Build text with inserts, a formatted insert and a mid-text insert",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.cfg.NewTextBuilder(a.options()...)
			if err != nil {
				return err
			}
			defer t.Release()
			return runText(cmd.OutOrStdout(), t, args)
		},
	}
}

func runText(out io.Writer, t *growbuf.TextBuilder, extra []string) error {
	show := func() { fmt.Fprintf(out, "%d %d %s\n", t.Len(), t.Cap(), t) }

	if _, err := t.InsertString("Hello Word!"); err != nil {
		return err
	}
	show()
	if _, err := t.InsertFormatted("Float %f Int %d Hex %X", 1424232.653942, 0x12345678, 0x12345678); err != nil {
		return err
	}
	show()
	if err := t.SetWriteOffset(11); err != nil {
		return err
	}
	if _, err := t.InsertString("How Are you?"); err != nil {
		return err
	}
	show()
	for _, s := range extra {
		if _, err := t.WriteString(s); err != nil {
			return err
		}
		show()
	}
	return nil
}
