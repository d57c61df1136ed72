package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/creamcroissant/subconv/internal/convert"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "sample",
		Short: "Print sample share links",
		Long:  "Print a demo batch of share links. Pipe it into \"subconv convert\" to try the converter.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), convert.SampleInput+"\n")
			return err
		},
	})
}
