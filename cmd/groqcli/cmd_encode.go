package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var encodeDataURI bool

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().BoolVar(&encodeDataURI, "data-uri", false, "print a data: URI instead of bare base64")
}

var encodeCmd = &cobra.Command{
	Use:   "encode <image>",
	Short: "Print the base64 encoding of a local image or http(s) URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		resolver := newResolver(cfg)

		var (
			out string
			err error
		)
		if encodeDataURI {
			out, err = resolver.DataURI(cmd.Context(), args[0])
		} else {
			out, err = resolver.Encode(cmd.Context(), args[0])
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}
