package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newLEB128Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leb128",
		Short: "Encode and decode LEB128 / SLEB128 integers of any size",
	}

	var signed bool
	encode := &cobra.Command{
		Use:   "encode <int>",
		Short: "Print the canonical encoding of an integer as hex",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := encodeInt(args[0], signed)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res)
			return nil
		},
	}
	encode.Flags().BoolVarP(&signed, "signed", "s", false, "Use SLEB128")

	var decodeSigned bool
	decode := &cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode the first integer in a hex byte string",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := decodeInt(strings.Join(args, " "), decodeSigned)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res)
			return nil
		},
	}
	decode.Flags().BoolVarP(&decodeSigned, "signed", "s", false, "Use SLEB128")

	cmd.AddCommand(encode, decode)
	return cmd
}

func newUTF8Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "utf8",
		Short: "Strict UTF-8 validation",
	}

	check := &cobra.Command{
		Use:   "check [file|-]",
		Short: "Check that a file (or stdin) is well-formed UTF-8",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if len(args) == 0 || args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), checkUTF8(data))
			return nil
		},
	}

	cmd.AddCommand(check)
	return cmd
}

func newICURLCmd() *cobra.Command {
	var encode bool
	cmd := &cobra.Command{
		Use:   "icurl <url|hex>",
		Short: "Decode an ic: URL and print the payload as hex",
		Long:  "Decode an ic: URL and print the payload as hex. With --encode, build the URL for a hex payload instead.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			convert := decodeURL
			if encode {
				convert = encodeURL
			}
			out, err := convert(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&encode, "encode", false, "Treat the argument as a hex payload and print its ic: URL")
	return cmd
}
