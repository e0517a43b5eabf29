package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/challenge-blueprint/internal/calculators"
	"github.com/yourusername/challenge-blueprint/internal/tools"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Trader calculators and utility tools",
}

var convertCmd = &cobra.Command{
	Use:   "convert <kind> <value>",
	Short: "Convert a value (" + strings.Join(tools.Conversions(), ", ") + ")",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := tools.Convert(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

var passwordOpts = tools.DefaultPasswordOptions()

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Generate a random password and score it",
	RunE: func(cmd *cobra.Command, args []string) error {
		pw, err := tools.GeneratePassword(passwordOpts)
		if err != nil {
			return err
		}
		s := tools.ScorePassword(pw)
		fmt.Fprintf(cmd.OutOrStdout(), "%s\nstrength: %s (%.0f bits)\n", pw, s.Label, s.EntropyBits)
		return nil
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score <password>",
	Short: "Score a password's strength",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeJSON(cmd.OutOrStdout(), tools.ScorePassword(args[0]))
	},
}

var (
	qrSize int
	qrOut  string
)

var qrCmd = &cobra.Command{
	Use:   "qr <content>",
	Short: "Write a QR code PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		png, err := tools.QRCodePNG(args[0], qrSize)
		if err != nil {
			return err
		}
		if err := os.WriteFile(qrOut, png, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", qrOut, len(png))
		return nil
	},
}

var lotSizeIn calculators.LotSizeInput

var lotSizeCmd = &cobra.Command{
	Use:   "lot-size",
	Short: "Position size for a balance, risk and stop loss",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("risk") {
			res, err := calculators.LotSize(lotSizeIn)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		}
		rows, err := calculators.LotSizeTable(lotSizeIn.AccountBalance, lotSizeIn.StopLossPips, lotSizeIn.PipValue)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), rows)
	},
}

func init() {
	fs := passwordCmd.Flags()
	fs.IntVar(&passwordOpts.Length, "length", passwordOpts.Length, "Password length")
	fs.BoolVar(&passwordOpts.Lower, "lower", passwordOpts.Lower, "Include lowercase letters")
	fs.BoolVar(&passwordOpts.Upper, "upper", passwordOpts.Upper, "Include uppercase letters")
	fs.BoolVar(&passwordOpts.Digits, "digits", passwordOpts.Digits, "Include digits")
	fs.BoolVar(&passwordOpts.Symbols, "symbols", passwordOpts.Symbols, "Include symbols")

	qrCmd.Flags().IntVar(&qrSize, "size", 256, "Image size in pixels")
	qrCmd.Flags().StringVarP(&qrOut, "out", "o", "qr.png", "Output file")

	fs = lotSizeCmd.Flags()
	fs.Float64Var(&lotSizeIn.AccountBalance, "balance", 10000, "Account balance")
	fs.Float64Var(&lotSizeIn.RiskPercent, "risk", 1, "Risk percent; omit for the per-style table")
	fs.Float64Var(&lotSizeIn.StopLossPips, "sl", 20, "Stop loss in pips")
	fs.Float64Var(&lotSizeIn.PipValue, "pip-value", calculators.DefaultPipValue, "Pip value per standard lot")

	toolsCmd.AddCommand(convertCmd, passwordCmd, scoreCmd, qrCmd, lotSizeCmd)
}
