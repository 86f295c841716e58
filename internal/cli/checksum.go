package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/cwallet/internal/wallet"
)

// checksumCmd validates an address and prints its EIP-55 form.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var checksumCmd = &cobra.Command{
	Use:   "checksum <address>",
	Short: "Validate an address and print its EIP-55 checksummed form",
	Long: `Validate a 0x-prefixed EVM address and print it in EIP-55 mixed case.

All-lowercase and all-uppercase addresses are accepted. Mixed case must
already carry a correct checksum; a mismatch usually means a typo.

Example:
  cwallet checksum 0x9858effd232b4033e47d90003d41ec34ecaeda94`,
	Args: cobra.ExactArgs(1),
	RunE: runChecksum,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(checksumCmd)
}

// checksumResult is the checksum command output.
type checksumResult struct {
	Input       string `json:"input"`
	Address     string `json:"address"`
	Checksummed bool   `json:"input_checksummed"`
}

func runChecksum(cmd *cobra.Command, args []string) error {
	cc := GetCmdContext(cmd)
	input := strings.TrimSpace(args[0])

	if err := wallet.ValidateChecksumAddress(input); err != nil {
		return err
	}

	result := checksumResult{
		Input:       input,
		Address:     wallet.ToChecksumAddress(input),
		Checksummed: false,
	}
	result.Checksummed = result.Address == input

	return cc.Fmt.Result(result, func(w io.Writer) error {
		outln(w, result.Address)
		return nil
	})
}
