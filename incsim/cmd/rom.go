package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sarchlab/incsim/rom"
)

func newROMCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rom [instr|data <file>]",
		Short: "Convert firmware images into VHDL ROM text.",
		Long: "`rom` converts the instruction and data images found in --dir. " +
			"`rom instr <file>` and `rom data <file>` convert a single image. " +
			"Each image is written next to its input with a .txt extension.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("accepts 0 or 2 args, received %d", len(args))
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				kind, err := rom.ParseKind(args[0])
				if err != nil {
					return err
				}

				return convertROM(cmd, filepath.Dir(args[1]),
					filepath.Base(args[1]), kind)
			}

			dir, _ := cmd.Flags().GetString("dir")
			instr, _ := cmd.Flags().GetString("instr")
			data, _ := cmd.Flags().GetString("data")

			outputs, err := rom.ConvertAll(dir,
				rom.Image{Name: instr, Kind: rom.Instruction},
				rom.Image{Name: data, Kind: rom.Data},
			)
			reportGenerated(cmd, outputs...)

			return err
		},
	}

	cmd.Flags().String("dir", "bin", "directory holding the images")
	cmd.Flags().String("instr", rom.InstructionImage, "instruction image")
	cmd.Flags().String("data", rom.DataImage, "read-only data image")

	return cmd
}

func convertROM(cmd *cobra.Command, dir, name string, kind rom.Kind) error {
	out, err := rom.ConvertFile(dir, name, kind)
	if err != nil {
		return err
	}

	reportGenerated(cmd, out)

	return nil
}

func reportGenerated(cmd *cobra.Command, outputs ...string) {
	for _, out := range outputs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s generated.\n", filepath.Base(out))
	}
}
