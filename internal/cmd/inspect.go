package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/MeKo-Tech/noiselut/internal/lutstore"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <store>",
	Short: "List the buffers in a LUT store",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	r, err := lutstore.OpenReader(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	return writeInventory(cmd.OutOrStdout(), r)
}

func writeInventory(out io.Writer, r *lutstore.Reader) error {
	meta, err := r.Metadata()
	if err != nil {
		return err
	}
	infos, err := r.List()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "name:      %s\n", meta.Name)
	if meta.Description != "" {
		fmt.Fprintf(out, "desc:      %s\n", meta.Description)
	}
	fmt.Fprintf(out, "sampling:  %s\n", meta.Sampling)
	fmt.Fprintf(out, "noise:     octaves=%d lacunarity=%g gain=%g time_multiplier=%g\n",
		meta.Params.Octaves, meta.Params.Lacunarity, meta.Params.Gain, meta.Params.TimeMultiplier)
	fmt.Fprintf(out, "buffers:   %d\n\n", len(infos))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SET\tBUFFER\tWIDTH\tWRAP\tFILTER\tRANGE")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			info.Set, info.Name, info.Width, info.Wrap, info.Filter, info.Range)
	}
	return tw.Flush()
}
