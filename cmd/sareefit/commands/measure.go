package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/sareefit/internal/pose"
)

func measureCmd() *cobra.Command {
	var (
		file   string
		width  int
		height int
	)

	cmd := &cobra.Command{
		Use:   "measure",
		Short: "Analyse a JSON array of 33 pose landmarks",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}

			var raw []pose.Landmark
			if err := json.Unmarshal(data, &raw); err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}
			set, err := pose.NewLandmarkSet(raw)
			if err != nil {
				return err
			}

			a, err := newApp(appOptions{})
			if err != nil {
				return err
			}

			analysis, err := a.Measure(cmd.Context(), set, width, height)
			if err != nil {
				return err
			}
			return printJSON(cmd, analysis)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "landmarks JSON file")
	cmd.Flags().IntVar(&width, "width", 0, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "image height in pixels")
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagRequired("width")
	cmd.MarkFlagRequired("height")
	return cmd
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
