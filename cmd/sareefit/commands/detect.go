package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/sareefit/internal/app"
	"github.com/ayusman/sareefit/internal/store"
)

func detectCmd() *cobra.Command {
	var (
		imagePath   string
		overlayPath string
		style       string
	)

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect a pose in a photo and print the analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(imagePath)
			if err != nil {
				return err
			}
			drape, err := store.ParseDrapingStyle(style)
			if err != nil {
				return err
			}

			a, err := newApp(appOptions{detector: true})
			if err != nil {
				return err
			}
			defer a.Close()

			var result *app.Result
			if overlayPath == "" {
				result, err = a.AnalyzeImage(cmd.Context(), data, drape)
				if err != nil {
					return err
				}
			} else {
				var out []byte
				out, result, err = a.RenderOverlay(cmd.Context(), data)
				if err != nil {
					return err
				}
				if err := os.WriteFile(overlayPath, out, 0644); err != nil {
					return fmt.Errorf("write overlay: %w", err)
				}
				result.DrapingStyle = drape
				logger.WithField("path", overlayPath).Info("Overlay written")
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "photo to analyse (JPEG or PNG)")
	cmd.Flags().StringVarP(&overlayPath, "overlay", "o", "", "write the photo with the skeleton drawn to this path")
	cmd.Flags().StringVar(&style, "style", "", "draping style (default nivi)")
	cmd.MarkFlagRequired("image")
	return cmd
}
