package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joeblew999/plat-legend/internal/legend"
	"github.com/joeblew999/plat-legend/internal/service"
)

// newURLCmd prints the GetLegendGraphic URL of every layer in a YAML file.
func newURLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "url",
		Short: "Print GetLegendGraphic URLs for the layers in a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			only, _ := cmd.Flags().GetString("name")

			layers, err := service.LoadLayerFile(path)
			if err != nil {
				return err
			}

			found := false
			for _, l := range layers {
				if only != "" && l.Name != only {
					continue
				}
				found = true
				u, ok := legend.GetLegendGraphicURL(l.Layer)
				if !ok {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: no legend\n", l.Name)
					continue
				}
				if only != "" {
					fmt.Fprintln(cmd.OutOrStdout(), u)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", l.Name, u)
				}
			}
			if only != "" && !found {
				return fmt.Errorf("layer %q not in %s", only, path)
			}
			return nil
		},
	}
	cmd.Flags().StringP("file", "f", "layers.yaml", "YAML file with layer descriptors")
	cmd.Flags().StringP("name", "n", "", "Only print the layer with this name")
	return cmd
}

func newStyleCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "style <sld-file>",
		Short:   "Derive the WMS STYLE value from an SLD file name",
		Example: "  legend style LightUnit_Unit_Type.xml",
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), legend.StyleFromSLDFile(args[0]))
		},
	}
}

func newSLDFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "sld-file <style> <layers>",
		Short:   "Derive the SLD file name from WMS STYLE and LAYERS values",
		Example: `  legend sld-file "Unit Type" LightUnit`,
		Args:    cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), legend.SLDFileFromStyle(args[0], args[1]))
		},
	}
}
