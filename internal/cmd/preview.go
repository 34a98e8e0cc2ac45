package cmd

import (
	"fmt"

	"github.com/MeKo-Tech/noiselut/internal/lut"
	"github.com/MeKo-Tech/noiselut/internal/noise"
	"github.com/MeKo-Tech/noiselut/internal/preview"
	"github.com/MeKo-Tech/noiselut/internal/tables"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render a PNG of the colored noise",
	Long: `Render one frame of fractal noise mapped through a baked color ramp.

The simplex source evaluates the same table-driven 4-D noise a shader reads
from the encoded buffers; perlin and opensimplex are available for comparison.`,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringP("output", "o", "preview.png", "Output PNG path")
	previewCmd.Flags().String("source", string(noise.KindSimplex), "Noise source: simplex, perlin or opensimplex")
	previewCmd.Flags().String("gradient", "", "Gradient name (default: first configured)")
	previewCmd.Flags().Int("size-x", 512, "Image width in pixels")
	previewCmd.Flags().Int("size-y", 512, "Image height in pixels")
	previewCmd.Flags().Float64("scale", 4, "Noise-space extent covered by the image width")
	previewCmd.Flags().Float64("time", 0, "Animation time")
	previewCmd.Flags().Int64("seed", 1337, "Seed for the perlin and opensimplex sources")
	previewCmd.Flags().Float32("blur", 0, "Gaussian blur sigma (0 disables)")
	previewCmd.Flags().Float32("contrast", 0, "Contrast adjustment in percent (-100..100)")
	previewCmd.Flags().Bool("from-buffers", false, "Rebuild the simplex sampler from the encoded buffers instead of the raw tables")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"preview.output", "output"},
		{"preview.source", "source"},
		{"preview.gradient", "gradient"},
		{"preview.width", "size-x"},
		{"preview.height", "size-y"},
		{"preview.scale", "scale"},
		{"preview.time", "time"},
		{"preview.seed", "seed"},
		{"preview.blur", "blur"},
		{"preview.contrast", "contrast"},
		{"preview.from_buffers", "from-buffers"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, previewCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runPreview(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}
	v := viper.GetViper()

	output := v.GetString("preview.output")
	kind := noise.Kind(v.GetString("preview.source"))

	ps, err := noiseParams(v)
	if err != nil {
		return err
	}
	baker, err := colorBaker(v)
	if err != nil {
		return err
	}
	name, g, err := namedGradient(v, v.GetString("preview.gradient"))
	if err != nil {
		return err
	}

	color, err := baker.Bake(g)
	if err != nil {
		return err
	}
	defer color.Release()

	var src noise.Source
	if v.GetBool("preview.from_buffers") && (kind == "" || kind == noise.KindSimplex) {
		perm := lut.EncodePermutation(tables.Permutation())
		grads := lut.EncodeGradients(tables.Gradients4D())
		s, err := noise.FromBuffers(perm, grads)
		if err != nil {
			return fmt.Errorf("failed to decode noise tables: %w", err)
		}
		src = &noise.SimplexSource{Simplex: s, Params: ps}
	} else {
		src, err = noise.NewSource(kind, ps, v.GetInt64("preview.seed"))
		if err != nil {
			return err
		}
	}

	img, err := preview.Render(preview.Options{
		Source:   src,
		Color:    color,
		Width:    v.GetInt("preview.width"),
		Height:   v.GetInt("preview.height"),
		Scale:    v.GetFloat64("preview.scale"),
		Time:     v.GetFloat64("preview.time"),
		Blur:     float32(v.GetFloat64("preview.blur")),
		Contrast: float32(v.GetFloat64("preview.contrast")),
	})
	if err != nil {
		return err
	}

	if err := lut.WritePNG(output, img); err != nil {
		return err
	}

	logger.Info("Preview written",
		"path", output,
		"gradient", name,
		"source", string(kind),
		"octaves", ps.Octaves,
		"size", fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()),
	)
	return nil
}
