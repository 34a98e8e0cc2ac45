package cmd

import (
	"fmt"
	"os"

	"github.com/MeKo-Tech/noiselut/internal/gradient"
	"github.com/MeKo-Tech/noiselut/internal/params"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "noiselut",
	Short: "Bake and publish lookup tables for GPU fractal noise",
	Long: `noiselut encodes the permutation and 4-D gradient tables of a simplex
noise shader into lookup buffers and bakes color gradients into color ramps.

It can write the buffers as PNG strips or into a SQLite LUT store, render
previews of the colored noise, and run a provider frame loop that serves
the published buffers and parameters over HTTP.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := params.Defaults()
	pf := rootCmd.PersistentFlags()

	pf.StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	pf.Bool("verbose", false, "Enable verbose logging")

	pf.Int("octaves", defaults.Octaves, fmt.Sprintf("Fractal octaves (%d..%d)", params.MinOctaves, params.MaxOctaves))
	pf.Float32("lacunarity", defaults.Lacunarity, "Frequency multiplier per octave")
	pf.Float32("gain", defaults.Gain, "Amplitude multiplier per octave")
	pf.Float32("time-multiplier", defaults.TimeMultiplier, "Animation speed")

	pf.Int("width", gradient.DefaultWidth, "Color ramp width in texels")
	pf.String("sampling", gradient.SampleExact.String(), "Gradient sampling: exact or stepped")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"verbose", "verbose"},
		{"noise.octaves", "octaves"},
		{"noise.lacunarity", "lacunarity"},
		{"noise.gain", "gain"},
		{"noise.time_multiplier", "time-multiplier"},
		{"lut.width", "width"},
		{"lut.sampling", "sampling"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, pf.Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("NOISELUT")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
