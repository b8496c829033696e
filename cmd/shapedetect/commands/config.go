package commands

import (
	"errors"

	"github.com/spf13/viper"

	"github.com/MNGARCIA085/shapedetect/internal/synth"
)

// Config holds the file-backed defaults for every subcommand. Flags override
// any value set here.
type Config struct {
	CanvasSize   int     `mapstructure:"canvas_size"`
	ShapeSize    int     `mapstructure:"shape_size"`
	Margin       int     `mapstructure:"margin"`
	Classes      int     `mapstructure:"classes"`
	Seed         int64   `mapstructure:"seed"`
	Steps        int     `mapstructure:"steps"`
	BatchSize    int     `mapstructure:"batch_size"`
	LearningRate float64 `mapstructure:"learning_rate"`
	HiddenSize   int     `mapstructure:"hidden_size"`
	FeatureGrid  int     `mapstructure:"feature_grid"`
	LogEvery     int     `mapstructure:"log_every"`
}

// LoadConfig reads a YAML config file. A missing default file is not an
// error; an explicitly passed path must exist.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".shapedetect")
		v.AddConfigPath(".")
	}

	v.SetDefault("canvas_size", 64)
	v.SetDefault("shape_size", 20)
	v.SetDefault("margin", 5)
	v.SetDefault("classes", 2)
	v.SetDefault("seed", 42)
	v.SetDefault("steps", 500)
	v.SetDefault("batch_size", 16)
	v.SetDefault("learning_rate", 0.05)
	v.SetDefault("hidden_size", 64)
	v.SetDefault("feature_grid", 16)
	v.SetDefault("log_every", 50)

	v.AutomaticEnv()

	cfg := Config{}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !(path == "" && errors.As(err, &notFound)) {
			return cfg, err
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SynthConfig materializes the generator configuration: the stock red
// square / blue circle pair for two classes, a generated palette beyond
// that.
func (c Config) SynthConfig() synth.Config {
	return synth.Config{
		CanvasSize: c.CanvasSize,
		ShapeSize:  c.ShapeSize,
		Margin:     c.Margin,
		Classes:    synth.Palette(c.Classes),
	}
}
