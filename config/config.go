// Package config holds the settings of a training run, read from YAML and adjusted from the
// command line.
package config

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
	_ "github.com/florent-haffner/ipa-under-the-light/costfuncs"
	"github.com/florent-haffner/ipa-under-the-light/hyperparams"
	"github.com/florent-haffner/ipa-under-the-light/models"
	_ "github.com/florent-haffner/ipa-under-the-light/optimizers"
	"github.com/florent-haffner/ipa-under-the-light/penalties"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"io"
	"os"
)

// Schedule selects how the learning rate changes from epoch to epoch. Kind is the name of a
// registered HyperParameter; StepSize and Gamma are used by the decaying kinds.
type Schedule struct {
	Kind     string  `yaml:"kind"`
	StepSize int     `yaml:"step_size"`
	Gamma    float64 `yaml:"gamma"`
}

// Model selects the layout of the network. Every field is passed to models.Options.
type Model struct {
	Activation string  `yaml:"activation"`
	LeakySlope float64 `yaml:"leaky_slope"`
	Pool       string  `yaml:"pool"`
	Init       string  `yaml:"init"`
	Dropout    float64 `yaml:"dropout"`
}

// Options returns the network options described by 'm'.
func (m Model) Options() models.Options {
	return models.Options{
		Activation: m.Activation,
		LeakySlope: m.LeakySlope,
		Pool:       m.Pool,
		Init:       m.Init,
		Dropout:    m.Dropout,
	}
}

// Config captures the settings of a training run.
type Config struct {
	Seed      int64 `yaml:"seed"`
	Epochs    int   `yaml:"epochs"`
	BatchSize int   `yaml:"batch_size"`
	Shuffle   bool  `yaml:"shuffle"`

	// L2 is the coefficient of the weight penalty
	L2 float64 `yaml:"l2"`
	// Penalty is the name of the weight penalty; empty is the default norm penalty
	Penalty string `yaml:"penalty"`

	LearningRate float64  `yaml:"learning_rate"`
	Optimizer    string   `yaml:"optimizer"`
	Cost         string   `yaml:"cost"`
	Schedule     Schedule `yaml:"schedule"`

	Model Model `yaml:"model"`

	// Threads is the number of workers of the device; 0 uses every core
	Threads int `yaml:"threads"`

	// settings of the synthetic dataset
	Samples      int     `yaml:"samples"`
	Length       int     `yaml:"length"`
	TestFraction float64 `yaml:"test_fraction"`
	Noise        float64 `yaml:"noise"`

	OutDir      string `yaml:"out_dir"`
	StatusEvery int    `yaml:"status_every"`
}

// Default returns the settings used for any key missing from a file.
func Default() *Config {
	return &Config{
		Seed:         1,
		Epochs:       30,
		BatchSize:    ipa.DefaultBatchSize,
		Shuffle:      true,
		L2:           0.001,
		LearningRate: 0.001,
		Optimizer:    "adam",
		Cost:         "mse",
		Schedule: Schedule{
			Kind:     "step-decay",
			StepSize: 10,
			Gamma:    0.5,
		},
		Model:        defaultModel(),
		Samples:      256,
		Length:       128,
		TestFraction: 0.2,
		Noise:        0.01,
		OutDir:       "out",
		StatusEvery:  ipa.DefaultStatusEvery,
	}
}

func defaultModel() Model {
	o := models.DefaultOptions()
	return Model{
		Activation: o.Activation,
		LeakySlope: o.LeakySlope,
		Pool:       o.Pool,
		Init:       o.Init,
		Dropout:    o.Dropout,
	}
}

// Overrides captures values given on the command line. Zero values are ignored, except for L2,
// which is applied whenever it is non-nil so that the penalty can be turned off.
type Overrides struct {
	Seed         int64
	Epochs       int
	BatchSize    int
	L2           *float64
	LearningRate float64
	Optimizer    string
	Threads      int
	OutDir       string
}

// Load reads a Config from the YAML file at 'path', on top of Default, and validates it.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open config")
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to parse config %q", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a Config from YAML, on top of Default. Unknown keys are an error.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, err
	}

	return cfg, nil
}

// ApplyOverrides updates the Config using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.Epochs > 0 {
		c.Epochs = o.Epochs
	}
	if o.BatchSize > 0 {
		c.BatchSize = o.BatchSize
	}
	if o.L2 != nil {
		c.L2 = *o.L2
	}
	if o.LearningRate > 0 {
		c.LearningRate = o.LearningRate
	}
	if o.Optimizer != "" {
		c.Optimizer = o.Optimizer
	}
	if o.Threads > 0 {
		c.Threads = o.Threads
	}
	if o.OutDir != "" {
		c.OutDir = o.OutDir
	}
}

// Validate verifies the Config is runnable, filling in StatusEvery if it is unset.
func (c *Config) Validate() error {
	if c == nil {
		return ipa.NilArg("Config")
	}

	switch {
	case c.Epochs <= 0:
		return errors.Errorf("epochs must be > 0 (got %d)", c.Epochs)
	case c.BatchSize <= 0:
		return errors.Errorf("batch_size must be > 0 (got %d)", c.BatchSize)
	case c.L2 < 0:
		return errors.Errorf("l2 must be ≥ 0 (got %v)", c.L2)
	case c.LearningRate <= 0:
		return errors.Errorf("learning_rate must be > 0 (got %v)", c.LearningRate)
	case c.Threads < 0:
		return errors.Errorf("threads must be ≥ 0 (got %d)", c.Threads)
	case c.Samples < 2:
		return errors.Errorf("samples must be ≥ 2 (got %d)", c.Samples)
	case c.TestFraction <= 0 || c.TestFraction >= 1:
		return errors.Errorf("test_fraction must be in (0, 1) (got %v)", c.TestFraction)
	case c.Noise < 0:
		return errors.Errorf("noise must be ≥ 0 (got %v)", c.Noise)
	case c.OutDir == "":
		return errors.Errorf("out_dir must be set")
	}

	if c.Length < models.MinInputLength {
		return errors.Errorf("length must be ≥ %d (got %d)", models.MinInputLength, c.Length)
	}

	if _, err := ipa.NewOptimizer(c.Optimizer); err != nil {
		return errors.Wrapf(err, "optimizer")
	} else if _, err := ipa.NewCostFunction(c.Cost); err != nil {
		return errors.Wrapf(err, "cost")
	} else if _, err := c.NewSchedule(); err != nil {
		return errors.Wrapf(err, "schedule")
	} else if _, err := c.NewPenalty(); err != nil {
		return errors.Wrapf(err, "penalty")
	} else if err := c.Model.Options().Validate(); err != nil {
		return errors.Wrapf(err, "model")
	}

	if c.StatusEvery <= 0 {
		c.StatusEvery = ipa.DefaultStatusEvery
	}
	return nil
}

// Device returns the device described by Threads.
func (c *Config) Device() ipa.Device {
	dev := ipa.CPU()
	if c.Threads > 0 {
		dev.Threads = c.Threads
	}
	return dev
}

// NewSchedule returns the learning rate schedule, starting from LearningRate.
func (c *Config) NewSchedule() (*ipa.Schedule, error) {
	s := c.Schedule

	var hp ipa.HyperParameter
	switch s.Kind {
	case "", "constant":
		hp = hyperparams.Constant(c.LearningRate)
	case "step-decay":
		if s.StepSize <= 0 || s.Gamma <= 0 {
			return nil, errors.Errorf("step-decay needs step_size > 0 and gamma > 0 (got %d, %v)", s.StepSize, s.Gamma)
		}
		hp = hyperparams.StepDecay(c.LearningRate, s.StepSize, s.Gamma)
	case "exponential":
		if s.Gamma <= 0 {
			return nil, errors.Errorf("exponential needs gamma > 0 (got %v)", s.Gamma)
		}
		hp = hyperparams.Exponential(c.LearningRate, s.Gamma)
	default:
		var err error
		if hp, err = ipa.NewHyperParameter(s.Kind, c.LearningRate); err != nil {
			return nil, err
		}
	}

	return ipa.NewSchedule(hp), nil
}

// NewModel returns the network described by Model, seeded from Seed.
func (c *Config) NewModel() (*models.IPA, error) {
	return models.NewWithOptions(c.Seed, c.Model.Options())
}

// NewPenalty returns the weight penalty named by Penalty, or nil for the default penalty, which
// TrainArgs builds from L2.
func (c *Config) NewPenalty() (ipa.Penalty, error) {
	if c.Penalty == "" {
		return nil, nil
	}
	return penalties.New(c.Penalty, c.L2)
}

// TrainArgs returns the arguments to ipa.Train for the given data. The optimizer is created
// fresh, so its state starts empty.
func (c *Config) TrainArgs(data *ipa.Loader, update func(ipa.Result)) (ipa.TrainArgs, error) {
	opt, err := ipa.NewOptimizer(c.Optimizer)
	if err != nil {
		return ipa.TrainArgs{}, err
	}
	cf, err := ipa.NewCostFunction(c.Cost)
	if err != nil {
		return ipa.TrainArgs{}, err
	}
	sched, err := c.NewSchedule()
	if err != nil {
		return ipa.TrainArgs{}, err
	}
	pen, err := c.NewPenalty()
	if err != nil {
		return ipa.TrainArgs{}, err
	}

	args := ipa.TrainArgs{
		Device:      c.Device(),
		Data:        data,
		Penalty:     pen,
		Cost:        cf,
		Opt:         opt,
		Schedule:    sched,
		Update:      update,
		StatusEvery: c.StatusEvery,
	}
	if pen == nil {
		args.L2 = c.L2
	}

	return args, nil
}
