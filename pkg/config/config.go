package config

import (
	"runtime"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for the merkledrop CLI
const (
	EnvMerkledropInput   = "MERKLEDROP_INPUT"
	EnvMerkledropOutput  = "MERKLEDROP_OUTPUT"
	EnvMerkledropWorkers = "MERKLEDROP_WORKERS"
	EnvMerkledropVerbose = "MERKLEDROP_VERBOSE"
)

// Default file conventions. The input list lives next to the invocation;
// the artifact goes to a dist/ directory so it can be published as-is.
const (
	DefaultInputPath  = "distribution.csv"
	DefaultOutputPath = "dist/artifact.json"
)

// GeneratorConfig is the configuration for one artifact generation run.
type GeneratorConfig struct {
	// InputPath is the CSV distribution list (header: address,amount)
	InputPath string `json:"input_path"`

	// OutputPath is where the artifact JSON is written
	OutputPath string `json:"output_path"`

	// Workers bounds parallel proof generation; 0 means GOMAXPROCS
	Workers int `json:"workers"`

	// Verbose enables development-style logging
	Verbose bool `json:"verbose"`
}

// Validate checks the configuration and fills in defaults.
func (c *GeneratorConfig) Validate() error {
	var allErrors field.ErrorList
	if c.InputPath == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("input"), "input path is required"))
	}
	if c.OutputPath == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("output"), "output path is required"))
	}
	if c.Workers < 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("workers"), c.Workers, "must be non-negative"))
	}
	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}

	if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}

	return nil
}
