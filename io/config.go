package io

import (
	"fmt"
	"path"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/gospline/math/interp1d"
)

const (
	ExampleCurvesFile = `[Sample]

#######################
# Optional Parameters #
#######################

# Number of keys each curve is sampled at, unless the curve sets KeysPoints.
# Default is 100.
# Points = 100

# Directory that curves without an Output file are written to. Each curve is
# written to OutputDir/<name>.txt. Default is the working directory.
# OutputDir = path/to/output/dir

[Curve "discount"]

#######################
# Required Parameters #
#######################

# Whitespace-separated table containing the data. Lines starting with # are
# ignored.
DataFile = path/to/discount.txt

# Name of the interpolator. Run with an invalid name to get the full list.
Interpolator = LogNaturalCubicSpline

# Column of DataFile holding the values. It must differ from KeyColumn.
ValueColumn = 1

#######################
# Optional Parameters #
#######################

# Column of DataFile holding the keys. Default is 0.
# KeyColumn = 0

# Extrapolators used below and above the data: Flat, Linear, Exponential or
# Reciprocal. Keys outside the data are an error on any side without one.
# LeftExtrapolator = Flat
# RightExtrapolator = Exponential

# Fixes the first derivative at both ends. Only some interpolators support
# this.
# Clamped = true
# LeftDerivative = 0
# RightDerivative = -0.02

# Range the curve is sampled over. Defaults to the range of the data when
# neither bound is set.
# KeysMin = 0
# KeysMax = 30
# KeysPoints = 301

# Output table (key, value, first derivative) and a plot of both.
# Output = discount_sampled.txt
# Plot = discount.png`

	ExampleFitFile = `[Fit]

#######################
# Required Parameters #
#######################

DataFile = path/to/data.txt
Degree = 3

#######################
# Optional Parameters #
#######################

# KeyColumn = 0
# ValueColumn = 1

# Centres and scales keys by their mean and standard deviation before fitting.
# Use this for data far from zero.
# Normalize = false`
)

type SampleConfig struct {
	// Optional
	Points    int
	OutputDir string
}

type CurveConfig struct {
	// Required
	DataFile     string
	Interpolator string
	ValueColumn  int

	// Optional
	KeyColumn                           int
	LeftExtrapolator, RightExtrapolator string

	Clamped                         bool
	LeftDerivative, RightDerivative float64

	KeysMin, KeysMax float64
	KeysPoints       int

	Output, Plot string

	Name string
}

type CurvesWrapper struct {
	Sample SampleConfig
	Curve  map[string]*CurveConfig
}

func DefaultCurvesWrapper() *CurvesWrapper {
	return &CurvesWrapper{Sample: SampleConfig{Points: 100}}
}

func (con *SampleConfig) ValidPoints() bool {
	return con.Points >= 2
}

func (con *CurveConfig) ValidDataFile() bool {
	return con.DataFile != ""
}
func (con *CurveConfig) ValidInterpolator() bool {
	return contains(interp1d.InterpolatorNames(), con.Interpolator)
}
func (con *CurveConfig) ValidLeftExtrapolator() bool {
	return con.LeftExtrapolator == "" ||
		contains(interp1d.ExtrapolatorNames(), con.LeftExtrapolator)
}
func (con *CurveConfig) ValidRightExtrapolator() bool {
	return con.RightExtrapolator == "" ||
		contains(interp1d.ExtrapolatorNames(), con.RightExtrapolator)
}
func (con *CurveConfig) ValidColumns() bool {
	return con.KeyColumn >= 0 && con.ValueColumn >= 0 &&
		con.KeyColumn != con.ValueColumn
}
func (con *CurveConfig) ValidKeys() bool {
	return (con.KeysMin < con.KeysMax || !con.hasKeyRange()) &&
		con.KeysPoints >= 2
}

// hasKeyRange is false when neither KeysMin nor KeysMax was set.
func (con *CurveConfig) hasKeyRange() bool {
	return con.KeysMin != 0 || con.KeysMax != 0
}

func contains(names []string, name string) bool {
	i := sort.SearchStrings(names, name)
	return i < len(names) && names[i] == name
}

// CheckInit fills in defaults from the [Sample] section and validates the
// curve.
func (con *CurveConfig) CheckInit(name string, sample *SampleConfig) error {
	con.Name = name
	if con.KeysPoints == 0 {
		con.KeysPoints = sample.Points
	}
	if con.Output == "" {
		con.Output = path.Join(sample.OutputDir, name+".txt")
	}

	switch {
	case !con.ValidDataFile():
		return fmt.Errorf("Need to specify a DataFile for Curve '%s'.", name)
	case !con.ValidInterpolator():
		return fmt.Errorf(
			"Curve '%s' has an invalid/non-existent Interpolator, '%s'. "+
				"Valid names are: %v", name, con.Interpolator,
			interp1d.InterpolatorNames(),
		)
	case !con.ValidLeftExtrapolator():
		return fmt.Errorf(
			"Curve '%s' has an invalid LeftExtrapolator, '%s'. Valid "+
				"names are: %v", name, con.LeftExtrapolator,
			interp1d.ExtrapolatorNames(),
		)
	case !con.ValidRightExtrapolator():
		return fmt.Errorf(
			"Curve '%s' has an invalid RightExtrapolator, '%s'. Valid "+
				"names are: %v", name, con.RightExtrapolator,
			interp1d.ExtrapolatorNames(),
		)
	case !con.ValidColumns():
		return fmt.Errorf(
			"Curve '%s' given KeyColumn = %d and ValueColumn = %d. They "+
				"must be distinct and non-negative.",
			name, con.KeyColumn, con.ValueColumn,
		)
	case !con.ValidKeys():
		return fmt.Errorf(
			"Curve '%s' given KeysMin = %g, KeysMax = %g and KeysPoints "+
				"= %d, but needs KeysMin < KeysMax and at least 2 points.",
			name, con.KeysMin, con.KeysMax, con.KeysPoints,
		)
	}
	return nil
}

// SampleKeys returns the keys the curve is sampled at. If no range was
// given, the range of the data keys xs is used.
func (con *CurveConfig) SampleKeys(xs []float64) []float64 {
	lo, hi := con.KeysMin, con.KeysMax
	if !con.hasKeyRange() {
		lo, hi = floats.Min(xs), floats.Max(xs)
	}
	return floats.Span(make([]float64, con.KeysPoints), lo, hi)
}

// ReadCurveConfig reads and validates every [Curve] section in fname. The
// curves are returned sorted by name.
func ReadCurveConfig(fname string) ([]CurveConfig, error) {
	wrap := DefaultCurvesWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}

	if !wrap.Sample.ValidPoints() {
		return nil, fmt.Errorf(
			"[Sample] Points must be at least 2, but is %d.",
			wrap.Sample.Points,
		)
	} else if len(wrap.Curve) == 0 {
		return nil, fmt.Errorf("No [Curve] sections found in '%s'.", fname)
	}

	names := []string{}
	for name := range wrap.Curve {
		names = append(names, name)
	}
	sort.Strings(names)

	curves := []CurveConfig{}
	for _, name := range names {
		curve := wrap.Curve[name]
		if err := curve.CheckInit(name, &wrap.Sample); err != nil {
			return nil, err
		}
		curves = append(curves, *curve)
	}
	return curves, nil
}

type FitConfig struct {
	// Required
	DataFile string
	Degree   int

	// Optional
	KeyColumn, ValueColumn int
	Normalize              bool
}

type FitWrapper struct {
	Fit FitConfig
}

func DefaultFitWrapper() *FitWrapper {
	return &FitWrapper{FitConfig{Degree: -1, ValueColumn: 1}}
}

func (con *FitConfig) ValidDataFile() bool {
	return con.DataFile != ""
}
func (con *FitConfig) ValidDegree() bool {
	return con.Degree >= 0
}
func (con *FitConfig) ValidColumns() bool {
	return con.KeyColumn >= 0 && con.ValueColumn >= 0 &&
		con.KeyColumn != con.ValueColumn
}

// ReadFitConfig reads and validates the [Fit] section of fname.
func ReadFitConfig(fname string) (*FitConfig, error) {
	wrap := DefaultFitWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}

	con := &wrap.Fit
	if !con.ValidDataFile() {
		return nil, fmt.Errorf("Invalid/non-existent 'DataFile' value.")
	} else if !con.ValidDegree() {
		return nil, fmt.Errorf("Invalid/non-existent 'Degree' value.")
	} else if !con.ValidColumns() {
		return nil, fmt.Errorf(
			"KeyColumn = %d and ValueColumn = %d must be distinct and "+
				"non-negative.", con.KeyColumn, con.ValueColumn,
		)
	}
	return con, nil
}
