package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/phil-mansfield/gospline/io"
	"github.com/phil-mansfield/gospline/math/interp1d"
	"github.com/phil-mansfield/gospline/math/leastsq"
)

func main() {
	var (
		curves, fit, exampleConfig string
		verbose                    bool
	)
	vars := map[string]*string{
		"Curves":        &curves,
		"Fit":           &fit,
		"ExampleConfig": &exampleConfig,
	}

	flag.StringVar(
		&curves, "Curves", "",
		"Configuration file for [Curves] mode.",
	)
	flag.StringVar(
		&fit, "Fit", "",
		"Configuration file for [Fit] mode.",
	)
	flag.StringVar(
		&exampleConfig,
		"ExampleConfig", "", "Prints an example configuration file of the "+
			"specified type to stdout. Accepted arguments are 'Curves' "+
			"and 'Fit'.",
	)
	flag.BoolVar(&verbose, "Verbose", false, "Prints timing for each curve.")

	flag.Parse()

	modeName, err := getModeName(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "Curves":
		cons, err := io.ReadCurveConfig(curves)
		if err != nil {
			log.Fatal(err.Error())
		}
		curvesMain(cons, verbose)
	case "Fit":
		con, err := io.ReadFitConfig(fit)
		if err != nil {
			log.Fatal(err.Error())
		}
		fitMain(con)
	case "ExampleConfig":
		switch exampleConfig {
		case "Curves":
			fmt.Println(io.ExampleCurvesFile)
		case "Fit":
			fmt.Println(io.ExampleFitFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. Only recognized " +
					"arguments are 'Curves' and 'Fit'.",
			)
		}
	default:
		panic("Impossible")
	}
}

func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but gospline "+
				"only accepts one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

func curvesMain(cons []io.CurveConfig, verbose bool) {
	plotted := false
	for i := range cons {
		con := &cons[i]
		t0 := time.Now()

		keys, vals, derivs, err := sampleCurve(con)
		if err != nil {
			log.Fatalf("Curve '%s': %s", con.Name, err.Error())
		}
		if err := io.WriteCurveTable(con.Output, keys, vals, derivs); err != nil {
			log.Fatal(err.Error())
		}

		if con.Plot != "" {
			plotCurve(con, keys, vals, derivs)
			plotted = true
		}

		if verbose {
			log.Printf(
				"Curve '%s': %d keys written to %s in %s.",
				con.Name, len(keys), con.Output, time.Since(t0),
			)
		}
	}

	if plotted {
		plt.Execute()
	}
}

// sampleCurve builds the curve described by con and evaluates it and its
// first derivative at the configured keys.
func sampleCurve(con *io.CurveConfig) (keys, vals, derivs []float64, err error) {
	xs, ys, err := io.ReadCurveData(con.DataFile, con.KeyColumn, con.ValueColumn)
	if err != nil {
		return nil, nil, nil, err
	}

	c, err := interp1d.NewCombined(
		con.Interpolator, con.LeftExtrapolator, con.RightExtrapolator,
	)
	if err != nil {
		return nil, nil, nil, err
	}

	var data *interp1d.DataBundle
	if con.Clamped {
		data, err = c.DataBundleClamped(
			xs, ys, con.LeftDerivative, con.RightDerivative,
		)
	} else {
		data, err = c.DataBundle(xs, ys)
	}
	if err != nil {
		return nil, nil, nil, err
	}

	keys = con.SampleKeys(data.Keys())
	vals = make([]float64, len(keys))
	derivs = make([]float64, len(keys))
	for i, key := range keys {
		if vals[i], err = c.Interpolate(data, key); err != nil {
			return nil, nil, nil, err
		}
		if derivs[i], err = c.FirstDerivative(data, key); err != nil {
			return nil, nil, nil, err
		}
	}
	return keys, vals, derivs, nil
}

func plotCurve(con *io.CurveConfig, keys, vals, derivs []float64) {
	plt.Figure()
	plt.Plot(keys, vals, "k", plt.LW(2))
	plt.Title(fmt.Sprintf("%s: %s", con.Name, con.Interpolator))
	plt.XLabel("key", plt.FontSize(16))
	plt.YLabel("value", plt.FontSize(16))
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(con.Plot)

	plt.Figure()
	plt.Plot(keys, derivs, "r", plt.LW(2))
	plt.Title(fmt.Sprintf("%s: first derivative", con.Name))
	plt.XLabel("key", plt.FontSize(16))
	plt.YLabel("derivative", plt.FontSize(16))
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(derivName(con.Plot))
}

// derivName inserts "_deriv" before the extension of a plot file name.
func derivName(fname string) string {
	if i := strings.LastIndex(fname, "."); i > strings.LastIndex(fname, "/") {
		return fname[:i] + "_deriv" + fname[i:]
	}
	return fname + "_deriv"
}

func fitMain(con *io.FitConfig) {
	xs, ys, err := io.ReadCurveData(con.DataFile, con.KeyColumn, con.ValueColumn)
	if err != nil {
		log.Fatal(err.Error())
	}

	res, err := leastsq.PolynomialsLeastSquaresFitter{}.RegressVerbose(
		xs, ys, con.Degree, con.Normalize,
	)
	if err != nil {
		log.Fatal(err.Error())
	}

	fmt.Println("# Coefficients, highest power first:")
	for i, c := range res.Coefficients {
		fmt.Printf("c%d = %.17g\n", con.Degree-i, c)
	}
	fmt.Printf("# Degrees of freedom: %d\n", res.DegreesOfFreedom)
	fmt.Printf("# Residual norm: %.6g\n", res.ResidualNorm)
	if res.Normalized {
		fmt.Printf("# Keys normalized by mean %.6g and std %.6g\n", res.Mean, res.Std)
	}
}
