package main

import (
	"flag"
	"os"

	kitlog "github.com/go-kit/kit/log"
	"github.com/launchsim/ascent"
)

// Writes the gravity, pressure and density profile of a body as CSV to stdout.

var (
	bodyName    string
	atmosphere  string
	maxAltitude float64
	steps       int
)

func init() {
	flag.StringVar(&bodyName, "body", "earth", "body to profile")
	flag.StringVar(&atmosphere, "atmosphere", "", "atmosphere table replacing the embedded one")
	flag.Float64Var(&maxAltitude, "max", 1000e3, "maximum altitude in meters")
	flag.IntVar(&steps, "steps", 1000, "number of intervals")
}

func main() {
	flag.Parse()
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	fatal := func(err error) {
		logger.Log("level", "critical", "subsys", "main", "err", err)
		os.Exit(1)
	}

	body, err := ascent.BodyFromName(bodyName, logger)
	if err != nil {
		fatal(err)
	}
	if atmosphere != "" {
		rows, err := ascent.LoadAtmosphereTable(atmosphere)
		if err != nil {
			fatal(err)
		}
		atmo, err := ascent.NewAtmosphere(rows, logger)
		if err != nil {
			fatal(err)
		}
		if body, err = ascent.NewBody(body.Name, body.Radius, body.Mass, body.RotationPeriod, atmo); err != nil {
			fatal(err)
		}
	}
	points, err := ascent.Profile(body, maxAltitude, steps)
	if err != nil {
		fatal(err)
	}
	if err := ascent.WriteProfileCSV(os.Stdout, points); err != nil {
		fatal(err)
	}
}
