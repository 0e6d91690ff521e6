package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gorilla/mux"
	"github.com/launchsim/ascent"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// This reads the scenario, flies it, writes the exports and optionally serves the result.

const defaultScenario = "~~unset~~"

var (
	scenario string
	serve    string
	verbose  bool
)

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "ascent scenario TOML file")
	flag.StringVar(&serve, "serve", "", "address to serve the result, telemetry and metrics on once done (e.g. :8086)")
	flag.BoolVar(&verbose, "verbose", false, "log the status of the flight periodically")
}

func main() {
	flag.Parse()
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
	fatal := func(err error) {
		logger.Log("level", "critical", "subsys", "main", "err", err)
		os.Exit(1)
	}

	if scenario == defaultScenario {
		fatal(fmt.Errorf("%w: no scenario provided", ascent.ErrInvalidConfig))
	}
	sc, err := ascent.LoadScenario(scenario, logger)
	if err != nil {
		fatal(err)
	}
	if !verbose {
		sc.Sim.LogEvery = 0
	}
	sim, err := sc.Simulator(logger)
	if err != nil {
		fatal(err)
	}

	var trackers []*ascent.Tracker
	for _, st := range sc.Stations {
		tracker := ascent.NewTracker(st, logger)
		trackers = append(trackers, tracker)
		sim.Sinks = append(sim.Sinks, tracker)
	}

	reg := prometheus.NewRegistry()
	if serve != "" {
		sink, err := ascent.NewPrometheusSink(reg)
		if err != nil {
			fatal(err)
		}
		sim.Sinks = append(sim.Sinks, sink)
	}

	res, err := sim.Run()
	if err != nil {
		fatal(err)
	}
	logger.Log("level", "notice", "subsys", "main", "result", res)
	if maxQ, ok := (&ascent.Trace{Records: res.Telemetry}).MaxDrag(); ok {
		logger.Log("level", "info", "subsys", "main", "maxQ(kN)", maxQ.Drag, "t", maxQ.Time, "alt(km)", maxQ.Altitude)
	}
	if res.Orbit != nil {
		logger.Log("level", "notice", "subsys", "main", "orbiting", res.Orbit.Orbiting(ascent.KarmanLine), "periapsis(km)", res.Orbit.PeriapsisAltitude()/1e3, "apoapsis(km)", res.Orbit.ApoapsisAltitude()/1e3, "period", res.Orbit.Period(), "circularize(m/s)", res.Orbit.CircularizationΔv())
	}

	for _, tracker := range trackers {
		if los, ok := tracker.LossOfSignal(); ok {
			logger.Log("level", "info", "subsys", "main", "station", tracker.Station.Name, "LOS", los.Time, "range(km)", los.Range/1e3)
		}
	}

	if !sc.Export.IsUseless() {
		if err := sc.Export.Export(res, logger); err != nil {
			fatal(err)
		}
	}

	if serve == "" {
		return
	}
	router := mux.NewRouter()
	router.HandleFunc("/result", jsonHandler(func() interface{} {
		summary := *res
		summary.Telemetry = nil
		return summary
	})).Methods("GET")
	router.HandleFunc("/telemetry", jsonHandler(func() interface{} { return res.Telemetry })).Methods("GET")
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods("GET")
	logger.Log("level", "info", "subsys", "main", "serving", serve)
	if err := http.ListenAndServe(serve, router); err != nil {
		fatal(err)
	}
}

func jsonHandler(get func() interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(get()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
