package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	"github.com/alitto/pond"
	"github.com/urfave/cli/v2"

	voyager "github.com/waahlstrand/voyager-go"
	"github.com/waahlstrand/voyager-go/encode"
	"github.com/waahlstrand/voyager-go/raster"
	"github.com/waahlstrand/voyager-go/store"
)

// runConfig is the JSON shape accepted by both the "run" command's
// --config flag and each file in a "batch" directory. Field names mirror
// the CLI flag names so a saved config can be edited by hand.
type runConfig struct {
	Mode          string      `json:"mode"`
	Craft         int         `json:"craft"`
	CurrentsURI   string      `json:"currents_uri"`
	WindsURI      string      `json:"winds_uri"`
	InMemory      bool        `json:"in_memory"`
	VesselConfig  string      `json:"vessel_config"`
	Destination   []float64   `json:"destination"`
	Departures    [][]float64 `json:"departures"`
	Reps          int         `json:"reps"`
	BBox          []float64   `json:"bbox"`
	StartDate     string      `json:"start_date"`
	EndDate       string      `json:"end_date"`
	LaunchFreq    int         `json:"launch_freq_days"`
	RouteInterval int         `json:"route_interval"`
	Duration      float64     `json:"duration_days"`
	Dt            float64     `json:"dt_seconds"`
	Sigma         float64     `json:"sigma"`
	Tolerance     float64     `json:"tolerance"`
	OutURI        string      `json:"out_uri"`
	Aggregate     bool        `json:"aggregate"`
}

// parseMode maps a CLI/config mode string onto voyager.Mode, per spec.md
// §9's tagged-variant design note.
func parseMode(s string) (voyager.Mode, error) {
	switch strings.ToLower(s) {
	case "drift":
		return voyager.ModeDrift, nil
	case "paddling":
		return voyager.ModePaddling, nil
	case "sailing":
		return voyager.ModeSailing, nil
	default:
		return 0, voyager.ErrUnknownMode
	}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func loadVesselConfig(uri string) (*voyager.VesselConfig, error) {
	data, err := os.ReadFile(uri)
	if err != nil {
		return nil, err
	}
	var cfg voyager.VesselConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// buildTraverserConfig turns a runConfig into a voyager.TraverserConfig plus
// its bound raster.MemoryLoader, failing fast on malformed bbox/destination/
// departure shapes rather than panicking deep inside the integrator.
func buildTraverserConfig(rc runConfig) (voyager.TraverserConfig, *raster.MemoryLoader, error) {
	mode, err := parseMode(rc.Mode)
	if err != nil {
		return voyager.TraverserConfig{}, nil, err
	}

	if len(rc.BBox) != 4 {
		return voyager.TraverserConfig{}, nil, errors.New("bbox must have 4 elements: lon_min,lat_min,lon_max,lat_max")
	}
	if len(rc.Destination) != 2 {
		return voyager.TraverserConfig{}, nil, errors.New("destination must have 2 elements: lon,lat")
	}

	departures := make([]voyager.Point, 0, len(rc.Departures))
	for _, d := range rc.Departures {
		if len(d) != 2 {
			return voyager.TraverserConfig{}, nil, errors.New("each departure must have 2 elements: lon,lat")
		}
		departures = append(departures, voyager.Point{Lon: d[0], Lat: d[1]})
	}

	start, err := parseDate(rc.StartDate)
	if err != nil {
		return voyager.TraverserConfig{}, nil, err
	}
	end, err := parseDate(rc.EndDate)
	if err != nil {
		return voyager.TraverserConfig{}, nil, err
	}

	vesselCfg, err := loadVesselConfig(rc.VesselConfig)
	if err != nil {
		return voyager.TraverserConfig{}, nil, err
	}

	params := voyager.DefaultParams(rc.Duration, rc.Dt)
	if rc.Sigma > 0 {
		params.Sigma = rc.Sigma
	}
	if rc.Tolerance > 0 {
		params.Tolerance = rc.Tolerance
	}

	cfg := voyager.TraverserConfig{
		Mode:          mode,
		Craft:         rc.Craft,
		Destination:   voyager.Point{Lon: rc.Destination[0], Lat: rc.Destination[1]},
		Departures:    departures,
		Reps:          rc.Reps,
		BBox:          voyager.BoundingBox{LonMin: rc.BBox[0], LatMin: rc.BBox[1], LonMax: rc.BBox[2], LatMax: rc.BBox[3]},
		StartDate:     start,
		EndDate:       end,
		LaunchFreq:    rc.LaunchFreq,
		RouteInterval: rc.RouteInterval,
		Contour:       voyager.DefaultContourOptions(),
		Params:        params,
		VesselConfig:  vesselCfg,
	}

	loader := raster.NewMemoryLoader(rc.CurrentsURI, rc.WindsURI, rc.InMemory)

	return cfg, loader, nil
}

// runTraversal executes one config end to end and writes its GeoJSON
// output, shared by both the "run" and "batch" commands.
func runTraversal(ctx context.Context, rc runConfig) error {
	cfg, loader, err := buildTraverserConfig(rc)
	if err != nil {
		return err
	}

	traverser := voyager.NewTraverser(cfg, loader)

	results, err := traverser.Run(ctx)
	if err != nil {
		return err
	}

	if rc.Aggregate {
		combined := encode.FeatureCollection{Type: "FeatureCollection"}
		for _, r := range results {
			fc := encode.AggregateLaunchDay(r)
			combined.Features = append(combined.Features, fc.Features...)
			for _, f := range r.Failures {
				log.Printf("vessel failed: craft=%d departure=%v err=%v", f.Craft, f.DeparturePoint, f.Err)
			}
		}
		blob, err := encode.Marshal(combined)
		if err != nil {
			return err
		}
		return os.WriteFile(rc.OutURI, blob, 0o644)
	}

	for date, r := range results {
		fc := encode.ToFeatureCollection(r.Records)
		blob, err := encode.Marshal(fc)
		if err != nil {
			return err
		}
		out := fmt.Sprintf("%s.%s.geojson", strings.TrimSuffix(rc.OutURI, filepath.Ext(rc.OutURI)), date)
		if err := os.WriteFile(out, blob, 0o644); err != nil {
			return err
		}
		for _, f := range r.Failures {
			log.Printf("vessel failed: craft=%d departure=%v err=%v", f.Craft, f.DeparturePoint, f.Err)
		}
	}

	return nil
}

func runFromFlags(cCtx *cli.Context) (runConfig, error) {
	if path := cCtx.String("config"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return runConfig{}, err
		}
		var rc runConfig
		err = json.Unmarshal(data, &rc)
		return rc, err
	}

	bbox, err := parseFloats(cCtx.String("bbox"))
	if err != nil {
		return runConfig{}, err
	}
	dest, err := parseFloats(cCtx.String("destination"))
	if err != nil {
		return runConfig{}, err
	}
	departures, err := parsePoints(cCtx.String("departures"))
	if err != nil {
		return runConfig{}, err
	}

	return runConfig{
		Mode:          cCtx.String("mode"),
		Craft:         cCtx.Int("craft"),
		CurrentsURI:   cCtx.String("currents-uri"),
		WindsURI:      cCtx.String("winds-uri"),
		InMemory:      cCtx.Bool("in-memory"),
		VesselConfig:  cCtx.String("vessel-config"),
		Destination:   dest,
		Departures:    departures,
		Reps:          cCtx.Int("reps"),
		BBox:          bbox,
		StartDate:     cCtx.String("start-date"),
		EndDate:       cCtx.String("end-date"),
		LaunchFreq:    cCtx.Int("launch-freq"),
		RouteInterval: cCtx.Int("route-interval"),
		Duration:      cCtx.Float64("duration"),
		Dt:            cCtx.Float64("dt"),
		Sigma:         cCtx.Float64("sigma"),
		Tolerance:     cCtx.Float64("tolerance"),
		OutURI:        cCtx.String("out-uri"),
		Aggregate:     cCtx.Bool("aggregate"),
	}, nil
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// parsePoints parses "lon:lat,lon:lat,..." into a slice of [lon, lat] pairs.
func parsePoints(s string) ([][]float64, error) {
	if s == "" {
		return nil, nil
	}
	var out [][]float64
	for _, pair := range strings.Split(s, ",") {
		xy := strings.Split(pair, ":")
		if len(xy) != 2 {
			return nil, fmt.Errorf("malformed departure point: %q", pair)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(xy[0]), 64)
		if err != nil {
			return nil, err
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(xy[1]), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, []float64{lon, lat})
	}
	return out, nil
}

var runFlags = []cli.Flag{
	&cli.StringFlag{Name: "config", Usage: "Path to a JSON run config; overrides all other flags."},
	&cli.StringFlag{Name: "mode", Usage: "Vessel mode: drift, paddling, or sailing."},
	&cli.IntFlag{Name: "craft", Usage: "Craft id."},
	&cli.StringFlag{Name: "currents-uri", Usage: "Path to the currents grid file."},
	&cli.StringFlag{Name: "winds-uri", Usage: "Path to the winds grid file."},
	&cli.BoolFlag{Name: "in-memory", Usage: "Read grid files fully into memory before decoding."},
	&cli.StringFlag{Name: "vessel-config", Usage: "Path to a JSON vessel parameter config."},
	&cli.StringFlag{Name: "destination", Usage: "lon,lat"},
	&cli.StringFlag{Name: "departures", Usage: "lon:lat,lon:lat,... departure points."},
	&cli.IntFlag{Name: "reps", Value: 1, Usage: "Replicate each departure point this many times."},
	&cli.StringFlag{Name: "bbox", Usage: "lon_min,lat_min,lon_max,lat_max"},
	&cli.StringFlag{Name: "start-date", Usage: "YYYY-MM-DD"},
	&cli.StringFlag{Name: "end-date", Usage: "YYYY-MM-DD"},
	&cli.IntFlag{Name: "launch-freq", Value: 1, Usage: "Days between launches."},
	&cli.IntFlag{Name: "route-interval", Value: 4, Usage: "Downsample routed waypoints every N cells."},
	&cli.Float64Flag{Name: "duration", Usage: "Run duration in days."},
	&cli.Float64Flag{Name: "dt", Usage: "Integrator timestep in seconds."},
	&cli.Float64Flag{Name: "sigma", Usage: "Displacement noise standard deviation, metres."},
	&cli.Float64Flag{Name: "tolerance", Usage: "Arrival tolerance factor."},
	&cli.StringFlag{Name: "out-uri", Usage: "Output GeoJSON path."},
	&cli.BoolFlag{Name: "aggregate", Usage: "Write one FeatureCollection for the whole run instead of one per launch day."},
}

func main() {
	app := &cli.App{
		Name:  "voyager",
		Usage: "simulate ocean vessel trajectories under gridded current and wind forcing",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run a single traverser batch and write GeoJSON output",
				Flags: runFlags,
				Action: func(cCtx *cli.Context) error {
					rc, err := runFromFlags(cCtx)
					if err != nil {
						return err
					}

					ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
					defer stop()

					return runTraversal(ctx, rc)
				},
			},
			{
				Name:  "batch",
				Usage: "run every JSON config in a directory across a worker pool",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config-dir", Required: true, Usage: "Directory of JSON run configs."},
				},
				Action: func(cCtx *cli.Context) error {
					dir := cCtx.String("config-dir")
					entries, err := os.ReadDir(dir)
					if err != nil {
						return err
					}

					ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
					defer stop()

					n := runtime.NumCPU()
					pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))
					defer pool.StopAndWait()

					for _, e := range entries {
						if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
							continue
						}
						path := filepath.Join(dir, e.Name())
						pool.Submit(func() {
							data, err := os.ReadFile(path)
							if err != nil {
								log.Printf("%s: %v", path, err)
								return
							}
							var rc runConfig
							if err := json.Unmarshal(data, &rc); err != nil {
								log.Printf("%s: %v", path, err)
								return
							}
							log.Println("Running config:", path)
							if err := runTraversal(ctx, rc); err != nil {
								log.Printf("%s: %v", path, err)
							}
						})
					}

					return nil
				},
			},
			{
				Name:  "cache",
				Usage: "persist or inspect a cached chart TileDB group",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "mode", Required: true, Usage: "save or load."},
					&cli.StringFlag{Name: "group-uri", Required: true, Usage: "TileDB group URI."},
					&cli.StringFlag{Name: "currents-uri", Usage: "Path to the currents grid file (save mode)."},
					&cli.StringFlag{Name: "winds-uri", Usage: "Path to the winds grid file (save mode)."},
					&cli.BoolFlag{Name: "in-memory", Usage: "Read grid files fully into memory before decoding."},
					&cli.StringFlag{Name: "bbox", Usage: "lon_min,lat_min,lon_max,lat_max"},
					&cli.StringFlag{Name: "start-date", Usage: "YYYY-MM-DD"},
					&cli.StringFlag{Name: "end-date", Usage: "YYYY-MM-DD"},
					&cli.StringFlag{Name: "config-uri", Usage: "Path to a TileDB config file."},
				},
				Action: func(cCtx *cli.Context) error {
					var config *tiledb.Config
					var err error

					if uri := cCtx.String("config-uri"); uri != "" {
						config, err = tiledb.LoadConfig(uri)
					} else {
						config, err = tiledb.NewConfig()
					}
					if err != nil {
						return err
					}
					defer config.Free()

					ctx, err := tiledb.NewContext(config)
					if err != nil {
						return err
					}
					defer ctx.Free()

					groupURI := cCtx.String("group-uri")

					switch cCtx.String("mode") {
					case "save":
						bbox, err := parseFloats(cCtx.String("bbox"))
						if err != nil {
							return err
						}
						start, err := parseDate(cCtx.String("start-date"))
						if err != nil {
							return err
						}
						end, err := parseDate(cCtx.String("end-date"))
						if err != nil {
							return err
						}

						loader := raster.NewMemoryLoader(cCtx.String("currents-uri"), cCtx.String("winds-uri"), cCtx.Bool("in-memory"))
						b := voyager.BoundingBox{LonMin: bbox[0], LatMin: bbox[1], LonMax: bbox[2], LatMax: bbox[3]}

						chart := voyager.NewChart(b, start, end)
						if err := chart.Load(loader, voyager.DefaultContourOptions()); err != nil {
							return err
						}

						log.Println("Writing chart cache to", groupURI)
						return store.Save(ctx, groupURI, chart)

					case "load":
						chart, err := store.Load(ctx, groupURI, voyager.DefaultContourOptions())
						if err != nil {
							return err
						}
						log.Printf("Loaded chart: %d time steps, %d lat, %d lon\n",
							len(chart.UCurrentAll.Time), len(chart.Latitude), len(chart.Longitude))
						return nil

					default:
						return errors.New("mode must be save or load")
					}
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
