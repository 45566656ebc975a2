// pvreplay replays recorded three-phase current CSVs through the analysis
// chain offline. It prints the fault score per window and renders the scaled
// Park trajectory against the unit circle, which is the quickest way to
// eyeball why a live deployment classified a motor the way it did.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"os"
	"strconv"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/motor.report/internal/motor"
)

var (
	csvFile    = flag.String("csv", "", "Input CSV with ia,ib,ic columns (header optional)")
	outFile    = flag.String("out", "trajectory.png", "Output trajectory plot")
	windowSize = flag.Int("window", 0, "Window size in samples (0 for default)")
	f0         = flag.Float64("f0", 0, "Fixed supply frequency in Hz (0 to estimate)")
	sampleRate = flag.Float64("sample-rate", 0, "Sample rate of the recording in Hz (0 for default)")
)

func main() {
	flag.Parse()

	if *csvFile == "" {
		log.Fatal("-csv is required")
	}

	cfg := motor.DefaultConfig()
	if *windowSize > 0 {
		cfg.WindowSize = *windowSize
	}
	if *f0 > 0 {
		cfg.F0Detected = *f0
	}
	if *sampleRate > 0 {
		cfg.SampleRate = *sampleRate
	}

	samples, err := loadCurrents(*csvFile)
	if err != nil {
		log.Fatalf("failed to load %s: %v", *csvFile, err)
	}
	log.Printf("loaded %d samples from %s", len(samples), *csvFile)

	var (
		lastScaledD, lastScaledQ []float64
		lastScore                float64
		windows                  int
	)

	scorer := motor.NewFaultScorer(cfg)
	buffer := motor.NewSampleBuffer(cfg.WindowSize, cfg.AuxWindowSize)
	for i, s := range samples {
		buffer.Push(s)
		if (i+1)%cfg.WindowSize != 0 {
			continue
		}

		ia, ib, ic := buffer.SnapshotCurrents()
		id, iq := motor.ParkTransform(ia, ib, ic)
		idScaled, iqScaled := motor.ScaleTrajectory(id, iq)
		score := motor.Score(idScaled, iqScaled)
		class := scorer.Classify(score)
		outliers := motor.CountOutliers(idScaled, iqScaled, cfg.OutlierRadius)

		windows++
		fmt.Printf("window %3d: score=%.6f class=%-7s outliers=%d/%d\n",
			windows, score, class, outliers, len(idScaled))

		lastScaledD, lastScaledQ = idScaled, iqScaled
		lastScore = score
	}

	if windows == 0 {
		log.Fatalf("need at least %d samples for one window", cfg.WindowSize)
	}

	if err := renderTrajectory(lastScaledD, lastScaledQ, lastScore, *outFile); err != nil {
		log.Fatalf("failed to render trajectory: %v", err)
	}
	log.Printf("wrote %s", *outFile)
}

// loadCurrents reads ia,ib,ic rows. Rows with seven columns are treated as
// full sensor captures (ax,ay,az,temp,ia,ib,ic); a non-numeric first row is
// skipped as a header.
func loadCurrents(path string) ([]motor.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var out []motor.Sample
	for i, row := range rows {
		vals := make([]float64, len(row))
		ok := true
		for j, field := range row {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			if i == 0 {
				continue // header
			}
			return nil, fmt.Errorf("row %d: non-numeric field", i+1)
		}

		s := motor.Sample{Time: now}
		switch len(vals) {
		case 3:
			s.Ia, s.Ib, s.Ic = vals[0], vals[1], vals[2]
		case 4:
			// time,ia,ib,ic capture; the timestamp column is unused offline
			s.Ia, s.Ib, s.Ic = vals[1], vals[2], vals[3]
		case 7:
			s.Ax, s.Ay, s.Az = vals[0], vals[1], vals[2]
			s.Temp = vals[3]
			s.Ia, s.Ib, s.Ic = vals[4], vals[5], vals[6]
		default:
			return nil, fmt.Errorf("row %d: want 3, 4, or 7 columns, got %d", i+1, len(vals))
		}
		out = append(out, s)
	}
	return out, nil
}

func renderTrajectory(id, iq []float64, score float64, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Park trajectory (score %.6f)", score)
	p.X.Label.Text = "id"
	p.Y.Label.Text = "iq"

	pts := make(plotter.XYs, len(id))
	for i := range id {
		pts[i] = plotter.XY{X: id[i], Y: iq[i]}
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	scatter.Radius = vg.Points(1)
	p.Add(scatter)
	p.Legend.Add("trajectory", scatter)

	// Reference unit circle: a healthy trajectory hugs it.
	circle := make(plotter.XYs, 361)
	for i := range circle {
		theta := float64(i) * math.Pi / 180
		circle[i] = plotter.XY{X: math.Cos(theta), Y: math.Sin(theta)}
	}
	line, err := plotter.NewLine(circle)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)
	line.Color = color.RGBA{R: 200, A: 255}
	p.Add(line)
	p.Legend.Add("unit circle", line)

	return p.Save(8*vg.Inch, 8*vg.Inch, path)
}
