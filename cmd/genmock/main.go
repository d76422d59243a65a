// genmock seeds an InfluxDB bucket with synthetic station observations
// so a full compilation pass can run locally without real hardware.
// Values follow rough diurnal curves; rain is written as bucket-tip
// increments the way a tipping-bucket sensor reports it.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
)

func main() {
	url := flag.String("url", "http://localhost:8086", "InfluxDB URL")
	token := flag.String("token", "", "InfluxDB token")
	org := flag.String("org", "weather", "InfluxDB org")
	bucket := flag.String("bucket", "weewx", "target bucket")
	measurement := flag.String("measurement", "archive", "target measurement")
	days := flag.Int("days", 7, "days of history to generate")
	interval := flag.Duration("interval", 5*time.Minute, "archive interval")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	client := influxdb2.NewClient(*url, *token)
	defer client.Close()
	writeAPI := client.WriteAPIBlocking(*org, *bucket)

	rng := rand.New(rand.NewSource(*seed))
	stop := time.Now().Truncate(*interval)
	start := stop.AddDate(0, 0, -*days)

	ctx := context.Background()
	count := 0
	for ts := start; ts.Before(stop); ts = ts.Add(*interval) {
		point := influxdb2.NewPoint(
			*measurement,
			map[string]string{"station": "genmock"},
			fields(ts, rng),
			ts,
		)
		if err := writeAPI.WritePoint(ctx, point); err != nil {
			fmt.Fprintf(os.Stderr, "write point at %s: %v\n", ts.Format(time.RFC3339), err)
			os.Exit(1)
		}
		count++
	}
	fmt.Printf("wrote %d points to %s/%s between %s and %s\n",
		count, *bucket, *measurement, start.Format(time.RFC3339), stop.Format(time.RFC3339))
}

// fields produces one archive record in US units.
func fields(ts time.Time, rng *rand.Rand) map[string]any {
	// Hour of day as a phase angle; temperature peaks mid-afternoon.
	phase := (float64(ts.Hour()) + float64(ts.Minute())/60 - 15) / 24 * 2 * math.Pi

	temp := 55 + 15*math.Cos(phase) + rng.Float64()*2
	humidity := 70 - 20*math.Cos(phase) + rng.Float64()*5
	barometer := 29.92 + 0.3*math.Sin(float64(ts.YearDay())) + rng.Float64()*0.05
	windSpeed := math.Abs(8 + 6*math.Sin(phase/2) + rng.NormFloat64()*3)
	windDir := math.Mod(float64(ts.YearDay())*3+rng.Float64()*40, 360)

	// A tip now and then; heavier in the "afternoon".
	rain := 0.0
	if rng.Float64() < 0.05 {
		rain = 0.01 * float64(1+rng.Intn(3))
	}

	return map[string]any{
		"outTemp":     temp,
		"dewpoint":    temp - 10 - rng.Float64()*5,
		"outHumidity": humidity,
		"barometer":   barometer,
		"windSpeed":   windSpeed,
		"windGust":    windSpeed + rng.Float64()*8,
		"windDir":     windDir,
		"rain":        rain,
		"rainRate":    rain * 12,
	}
}
