// Command fitinspect decodes a FIT activity file offline and prints what an
// upload would store: the session summary, device laps, optional
// distance laps and heart-rate zones.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tormoder/fit"

	"github.com/noszczynski/bike-stats-sub000/internal/analysis/laps"
	"github.com/noszczynski/bike-stats-sub000/internal/analysis/zones"
	"github.com/noszczynski/bike-stats-sub000/internal/export"
	"github.com/noszczynski/bike-stats-sub000/internal/fitfile"
	"github.com/noszczynski/bike-stats-sub000/internal/models"
	"github.com/noszczynski/bike-stats-sub000/internal/normalize"
)

type device struct {
	Type         string `json:"type"`
	Manufacturer string `json:"manufacturer"`
	Product      string `json:"product"`
	SerialNumber uint32 `json:"serial_number,omitempty"`
	TimeCreated  string `json:"time_created,omitempty"`
}

type report struct {
	File        string                `json:"file"`
	SizeBytes   int                   `json:"size_bytes"`
	Device      *device               `json:"device,omitempty"`
	Sport       string                `json:"sport"`
	StartTime   time.Time             `json:"start_time"`
	Trackpoints int                   `json:"trackpoints"`
	Summary     models.SessionSummary `json:"summary"`
	DeviceLaps  []models.Lap          `json:"device_laps"`
	Laps        []models.Lap          `json:"distance_laps,omitempty"`
	Zones       *zones.Summary        `json:"zones,omitempty"`
	Warnings    []string              `json:"warnings,omitempty"`
}

func main() {
	var (
		fitPath     = flag.String("fit", "", "Path to input .fit file")
		lapDistance = flag.Float64("laps", 0, "Generate laps of this many meters")
		zoneList    = flag.String("zones", "", "Zone 1-4 upper bounds in bpm, e.g. 120,140,160,175")
		parquetOut  = flag.String("parquet", "", "Write trackpoints to this parquet file")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --fit ride.fit [--laps 1000] [--zones 120,140,160,175] [--parquet out.parquet]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if strings.TrimSpace(*fitPath) == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*fitPath, *lapDistance, *zoneList, *parquetOut); err != nil {
		fmt.Fprintf(os.Stderr, "fitinspect failed: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, lapDistance float64, zoneList, parquetOut string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !fitfile.Validate(data) {
		return fitfile.ErrInvalidHeader
	}

	raw, err := fitfile.Decode(data)
	if err != nil {
		return err
	}
	trackpoints, deviceLaps := normalize.Normalize(raw, 0)

	out := report{
		File:        path,
		SizeBytes:   len(data),
		Device:      projectDevice(data),
		Sport:       normalize.SportName(raw),
		StartTime:   normalize.StartTime(raw),
		Trackpoints: len(trackpoints),
		Summary:     normalize.SessionSummary(raw),
		DeviceLaps:  deviceLaps,
		Warnings:    raw.Warnings,
	}

	if lapDistance > 0 {
		if out.Laps, err = laps.Generate(trackpoints, lapDistance); err != nil {
			return err
		}
	}

	if zoneList != "" {
		b, err := parseZones(zoneList)
		if err != nil {
			return err
		}
		summary := zones.Compute(trackpoints, b)
		out.Zones = &summary
	}

	if parquetOut != "" {
		buf, err := export.TrackpointsParquet(trackpoints)
		if err != nil {
			return err
		}
		if err := os.WriteFile(parquetOut, buf, 0o644); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// projectDevice reads the file_id through the reference decoder. Files it
// rejects simply have no device section.
func projectDevice(data []byte) *device {
	_, id, err := fit.DecodeHeaderAndFileID(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	d := &device{
		Type:         fmt.Sprint(id.Type),
		Manufacturer: fmt.Sprint(id.Manufacturer),
		Product:      fmt.Sprint(id.GetProduct()),
		SerialNumber: id.SerialNumber,
	}
	if !id.TimeCreated.IsZero() {
		d.TimeCreated = id.TimeCreated.UTC().Format(time.RFC3339)
	}
	return d
}

func parseZones(s string) (models.ZoneBoundaries, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return models.ZoneBoundaries{}, fmt.Errorf("zones: want 4 comma-separated values, got %d", len(parts))
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return models.ZoneBoundaries{}, fmt.Errorf("zones: %w", err)
		}
		v[i] = n
	}
	return models.ZoneBoundaries{Zone1Max: v[0], Zone2Max: v[1], Zone3Max: v[2], Zone4Max: v[3]}, nil
}
