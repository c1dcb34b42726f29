// Package export renders stored activity data in columnar formats for
// offline analysis.
package export

import (
	"fmt"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/noszczynski/bike-stats-sub000/internal/models"
)

// TrackpointRow is the parquet schema of one trackpoint. Absent channels
// are written as nulls.
type TrackpointRow struct {
	Seq          int32    `parquet:"name=seq, type=INT32"`
	TimestampMS  int64    `parquet:"name=timestamp_ms, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	Latitude     *float64 `parquet:"name=latitude, type=DOUBLE, repetitiontype=OPTIONAL"`
	Longitude    *float64 `parquet:"name=longitude, type=DOUBLE, repetitiontype=OPTIONAL"`
	AltitudeM    *float64 `parquet:"name=altitude_m, type=DOUBLE, repetitiontype=OPTIONAL"`
	DistanceM    *float64 `parquet:"name=distance_m, type=DOUBLE, repetitiontype=OPTIONAL"`
	SpeedMS      *float64 `parquet:"name=speed_ms, type=DOUBLE, repetitiontype=OPTIONAL"`
	HeartRateBPM *int32   `parquet:"name=heart_rate_bpm, type=INT32, repetitiontype=OPTIONAL"`
	CadenceRPM   *int32   `parquet:"name=cadence_rpm, type=INT32, repetitiontype=OPTIONAL"`
	TemperatureC *float64 `parquet:"name=temperature_c, type=DOUBLE, repetitiontype=OPTIONAL"`
}

// TrackpointsParquet encodes the trackpoints as a snappy-compressed parquet
// file held in memory.
func TrackpointsParquet(points []models.Trackpoint) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(TrackpointRow), 4)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, p := range points {
		if err := pw.Write(toRow(p)); err != nil {
			_ = pw.WriteStop()
			return nil, fmt.Errorf("failed to write trackpoint %d: %w", p.Seq, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("failed to finish parquet file: %w", err)
	}
	if err := fw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close parquet buffer: %w", err)
	}
	return append([]byte(nil), fw.Bytes()...), nil
}

func toRow(p models.Trackpoint) TrackpointRow {
	return TrackpointRow{
		Seq:          int32(p.Seq),
		TimestampMS:  p.Timestamp.UnixMilli(),
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		AltitudeM:    p.AltitudeM,
		DistanceM:    p.DistanceM,
		SpeedMS:      p.SpeedMS,
		HeartRateBPM: int32Ptr(p.HeartRateBPM),
		CadenceRPM:   int32Ptr(p.CadenceRPM),
		TemperatureC: p.TemperatureC,
	}
}

func int32Ptr(v *int) *int32 {
	if v == nil {
		return nil
	}
	x := int32(*v)
	return &x
}
