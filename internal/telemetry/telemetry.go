// Package telemetry spools solver and simulator measurements as InfluxDB
// line protocol. There is no live InfluxDB on the boat side of this tool;
// lines are gzipped to a spool file and imported by the site's dashboards
// later.
package telemetry

import (
	"compress/gzip"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"

	"github.com/jmknapp/cobia-patrols/internal/analog"
	"github.com/jmknapp/cobia-patrols/internal/tdc"
)

// DefaultSpoolName is the spool file written under the output dir.
const DefaultSpoolName = "telemetry.lp.gz"

// Sink appends line protocol points to a gzipped spool file.
type Sink struct {
	Logger zerolog.Logger

	file   *os.File
	writer *gzip.Writer
	points int
}

// NewSink opens (or appends to) the spool file at path.
func NewSink(log zerolog.Logger, path string) (*Sink, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("error creating telemetry file: %v", err)
	}

	log.Debug().Str("path", path).Msg("Telemetry spool opened")
	return &Sink{
		Logger: log,
		file:   file,
		writer: gzip.NewWriter(file),
	}, nil
}

// WritePoint appends one point to the spool.
func (s *Sink) WritePoint(point *write.Point) error {
	lineProtocol := write.PointToLineProtocol(point, time.Duration(1*time.Nanosecond))
	_, err := s.writer.Write([]byte(lineProtocol + "\n"))
	if err != nil {
		return fmt.Errorf("error writing telemetry point: %s", err)
	}
	s.points++
	return nil
}

// Close flushes and closes the spool.
func (s *Sink) Close() error {
	s.Logger.Debug().Int("points", s.points).Msg("Telemetry spool closed")
	if err := s.writer.Close(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// SolutionPoint flattens a solved problem into the firing_solution
// measurement.
func SolutionPoint(p tdc.FiringProblem, s tdc.FiringSolution) *write.Point {
	point := write.NewPointWithMeasurement("firing_solution").
		AddTag("valid", strconv.FormatBool(s.Valid)).
		AddTag("converged", strconv.FormatBool(s.Converged)).
		AddField("ownCourse", p.OwnCourse).
		AddField("targetBearing", p.TargetBearing).
		AddField("targetRange", p.TargetRange).
		AddField("targetSpeed", p.TargetSpeed).
		AddField("gyroAngle", s.GyroAngle).
		AddField("trackAngle", s.TrackAngle).
		AddField("torpedoRun", s.TorpedoRun).
		AddField("torpedoRunTime", s.TorpedoRunTime).
		AddField("gyroResidual", s.GyroResidual)
	point.SetTime(time.Now())
	return point
}

// SimulationPoint summarizes one recorded machine run.
func SimulationPoint(name string, in analog.Inputs, frames int, endTime float64) *write.Point {
	point := write.NewPointWithMeasurement("simulation_run").
		AddTag("scenario", name).
		AddField("ownCourse", in.OwnCourse).
		AddField("targetBearing", in.TargetBearing).
		AddField("targetRange", in.TargetRange).
		AddField("frames", frames).
		AddField("machineSeconds", endTime)
	point.SetTime(time.Now())
	return point
}
