package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/gofrs/uuid/v5"

	"github.com/mpapenbr/racemetrics/pkg/events"
	"github.com/mpapenbr/racemetrics/pkg/model"
	"github.com/mpapenbr/racemetrics/pkg/validate"
)

// dataPointRow is the csv form of a data point. Numbers are kept as strings
// so that empty cells stay absent instead of becoming 0.
type dataPointRow struct {
	RecordedAt       string `csv:"recordedAt"`
	LapTime          string `csv:"lapTime"`
	FuelConsumption  string `csv:"fuelConsumption"`
	RPM              string `csv:"rpm"`
	EngineTemp       string `csv:"engineTemp"`
	SparkAdvance     string `csv:"sparkAdvance"`
	FuelMilliseconds string `csv:"fuelMilliseconds"`
	RevLimit         string `csv:"revLimit"`
	StoichRatio      string `csv:"stoichRatio"`
	PressureFL       string `csv:"tirePressureFL"`
	PressureFR       string `csv:"tirePressureFR"`
	PressureRL       string `csv:"tirePressureRL"`
	PressureRR       string `csv:"tirePressureRR"`
	TempFL           string `csv:"tireTempFL"`
	TempFR           string `csv:"tireTempFR"`
	TempRL           string `csv:"tireTempRL"`
	TempRR           string `csv:"tireTempRR"`
	TreadFL          string `csv:"treadDepthFL"`
	TreadFR          string `csv:"treadDepthFR"`
	TreadRL          string `csv:"treadDepthRL"`
	TreadRR          string `csv:"treadDepthRR"`
	WeightFL         string `csv:"weightFL"`
	WeightFR         string `csv:"weightFR"`
	WeightRL         string `csv:"weightRL"`
	WeightRR         string `csv:"weightRR"`
	CamberFL         string `csv:"camberFL"`
	CamberFR         string `csv:"camberFR"`
	CamberRL         string `csv:"camberRL"`
	CamberRR         string `csv:"camberRR"`
	CasterFL         string `csv:"casterFL"`
	CasterFR         string `csv:"casterFR"`
	CasterRL         string `csv:"casterRL"`
	CasterRR         string `csv:"casterRR"`
	ToeInFL          string `csv:"toeInFL"`
	ToeInFR          string `csv:"toeInFR"`
	ToeInRL          string `csv:"toeInRL"`
	ToeInRR          string `csv:"toeInRR"`
	ReboundFL        string `csv:"reboundFL"`
	ReboundFR        string `csv:"reboundFR"`
	ReboundRL        string `csv:"reboundRL"`
	ReboundRR        string `csv:"reboundRR"`
	LinePressure     string `csv:"linePressure"`
	Shift1to2        string `csv:"shift1to2"`
	Shift2to3        string `csv:"shift2to3"`
	Shift3to4        string `csv:"shift3to4"`
	Gear1            string `csv:"gear1"`
	Gear2            string `csv:"gear2"`
	Gear3            string `csv:"gear3"`
	Gear4            string `csv:"gear4"`
	TrackTemp        string `csv:"trackTemp"`
	AmbientTemp      string `csv:"ambientTemp"`
	Humidity         string `csv:"humidity"`
	TrackCondition   string `csv:"trackCondition"`
}

func formatNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatCorners(c model.Corners) (fl, fr, rl, rr string) {
	return formatNumber(c.FrontLeft), formatNumber(c.FrontRight),
		formatNumber(c.RearLeft), formatNumber(c.RearRight)
}

func toRow(p *model.PerformanceDataPoint) dataPointRow {
	row := dataPointRow{
		RecordedAt:       p.RecordedAt.UTC().Format(time.RFC3339Nano),
		LapTime:          formatNumber(p.LapTime),
		FuelConsumption:  formatNumber(p.FuelConsumption),
		RPM:              formatNumber(p.Engine.RPM),
		EngineTemp:       formatNumber(p.Engine.Temperature),
		SparkAdvance:     formatNumber(p.Engine.SparkAdvance),
		FuelMilliseconds: formatNumber(p.Engine.FuelMilliseconds),
		RevLimit:         formatNumber(p.Engine.RevLimit),
		StoichRatio:      formatNumber(p.Engine.StoichRatio),
		PressureFL:       formatNumber(p.TirePressures.FrontLeft),
		PressureFR:       formatNumber(p.TirePressures.FrontRight),
		PressureRL:       formatNumber(p.TirePressures.RearLeft),
		PressureRR:       formatNumber(p.TirePressures.RearRight),
		TempFL:           formatNumber(p.TireTemperatures.FrontLeft),
		TempFR:           formatNumber(p.TireTemperatures.FrontRight),
		TempRL:           formatNumber(p.TireTemperatures.RearLeft),
		TempRR:           formatNumber(p.TireTemperatures.RearRight),
		LinePressure:     formatNumber(p.Transmission.LinePressure),
		TrackTemp:        formatNumber(p.Environmental.TrackTemp),
		AmbientTemp:      formatNumber(p.Environmental.AmbientTemp),
		Humidity:         formatNumber(p.Environmental.Humidity),
		TrackCondition:   string(p.Environmental.TrackCondition),
		Shift1to2:        formatNumber(p.Transmission.ShiftPoints.OneToTwo),
		Shift2to3:        formatNumber(p.Transmission.ShiftPoints.TwoToThree),
		Shift3to4:        formatNumber(p.Transmission.ShiftPoints.ThreeToFour),
		Gear1:            formatNumber(p.Transmission.GearRatios.Gear1),
		Gear2:            formatNumber(p.Transmission.GearRatios.Gear2),
		Gear3:            formatNumber(p.Transmission.GearRatios.Gear3),
		Gear4:            formatNumber(p.Transmission.GearRatios.Gear4),
	}
	row.TreadFL, row.TreadFR, row.TreadRL, row.TreadRR = formatCorners(p.TreadDepth)
	row.WeightFL, row.WeightFR, row.WeightRL, row.WeightRR = formatCorners(p.WeightDistribution)
	row.CamberFL, row.CamberFR, row.CamberRL, row.CamberRR = formatCorners(p.Suspension.Camber)
	row.CasterFL, row.CasterFR, row.CasterRL, row.CasterRR = formatCorners(p.Suspension.Caster)
	row.ToeInFL, row.ToeInFR, row.ToeInRL, row.ToeInRR = formatCorners(p.Suspension.ToeIn)
	row.ReboundFL, row.ReboundFR, row.ReboundRL, row.ReboundRR = formatCorners(p.Suspension.Rebound)
	return row
}

// rowParser collects the parse errors of one row.
type rowParser struct {
	errs validate.Errors
}

func (rp *rowParser) number(field, value string) *float64 {
	v, err := validate.ParseNumber(value)
	if err != nil {
		rp.errs.Add(field, "is not a number")
	}
	return v
}

// corners parses the four cells of a per-wheel column group named prefix.
//
//nolint:whitespace // editor/linter issue
func (rp *rowParser) corners(
	prefix string, fl, fr, rl, rr string,
) model.Corners {
	return model.Corners{
		FrontLeft:  rp.number(prefix+"FL", fl),
		FrontRight: rp.number(prefix+"FR", fr),
		RearLeft:   rp.number(prefix+"RL", rl),
		RearRight:  rp.number(prefix+"RR", rr),
	}
}

func (r *dataPointRow) toModel() (*model.PerformanceDataPoint, error) {
	var rp rowParser
	p := &model.PerformanceDataPoint{}
	if r.RecordedAt != "" {
		t, err := time.Parse(time.RFC3339Nano, r.RecordedAt)
		if err != nil {
			rp.errs.Add("recordedAt", "is not a RFC3339 timestamp")
		}
		p.RecordedAt = t
	}
	p.LapTime = rp.number("lapTime", r.LapTime)
	p.FuelConsumption = rp.number("fuelConsumption", r.FuelConsumption)
	p.Engine = model.EngineReading{
		RPM:              rp.number("rpm", r.RPM),
		Temperature:      rp.number("engineTemp", r.EngineTemp),
		SparkAdvance:     rp.number("sparkAdvance", r.SparkAdvance),
		FuelMilliseconds: rp.number("fuelMilliseconds", r.FuelMilliseconds),
		RevLimit:         rp.number("revLimit", r.RevLimit),
		StoichRatio:      rp.number("stoichRatio", r.StoichRatio),
	}
	p.TirePressures = rp.corners("tirePressure", r.PressureFL, r.PressureFR, r.PressureRL, r.PressureRR)
	p.TireTemperatures = rp.corners("tireTemp", r.TempFL, r.TempFR, r.TempRL, r.TempRR)
	p.TreadDepth = rp.corners("treadDepth", r.TreadFL, r.TreadFR, r.TreadRL, r.TreadRR)
	p.WeightDistribution = rp.corners("weight", r.WeightFL, r.WeightFR, r.WeightRL, r.WeightRR)
	p.Suspension = model.SuspensionReading{
		Camber:  rp.corners("camber", r.CamberFL, r.CamberFR, r.CamberRL, r.CamberRR),
		Caster:  rp.corners("caster", r.CasterFL, r.CasterFR, r.CasterRL, r.CasterRR),
		ToeIn:   rp.corners("toeIn", r.ToeInFL, r.ToeInFR, r.ToeInRL, r.ToeInRR),
		Rebound: rp.corners("rebound", r.ReboundFL, r.ReboundFR, r.ReboundRL, r.ReboundRR),
	}
	p.Transmission = model.TransmissionReading{
		LinePressure: rp.number("linePressure", r.LinePressure),
		ShiftPoints: model.ShiftPoints{
			OneToTwo:    rp.number("shift1to2", r.Shift1to2),
			TwoToThree:  rp.number("shift2to3", r.Shift2to3),
			ThreeToFour: rp.number("shift3to4", r.Shift3to4),
		},
		GearRatios: model.GearRatios{
			Gear1: rp.number("gear1", r.Gear1),
			Gear2: rp.number("gear2", r.Gear2),
			Gear3: rp.number("gear3", r.Gear3),
			Gear4: rp.number("gear4", r.Gear4),
		},
	}
	p.Environmental = model.EnvironmentReading{
		TrackTemp:      rp.number("trackTemp", r.TrackTemp),
		AmbientTemp:    rp.number("ambientTemp", r.AmbientTemp),
		Humidity:       rp.number("humidity", r.Humidity),
		TrackCondition: model.TrackCondition(r.TrackCondition),
	}
	if err := rp.errs.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

// ExportDataPoints writes the points of a session as csv.
//
//nolint:whitespace // editor/linter issue
func (s *Service) ExportDataPoints(
	ctx context.Context, sessionID uuid.UUID, w io.Writer,
) (int, error) {
	points, err := s.ListDataPoints(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	rows := make([]dataPointRow, len(points))
	for i := range points {
		rows[i] = toRow(points[i])
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return 0, fmt.Errorf("write csv: %w", err)
	}
	return len(rows), nil
}

// ImportDataPoints reads csv rows and logs them into an active session.
// Either all rows are stored or none.
//
//nolint:whitespace // editor/linter issue
func (s *Service) ImportDataPoints(
	ctx context.Context, sessionID uuid.UUID, r io.Reader,
) (*ImportResult, error) {
	ctx, span := s.span(ctx, "ImportDataPoints")
	defer span.End()
	var rows []*dataPointRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return &ImportResult{}, nil
		}
		var errs validate.Errors
		errs.Add("csv", err.Error())
		return nil, errs
	}
	points := make([]*model.PerformanceDataPoint, 0, len(rows))
	for i, row := range rows {
		p, err := row.toModel()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		points = append(points, p)
	}
	if len(points) == 0 {
		return &ImportResult{}, nil
	}
	stored, err := s.logDataPoints(ctx, sessionID, points)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EntityDataPoint, events.ActionCreated, sessionID,
		&ImportResult{Imported: len(stored)})
	return &ImportResult{Imported: len(stored)}, nil
}
