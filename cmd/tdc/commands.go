package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jmknapp/cobia-patrols/internal/analog"
	"github.com/jmknapp/cobia-patrols/internal/config"
	"github.com/jmknapp/cobia-patrols/internal/geo"
	"github.com/jmknapp/cobia-patrols/internal/replay"
	"github.com/jmknapp/cobia-patrols/internal/tdc"
	"github.com/jmknapp/cobia-patrols/internal/telemetry"
	"github.com/jmknapp/cobia-patrols/internal/verify"
)

// problemArgs collects the observation flags shared by solve and simulate.
type problemArgs struct {
	ownCourse     *float64
	ownSpeed      *float64
	targetBearing *float64
	targetRange   *float64
	targetCourse  *float64
	targetSpeed   *float64
	torpedo       *string
	torpedoSpeed  *float64
}

func addProblemFlags(fs *flag.FlagSet) *problemArgs {
	return &problemArgs{
		ownCourse:     fs.Float64("own-course", 0, "own ship course in degrees true"),
		ownSpeed:      fs.Float64("own-speed", verify.DefaultOwnSpeedKnots, "own ship speed in knots"),
		targetBearing: fs.Float64("target-bearing", 0, "target bearing in degrees true"),
		targetRange:   fs.Float64("target-range", 0, "target range in yards"),
		targetCourse:  fs.Float64("target-course", 0, "target course in degrees true"),
		targetSpeed:   fs.Float64("target-speed", 0, "target speed in knots"),
		torpedo:       fs.String("torpedo", "", "torpedo preset name (empty uses the configured default)"),
		torpedoSpeed:  fs.Float64("torpedo-speed", 0, "torpedo speed in knots, overrides -torpedo"),
	}
}

func (a *problemArgs) problem() (tdc.FiringProblem, error) {
	speed, err := resolveTorpedoSpeed(*a.torpedo, *a.torpedoSpeed)
	if err != nil {
		return tdc.FiringProblem{}, err
	}
	return tdc.FiringProblem{
		OwnCourse:     *a.ownCourse,
		OwnSpeed:      *a.ownSpeed,
		TargetBearing: *a.targetBearing,
		TargetRange:   *a.targetRange,
		TargetCourse:  *a.targetCourse,
		TargetSpeed:   *a.targetSpeed,
		TorpedoSpeed:  speed,
	}, nil
}

// requireFlags reports the observation flags the user left off. Zero is a
// legal value for all of them, so presence is what matters, not the value.
func requireFlags(fs *flag.FlagSet, names ...string) error {
	seen := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { seen[f.Name] = true })

	var missing []string
	for _, name := range names {
		if !seen[name] {
			missing = append(missing, "-"+name)
		}
	}
	if len(missing) > 0 {
		fs.Usage()
		return fmt.Errorf("missing required flags: %s", strings.Join(missing, " "))
	}
	return nil
}

func resolveTorpedoSpeed(preset string, explicit float64) (float64, error) {
	if explicit > 0 {
		return explicit, nil
	}
	name := preset
	if name == "" {
		name = config.GetString("defaultTorpedo")
	}
	speed, ok := config.TorpedoSpeed(name)
	if !ok {
		return 0, fmt.Errorf("unknown torpedo preset %q, run '%s presets' for the list", name, AppName)
	}
	return speed, nil
}

func newSolver() (*tdc.Solver, error) {
	bc := config.GetBallisticsConfig()
	sc := config.GetSolverConfig()
	return tdc.NewSolver(
		tdc.Ballistics{InitialRunYards: bc.InitialRunYards, TurnRateDegSec: bc.TurnRateDegSec},
		tdc.Settings{Iterations: sc.Iterations, Blend: sc.Blend, ResidualLimitDeg: sc.ResidualLimit},
	)
}

// openSpool opens the telemetry spool under the output directory. Telemetry
// never fails a command; when the spool cannot be opened the command runs
// without it.
func openSpool(logger zerolog.Logger) *telemetry.Sink {
	out := config.GetOutputConfig()
	if err := os.MkdirAll(out.Dir, 0755); err != nil {
		logger.Warn().Err(err).Msg("Telemetry spool unavailable")
		return nil
	}
	sink, err := telemetry.NewSink(logger, filepath.Join(out.Dir, telemetry.DefaultSpoolName))
	if err != nil {
		logger.Warn().Err(err).Msg("Telemetry spool unavailable")
		return nil
	}
	return sink
}

func runSolve(logger zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("solve", flag.ExitOnError)
	prob := addProblemFlags(fs)
	straight := fs.Bool("straight", false, "ignore the gyro turn and treat the torpedo as running straight")
	asJSON := fs.Bool("json", false, "print the solution as JSON")
	chartPath := fs.String("chart", "", "write the torpedo track as GeoJSON to this file")
	fs.Parse(args)

	if err := requireFlags(fs, "own-course", "target-bearing", "target-range", "target-course", "target-speed"); err != nil {
		return err
	}

	problem, err := prob.problem()
	if err != nil {
		return err
	}
	solver, err := newSolver()
	if err != nil {
		return err
	}
	solution, err := solver.Solve(problem, !*straight)
	if err != nil {
		return err
	}

	if sink := openSpool(logger); sink != nil {
		if err := sink.WritePoint(telemetry.SolutionPoint(problem, solution)); err != nil {
			logger.Warn().Err(err).Msg("Telemetry point dropped")
		}
		if err := sink.Close(); err != nil {
			logger.Warn().Err(err).Msg("Closing telemetry spool")
		}
	}

	if *asJSON {
		out, err := json.MarshalIndent(solution, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding solution: %w", err)
		}
		fmt.Println(string(out))
	} else {
		printSolution(problem, solution)
	}

	if *chartPath != "" {
		if err := writeChart(*chartPath, solution); err != nil {
			return err
		}
		logger.Info().Str("path", *chartPath).Msg("Torpedo track written")
	}
	return nil
}

func runSimulate(logger zerolog.Logger, args []string) error {
	simCfg := config.GetSimConfig()

	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	prob := addProblemFlags(fs)
	name := fs.String("name", "attack", "recording name")
	seconds := fs.Float64("seconds", simCfg.Seconds, "machine time to run")
	dt := fs.Float64("dt", simCfg.Step, "integration step in seconds")
	fs.Parse(args)

	if err := requireFlags(fs, "own-course", "target-bearing", "target-range", "target-course", "target-speed"); err != nil {
		return err
	}

	problem, err := prob.problem()
	if err != nil {
		return err
	}
	in := analog.Inputs{
		OwnSpeed:      problem.OwnSpeed,
		OwnCourse:     problem.OwnCourse,
		TargetSpeed:   problem.TargetSpeed,
		TargetCourse:  problem.TargetCourse,
		TargetBearing: problem.TargetBearing,
		TargetRange:   problem.TargetRange,
		TorpedoSpeed:  problem.TorpedoSpeed,
	}

	machine, err := analog.NewMark3()
	if err != nil {
		return err
	}
	if err := machine.SetInputs(in); err != nil {
		return err
	}

	recorder := replay.NewRecorder(machine)
	if err := recorder.Run(*seconds, *dt); err != nil {
		return err
	}
	frames := recorder.Drain()
	printFrames(frames)

	// The settled solver solution rides along in the recording so the
	// playback page can overlay the firing data on the dials.
	solver, err := newSolver()
	if err != nil {
		return err
	}
	solution, err := solver.Solve(problem, true)
	if err != nil {
		return err
	}

	var chart json.RawMessage
	if solution.Valid && solution.Trajectory != nil {
		cc := config.GetChartConfig()
		anchor := geo.Anchor{Lat: cc.Lat, Lon: cc.Lon}
		gj, err := anchor.TrackGeoJSON(solution.Trajectory.Points)
		if err != nil {
			logger.Warn().Err(err).Msg("Chart track skipped")
		} else {
			chart = gj
		}
	}

	meta := replay.Meta{
		Name:        *name,
		CapturedAt:  time.Now().UTC(),
		Inputs:      in,
		StepSeconds: *dt,
	}
	recording := replay.Build(meta, frames, &solution, solution.Trajectory, chart)

	out := config.GetOutputConfig()
	fileName := fmt.Sprintf("%s_%s", *name, meta.CapturedAt.Format("20060102_150405"))
	path, err := replay.Write(out.Dir, fileName, recording, out.Compress)
	if err != nil {
		return err
	}
	logger.Info().Str("path", path).Int("frames", len(frames)).Msg("Recording written")
	fmt.Printf("\nRecording written to %s\n", path)

	if sink := openSpool(logger); sink != nil {
		if err := sink.WritePoint(telemetry.SimulationPoint(*name, in, len(frames), machine.Elapsed())); err != nil {
			logger.Warn().Err(err).Msg("Telemetry point dropped")
		}
		if err := sink.Close(); err != nil {
			logger.Warn().Err(err).Msg("Closing telemetry spool")
		}
	}
	return nil
}

var selectorPattern = regexp.MustCompile(`(?i)^P(\d+)(?:A(\d+))?$`)

// parseSelector reads the P1A4 form. P1 alone selects a whole patrol and an
// empty selector selects everything.
func parseSelector(s string) (patrol, attack int, err error) {
	if s == "" {
		return 0, 0, nil
	}
	m := selectorPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, fmt.Errorf("invalid selector %q, use P1A4 for Patrol 1 Attack 4", s)
	}
	patrol, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		attack, _ = strconv.Atoi(m[2])
	}
	return patrol, attack, nil
}

func runVerify(logger zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	attacksPath := fs.String("attacks", filepath.Join("data", "attacks.json"), "recorded attack data file")
	sel := fs.String("select", "", "limit to one attack (P1A4) or one patrol (P1)")
	fs.Parse(args)

	patrol, attackNo, err := parseSelector(*sel)
	if err != nil {
		return err
	}
	attacks, err := verify.Load(*attacksPath)
	if err != nil {
		return err
	}
	matched := verify.Filter(attacks, patrol, attackNo)
	if len(matched) == 0 {
		if *sel == "" {
			return fmt.Errorf("no attacks found in %s", *attacksPath)
		}
		return fmt.Errorf("no attack matches %q in %s", *sel, *attacksPath)
	}

	solver, err := newSolver()
	if err != nil {
		return err
	}

	compared := 0
	for _, atk := range matched {
		cmp, err := verify.Compare(solver, atk)
		if err != nil {
			logger.Warn().Err(err).Msg("Attack skipped")
			continue
		}
		printComparison(cmp)
		compared++
	}
	if compared == 0 {
		return errors.New("no attacks could be recomputed")
	}
	return nil
}

func runPresets(args []string) error {
	fs := flag.NewFlagSet("presets", flag.ExitOnError)
	fs.Parse(args)

	speeds := config.GetTorpedoes()
	if len(speeds) == 0 {
		return errors.New("no torpedo presets configured")
	}
	names := make([]string, 0, len(speeds))
	for name := range speeds {
		names = append(names, name)
	}
	sort.Strings(names)

	def := config.GetString("defaultTorpedo")
	for _, name := range names {
		marker := " "
		if name == def {
			marker = "*"
		}
		fmt.Printf("%s %-14s %5.1f knots\n", marker, name, speeds[name])
	}
	return nil
}

func writeChart(path string, s tdc.FiringSolution) error {
	if !s.Valid || s.Trajectory == nil {
		return errors.New("no trajectory to chart")
	}
	cc := config.GetChartConfig()
	anchor := geo.Anchor{Lat: cc.Lat, Lon: cc.Lon}
	gj, err := anchor.TrackGeoJSON(s.Trajectory.Points)
	if err != nil {
		return fmt.Errorf("building chart track: %w", err)
	}
	if err := os.WriteFile(path, gj, 0644); err != nil {
		return fmt.Errorf("writing chart track: %w", err)
	}
	return nil
}

func printSolution(p tdc.FiringProblem, s tdc.FiringSolution) {
	fmt.Println("            TORPEDO FIRE CONTROL SOLUTION")
	fmt.Println()
	fmt.Printf("  Own course     %7.1f°     Target bearing %7.1f°\n", p.OwnCourse, p.TargetBearing)
	fmt.Printf("  Own speed      %7.1f kn    Target range   %7.0f yd\n", p.OwnSpeed, p.TargetRange)
	fmt.Printf("  Torpedo speed  %7.1f kn    Target course  %7.1f°\n", p.TorpedoSpeed, p.TargetCourse)
	fmt.Printf("                               Target speed   %7.1f kn\n", p.TargetSpeed)
	fmt.Println()

	if !s.Valid {
		fmt.Printf("  NO SOLUTION: %s\n", s.Message)
		return
	}

	fmt.Printf("  Gyro angle      %+7.1f°  (%.1f° on the dial)\n", s.GyroAngle, s.GyroAngle360)
	fmt.Printf("  Torpedo heading %7.1f°\n", s.TorpedoHeading)
	fmt.Printf("  Lead angle      %7.1f°\n", s.LeadAngle)
	fmt.Println()
	fmt.Printf("  Angle on bow    %7.1f° %s\n", s.AngleOnBow, s.AOBSide)
	fmt.Printf("  Track angle     %7.1f° %s\n", s.TrackAngle, s.TrackSide)
	fmt.Printf("  Relative brg    %+7.1f°\n", s.TargetBearingRelative)
	fmt.Println()

	if t := s.Trajectory; t != nil {
		fmt.Printf("  Reach       %6.0f yd in %5.1f s\n", t.InitialRunDistance, t.InitialRunTime)
		if math.Abs(t.TurnAngle) > 0.1 {
			dir := "right"
			if t.TurnAngle < 0 {
				dir = "left"
			}
			fmt.Printf("  Gyro turn   %5.1f° %s, radius %.0f yd, arc %.0f yd in %.1f s\n",
				math.Abs(t.TurnAngle), dir, t.TurnRadius, t.TurnArcLength, t.TurnTime)
		} else {
			fmt.Println("  Gyro turn   none, torpedo runs straight")
		}
		fmt.Printf("  Final run   %6.0f yd in %5.1f s on heading %.1f°\n",
			t.FinalRunDistance, t.FinalRunTime, t.FinalHeading)
		fmt.Printf("  Total run   %6.0f yd in %.1f s (%s)\n", t.TotalDistance, t.TotalTime, minSec(t.TotalTime))
	} else {
		fmt.Printf("  Torpedo run %6.0f yd in %.1f s (%s)\n", s.TorpedoRun, s.TorpedoRunTime, minSec(s.TorpedoRunTime))
	}

	if !s.Converged {
		fmt.Printf("\n  Solution had not settled, gyro still moving %.2f° per pass\n", s.GyroResidual)
	}
}

func printFrames(frames []replay.Frame) {
	fmt.Println("   time   bearing      aob     gyro")
	for _, f := range frames {
		var br, aob, gyro float64
		for _, s := range f.States {
			switch s.ID {
			case "Br":
				br = s.Value
			case "A":
				aob = s.Value
			case "G":
				gyro = s.Value
			}
		}
		fmt.Printf("  %5.1fs  %7.2f°  %7.2f°  %+7.2f°\n", f.Time, br, aob, gyro)
	}
}

func printComparison(c verify.Comparison) {
	a := c.Attack
	fmt.Println()
	line := fmt.Sprintf("P%dA%d", a.Patrol, a.Attack)
	if a.Date != "" {
		line += "  " + a.Date
	}
	if a.TargetName != "" {
		line += "  " + a.TargetName
	}
	fmt.Println(line)

	bearing := fmt.Sprintf("bearing %.1f°", c.Problem.TargetBearing)
	if c.BearingEstimated {
		bearing += " (estimated from gyro)"
	}
	fmt.Printf("  own course %.1f° at %.1f kn, range %.0f yd, %s\n",
		c.Problem.OwnCourse, c.Problem.OwnSpeed, c.Problem.TargetRange, bearing)

	if !c.Solution.Valid {
		fmt.Printf("  NO SOLUTION: %s\n", c.Solution.Message)
		return
	}

	fmt.Printf("  Gyro angle    computed %+7.1f°", c.Solution.GyroAngle)
	if a.GyroAngle != nil {
		fmt.Printf("             recorded %+7.1f°             delta %+5.1f°", *a.GyroAngle, *c.GyroDelta)
	}
	fmt.Println()

	fmt.Printf("  Track angle   computed %7.1f° %-9s", c.Solution.TrackAngle, c.Solution.TrackSide)
	if a.TrackAngle != nil {
		fmt.Printf("   recorded %7.1f° %-9s   delta %+5.1f°", *a.TrackAngle, a.TrackSide, *c.TrackDelta)
	}
	fmt.Println()

	fmt.Printf("  Angle on bow  computed %7.1f° %-9s", c.Solution.AngleOnBow, c.Solution.AOBSide)
	if a.AngleOnBow != nil {
		fmt.Printf("   recorded %7.1f° %-9s   delta %+5.1f°", *a.AngleOnBow, a.AOBSide, *c.AOBDelta)
	}
	fmt.Println()

	fmt.Printf("  Torpedo run   %.0f yd, %s", c.Solution.TorpedoRun, minSec(c.Solution.TorpedoRunTime))
	if a.TorpedoesFired > 0 {
		fmt.Printf("   (%d fired", a.TorpedoesFired)
		if a.Result != "" {
			fmt.Printf(", %s", a.Result)
		}
		fmt.Print(")")
	}
	fmt.Println()
}

func minSec(seconds float64) string {
	return fmt.Sprintf("%d:%02d", int(seconds)/60, int(seconds)%60)
}
