// Package main takes single-shot readings from a VL53L1X and prints them.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/rangekit/vl53l1x"
	"github.com/rangekit/vl53l1x/i2cbus"
	"github.com/rangekit/vl53l1x/internal/config"
)

const (
	// Flags.
	flagConfig     = "config"
	flagBackend    = "backend"
	flagBus        = "bus"
	flagAddress    = "address"
	flagSetAddress = "set-address"
	flagMode       = "mode"
	flagBudget     = "budget"
	flagTimeout    = "timeout"
	flagCount      = "count"
	flagInterval   = "interval"
	flagDebug      = "debug"
)

func main() {

	app := &cli.App{
		Name:  "vl53l1x",
		Usage: "take range readings from a VL53L1X time-of-flight sensor",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`, flags override it",
			},
			&cli.StringFlag{
				Name:  flagBackend,
				Usage: "i2c backend, periph or sysfs",
			},
			&cli.StringFlag{
				Name:    flagBus,
				Aliases: []string{"b"},
				Usage:   "i2c bus, a periph bus name or a /dev/i2c-N path for sysfs",
			},
			&cli.UintFlag{
				Name:  flagAddress,
				Usage: "7-bit sensor address",
			},
			&cli.UintFlag{
				Name:  flagSetAddress,
				Usage: "move the sensor to this address after init",
			},
			&cli.StringFlag{
				Name:    flagMode,
				Aliases: []string{"m"},
				Usage:   "distance mode, short, medium or long",
			},
			&cli.UintFlag{
				Name:  flagBudget,
				Usage: "timing budget in microseconds",
			},
			&cli.DurationFlag{
				Name:  flagTimeout,
				Usage: "data ready timeout, 0 waits forever",
			},
			&cli.IntFlag{
				Name:    flagCount,
				Aliases: []string{"n"},
				Usage:   "number of readings, 0 reads until interrupted",
			},
			&cli.DurationFlag{
				Name:  flagInterval,
				Usage: "pause between readings",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) (err error) {

	logger, err := newLogger(c.Bool(flagDebug))

	if err != nil {
		return err
	}

	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := loadConfig(c)

	if err != nil {
		return err
	}

	opts, err := cfg.Options()

	if err != nil {
		return err
	}

	bus, err := i2cbus.Open(cfg.Bus.Backend, cfg.Bus.Device, cfg.Bus.Address)

	if err != nil {
		return err
	}

	defer func() {
		err = multierr.Combine(err, errors.Wrap(bus.Close(), "close bus"))
	}()

	opts = append(opts, vl53l1x.WithLogger(logger.Named("vl53l1x")))

	sensor, err := vl53l1x.New(bus, opts...)

	if err != nil {
		return err
	}

	if c.IsSet(flagSetAddress) {
		if err := sensor.SetAddress(uint8(c.Uint(flagSetAddress))); err != nil {
			return err
		}

		logger.Infow("sensor address changed", "address", fmt.Sprintf("0x%02X", sensor.Addr()))
	}

	if cfg.Sensor.ROI != nil {
		if err := setROI(sensor, cfg.Sensor.ROI, logger); err != nil {
			return err
		}
	}

	budget, err := sensor.MeasurementTimingBudget()

	if err != nil {
		return err
	}

	logger.Infow("sensor ready", "mode", sensor.DistanceMode(), "budgetUs", budget)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	return sample(ctx, sensor, cfg, logger)
}

// sample takes cfg.Sampling.Count readings, or reads until ctx is done when
// the count is 0
func sample(ctx context.Context, sensor *vl53l1x.VL53L1X, cfg config.Config, logger *zap.SugaredLogger) error {

	for i := 0; cfg.Sampling.Count == 0 || i < cfg.Sampling.Count; i++ {

		data, err := sensor.ReadSingle()

		if err != nil {
			return errors.Wrap(err, "read")
		}

		if sensor.TimeoutOccurred() {
			logger.Warnw("measurement timed out", "timeout", sensor.Timeout())
		} else {
			fmt.Printf("Distance: %d mm (status: %s, signal: %.2f Mcps, ambient: %.2f Mcps)\n",
				data.RangeMM, data.RangeStatus, data.PeakSignalCountRateMCPS, data.AmbientCountRateMCPS)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(cfg.Interval()):
		}
	}

	return nil
}

// setROI applies the region of interest and logs what the sensor reports back
func setROI(sensor *vl53l1x.VL53L1X, roi *config.ROIConfig, logger *zap.SugaredLogger) error {

	// the size can move the centre, so it goes first
	if err := sensor.SetROISize(roi.Width, roi.Height); err != nil {
		return errors.Wrap(err, "set ROI size")
	}

	if roi.Center != 0 {
		if err := sensor.SetROICenter(roi.Center); err != nil {
			return errors.Wrap(err, "set ROI center")
		}
	}

	width, height, err := sensor.ROISize()

	if err != nil {
		return errors.Wrap(err, "get ROI size")
	}

	center, err := sensor.ROICenter()

	if err != nil {
		return errors.Wrap(err, "get ROI center")
	}

	logger.Infow("region of interest", "width", width, "height", height, "center", center)

	return nil
}

func newLogger(debug bool) (*zap.SugaredLogger, error) {

	zcfg := zap.NewDevelopmentConfig()

	if !debug {
		zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	logger, err := zcfg.Build()

	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}

	return logger.Sugar(), nil
}

// loadConfig reads the config file if one is given and applies flag
// overrides on top
func loadConfig(c *cli.Context) (config.Config, error) {

	cfg := config.Default()

	if path := c.String(flagConfig); path != "" {
		var err error

		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}

	if c.IsSet(flagBackend) {
		cfg.Bus.Backend = c.String(flagBackend)
	}

	if c.IsSet(flagBus) {
		cfg.Bus.Device = c.String(flagBus)
	}

	if c.IsSet(flagAddress) {
		cfg.Bus.Address = uint8(c.Uint(flagAddress))
	}

	if c.IsSet(flagMode) {
		cfg.Sensor.DistanceMode = c.String(flagMode)
	}

	if c.IsSet(flagBudget) {
		cfg.Sensor.TimingBudgetUs = uint32(c.Uint(flagBudget))
	}

	if c.IsSet(flagTimeout) {
		cfg.Sensor.TimeoutMs = int(c.Duration(flagTimeout).Milliseconds())
	}

	if c.IsSet(flagCount) {
		cfg.Sampling.Count = c.Int(flagCount)
	}

	if c.IsSet(flagInterval) {
		cfg.Sampling.IntervalMs = int(c.Duration(flagInterval).Milliseconds())
	}

	if err := config.Validate(&cfg); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}
