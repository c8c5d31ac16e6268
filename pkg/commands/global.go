package commands

import (
	"fmt"
	"path"
	"runtime"

	"github.com/dadas-io/dadas/pkg/config"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func GlobalFlags() []cli.Flag {
	globalFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log Level",
			Aliases: []string{"l"},
			EnvVars: []string{"LOGLEVEL"},
			Value:   "info",
		},
		&cli.BoolFlag{
			Name:  "log-caller",
			Usage: "log the caller (aka line number and file)",
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "YAML file with flag values, used for flags not set on the command line or environment",
			Aliases: []string{"c"},
			EnvVars: []string{"DADAS_CONFIG"},
		},
	}

	return globalFlags
}

func Before(c *cli.Context) error {
	if err := applyConfigFile(c); err != nil {
		return err
	}

	formatter := &logrus.JSONFormatter{}

	if c.Bool("log-caller") {
		logrus.SetReportCaller(true)

		formatter.CallerPrettyfier = func(f *runtime.Frame) (string, string) {
			return "", fmt.Sprintf("%s:%d", path.Base(f.File), f.Line)
		}
	}

	logrus.SetFormatter(formatter)

	switch c.String("log-level") {
	case "trace":
		logrus.SetLevel(logrus.TraceLevel)
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	}

	return nil
}

// applyConfigFile fills flags of the running command from the --config file.
// Flags set on the command line or through the environment win.
func applyConfigFile(c *cli.Context) error {
	file := c.String("config")
	if file == "" {
		return nil
	}

	values, err := config.Load(file)
	if err != nil {
		return err
	}

	known := map[string]bool{}
	for _, f := range c.Command.Flags {
		for _, name := range f.Names() {
			known[name] = true
		}
	}

	for name, value := range values {
		if !known[name] {
			logrus.Warnf("ignoring unknown key %q in config file %s", name, file)
			continue
		}
		if c.IsSet(name) {
			continue
		}
		if err := c.Set(name, value); err != nil {
			return fmt.Errorf("config file %s: %s: %w", file, name, err)
		}
	}

	return nil
}
