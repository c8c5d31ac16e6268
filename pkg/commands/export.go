package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dadas-io/dadas/pkg/archive"
	"github.com/dadas-io/dadas/pkg/report"
	"github.com/dadas-io/dadas/pkg/vps"
	"github.com/rancher/wrangler/pkg/signals"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

type exportCommand struct{}

func (e *exportCommand) Execute(c *cli.Context) error {
	ctx := signals.SetupSignalContext()

	log := logrus.WithField("command", "export")

	client, closeStore, err := openStore(ctx, c)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.WithError(err).Warn("unable to close the record store")
		}
	}()

	d := vps.NewDashboard(client, 0)
	if err := d.Reload(ctx); err != nil {
		return fmt.Errorf("%s: %w", vps.MsgLoadFailed, err)
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, d.Report()); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	output := c.String("output")
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	log.WithFields(logrus.Fields{
		"output":  output,
		"records": len(d.Records()),
	}).Info("report written")

	bucket := c.String("s3-bucket")
	if bucket == "" {
		return nil
	}

	a, err := archive.New(bucket, c.String("s3-prefix"), c.String("s3-region"))
	if err != nil {
		return err
	}
	location, err := a.Upload(ctx, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return err
	}
	fmt.Println(location)

	return nil
}

func exportCommandDef() *cli.Command {
	cmd := exportCommand{}

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Usage:   "Path the PDF report is written to",
			Aliases: []string{"o"},
			Value:   report.FileName,
		},
		&cli.StringFlag{
			Name:    "s3-bucket",
			Usage:   "Also upload the report to this S3 bucket",
			EnvVars: []string{"DADAS_S3_BUCKET"},
		},
		&cli.StringFlag{
			Name:    "s3-prefix",
			Usage:   "Key prefix for uploaded reports",
			EnvVars: []string{"DADAS_S3_PREFIX"},
			Value:   "reports",
		},
		&cli.StringFlag{
			Name:    "s3-region",
			Usage:   "AWS region of the bucket; taken from the environment when empty",
			EnvVars: []string{"DADAS_S3_REGION", "AWS_REGION"},
		},
	}
	flags = append(flags, storeFlags()...)

	return &cli.Command{
		Name:   "export",
		Usage:  "write the VPS report as PDF",
		Action: cmd.Execute,
		Flags:  append(flags, GlobalFlags()...),
		Before: Before,
	}
}
