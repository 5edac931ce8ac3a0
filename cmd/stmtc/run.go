package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Konsultn-Engineering/sqlstmt/config"
	"github.com/Konsultn-Engineering/sqlstmt/connector"
	"github.com/Konsultn-Engineering/sqlstmt/format"
	"github.com/Konsultn-Engineering/sqlstmt/message"
	"github.com/Konsultn-Engineering/sqlstmt/service"
	"go.uber.org/zap"
)

type runCommand struct {
	app *app

	Config      string            `long:"config" short:"c" required:"true" description:"Config file"`
	Service     string            `long:"service" short:"s" required:"true" description:"Name of the builder to run"`
	ID          string            `long:"id" description:"Message id; generated when empty"`
	Payload     string            `long:"payload" short:"p" description:"Message payload"`
	PayloadFile string            `long:"payload-file" description:"Read the message payload from a file"`
	Metadata    map[string]string `long:"metadata" short:"m" key-value-delimiter:"=" description:"Message metadata e.g. -m dob=1990-03-19 -m age=34"`
	Format      string            `long:"format" short:"f" default:"yaml" choice:"yaml" choice:"json" description:"Output format"`
}

type runResult struct {
	Service  string            `json:"service" yaml:"service"`
	ID       string            `json:"id" yaml:"id"`
	Payload  string            `json:"payload" yaml:"payload"`
	Metadata map[string]string `json:"metadata" yaml:"metadata"`
}

func (r *runCommand) Execute([]string) error {
	f, err := format.Parse(r.Format)
	if err != nil {
		return err
	}

	cfg, err := config.Load(r.Config)
	if err != nil {
		return err
	}
	spec, ok := cfg.Service(r.Service)
	if !ok {
		return fmt.Errorf("no service %q in %s (have: %s)", r.Service, r.Config, strings.Join(cfg.ServiceNames(), ", "))
	}

	logger, err := cfg.Log.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	msg, err := r.message(cfg)
	if err != nil {
		return err
	}

	c, err := connector.New(cfg.Connection)
	if err != nil {
		return err
	}
	defer c.Close()
	conn, err := c.Connect(r.app.ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	svc, err := service.New(spec, conn, service.WithLogger(logger), service.WithPlanCache(cfg.PlanCache()))
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.Prepare(); err != nil {
		return err
	}
	if err := svc.Init(r.app.ctx); err != nil {
		return err
	}
	if err := svc.Start(); err != nil {
		return err
	}
	defer func() { _ = svc.Stop() }()

	if err := svc.Service(r.app.ctx, msg); err != nil {
		return err
	}
	logger.Info("serviced", zap.String("message", msg.ID()), zap.Any("stats", conn.Stats()))

	return f.NewEncoder(r.app.stdout).Encode(runResult{
		Service:  spec.Name,
		ID:       msg.ID(),
		Payload:  msg.Content(),
		Metadata: msg.MetadataMap(),
	})
}

func (r *runCommand) message(cfg *config.Config) (*message.Message, error) {
	payload := []byte(r.Payload)
	if r.PayloadFile != "" {
		b, err := os.ReadFile(r.PayloadFile)
		if err != nil {
			return nil, fmt.Errorf("read payload: %w", err)
		}
		payload = b
	}

	var msg *message.Message
	if r.ID != "" {
		msg = message.NewWithID(r.ID, payload)
	} else {
		factory, err := cfg.MessageFactory()
		if err != nil {
			return nil, err
		}
		if msg, err = factory.New(payload); err != nil {
			return nil, err
		}
	}
	msg.AddMetadata(r.Metadata)
	return msg, nil
}
