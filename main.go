package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/km-arc/go-ioc/framework/app"
	"github.com/km-arc/go-ioc/framework/container"
)

// Interface is the contract the demo resolves.
type Interface interface {
	DoWork() string
}

// Concrete implements Interface.
type Concrete struct {
	runs int
}

func (c *Concrete) DoWork() string {
	c.runs++
	return "WORK"
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	application, err := app.New() // loads .env automatically
	if err != nil {
		return err
	}
	defer func() { _ = application.Logger().Sync() }()

	err = application.RegisterType(container.Describe[*Concrete]().
		Implements(container.ContractOf[Interface]()))
	if err != nil {
		return err
	}
	if err := application.Boot(); err != nil {
		return err
	}

	worker, err := container.Resolve[Interface](application.Container)
	if err != nil {
		return err
	}
	fmt.Println(worker.DoWork())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return application.Run(ctx)
}
