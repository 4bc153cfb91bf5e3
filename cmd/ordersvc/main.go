package main

import (
	"log"

	"github.com/akozyrev-dev/ordersvc/internal/app"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}

func run() error {
	application, err := app.New()
	if err != nil {
		return err
	}
	defer application.Close()

	return application.Run()
}
