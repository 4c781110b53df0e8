package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-logr/zapr"
	"go.uber.org/zap"

	"github.com/gepheum/soia-go/soiarpc"
	"github.com/gepheum/soia-go/testtypes"
)

func main() {
	addr := flag.String("addr", ":8080", "Address to listen on")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [--addr :8080]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	zapLog, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "soiaserve: %v\n", err)
		os.Exit(1)
	}
	defer zapLog.Sync()
	log := zapr.NewLogger(zapLog)

	service := soiarpc.NewService(log)
	soiarpc.RegisterMethod(service, "Translate", 1, testtypes.PointSerializer, testtypes.PointSerializer,
		func(ctx context.Context, p testtypes.Point) (testtypes.Point, error) {
			return testtypes.Point{X: p.X + 1, Y: p.Y + 1}, nil
		})

	log.Info("listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, service); err != nil {
		fmt.Fprintf(os.Stderr, "soiaserve: %v\n", err)
		os.Exit(1)
	}
}
