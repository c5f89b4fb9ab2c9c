// skyfixctl runs the position estimator and its supporting models from the
// command line.
//
// Examples:
//
//	skyfixctl estimate capture.json
//	skyfixctl position --target moon --time 2016-06-20T22:00:00Z --lat 47.5 --lon 19.04
//	skyfixctl field --lat 47.5 --lon 19.04 --alt 110
//	skyfixctl distance 47.498 19.041 48.208 16.373 --model haversine
//	skyfixctl gravity --lat 45
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
