// healthprobe is a tiny liveness/readiness probe for container health
// checks: it GETs the target endpoint and exits non-zero on failure.
// fasthttp keeps the probe overhead negligible at tight check intervals.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/valyala/fasthttp"
)

func main() {
	target := flag.String("url", "http://127.0.0.1:8080/healthz", "endpoint to probe")
	timeout := flag.Duration("timeout", 2*time.Second, "probe timeout")
	flag.Parse()

	status, body, err := fasthttp.GetTimeout(nil, *target, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "probe failed: %v\n", err)
		os.Exit(1)
	}
	if status != fasthttp.StatusOK {
		fmt.Fprintf(os.Stderr, "probe unhealthy: status=%d body=%s\n", status, body)
		os.Exit(1)
	}
	fmt.Printf("%s\n", body)
}
