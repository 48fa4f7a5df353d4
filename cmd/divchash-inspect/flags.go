package main

// flags.go parses divchash-inspect's command-line options. Split out of
// main.go the way a completed version of
// Voskan/arena-cache/cmd/arena-cache-inspect would have needed to be — that
// teacher file calls parseFlags()/options without ever defining them.
//
// © 2025 divchash authors. MIT License.

import (
	"flag"
	"time"
)

type options struct {
	target           string
	json             bool
	watch            bool
	interval         time.Duration
	heapProfile      string
	goroutineProfile string
	version          bool
}

func parseFlags() *options {
	opts := &options{}
	flag.StringVar(&opts.target, "target", "http://127.0.0.1:8080", "base URL of the divchash-instrumented process")
	flag.BoolVar(&opts.json, "json", false, "print the snapshot as JSON instead of a text summary")
	flag.BoolVar(&opts.watch, "watch", false, "poll the snapshot endpoint repeatedly at -interval")
	flag.DurationVar(&opts.interval, "interval", 2*time.Second, "polling interval in watch mode")
	flag.StringVar(&opts.heapProfile, "heap-profile", "", "download a heap pprof profile to this path and exit")
	flag.StringVar(&opts.goroutineProfile, "goroutine-profile", "", "download a goroutine pprof profile to this path and exit")
	flag.BoolVar(&opts.version, "version", false, "print the build version and exit")
	flag.Parse()
	return opts
}
