package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/golang-io/mqtt-codec"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	c := flag.String("config", "", "Path to TOML config file")
	input := flag.String("input", "", "Capture file, - for stdin")
	isHex := flag.Bool("hex", false, "Input is hex text")
	format := flag.String("format", "", "Output format: json | msgpack")
	httpURL := flag.String("http", "", "Serve /metrics on this URL")
	flag.Parse()

	if *c != "" {
		if err := mqtt.CONFIG.Load(*c); err != nil {
			log.Fatalf("parse config: %v", err)
		}
	}
	// 命令行参数覆盖配置文件
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			mqtt.CONFIG.Input.Path = *input
		case "hex":
			if *isHex {
				mqtt.CONFIG.Input.Encoding = "hex"
			}
		case "format":
			mqtt.CONFIG.Output.Format = *format
		case "http":
			mqtt.CONFIG.HTTP.URL = *httpURL
		}
	})

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run 执行一次 dump, 返回前关闭输入文件并停止 Httpd
func run() error {
	level, err := log.ParseLevel(mqtt.CONFIG.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)

	var in io.Reader = os.Stdin
	if p := mqtt.CONFIG.Input.Path; p != "" && p != "-" {
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer cancel() // dump 结束后停止 Httpd
		r, err := readInput(in, mqtt.CONFIG.Input.Encoding)
		if err != nil {
			return err
		}
		n, err := dump(r, os.Stdout, mqtt.CONFIG.Output.Format, mqtt.Name("dump"), mqtt.MaxPacketSize(mqtt.CONFIG.MaxPacketSize))
		log.WithField("packets", n).Info("dump done")
		return err
	})
	group.Go(func() error {
		if mqtt.CONFIG.HTTP.URL == "" {
			return nil
		}
		errc := make(chan error, 1)
		go func() { errc <- mqtt.Httpd(ctx, mqtt.CONFIG.HTTP.URL) }()
		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
			return nil
		}
	})
	return group.Wait()
}
