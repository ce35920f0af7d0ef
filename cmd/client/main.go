// cmd/client/main.go
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/opd-ai/go-starcruiser/pkg/engine"
	"github.com/opd-ai/go-starcruiser/pkg/logging"
	"github.com/opd-ai/go-starcruiser/pkg/network"
	"github.com/opd-ai/go-starcruiser/pkg/render"
)

func main() {
	serverURL := flag.String("server", "ws://localhost:35667"+network.ClientPath, "Server websocket URL")
	width := flag.Int("width", 79, "Scope width in characters")
	height := flag.Int("height", 25, "Scope height in characters")
	scale := flag.Float64("scale", 250, "World units per character")
	logLevel := flag.String("log-level", "warn", "Log level")
	flag.Parse()

	logger := logging.New(os.Stderr, logging.ParseLevel(*logLevel))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := network.NewClient(*serverURL, logger)
	if err := client.Connect(ctx); err != nil {
		logger.Error(ctx, "Failed to connect to server", err, "url", *serverURL)
		os.Exit(1)
	}
	defer client.Disconnect()

	console := &console{
		client:   client,
		renderer: render.NewTerminalRenderer(os.Stdout, *width, *height, *scale),
	}
	go console.readInput(ctx, stop)
	console.renderLoop(ctx)
}

type console struct {
	client   *network.Client
	renderer *render.TerminalRenderer

	mu      sync.Mutex
	last    engine.Snapshot
	message string
}

func (c *console) renderLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.client.Done():
			fmt.Fprintln(os.Stderr, "disconnected from server")
			return
		case frame := <-c.client.Frames():
			c.mu.Lock()
			c.last = frame.Snapshot
			message := c.message
			c.renderer.Render(frame.Snapshot)
			c.mu.Unlock()
			fmt.Printf("latency %v  %s\n> ", c.client.Latency(), message)
		}
	}
}

func (c *console) readInput(ctx context.Context, quit func()) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" {
			break
		}
		c.setMessage(c.handle(line))
		if ctx.Err() != nil {
			return
		}
	}
	quit()
}

func (c *console) handle(line string) string {
	if line == "" || line == "help" {
		return help
	}
	if rest, ok := strings.CutPrefix(line, "zoom "); ok {
		scale, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return err.Error()
		}
		c.mu.Lock()
		c.renderer.SetScale(scale)
		c.mu.Unlock()
		return ""
	}

	c.mu.Lock()
	last := c.last
	c.mu.Unlock()

	cmd, err := parseInput(line, last)
	if errors.Is(err, errUsage) {
		return help
	}
	if err != nil {
		return err.Error()
	}
	if err := c.client.Send(cmd); err != nil {
		return err.Error()
	}
	return ""
}

func (c *console) setMessage(msg string) {
	c.mu.Lock()
	c.message = msg
	c.mu.Unlock()
}
