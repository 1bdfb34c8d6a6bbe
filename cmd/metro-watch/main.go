// Command metro-watch tails or polls a Metro proxy and prints what it sees.
// It doubles as a smoke test for the client library against a live proxy.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	metro "github.com/hopperelec/metro-api-client"
	"github.com/hopperelec/metro-api-client/config"
)

func main() {
	mode := flag.String("mode", "tail", "tail|poll")
	configPath := flag.String("config", "config.yml", "path to config.yml")
	baseURL := flag.String("baseURL", "", "proxy base URL (overrides config)")
	stations := flag.String("stations", "", "comma-separated station codes for due-time streams (overrides config)")
	trn := flag.String("trn", "", "poll a single train instead of all trains")
	props := flag.String("props", "", "comma-separated props filter")
	flag.Parse()

	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil && *baseURL == "" {
		log.Fatalf("config: %v", err)
	}
	if *baseURL != "" {
		cfg.API.BaseURL = *baseURL
	}
	if *stations != "" {
		cfg.Watch.Stations = splitList(*stations)
	}
	if *props != "" {
		cfg.Watch.Props = splitList(*props)
	}

	client := metro.NewClient(cfg.API.BaseURL)

	switch *mode {
	case "tail":
		runTail(client, cfg)
	case "poll":
		runPoll(client, cfg, *trn)
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

func runTail(client *metro.Client, cfg config.AppConfig) {
	lifecycle := []metro.StreamOption{
		metro.OnConnect(func() { log.Printf("stream connected") }),
		metro.OnDisconnect(func(cause error, retryIn time.Duration) {
			log.Printf("stream dropped (%v), retrying in %v", cause, retryIn)
		}),
		metro.OnWarning(func(err error) { log.Printf("stream warning: %v", err) }),
	}

	trains := client.StreamTrains(metro.TrainsStreamHandlers{
		NewHistory: func(ev metro.NewHistoryEvent) {
			log.Printf("T%s: active=%v", ev.TRN, ev.Entry.Active)
		},
		HeartbeatError: func(ev metro.HeartbeatErrorEvent) {
			log.Printf("heartbeat error from %s: %s", ev.API, ev.Error)
		},
		HeartbeatWarnings: func(ev metro.HeartbeatWarningsEvent) {
			log.Printf("heartbeat warnings from %s: %s", ev.API, strings.Join(ev.Warnings, "; "))
		},
	}, lifecycle...)
	defer trains.Close()

	streams := make([]*metro.Stream, 0, len(cfg.Watch.Stations))
	for _, station := range cfg.Watch.Stations {
		station := station
		s := client.StreamDueTimes(station, metro.DueTimesStreamHandlers{
			DueTimes: func(ev metro.DueTimesEvent) {
				for _, dt := range ev.DueTimes {
					if dt.DueIn != nil {
						log.Printf("%s: T%s due in %d min", station, dt.TRN, *dt.DueIn)
					}
				}
			},
		}, lifecycle...)
		streams = append(streams, s)
	}
	defer func() {
		for _, s := range streams {
			s.Close()
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("shutdown signal received")
}

func runPoll(client *metro.Client, cfg config.AppConfig, trn string) {
	interval := time.Duration(cfg.Watch.PollIntervalMS) * time.Millisecond
	if interval <= 0 {
		interval = 30 * time.Second
	}
	opts := &metro.TrainsOptions{Props: cfg.Watch.Props}
	for {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if trn != "" {
			resp, err := client.Train(ctx, trn, opts)
			logPollResult(err, func() {
				if resp.Status != nil && resp.Status.LastChanged != nil {
					log.Printf("T%s last changed %s", trn, resp.Status.LastChanged)
				}
			})
		} else {
			resp, err := client.Trains(ctx, opts)
			logPollResult(err, func() {
				log.Printf("%d trains tracked", len(resp.Trains))
			})
		}
		cancel()
		time.Sleep(interval)
	}
}

func logPollResult(err error, report func()) {
	if err != nil {
		var apiErr *metro.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			log.Printf("not tracked")
			return
		}
		log.Printf("poll failed: %v", err)
		return
	}
	report()
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
