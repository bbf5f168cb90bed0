package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	flags "github.com/jessevdk/go-flags"

	"github.com/scsbarna-pixel/automatizador/api"
	"github.com/scsbarna-pixel/automatizador/internal/audio"
	"github.com/scsbarna-pixel/automatizador/internal/clips"
	"github.com/scsbarna-pixel/automatizador/internal/config"
	"github.com/scsbarna-pixel/automatizador/internal/gain"
	"github.com/scsbarna-pixel/automatizador/internal/playlog"
	"github.com/scsbarna-pixel/automatizador/internal/schedule"
	autoerrors "github.com/scsbarna-pixel/automatizador/pkg/errors"
	"github.com/scsbarna-pixel/automatizador/pkg/events"
)

type options struct {
	Config      string `short:"c" long:"config" description:"Config file path"`
	Store       string `long:"store" description:"Events store path (overrides config)"`
	Device      int    `short:"d" long:"device" default:"-1" description:"Output device index"`
	DryRun      bool   `long:"dry-run" description:"Log and record matches without playing audio"`
	Once        bool   `long:"once" description:"Evaluate a single tick and exit"`
	ListDevices bool   `long:"list-devices" description:"List output devices and exit"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var opts options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Println(flagsErr.Message)
			return nil
		}
		return err
	}

	if opts.ListDevices {
		for _, d := range audio.Devices() {
			fmt.Printf("%d: %s\n", d.Index, d.Name)
		}
		return nil
	}

	configPath := opts.Config
	if configPath == "" {
		configPath = config.GetConfigPath()
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Store != "" {
		cfg.EventsPath = opts.Store
	}
	if opts.Device >= 0 {
		cfg.DeviceIndex = opts.Device
	}

	if err := os.MkdirAll(filepath.Dir(cfg.EventsPath), 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	// Setup context with graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	store := schedule.NewStore(cfg.EventsPath)
	trigger := schedule.NewTrigger(store)
	log.Printf("loaded %d scheduled events from %s", store.Len(), cfg.EventsPath)

	history, err := playlog.Open(cfg.PlayLogPath)
	if err != nil {
		return fmt.Errorf("open play log: %w", err)
	}
	defer history.Close()

	player := audio.NewPlayer()
	device := deviceByIndex(cfg.DeviceIndex)

	bus := events.NewBus()
	defer bus.Close()
	go logNotices(bus.SubscribeAll())

	h := &host{
		trigger: trigger,
		player:  player,
		history: history,
		bus:     bus,
		device:  device,
		dryRun:  opts.DryRun,
	}

	if opts.Once {
		h.tick(ctx, time.Now())
		return nil
	}

	// The MIC button of the desk: SIGUSR1 ducks program audio to 15% over
	// one second, the next SIGUSR1 restores full level instantly.
	duck := gain.NewMicDuck(player)
	micChan := make(chan os.Signal, 1)
	signal.Notify(micChan, syscall.SIGUSR1)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	log.Printf("automation running, device %d (%s)", device.Index, device.Name)
	for {
		select {
		case <-ctx.Done():
			player.Pause()
			return nil
		case <-micChan:
			if duck.Toggle(ctx) {
				log.Println("MIC on: program audio ducked")
			} else {
				log.Println("MIC off: program audio restored")
			}
		case now := <-ticker.C:
			h.tick(ctx, now)
		}
	}
}

// host glues the trigger engine to clip resolution, the play log and the
// playback core. The richer conflict policy the event fields describe
// (overlay, wait windows, priority) belongs to a full automation desk; this
// host cuts to the fired event immediately.
type host struct {
	trigger *schedule.Trigger
	player  *audio.Player
	history *playlog.Store
	bus     *events.Bus
	device  api.Device
	dryRun  bool

	wasPlaying bool
}

func (h *host) tick(ctx context.Context, now time.Time) {
	if playing := h.player.IsPlaying(); h.wasPlaying && !playing {
		h.bus.Publish(events.Notice{Type: events.PlaybackFinished})
		h.wasPlaying = false
	} else {
		h.wasPlaying = playing
	}

	ev := h.trigger.Tick(now)
	if ev == nil {
		return
	}
	h.bus.Publish(events.Notice{Type: events.TriggerFired, Payload: ev})

	record := api.PlayRecord{
		FiredAt: now,
		Name:    ev.Name,
		Type:    string(ev.Type),
		Offset:  ev.Offset,
	}

	path, err := clips.Resolve(*ev)
	switch {
	case errors.Is(err, autoerrors.ErrHostResolved):
		// time/temp/sat inserts need external rendering; log the firing
		// and move on.
		record.Value = ev.Value
		if err := h.history.Record(ctx, record); err != nil {
			log.Printf("play log: %v", err)
		}
		return
	case err != nil:
		h.bus.Publish(events.Notice{Type: events.PlaybackError, Payload: err})
		return
	}
	record.Value = path

	if err := h.history.Record(ctx, record); err != nil {
		log.Printf("play log: %v", err)
	}
	if h.dryRun {
		log.Printf("dry-run: would play %s", path)
		return
	}

	h.play(path, ev.Offset)
}

func (h *host) play(path string, offset float64) {
	h.player.Pause()

	if err := h.player.Load(path); err != nil {
		h.bus.Publish(events.Notice{Type: events.PlaybackError, Payload: err})
		return
	}
	if offset > 0 {
		if total := h.player.Duration().Seconds(); total > 0 {
			h.player.Seek(offset / total)
		}
	}
	if err := h.player.Play(h.device); err != nil {
		h.bus.Publish(events.Notice{Type: events.PlaybackError, Payload: err})
		return
	}
	h.wasPlaying = true

	info, _ := clips.ReadInfo(path)
	h.bus.Publish(events.Notice{Type: events.PlaybackStarted, Payload: info.Title})
}

func deviceByIndex(index int) api.Device {
	for _, d := range audio.Devices() {
		if d.Index == index {
			return d
		}
	}
	return audio.DefaultDevice()
}

func logNotices(ch <-chan events.Notice) {
	for n := range ch {
		switch n.Type {
		case events.TriggerFired:
			if ev, ok := n.Payload.(*api.Event); ok {
				log.Printf("trigger: %s (%s %s)", ev.Name, ev.Periodicity, ev.Time)
			}
		case events.PlaybackStarted:
			log.Printf("playing: %v", n.Payload)
		case events.PlaybackFinished:
			log.Println("playback finished")
		case events.PlaybackError:
			log.Printf("playback error: %v", n.Payload)
		}
	}
}
