// Command nescore runs an iNES ROM. By default it opens an ebiten
// window; -headless instead runs the console for a fixed number of
// frames and writes the final frame out as a PPM image, useful for
// scripted regression checks against a reference screenshot.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"nescore/bus"
	"nescore/cartridge"
	"nescore/ppu"

	"github.com/hajimehoshi/ebiten/v2"
)

var (
	romFile  = flag.String("rom", "", "path to an iNES ROM to run")
	pal      = flag.Bool("pal", false, "run at PAL timing instead of NTSC")
	headless = flag.Bool("headless", false, "run without a window, dump a PPM snapshot instead")
	frames   = flag.Int("frames", 60, "frames to run before snapshotting, in -headless mode")
	outFile  = flag.String("out", "frame.ppm", "PPM output path, in -headless mode")
)

func main() {
	flag.Parse()

	if *romFile == "" {
		log.Fatal("-rom is required")
	}

	cart, err := cartridge.Load(*romFile)
	if err != nil {
		log.Fatalf("loading ROM: %v", err)
	}

	tv := ppu.NTSC
	if *pal {
		tv = ppu.PAL
	}
	b := bus.New(cart, tv)
	b.Reset()

	if *headless {
		runHeadless(b)
		return
	}
	runWindowed(b)
}

func runHeadless(b *bus.Bus) {
	for f := 0; f < *frames; f++ {
		for !b.Step() {
		}
	}
	if err := writePPM(*outFile, b); err != nil {
		log.Fatalf("writing snapshot: %v", err)
	}
}

func writePPM(path string, b *bus.Bus) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	width, height := b.PPU().Resolution()
	fmt.Fprintf(w, "P6\n%d %d\n255\n", width, height)

	px := b.PPU().Pixels()
	for _, c := range px {
		w.Write([]byte{c[0], c[1], c[2]})
	}
	return w.Flush()
}

func runWindowed(b *bus.Bus) {
	w, h := b.PPU().Resolution()
	ebiten.SetWindowSize(w*2, h*2)
	ebiten.SetWindowTitle("nescore")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g := &game{bus: b}

	sigQuit := make(chan os.Signal, 1)
	signal.Notify(sigQuit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigQuit:
			cancel()
		case <-ctx.Done():
		}
	}()

	go g.run(ctx)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

// game adapts a *bus.Bus to ebiten.Game. Emulation runs on its own
// goroutine (driven by run); ebiten's callbacks only read the PPU's
// current framebuffer and poll the keyboard into the controllers.
type game struct {
	bus *bus.Bus
}

var padKeys = []ebiten.Key{
	ebiten.KeyZ,     // A
	ebiten.KeyX,     // B
	ebiten.KeyShift, // Select
	ebiten.KeyEnter, // Start
	ebiten.KeyUp,
	ebiten.KeyDown,
	ebiten.KeyLeft,
	ebiten.KeyRight,
}

func pollPad() uint8 {
	var mask uint8
	for i, k := range padKeys {
		if ebiten.IsKeyPressed(k) {
			mask |= 1 << i
		}
	}
	return mask
}

func (g *game) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			g.bus.Step()
		}
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.bus.PPU().Resolution()
}

func (g *game) Update() error {
	g.bus.Pad1.SetButtons(pollPad())
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	w, _ := g.bus.PPU().Resolution()
	px := g.bus.PPU().Pixels()
	for i, c := range px {
		screen.Set(i%w, i/w, rgba{c[0], c[1], c[2], c[3]})
	}
}

type rgba struct{ r, g, b, a uint8 }

func (c rgba) RGBA() (r, g, b, a uint32) {
	return uint32(c.r) * 0x101, uint32(c.g) * 0x101, uint32(c.b) * 0x101, uint32(c.a) * 0x101
}
