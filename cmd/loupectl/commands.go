package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"sort"
	"strconv"
	"strings"

	// Image formats the draw commands accept.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/muurk/loupekit/internal/config"
	"github.com/muurk/loupekit/internal/device"
	"github.com/muurk/loupekit/internal/imaging"
	"github.com/muurk/loupekit/internal/protocol"
	"github.com/muurk/loupekit/internal/transport"
	"github.com/muurk/loupekit/internal/ui"
)

// withDevice opens the serial port, runs the bring-up, and hands a
// connected device to fn. The port is closed and the workers stopped on
// the way out. A peer that fails the handshake is an error here: the
// explicit port argument means the user expected a device there.
func withDevice(path string, fn func(*device.Device) error) error {
	port, err := transport.Open(path, protocol.DefaultBaudRate, protocol.ReadTimeout)
	if err != nil {
		return err
	}
	defer port.Close()

	d := device.New(path, port)
	ok, err := d.Connect()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: not a Loupedeck device", path)
	}
	defer d.Stop()

	rememberDevice(d)
	if registry, rerr := config.LoadRegistry(); rerr == nil {
		applyPreferences(d, registry)
	}
	return fn(d)
}

// applyPreferences applies connect-time preferences from the registry,
// currently the default backlight brightness. An explicit brightness
// command simply overrides it a moment later.
func applyPreferences(d *device.Device, registry *config.Registry) {
	if registry == nil || registry.Preferences == nil {
		return
	}
	if err := d.SetBrightness(registry.Preferences.DefaultBrightness); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not apply default brightness: %v\n", err)
	}
}

// rememberDevice records the device in the user registry so later
// invocations can show nicknames and last-seen ports. Registry problems
// are not worth failing a device command over.
func rememberDevice(d *device.Device) {
	serial := d.Serial()
	if serial == "" {
		return
	}
	registry, err := config.LoadRegistry()
	if err != nil {
		return
	}
	registry.UpdateDeviceLastSeen(serial, d.Path(), d.FirmwareVersion())
	_ = registry.Save()
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports present on this system",
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := transport.ListPorts()
		if err != nil {
			return err
		}
		if len(ports) == 0 {
			fmt.Println("No serial ports found.")
			return nil
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return nil
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe [port...]",
	Short: "Probe serial ports for Loupedeck devices",
	Long: `Probe the given serial ports (or every port on the system when none are
given) with the device handshake. Ports holding other hardware stay
silent or answer wrongly and are reported as not a device; this is safe
to run against ports you are not sure about.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := args
		if len(paths) == 0 {
			var err error
			paths, err = transport.ListPorts()
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				fmt.Println("No serial ports found.")
				return nil
			}
		}

		found := 0
		for _, path := range paths {
			if probeOne(path) {
				found++
			}
		}
		if found == 0 {
			fmt.Println("No Loupedeck devices found.")
		}
		return nil
	},
}

func probeOne(path string) bool {
	port, err := transport.Open(path, protocol.DefaultBaudRate, protocol.ReadTimeout)
	if err != nil {
		fmt.Printf("%s: %v\n", path, err)
		return false
	}
	defer port.Close()

	d := device.New(path, port)
	ok, err := d.Connect()
	if err != nil {
		fmt.Printf("%s: %v\n", path, err)
		return false
	}
	if !ok {
		fmt.Printf("%s: not a Loupedeck device\n", path)
		return false
	}
	defer d.Stop()

	rememberDevice(d)
	nickname := ""
	if registry, rerr := config.LoadRegistry(); rerr == nil {
		if meta := registry.GetDevice(d.Serial()); meta != nil && meta.Nickname != "" {
			nickname = fmt.Sprintf(" (%s)", meta.Nickname)
		}
	}
	fmt.Printf("%s: Loupedeck Live%s serial=%s firmware=%s\n",
		path, nickname, d.Serial(), d.FirmwareVersion())
	return true
}

var monitorCmd = &cobra.Command{
	Use:   "monitor <port>",
	Short: "Show a live log of button, knob, and touch events",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDevice(args[0], func(d *device.Device) error {
			events := make(chan device.Event, 64)
			d.SetSink(device.EventSinkFunc(func(_ *device.Device, ev device.Event) {
				select {
				case events <- ev:
				default: // drop rather than stall the processor
				}
			}))
			// Detach the sink before the channel goes out of scope so the
			// processor never writes to a dead monitor.
			defer d.SetSink(nil)

			info := ui.DeviceInfo{
				Path:     d.Path(),
				Serial:   d.Serial(),
				Firmware: d.FirmwareVersion(),
			}
			program := tea.NewProgram(ui.NewMonitor(info, events, true), tea.WithAltScreen())
			_, err := program.Run()
			return err
		})
	},
}

var brightnessCmd = &cobra.Command{
	Use:   "brightness <port> <0-100>",
	Short: "Set the display backlight brightness",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		percent, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("brightness must be a number: %w", err)
		}
		return withDevice(args[0], func(d *device.Device) error {
			return d.SetBrightness(percent)
		})
	},
}

var colorCmd = &cobra.Command{
	Use:   "color <port> <button> <rrggbb>",
	Short: "Set a button's backlight color",
	Long: `Set the RGB backlight of a named button. Buttons are the six knobs
(knobTL, knobCL, knobBL, knobTR, knobCR, knobBR), the circle button, and
the numbered buttons 1-7. The color is a hex triplet like ff8800.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, g, b, err := parseHexColor(args[2])
		if err != nil {
			return err
		}
		return withDevice(args[0], func(d *device.Device) error {
			return d.SetButtonColor(args[1], r, g, b)
		})
	},
}

var vibrateCmd = &cobra.Command{
	Use:   "vibrate <port> [pattern]",
	Short: "Trigger a haptic feedback pattern",
	Long:  "Trigger a named haptic pattern. Run without a pattern to use the\nconfigured default. Use 'vibrate --list' to see available patterns.",
	Args:  cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if listPatterns {
			names := make([]string, 0, len(protocol.Haptics))
			for name := range protocol.Haptics {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		}
		if len(args) < 1 {
			return fmt.Errorf("port argument required")
		}
		pattern := ""
		if len(args) == 2 {
			pattern = args[1]
		} else if registry, err := config.LoadRegistry(); err == nil && registry.Preferences != nil {
			pattern = registry.Preferences.DefaultHaptic
		}
		if pattern == "" {
			pattern = "SHORT"
		}
		return withDevice(args[0], func(d *device.Device) error {
			return d.Vibrate(pattern)
		})
	},
}

var listPatterns bool

func init() {
	vibrateCmd.Flags().BoolVar(&listPatterns, "list", false, "list available haptic patterns")
}

var drawCmd = &cobra.Command{
	Use:   "draw <port> <region> <image-file>",
	Short: "Draw an image file onto a display region",
	Long: `Draw a PNG, JPEG, or GIF onto a display region (left, center, or
right). The image is scaled to fit the region, preserving aspect ratio,
on a black background.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		region, ok := protocol.Regions[args[1]]
		if !ok {
			return fmt.Errorf("unknown region %q (want left, center, or right)", args[1])
		}
		img, err := loadImage(args[2])
		if err != nil {
			return err
		}
		scaled := imaging.ScaleToFit(img, region.Width, region.Height, color.Black)
		return withDevice(args[0], func(d *device.Device) error {
			return d.DrawImage(region.Name, scaled, 0, 0, true)
		})
	},
}

var keyCmd = &cobra.Command{
	Use:   "key <port> <index> <image-file>",
	Short: "Draw an image file onto one key of the center grid",
	Long:  "Draw an image onto a single 90x90 key tile. Indices run 0-11, left\nto right, top to bottom.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("key index must be a number: %w", err)
		}
		img, err := loadImage(args[2])
		if err != nil {
			return err
		}
		scaled := imaging.ScaleToFit(img, protocol.KeyWidth, protocol.KeyHeight, color.Black)
		return withDevice(args[0], func(d *device.Device) error {
			return d.SetKeyImage(index, scaled)
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset <port>",
	Short: "Blank all display regions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDevice(args[0], func(d *device.Device) error {
			return d.Reset(color.Black)
		})
	},
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func parseHexColor(s string) (r, g, b uint8, err error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("color must be a hex triplet like ff8800")
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}
