// cli.go - command line parsing for halidetraceviz
//
// Hand-rolled os.Args parsing, in the teacher's own style (main.go's
// `if len(os.Args) != 3` checks, no flag library anywhere in the tree).
// The grammar mirrors the original tool's argv walk: -s, -f, -l, -t, -d
// and -h each consume a fixed run of following arguments (-f also
// consumes a variable, '-'-terminated run of stride pairs), plus two
// SPEC_FULL.md ambient additions, -pace and -metrics-addr.

package main

import (
	"fmt"
	"os"
	"strconv"
)

// config is the fully parsed command line.
type config struct {
	Width, Height int
	Timestep      uint64
	DecayFactor   float64
	HoldFrames    uint64
	Funcs         []*FuncConfig
	PaceFPS       float64 // 0 disables frame pacing
	MetricsAddr   string  // empty disables the metrics server
}

func defaultConfig() *config {
	return &config{
		Width: 1920, Height: 1080,
		Timestep:    10000,
		DecayFactor: 2,
		HoldFrames:  250,
	}
}

// usage matches the spirit of the original tool's usage() function: a
// single stderr dump of the accepted flags.
func usage() {
	fmt.Fprint(os.Stderr, `
halidetraceviz accepts Halide-generated binary tracing packets from
stdin, and outputs them as raw 8-bit rgba32 pixel values to stdout.
Pipe the output into a video encoder or player.

Usage:
  halidetraceviz [-s width height] [-t timestep] [-d decay_factor]
                 [-h hold_frames] [-pace fps] [-metrics-addr addr]
                 (-f func min max color_dim blank zoom cost x y
                     [x_stride y_stride]...
                  | -l func text x y n)...
`)
}

// parseArgs parses argv (not including the program name) into a config.
// It mirrors the original C parser's argument-count and atoi-based
// reading, with a map keyed by Func name so repeated -f/-l flags for the
// same Func accumulate into one FuncConfig, then returns the Funcs in
// first-mentioned order.
func parseArgs(argv []string) (*config, error) {
	cfg := defaultConfig()
	byName := map[string]*FuncConfig{}
	var order []string

	funcFor := func(name string) *FuncConfig {
		if fc, ok := byName[name]; ok {
			return fc
		}
		fc := &FuncConfig{Name: name}
		byName[name] = fc
		order = append(order, name)
		return fc
	}

	i := 0
	next := func() (string, error) {
		if i >= len(argv) {
			return "", fmt.Errorf("halidetraceviz: missing argument after %s", argv[i-1])
		}
		s := argv[i]
		i++
		return s, nil
	}
	nextInt := func() (int64, error) {
		s, err := next()
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("halidetraceviz: expected integer, got %q", s)
		}
		return v, nil
	}
	nextFloat := func() (float64, error) {
		s, err := next()
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("halidetraceviz: expected number, got %q", s)
		}
		return v, nil
	}

	for i < len(argv) {
		flag := argv[i]
		i++
		switch flag {
		case "-s":
			w, err := nextInt()
			if err != nil {
				return nil, err
			}
			h, err := nextInt()
			if err != nil {
				return nil, err
			}
			cfg.Width, cfg.Height = int(w), int(h)

		case "-t":
			v, err := nextInt()
			if err != nil {
				return nil, err
			}
			cfg.Timestep = uint64(v)

		case "-d":
			v, err := nextFloat()
			if err != nil {
				return nil, err
			}
			cfg.DecayFactor = v

		case "-h":
			v, err := nextInt()
			if err != nil {
				return nil, err
			}
			cfg.HoldFrames = uint64(v)

		case "-pace":
			v, err := nextFloat()
			if err != nil {
				return nil, err
			}
			cfg.PaceFPS = v

		case "-metrics-addr":
			v, err := next()
			if err != nil {
				return nil, err
			}
			cfg.MetricsAddr = v

		case "-f":
			name, err := next()
			if err != nil {
				return nil, err
			}
			fc := funcFor(name)
			min, err := nextFloat()
			if err != nil {
				return nil, err
			}
			max, err := nextFloat()
			if err != nil {
				return nil, err
			}
			colorDim, err := nextInt()
			if err != nil {
				return nil, err
			}
			blank, err := nextInt()
			if err != nil {
				return nil, err
			}
			zoom, err := nextInt()
			if err != nil {
				return nil, err
			}
			cost, err := nextInt()
			if err != nil {
				return nil, err
			}
			x, err := nextInt()
			if err != nil {
				return nil, err
			}
			y, err := nextInt()
			if err != nil {
				return nil, err
			}
			fc.Min, fc.Max = min, max
			fc.ColorDim = int32(colorDim)
			fc.BlankOnEnd = blank != 0
			fc.Zoom = int32(zoom)
			fc.Cost = int32(cost)
			fc.X, fc.Y = int32(x), int32(y)

			dims := 0
			for i < len(argv) && len(argv[i]) > 0 && argv[i][0] != '-' && dims < maxDims {
				xs, err := nextInt()
				if err != nil {
					return nil, err
				}
				ys, err := nextInt()
				if err != nil {
					return nil, err
				}
				fc.XStride[dims] = int32(xs)
				fc.YStride[dims] = int32(ys)
				dims++
			}
			fc.Dims = int32(dims)

		case "-l":
			name, err := next()
			if err != nil {
				return nil, err
			}
			text, err := next()
			if err != nil {
				return nil, err
			}
			x, err := nextInt()
			if err != nil {
				return nil, err
			}
			y, err := nextInt()
			if err != nil {
				return nil, err
			}
			n, err := nextInt()
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(os.Stderr, "Adding label %s to func %s\n", text, name)
			fc := funcFor(name)
			fc.Labels = append(fc.Labels, Label{Text: text, X: int(x), Y: int(y), N: int(n)})

		default:
			return nil, fmt.Errorf("halidetraceviz: unrecognized flag %q", flag)
		}
	}

	for _, name := range order {
		cfg.Funcs = append(cfg.Funcs, byName[name])
	}
	return cfg, nil
}
