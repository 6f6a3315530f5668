package huffman

import "fmt"

// Layout selects how the per-partition bitstreams are joined by Encode.
type Layout uint8

const (
	// LayoutPartitioned packs every partition into its own bytes. A partition
	// that does not end on a byte boundary is zero-padded before the next one.
	LayoutPartitioned Layout = iota
	// LayoutContinuous stitches the partitions into one bitstream. Only the
	// final byte carries padding.
	LayoutContinuous
)

func (l Layout) String() string {
	switch l {
	case LayoutPartitioned:
		return "partitioned"
	case LayoutContinuous:
		return "continuous"
	default:
		return fmt.Sprintf("layout(%d)", uint8(l))
	}
}

func ParseLayout(s string) (Layout, error) {
	switch s {
	case "", "partitioned":
		return LayoutPartitioned, nil
	case "continuous":
		return LayoutContinuous, nil
	default:
		return 0, fmt.Errorf("unknown layout %q", s)
	}
}

// Config holds the encoder settings.
type Config struct {
	Layout Layout
}

// Option is a functional option for Encode.
type Option func(*Config)

// WithLayout sets the packing layout. The default is LayoutPartitioned.
func WithLayout(l Layout) Option {
	return func(c *Config) {
		c.Layout = l
	}
}

func newConfig(opts []Option) Config {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
