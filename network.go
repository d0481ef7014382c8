package cnnenergy

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

// Network is an ordered sequence of layers. The network owns its layers by
// value.
type Network []Layer

// TotalWeightSize returns the sum of the weight sizes of all the layers.
func (n Network) TotalWeightSize() int {
	total := 0
	for _, l := range n {
		total += l.WeightSize()
	}

	return total
}

// TotalMACCount returns the sum of the MAC counts of all the layers.
func (n Network) TotalMACCount() float64 {
	total := 0.0
	for _, l := range n {
		total += l.MACCount()
	}

	return total
}

// Validate checks that the network is not empty and that every layer has
// positive dimensions and a group count that divides its channel counts. An
// unset group counts as one; a negative one is rejected.
func (n Network) Validate() error {
	if len(n) == 0 {
		return fmt.Errorf("network has no layers")
	}

	for i, l := range n {
		err := validateLayer(l)
		if err != nil {
			return fmt.Errorf("layer %d: %w", i+1, err)
		}
	}

	return nil
}

type dimension struct {
	name  string
	value int
}

func validateLayer(l Layer) error {
	dims := []dimension{
		{"input map x", l.InputMapX},
		{"input map y", l.InputMapY},
		{"kernel x", l.KernelX},
		{"kernel y", l.KernelY},
		{"kernel stride", l.KernelStride},
		{"input channels", l.InputChannels},
		{"output channels", l.OutputChannels},
	}

	if l.IsPooling {
		dims = append(dims,
			dimension{"pool size", l.PoolX},
			dimension{"pool stride", l.PoolStride},
		)
	}

	for _, d := range dims {
		if d.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", d.name, d.value)
		}
	}

	if l.Group < 0 {
		return fmt.Errorf("group must not be negative, got %d", l.Group)
	}

	g := l.NumGroups()
	if l.InputChannels%g != 0 || l.OutputChannels%g != 0 {
		return fmt.Errorf("group %d does not divide channels %d -> %d",
			g, l.InputChannels, l.OutputChannels)
	}

	return nil
}

// A NetworkLoader loads a network description from a file.
//
// The file starts with the number of layers. Each layer is then described by
// whitespace-separated integers:
//
//	map_size in_channels out_channels kernel stride group pooling [pool_size pool_stride]
//
// pooling is 0 or 1; the two pool fields are present only when pooling is 1.
type NetworkLoader struct {
	// The path of the network description.
	Path string
}

// Load reads and validates the network.
func (l *NetworkLoader) Load() (Network, error) {
	absPath, err := filepath.Abs(l.Path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("opening network file: %w", err)
	}
	defer f.Close()

	net, err := ParseNetwork(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", l.Path, err)
	}

	slog.Debug("Network loaded", "path", absPath, "layers", len(net))

	return net, nil
}

// ParseNetwork parses a network description from a reader.
func ParseNetwork(r io.Reader) (Network, error) {
	s := &tokenScanner{scanner: bufio.NewScanner(r)}
	s.scanner.Split(bufio.ScanWords)

	count, err := s.nextInt("layer count")
	if err != nil {
		return nil, err
	}

	if count <= 0 {
		return nil, fmt.Errorf("layer count must be positive, got %d", count)
	}

	net := make(Network, 0, count)
	for i := 0; i < count; i++ {
		layer, err := parseLayer(s)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i+1, err)
		}

		net = append(net, layer)
	}

	err = net.Validate()
	if err != nil {
		return nil, err
	}

	return net, nil
}

func parseLayer(s *tokenScanner) (Layer, error) {
	var (
		l       Layer
		pooling int
		err     error
	)

	fields := []struct {
		name string
		dst  *int
	}{
		{"map size", &l.InputMapX},
		{"input channels", &l.InputChannels},
		{"output channels", &l.OutputChannels},
		{"kernel size", &l.KernelX},
		{"kernel stride", &l.KernelStride},
		{"group", &l.Group},
		{"pooling flag", &pooling},
	}

	for _, f := range fields {
		*f.dst, err = s.nextInt(f.name)
		if err != nil {
			return Layer{}, err
		}
	}

	if l.Group <= 0 {
		return Layer{}, fmt.Errorf("group must be positive, got %d", l.Group)
	}

	l.InputMapY = l.InputMapX
	l.KernelY = l.KernelX

	switch pooling {
	case 0:
	case 1:
		l.IsPooling = true

		l.PoolX, err = s.nextInt("pool size")
		if err != nil {
			return Layer{}, err
		}
		l.PoolY = l.PoolX

		l.PoolStride, err = s.nextInt("pool stride")
		if err != nil {
			return Layer{}, err
		}
	default:
		return Layer{}, fmt.Errorf("pooling flag must be 0 or 1, got %d", pooling)
	}

	return l, nil
}

type tokenScanner struct {
	scanner *bufio.Scanner
}

func (s *tokenScanner) nextInt(name string) (int, error) {
	if !s.scanner.Scan() {
		err := s.scanner.Err()
		if err != nil {
			return 0, err
		}

		return 0, fmt.Errorf("unexpected end of input reading %s", name)
	}

	v, err := strconv.Atoi(s.scanner.Text())
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", name, err)
	}

	return v, nil
}
