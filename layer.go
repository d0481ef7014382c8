// Package cnnenergy estimates the energy a CNN accelerator spends executing a
// network under different data-reuse schedules.
package cnnenergy

// A Layer describes one convolutional layer, optionally followed by pooling
// and optionally split into groups. Maps and kernels are square. A Layer
// carries shapes only; all sizes are derived.
type Layer struct {
	InputMapX, InputMapY int

	KernelX, KernelY int
	KernelStride     int

	InputChannels  int
	OutputChannels int

	IsPooling    bool
	PoolX, PoolY int
	PoolStride   int

	// Group is the number of groups of a grouped convolution. Zero is
	// treated as one.
	Group int
}

// NumGroups returns the group count, treating an unset Group as one.
func (l Layer) NumGroups() int {
	if l.Group <= 0 {
		return 1
	}

	return l.Group
}

// ConvOutputShape returns the output map shape before pooling.
func (l Layer) ConvOutputShape() (x, y int) {
	return l.InputMapX / l.KernelStride, l.InputMapY / l.KernelStride
}

// OutputMapShape returns the output map shape after pooling.
func (l Layer) OutputMapShape() (x, y int) {
	x, y = l.ConvOutputShape()
	if l.IsPooling {
		x /= l.PoolStride
		y /= l.PoolStride
	}

	return x, y
}

// InputMapSize returns the number of elements of the input feature maps.
func (l Layer) InputMapSize() int {
	return l.InputMapX * l.InputMapY * l.InputChannels
}

// OutputMapSize returns the number of elements of the output feature maps.
func (l Layer) OutputMapSize() int {
	x, y := l.OutputMapShape()
	return x * y * l.OutputChannels
}

// WeightSize returns the number of kernel weights.
func (l Layer) WeightSize() int {
	return l.KernelX * l.KernelY * l.InputChannels * l.OutputChannels
}

// MACCount returns the number of multiply-accumulate operations.
func (l Layer) MACCount() float64 {
	pixels := l.InputMapX * l.InputMapY / l.KernelStride / l.KernelStride

	res := float64(pixels)
	res *= float64(l.KernelX * l.KernelY)
	res *= float64(l.InputChannels * l.OutputChannels)

	return res
}

// GroupKernel returns the layer that computes a single group. Its channel
// counts are divided by the group count.
func (l Layer) GroupKernel() Layer {
	g := l.NumGroups()

	k := l
	k.InputChannels /= g
	k.OutputChannels /= g
	k.Group = 1

	return k
}

// CeilDiv returns x / y rounded up, for non-negative x and positive y.
func CeilDiv(x, y int) int {
	return (x + y - 1) / y
}
