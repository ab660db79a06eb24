package compressor

import (
	"fmt"
	"strings"
)

// Layout selects channel count, parameter sharing and stereo encoding.
type Layout int

const (
	// LayoutMono processes a single channel.
	LayoutMono Layout = iota
	// LayoutStereoIndependent runs two unrelated mono compressors; each
	// detector only hears its own channel.
	LayoutStereoIndependent
	// LayoutStereoLinked shares channel 0's settings with channel 1 and
	// honours the stereo-split source selection.
	LayoutStereoLinked
	// LayoutLeftRight gives each channel its own settings while either
	// detector may combine both channels.
	LayoutLeftRight
	// LayoutMidSide compresses the mid and side signals and decodes back to
	// left/right afterwards.
	LayoutMidSide
)

var layoutNames = [...]string{
	LayoutMono:              "mono",
	LayoutStereoIndependent: "stereo",
	LayoutStereoLinked:      "linked",
	LayoutLeftRight:         "lr",
	LayoutMidSide:           "ms",
}

// String returns the short layout name.
func (l Layout) String() string {
	if !l.valid() {
		return fmt.Sprintf("Layout(%d)", int(l))
	}
	return layoutNames[l]
}

// Channels returns the number of signal channels of the layout.
func (l Layout) Channels() int {
	if l == LayoutMono {
		return 1
	}
	return 2
}

// Linked reports whether channel 1 mirrors channel 0's settings.
func (l Layout) Linked() bool {
	return l == LayoutStereoLinked
}

// ParseLayout returns the layout with the given short name.
func ParseLayout(name string) (Layout, error) {
	for i, n := range layoutNames {
		if strings.EqualFold(name, n) {
			return Layout(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLayout, name)
}

// MarshalText implements encoding.TextMarshaler.
func (l Layout) MarshalText() ([]byte, error) {
	if !l.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLayout, int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Layout) UnmarshalText(text []byte) error {
	v, err := ParseLayout(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

func (l Layout) valid() bool {
	return l >= LayoutMono && l <= LayoutMidSide
}
