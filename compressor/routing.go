package compressor

import "github.com/cwbudde/algo-comp/dsp/sidechain"

// SidechainType selects where a channel's detector takes its signal from.
type SidechainType int

const (
	// SidechainFeedForward detects from the (gain-scaled) input.
	SidechainFeedForward SidechainType = iota
	// SidechainFeedBack detects from the previous output samples.
	SidechainFeedBack
	// SidechainExternal detects from the external sidechain input.
	SidechainExternal
	// SidechainLink detects from a buffer shared by another processor.
	SidechainLink
)

// RouteKind is the buffer family a detector reads from.
type RouteKind int

const (
	RouteInput RouteKind = iota
	RouteFeedback
	RouteExternal
	RouteLink
)

// Route is a resolved detector routing for one channel.
type Route struct {
	Kind   RouteKind
	Source sidechain.Source
}

// Resolve maps a sidechain type and source selector to a route for the given
// channel. In split mode the selector is interpreted relative to the channel
// so that "left" for channel 1 means its own (right) signal. Unknown types
// fall back to feed-forward and unknown selectors to the middle signal.
func Resolve(t SidechainType, selector, channel int, split bool) Route {
	r := Route{Kind: RouteInput, Source: decodeSource(selector, channel, split)}
	switch t {
	case SidechainFeedBack:
		r.Kind = RouteFeedback
	case SidechainExternal:
		r.Kind = RouteExternal
	case SidechainLink:
		r.Kind = RouteLink
	}
	return r
}

var (
	sourceTable = [...]sidechain.Source{
		sidechain.SourceMiddle, sidechain.SourceSide,
		sidechain.SourceLeft, sidechain.SourceRight,
		sidechain.SourceMin, sidechain.SourceMax,
	}
	splitSourceTable = [2][6]sidechain.Source{
		{
			sidechain.SourceLeft, sidechain.SourceRight,
			sidechain.SourceMiddle, sidechain.SourceSide,
			sidechain.SourceMin, sidechain.SourceMax,
		},
		{
			sidechain.SourceRight, sidechain.SourceLeft,
			sidechain.SourceSide, sidechain.SourceMiddle,
			sidechain.SourceMin, sidechain.SourceMax,
		},
	}
)

func decodeSource(selector, channel int, split bool) sidechain.Source {
	if selector < 0 || selector >= len(sourceTable) {
		return sidechain.SourceMiddle
	}
	if !split {
		return sourceTable[selector]
	}
	if channel < 0 || channel > 1 {
		return sidechain.SourceMiddle
	}
	return splitSourceTable[channel][selector]
}
