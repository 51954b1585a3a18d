// internal/mixer/mixer.go
//
// Additive color algebra for elastic waves.
// Responsibilities:
//   - Define the closed sets of piece colors and wave colors.
//   - Fold an ordered sequence of piece-color encounters into the wave's
//     final reported color (or absorption).
//   - Support both documented revisions of the white-piece rule:
//     lightening (revised, default) and pass-through (legacy).
//
// Primaries mix commutatively into a component set (red+blue=violet,
// red+yellow=orange, blue+yellow=green, all three=black). White pieces and
// transparent pieces are order-dependent operators, so callers must feed
// encounters in path order.

package mixer

// PieceColor is the color tag of a placed piece. White and transparent are
// behaviors rather than pigments: white lightens the wave, transparent
// leaves it unchanged. Black is the absorbing petroleum marker.
type PieceColor string

const (
	PieceRed         PieceColor = "red"
	PieceBlue        PieceColor = "blue"
	PieceYellow      PieceColor = "yellow"
	PieceWhite       PieceColor = "white"
	PieceTransparent PieceColor = "transparent"
	PieceBlack       PieceColor = "black"
)

// ValidPieceColor reports whether c is one of the six piece colors.
func ValidPieceColor(c PieceColor) bool {
	switch c {
	case PieceRed, PieceBlue, PieceYellow, PieceWhite, PieceTransparent, PieceBlack:
		return true
	}
	return false
}

// WaveColor is the color a wave reports on exit. A wave starts white and
// accumulates primaries; lightened mixes get a pastel counterpart.
type WaveColor string

const (
	White        WaveColor = "white"
	Red          WaveColor = "red"
	Blue         WaveColor = "blue"
	Yellow       WaveColor = "yellow"
	Violet       WaveColor = "violet" // red + blue
	Orange       WaveColor = "orange" // red + yellow
	Green        WaveColor = "green"  // blue + yellow
	Black        WaveColor = "black"  // red + blue + yellow
	PastelRed    WaveColor = "pastel_red"
	PastelBlue   WaveColor = "pastel_blue"
	PastelYellow WaveColor = "pastel_yellow"
	PastelViolet WaveColor = "pastel_violet"
	PastelOrange WaveColor = "pastel_orange"
	PastelGreen  WaveColor = "pastel_green"
)

// Rule selects which revision of the white-piece behavior applies.
type Rule int

const (
	// RuleLighten is the revised rule: a white piece converts the
	// accumulated color to its pastel counterpart; pastel black collapses
	// to plain white.
	RuleLighten Rule = iota
	// RulePassThrough is the legacy rule: white pieces leave the wave
	// color unchanged, like transparent pieces.
	RulePassThrough
)

// Mixture is the running state of a wave's color as it encounters pieces.
// The zero value is a plain white wave.
type Mixture struct {
	red, blue, yellow bool
	pastel            bool
	absorbed          bool
}

// Add folds one piece encounter into the mixture.
func (m *Mixture) Add(c PieceColor, rule Rule) {
	if m.absorbed {
		return
	}
	switch c {
	case PieceBlack:
		m.absorbed = true
	case PieceTransparent:
		// no color change
	case PieceWhite:
		if rule == RulePassThrough {
			return
		}
		m.lighten()
	case PieceRed:
		m.red = true
		m.normalize()
	case PieceBlue:
		m.blue = true
		m.normalize()
	case PieceYellow:
		m.yellow = true
		m.normalize()
	}
}

// lighten applies the white-piece operator. Lightening plain white is a
// no-op, lightening a full mix (black) resets to plain white, and
// lightening an already pastel color is idempotent.
func (m *Mixture) lighten() {
	if !m.red && !m.blue && !m.yellow {
		return
	}
	if m.red && m.blue && m.yellow {
		m.reset()
		return
	}
	m.pastel = true
}

// normalize collapses a pastel full mix: pastel black is plain white.
func (m *Mixture) normalize() {
	if m.pastel && m.red && m.blue && m.yellow {
		m.reset()
	}
}

func (m *Mixture) reset() {
	m.red, m.blue, m.yellow, m.pastel = false, false, false, false
}

// Absorbed reports whether the wave has hit an absorbing piece.
func (m Mixture) Absorbed() bool { return m.absorbed }

// Color maps the component set (and pastel flag) to the reported WaveColor.
func (m Mixture) Color() WaveColor {
	var c WaveColor
	switch {
	case m.red && m.blue && m.yellow:
		c = Black
	case m.red && m.blue:
		c = Violet
	case m.red && m.yellow:
		c = Orange
	case m.blue && m.yellow:
		c = Green
	case m.red:
		c = Red
	case m.blue:
		c = Blue
	case m.yellow:
		c = Yellow
	default:
		return White
	}
	if m.pastel {
		return pastels[c]
	}
	return c
}

var pastels = map[WaveColor]WaveColor{
	Red:    PastelRed,
	Blue:   PastelBlue,
	Yellow: PastelYellow,
	Violet: PastelViolet,
	Orange: PastelOrange,
	Green:  PastelGreen,
	// A pastel full mix never reaches Color(): normalize() collapses it
	// to plain white first.
}

// Mix folds an ordered sequence of piece encounters, starting from a white
// wave, and returns the final color plus whether the wave was absorbed.
// The empty sequence yields white.
func Mix(encounters []PieceColor, rule Rule) (WaveColor, bool) {
	var m Mixture
	for _, c := range encounters {
		m.Add(c, rule)
		if m.Absorbed() {
			return m.Color(), true
		}
	}
	return m.Color(), false
}
