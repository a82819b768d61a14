package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxToPDFRect_PureAxisFlip(t *testing.T) {
	// scaleX = scaleY = 1 and dest at the origin: the only transformation
	// left is the Y axis flip.
	box := Rect{X: 10, Y: 20, Width: 30, Height: 40}
	p := BoxToPDFRect(box, 100, 200, Rect{X: 0, Y: 0, Width: 100, Height: 200})

	assert.InDelta(t, 10.0, p.X, 1e-9)
	assert.InDelta(t, 200.0-(20.0+40.0), p.Y, 1e-9)
	assert.InDelta(t, 30.0, p.Width, 1e-9)
	assert.InDelta(t, 40.0, p.Height, 1e-9)
}

func TestBoxToPDFRect_HelloScenario(t *testing.T) {
	// One word recognized on a 1000x1400 raster rendered on a 1000x1400pt
	// page: y lands at 1310 before baseline adjustment, font size at 36.
	box := Rect{X: 100, Y: 50, Width: 200, Height: 40}
	p := BoxToPDFRect(box, 1000, 1400, Rect{X: 0, Y: 0, Width: 1000, Height: 1400})

	assert.InDelta(t, 1310.0, p.Y, 1e-9)
	assert.InDelta(t, 36.0, p.FontSize, 1e-9)
	assert.InDelta(t, 36.0*0.2, p.Baseline, 1e-9)
}

func TestBoxToPDFRect_IndependentScales(t *testing.T) {
	box := Rect{X: 100, Y: 100, Width: 100, Height: 100}
	// Source 1000x1000 drawn into a 500x250 region: X halves, Y quarters.
	p := BoxToPDFRect(box, 1000, 1000, Rect{X: 0, Y: 0, Width: 500, Height: 250})

	assert.InDelta(t, 50.0, p.X, 1e-9)
	assert.InDelta(t, 25.0, p.Height, 1e-9)
	assert.InDelta(t, 250.0-(100.0+100.0)*0.25, p.Y, 1e-9)
}

func TestBoxToPDFRect_DestOffset(t *testing.T) {
	box := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	p := BoxToPDFRect(box, 100, 100, Rect{X: 50, Y: 30, Width: 100, Height: 100})

	assert.InDelta(t, 50.0, p.X, 1e-9)
	assert.InDelta(t, 30.0+100.0-10.0, p.Y, 1e-9)
}

func TestBoxToPDFRect_ZeroSourceGuard(t *testing.T) {
	box := Rect{X: 5, Y: 5, Width: 10, Height: 10}
	p := BoxToPDFRect(box, 0, 0, Rect{X: 0, Y: 0, Width: 200, Height: 200})

	// Identity scale, not NaN/Inf.
	require.False(t, p.X != p.X, "X must not be NaN")
	assert.InDelta(t, 5.0, p.X, 1e-9)
	assert.InDelta(t, 200.0-15.0, p.Y, 1e-9)
}

func TestBoxToPDFRect_MinFontSize(t *testing.T) {
	// A 2px tall box still gets the minimum readable font size.
	box := Rect{X: 0, Y: 0, Width: 20, Height: 2}
	p := BoxToPDFRect(box, 100, 100, Rect{X: 0, Y: 0, Width: 100, Height: 100})

	assert.InDelta(t, MinOverlayFontSize, p.FontSize, 1e-9)
}

func TestContainRect(t *testing.T) {
	tests := []struct {
		name                   string
		cw, ch, bw, bh         float64
		wantX, wantY           float64
		wantWidth, wantHeight  float64
	}{
		{
			name: "wide content letterboxed vertically",
			cw:   200, ch: 100, bw: 100, bh: 100,
			wantX: 0, wantY: 25, wantWidth: 100, wantHeight: 50,
		},
		{
			name: "tall content pillarboxed horizontally",
			cw:   100, ch: 200, bw: 100, bh: 100,
			wantX: 25, wantY: 0, wantWidth: 50, wantHeight: 100,
		},
		{
			name: "exact fit",
			cw:   50, ch: 50, bw: 100, bh: 100,
			wantX: 0, wantY: 0, wantWidth: 100, wantHeight: 100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ContainRect(tt.cw, tt.ch, tt.bw, tt.bh)
			assert.InDelta(t, tt.wantX, r.X, 1e-9)
			assert.InDelta(t, tt.wantY, r.Y, 1e-9)
			assert.InDelta(t, tt.wantWidth, r.Width, 1e-9)
			assert.InDelta(t, tt.wantHeight, r.Height, 1e-9)
		})
	}
}

func TestContainRect_DegenerateInputs(t *testing.T) {
	assert.Equal(t, Rect{}, ContainRect(0, 100, 50, 50))
	assert.Equal(t, Rect{}, ContainRect(100, 100, 0, 50))
	assert.Equal(t, Rect{}, ContainRect(-1, 100, 50, 50))
}
