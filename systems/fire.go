package systems

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/sandbox/config"
	"github.com/pthm-cable/sandbox/terrain"
)

// MaxFireMaterials is the palette size addressable by a 2-bit material index.
const MaxFireMaterials = 4

// colorSteps is the resolution of the per-material burn colour ramp.
const colorSteps = 64

var (
	// ErrInvalidGrid is returned for non-positive grid dimensions.
	ErrInvalidGrid = errors.New("invalid grid dimensions")
	// ErrEmptyPalette is returned when a fire grid has no materials.
	ErrEmptyPalette = errors.New("empty material palette")
	// ErrBufferMismatch is returned when paired buffers differ in size.
	ErrBufferMismatch = errors.New("mismatched buffer sizes")
)

// FireMaterial is pure data describing how one fuel type burns.
type FireMaterial struct {
	Name        string
	BurnRate    float32 // Burn progress per second while ignited
	BurnoutTime float32 // Progress at which the cell is burnt out
	Threshold   float32 // Weighted neighbour signal needed to ignite
	Unburnt     colorful.Color
	Burnt       colorful.Color
}

// FireCell is the per-cell automaton state.
type FireCell struct {
	FuelHeight float32
	Material   uint8 // Index into the palette, 0..3
	BurnTime   float32
	Ignited    bool
	Burnt      bool // Terminal: never re-ignites
}

// Burning reports whether the cell is actively spreading fire.
func (c FireCell) Burning() bool { return c.Ignited && !c.Burnt }

// FirePoint requests ignition of every cell within Radius of (X, Y).
type FirePoint struct {
	X, Y   int
	Radius int
}

// FireParams holds the non-palette tuning of the automaton.
type FireParams struct {
	DT         float32 // Seconds per tick
	WaterLevel float32 // Normalized terrain height below which cells are water
	SlopeGain  float32 // Uphill spread boost
	MinFuel    float32 // Cells with less fuel never ignite
	NoiseScale float32 // Landscape noise frequency per cell at zoom 1
}

// FireGrid is a double-buffered cellular automaton of fuel and burn state.
// Step reads only the current buffer and writes only the next one, then
// flips the index, so a tick never observes its own partial results.
type FireGrid struct {
	W, H int

	buffers [2][]FireCell
	current int

	materials []FireMaterial
	ramps     [][colorSteps]color.RGBA
	params    FireParams

	// Per-tick scratch: normalized terrain height per cell
	heights []float32
	colors  []color.RGBA

	seed int64
	zoom float32

	pool *WorkerPool
}

// NewFireGrid allocates a fire grid. Malformed sizes or palettes are fatal
// for the caller and reported as errors before any tick runs.
func NewFireGrid(w, h int, materials []FireMaterial, params FireParams, pool *WorkerPool) (*FireGrid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("fire grid %dx%d: %w", w, h, ErrInvalidGrid)
	}
	if len(materials) == 0 {
		return nil, fmt.Errorf("fire grid: %w", ErrEmptyPalette)
	}
	if len(materials) > MaxFireMaterials {
		return nil, fmt.Errorf("fire grid: %d materials exceeds %d", len(materials), MaxFireMaterials)
	}

	fg := &FireGrid{
		W:         w,
		H:         h,
		materials: append([]FireMaterial(nil), materials...),
		params:    params,
		heights:   make([]float32, w*h),
		colors:    make([]color.RGBA, w*h),
		zoom:      1,
		pool:      pool,
	}
	fg.buffers[0] = make([]FireCell, w*h)
	fg.buffers[1] = make([]FireCell, w*h)

	// Precompute unburnt -> burnt colour ramps
	fg.ramps = make([][colorSteps]color.RGBA, len(materials))
	for m, mat := range fg.materials {
		for s := 0; s < colorSteps; s++ {
			t := float64(s) / float64(colorSteps-1)
			r, g, b := mat.Unburnt.BlendRgb(mat.Burnt, t).Clamped().RGB255()
			fg.ramps[m][s] = color.RGBA{R: r, G: g, B: b, A: 255}
		}
	}

	return fg, nil
}

// NewFireGridFromConfig builds the grid and palette from configuration and
// generates the initial landscape.
func NewFireGridFromConfig(cfg config.FireConfig, dt float32, pool *WorkerPool) (*FireGrid, error) {
	materials, err := MaterialsFromConfig(cfg.Materials)
	if err != nil {
		return nil, err
	}
	params := FireParams{
		DT:         dt,
		WaterLevel: float32(cfg.WaterLevel),
		SlopeGain:  float32(cfg.SlopeGain),
		MinFuel:    float32(cfg.MinFuel),
		NoiseScale: float32(cfg.NoiseScale),
	}
	fg, err := NewFireGrid(cfg.Width, cfg.Height, materials, params, pool)
	if err != nil {
		return nil, err
	}
	fg.RegenerateLandscape(cfg.Seed, float32(cfg.Zoom))
	return fg, nil
}

// MaterialsFromConfig parses the configured palette.
func MaterialsFromConfig(mcs []config.MaterialConfig) ([]FireMaterial, error) {
	if len(mcs) == 0 {
		return nil, fmt.Errorf("fire materials: %w", ErrEmptyPalette)
	}
	out := make([]FireMaterial, len(mcs))
	for i, mc := range mcs {
		unburnt, err := colorful.Hex(mc.UnburntColor)
		if err != nil {
			return nil, fmt.Errorf("material %q unburnt colour: %w", mc.Name, err)
		}
		burnt, err := colorful.Hex(mc.BurntColor)
		if err != nil {
			return nil, fmt.Errorf("material %q burnt colour: %w", mc.Name, err)
		}
		out[i] = FireMaterial{
			Name:        mc.Name,
			BurnRate:    float32(mc.BurnRate),
			BurnoutTime: float32(mc.BurnoutTime),
			Threshold:   float32(mc.Threshold),
			Unburnt:     unburnt,
			Burnt:       burnt,
		}
	}
	return out, nil
}

// Materials returns the palette.
func (fg *FireGrid) Materials() []FireMaterial { return fg.materials }

// Current returns the fully written current buffer. Callers must not retain
// it across a Step.
func (fg *FireGrid) Current() []FireCell { return fg.buffers[fg.current] }

// CurrentIndex returns which of the two buffers is current.
func (fg *FireGrid) CurrentIndex() int { return fg.current }

// Cell returns the current state of cell (x, y).
func (fg *FireGrid) Cell(x, y int) FireCell {
	return fg.buffers[fg.current][y*fg.W+x]
}

// Zoom returns the zoom factor of the current landscape.
func (fg *FireGrid) Zoom() float32 { return fg.zoom }

// Seed returns the seed of the current landscape.
func (fg *FireGrid) Seed() int64 { return fg.seed }

// Clone returns an independent copy of the grid sharing only the palette.
func (fg *FireGrid) Clone() *FireGrid {
	c := *fg
	c.buffers[0] = append([]FireCell(nil), fg.buffers[0]...)
	c.buffers[1] = append([]FireCell(nil), fg.buffers[1]...)
	c.heights = make([]float32, len(fg.heights))
	c.colors = make([]color.RGBA, len(fg.colors))
	return &c
}

// StartFires ignites every cell within each point's radius in both buffers,
// so the fire shows whichever buffer is current next. Points outside the
// grid are skipped; burnt and fuel-less cells stay as they are.
func (fg *FireGrid) StartFires(points []FirePoint) {
	for _, p := range points {
		r := p.Radius
		if r < 0 {
			r = 0
		}
		if p.X < 0 || p.X >= fg.W || p.Y < 0 || p.Y >= fg.H {
			continue
		}
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx*dx+dy*dy > r*r {
					continue
				}
				x, y := p.X+dx, p.Y+dy
				if x < 0 || x >= fg.W || y < 0 || y >= fg.H {
					continue
				}
				i := y*fg.W + x
				for b := 0; b < 2; b++ {
					c := &fg.buffers[b][i]
					if c.Burnt || c.Ignited || c.FuelHeight < fg.params.MinFuel {
						continue
					}
					c.Ignited = true
					c.BurnTime = 0
				}
			}
		}
	}
}

// Step advances the automaton one generation. terr may be nil, in which case
// the landscape is treated as flat dry land.
func (fg *FireGrid) Step(terr *terrain.Grid, coeff WindCoefficients, zoom float32) {
	fg.sampleHeights(terr, zoom)

	cur := fg.buffers[fg.current]
	nxt := fg.buffers[1-fg.current]

	fg.pool.Run(len(cur), func(start, end int) {
		for i := start; i < end; i++ {
			nxt[i] = fg.nextCell(cur, i, &coeff)
		}
	})

	fg.current = 1 - fg.current
}

// nextCell computes the next generation of cell i from cur alone.
func (fg *FireGrid) nextCell(cur []FireCell, i int, coeff *WindCoefficients) FireCell {
	c := cur[i]
	mat := &fg.materials[c.Material]

	if c.Burnt {
		return c
	}

	if c.Ignited {
		c.BurnTime += fg.params.DT * mat.BurnRate
		if c.BurnTime >= mat.BurnoutTime {
			c.BurnTime = mat.BurnoutTime
			c.Ignited = false
			c.Burnt = true
		}
		return c
	}

	h := fg.heights[i]
	if c.FuelHeight < fg.params.MinFuel || h < fg.params.WaterLevel {
		return c
	}

	x := i % fg.W
	y := i / fg.W
	var signal float32
	for d := 0; d < int(numCompass); d++ {
		nx := x + compassOffsets[d][0]
		ny := y + compassOffsets[d][1]
		if nx < 0 || nx >= fg.W || ny < 0 || ny >= fg.H {
			continue
		}
		j := ny*fg.W + nx
		if !cur[j].Burning() {
			continue
		}
		// Fire travels from the neighbour toward this cell, the opposite
		// of the neighbour's offset.
		w := coeff[(d+4)%int(numCompass)]
		if rise := h - fg.heights[j]; rise > 0 {
			w *= 1 + fg.params.SlopeGain*rise
		}
		signal += w
	}

	if signal > mat.Threshold {
		c.Ignited = true
		c.BurnTime = 0
	}
	return c
}

// sampleHeights snapshots normalized terrain height per cell for this tick.
func (fg *FireGrid) sampleHeights(terr *terrain.Grid, zoom float32) {
	if terr == nil {
		for i := range fg.heights {
			fg.heights[i] = 1
		}
		return
	}
	if zoom <= 0 {
		zoom = 1
	}
	for y := 0; y < fg.H; y++ {
		v := 0.5 + ((float32(y)+0.5)/float32(fg.H)-0.5)/zoom
		for x := 0; x < fg.W; x++ {
			u := 0.5 + ((float32(x)+0.5)/float32(fg.W)-0.5)/zoom
			fg.heights[y*fg.W+x] = terr.HeightAt(u, v)
		}
	}
}

// Progress returns burn progress of a cell in [0,1].
func (fg *FireGrid) Progress(c FireCell) float32 {
	if c.Burnt {
		return 1
	}
	if !c.Ignited {
		return 0
	}
	bt := fg.materials[c.Material].BurnoutTime
	if bt <= 0 {
		return 1
	}
	return clamp01(c.BurnTime / bt)
}

// Rasterize maps the current buffer to display colours by interpolating each
// material's unburnt colour toward its burnt colour by burn progress. It
// does not touch automaton state and may run any number of times per tick.
func (fg *FireGrid) Rasterize() []color.RGBA {
	cur := fg.buffers[fg.current]
	fg.pool.Run(len(cur), func(start, end int) {
		for i := start; i < end; i++ {
			c := cur[i]
			s := int(fg.Progress(c)*float32(colorSteps-1) + 0.5)
			fg.colors[i] = fg.ramps[c.Material][s]
		}
	})
	return fg.colors
}

// RegenerateLandscape derives fuel and material for both buffers from seeded
// noise scaled by zoom and clears all burn state.
func (fg *FireGrid) RegenerateLandscape(seed int64, zoom float32) {
	if zoom <= 0 {
		zoom = 1
	}
	fg.seed = seed
	fg.zoom = zoom

	fuelNoise := NewFBM(seed)
	matNoise := NewFBM(seed ^ 0x5bd1e995)
	scale := float64(fg.params.NoiseScale) / float64(zoom)
	if scale <= 0 {
		scale = 0.03
	}
	nmat := len(fg.materials)

	cells := fg.buffers[0]
	for y := 0; y < fg.H; y++ {
		ny := (float64(y) - float64(fg.H)/2) * scale
		for x := 0; x < fg.W; x++ {
			nx := (float64(x) - float64(fg.W)/2) * scale
			fuel := fuelNoise.Eval01(nx, ny)
			m := int(matNoise.Eval01(nx*0.7+101, ny*0.7+53) * float64(nmat))
			if m >= nmat {
				m = nmat - 1
			}
			cells[y*fg.W+x] = FireCell{FuelHeight: float32(fuel), Material: uint8(m)}
		}
	}
	copy(fg.buffers[1], cells)
}

// FillLandscape sets every cell to the same material and fuel, clearing burn state.
func (fg *FireGrid) FillLandscape(material uint8, fuel float32) {
	if int(material) >= len(fg.materials) {
		material = uint8(len(fg.materials) - 1)
	}
	for b := 0; b < 2; b++ {
		for i := range fg.buffers[b] {
			fg.buffers[b][i] = FireCell{FuelHeight: fuel, Material: material}
		}
	}
}

// ResetLandscape clears burn state in both buffers, keeping fuel and materials.
func (fg *FireGrid) ResetLandscape() {
	for b := 0; b < 2; b++ {
		cells := fg.buffers[b]
		for i := range cells {
			cells[i].Ignited = false
			cells[i].Burnt = false
			cells[i].BurnTime = 0
		}
	}
}

// Counts returns the number of burning and burnt cells in the current buffer.
func (fg *FireGrid) Counts() (burning, burnt int) {
	for _, c := range fg.buffers[fg.current] {
		if c.Burnt {
			burnt++
		} else if c.Ignited {
			burning++
		}
	}
	return burning, burnt
}
