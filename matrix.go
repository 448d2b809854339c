package macropad

import "fmt"

type keyState uint8

const (
	keyNone keyState = iota
	keyPress
)

// Matrix scans a row/column key matrix and reports each press once.
//
// Columns are driven one at a time and rows are sampled. Scan walks rows in
// order and, inside a row, columns in order. Only the first new press of a
// scan is returned; a second key pressed in the same scan is reported on a
// later scan, and the repeater only follows the most recent press. There is
// no N-key rollover.
type Matrix struct {
	in       DigitalInputSource
	rows     []PinID
	cols     []PinID
	keymap   Keymap
	debounce int

	state []keyState
	cycle []int

	readErrors int
	lastErr    error
}

// NewMatrix returns a scanner for cfg. cfg must have passed Validate.
func NewMatrix(cfg MatrixConfig, in DigitalInputSource) *Matrix {
	n := len(cfg.Rows) * len(cfg.Cols)
	return &Matrix{
		in:       in,
		rows:     cfg.Rows,
		cols:     cfg.Cols,
		keymap:   cfg.Keymap,
		debounce: cfg.Debounce,
		state:    make([]keyState, n),
		cycle:    make([]int, n),
	}
}

func (m *Matrix) index(p Position) int {
	return p.Row*len(m.cols) + p.Col
}

func (m *Matrix) valid(p Position) bool {
	return p.Row >= 0 && p.Row < len(m.rows) && p.Col >= 0 && p.Col < len(m.cols)
}

// Scan samples every key once and returns the first key that went down since
// the previous scans saw it released. A key that stays down is not returned
// again until a scan has seen it up.
//
// A failed read leaves that key's state unchanged.
func (m *Matrix) Scan() (Position, bool) {
	var (
		found Position
		ok    bool
	)
	m.lastErr = nil
	for r := range m.rows {
		for c := range m.cols {
			current, err := m.sample(r, c)
			if err != nil {
				m.readErrors++
				if m.lastErr == nil {
					m.lastErr = err
				}
				continue
			}
			p := Position{Row: r, Col: c}
			idx := m.index(p)
			if ok && current && m.state[idx] == keyNone {
				// left for a later scan
				continue
			}
			if m.update(idx, current) {
				found, ok = p, true
			}
		}
	}
	return found, ok
}

func (m *Matrix) sample(r, c int) (bool, error) {
	col := m.cols[c]
	if err := m.in.DrivePin(col, true); err != nil {
		m.in.ReleasePin(col)
		return false, fmt.Errorf("%w: drive column %d: %v", ErrInputRead, c, err)
	}
	current, err := m.in.ReadPin(m.rows[r])
	if rerr := m.in.ReleasePin(col); rerr != nil && err == nil {
		err = rerr
	}
	if err != nil {
		return false, fmt.Errorf("%w: row %d col %d: %v", ErrInputRead, r, c, err)
	}
	return current, nil
}

// update advances one key's debounce state and reports a new press.
func (m *Matrix) update(idx int, current bool) bool {
	switch m.state[idx] {
	case keyNone:
		if !current {
			m.cycle[idx] = 0
			return false
		}
		if m.cycle[idx] < m.debounce {
			m.cycle[idx]++
			return false
		}
		m.state[idx] = keyPress
		m.cycle[idx] = 0
		return true
	case keyPress:
		if current {
			m.cycle[idx] = 0
			return false
		}
		if m.cycle[idx] < m.debounce {
			m.cycle[idx]++
			return false
		}
		m.state[idx] = keyNone
		m.cycle[idx] = 0
	}
	return false
}

// Pressed reports whether p is currently held according to the debounce
// memory.
func (m *Matrix) Pressed(p Position) bool {
	if !m.valid(p) {
		return false
	}
	return m.state[m.index(p)] == keyPress
}

// AnyPressed reports whether any key is held.
func (m *Matrix) AnyPressed() bool {
	for _, s := range m.state {
		if s == keyPress {
			return true
		}
	}
	return false
}

// Binding returns the keymap entry for p.
func (m *Matrix) Binding(p Position) Binding {
	if !m.valid(p) {
		return Binding{}
	}
	return m.keymap[p.Row][p.Col]
}

// ReadErrors is the number of failed key samples since creation.
func (m *Matrix) ReadErrors() int {
	return m.readErrors
}

// Err returns the first read error of the last scan, if any.
func (m *Matrix) Err() error {
	return m.lastErr
}
