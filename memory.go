package exevalator

// memory holds the values of declared variables. Addresses are indices into
// vals. Slots are reserved in blocks which double in size, up to
// MaxVariableCount.
type memory struct {
	vals []float64
}

// alloc appends a zeroed slot and returns its address. ok is false if the
// memory is full.
func (m *memory) alloc() (addr int, ok bool) {
	n := len(m.vals)
	if n >= MaxVariableCount {
		return 0, false
	}
	if n == cap(m.vals) {
		c := 2 * cap(m.vals)
		if c == 0 {
			c = initialMemorySize
		}
		c = min(c, MaxVariableCount)
		vals := make([]float64, n, c)
		copy(vals, m.vals)
		m.vals = vals
	}
	m.vals = append(m.vals, 0)
	return n, true
}

// valid returns whether addr is an allocated address.
func (m *memory) valid(addr int) bool {
	return 0 <= addr && addr < len(m.vals)
}
