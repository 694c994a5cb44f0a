package bridge

// Scratch is a fixed-capacity output buffer reused across calls. Each call
// follows the same lifecycle: Reset, write into Space, Commit, then expose
// Bytes to the host. The exposed view stays valid until the next Reset.
// The backing memory is never reallocated, so it may live outside the Go
// heap when the host needs a pointer it can keep after the call returns.
type Scratch struct {
	mem []byte
	n   int
}

// NewScratch allocates a scratch buffer of the given capacity.
func NewScratch(capacity int) *Scratch {
	return &Scratch{mem: make([]byte, capacity)}
}

// WrapScratch uses caller-owned memory as a scratch buffer.
func WrapScratch(mem []byte) *Scratch {
	return &Scratch{mem: mem}
}

// Reset clears the buffer without releasing its memory.
func (s *Scratch) Reset() {
	s.n = 0
}

// Cap returns the fixed capacity.
func (s *Scratch) Cap() int {
	return len(s.mem)
}

// Space returns the whole backing memory for writing.
func (s *Scratch) Space() []byte {
	return s.mem
}

// Commit records that the first n bytes of Space hold the result.
func (s *Scratch) Commit(n int) {
	s.n = n
}

// Bytes returns the committed result.
func (s *Scratch) Bytes() []byte {
	return s.mem[:s.n:s.n]
}
