package input

// KeyRing is a fixed-capacity FIFO of keystroke bytes. When full, pushing
// drops the oldest unread byte, so the ring always holds the most recent
// Cap() bytes in arrival order.
//
// KeyRing is not safe for concurrent use; it belongs to the dispatch loop.
type KeyRing struct {
	buf     []byte
	head    int // next read
	count   int
	dropped uint64
}

// NewKeyRing allocates a ring holding up to capacity bytes.
func NewKeyRing(capacity int) *KeyRing {
	if capacity < 1 {
		capacity = 1
	}
	return &KeyRing{buf: make([]byte, capacity)}
}

// Push appends b, evicting the oldest byte if the ring is full.
func (r *KeyRing) Push(b byte) {
	if r.count == len(r.buf) {
		r.head = (r.head + 1) % len(r.buf)
		r.count--
		r.dropped++
	}
	r.buf[(r.head+r.count)%len(r.buf)] = b
	r.count++
}

// PushAll pushes every byte of p in order.
func (r *KeyRing) PushAll(p []byte) {
	for _, b := range p {
		r.Push(b)
	}
}

// Drain returns all buffered bytes as one contiguous slice and empties the
// ring. It returns nil when the ring is empty.
func (r *KeyRing) Drain() []byte {
	if r.count == 0 {
		return nil
	}
	out := make([]byte, r.count)
	end := r.head + r.count
	if end <= len(r.buf) {
		copy(out, r.buf[r.head:end])
	} else {
		n := copy(out, r.buf[r.head:])
		copy(out[n:], r.buf[:end-len(r.buf)])
	}
	r.head = (r.head + r.count) % len(r.buf)
	r.count = 0
	return out
}

// Len is the number of unread bytes.
func (r *KeyRing) Len() int { return r.count }

// Cap is the fixed capacity.
func (r *KeyRing) Cap() int { return len(r.buf) }

// Dropped is the total number of bytes evicted by overflow.
func (r *KeyRing) Dropped() uint64 { return r.dropped }
