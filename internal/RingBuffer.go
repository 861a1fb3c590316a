package internal

import "fmt"

// RingBuffer is a fixed-capacity FIFO of bytes. Adding to a full buffer overwrites the oldest byte.
// It backs the sliding window of the delta scan, so every operation is O(1) except the bulk
// copies, which touch at most two contiguous segments.
type RingBuffer struct {
	buffer []byte
	head   int
	tail   int
	size   int
}

// NewRingBuffer creates a ring buffer holding at most capacity bytes
func NewRingBuffer(capacity int) (*RingBuffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: ring buffer capacity must be positive, got %d", ErrConfiguration, capacity)
	}
	return &RingBuffer{buffer: make([]byte, capacity)}, nil
}

// Capacity returns the maximum number of bytes held
func (rb *RingBuffer) Capacity() int {
	return len(rb.buffer)
}

// Count returns the number of bytes currently held
func (rb *RingBuffer) Count() int {
	return rb.size
}

// IsFull reports whether the next Add will evict the oldest byte
func (rb *RingBuffer) IsFull() bool {
	return rb.size == len(rb.buffer)
}

// Add appends item, evicting the oldest byte first when the buffer is full
func (rb *RingBuffer) Add(item byte) {
	rb.buffer[rb.tail] = item
	rb.tail = rb.wrap(rb.tail + 1)

	if rb.size == len(rb.buffer) {
		rb.head = rb.tail
	} else {
		rb.size++
	}
}

// AddBulk behaves like calling Add for every item in order. When items is longer than the
// capacity only its last Capacity() bytes take effect.
func (rb *RingBuffer) AddBulk(items []byte) {
	capacity := len(rb.buffer)
	if len(items) > capacity {
		items = items[len(items)-capacity:]
	}
	if len(items) == 0 {
		return
	}

	// First segment runs from tail to the end of the backing array, the second wraps to index 0
	n := copy(rb.buffer[rb.tail:], items)
	if n < len(items) {
		copy(rb.buffer, items[n:])
	}

	rb.tail = (rb.tail + len(items)) % capacity
	if rb.size+len(items) >= capacity {
		rb.head = rb.tail
		rb.size = capacity
	} else {
		rb.size += len(items)
	}
}

// Take removes and returns the oldest byte
func (rb *RingBuffer) Take() (byte, error) {
	if rb.size == 0 {
		return 0, ErrEmptyBuffer
	}
	item := rb.buffer[rb.head]
	rb.head = rb.wrap(rb.head + 1)
	rb.size--
	return item, nil
}

// Peek returns the oldest byte without removing it
func (rb *RingBuffer) Peek() (byte, error) {
	if rb.size == 0 {
		return 0, ErrEmptyBuffer
	}
	return rb.buffer[rb.head], nil
}

// Clear empties the buffer. The backing array is kept.
func (rb *RingBuffer) Clear() {
	rb.head = 0
	rb.tail = 0
	rb.size = 0
}

// CopyTo writes the contents in FIFO order to the start of destination and returns the number
// of bytes written. destination must hold at least Count() bytes.
func (rb *RingBuffer) CopyTo(destination []byte) (int, error) {
	if len(destination) < rb.size {
		return 0, fmt.Errorf("destination too small: %d < %d", len(destination), rb.size)
	}
	if rb.size == 0 {
		return 0, nil
	}

	firstPartLength := len(rb.buffer) - rb.head
	if firstPartLength >= rb.size {
		copy(destination, rb.buffer[rb.head:rb.head+rb.size])
		return rb.size, nil
	}

	copy(destination, rb.buffer[rb.head:])
	copy(destination[firstPartLength:], rb.buffer[:rb.size-firstPartLength])
	return rb.size, nil
}

// Bytes returns a copy of the contents in FIFO order
func (rb *RingBuffer) Bytes() []byte {
	out := make([]byte, rb.size)
	_, _ = rb.CopyTo(out)
	return out
}

func (rb *RingBuffer) wrap(index int) int {
	if index >= len(rb.buffer) {
		return 0
	}
	return index
}
