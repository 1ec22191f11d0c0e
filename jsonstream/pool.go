package jsonstream

import (
	"math/bits"
	"sync"
)

//go:generate mockgen -source=pool.go -destination=mocks/mock_pool.go -package=mocks

// BufferPool supplies the reader's byte buffers. Every slice obtained from
// Rent is handed back through Return exactly once.
type BufferPool interface {
	// Rent returns a buffer of at least minSize bytes.
	Rent(minSize int) []byte
	// Return gives a rented buffer back to the pool.
	Return(buf []byte)
}

// SharedPool returns the process wide pool used when no pool is configured.
func SharedPool() BufferPool {
	return sharedPool
}

var sharedPool = &classPool{}

// classPool keeps one sync.Pool per power of two size class.
type classPool struct {
	classes sync.Map // int -> *sync.Pool
}

func (p *classPool) Rent(minSize int) []byte {
	size := roundUp(minSize)
	if v, ok := p.classes.Load(size); ok {
		if b, ok := v.(*sync.Pool).Get().(*[]byte); ok {
			return (*b)[:size]
		}
	}
	return make([]byte, size)
}

func (p *classPool) Return(buf []byte) {
	size := cap(buf)
	if size == 0 || size&(size-1) != 0 {
		return
	}
	v, _ := p.classes.LoadOrStore(size, &sync.Pool{})
	buf = buf[:size]
	v.(*sync.Pool).Put(&buf)
}

func roundUp(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
