package allocator

const DefaultChunkSize = 1 << 20

type Options struct {
	// Diagnostics surrounds every allocation with guard bytes that are
	// verified on Free. Buffers must be freed by an allocator with the same
	// setting.
	Diagnostics bool

	// OffHeap backs allocations with anonymous memory mappings instead of
	// Go heap slices.
	OffHeap bool

	// ChunkSize bounds a single read or write call during bulk I/O.
	// Zero means DefaultChunkSize.
	ChunkSize int
}

var defaultOptions = Options{
	ChunkSize: DefaultChunkSize,
}
