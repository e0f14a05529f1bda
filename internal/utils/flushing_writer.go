package utils

import (
	"io"
	"sync"
)

// FlushingWriter serializes writes from concurrently streamed process output
// and pushes each write through buffered destinations immediately.
type FlushingWriter struct {
	mutex       sync.Mutex
	destination io.Writer
	flush       func() error
}

// NewFlushingWriter wraps destination. A nil destination yields a nil writer and
// an existing FlushingWriter is returned unchanged.
func NewFlushingWriter(destination io.Writer) io.Writer {
	switch typedDestination := destination.(type) {
	case nil:
		return nil
	case *FlushingWriter:
		return typedDestination
	case interface{ Flush() error }:
		return &FlushingWriter{destination: destination, flush: typedDestination.Flush}
	default:
		return &FlushingWriter{destination: destination}
	}
}

// Write forwards data and flushes the destination when it buffers.
func (writer *FlushingWriter) Write(data []byte) (int, error) {
	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	bytesWritten, writeError := writer.destination.Write(data)
	if writeError != nil || writer.flush == nil {
		return bytesWritten, writeError
	}
	return bytesWritten, writer.flush()
}
