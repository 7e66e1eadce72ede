package rpcserver

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

// ChunkMode distinguishes an in-progress chunk from the final one that
// triggers assembly (§6: "a final request with mode Full triggers assembly
// and parse").
type ChunkMode string

const (
	ChunkPartial ChunkMode = "Partial"
	ChunkFull    ChunkMode = "Full"
)

// Chunk is one ordered slice of a large request body, keyed by a
// sender-chosen index.
type Chunk struct {
	RequestId string
	Index     int
	Data      string
	Mode      ChunkMode
}

// chunkAssembler buffers chunks per request id until a Full chunk triggers
// reassembly and JSON parse.
type chunkAssembler struct {
	mu      sync.Mutex
	pending map[string]map[int]string
}

func newChunkAssembler() *chunkAssembler {
	return &chunkAssembler{pending: make(map[string]map[int]string)}
}

// AddChunk buffers one chunk; once a Full chunk arrives it concatenates
// every buffered index in order, parses the result as JSON into out, and
// discards the buffer for that request id.
func (s *Server) AddChunk(chunk Chunk, out interface{}) (assembled bool, err error) {
	s.chunks.mu.Lock()
	defer s.chunks.mu.Unlock()

	buf, ok := s.chunks.pending[chunk.RequestId]
	if !ok {
		buf = make(map[int]string)
		s.chunks.pending[chunk.RequestId] = buf
	}
	buf[chunk.Index] = chunk.Data

	if chunk.Mode != ChunkFull {
		return false, nil
	}
	defer delete(s.chunks.pending, chunk.RequestId)

	indices := make([]int, 0, len(buf))
	for i := range buf {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	var full string
	for _, i := range indices {
		full += buf[i]
	}

	if err := json.Unmarshal([]byte(full), out); err != nil {
		return false, errs.NewBadRequest("", "", "chunked_request", fmt.Errorf("assembling %s: %w", chunk.RequestId, err))
	}
	return true, nil
}
