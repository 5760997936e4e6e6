package sim

import (
	"log"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator hands out unique IDs.
type IDGenerator interface {
	Generate() string
}

var (
	idGeneratorLock sync.Mutex
	idGenerator     IDGenerator
)

// GetIDGenerator returns the process-wide generator. Unless
// UseParallelIDGenerator was called first, IDs are sequential numbers.
func GetIDGenerator() IDGenerator {
	idGeneratorLock.Lock()
	defer idGeneratorLock.Unlock()

	if idGenerator == nil {
		idGenerator = &sequentialIDGenerator{}
	}

	return idGenerator
}

// UseParallelIDGenerator switches to xid-based IDs, which do not depend on
// the order in which goroutines ask for them. It panics once an ID has been
// generated.
func UseParallelIDGenerator() {
	idGeneratorLock.Lock()
	defer idGeneratorLock.Unlock()

	if idGenerator != nil {
		log.Panic("cannot change the id generator after it is used")
	}

	idGenerator = parallelIDGenerator{}
}

type sequentialIDGenerator struct {
	next atomic.Uint64
}

func (g *sequentialIDGenerator) Generate() string {
	return strconv.FormatUint(g.next.Add(1), 10)
}

type parallelIDGenerator struct{}

func (parallelIDGenerator) Generate() string {
	return xid.New().String()
}
