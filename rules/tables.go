package rules

import "strings"

// symbolTable matches canonical symbols by exact name or package/type prefix
type symbolTable struct {
	exact    map[string]bool
	prefixes []string
}

func newSymbolTable(exact []string, prefixes ...string) *symbolTable {
	result := &symbolTable{exact: make(map[string]bool)}
	for _, symbol := range exact {
		result.exact[symbol] = true
	}
	result.prefixes = prefixes
	return result
}

func (t *symbolTable) Contains(symbol string) bool {
	if symbol == "" {
		return false
	}
	if t.exact[symbol] {
		return true
	}
	for _, prefix := range t.prefixes {
		if strings.HasPrefix(symbol, prefix) {
			return true
		}
	}
	return false
}

var wallClockCalls = newSymbolTable([]string{
	"time.Now",
	"time.Since",
	"time.Until",
})

// seeded random constructors; exempt when every seed argument is deterministic
var seededRandomCalls = newSymbolTable([]string{
	"math/rand.NewSource",
	"math/rand/v2.NewPCG",
	"math/rand/v2.NewChaCha8",
})

// ambient randomness with no seeding surface at all
var ambientRandomCalls = newSymbolTable([]string{
	"math/rand.Int",
	"math/rand.Intn",
	"math/rand.Int31",
	"math/rand.Int31n",
	"math/rand.Int63",
	"math/rand.Int63n",
	"math/rand.Uint32",
	"math/rand.Uint64",
	"math/rand.Float32",
	"math/rand.Float64",
	"math/rand.ExpFloat64",
	"math/rand.NormFloat64",
	"math/rand.Perm",
	"math/rand.Shuffle",
	"math/rand.Seed",
	"crypto/rand.Read",
	"crypto/rand.Int",
	"crypto/rand.Prime",
}, "math/rand/v2.Int", "math/rand/v2.Uint", "math/rand/v2.Float")

var uuidCalls = newSymbolTable([]string{
	"github.com/google/uuid.New",
	"github.com/google/uuid.NewString",
	"github.com/google/uuid.NewRandom",
	"github.com/google/uuid.NewUUID",
	"github.com/google/uuid.NewV7",
})

var ioCalls = newSymbolTable([]string{
	"os.Open",
	"os.OpenFile",
	"os.Create",
	"os.CreateTemp",
	"os.ReadFile",
	"os.WriteFile",
	"os.ReadDir",
	"os.Remove",
	"os.RemoveAll",
	"os.Rename",
	"os.Mkdir",
	"os.MkdirAll",
	"os.MkdirTemp",
	"os.Stat",
	"os.Lstat",
	"net.Dial",
	"net.DialTimeout",
	"net.Listen",
	"net.LookupHost",
	"net.LookupIP",
	"net/http.Get",
	"net/http.Post",
	"net/http.PostForm",
	"net/http.Head",
	"net/http.Client.Do",
	"net/http.Client.Get",
	"net/http.Client.Post",
	"net/http.Client.PostForm",
	"net/http.Client.Head",
})

// ambient client variables whose reads tie the orchestrator to external I/O
var ambientClientReads = newSymbolTable([]string{
	"net/http.DefaultClient",
	"net/http.DefaultTransport",
})

var environmentCalls = newSymbolTable([]string{
	"os.Getenv",
	"os.LookupEnv",
	"os.Setenv",
	"os.Unsetenv",
	"os.Environ",
	"os.Clearenv",
	"os.ExpandEnv",
	"os.Hostname",
	"os.Getpid",
	"os.Getppid",
	"os.Getuid",
	"os.Getwd",
	"os.UserHomeDir",
	"os.UserCacheDir",
	"os.UserConfigDir",
	"os/user.Current",
	"os/user.Lookup",
	"os/user.LookupId",
})

var blockingCalls = newSymbolTable([]string{
	"time.Sleep",
	"sync.WaitGroup.Wait",
})

var ambientAsyncCalls = newSymbolTable([]string{
	"time.After",
	"time.Tick",
	"time.NewTimer",
	"time.NewTicker",
	"time.AfterFunc",
})

var concurrencyCalls = newSymbolTable([]string{
	"sync.Mutex.Lock",
	"sync.Mutex.TryLock",
	"sync.Mutex.Unlock",
	"sync.RWMutex.Lock",
	"sync.RWMutex.TryLock",
	"sync.RWMutex.RLock",
	"sync.RWMutex.TryRLock",
	"sync.RWMutex.Unlock",
	"sync.RWMutex.RUnlock",
	"sync.Once.Do",
	"sync.Cond.Wait",
	"sync.Cond.Signal",
	"sync.Cond.Broadcast",
	"sync.Map.Load",
	"sync.Map.Store",
	"sync.Map.Delete",
	"sync.Map.LoadOrStore",
	"sync.Map.LoadAndDelete",
	"sync.Map.Range",
	"sync.OnceFunc",
	"sync.OnceValue",
	"runtime.Gosched",
	"runtime.GOMAXPROCS",
}, "sync/atomic.", "golang.org/x/sync/errgroup.", "golang.org/x/sync/semaphore.", "golang.org/x/sync/singleflight.")

// AmbientReason classifies a symbol as a known non-deterministic ambient
// source, returning the provenance reason. Used by the provenance analyzer to
// attribute seed and operand judgments.
func AmbientReason(symbol string) (string, bool) {
	switch {
	case wallClockCalls.Contains(symbol):
		return "reads ambient wall-clock time", true
	case ambientRandomCalls.Contains(symbol) || seededRandomCalls.Contains(symbol):
		return "derives from an ambient random source", true
	case environmentCalls.Contains(symbol):
		return "reads process environment or host state", true
	case uuidCalls.Contains(symbol):
		return "generates a non-deterministic identifier", true
	}
	return "", false
}
