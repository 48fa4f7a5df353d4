// Command divchash-datasetgen generates deterministic uint64 key datasets
// for standalone benchmarking of divchash tables (outside `go test`), and
// optionally persists the generated dataset into a Badger store under the
// key "dataset:<name>" (-name), overwriting any dataset stored under that
// name. Every run generates its keys afresh; nothing is read back from the
// store.
//
// Usage:
//
//	go run ./cmd/divchash-datasetgen -n 1000000 -dist=zipf -seed=42 -out keys.txt
//	go run ./cmd/divchash-datasetgen -n 1000000 -store ./datasets.badger -name nightly-run
//
// Adapted from Voskan/arena-cache/tools/dataset_gen/dataset_gen.go: the
// uniform/zipf generation loop is unchanged; -store/-name are new, and
// reuse the singleflight technique from Voskan/arena-cache/pkg/loader.go
// (there used to deduplicate concurrent GetOrLoad misses on the same key;
// here to deduplicate concurrent regeneration of the same named dataset)
// instead of dropping it along with the rest of the loader subsystem (see
// DESIGN.md's "dropped teacher modules" section).
//
// © 2025 divchash authors. MIT License.
package main

import (
	"bufio"
	"encoding/binary"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"golang.org/x/sync/singleflight"
)

var datasetGroup singleflight.Group

func main() {
	var (
		n       = flag.Int("n", 1_000_000, "number of keys to generate")
		dist    = flag.String("dist", "uniform", "distribution: uniform or zipf")
		zipfS   = flag.Float64("zipfs", 1.2, "zipf s parameter (>1)")
		zipfV   = flag.Float64("zipfv", 1.0, "zipf v parameter (>=1)")
		seedVal = flag.Int64("seed", time.Now().UnixNano(), "PRNG seed")
		outPath = flag.String("out", "", "output file (default stdout)")
		store   = flag.String("store", "", "Badger directory to persist the dataset into (optional)")
		name    = flag.String("name", "", "dataset name under -store; required if -store is set")
	)
	flag.Parse()

	keys, err := generate(*n, *dist, *zipfS, *zipfV, *seedVal)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := writeText(*outPath, keys); err != nil {
		fmt.Fprintln(os.Stderr, "cannot write output:", err)
		os.Exit(1)
	}

	if *store != "" {
		if *name == "" {
			fmt.Fprintln(os.Stderr, "-name is required when -store is set")
			os.Exit(1)
		}
		if err := persist(*store, *name, keys); err != nil {
			fmt.Fprintln(os.Stderr, "cannot persist dataset:", err)
			os.Exit(1)
		}
	}
}

func generate(n int, dist string, zipfS, zipfV float64, seed int64) ([]uint64, error) {
	rnd := rand.New(rand.NewSource(seed))

	var gen func() uint64
	switch dist {
	case "uniform":
		gen = rnd.Uint64
	case "zipf":
		if zipfS <= 1.0 || zipfV < 1.0 {
			return nil, fmt.Errorf("zipfs must be >1 and zipfv >=1")
		}
		z := rand.NewZipf(rnd, zipfS, zipfV, ^uint64(0))
		gen = z.Uint64
	default:
		return nil, fmt.Errorf("unknown dist: %s", dist)
	}

	keys := make([]uint64, n)
	for i := range keys {
		keys[i] = gen()
	}
	return keys, nil
}

func writeText(outPath string, keys []uint64) error {
	var out *os.File
	if outPath == "" {
		out = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	w := bufio.NewWriterSize(out, 1<<20)
	for _, k := range keys {
		fmt.Fprintln(w, k)
	}
	return w.Flush()
}

// persist stores keys under name in a Badger database at dir, deduplicating
// concurrent regeneration requests for the same name via singleflight —
// a second call with the same name blocks on the first's write instead of
// opening the database twice.
func persist(dir, name string, keys []uint64) error {
	_, err, _ := datasetGroup.Do(name, func() (any, error) {
		opts := badger.DefaultOptions(dir)
		db, err := badger.Open(opts)
		if err != nil {
			return nil, err
		}
		defer db.Close()

		return nil, db.Update(func(txn *badger.Txn) error {
			buf := make([]byte, 8*len(keys))
			for i, k := range keys {
				binary.LittleEndian.PutUint64(buf[i*8:], k)
			}
			return txn.Set([]byte("dataset:"+name), buf)
		})
	})
	return err
}
