// Package match resolves query images to enrolled identities.
package match

import (
	"context"
	"log"
	"path/filepath"

	"github.com/kozaktomas/face-gate/internal/recognizer"
	"github.com/kozaktomas/face-gate/internal/store"
)

// ResolvedIdentity is the outcome of a matching scan. Found=false means
// no enrolled reference matched; Name is then empty.
type ResolvedIdentity struct {
	Found bool
	Name  string
}

// Engine scans the reference store and verifies the query against each
// candidate. It only reads the store, so engines are safe to share across
// concurrent requests.
type Engine struct {
	store    *store.Store
	verifier recognizer.Verifier
}

func NewEngine(st *store.Store, verifier recognizer.Verifier) *Engine {
	return &Engine{store: st, verifier: verifier}
}

// Resolve finds the enrolled identity matching the query image.
//
// Candidates are visited in store order and the first verified match wins;
// the scan stops immediately without looking for a globally closer match.
// This trades accuracy on large ambiguous stores for latency, which fits
// the small reference sets this gateway is built for. Per-candidate
// failures (unreadable file, no face detected) are logged and treated as
// non-matches so one bad reference never aborts the scan. Only a failure
// to enumerate the store itself is fatal.
func (e *Engine) Resolve(ctx context.Context, query []byte) (ResolvedIdentity, error) {
	refs, err := e.store.List()
	if err != nil {
		return ResolvedIdentity{}, err
	}

	for _, ref := range refs {
		refImg, err := e.store.ReadImage(ref)
		if err != nil {
			log.Printf("skipping reference %s: %v", filepath.Base(ref.Path), err)
			continue
		}

		result, err := e.verifier.Verify(ctx, query, refImg)
		if err != nil {
			log.Printf("comparison with %s failed: %v", filepath.Base(ref.Path), err)
			continue
		}
		if !result.Verified {
			continue
		}

		return ResolvedIdentity{
			Found: true,
			Name:  e.store.GetName(ref.Identity),
		}, nil
	}

	return ResolvedIdentity{}, nil
}
